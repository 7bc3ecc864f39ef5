package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <task-id>",
		Short: "Start tracking time against a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := svc.StartTracking(cfg.User, taskID)
			if err != nil {
				return err
			}
			task, err := svc.GetTask(cfg.User, taskID)
			if err != nil {
				return err
			}
			fmt.Printf("tracking %q (entry %d, started %s)\n",
				task.Title, entry.ID, entry.Start.Local().Format("15:04"))
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := svc.ActiveEntry(cfg.User)
			if err != nil {
				return err
			}
			if active == nil {
				fmt.Println("no timer running")
				return nil
			}
			entry, err := svc.StopTracking(cfg.User, active.ID)
			if err != nil {
				return err
			}
			fmt.Printf("stopped: %s tracked\n", formatMinutes(entry.DurationMinutes))
			if entry.NeedsReview {
				fmt.Println("warning: stop time was not after start; duration clamped to zero and entry flagged for review")
			}
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := svc.ActiveEntry(cfg.User)
			if err != nil {
				return err
			}
			if active == nil {
				fmt.Println("no timer running")
				return nil
			}
			task, err := svc.GetTask(cfg.User, active.TaskID)
			if err != nil {
				return err
			}
			elapsed := int(time.Since(active.Start) / time.Minute)
			fmt.Printf("tracking %q since %s (%s, entry %d)\n",
				task.Title, active.Start.Local().Format("15:04"),
				formatMinutes(elapsed), active.ID)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
