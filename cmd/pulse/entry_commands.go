package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/tracker"
)

func newLogCmd() *cobra.Command {
	var (
		taskID   int64
		newTitle string
		from     string
		to       string
		focus    int
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a finished block of time manually",
		Long: `Log a finished block of time against a task.

Use --task with an existing task id, or --new-task with a title to create a
minimal task for the entry. Times accept "15:04" (today) or
"2006-01-02 15:04".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseWhen(from)
			if err != nil {
				return err
			}
			end, err := parseWhen(to)
			if err != nil {
				return err
			}

			log := tracker.ManualLog{
				Start: start,
				End:   end,
				Notes: notes,
			}
			if cmd.Flags().Changed("task") {
				log.TaskID = &taskID
			} else {
				log.NewTaskTitle = newTitle
			}
			if cmd.Flags().Changed("focus") {
				log.FocusScore = &focus
			}

			entry, err := svc.LogManualTime(cfg.User, log)
			if err != nil {
				return err
			}
			fmt.Printf("logged %s against task %d (entry %d)\n",
				formatMinutes(entry.DurationMinutes), entry.TaskID, entry.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "existing task id")
	cmd.Flags().StringVar(&newTitle, "new-task", "", "create a task with this title")
	cmd.Flags().StringVar(&from, "from", "", "start time")
	cmd.Flags().StringVar(&to, "to", "", "end time")
	cmd.Flags().IntVar(&focus, "focus", 0, "focus score 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Edit or delete time entries",
	}
	cmd.AddCommand(newEntryEditCmd(), newEntryRmCmd())
	return cmd
}

func newEntryEditCmd() *cobra.Command {
	var (
		taskID int64
		from   string
		to     string
		focus  int
		notes  string
	)
	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Edit a closed time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch tracker.EntryPatch
			if cmd.Flags().Changed("task") {
				patch.TaskID = &taskID
			}
			if cmd.Flags().Changed("from") {
				start, err := parseWhen(from)
				if err != nil {
					return err
				}
				patch.Start = &start
			}
			if cmd.Flags().Changed("to") {
				end, err := parseWhen(to)
				if err != nil {
					return err
				}
				patch.End = &end
			}
			if cmd.Flags().Changed("focus") {
				patch.FocusScore = &focus
			}
			if cmd.Flags().Changed("notes") {
				patch.Notes = &notes
			}

			entry, err := svc.UpdateTimeEntry(cfg.User, entryID, patch)
			if err != nil {
				return err
			}
			fmt.Printf("entry %d: %s on task %d\n",
				entry.ID, formatMinutes(entry.DurationMinutes), entry.TaskID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&taskID, "task", 0, "move the entry to this task")
	cmd.Flags().StringVar(&from, "from", "", "new start time")
	cmd.Flags().StringVar(&to, "to", "", "new end time")
	cmd.Flags().IntVar(&focus, "focus", 0, "focus score 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newEntryRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <entry-id>",
		Short: "Delete a closed time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteTimeEntry(cfg.User, entryID); err != nil {
				return err
			}
			fmt.Printf("deleted entry %d\n", entryID)
			return nil
		},
	}
}

// parseWhen accepts "15:04" (interpreted as today) or "2006-01-02 15:04".
func parseWhen(value string) (time.Time, error) {
	now := time.Now()
	if t, err := time.ParseInLocation("15:04", value, time.Local); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), 0, 0, time.Local), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want \"15:04\" or \"2006-01-02 15:04\")", value)
}
