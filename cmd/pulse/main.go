package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/config"
	"github.com/jmhart/pulse/internal/db"
	"github.com/jmhart/pulse/internal/tracker"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Shared by every command, wired up in the root PersistentPreRunE.
var (
	cfg      *config.Config
	database *db.DB
	svc      *tracker.Service
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Personal productivity tracker",
		Long:          "pulse tracks tasks, timers, manually logged time and daily check-ins.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if user, _ := cmd.Flags().GetString("user"); user != "" {
				cfg.User = user
			}
			if database != nil {
				return nil
			}
			if cfg.DBPath != "" {
				database, err = db.Open(cfg.DBPath)
			} else {
				database, err = db.New()
			}
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			svc = tracker.New(database)
			return nil
		},
	}

	root.PersistentFlags().String("user", "", "act as this user id (defaults to the configured user)")

	root.AddCommand(
		newStartCmd(),
		newStopCmd(),
		newStatusCmd(),
		newLogCmd(),
		newEntryCmd(),
		newTaskCmd(),
		newCheckinCmd(),
		newStatsCmd(),
		newDashCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	root := newRootCmd()
	err := root.Execute()
	if database != nil {
		database.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, renderErr(err))
		os.Exit(1)
	}
}

// renderErr turns the tracker error taxonomy into messages that tell the
// user what to do next.
func renderErr(err error) string {
	switch {
	case errors.Is(err, tracker.ErrAlreadyRunning):
		return "a timer is already running — stop it first with 'pulse stop'"
	case errors.Is(err, tracker.ErrNotActive):
		return "that entry is not the active timer — check 'pulse status'"
	case errors.Is(err, tracker.ErrEntryRunning):
		return "that entry is still running — stop it first with 'pulse stop'"
	case errors.Is(err, tracker.ErrInvalidRange):
		return "invalid time range: start must be before end, and end cannot be in the future"
	case errors.Is(err, tracker.ErrAlreadyCompleted):
		return "that task is already completed"
	case errors.Is(err, tracker.ErrTaskHasEntries):
		return "that task still has time entries — delete or move them first"
	case errors.Is(err, tracker.ErrNotFound):
		return "not found"
	default:
		return fmt.Sprintf("error: %v", err)
	}
}
