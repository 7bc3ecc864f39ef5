package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/tracker"
)

func newCheckinCmd() *cobra.Command {
	var (
		date       string
		priorities []string
		energy     int
		mood       int
		stress     int
		focusAreas []string
		motivation string
	)
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record or update today's check-in",
		Long: `Record the daily check-in: planned priorities, energy/mood/stress levels
and focus areas. One check-in exists per date; saving again updates it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}

			var patch tracker.CheckInPatch
			if cmd.Flags().Changed("priority") {
				patch.Priorities = &priorities
			}
			if cmd.Flags().Changed("energy") {
				patch.Energy = &energy
			}
			if cmd.Flags().Changed("mood") {
				patch.Mood = &mood
			}
			if cmd.Flags().Changed("stress") {
				patch.Stress = &stress
			}
			if cmd.Flags().Changed("focus-area") {
				patch.FocusAreas = &focusAreas
			}
			if cmd.Flags().Changed("motivation") {
				patch.Motivation = &motivation
			}

			checkin, err := svc.UpsertCheckIn(cfg.User, date, patch)
			if err != nil {
				return err
			}

			fmt.Printf("check-in for %s saved\n", checkin.Date)
			if len(checkin.Priorities) > 0 {
				fmt.Printf("  priorities: %s\n", strings.Join(checkin.Priorities, ", "))
			}
			levels := []struct {
				name  string
				value *int
			}{
				{"energy", checkin.Energy},
				{"mood", checkin.Mood},
				{"stress", checkin.Stress},
			}
			for _, l := range levels {
				if l.value != nil {
					fmt.Printf("  %s: %d/5\n", l.name, *l.value)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "priority for the day (repeatable, ordered)")
	cmd.Flags().IntVar(&energy, "energy", 0, "energy level 1-5")
	cmd.Flags().IntVar(&mood, "mood", 0, "mood level 1-5")
	cmd.Flags().IntVar(&stress, "stress", 0, "stress level 1-5")
	cmd.Flags().StringSliceVar(&focusAreas, "focus-area", nil, "focus area (repeatable)")
	cmd.Flags().StringVar(&motivation, "motivation", "", "what is driving you today")
	return cmd
}
