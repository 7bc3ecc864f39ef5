package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/dashboard"
)

func newStatsCmd() *cobra.Command {
	var rng string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := dashboard.Build(database, cfg.User, dashboard.Range(rng), time.Now())
			if err != nil {
				return err
			}

			st := report.Stats
			fmt.Printf("tracked %s over %d entries, %d tasks completed, %d active days\n",
				formatMinutes(st.TotalMinutes), st.EntryCount, st.TasksCompleted, st.ActiveDays)
			if st.AvgFocus > 0 {
				fmt.Printf("average focus %.1f/5\n", st.AvgFocus)
			}

			if len(report.DetailedBreakdown) > 0 {
				fmt.Println("\nby category:")
				for _, d := range report.DetailedBreakdown {
					fmt.Printf("  %-10s %8s  %5.1f%%  %d entries, %d tasks\n",
						d.Category, formatMinutes(d.Minutes), d.Percent, d.Entries, d.Tasks)
				}
			}

			if len(report.CategoryComparison) > 0 {
				fmt.Println("\nvs previous period:")
				for _, d := range report.CategoryComparison {
					sign := "+"
					if d.DeltaMinutes < 0 {
						sign = "-"
					}
					fmt.Printf("  %-10s %8s (%s%s)\n",
						d.Category, formatMinutes(d.CurrentMinutes),
						sign, formatMinutes(abs(d.DeltaMinutes)))
				}
			}

			fmt.Println("\ntrend:")
			for _, p := range report.ProductivityTrend {
				fmt.Printf("  %s  %8s  %d entries\n", p.Date, formatMinutes(p.Minutes), p.Entries)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rng, "range", string(dashboard.RangeToday), "today, week or month")
	return cmd
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
