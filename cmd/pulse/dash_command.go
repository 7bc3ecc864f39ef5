package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmhart/pulse/internal/ui"
)

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Open the live dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := ui.NewDashboard(database, svc, cfg)
			p := tea.NewProgram(view, tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}
