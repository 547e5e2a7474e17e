package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/logging"
	"github.com/kanbohq/kanbo/internal/settings"
	"github.com/kanbohq/kanbo/internal/ui"
)

func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive kanban board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			prefs, closeFn, err := openSettings(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			store := board.NewStore()
			flows := newWorkflows(cfg, store)
			theme := settings.Theme(cmd.Context(), prefs)

			// Log lines would tear the alternate screen.
			logging.Silence(io.Discard)
			program := tea.NewProgram(ui.New(store, flows, prefs, theme), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}
