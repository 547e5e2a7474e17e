package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kanbohq/kanbo/internal/settings"
)

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the persisted theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			prefs, closeFn, err := openSettings(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if len(args) == 0 {
				fmt.Fprintln(os.Stdout, settings.Theme(cmd.Context(), prefs))
				return nil
			}

			theme := args[0]
			if theme != settings.ThemeLight && theme != settings.ThemeDark {
				return fmt.Errorf("theme must be %q or %q", settings.ThemeLight, settings.ThemeDark)
			}
			if err := prefs.Set(cmd.Context(), settings.KeyTheme, theme); err != nil {
				return err
			}
			log.Info().Msgf("theme set to %s", theme)
			return nil
		},
	}
}
