package main

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kanbohq/kanbo/internal/board"
	"github.com/kanbohq/kanbo/internal/web"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board as a web page",
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
			server := web.NewServer(store, newWorkflows(cfg, store), prefs)

			addr := fmt.Sprintf(":%d", port)
			log.Info().Msgf("serving board on http://localhost%s", addr)
			return http.ListenAndServe(addr, server.Routes())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	return cmd
}
