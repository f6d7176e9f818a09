package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-newscrew/internal/api"
	"go-newscrew/internal/app"
)

func serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.Server.Port = port
			}
			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			r := api.SetupRouter(cfg, &api.Services{
				Analyzer: a.Crew,
				History:  a.History,
				Usage:    a.Usage,
				Log:      log,
			})
			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			log.Info().Str("addr", addr).Str("subpath", cfg.Server.Subpath).Msg("starting server")
			return r.Run(addr)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "override server.port")
	return cmd
}
