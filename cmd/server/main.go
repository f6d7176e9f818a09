package main

import (
	"context"
	"fmt"
	"os"

	"go-newscrew/internal/api"
	"go-newscrew/internal/app"
	"go-newscrew/internal/config"
	"go-newscrew/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Pretty)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Startup error: %v\n", err)
		os.Exit(1)
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
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
