package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"go-newscrew/internal/config"
	"go-newscrew/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

func Execute() error {
	return rootCmd().Execute()
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "newscrew",
		Short:        "Fetch a news article, categorize it and summarize it with Gemini",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.Logging.Level = logLevel
			}
			cfg = c
			// The CLI writes results to stdout, so logs stay quiet unless asked for.
			level := c.Logging.Level
			if !cmd.Flags().Changed("log-level") && cmd.Name() != "serve" {
				level = "warn"
			}
			log = logging.New(level, true)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to config.json")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(analyzeCmd(), serveCmd(), historyCmd())
	return root
}
