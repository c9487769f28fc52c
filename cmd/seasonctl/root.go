package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
)

const appVersion = "dev"

type rootOptions struct {
	envFile  string
	provider string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "seasonctl",
		Short: "Operate on the synchronized season state",
		Long: `seasonctl runs one-shot refreshes against the simulation backend and dumps
the normalized season, world and statline state as JSON.

Configuration comes from the same environment variables as the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       appVersion,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "override PROVIDER (fixture or dysapi)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL")

	cmd.AddCommand(newRefreshCmd(opts), newDumpCmd(opts))
	return cmd
}

// load resolves configuration and a stderr logger for a subcommand.
func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, nil, err
	}
	cfg := config.Load()
	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "seasonctl",
		Version: appVersion,
		Output:  os.Stderr,
	})
	return cfg, logger, nil
}
