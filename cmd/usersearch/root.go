package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/usersearch"
	"github.com/hupe1980/usersearch/internal/config"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *usersearch.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "usersearch",
		Short:         "Fuzzy search over a user directory",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level, _ := cfg.Log.SlogLevel()
			opts := &slog.HandlerOptions{Level: level}
			if cfg.Log.Format == "json" {
				a.logger = usersearch.NewLogger(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
			} else {
				a.logger = usersearch.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "usersearch.yaml", "Path to the YAML configuration")

	rootCmd.AddCommand(newQueryCmd(a))
	rootCmd.AddCommand(newSnapshotCmd(a))

	return rootCmd
}
