package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/aura/internal/config"
	"github.com/aretw0/aura/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Aura is a voice-assistant mattress advisor",
	Long: `Aura serves a Yandex Alice webhook that asks a few questions about the sleeper
and recommends mattress models. Settings come from aura.yaml, the environment and flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./aura.yaml if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose logging and a version tag in the greeting")
}

// loadConfig resolves configuration for a command and builds its logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger := logging.NewWithWriter(os.Stderr, logging.ParseLevel(level), cfg.LogJSON)
	return cfg, logger, nil
}
