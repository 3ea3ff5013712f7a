package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rpggio/pirarucu/internal/app"
	"github.com/rpggio/pirarucu/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pirarucu",
		Short:         "Inspect, export and exchange pirarucu count sessions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(sessionsCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(clearCmd())
	return rootCmd
}

// openApp loads configuration and opens the configured store.
func openApp(ctx context.Context, cmd *cobra.Command) (*app.App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("config: %w", err)
	}
	// Service logs stay out of command output unless debugging.
	logger := slog.New(slog.DiscardHandler)
	if cfg.Log.Level == "debug" {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	a, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return nil, config.Config{}, err
	}
	return a, cfg, nil
}
