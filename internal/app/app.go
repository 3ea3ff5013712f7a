// Package app wires configuration to the domain services shared by the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rpggio/pirarucu/internal/config"
	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/export"
	"github.com/rpggio/pirarucu/internal/refresh"
	"github.com/rpggio/pirarucu/internal/repository"
	"github.com/rpggio/pirarucu/internal/storage"
)

// App holds the opened store and the services built on it.
type App struct {
	Store      repository.KeyValueStore
	Repository *count.Repository
	Counts     *count.Service
	Refresher  *refresh.Refresher
	Export     export.Options

	close func() error
}

// Open connects storage and builds the services described by cfg.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts, err := ExportOptions(cfg.Export)
	if err != nil {
		return nil, err
	}

	store, closeFn, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	repo := count.NewRepository(store)
	counts := count.NewService(repo, logger)
	return &App{
		Store:      store,
		Repository: repo,
		Counts:     counts,
		Refresher:  refresh.New(counts, store, opts.Report, cfg.Refresh.Interval, logger),
		Export:     opts,
		close:      closeFn,
	}, nil
}

// Close releases the storage connection.
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// ExportOptions converts export configuration into serializer options.
func ExportOptions(cfg config.ExportConfig) (export.Options, error) {
	delimiter, err := export.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return export.Options{}, err
	}
	order := report.OrderLexical
	switch cfg.OrdinalSort {
	case "", string(report.OrderLexical):
	case string(report.OrderNumeric):
		order = report.OrderNumeric
	default:
		return export.Options{}, fmt.Errorf("invalid ordinal sort %q", cfg.OrdinalSort)
	}
	return export.Options{
		Report:    report.Options{OrdinalOrder: order},
		Delimiter: delimiter,
	}, nil
}

// ParseLogLevel maps a config level name to a slog level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
