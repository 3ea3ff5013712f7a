// Package refresh re-derives the export summary on a schedule and caches it
// in the key-value store.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/repository"
)

// Snapshotter hands out a session snapshot while holding off writers.
type Snapshotter interface {
	Snapshot(ctx context.Context, fn func([]count.CountSession) error) error
}

// Refresher recomputes the summary from a freshly loaded snapshot on every
// pass. It never updates a previous summary incrementally.
type Refresher struct {
	sessions Snapshotter
	cache    repository.KeyValueStore
	opts     report.Options
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Refresher. A non-positive interval disables Run.
func New(sessions Snapshotter, store repository.KeyValueStore, opts report.Options, interval time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Refresher{
		sessions: sessions,
		cache:    store,
		opts:     opts,
		interval: interval,
		logger:   logger,
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	r.tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.logger.Warn("summary refresh failed", "error", err)
	}
}

// Refresh runs one pass. It returns nil and clears the cache when there are
// no sessions.
func (r *Refresher) Refresh(ctx context.Context) (*report.Summary, error) {
	var summary *report.Summary
	err := r.sessions.Snapshot(ctx, func(sessions []count.CountSession) error {
		var err error
		summary, err = r.summarize(ctx, sessions)
		return err
	})
	if err != nil {
		return nil, err
	}
	if summary != nil {
		r.logger.Debug("summary refreshed", "rows", summary.RowCount, "sessions", summary.SessionCount)
	}
	return summary, nil
}

func (r *Refresher) summarize(ctx context.Context, sessions []count.CountSession) (*report.Summary, error) {
	summary, err := report.Summarize(sessions, r.opts)
	if errors.Is(err, report.ErrEmptyDataset) {
		if err := r.cache.Remove(ctx, count.SummaryKey); err != nil {
			return nil, fmt.Errorf("clearing summary: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}
	if err := r.cache.Set(ctx, count.SummaryKey, string(data)); err != nil {
		return nil, fmt.Errorf("caching summary: %w", err)
	}
	return summary, nil
}

// Cached returns the last stored summary, or repository.ErrNotFound.
func (r *Refresher) Cached(ctx context.Context) (*report.Summary, error) {
	raw, err := r.cache.Get(ctx, count.SummaryKey)
	if err != nil {
		return nil, err
	}
	var summary report.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("decoding cached summary: %w", err)
	}
	return &summary, nil
}
