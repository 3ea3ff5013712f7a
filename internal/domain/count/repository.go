package count

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/pirarucu/internal/repository"
)

const (
	// SessionsKey holds the JSON-encoded session list.
	SessionsKey = "pirarucu:sessions"
	// SummaryKey holds the cached export summary.
	SummaryKey = "pirarucu:summary"
)

// Repository keeps the canonical session list in a key-value store.
type Repository struct {
	store repository.KeyValueStore
}

// NewRepository creates a Repository over store.
func NewRepository(store repository.KeyValueStore) *Repository {
	return &Repository{store: store}
}

// LoadAll returns every persisted session, or an empty slice on first run.
func (r *Repository) LoadAll(ctx context.Context) ([]CountSession, error) {
	raw, err := r.store.Get(ctx, SessionsKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []CountSession{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	sessions := []CountSession{}
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("%w: decoding sessions: %w", ErrStorageRead, err)
	}
	if sessions == nil {
		sessions = []CountSession{}
	}
	return sessions, nil
}

// AppendFinalized adds a finalized session to the persisted list. It does not
// deduplicate.
func (r *Repository) AppendFinalized(ctx context.Context, sess CountSession) error {
	sessions, err := r.LoadAll(ctx)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, append(sessions, sess))
}

// ReplaceAll persists sessions as the complete list in a single write.
func (r *Repository) ReplaceAll(ctx context.Context, sessions []CountSession) error {
	if sessions == nil {
		sessions = []CountSession{}
	}
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	if err := r.store.Set(ctx, SessionsKey, string(data)); err != nil {
		return fmt.Errorf("saving sessions: %w", err)
	}
	return nil
}

// ClearAll removes every persisted session and the cached summary.
func (r *Repository) ClearAll(ctx context.Context) error {
	if err := r.store.Remove(ctx, SessionsKey); err != nil {
		return fmt.Errorf("removing sessions: %w", err)
	}
	if err := r.store.Remove(ctx, SummaryKey); err != nil {
		return fmt.Errorf("removing summary: %w", err)
	}
	return nil
}
