package count

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/pirarucu/internal/format"
)

// Service handles the count session lifecycle.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	// mu serializes every load-then-write sequence and guards open and seq.
	mu   sync.Mutex
	open map[string]*openSession
	seq  uint64
}

// openSession tracks start order, since StartTime alone wraps at midnight.
type openSession struct {
	*CountSession
	seq uint64
}

// NewService creates a new count service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		open:   make(map[string]*openSession),
	}
}

// Start opens a new observation period.
func (s *Service) Start(ctx context.Context, req StartRequest) (*CountSession, error) {
	if strings.TrimSpace(req.Environment) == "" ||
		strings.TrimSpace(req.Sector) == "" ||
		strings.TrimSpace(req.Counter) == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	sess := &CountSession{
		ID:          uuid.NewString(),
		Environment: req.Environment,
		Sector:      req.Sector,
		Counter:     req.Counter,
		Date:        now.Format(format.DateLayout),
		StartTime:   now.Format(format.ClockLayout),
		Events:      []CountEvent{},
	}

	s.mu.Lock()
	s.seq++
	s.open[sess.ID] = &openSession{CountSession: sess, seq: s.seq}
	s.mu.Unlock()

	s.logger.Info("session started", "session_id", sess.ID, "environment", sess.Environment, "counter", sess.Counter)
	out := sess.Clone()
	return &out, nil
}

// RecordEvent appends a timed sub-count to an open session.
func (s *Service) RecordEvent(ctx context.Context, sessionID string, minor, major int) (*CountEvent, error) {
	if sessionID == "" || minor < 0 || major < 0 {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.open[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	event := sess.AddEvent(minor, major, s.now().Format(format.ClockLayout))
	s.logger.Debug("event recorded", "session_id", sessionID, "number", event.Number, "minor", minor, "major", major)
	return &event, nil
}

// Finalize closes an open session and persists it.
func (s *Service) Finalize(ctx context.Context, sessionID string) (*CountSession, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.open[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	final := sess.Clone()
	final.EndTime = s.now().Format(format.ClockLayout)
	final.RecomputeTotals()

	if err := s.store.AppendFinalized(ctx, final); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}
	delete(s.open, sessionID)

	s.logger.Info("session finalized", "session_id", final.ID, "events", len(final.Events), "total", final.Total())
	return &final, nil
}

// Discard drops an open session without persisting it.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.open[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.open, sessionID)
	s.logger.Info("session discarded", "session_id", sessionID)
	return nil
}

// Open returns the sessions that are started but not finalized, oldest first.
func (s *Service) Open(ctx context.Context) []CountSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*openSession, 0, len(s.open))
	for _, entry := range s.open {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	sessions := make([]CountSession, 0, len(entries))
	for _, entry := range entries {
		sessions = append(sessions, entry.Clone())
	}
	return sessions
}

// Snapshot loads the persisted sessions and passes them to fn. Import,
// Finalize and Clear wait until fn returns.
func (s *Service) Snapshot(ctx context.Context, fn func([]CountSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	return fn(sessions)
}

// List returns every persisted session.
func (s *Service) List(ctx context.Context) ([]CountSession, error) {
	return s.store.LoadAll(ctx)
}

// Import merges the sessions in payload into the persisted list.
func (s *Service) Import(ctx context.Context, payload []byte) (*ImportResult, error) {
	incoming, err := ParsePayload(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	local, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	merged := Merge(local, incoming)
	added := len(merged) - len(local)
	if added > 0 {
		if err := s.store.ReplaceAll(ctx, merged); err != nil {
			return nil, fmt.Errorf("saving merged sessions: %w", err)
		}
	}

	result := &ImportResult{
		Received: len(incoming),
		Added:    added,
		Skipped:  len(incoming) - added,
		Total:    len(merged),
	}
	s.logger.Info("sessions imported", "received", result.Received, "added", result.Added, "skipped", result.Skipped)
	return result, nil
}

// Clear removes every persisted session. Open sessions are kept.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Warn("persisted sessions cleared")
	return nil
}
