package refresh_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/domain/report"
	"github.com/rpggio/pirarucu/internal/refresh"
	"github.com/rpggio/pirarucu/internal/repository"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *count.Repository, ids ...string) {
	t.Helper()
	var sessions []count.CountSession
	for _, id := range ids {
		s := count.CountSession{ID: id, Environment: "Lake", Counter: "Ana"}
		s.AddEvent(1, 2, "10:00:00")
		sessions = append(sessions, s)
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), sessions))
}

func TestRefresher_RefreshAndCached(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	repo := count.NewRepository(store)
	r := refresh.New(count.NewService(repo, nil), store, report.Options{}, time.Minute, nil)

	_, err := r.Cached(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	seed(t, repo, "a", "b")
	summary, err := r.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, summary.RowCount)

	cached, err := r.Cached(ctx)
	require.NoError(t, err)
	require.Equal(t, summary, cached)

	// each pass is a full recomputation from the latest snapshot
	seed(t, repo, "a", "b", "c")
	summary, err = r.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.SessionCount)
	require.Equal(t, 9, summary.TotalGeral)
}

func TestRefresher_EmptyClearsCache(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	repo := count.NewRepository(store)
	r := refresh.New(count.NewService(repo, nil), store, report.Options{}, time.Minute, nil)

	seed(t, repo, "a")
	_, err := r.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	summary, err := r.Refresh(ctx)
	require.NoError(t, err)
	require.Nil(t, summary)
	_, err = r.Cached(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRefresher_CorruptStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Set(ctx, count.SessionsKey, "nope"))
	r := refresh.New(count.NewService(count.NewRepository(store), nil), store, report.Options{}, time.Minute, nil)

	_, err := r.Refresh(ctx)
	require.ErrorIs(t, err, count.ErrStorageRead)
}

func TestRefresher_Run(t *testing.T) {
	store := repository.NewMemoryStore()
	repo := count.NewRepository(store)
	seed(t, repo, "a")
	r := refresh.New(count.NewService(repo, nil), store, report.Options{}, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := r.Cached(context.Background())
		return err == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestRefresher_RunDisabled(t *testing.T) {
	store := repository.NewMemoryStore()
	r := refresh.New(count.NewService(count.NewRepository(store), nil), store, report.Options{}, 0, nil)
	r.Run(context.Background())
}

// clearingStore starts onSet in the background the first time the summary is
// written and waits briefly before letting the write through.
type clearingStore struct {
	repository.KeyValueStore
	onSet func() error
	done  chan error
}

func (s *clearingStore) Set(ctx context.Context, key, value string) error {
	if key == count.SummaryKey && s.onSet != nil {
		fn := s.onSet
		s.onSet = nil
		go func() { s.done <- fn() }()
		select {
		case err := <-s.done:
			s.done <- err
		case <-time.After(50 * time.Millisecond):
		}
	}
	return s.KeyValueStore.Set(ctx, key, value)
}

func TestRefresher_ClearDuringRefresh(t *testing.T) {
	ctx := context.Background()
	store := &clearingStore{KeyValueStore: repository.NewMemoryStore(), done: make(chan error, 1)}
	repo := count.NewRepository(store)
	svc := count.NewService(repo, nil)
	seed(t, repo, "a")

	store.onSet = func() error { return svc.Clear(ctx) }
	r := refresh.New(svc, store, report.Options{}, time.Minute, nil)
	summary, err := r.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, summary.SessionCount)
	require.NoError(t, <-store.done)

	_, err = r.Cached(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
	sessions, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, sessions)
}
