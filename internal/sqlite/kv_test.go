package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/pirarucu/internal/domain/count"
	"github.com/rpggio/pirarucu/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestKVStore_GetSetRemove(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	store := NewKVStore(db)

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "two", value)

	var rows int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_entries`).Scan(&rows))
	require.Equal(t, 1, rows)

	require.NoError(t, store.Remove(ctx, "k"))
	require.NoError(t, store.Remove(ctx, "k"))
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, store.Set(ctx, "", "x"), repository.ErrInvalidInput)
}

func TestKVStore_SessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := count.NewRepository(NewKVStore(NewTestDB(t)))

	sess := count.CountSession{ID: "s1", Environment: "Lago Preto", Counter: "João"}
	sess.AddEvent(2, 1, "09:00:00")
	require.NoError(t, repo.AppendFinalized(ctx, sess))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []count.CountSession{sess}, loaded)

	require.NoError(t, repo.ClearAll(ctx))
	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)
}
