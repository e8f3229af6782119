package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "adeslas-chat-history")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, "adeslas-chat-history", []byte(`[{"sender":"user","text":"hi"}]`)))
	require.NoError(t, store.Save(ctx, "adeslas-chat-history", []byte(`[{"sender":"user","text":"hola"}]`)))

	data, err := store.Load(ctx, "adeslas-chat-history")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sender":"user","text":"hola"}]`, string(data))

	require.NoError(t, store.Delete(ctx, "adeslas-chat-history"))
	_, err = store.Load(ctx, "adeslas-chat-history")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, "never-written"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	exerciseStore(t, store)
}

func TestMemoryStoreCopiesPayload(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	payload := []byte(`[]`)
	require.NoError(t, store.Save(ctx, "k", payload))
	payload[0] = 'x'

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "snapshots.db"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "k", []byte(`[1]`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(data))
}
