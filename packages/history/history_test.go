package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("sqlite:" + filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndList(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Record("GET", "http://example.com/a", 200, 120*time.Millisecond, 512))
	require.NoError(t, store.Record("POST", "http://example.com/b", 201, 80*time.Millisecond, 64))

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
	methods := []string{entries[0].Method, entries[1].Method}
	assert.Contains(t, methods, "GET")
	assert.Contains(t, methods, "POST")
}

func TestStore_ListLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record("GET", "http://example.com/", 200, time.Millisecond, 1))
	}

	entries, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestStore_ListEmpty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseConnectionString(t *testing.T) {
	assert.Equal(t, "./h.db", parseConnectionString("sqlite://./h.db"))
	assert.Equal(t, "./h.db", parseConnectionString("sqlite:./h.db"))
	assert.Equal(t, "/tmp/h.db", parseConnectionString("/tmp/h.db"))
}
