package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_RecordAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Record(ctx, Entry{ID: "1", Product: "Scorekeeper", Version: "1.0.0", Target: "win", Outcome: "success", Archive: "build/a.zip", Duration: 1500 * time.Millisecond, Timestamp: base}))
	require.NoError(t, store.Record(ctx, Entry{ID: "2", Product: "Scorekeeper", Version: "1.0.1", Target: "linux", Outcome: "failed", Duration: time.Second, Timestamp: base.Add(time.Hour)}))
	require.NoError(t, store.Record(ctx, Entry{ID: "3", Product: "Scorekeeper", Version: "1.0.2", Target: "win", Outcome: "warning", Duration: time.Second, Timestamp: base.Add(2 * time.Hour)}))

	all, err := store.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, 1500*time.Millisecond, all[2].Duration)
	assert.Equal(t, "build/a.zip", all[2].Archive)
	assert.True(t, base.Equal(all[2].Timestamp))

	win, err := store.Recent(ctx, "win", 1)
	require.NoError(t, err)
	require.Len(t, win, 1)
	assert.Equal(t, "3", win[0].ID)
}

func TestSQLiteStore_Persistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Entry{ID: "x", Product: "P", Version: "1", Target: "t", Outcome: "success"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	entries, err := reopened.Recent(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].ID)
}
