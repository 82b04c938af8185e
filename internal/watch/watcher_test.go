package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct {
	mu      sync.Mutex
	changed [][]string
	active  int
	overlap bool
}

func (c *calls) rebuild(_ context.Context, changed []string) error {
	c.mu.Lock()
	c.active++
	if c.active > 1 {
		c.overlap = true
	}
	c.changed = append(c.changed, changed)
	c.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return nil
}

func (c *calls) snapshot() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.changed...)
}

func startWatcher(t *testing.T, setup func(w *Watcher)) *calls {
	t.Helper()
	c := &calls{}
	w, err := New(50*time.Millisecond, c.rebuild)
	require.NoError(t, err)
	setup(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func TestWatcher_DirectoryChangeTriggersRebuild(t *testing.T) {
	lib := t.TempDir()
	c := startWatcher(t, func(w *Watcher) { require.NoError(t, w.WatchDir(lib)) })

	require.NoError(t, os.WriteFile(filepath.Join(lib, "a.jar"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "b.jar"), []byte("b"), 0o600))

	require.Eventually(t, func() bool { return len(c.snapshot()) > 0 }, 3*time.Second, 10*time.Millisecond)

	var seen []string
	for _, batch := range c.snapshot() {
		seen = append(seen, batch...)
	}
	abs, _ := filepath.Abs(lib)
	assert.Contains(t, seen, filepath.Join(abs, "a.jar"))
}

func TestWatcher_FileFilter(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "distbuilder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("product: x\n"), 0o600))
	c := startWatcher(t, func(w *Watcher) { require.NoError(t, w.WatchFile(cfgPath)) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, c.snapshot())

	require.NoError(t, os.WriteFile(cfgPath, []byte("product: y\n"), 0o600))
	require.Eventually(t, func() bool { return len(c.snapshot()) > 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestWatcher_RebuildsNeverOverlap(t *testing.T) {
	lib := t.TempDir()
	c := startWatcher(t, func(w *Watcher) { require.NoError(t, w.WatchDir(lib)) })

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(lib, "x.jar"), []byte{byte(i)}, 0o600))
		time.Sleep(60 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return len(c.snapshot()) > 0 }, 3*time.Second, 10*time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.False(t, c.overlap)
}
