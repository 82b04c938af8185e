// Package watch triggers rebuilds when build inputs change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wwscc/distbuilder/internal/logfields"
)

// RebuildFunc runs one build. changed lists the paths seen since the last run.
type RebuildFunc func(ctx context.Context, changed []string) error

// Watcher debounces file system events into sequential rebuilds. Rebuilds run
// on the watcher goroutine, so they never overlap; events arriving during a
// rebuild are coalesced into the next one.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	rebuild  RebuildFunc
	dirs     map[string]bool            // watch every entry
	files    map[string]map[string]bool // dir -> base names of interest
}

// New creates a watcher. Call WatchDir/WatchFile before Run.
func New(debounce time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher:  fw,
		debounce: debounce,
		rebuild:  rebuild,
		dirs:     map[string]bool{},
		files:    map[string]map[string]bool{},
	}, nil
}

// WatchDir reacts to any change directly inside dir.
func (w *Watcher) WatchDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if err := w.add(abs); err != nil {
		return err
	}
	w.dirs[abs] = true
	return nil
}

// WatchFile reacts to changes of a single file. The parent directory is
// watched so editors that replace files on save are still noticed.
func (w *Watcher) WatchFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := w.add(dir); err != nil {
		return err
	}
	if w.files[dir] == nil {
		w.files[dir] = map[string]bool{}
	}
	w.files[dir][filepath.Base(abs)] = true
	return nil
}

func (w *Watcher) add(dir string) error {
	if w.dirs[dir] || w.files[dir] != nil {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	dir := filepath.Dir(ev.Name)
	if w.dirs[dir] {
		return true
	}
	return w.files[dir][filepath.Base(ev.Name)]
}

// Run blocks until ctx is done, rebuilding after each quiet period that
// follows a relevant change.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			pending[ev.Name] = true
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(err))
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			slog.Info("Rebuilding after changes", logfields.Count(len(changed)))
			if err := w.rebuild(ctx, changed); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}
