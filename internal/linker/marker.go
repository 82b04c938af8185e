package linker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/wwscc/distbuilder/internal/config"
)

// Marker is the completion record written after a successful link.
type Marker struct {
	Modules  string    `json:"modules"`
	JDK      string    `json:"jdk"`
	Runtime  string    `json:"runtime"`
	LinkedAt time.Time `json:"linked_at"`
}

// Status reports what is known about the runtime image of a build.
type Status struct {
	RuntimeDir string
	Present    bool    // runtime directory exists
	Complete   bool    // a completion marker was found
	Marker     *Marker // nil unless Complete
}

// WriteMarker records a completed link for cfg.
func WriteMarker(cfg *config.BuildConfig, now time.Time) error {
	m := Marker{Modules: cfg.Modules, JDK: cfg.JDK, Runtime: cfg.RuntimeDir, LinkedAt: now.UTC()}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal runtime marker: %w", err)
	}
	path := cfg.RuntimeMarkerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write runtime marker: %w", err)
	}
	return nil
}

// ReadStatus inspects the runtime directory and its completion marker.
func ReadStatus(cfg *config.BuildConfig) (Status, error) {
	st := Status{RuntimeDir: cfg.RuntimeDir}
	info, err := os.Stat(cfg.RuntimeDir)
	switch {
	case err == nil:
		st.Present = info.IsDir()
	case errors.Is(err, fs.ErrNotExist):
	default:
		return st, fmt.Errorf("stat runtime directory: %w", err)
	}

	// #nosec G304 -- marker path derived from resolved build layout
	data, err := os.ReadFile(cfg.RuntimeMarkerPath())
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read runtime marker: %w", err)
	}
	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return st, fmt.Errorf("parse runtime marker: %w", err)
	}
	st.Marker = &m
	st.Complete = st.Present
	return st, nil
}
