package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID            string    `json:"id"`
	Product       string    `json:"product"`
	Timestamp     time.Time `json:"timestamp"`
	Inputs        Inputs    `json:"inputs"`
	Outputs       Outputs   `json:"outputs"`
	RuntimeLinked bool      `json:"runtime_linked"`
	Status        string    `json:"status"`
	Duration      int64     `json:"duration_ms"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	Modules   string `json:"modules"`
	JDK       string `json:"jdk"`
	App       string `json:"app"`
	Target    string `json:"target"`
	Version   string `json:"version,omitempty"`
	AppCommit string `json:"app_commit,omitempty"`
}

// Outputs captures all outputs from the build.
type Outputs struct {
	Libraries     []string `json:"libraries"`
	Scripts       []string `json:"scripts"`
	Archive       string   `json:"archive,omitempty"`
	ArchiveSHA256 string   `json:"archive_sha256,omitempty"`
	ArchiveBytes  int64    `json:"archive_bytes,omitempty"`
}

// New returns a manifest with a fresh ID and the current time.
func New(product string) *BuildManifest {
	return &BuildManifest{
		ID:        uuid.NewString(),
		Product:   product,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's product and inputs.
// Two builds with the same hash were started from identical parameters.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		Product string `json:"product"`
		Inputs  Inputs `json:"inputs"`
	}{
		Product: m.Product,
		Inputs:  m.Inputs,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Write stores the manifest at path, creating parent directories.
func (m *BuildManifest) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest previously stored with Write.
func Read(path string) (*BuildManifest, error) {
	// #nosec G304 -- path is derived from the resolved build layout
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}
