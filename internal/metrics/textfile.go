package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric gathered from reg to path in the text
// exposition format. The write is atomic (temp file + rename).
func WriteTextfile(path string, reg prom.Gatherer) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
