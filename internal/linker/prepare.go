package linker

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// Prepare links the runtime image for cfg unless the runtime directory
// already exists or the build asked to skip it. It reports whether the
// linker ran. Directory presence is the only idempotence check; the image is
// never tested for staleness.
func Prepare(ctx context.Context, cfg *config.BuildConfig, l Linker) (bool, error) {
	if cfg.SkipRuntime {
		slog.Info("Runtime link skipped by request", logfields.Path(cfg.RuntimeDir))
		return false, nil
	}

	_, err := os.Stat(cfg.RuntimeDir)
	if err == nil {
		slog.Info("Runtime directory exists; skipping link", logfields.Path(cfg.RuntimeDir))
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, derrors.FileSystemError("stat", cfg.RuntimeDir, err)
	}

	if l == nil {
		l = &BinaryLinker{}
	}
	req := Request{Modules: cfg.Modules, ModulePath: cfg.ModulePath(), Output: cfg.RuntimeDir}
	if err := l.Link(ctx, req); err != nil {
		if _, ok := derrors.As(err); ok {
			return false, err
		}
		return false, derrors.LinkFailed("jlink", err)
	}
	if err := WriteMarker(cfg, time.Now()); err != nil {
		return true, derrors.FileSystemError("write", cfg.RuntimeMarkerPath(), err)
	}
	return true, nil
}
