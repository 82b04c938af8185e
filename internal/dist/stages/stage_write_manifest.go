package stages

import (
	"context"
	"log/slog"
	"time"

	"github.com/wwscc/distbuilder/internal/dist/models"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
	"github.com/wwscc/distbuilder/internal/manifest"
)

// StageWriteManifest records the build's inputs and outputs next to the
// archive. The manifest ID is the build ID.
func StageWriteManifest(_ context.Context, bs *models.BuildState) error {
	cfg := bs.Config
	m := manifest.New(cfg.Product)
	m.ID = bs.Report.BuildID
	m.Inputs = manifest.Inputs{
		Modules: cfg.Modules,
		JDK:     cfg.JDK,
		App:     cfg.App,
		Target:  cfg.Target,
		Version: cfg.Version,
	}
	if commit, err := manifest.AppCommit(cfg.App); err != nil {
		slog.Warn("Could not resolve application commit", logfields.Path(cfg.App), logfields.Error(err))
	} else {
		m.Inputs.AppCommit = commit
	}
	m.Outputs = manifest.Outputs{Libraries: bs.Libraries, Scripts: bs.Scripts}
	if bs.Archive != nil {
		m.Outputs.Archive = bs.Archive.Path
		m.Outputs.ArchiveSHA256 = bs.Archive.SHA256
		m.Outputs.ArchiveBytes = bs.Archive.Bytes
	}
	m.RuntimeLinked = bs.RuntimeLinked
	m.Status = string(models.OutcomeSuccess)
	m.Duration = time.Since(bs.Report.Start).Milliseconds()

	path := cfg.ManifestPath()
	if err := m.Write(path); err != nil {
		return models.NewFatalStageError(models.StageWriteManifest, derrors.FileSystemError("write manifest", path, err))
	}
	bs.Manifest = m
	bs.Report.ManifestPath = path
	slog.Debug("Manifest written", logfields.Path(path), logfields.BuildID(m.ID))
	return nil
}
