package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/archive"
	"github.com/wwscc/distbuilder/internal/dist/models"
)

// StageArchive zips the runtime directory into the build root. It is the last
// stage that touches the runtime tree.
func StageArchive(_ context.Context, bs *models.BuildState) error {
	res, err := archive.Create(bs.Config.RuntimeDir, bs.Config.ArchivePath())
	if err != nil {
		return models.NewFatalStageError(models.StageArchive, err)
	}
	bs.Archive = &res
	bs.Report.ArchivePath = res.Path
	bs.Report.ArchiveBytes = res.Bytes
	bs.Report.ArchiveSHA256 = res.SHA256
	bs.Recorder().SetArchiveBytes(bs.Config.Target, res.Bytes)
	return nil
}
