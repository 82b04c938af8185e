package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/dist/models"
	"github.com/wwscc/distbuilder/internal/libraries"
)

func StageCopyLibraries(_ context.Context, bs *models.BuildState) error {
	names, err := libraries.Copy(bs.Config.LibraryDir(), bs.Config.RuntimeLibDir())
	if err != nil {
		return models.NewFatalStageError(models.StageCopyLibraries, err)
	}
	bs.Libraries = names
	bs.Report.Libraries = names
	bs.Recorder().SetLibrariesCopied(bs.Config.Target, len(names))
	return nil
}
