package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/dist/models"
	"github.com/wwscc/distbuilder/internal/linker"
)

// StagePrepareRuntime links the runtime image when the runtime directory is
// missing. A link failure aborts the build.
func StagePrepareRuntime(ctx context.Context, bs *models.BuildState) error {
	linked, err := linker.Prepare(ctx, bs.Config, bs.Linker())
	bs.Recorder().IncRuntimeLink(bs.Config.Target, !linked && err == nil)
	if err != nil {
		return models.NewFatalStageError(models.StagePrepareRuntime, err)
	}
	bs.RuntimeLinked = linked
	bs.Report.RuntimeLinked = linked
	return nil
}
