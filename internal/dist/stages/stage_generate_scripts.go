package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/dist/models"
	"github.com/wwscc/distbuilder/internal/scripts"
)

func StageGenerateScripts(_ context.Context, bs *models.BuildState) error {
	written, err := scripts.Generate(bs.Config, bs.Libraries)
	if err != nil {
		return models.NewFatalStageError(models.StageGenerateScripts, err)
	}
	bs.Scripts = written
	bs.Report.Scripts = written
	return nil
}
