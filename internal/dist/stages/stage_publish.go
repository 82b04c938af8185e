package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/dist/models"
)

// StagePublish uploads the archive and its manifest.
func StagePublish(ctx context.Context, bs *models.BuildState) error {
	pub := bs.Publisher()
	if pub == nil || bs.Archive == nil {
		return nil
	}
	files := []string{bs.Archive.Path}
	if bs.Report.ManifestPath != "" {
		files = append(files, bs.Report.ManifestPath)
	}
	for _, f := range files {
		loc, err := pub.Publish(ctx, f)
		if err != nil {
			if ctx.Err() != nil {
				return models.NewCanceledStageError(models.StagePublish, err)
			}
			return err
		}
		bs.Report.Published = append(bs.Report.Published, loc)
	}
	return nil
}
