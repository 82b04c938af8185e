package stages

import (
	"context"
	"fmt"
	"time"

	"github.com/wwscc/distbuilder/internal/dist/models"
)

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func RunStages(ctx context.Context, bs *models.BuildState, stages []models.StageDef) error {
	obs := bs.Observer()
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := models.NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.AddError(se)
			bs.Report.RecordStageResult(st.Name, models.StageResultCanceled, bs.Recorder())
			obs.OnStageComplete(st.Name, 0, models.StageResultCanceled)
			return se
		default:
		}

		obs.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.Report.StageDurations[string(st.Name)] = dur

		out := ClassifyStageResult(ctx, st.Name, err)
		if st.Supplemental && out.Result == models.StageResultFatal {
			out = demote(out)
		}
		if out.Error != nil {
			bs.Report.AddError(out.Error)
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.Recorder())
		obs.OnStageComplete(st.Name, dur, out.Result)

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", st.Name)
		}
	}
	return nil
}

// demote records a supplemental stage failure as a warning.
func demote(out StageOutcome) StageOutcome {
	out.Error = models.NewWarnStageError(out.Stage, out.Error.Err)
	out.Result = models.StageResultWarning
	out.Abort = false
	return out
}
