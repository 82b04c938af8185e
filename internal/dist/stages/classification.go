package stages

import (
	"context"
	"errors"

	"github.com/wwscc/distbuilder/internal/dist/models"
)

// StageOutcome normalized result of stage execution.
type StageOutcome struct {
	Stage  models.StageName
	Error  *models.StageError
	Result models.StageResult
	Abort  bool
}

// resultFromStageErrorKind maps a StageErrorKind to a StageResult.
func resultFromStageErrorKind(k models.StageErrorKind) models.StageResult {
	switch k {
	case models.StageErrorWarning:
		return models.StageResultWarning
	case models.StageErrorCanceled:
		return models.StageResultCanceled
	default:
		return models.StageResultFatal
	}
}

// ClassifyStageResult converts a raw error from a stage into a StageOutcome.
// Errors that are not StageErrors are fatal, unless the context was
// canceled, in which case the stage counts as canceled.
func ClassifyStageResult(ctx context.Context, stage models.StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: models.StageResultSuccess}
	}

	var se *models.StageError
	if !errors.As(err, &se) {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			se = models.NewCanceledStageError(stage, err)
		} else {
			se = models.NewFatalStageError(stage, err)
		}
	}

	return StageOutcome{
		Stage:  stage,
		Error:  se,
		Result: resultFromStageErrorKind(se.Kind),
		Abort:  se.Aborts(),
	}
}
