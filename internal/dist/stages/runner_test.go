package stages

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/dist/models"
)

func newState() *models.BuildState {
	cfg := &config.BuildConfig{Product: "Scorekeeper", Target: "linux", Version: "1.0"}
	return models.NewBuildState(cfg, nil, models.NewBuildReport(cfg.Target, cfg.Version))
}

func TestRunStages_OrderAndWarnings(t *testing.T) {
	bs := newState()
	var ran []models.StageName
	step := func(name models.StageName, err error) models.StageDef {
		return models.StageDef{Name: name, Fn: func(context.Context, *models.BuildState) error {
			ran = append(ran, name)
			return err
		}}
	}

	err := RunStages(context.Background(), bs, []models.StageDef{
		step(models.StageCopyLibraries, nil),
		step(models.StagePublish, models.NewWarnStageError(models.StagePublish, errors.New("bucket unreachable"))),
		step(models.StageNotify, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, []models.StageName{models.StageCopyLibraries, models.StagePublish, models.StageNotify}, ran)
	assert.Len(t, bs.Report.Warnings, 1)
	assert.Empty(t, bs.Report.Errors)
	assert.Equal(t, 1, bs.Report.StageCounts[models.StagePublish].Warning)
	assert.Contains(t, bs.Report.StageDurations, string(models.StageNotify))
}

func TestRunStages_FatalStops(t *testing.T) {
	bs := newState()
	later := false

	err := RunStages(context.Background(), bs, []models.StageDef{
		{Name: models.StageCopyLibraries, Fn: func(context.Context, *models.BuildState) error {
			return fmt.Errorf("read lib: %w", errors.New("no such directory"))
		}},
		{Name: models.StageGenerateScripts, Fn: func(context.Context, *models.BuildState) error {
			later = true
			return nil
		}},
	})
	require.Error(t, err)
	assert.False(t, later)

	var se *models.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.StageErrorFatal, se.Kind)
	assert.Equal(t, models.StageCopyLibraries, se.Stage)
	assert.Equal(t, 1, bs.Report.StageCounts[models.StageCopyLibraries].Fatal)
}

func TestRunStages_CanceledBeforeStage(t *testing.T) {
	bs := newState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := RunStages(ctx, bs, []models.StageDef{
		{Name: models.StagePrepareRuntime, Fn: func(context.Context, *models.BuildState) error {
			called = true
			return nil
		}},
	})
	require.Error(t, err)
	assert.False(t, called)

	var se *models.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.StageErrorCanceled, se.Kind)
}

func TestClassifyStageResult(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		err    error
		result models.StageResult
		abort  bool
	}{
		{"success", context.Background(), nil, models.StageResultSuccess, false},
		{"plain error is fatal", context.Background(), errors.New("boom"), models.StageResultFatal, true},
		{"warning continues", context.Background(), models.NewWarnStageError(models.StageNotify, errors.New("x")), models.StageResultWarning, false},
		{"context canceled", canceled, fmt.Errorf("link: %w", context.Canceled), models.StageResultCanceled, true},
		{"canceled error with live context", context.Background(), context.Canceled, models.StageResultFatal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ClassifyStageResult(tt.ctx, models.StageArchive, tt.err)
			assert.Equal(t, tt.result, out.Result)
			assert.Equal(t, tt.abort, out.Abort)
		})
	}
}

func TestRunStages_SupplementalFailureIsWarning(t *testing.T) {
	bs := newState()
	after := false

	err := RunStages(context.Background(), bs, []models.StageDef{
		{Name: models.StageRecordHistory, Supplemental: true, Fn: func(context.Context, *models.BuildState) error {
			return errors.New("database is locked")
		}},
		{Name: models.StageNotify, Supplemental: true, Fn: func(context.Context, *models.BuildState) error {
			after = true
			return nil
		}},
	})
	require.NoError(t, err)
	assert.True(t, after)
	require.Len(t, bs.Report.Warnings, 1)
	assert.Contains(t, bs.Report.Warnings[0].Error(), "record_history: warning: database is locked")
	assert.Equal(t, 1, bs.Report.StageCounts[models.StageRecordHistory].Warning)
}
