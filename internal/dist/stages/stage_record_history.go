package stages

import (
	"context"
	"time"

	"github.com/wwscc/distbuilder/internal/dist/models"
	"github.com/wwscc/distbuilder/internal/history"
)

// StageRecordHistory stores the build in the history database.
func StageRecordHistory(ctx context.Context, bs *models.BuildState) error {
	store := bs.History()
	if store == nil {
		return nil
	}
	outcome := models.OutcomeSuccess
	if len(bs.Report.Warnings) > 0 {
		outcome = models.OutcomeWarning
	}
	return store.Record(ctx, HistoryEntry(bs.Config.Product, bs.Report, outcome))
}

// HistoryEntry converts a report into a history row.
func HistoryEntry(product string, r *models.BuildReport, outcome models.BuildOutcome) history.Entry {
	end := r.End
	if end.IsZero() {
		end = time.Now()
	}
	return history.Entry{
		ID:        r.BuildID,
		Product:   product,
		Version:   r.Version,
		Target:    r.Target,
		Outcome:   string(outcome),
		Archive:   r.ArchivePath,
		Duration:  end.Sub(r.Start),
		Timestamp: r.Start,
	}
}
