package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wwscc/distbuilder/internal/metrics"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// BuildReport captures what one build did and how it ended.
type BuildReport struct {
	BuildID         string
	Target          string
	Version         string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error // non-fatal issues from supplemental stages
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome

	RuntimeLinked bool
	Libraries     []string
	Scripts       []string
	ArchivePath   string
	ArchiveBytes  int64
	ArchiveSHA256 string
	ManifestPath  string
	Published     []string
}

// NewBuildReport constructs a new BuildReport with a fresh build ID.
func NewBuildReport(target, version string) *BuildReport {
	return &BuildReport{
		BuildID:         uuid.NewString(),
		Target:          target,
		Version:         version,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// AddError records a stage error in Errors or Warnings according to its kind.
func (r *BuildReport) AddError(se *StageError) {
	if se == nil {
		return
	}
	r.StageErrorKinds[se.Stage] = se.Kind
	if se.Kind == StageErrorWarning {
		r.Warnings = append(r.Warnings, se)
		return
	}
	r.Errors = append(r.Errors, se)
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// Duration is the wall time between Start and End.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// RecordStageResult updates BuildReport counters and emits metrics (if recorder non-nil).
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	sc := r.StageCounts[stage]
	var label metrics.ResultLabel
	switch res {
	case StageResultSuccess:
		sc.Success++
		label = metrics.ResultSuccess
	case StageResultWarning:
		sc.Warning++
		label = metrics.ResultWarning
	case StageResultFatal:
		sc.Fatal++
		label = metrics.ResultFatal
	case StageResultCanceled:
		sc.Canceled++
		label = metrics.ResultCanceled
	}
	r.StageCounts[stage] = sc
	if recorder != nil && label != "" {
		recorder.IncStageResult(string(stage), label)
	}
}

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	return fmt.Sprintf("target=%s version=%s duration=%s libraries=%d scripts=%d runtime_linked=%t archive=%s errors=%d warnings=%d outcome=%s",
		r.Target, r.Version, r.Duration().Truncate(time.Millisecond), len(r.Libraries), len(r.Scripts),
		r.RuntimeLinked, r.ArchivePath, len(r.Errors), len(r.Warnings), string(r.Outcome))
}

// reportJSON is the serializable form of BuildReport.
type reportJSON struct {
	BuildID        string                `json:"build_id"`
	Target         string                `json:"target"`
	Version        string                `json:"version,omitempty"`
	Start          time.Time             `json:"start"`
	End            time.Time             `json:"end"`
	Outcome        string                `json:"outcome"`
	Errors         []string              `json:"errors"`
	Warnings       []string              `json:"warnings"`
	StageDurations map[string]int64      `json:"stage_durations_ms"`
	StageCounts    map[string]StageCount `json:"stage_counts"`
	RuntimeLinked  bool                  `json:"runtime_linked"`
	Libraries      []string              `json:"libraries"`
	Scripts        []string              `json:"scripts"`
	Archive        string                `json:"archive,omitempty"`
	ArchiveBytes   int64                 `json:"archive_bytes,omitempty"`
	ArchiveSHA256  string                `json:"archive_sha256,omitempty"`
	Manifest       string                `json:"manifest,omitempty"`
	Published      []string              `json:"published,omitempty"`
}

// MarshalJSON converts errors to strings for JSON output.
func (r *BuildReport) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		BuildID:        r.BuildID,
		Target:         r.Target,
		Version:        r.Version,
		Start:          r.Start,
		End:            r.End,
		Outcome:        string(r.Outcome),
		Errors:         errorStrings(r.Errors),
		Warnings:       errorStrings(r.Warnings),
		StageDurations: make(map[string]int64, len(r.StageDurations)),
		StageCounts:    make(map[string]StageCount, len(r.StageCounts)),
		RuntimeLinked:  r.RuntimeLinked,
		Libraries:      r.Libraries,
		Scripts:        r.Scripts,
		Archive:        r.ArchivePath,
		ArchiveBytes:   r.ArchiveBytes,
		ArchiveSHA256:  r.ArchiveSHA256,
		Manifest:       r.ManifestPath,
		Published:      r.Published,
	}
	for k, v := range r.StageDurations {
		out.StageDurations[k] = v.Milliseconds()
	}
	for k, v := range r.StageCounts {
		out.StageCounts[string(k)] = v
	}
	return json.Marshal(out)
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

// Persist writes the report as JSON to path atomically.
func (r *BuildReport) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	return nil
}
