package models

import (
	"context"
	"fmt"
)

// Stage is one step of a distribution build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName identifies a build stage in reports, logs and metrics.
type StageName string

// Stage names in execution order. The first four form the core build; the
// rest only run when the matching integration is enabled.
const (
	StagePrepareRuntime  StageName = "prepare_runtime"
	StageCopyLibraries   StageName = "copy_libraries"
	StageGenerateScripts StageName = "generate_scripts"
	StageArchive         StageName = "archive"
	StageWriteManifest   StageName = "write_manifest"
	StagePublish         StageName = "publish"
	StageNotify          StageName = "notify"
	StageRecordHistory   StageName = "record_history"
)

// StageErrorKind says whether a failed stage stops the build.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"
	StageErrorWarning  StageErrorKind = "warning"
	StageErrorCanceled StageErrorKind = "canceled"
)

// StageError attaches the failing stage and its kind to the cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Aborts reports whether the build stops after this error.
func (e *StageError) Aborts() bool { return e.Kind != StageErrorWarning }

// StageResult is the recorded outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

func newStageError(kind StageErrorKind, stage StageName, err error) *StageError {
	return &StageError{Kind: kind, Stage: stage, Err: err}
}

// NewFatalStageError wraps err as a build-stopping failure of stage.
func NewFatalStageError(stage StageName, err error) *StageError {
	return newStageError(StageErrorFatal, stage, err)
}

func NewWarnStageError(stage StageName, err error) *StageError {
	return newStageError(StageErrorWarning, stage, err)
}

func NewCanceledStageError(stage StageName, err error) *StageError {
	return newStageError(StageErrorCanceled, stage, err)
}

// StageDef is a pipeline entry. Supplemental stages never fail the build:
// the runner records their fatal errors as warnings.
type StageDef struct {
	Name         StageName
	Fn           Stage
	Supplemental bool
}

// Pipeline collects the stages of one build in order.
type Pipeline struct{ defs []StageDef }

func NewPipeline() *Pipeline { return &Pipeline{} }

// Add appends a core stage.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a core stage when cond holds.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// AddSupplemental appends a supplemental stage when cond holds.
func (p *Pipeline) AddSupplemental(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.defs = append(p.defs, StageDef{Name: name, Fn: fn, Supplemental: true})
	}
	return p
}

// Build returns the stage list; later changes to p do not affect it.
func (p *Pipeline) Build() []StageDef {
	return append([]StageDef(nil), p.defs...)
}

// Names lists the stage names in order.
func (p *Pipeline) Names() []StageName {
	out := make([]StageName, 0, len(p.defs))
	for _, d := range p.defs {
		out = append(out, d.Name)
	}
	return out
}
