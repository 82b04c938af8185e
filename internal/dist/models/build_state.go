package models

import (
	"context"

	"github.com/wwscc/distbuilder/internal/archive"
	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/history"
	"github.com/wwscc/distbuilder/internal/linker"
	"github.com/wwscc/distbuilder/internal/manifest"
	"github.com/wwscc/distbuilder/internal/metrics"
)

// HistoryStore records finished builds.
type HistoryStore interface {
	Record(ctx context.Context, e history.Entry) error
}

// Publisher uploads a local file and returns its remote location.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// Notifier announces a build with an opaque payload.
type Notifier interface {
	Notify(ctx context.Context, payload []byte) error
}

// Services are the collaborators stages call out to. Optional services
// return nil when not configured.
type Services interface {
	Linker() linker.Linker
	Recorder() metrics.Recorder
	Observer() BuildObserver
	History() HistoryStore
	Publisher() Publisher
	Notifier() Notifier
}

// BuildState carries the immutable configuration and the results each stage
// hands to the next.
type BuildState struct {
	Config   *config.BuildConfig
	Services Services
	Report   *BuildReport
	Manifest *manifest.BuildManifest

	RuntimeLinked bool
	Libraries     []string
	Scripts       []string
	Archive       *archive.Result
}

// NewBuildState creates the state for one build.
func NewBuildState(cfg *config.BuildConfig, svc Services, report *BuildReport) *BuildState {
	return &BuildState{Config: cfg, Services: svc, Report: report}
}

// Recorder returns the metrics recorder, never nil.
func (bs *BuildState) Recorder() metrics.Recorder {
	if bs.Services == nil || bs.Services.Recorder() == nil {
		return metrics.NoopRecorder{}
	}
	return bs.Services.Recorder()
}

// Observer returns the build observer, never nil.
func (bs *BuildState) Observer() BuildObserver {
	if bs.Services == nil || bs.Services.Observer() == nil {
		return NoopObserver{}
	}
	return bs.Services.Observer()
}

// Linker returns the configured linker or nil for the default.
func (bs *BuildState) Linker() linker.Linker {
	if bs.Services == nil {
		return nil
	}
	return bs.Services.Linker()
}

// History returns the history store, nil when disabled.
func (bs *BuildState) History() HistoryStore {
	if bs.Services == nil {
		return nil
	}
	return bs.Services.History()
}

// Publisher returns the publisher, nil when disabled.
func (bs *BuildState) Publisher() Publisher {
	if bs.Services == nil {
		return nil
	}
	return bs.Services.Publisher()
}

// Notifier returns the notifier, nil when disabled.
func (bs *BuildState) Notifier() Notifier {
	if bs.Services == nil {
		return nil
	}
	return bs.Services.Notifier()
}
