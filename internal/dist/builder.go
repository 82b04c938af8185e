package dist

import (
	"context"
	"log/slog"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/dist/models"
	"github.com/wwscc/distbuilder/internal/dist/stages"
	"github.com/wwscc/distbuilder/internal/linker"
	"github.com/wwscc/distbuilder/internal/logfields"
	"github.com/wwscc/distbuilder/internal/metrics"
)

var _ models.Services = (*Builder)(nil)

// Builder runs distribution builds for one resolved configuration.
type Builder struct {
	cfg       *config.BuildConfig
	linker    linker.Linker
	recorder  metrics.Recorder
	observer  models.BuildObserver
	history   models.HistoryStore
	publisher models.Publisher
	notifier  models.Notifier
	manifest  bool
}

// NewBuilder creates a builder with the jlink binary linker, no metrics, and
// every optional integration disabled.
func NewBuilder(cfg *config.BuildConfig) *Builder {
	return &Builder{
		cfg:      cfg,
		linker:   &linker.BinaryLinker{},
		recorder: metrics.NoopRecorder{},
		manifest: true,
	}
}

// WithLinker replaces the runtime linker.
func (b *Builder) WithLinker(l linker.Linker) *Builder {
	if l != nil {
		b.linker = l
	}
	return b
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

// WithObserver adds an observer in addition to the metrics and log observers.
func (b *Builder) WithObserver(o models.BuildObserver) *Builder {
	b.observer = o
	return b
}

func (b *Builder) WithHistory(h models.HistoryStore) *Builder {
	b.history = h
	return b
}

func (b *Builder) WithPublisher(p models.Publisher) *Builder {
	b.publisher = p
	return b
}

func (b *Builder) WithNotifier(n models.Notifier) *Builder {
	b.notifier = n
	return b
}

// WithoutManifest disables the manifest stage.
func (b *Builder) WithoutManifest() *Builder {
	b.manifest = false
	return b
}

func (b *Builder) Linker() linker.Linker        { return b.linker }
func (b *Builder) Recorder() metrics.Recorder   { return b.recorder }
func (b *Builder) History() models.HistoryStore { return b.history }
func (b *Builder) Publisher() models.Publisher  { return b.publisher }
func (b *Builder) Notifier() models.Notifier    { return b.notifier }

func (b *Builder) Observer() models.BuildObserver {
	obs := models.MultiObserver{models.LogObserver{}, models.RecorderObserver{Recorder: b.recorder}}
	if b.observer != nil {
		obs = append(obs, b.observer)
	}
	return obs
}

// Pipeline returns the stages this builder will run.
func (b *Builder) Pipeline() *models.Pipeline {
	archives := b.cfg.Archives()
	return models.NewPipeline().
		Add(models.StagePrepareRuntime, stages.StagePrepareRuntime).
		Add(models.StageCopyLibraries, stages.StageCopyLibraries).
		Add(models.StageGenerateScripts, stages.StageGenerateScripts).
		AddIf(archives, models.StageArchive, stages.StageArchive).
		AddIf(b.manifest, models.StageWriteManifest, stages.StageWriteManifest).
		AddSupplemental(b.publisher != nil && archives, models.StagePublish, stages.StagePublish).
		AddSupplemental(b.notifier != nil && b.manifest, models.StageNotify, stages.StageNotify).
		// last, so the stored outcome includes publish and notify warnings
		AddSupplemental(b.history != nil, models.StageRecordHistory, stages.StageRecordHistory)
}

// Build runs the pipeline once. The report is returned even when the build
// fails; the error is the first fatal or canceled stage error.
func (b *Builder) Build(ctx context.Context) (*models.BuildReport, error) {
	report := models.NewBuildReport(b.cfg.Target, b.cfg.Version)
	bs := models.NewBuildState(b.cfg, b, report)

	slog.Info("Starting build",
		logfields.BuildID(report.BuildID),
		logfields.Product(b.cfg.Product),
		logfields.Target(b.cfg.Target),
		logfields.Version(b.cfg.Version),
		logfields.Path(b.cfg.RuntimeDir))

	err := stages.RunStages(ctx, bs, b.Pipeline().Build())

	report.Finish()
	report.DeriveOutcome()
	if err != nil && b.history != nil {
		// the record_history stage never ran; keep failed builds visible too
		entry := stages.HistoryEntry(b.cfg.Product, report, report.Outcome)
		if herr := b.history.Record(context.WithoutCancel(ctx), entry); herr != nil {
			slog.Warn("Failed to record build history", logfields.Error(herr))
		}
	}
	bs.Observer().OnBuildComplete(report)
	return report, err
}
