package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wwscc/distbuilder/internal/config"
	"github.com/wwscc/distbuilder/internal/dist"
	"github.com/wwscc/distbuilder/internal/dist/models"
	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/history"
	"github.com/wwscc/distbuilder/internal/logfields"
	"github.com/wwscc/distbuilder/internal/metrics"
	"github.com/wwscc/distbuilder/internal/notify"
	"github.com/wwscc/distbuilder/internal/publish"
)

// BuildFlags are the build inputs shared by 'build' and 'watch'.
type BuildFlags struct {
	Modules     string `help:"Comma separated modules added to the runtime image" placeholder:"LIST"`
	JDK         string `name:"jdk" help:"JDK installation whose jmods/ directory is linked" type:"path"`
	App         string `help:"Application directory containing lib/" type:"path"`
	Dest        string `help:"Runtime output directory (legacy layout, no archive)" type:"path"`
	Target      string `help:"Target platform name; names starting with 'win' get Windows launchers"`
	Version     string `help:"Distribution version used in the archive name"`
	BuildRoot   string `name:"build-root" help:"Build output root (overrides build_root from the config file)" type:"path"`
	SkipRuntime bool   `name:"skip-runtime" help:"Never run jlink, even when the runtime image is missing"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
}

func (f BuildFlags) options() config.Options {
	return config.Options{
		Modules:     f.Modules,
		JDK:         f.JDK,
		App:         f.App,
		Dest:        f.Dest,
		Target:      f.Target,
		Version:     f.Version,
		BuildRoot:   f.BuildRoot,
		SkipRuntime: f.SkipRuntime,
	}
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	BuildFlags

	ReportFile string `name:"report-file" help:"Write the JSON build report to this file" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	opts := b.options()
	// usage errors win over anything the config file could report
	if err := opts.Validate(); err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	bc, err := config.Resolve(opts, cfg)
	if err != nil {
		return err
	}
	report, err := RunBuild(g, cfg, bc, BuildOutputs{MetricsFile: b.MetricsFile, ReportFile: b.ReportFile})
	printBuildResult(g.out(), report)
	return err
}

// BuildOutputs are optional side files written after a build.
type BuildOutputs struct {
	MetricsFile string
	ReportFile  string
}

// RunBuild executes one build with the integrations enabled in cfg.
func RunBuild(g *Global, cfg *config.Config, bc *config.BuildConfig, out BuildOutputs) (*models.BuildReport, error) {
	ctx := g.context()

	metricsFile := out.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.File
	}
	registry := prometheus.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if metricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	builder := dist.NewBuilder(bc).WithRecorder(recorder)
	if g != nil && g.Linker != nil {
		builder = builder.WithLinker(g.Linker)
	}

	integ, err := openIntegrations(cfg)
	if err != nil {
		return nil, err
	}
	defer integ.Close()
	if integ.history != nil {
		builder = builder.WithHistory(integ.history)
	}
	if integ.publisher != nil {
		builder = builder.WithPublisher(integ.publisher)
	}
	if integ.notifier != nil {
		builder = builder.WithNotifier(integ.notifier)
	}

	report, buildErr := builder.Build(ctx)

	if metricsFile != "" {
		if err := metrics.WriteTextfile(metricsFile, registry); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(metricsFile), logfields.Error(err))
		}
	}
	if out.ReportFile != "" && report != nil {
		if err := report.Persist(out.ReportFile); err != nil {
			slog.Warn("Failed to write build report", logfields.Path(out.ReportFile), logfields.Error(err))
		}
	}
	return report, buildErr
}

// integrations holds the optional collaborators configured in the file.
type integrations struct {
	history   *history.SQLiteStore
	publisher *publish.S3Publisher
	notifier  *notify.NATSNotifier
}

func openIntegrations(cfg *config.Config) (*integrations, error) {
	integ := &integrations{}
	if cfg.Publish != nil {
		p, err := publish.NewS3Publisher(cfg.Publish)
		if err != nil {
			return nil, err
		}
		integ.publisher = p
	}
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, derrors.FileSystemError("open build history", cfg.History.Path, err)
		}
		integ.history = store
	}
	if cfg.Notify != nil {
		n, err := notify.Connect(cfg.Notify)
		if err != nil {
			// the announcement is best effort; the build itself can still run
			slog.Warn("Build notifications disabled", logfields.URL(cfg.Notify.URL), logfields.Error(err))
		} else {
			integ.notifier = n
		}
	}
	return integ, nil
}

func (i *integrations) Close() {
	if i.history != nil {
		if err := i.history.Close(); err != nil {
			slog.Warn("Failed to close build history", logfields.Error(err))
		}
	}
	if i.notifier != nil {
		i.notifier.Close()
	}
}

// printBuildResult writes a short human readable result block.
func printBuildResult(w io.Writer, report *models.BuildReport) {
	if report == nil {
		return
	}
	fmt.Fprintln(w, report.Summary())
}
