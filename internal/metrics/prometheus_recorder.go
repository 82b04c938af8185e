package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "distbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	stageResults     *prom.CounterVec
	buildOutcome     *prom.CounterVec
	librariesCopied  *prom.GaugeVec
	archiveBytes     *prom.GaugeVec
	runtimeLinks     *prom.CounterVec
	lastBuildSuccess prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		librariesCopied: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "libraries_copied",
			Help:      "Library archives copied into the runtime by the last build",
		}, []string{"target"}),
		archiveBytes: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "archive_bytes",
			Help:      "Size of the last distribution archive",
		}, []string{"target"}),
		runtimeLinks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runtime_link_total",
			Help:      "Runtime image link invocations, split by whether an existing image was reused",
		}, []string{"target", "skipped"}),
		lastBuildSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_build_success_timestamp_seconds",
			Help:      "Unix time of the last successful build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.librariesCopied, pr.archiveBytes, pr.runtimeLinks, pr.lastBuildSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
	if outcome == "success" || outcome == "warning" {
		p.lastBuildSuccess.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) SetLibrariesCopied(target string, n int) {
	if p == nil {
		return
	}
	p.librariesCopied.WithLabelValues(target).Set(float64(n))
}

func (p *PrometheusRecorder) SetArchiveBytes(target string, n int64) {
	if p == nil {
		return
	}
	p.archiveBytes.WithLabelValues(target).Set(float64(n))
}

func (p *PrometheusRecorder) IncRuntimeLink(target string, skipped bool) {
	if p == nil {
		return
	}
	s := "false"
	if skipped {
		s = "true"
	}
	p.runtimeLinks.WithLabelValues(target, s).Inc()
}
