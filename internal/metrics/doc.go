// Package metrics provides build observability for distbuilder.
//
// Components receive a Recorder; NoopRecorder is the default so stages never
// need nil checks. PrometheusRecorder registers its collectors on a caller
// supplied registry, and WriteTextfile dumps that registry in the text
// exposition format so a node-exporter textfile collector can pick up the
// result of a one-shot build.
package metrics
