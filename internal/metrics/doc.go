// Package metrics records build observations.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// check for nil. When monitoring is configured the CLI injects a
// PrometheusRecorder; its registry is scraped by the preview server at
// /metrics or dumped with WriteTextfile after a one-shot build.
package metrics
