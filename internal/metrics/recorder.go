// Package metrics defines observability hooks for prebuild runs and captures.
package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultIssues   ResultLabel = "issues"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for run and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: passed|failed
	ObserveCaptureDuration(site string, d time.Duration, success bool)
	IncCaptureResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)         {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                   {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                 {}
func (NoopRecorder) IncRunOutcome(string)                               {}
func (NoopRecorder) ObserveCaptureDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncCaptureResult(bool)                              {}
