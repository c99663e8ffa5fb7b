// Package metrics defines the sink interfaces the engine reports
// scheduling and validation outcomes to. Implementations live under
// infra/metrics.
package metrics

import "time"

// ScheduleEvent represents one session's outcome in a scheduling run.
type ScheduleEvent struct {
	RunID       string
	Seed        int64
	Session     int
	Track       string
	Placed      bool
	Relaxations int
	Time        time.Time
}

// MetricsSink records scheduling outcomes for observability purposes.
type MetricsSink interface {
	RecordScheduleRun(events []ScheduleEvent) error
}

// ValidationEvent represents one validation finding.
type ValidationEvent struct {
	Session  int
	Severity string
	Type     string
	Time     time.Time
}

// ValidationRecorder is implemented by sinks able to record validation
// findings.
type ValidationRecorder interface {
	RecordValidation(events []ValidationEvent) error
}

// GridSizeRecorder records the number of sessions in the loaded project.
type GridSizeRecorder interface {
	RecordGridSize(sessions int) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordScheduleRun([]ScheduleEvent) error  { return nil }
func (NopSink) RecordValidation([]ValidationEvent) error { return nil }
func (NopSink) RecordGridSize(int) error                 { return nil }
