package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/agenda/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records scheduling and validation events in Prometheus metrics.
type PromSink struct {
	outcomes *prometheus.CounterVec
	issues   *prometheus.CounterVec
	grid     prometheus.Gauge
}

// NewPromSink registers the sink's metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_outcomes_total",
		Help: "Session outcomes per scheduling run",
	}, []string{"track", "placed"})
	issues := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "validation_issues_total",
		Help: "Validation issues by severity and type",
	}, []string{"severity", "type"})
	grid := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "grid_sessions_total",
		Help: "Number of sessions in the loaded project",
	})

	if err := reg.Register(outcomes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			outcomes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(issues); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			issues = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(grid); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			grid = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	return &PromSink{outcomes: outcomes, issues: issues, grid: grid}, nil
}

// RecordScheduleRun increments the outcome counter for each session.
func (s *PromSink) RecordScheduleRun(events []coremetrics.ScheduleEvent) error {
	for _, e := range events {
		s.outcomes.WithLabelValues(e.Track, strconv.FormatBool(e.Placed)).Inc()
	}
	return nil
}

// RecordValidation increments the issue counter for each finding.
func (s *PromSink) RecordValidation(events []coremetrics.ValidationEvent) error {
	for _, e := range events {
		s.issues.WithLabelValues(e.Severity, e.Type).Inc()
	}
	return nil
}

// RecordGridSize sets the gauge to the number of loaded sessions.
func (s *PromSink) RecordGridSize(sessions int) error {
	if s.grid != nil {
		s.grid.Set(float64(sessions))
	}
	return nil
}
