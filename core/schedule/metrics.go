package schedule

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsPlaced   *prometheus.CounterVec
	sessionsUnplaced prometheus.Counter
	relaxationDepth  prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, prometheus.Histogram) {
	placed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_placed_total",
			Help: "Number of sessions the scheduler placed",
		},
		[]string{"track"},
	)
	unplaced := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_unplaced_total",
			Help: "Number of sessions left unscheduled after exhausting the relaxation ladder",
		},
	)
	depth := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relaxation_depth",
			Help:    "Ladder depth at which each session was placed",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		},
	)
	return placed, unplaced, depth
}

func init() {
	sessionsPlaced, sessionsUnplaced, relaxationDepth = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduling metrics on the provided
// registry. If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(sessionsPlaced, sessionsUnplaced, relaxationDepth)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	sessionsPlaced, sessionsUnplaced, relaxationDepth = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
