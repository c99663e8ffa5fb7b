package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/agenda/core/metrics"
)

func TestPromSinkRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	now := time.Now()
	err = sink.RecordScheduleRun([]coremetrics.ScheduleEvent{
		{RunID: "run-1", Session: 1, Track: "ops", Placed: true, Time: now},
		{RunID: "run-1", Session: 2, Track: "ops", Placed: true, Time: now},
		{RunID: "run-1", Session: 3, Track: "", Placed: false, Time: now},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	placed := testutil.ToFloat64(sink.outcomes.WithLabelValues("ops", "true"))
	if placed != 2 {
		t.Fatalf("placed counter: %v", placed)
	}
	unplaced := testutil.ToFloat64(sink.outcomes.WithLabelValues("", "false"))
	if unplaced != 1 {
		t.Fatalf("unplaced counter: %v", unplaced)
	}
}

func TestPromSinkRecordsValidationAndGridSize(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	err = sink.RecordValidation([]coremetrics.ValidationEvent{
		{Session: 1, Severity: "error", Type: "scheduling"},
		{Session: 2, Severity: "warning", Type: "capacity"},
		{Session: 3, Severity: "error", Type: "scheduling"},
	})
	if err != nil {
		t.Fatalf("record validation: %v", err)
	}
	if got := testutil.ToFloat64(sink.issues.WithLabelValues("error", "scheduling")); got != 2 {
		t.Fatalf("issue counter: %v", got)
	}

	if err := sink.RecordGridSize(37); err != nil {
		t.Fatalf("record grid size: %v", err)
	}
	if got := testutil.ToFloat64(sink.grid); got != 37 {
		t.Fatalf("grid gauge: %v", got)
	}
}

func TestPromSinkSurvivesDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first sink: %v", err)
	}
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink must reuse the existing collectors: %v", err)
	}
	if err := sink.RecordGridSize(1); err != nil {
		t.Fatalf("record: %v", err)
	}
}
