package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/agenda/core/metrics"
	"github.com/kilianp07/agenda/infra/logger"
)

// InfluxSink writes scheduling events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordScheduleRun writes the run outcome as line protocol events.
func (s *InfluxSink) RecordScheduleRun(events []coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, e := range events {
		p := write.NewPointWithMeasurement("schedule_outcome").
			AddTag("run_id", e.RunID).
			AddTag("track", e.Track).
			AddTag("placed", strconv.FormatBool(e.Placed)).
			AddTag("component", "scheduler").
			AddField("session", e.Session).
			AddField("seed", e.Seed).
			AddField("relaxations", e.Relaxations).
			SetTime(e.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordValidation writes validation findings.
func (s *InfluxSink) RecordValidation(events []coremetrics.ValidationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, e := range events {
		p := write.NewPointWithMeasurement("validation_issue").
			AddTag("severity", e.Severity).
			AddTag("type", e.Type).
			AddTag("component", "validator").
			AddField("session", e.Session).
			SetTime(e.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordGridSize persists the size of the loaded grid.
func (s *InfluxSink) RecordGridSize(sessions int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("grid_size").
		AddTag("component", "loader").
		AddField("sessions", sessions).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts the underlying client down.
func (s *InfluxSink) Close() { s.client.Close() }
