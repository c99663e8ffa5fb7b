// Package app wires the engine together: project loading, validation,
// scheduling, reconciliation and the observability adapters around them.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/agenda/app/plugins"
	"github.com/kilianp07/agenda/config"
	coreevents "github.com/kilianp07/agenda/core/events"
	coremetrics "github.com/kilianp07/agenda/core/metrics"
	"github.com/kilianp07/agenda/core/model"
	coremqtt "github.com/kilianp07/agenda/core/mqtt"
	"github.com/kilianp07/agenda/core/reconcile"
	"github.com/kilianp07/agenda/core/report"
	"github.com/kilianp07/agenda/core/schedule"
	schedlog "github.com/kilianp07/agenda/core/schedule/logging"
	"github.com/kilianp07/agenda/core/validate"
	"github.com/kilianp07/agenda/infra/logger"
	inframetrics "github.com/kilianp07/agenda/infra/metrics"
	"github.com/kilianp07/agenda/internal/eventbus"
	"github.com/kilianp07/agenda/project"
)

// Service orchestrates one agenda pipeline: load, validate, schedule,
// reconcile, publish.
type Service struct {
	Project *model.Project

	cfg       *config.Config
	log       logger.Logger
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	store     schedlog.LogStore
	publisher coremqtt.Publisher
	validator *validate.Validator
	scheduler *schedule.Scheduler
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	p, err := project.Load(cfg.Project)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	storeFactory, ok := plugins.LogStores[cfg.Logging.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown log store backend %q", cfg.Logging.Backend)
	}
	store, err := storeFactory(cfg.Logging.Backend, map[string]any{"path": cfg.Logging.Path})
	if err != nil {
		return nil, fmt.Errorf("log store: %w", err)
	}

	var publisher coremqtt.Publisher
	if cfg.Publisher.Type != "" {
		pubFactory, ok := plugins.Publishers[cfg.Publisher.Type]
		if !ok {
			return nil, fmt.Errorf("unknown publisher type %q", cfg.Publisher.Type)
		}
		publisher, err = pubFactory(cfg.Publisher.Type, cfg.Publisher.Conf)
		if err != nil {
			return nil, fmt.Errorf("publisher: %w", err)
		}
	}

	// A typed nil directory would defeat the validator's nil check.
	var directory validate.Directory
	if d := project.NewDirectory(p); d != nil {
		directory = d
	}

	bus := eventbus.New()
	svc := &Service{
		Project:   p,
		cfg:       cfg,
		log:       logg,
		bus:       bus,
		sink:      sink,
		store:     store,
		publisher: publisher,
		validator: validate.New(cfg.Validate, project.BodyParser{}, directory, logg),
		scheduler: schedule.New(cfg.Schedule, logg, bus),
	}
	return svc, nil
}

// Validate runs a full validation pass and records its findings.
func (s *Service) Validate(ctx context.Context) ([]validate.Issue, validate.Delta, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if rec, ok := s.sink.(coremetrics.GridSizeRecorder); ok {
		if err := rec.RecordGridSize(len(s.Project.Sessions)); err != nil {
			s.log.Errorf("record grid size: %v", err)
		}
	}
	issues, delta := s.validator.ValidateGrid(s.Project, validate.ModeEverything)
	s.recordValidation(issues)
	return issues, delta, nil
}

// Schedule runs the whole pipeline: validate, place unscheduled sessions,
// re-validate, persist the run record and publish change notices.
func (s *Service) Schedule(ctx context.Context) (*schedule.Result, validate.Delta, error) {
	issues, _, err := s.Validate(ctx)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.scheduler.Run(s.Project, validate.Blocked(issues))
	if err != nil {
		return nil, nil, err
	}
	s.log.Infof("run %s (seed %d): %d placed, %d unplaced",
		res.RunID, res.Seed, len(res.Placed), len(res.Unplaced))

	// Placements changed, so the persisted issue state is stale.
	_, delta := s.validator.ValidateGrid(s.Project, validate.ModeScheduling)

	s.recordRun(ctx, res)
	s.recordOutcomes(res)
	s.publishChanges(res)
	return res, delta, nil
}

// Sync reconciles every session against the recorded calendar and returns
// the non-empty action sets keyed by session number.
func (s *Service) Sync(ctx context.Context) (map[int]reconcile.Actions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recorded, err := project.LoadCalendar(s.cfg.Calendar)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	out := map[int]reconcile.Actions{}
	for _, sess := range s.Project.Sessions {
		actions := reconcile.Diff(s.Project, sess, recorded[sess.Number])
		if !actions.Empty() {
			out[sess.Number] = actions
		}
	}
	s.log.Infof("calendar sync: %d sessions need changes", len(out))
	return out, nil
}

// Report summarizes the current grid.
func (s *Service) Report() report.GridReport {
	return report.Build(s.Project)
}

// ServeMetrics exposes Prometheus metrics until the context is cancelled.
// It is a no-op when no address is configured.
func (s *Service) ServeMetrics(ctx context.Context) {
	if s.cfg.PromAddr == "" {
		return
	}
	go func() {
		if err := inframetrics.StartPromServer(ctx, s.cfg.PromAddr); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if d, ok := s.publisher.(interface{ Disconnect() }); ok {
		d.Disconnect()
	}
	return s.store.Close()
}

func (s *Service) recordValidation(issues []validate.Issue) {
	for _, is := range issues {
		s.bus.Publish(coreevents.IssueFound{
			Session:  is.Session.Number,
			Severity: string(is.Severity),
			Type:     is.Type,
		})
	}
	if rec, ok := s.sink.(coremetrics.ValidationRecorder); ok {
		events := make([]coremetrics.ValidationEvent, 0, len(issues))
		now := time.Now()
		for _, is := range issues {
			events = append(events, coremetrics.ValidationEvent{
				Session:  is.Session.Number,
				Severity: string(is.Severity),
				Type:     is.Type,
				Time:     now,
			})
		}
		if err := rec.RecordValidation(events); err != nil {
			s.log.Errorf("record validation: %v", err)
		}
	}
}

func (s *Service) recordOutcomes(res *schedule.Result) {
	now := time.Now()
	var events []coremetrics.ScheduleEvent
	for _, sess := range res.Placed {
		events = append(events, s.outcomeEvent(res, sess, true, now))
	}
	for _, sess := range res.Unplaced {
		events = append(events, s.outcomeEvent(res, sess, false, now))
	}
	if err := s.sink.RecordScheduleRun(events); err != nil {
		s.log.Errorf("record schedule run: %v", err)
	}
}

func (s *Service) outcomeEvent(res *schedule.Result, sess *model.Session, placed bool, now time.Time) coremetrics.ScheduleEvent {
	return coremetrics.ScheduleEvent{
		RunID:       res.RunID,
		Seed:        res.Seed,
		Session:     sess.Number,
		Track:       trackOf(sess),
		Placed:      placed,
		Relaxations: res.Relaxations[sess.Number],
		Time:        now,
	}
}

func (s *Service) recordRun(ctx context.Context, res *schedule.Result) {
	rec := schedlog.LogRecord{
		Timestamp:  time.Now(),
		RunID:      res.RunID,
		Seed:       res.Seed,
		TrackRooms: res.TrackRooms,
	}
	for _, sess := range res.Placed {
		rec.Placements = append(rec.Placements, schedlog.Placement{
			Session:  sess.Number,
			Track:    trackOf(sess),
			Meetings: model.EncodeMeetings(sess.Meetings(s.Project)),
		})
	}
	for _, sess := range res.Unplaced {
		rec.Unplaced = append(rec.Unplaced, sess.Number)
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("append run record: %v", err)
	}
}

// publishChanges notifies subscribers about every session the run touched.
func (s *Service) publishChanges(res *schedule.Result) {
	if s.publisher == nil {
		return
	}
	for _, sess := range s.Project.Sessions {
		if !sess.Updated {
			continue
		}
		notice := coremqtt.SessionNotice{
			Session:  sess.Number,
			Title:    sess.Title,
			Room:     sess.Room,
			Day:      sess.Day,
			Slot:     sess.Slot,
			Meetings: sess.MeetingsRaw,
			RunID:    res.RunID,
		}
		if err := s.publisher.PublishSessionChange(notice); err != nil {
			s.log.Errorf("publish session %d: %v", sess.Number, err)
		}
	}
}

// trackOf labels a session for reporting: the plenary pseudo-track, the
// first declared track, or the free-roaming pseudo-track.
func trackOf(s *model.Session) string {
	if s.IsPlenary() {
		return model.TrackPlenary
	}
	if s.Description != nil && len(s.Description.Tracks) > 0 {
		return s.Description.Tracks[0]
	}
	return model.TrackNone
}
