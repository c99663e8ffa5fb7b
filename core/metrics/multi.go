package metrics

// MultiSink fans scheduling events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordScheduleRun forwards the events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordScheduleRun(events []ScheduleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleRun(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordValidation forwards validation findings when supported by the sink.
func (m *MultiSink) RecordValidation(events []ValidationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ValidationRecorder); ok {
			if err := rec.RecordValidation(events); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordGridSize forwards the grid size when supported by the sink.
func (m *MultiSink) RecordGridSize(sessions int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(GridSizeRecorder); ok {
			if err := rec.RecordGridSize(sessions); err != nil {
				return err
			}
		}
	}
	return nil
}
