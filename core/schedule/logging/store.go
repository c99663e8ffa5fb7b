// Package logging persists scheduling run records, so any past run can be
// inspected and replayed from its seed.
package logging

import (
	"context"
	"time"
)

// Placement records where one session ended up.
type Placement struct {
	Session  int    `json:"session"`
	Track    string `json:"track"`
	Meetings string `json:"meetings"` // compact encoding
}

// LogRecord is one scheduling run.
type LogRecord struct {
	Timestamp  time.Time         `json:"timestamp"`
	RunID      string            `json:"run_id"`
	Seed       int64             `json:"seed"`
	TrackRooms map[string]string `json:"track_rooms"`
	Placements []Placement       `json:"placements"`
	Unplaced   []int             `json:"unplaced"`
}

// LogQuery filters stored records.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	RunID   string
	Session int
}

// LogStore persists run records.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// matches reports whether the record satisfies the query.
func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Session != 0 {
		found := false
		for _, p := range r.Placements {
			if p.Session == q.Session {
				found = true
				break
			}
		}
		for _, n := range r.Unplaced {
			if n == q.Session {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
