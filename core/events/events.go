// Package events defines the notifications published on the in-process
// event bus during validation and scheduling runs.
package events

// SessionPlaced reports a successful placement and the ladder depth it
// needed.
type SessionPlaced struct {
	Session     int
	Track       string
	Relaxations int
}

// SessionUnplaced reports a session left unscheduled after exhausting the
// relaxation ladder.
type SessionUnplaced struct {
	Session int
	Track   string
}

// TrackScheduled reports the room elected for a track.
type TrackScheduled struct {
	Track string
	Room  string
}

// IssueFound reports one validation finding.
type IssueFound struct {
	Session  int
	Severity string
	Type     string
}
