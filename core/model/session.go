package model

// SessionType discriminates the session description payload.
type SessionType string

const (
	SessionNormal  SessionType = "normal"
	SessionPlenary SessionType = "plenary"
)

// TimePref is one acceptable (day, slot) combination requested by a session.
type TimePref struct {
	Day  string `json:"day"`
	Slot string `json:"slot"`
}

// Description is the structured payload parsed from a session's free-text
// body. It is validated once at the boundary; the engine never re-parses.
type Description struct {
	Type         SessionType `json:"type"`
	Duration     int         `json:"duration"`  // requested minutes per meeting
	Meetings     int         `json:"meetings"`  // requested number of meetings, 0 means derive from duration
	Capacity     int         `json:"capacity"`  // requested seats, 0 means unknown
	Times        []TimePref  `json:"times"`     // acceptable times, empty means any
	Conflicts    []int       `json:"conflicts"` // session numbers that must not run in parallel
	Chairs       []string    `json:"chairs"`
	Groups       []string    `json:"groups"` // resolved groups for team events
	Tracks       []string    `json:"tracks"`
	Channel      string      `json:"channel"` // IRC/discussion channel
	Instructions string      `json:"instructions"`
	MinutesURL   string      `json:"minutes_url"`
}

// IsPlenary reports whether the description marks a plenary session.
func (d *Description) IsPlenary() bool {
	return d != nil && d.Type == SessionPlenary
}

// RequestedMeetings returns the number of meetings the session asks for:
// the explicit count when set, otherwise one slot per started hour of the
// requested duration.
func (d *Description) RequestedMeetings() int {
	if d == nil {
		return 1
	}
	if d.Meetings > 0 {
		return d.Meetings
	}
	if d.Duration > 60 {
		return (d.Duration + 59) / 60
	}
	return 1
}

// SlotDuration returns the per-meeting duration the session wants from a
// single slot. Requests longer than an hour span multiple slots, so the
// per-slot want caps at 60.
func (d *Description) SlotDuration() int {
	if d == nil || d.Duration == 0 {
		return 60
	}
	if d.Duration > 60 {
		return 60
	}
	return d.Duration
}

// HasTrack reports whether the session carries the given track label.
func (d *Description) HasTrack(track string) bool {
	if d == nil {
		return false
	}
	if track == TrackPlenary {
		return d.IsPlenary()
	}
	for _, t := range d.Tracks {
		if t == track {
			return true
		}
	}
	return false
}

// RecordedState is the issue state last persisted for a session: the
// sorted, comma-joined type lists per severity plus the externally managed
// channel review flag.
type RecordedState struct {
	Errors     string `json:"errors"`
	Warnings   string `json:"warnings"`
	ReviewFlag bool   `json:"review_flag"`
}

// Session is a proposed meeting requiring assignment to rooms, days and
// slots. The numeric identifier is stable and externally assigned.
// Room, Day and Slot are explicit pins by name; MeetingsRaw holds the
// compact multi-meeting encoding when a session occupies several slots.
type Session struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Body        string `json:"body"` // raw record body, parsed into Description
	Room        string `json:"room"`
	Day         string `json:"day"`
	Slot        string `json:"slot"`
	MeetingsRaw string `json:"meetings"`

	Description *Description `json:"description"`

	// Updated is set when the scheduler mutates the session.
	Updated bool `json:"updated"`

	// Recorded and Notes mirror the host system's persisted issue state and
	// admin-authored suppression notes.
	Recorded RecordedState `json:"recorded"`
	Notes    string        `json:"notes"`
}

// IsPlenary reports whether the session is a plenary.
func (s *Session) IsPlenary() bool {
	return s.Description.IsPlenary()
}

// Pinned reports whether any placement field was explicitly set.
func (s *Session) Pinned() bool {
	return s.Room != "" || s.Day != "" || s.Slot != "" || s.MeetingsRaw != ""
}

// ClearPlacement removes every placement field and marks the session
// updated, so the scheduler treats it as unplaced.
func (s *Session) ClearPlacement() {
	s.Room, s.Day, s.Slot, s.MeetingsRaw = "", "", "", ""
	s.Updated = true
}

// SharesChair reports whether the two sessions have a chair or group in
// common. Groups and chairs never mix: team events populate Groups,
// conference events populate Chairs.
func (s *Session) SharesChair(o *Session) bool {
	if s.Description == nil || o.Description == nil {
		return false
	}
	if overlap(s.Description.Chairs, o.Description.Chairs) {
		return true
	}
	return overlap(s.Description.Groups, o.Description.Groups)
}

// SharesTrack reports whether the two sessions have a track label in common.
func (s *Session) SharesTrack(o *Session) bool {
	if s.Description == nil || o.Description == nil {
		return false
	}
	return overlap(s.Description.Tracks, o.Description.Tracks)
}

// DeclaredConflict reports whether either session lists the other on its
// conflict list.
func (s *Session) DeclaredConflict(o *Session) bool {
	return s.listsConflict(o.Number) || o.listsConflict(s.Number)
}

func (s *Session) listsConflict(n int) bool {
	if s.Description == nil {
		return false
	}
	for _, c := range s.Description.Conflicts {
		if c == n {
			return true
		}
	}
	return false
}

func overlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x != "" && x == y {
				return true
			}
		}
	}
	return false
}
