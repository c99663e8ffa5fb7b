package model

import "strings"

// Room is a physical meeting room. Rooms are loaded once per run and
// treated as read-only reference data.
type Room struct {
	Name     string `json:"name"`
	Label    string `json:"label"`    // display name used in meeting encodings
	Location string `json:"location"` // free text, e.g. "2nd floor, west wing"
	Capacity int    `json:"capacity"` // seats
}

// Day is one day of the event.
type Day struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Date  string `json:"date"` // calendar date, yyyy-mm-dd
}

// Slot is one time slot of the daily grid. Slots are ordered and their
// duration is either 30 or 60 minutes in a valid configuration.
type Slot struct {
	Name     string `json:"name"`
	Start    string `json:"start"` // clock time, hh:mm
	End      string `json:"end"`
	Duration int    `json:"duration"` // minutes
}

// Synthetic track labels. TrackPlenary is scheduled first, TrackNone last.
const (
	TrackPlenary = "_plenary"
	TrackNone    = ""
)

// Event types supported by the engine. Team events resolve groups from the
// session title instead of validating chairs.
const (
	EventConference = "conference"
	EventTeam       = "team"
)

// People is the host system's people export bundled with the project:
// the known chair names and the group acronyms a team-event session
// title may resolve against.
type People struct {
	Chairs []string          `json:"chairs"`
	Groups map[string]string `json:"groups"`
}

// Metadata carries per-event settings.
type Metadata struct {
	PlenaryRoom  string `json:"plenary_room"`
	PlenaryHolds int    `json:"plenary_holds"` // sessions allowed in one plenary slot
	Timezone     string `json:"timezone"`
	EventType    string `json:"event_type"`
}

// Project is the in-memory snapshot the engine operates on: the full set
// of rooms, days, slots and sessions plus event metadata. Rooms, days and
// slots are reference data; sessions are mutated in place by the scheduler.
type Project struct {
	Rooms    []Room     `json:"rooms"`
	Days     []Day      `json:"days"`
	Slots    []Slot     `json:"slots"`
	Sessions []*Session `json:"sessions"`
	People   People     `json:"people"`
	Meta     Metadata   `json:"metadata"`
}

// RoomByName returns the room with the given name or label, or nil.
func (p *Project) RoomByName(token string) *Room {
	token = strings.TrimSpace(token)
	for i := range p.Rooms {
		if p.Rooms[i].Name == token || p.Rooms[i].Label == token {
			return &p.Rooms[i]
		}
	}
	return nil
}

// DayByName returns the day with the given name, label or date, or nil.
func (p *Project) DayByName(token string) *Day {
	token = strings.TrimSpace(token)
	for i := range p.Days {
		if p.Days[i].Name == token || p.Days[i].Label == token || p.Days[i].Date == token {
			return &p.Days[i]
		}
	}
	return nil
}

// SlotByName returns the slot with the given name or start time, or nil.
func (p *Project) SlotByName(token string) *Slot {
	token = strings.TrimSpace(token)
	for i := range p.Slots {
		if p.Slots[i].Name == token || p.Slots[i].Start == token {
			return &p.Slots[i]
		}
	}
	return nil
}

// SessionByNumber returns the session with the given number, or nil.
func (p *Project) SessionByNumber(n int) *Session {
	for _, s := range p.Sessions {
		if s.Number == n {
			return s
		}
	}
	return nil
}

// DayIndex returns the position of the day in the ordered day sequence,
// or -1 when the day is unknown.
func (p *Project) DayIndex(d *Day) int {
	if d == nil {
		return -1
	}
	for i := range p.Days {
		if p.Days[i].Name == d.Name {
			return i
		}
	}
	return -1
}

// SlotIndex returns the position of the slot in the ordered slot sequence,
// or -1 when the slot is unknown.
func (p *Project) SlotIndex(s *Slot) int {
	if s == nil {
		return -1
	}
	for i := range p.Slots {
		if p.Slots[i].Name == s.Name {
			return i
		}
	}
	return -1
}

// PlenaryRoom resolves the designated plenary room, or nil when the event
// has none configured.
func (p *Project) PlenaryRoom() *Room {
	if p.Meta.PlenaryRoom == "" {
		return nil
	}
	return p.RoomByName(p.Meta.PlenaryRoom)
}

// Tracks returns the track labels found on the given sessions in order of
// first encounter, with TrackPlenary prepended and TrackNone appended.
func Tracks(sessions []*Session) []string {
	tracks := []string{TrackPlenary}
	seen := map[string]bool{TrackPlenary: true, TrackNone: true}
	for _, s := range sessions {
		if s.Description == nil {
			continue
		}
		for _, t := range s.Description.Tracks {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tracks = append(tracks, t)
		}
	}
	return append(tracks, TrackNone)
}
