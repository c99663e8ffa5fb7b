package model

import "strings"

// Meeting is one concrete (room, day, slot) occupancy belonging to a
// session. Fields may be nil while a session is partially scheduled.
// Meetings reference the project-owned rooms, days and slots; they never
// own them.
type Meeting struct {
	Room *Room
	Day  *Day
	Slot *Slot

	// Invalid marks a meeting whose compact encoding contained a token that
	// resolved to nothing.
	Invalid bool
}

// Scheduled reports whether the meeting has room, day and slot assigned.
func (m Meeting) Scheduled() bool {
	return m.Room != nil && m.Day != nil && m.Slot != nil
}

// SameTime reports whether both meetings occupy the same (day, slot).
func (m Meeting) SameTime(o Meeting) bool {
	return m.Day != nil && o.Day != nil && m.Day.Name == o.Day.Name &&
		m.Slot != nil && o.Slot != nil && m.Slot.Name == o.Slot.Name
}

// SamePlace reports whether both meetings occupy the same (room, day, slot).
func (m Meeting) SamePlace(o Meeting) bool {
	return m.SameTime(o) && m.Room != nil && o.Room != nil && m.Room.Name == o.Room.Name
}

// Meetings resolves the session's occupancy: the compact encoding when
// present, otherwise a single meeting built from the explicit pins. An
// unpinned, unencoded session resolves to no meetings.
func (s *Session) Meetings(p *Project) []Meeting {
	if s.MeetingsRaw != "" {
		return ParseMeetings(p, s.MeetingsRaw)
	}
	if s.Room == "" && s.Day == "" && s.Slot == "" {
		return nil
	}
	m := Meeting{}
	if s.Room != "" {
		if m.Room = p.RoomByName(s.Room); m.Room == nil {
			m.Invalid = true
		}
	}
	if s.Day != "" {
		if m.Day = p.DayByName(s.Day); m.Day == nil {
			m.Invalid = true
		}
	}
	if s.Slot != "" {
		if m.Slot = p.SlotByName(s.Slot); m.Slot == nil {
			m.Invalid = true
		}
	}
	return []Meeting{m}
}

// ParseMeetings reads the compact multi-meeting encoding: entries are
// separated by ";" or "|", tokens within an entry by ",". Each token names
// a day, a slot or a room; an unresolvable token marks the whole entry
// invalid rather than failing the parse.
func ParseMeetings(p *Project, raw string) []Meeting {
	raw = strings.ReplaceAll(raw, "|", ";")
	var meetings []Meeting
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := Meeting{}
		for _, token := range strings.Split(entry, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			switch {
			case p.DayByName(token) != nil:
				m.Day = p.DayByName(token)
			case p.SlotByName(token) != nil:
				m.Slot = p.SlotByName(token)
			case p.RoomByName(token) != nil:
				m.Room = p.RoomByName(token)
			default:
				m.Invalid = true
			}
		}
		meetings = append(meetings, m)
	}
	return meetings
}

// EncodeMeetings writes the compact encoding for the given meetings.
// Unscheduled fields are omitted from their entry.
func EncodeMeetings(meetings []Meeting) string {
	entries := make([]string, 0, len(meetings))
	for _, m := range meetings {
		var tokens []string
		if m.Room != nil {
			tokens = append(tokens, m.Room.Name)
		}
		if m.Day != nil {
			tokens = append(tokens, m.Day.Name)
		}
		if m.Slot != nil {
			tokens = append(tokens, m.Slot.Name)
		}
		if len(tokens) == 0 {
			continue
		}
		entries = append(entries, strings.Join(tokens, ", "))
	}
	return strings.Join(entries, "; ")
}

// Block is a maximal run of contiguous same-room meetings on one day,
// suitable for a single calendar entry.
type Block struct {
	Room     *Room
	Day      *Day
	Start    string
	End      string
	Meetings []Meeting
}

// GroupMeetings merges the scheduled meetings into maximal contiguous
// same-room blocks per day. A meeting is contiguous with the previous one
// when its slot immediately follows in the ordered slot sequence.
func GroupMeetings(p *Project, meetings []Meeting) []Block {
	var scheduled []Meeting
	for _, m := range meetings {
		if m.Scheduled() && !m.Invalid {
			scheduled = append(scheduled, m)
		}
	}
	sortMeetings(p, scheduled)

	var blocks []Block
	for _, m := range scheduled {
		if n := len(blocks); n > 0 {
			last := &blocks[n-1]
			if last.Day.Name == m.Day.Name && last.Room.Name == m.Room.Name &&
				p.SlotIndex(m.Slot) == p.SlotIndex(last.Meetings[len(last.Meetings)-1].Slot)+1 {
				last.End = m.Slot.End
				last.Meetings = append(last.Meetings, m)
				continue
			}
		}
		blocks = append(blocks, Block{
			Room:     m.Room,
			Day:      m.Day,
			Start:    m.Slot.Start,
			End:      m.Slot.End,
			Meetings: []Meeting{m},
		})
	}
	return blocks
}

func sortMeetings(p *Project, meetings []Meeting) {
	for i := 1; i < len(meetings); i++ {
		for j := i; j > 0 && meetingLess(p, meetings[j], meetings[j-1]); j-- {
			meetings[j], meetings[j-1] = meetings[j-1], meetings[j]
		}
	}
}

func meetingLess(p *Project, a, b Meeting) bool {
	if di, dj := p.DayIndex(a.Day), p.DayIndex(b.Day); di != dj {
		return di < dj
	}
	return p.SlotIndex(a.Slot) < p.SlotIndex(b.Slot)
}
