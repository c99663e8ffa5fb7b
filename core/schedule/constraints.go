package schedule

import (
	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
)

// Constraints is one immutable rung of the relaxation ladder: the set of
// conditions a placement attempt must honor. The scheduler never mutates
// a Constraints value; it advances to the next rung instead.
type Constraints struct {
	// TrackRoom pins the session to its track's elected room.
	TrackRoom *model.Room
	// NumMeetings is how many meetings must be placed.
	NumMeetings int
	// StrictDuration requires each slot's duration to equal the request.
	StrictDuration bool
	// StrictTimes restricts candidates to the requested acceptable times.
	StrictTimes bool
	// MeetDuration requires each slot to be at least as long as requested.
	MeetDuration bool
	// MeetCapacity keeps undersized rooms out of the candidate list.
	MeetCapacity bool
	// MeetTrackConflicts forbids parallel sessions sharing a track.
	MeetTrackConflicts bool
	// MeetSessionConflicts forbids parallel sessions on the declared
	// conflict list.
	MeetSessionConflicts bool
	// MeetAllConflicts forbids chair, channel and plenary-parallel
	// overlaps.
	MeetAllConflicts bool
}

// Ladder builds the ordered constraint snapshots for a session, from
// maximally strict down to everything-relaxed. Each rung removes exactly
// one dimension from the previous; the order is part of the engine's
// observable behavior and must not be reordered.
func Ladder(s *model.Session, trackRoom *model.Room) []Constraints {
	c := Constraints{
		TrackRoom:            trackRoom,
		NumMeetings:          s.Description.RequestedMeetings(),
		StrictDuration:       true,
		StrictTimes:          len(s.Description.Times) > 0,
		MeetDuration:         true,
		MeetCapacity:         true,
		MeetTrackConflicts:   true,
		MeetSessionConflicts: true,
		MeetAllConflicts:     true,
	}
	ladder := []Constraints{c}
	push := func(mutate func(*Constraints)) {
		next := ladder[len(ladder)-1]
		mutate(&next)
		ladder = append(ladder, next)
	}

	push(func(c *Constraints) { c.StrictDuration = false })
	if trackRoom != nil {
		push(func(c *Constraints) { c.TrackRoom = nil })
	}
	if c.StrictTimes {
		push(func(c *Constraints) { c.StrictTimes = false })
	}
	for n := c.NumMeetings; n > 1; n-- {
		push(func(c *Constraints) { c.NumMeetings-- })
	}
	push(func(c *Constraints) { c.MeetDuration = false })
	push(func(c *Constraints) { c.MeetCapacity = false })
	push(func(c *Constraints) { c.MeetTrackConflicts = false })
	push(func(c *Constraints) { c.MeetSessionConflicts = false })
	push(func(c *Constraints) { c.MeetAllConflicts = false })
	return ladder
}

// Rules composes the active rule set for this rung. Room occupancy, the
// plenary room discipline and the plenary slot capacity are hard rules on
// every rung: a committed placement is never unsound.
func (c Constraints) Rules(s *model.Session, holds int) []rules.Rule {
	set := []rules.Rule{
		rules.NoRoomConflict,
		rules.PlenaryRoomOnly,
		rules.PlenaryCapacityOK(holds),
	}
	want := s.Description.SlotDuration()
	if c.StrictDuration {
		set = append(set, durationRule(want, true))
	} else if c.MeetDuration {
		set = append(set, durationRule(want, false))
	}
	if c.StrictTimes {
		set = append(set, timesRule(s.Description.Times))
	}
	if c.MeetAllConflicts {
		set = append(set,
			rules.NoChairConflict,
			rules.NoChannelConflict,
			rules.NoParallelPlenary,
		)
	}
	if c.MeetSessionConflicts {
		set = append(set, rules.NoDeclaredConflict)
	}
	if c.MeetTrackConflicts {
		set = append(set, rules.NoTrackConflict)
	}
	return set
}

func durationRule(want int, strict bool) rules.Rule {
	return func(_ *model.Session, m model.Meeting, _ *rules.Snapshot) bool {
		if m.Slot == nil {
			return true
		}
		if strict {
			return m.Slot.Duration == want
		}
		return m.Slot.Duration >= want
	}
}

func timesRule(prefs []model.TimePref) rules.Rule {
	return func(_ *model.Session, m model.Meeting, sn *rules.Snapshot) bool {
		if m.Day == nil || m.Slot == nil {
			return true
		}
		for _, p := range prefs {
			d := sn.Project.DayByName(p.Day)
			sl := sn.Project.SlotByName(p.Slot)
			if d != nil && sl != nil && d.Name == m.Day.Name && sl.Name == m.Slot.Name {
				return true
			}
		}
		return false
	}
}
