package rules

import "github.com/kilianp07/agenda/core/model"

// Snapshot is one in-memory view of the full grid: every session's
// resolved meetings, indexed for conflict queries. It is scoped to a
// single validator or scheduler invocation and never shared across
// goroutines.
type Snapshot struct {
	Project  *model.Project
	meetings map[int][]model.Meeting
}

// NewSnapshot resolves every session's meetings against the project.
func NewSnapshot(p *model.Project) *Snapshot {
	sn := &Snapshot{Project: p, meetings: make(map[int][]model.Meeting, len(p.Sessions))}
	for _, s := range p.Sessions {
		sn.meetings[s.Number] = s.Meetings(p)
	}
	return sn
}

// Meetings returns the resolved meetings of the session.
func (sn *Snapshot) Meetings(s *model.Session) []model.Meeting {
	return sn.meetings[s.Number]
}

// Refresh re-resolves a session after its placement fields changed.
func (sn *Snapshot) Refresh(s *model.Session) {
	sn.meetings[s.Number] = s.Meetings(sn.Project)
}

// Parallel returns the sessions, other than s, holding a meeting at the
// given (day, slot).
func (sn *Snapshot) Parallel(s *model.Session, m model.Meeting) []*model.Session {
	if m.Day == nil || m.Slot == nil {
		return nil
	}
	var out []*model.Session
	for _, o := range sn.Project.Sessions {
		if s != nil && o.Number == s.Number {
			continue
		}
		for _, om := range sn.meetings[o.Number] {
			if om.SameTime(m) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// Occupants returns the sessions, other than s, holding a meeting at the
// same (room, day, slot) as m.
func (sn *Snapshot) Occupants(s *model.Session, m model.Meeting) []*model.Session {
	if !m.Scheduled() {
		return nil
	}
	var out []*model.Session
	for _, o := range sn.Project.Sessions {
		if s != nil && o.Number == s.Number {
			continue
		}
		for _, om := range sn.meetings[o.Number] {
			if om.SamePlace(m) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

// PlenarySlotCount returns the number of sessions, including s itself if
// already placed there, occupying the plenary room at the meeting's
// (day, slot).
func (sn *Snapshot) PlenarySlotCount(m model.Meeting) int {
	room := sn.Project.PlenaryRoom()
	if room == nil || m.Day == nil || m.Slot == nil {
		return 0
	}
	probe := model.Meeting{Room: room, Day: m.Day, Slot: m.Slot}
	return len(sn.Occupants(nil, probe))
}
