// Package rules holds the conflict predicates shared by the validator and
// the scheduler, so the two can never drift apart. Each predicate answers
// whether one category of conflict would occur if the session held the
// candidate meeting, given the rest of the grid.
package rules

import "github.com/kilianp07/agenda/core/model"

// Rule is a pure predicate over a candidate placement. It returns true
// when the placement is acceptable for its conflict category.
type Rule func(s *model.Session, m model.Meeting, sn *Snapshot) bool

// RoomConflicts returns the sessions double-booking the meeting's room.
// Plenary sessions sharing the plenary room do not double-book each other;
// they are bounded by the plenary slot capacity instead.
func RoomConflicts(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	var out []*model.Session
	for _, o := range sn.Occupants(s, m) {
		if s.IsPlenary() && o.IsPlenary() {
			continue
		}
		out = append(out, o)
	}
	return out
}

// ChairConflicts returns the parallel sessions sharing a chair or group
// with s. Two plenaries are exempt: plenary sessions are presentations,
// their chairs are not occupied the way discussion chairs are.
func ChairConflicts(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	var out []*model.Session
	for _, o := range sn.Parallel(s, m) {
		if s.IsPlenary() && o.IsPlenary() {
			continue
		}
		if s.SharesChair(o) {
			out = append(out, o)
		}
	}
	return out
}

// TrackConflicts returns the parallel sessions sharing a track label with
// s, with the same two-plenaries exemption as chairs.
func TrackConflicts(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	var out []*model.Session
	for _, o := range sn.Parallel(s, m) {
		if s.IsPlenary() && o.IsPlenary() {
			continue
		}
		if s.SharesTrack(o) {
			out = append(out, o)
		}
	}
	return out
}

// DeclaredConflicts returns the parallel sessions appearing on either
// side's declared conflict list.
func DeclaredConflicts(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	var out []*model.Session
	for _, o := range sn.Parallel(s, m) {
		if s.DeclaredConflict(o) {
			out = append(out, o)
		}
	}
	return out
}

// ChannelConflicts returns the parallel sessions using the same discussion
// channel, unless both sessions belong to the plenary.
func ChannelConflicts(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	if s.Description == nil || s.Description.Channel == "" {
		return nil
	}
	var out []*model.Session
	for _, o := range sn.Parallel(s, m) {
		if s.IsPlenary() && o.IsPlenary() {
			continue
		}
		if o.Description != nil && o.Description.Channel == s.Description.Channel {
			out = append(out, o)
		}
	}
	return out
}

// ParallelPlenaries returns the plenary sessions running in parallel with
// a non-plenary session.
func ParallelPlenaries(s *model.Session, m model.Meeting, sn *Snapshot) []*model.Session {
	if s.IsPlenary() {
		return nil
	}
	var out []*model.Session
	for _, o := range sn.Parallel(s, m) {
		if o.IsPlenary() {
			out = append(out, o)
		}
	}
	return out
}

// CapacityShort reports whether the meeting's room seats fewer people than
// the session requests. want is the normalized requested capacity.
func CapacityShort(m model.Meeting, want int) bool {
	return m.Room != nil && want > 0 && m.Room.Capacity < want
}

// NoRoomConflict is the Rule form of RoomConflicts.
func NoRoomConflict(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(RoomConflicts(s, m, sn)) == 0
}

// NoChairConflict is the Rule form of ChairConflicts.
func NoChairConflict(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(ChairConflicts(s, m, sn)) == 0
}

// NoTrackConflict is the Rule form of TrackConflicts.
func NoTrackConflict(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(TrackConflicts(s, m, sn)) == 0
}

// NoDeclaredConflict is the Rule form of DeclaredConflicts.
func NoDeclaredConflict(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(DeclaredConflicts(s, m, sn)) == 0
}

// NoChannelConflict is the Rule form of ChannelConflicts.
func NoChannelConflict(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(ChannelConflicts(s, m, sn)) == 0
}

// NoParallelPlenary is the Rule form of ParallelPlenaries.
func NoParallelPlenary(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	return len(ParallelPlenaries(s, m, sn)) == 0
}

// PlenaryCapacityOK returns a Rule enforcing the shared plenary slot
// capacity for plenary sessions.
func PlenaryCapacityOK(holds int) Rule {
	return func(s *model.Session, m model.Meeting, sn *Snapshot) bool {
		if !s.IsPlenary() {
			return true
		}
		return sn.PlenarySlotCount(m) < holds
	}
}

// PlenaryRoomOnly enforces room discipline for the plenary room: plenary
// sessions meet only there, other sessions never do.
func PlenaryRoomOnly(s *model.Session, m model.Meeting, sn *Snapshot) bool {
	if m.Room == nil {
		return true
	}
	room := sn.Project.PlenaryRoom()
	if s.IsPlenary() {
		return room != nil && m.Room.Name == room.Name
	}
	return room == nil || m.Room.Name != room.Name
}

// Check runs every rule and returns false on the first violation.
func Check(ruleSet []Rule, s *model.Session, m model.Meeting, sn *Snapshot) bool {
	for _, r := range ruleSet {
		if !r(s, m, sn) {
			return false
		}
	}
	return true
}
