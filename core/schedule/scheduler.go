// Package schedule assigns rooms, days and slots to unplaced sessions,
// track by track, using a deterministic shuffle and a constraint
// relaxation ladder. Placements it commits are always sound: the room
// occupancy and plenary rules hold on every rung of the ladder.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/agenda/core/events"
	"github.com/kilianp07/agenda/core/logger"
	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
	"github.com/kilianp07/agenda/internal/eventbus"
)

// Config defines scheduling parameters loaded from configuration.
type Config struct {
	// Seed drives the session shuffle. Zero means generate one and report
	// it in the result, so any run can be reproduced exactly.
	Seed int64 `json:"seed"`
	// DefaultCapacity replaces an unknown requested capacity, so
	// unknown-capacity sessions are not assigned to undersized rooms.
	DefaultCapacity int `json:"default_capacity"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.DefaultCapacity == 0 {
		c.DefaultCapacity = 40
	}
}

// Scheduler places sessions onto the grid. It never raises for an
// individual unplaceable session; only malformed configuration aborts a
// run.
type Scheduler struct {
	cfg Config
	log logger.Logger
	bus eventbus.EventBus
}

// New creates a Scheduler. bus may be nil.
func New(cfg Config, log logger.Logger, bus eventbus.EventBus) *Scheduler {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scheduler{cfg: cfg, log: log, bus: bus}
}

// Result reports one scheduling run. Relaxations records, per placed
// session number, how many ladder rungs were dropped before the
// placement succeeded; zero means the strict constraints held.
type Result struct {
	RunID       string
	Seed        int64
	TrackRooms  map[string]string
	Placed      []*model.Session
	Unplaced    []*model.Session
	Relaxations map[int]int
}

// Run schedules every eligible session. Sessions in blocked carry
// non-relaxable errors from earlier validation and are skipped. The
// project's sessions are mutated in place.
func (sch *Scheduler) Run(p *model.Project, blocked map[int]bool) (*Result, error) {
	if err := checkConfiguration(p); err != nil {
		return nil, err
	}

	seed := sch.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	res := &Result{
		RunID:       uuid.NewString(),
		Seed:        seed,
		TrackRooms:  make(map[string]string),
		Relaxations: make(map[int]int),
	}
	sch.log.Infof("scheduling run %s with seed %d", res.RunID, seed)

	ctx := newRunContext(p, seed)
	shuffled := ctx.shuffle(p.Sessions)

	for _, track := range model.Tracks(shuffled) {
		sessions := trackSessions(shuffled, track, ctx.done, blocked)
		if len(sessions) == 0 {
			continue
		}
		room := sch.electTrackRoom(ctx, track, sessions)
		if room != nil {
			res.TrackRooms[track] = room.Name
			if sch.bus != nil {
				sch.bus.Publish(events.TrackScheduled{Track: track, Room: room.Name})
			}
		}
		for _, s := range sessions {
			ctx.done[s.Number] = true
			if sch.fullyScheduled(ctx, s) {
				continue
			}
			sch.placeSession(ctx, res, track, s, room)
		}
	}
	return res, nil
}

// placeSession walks the relaxation ladder until one rung admits a full
// placement. Exhausting the ladder leaves the session unscheduled; the
// run continues with the next session rather than backtracking.
func (sch *Scheduler) placeSession(ctx *runContext, res *Result, track string, s *model.Session, trackRoom *model.Room) {
	ladder := Ladder(s, trackRoom)
	for depth, c := range ladder {
		if !sch.tryPlace(ctx, s, c) {
			continue
		}
		res.Placed = append(res.Placed, s)
		res.Relaxations[s.Number] = depth
		sessionsPlaced.WithLabelValues(track).Inc()
		relaxationDepth.Observe(float64(depth))
		if depth > 0 {
			sch.log.Warnf("session %d (%s) placed after %d relaxations", s.Number, s.Title, depth)
		}
		if sch.bus != nil {
			sch.bus.Publish(events.SessionPlaced{Session: s.Number, Track: track, Relaxations: depth})
		}
		return
	}
	res.Unplaced = append(res.Unplaced, s)
	sessionsUnplaced.Inc()
	sch.log.Warnf("session %d (%s) could not be scheduled", s.Number, s.Title)
	if sch.bus != nil {
		sch.bus.Publish(events.SessionUnplaced{Session: s.Number, Track: track})
	}
}

// tryPlace attempts a full placement under one constraint rung. Nothing
// is committed unless every required meeting finds a spot.
func (sch *Scheduler) tryPlace(ctx *runContext, s *model.Session, c Constraints) bool {
	existing := ctx.sn.Meetings(s)
	var fixed []model.Meeting
	var pin model.Meeting
	for _, m := range existing {
		if m.Invalid {
			continue
		}
		if m.Scheduled() {
			fixed = append(fixed, m)
		} else {
			// Partial pins keep their fields fixed during the search.
			pin = m
		}
	}

	needed := c.NumMeetings - len(fixed)
	if needed <= 0 {
		return len(fixed) > 0
	}

	chosen := make([]model.Meeting, 0, needed)
	for i := 0; i < needed; i++ {
		template := model.Meeting{}
		if i == 0 {
			template = pin
		}
		m, ok := sch.findCandidate(ctx, s, c, template, append(fixed, chosen...))
		if !ok {
			return false
		}
		chosen = append(chosen, m)
	}

	sch.commit(ctx, s, append(fixed, chosen...))
	return true
}

// commit writes the placement onto the session and updates the
// availability views immediately, so subsequent sessions see it.
func (sch *Scheduler) commit(ctx *runContext, s *model.Session, meetings []model.Meeting) {
	if len(meetings) == 1 {
		m := meetings[0]
		s.Room, s.Day, s.Slot = m.Room.Name, m.Day.Name, m.Slot.Name
		s.MeetingsRaw = ""
	} else {
		s.Room, s.Day, s.Slot = "", "", ""
		s.MeetingsRaw = model.EncodeMeetings(meetings)
	}
	s.Updated = true
	ctx.sn.Refresh(s)
	for _, m := range meetings {
		ctx.record(s, m)
	}
}

// findCandidate searches room and time candidates in the priority order
// the constraints dictate and returns the first placement satisfying
// every active rule.
func (sch *Scheduler) findCandidate(ctx *runContext, s *model.Session, c Constraints, pin model.Meeting, used []model.Meeting) (model.Meeting, bool) {
	ruleSet := c.Rules(s, holds(ctx.p))
	for _, room := range sch.roomCandidates(ctx, s, c, pin) {
		for _, key := range sch.timeCandidates(ctx, s, c, pin) {
			m := model.Meeting{
				Room: room,
				Day:  ctx.p.DayByName(key.day),
				Slot: ctx.p.SlotByName(key.slot),
			}
			if usedTime(used, m) {
				continue
			}
			if rules.Check(ruleSet, s, m, ctx.sn) {
				return m, true
			}
		}
	}
	return model.Meeting{}, false
}

// roomCandidates returns rooms in priority order: the pinned room, else
// the enforced track room, else rooms meeting the capacity floor sorted
// ascending by capacity, with undersized rooms appended descending once
// the capacity constraint is relaxed.
func (sch *Scheduler) roomCandidates(ctx *runContext, s *model.Session, c Constraints, pin model.Meeting) []*model.Room {
	if pin.Room != nil {
		return []*model.Room{pin.Room}
	}
	if s.IsPlenary() {
		return []*model.Room{ctx.p.PlenaryRoom()}
	}
	if c.TrackRoom != nil {
		return []*model.Room{c.TrackRoom}
	}

	want := sch.wantedCapacity(s)
	var fitting, undersized []*model.Room
	for i := range ctx.p.Rooms {
		r := &ctx.p.Rooms[i]
		if r.Capacity >= want {
			fitting = append(fitting, r)
		} else {
			undersized = append(undersized, r)
		}
	}
	sort.SliceStable(fitting, func(i, j int) bool { return fitting[i].Capacity < fitting[j].Capacity })
	if c.MeetCapacity {
		return fitting
	}
	sort.SliceStable(undersized, func(i, j int) bool { return undersized[i].Capacity > undersized[j].Capacity })
	return append(fitting, undersized...)
}

// timeCandidates returns (day, slot) keys ordered for the session:
// plenaries pack into the slot already holding the most plenaries,
// free-roaming sessions spread into the least occupied slot, track-room
// sessions fill chronologically.
func (sch *Scheduler) timeCandidates(ctx *runContext, s *model.Session, c Constraints, pin model.Meeting) []timeKey {
	var keys []timeKey
	for _, d := range ctx.p.Days {
		if pin.Day != nil && pin.Day.Name != d.Name {
			continue
		}
		for _, sl := range ctx.p.Slots {
			if pin.Slot != nil && pin.Slot.Name != sl.Name {
				continue
			}
			keys = append(keys, timeKey{day: d.Name, slot: sl.Name})
		}
	}
	switch {
	case s.IsPlenary():
		sort.SliceStable(keys, func(i, j int) bool {
			return ctx.plenaryOccupancy(keys[i]) > ctx.plenaryOccupancy(keys[j])
		})
	case c.TrackRoom == nil && pin.Room == nil:
		sort.SliceStable(keys, func(i, j int) bool {
			return ctx.occupancy(keys[i]) < ctx.occupancy(keys[j])
		})
	}
	return keys
}

// electTrackRoom picks the room a track's sessions should share. Rooms
// already requested by the track's sessions come first, everything else
// after, all ordered by fewest non-track occupants; the filters then
// prefer rooms large enough and free enough for the whole track.
func (sch *Scheduler) electTrackRoom(ctx *runContext, track string, sessions []*model.Session) *model.Room {
	switch track {
	case model.TrackPlenary:
		return ctx.p.PlenaryRoom()
	case model.TrackNone:
		return nil
	}

	requested := map[string]bool{}
	for _, s := range sessions {
		if s.Room != "" {
			if r := ctx.p.RoomByName(s.Room); r != nil {
				requested[r.Name] = true
			}
		}
	}
	var front, back []*model.Room
	for i := range ctx.p.Rooms {
		r := &ctx.p.Rooms[i]
		if requested[r.Name] {
			front = append(front, r)
		} else {
			back = append(back, r)
		}
	}
	byOccupants := func(rooms []*model.Room) {
		sort.SliceStable(rooms, func(i, j int) bool {
			return ctx.nonTrackOccupants(rooms[i], track) < ctx.nonTrackOccupants(rooms[j], track)
		})
	}
	byOccupants(front)
	byOccupants(back)
	ordered := append(front, back...)
	if len(ordered) == 0 {
		return nil
	}

	maxCap := 0
	needSlots := 0
	for _, s := range sessions {
		if want := sch.wantedCapacity(s); want > maxCap {
			maxCap = want
		}
		needSlots += s.Description.RequestedMeetings()
	}
	capOK := func(r *model.Room) bool { return r.Capacity >= maxCap }
	slotsOK := func(r *model.Room) bool { return ctx.freeSlots(r) >= needSlots }

	for _, filter := range []func(*model.Room) bool{
		func(r *model.Room) bool { return capOK(r) && slotsOK(r) },
		capOK,
		slotsOK,
	} {
		for _, r := range ordered {
			if filter(r) {
				return r
			}
		}
	}
	return ordered[0]
}

// wantedCapacity normalizes an unknown requested capacity to the
// configured mid-size default.
func (sch *Scheduler) wantedCapacity(s *model.Session) int {
	if s.Description == nil || s.Description.Capacity == 0 {
		return sch.cfg.DefaultCapacity
	}
	return s.Description.Capacity
}

// fullyScheduled reports whether every requested meeting is already
// placed, making the session ineligible for this run.
func (sch *Scheduler) fullyScheduled(ctx *runContext, s *model.Session) bool {
	if s.Description == nil {
		return true
	}
	n := 0
	for _, m := range ctx.sn.Meetings(s) {
		if m.Invalid {
			return true // blocked by validation, nothing to do here
		}
		if m.Scheduled() {
			n++
		}
	}
	return n >= s.Description.RequestedMeetings()
}

// trackSessions selects, in shuffled order, the track's sessions still
// awaiting processing. A session belonging to two tracks is handled on
// first encounter only.
func trackSessions(shuffled []*model.Session, track string, done, blocked map[int]bool) []*model.Session {
	var out []*model.Session
	for _, s := range shuffled {
		if done[s.Number] || blocked[s.Number] || s.Description == nil {
			continue
		}
		switch track {
		case model.TrackPlenary:
			if s.IsPlenary() {
				out = append(out, s)
			}
		case model.TrackNone:
			if !s.IsPlenary() && len(s.Description.Tracks) == 0 {
				out = append(out, s)
			}
		default:
			if !s.IsPlenary() && s.Description.HasTrack(track) {
				out = append(out, s)
			}
		}
	}
	return out
}

func usedTime(used []model.Meeting, m model.Meeting) bool {
	for _, u := range used {
		if u.SameTime(m) {
			return true
		}
	}
	return false
}

func holds(p *model.Project) int {
	if p.Meta.PlenaryHolds > 0 {
		return p.Meta.PlenaryHolds
	}
	return 5
}

// checkConfiguration rejects whole-project problems no schedule can be
// built from.
func checkConfiguration(p *model.Project) error {
	for _, s := range p.Slots {
		if s.Duration != 30 && s.Duration != 60 {
			return fmt.Errorf("slot %s has invalid duration %d, want 30 or 60", s.Name, s.Duration)
		}
	}
	if p.Meta.PlenaryRoom != "" && p.PlenaryRoom() == nil {
		return fmt.Errorf("plenary room %q not found in room list", p.Meta.PlenaryRoom)
	}
	for _, s := range p.Sessions {
		if s.IsPlenary() && p.PlenaryRoom() == nil {
			return fmt.Errorf("session %d is a plenary but no plenary room is configured", s.Number)
		}
	}
	return nil
}
