package schedule

import (
	"math/rand"

	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
)

// timeKey identifies one (day, slot) cell of the grid.
type timeKey struct {
	day  string
	slot string
}

// runContext owns all mutable state of one scheduling run: the conflict
// snapshot, the incrementally updated availability views and the shuffle
// source. It is created per run and never shared.
type runContext struct {
	p    *model.Project
	sn   *rules.Snapshot
	grid map[timeKey][]*model.Session          // sessions parallel at a (day, slot)
	room map[string]map[timeKey]*model.Session // occupancy per room
	done map[int]bool                          // sessions already processed
	rng  *rand.Rand
}

func newRunContext(p *model.Project, seed int64) *runContext {
	ctx := &runContext{
		p:    p,
		sn:   rules.NewSnapshot(p),
		grid: make(map[timeKey][]*model.Session),
		room: make(map[string]map[timeKey]*model.Session),
		done: make(map[int]bool),
		rng:  rand.New(rand.NewSource(seed)),
	}
	for _, s := range p.Sessions {
		for _, m := range ctx.sn.Meetings(s) {
			ctx.record(s, m)
		}
	}
	return ctx
}

// record updates both availability views with the meeting.
func (ctx *runContext) record(s *model.Session, m model.Meeting) {
	if m.Day == nil || m.Slot == nil {
		return
	}
	key := timeKey{day: m.Day.Name, slot: m.Slot.Name}
	present := false
	for _, o := range ctx.grid[key] {
		if o.Number == s.Number {
			present = true
			break
		}
	}
	if !present {
		ctx.grid[key] = append(ctx.grid[key], s)
	}
	if m.Room != nil {
		occ := ctx.room[m.Room.Name]
		if occ == nil {
			occ = make(map[timeKey]*model.Session)
			ctx.room[m.Room.Name] = occ
		}
		occ[key] = s
	}
}

// shuffle returns a Fisher-Yates shuffled copy of the sessions.
func (ctx *runContext) shuffle(sessions []*model.Session) []*model.Session {
	out := make([]*model.Session, len(sessions))
	copy(out, sessions)
	for i := len(out) - 1; i > 0; i-- {
		j := ctx.rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// occupancy returns the number of sessions parallel at the key.
func (ctx *runContext) occupancy(key timeKey) int {
	return len(ctx.grid[key])
}

// plenaryOccupancy returns the number of plenary sessions at the key.
func (ctx *runContext) plenaryOccupancy(key timeKey) int {
	n := 0
	for _, s := range ctx.grid[key] {
		if s.IsPlenary() {
			n++
		}
	}
	return n
}

// freeSlots returns how many (day, slot) cells the room still has open.
func (ctx *runContext) freeSlots(r *model.Room) int {
	return len(ctx.p.Days)*len(ctx.p.Slots) - len(ctx.room[r.Name])
}

// nonTrackOccupants counts sessions occupying the room that do not belong
// to the track.
func (ctx *runContext) nonTrackOccupants(r *model.Room, track string) int {
	n := 0
	seen := map[int]bool{}
	for _, s := range ctx.room[r.Name] {
		if seen[s.Number] {
			continue
		}
		seen[s.Number] = true
		if !s.Description.HasTrack(track) {
			n++
		}
	}
	return n
}
