// Package reconcile diffs a session's desired meeting blocks against its
// previously recorded calendar occurrences and emits the minimal
// create/update/cancel actions to bring the external calendar in line.
package reconcile

import (
	"github.com/kilianp07/agenda/core/model"
)

// EntryTypePlenary tags calendar entries shared by plenary sessions.
const EntryTypePlenary = "plenary"

// CalendarEntry is one previously recorded external occurrence.
type CalendarEntry struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"type,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Action is one calendar operation. Entry is non-nil for updates that
// rebind or repurpose an existing occurrence; its URL identifies the
// external record to touch.
type Action struct {
	Block model.Block
	Day   string
	Start string
	End   string
	Entry *CalendarEntry
}

// Cancellation removes a recorded occurrence. For plenary-type entries
// RemoveOnly is set: the session leaves the shared entry, which itself
// survives.
type Cancellation struct {
	Entry      CalendarEntry
	RemoveOnly bool
}

// Actions are the per-session reconciliation result. No occurrence
// appears in more than one list; applying all three atomically brings
// the calendar in line with the schedule.
type Actions struct {
	Create []Action
	Update []Action
	Cancel []Cancellation
}

// Empty reports whether the calendar already matches the schedule.
func (a Actions) Empty() bool {
	return len(a.Create) == 0 && len(a.Update) == 0 && len(a.Cancel) == 0
}

type entryKey struct {
	day   string
	start string
	end   string
	typ   string
}

// Diff computes the actions for one session. Desired blocks are the
// maximal contiguous same-room runs of the session's scheduled meetings;
// recorded entries match by exact (day, start, end) key, with the entry
// type participating for plenary sessions.
func Diff(p *model.Project, s *model.Session, recorded []CalendarEntry) Actions {
	blocks := model.GroupMeetings(p, s.Meetings(p))
	plenary := s.IsPlenary()

	unclaimed := make(map[entryKey][]CalendarEntry)
	for _, e := range recorded {
		k := keyOf(e.Day, e.Start, e.End, e.Type, plenary)
		unclaimed[k] = append(unclaimed[k], e)
	}

	var actions Actions
	for _, b := range blocks {
		typ := ""
		if plenary {
			typ = EntryTypePlenary
		}
		k := keyOf(b.Day.Name, b.Start, b.End, typ, plenary)
		act := Action{Block: b, Day: b.Day.Name, Start: b.Start, End: b.End}
		if entries := unclaimed[k]; len(entries) > 0 {
			e := entries[0]
			unclaimed[k] = entries[1:]
			act.Entry = &e
			actions.Update = append(actions.Update, act)
			continue
		}
		actions.Create = append(actions.Create, act)
	}

	// Leftover recorded entries are repurposed for pending creates before
	// anything is cancelled, so external identifiers survive reschedules.
	for _, e := range recorded {
		k := keyOf(e.Day, e.Start, e.End, e.Type, plenary)
		if !claimed(unclaimed, k, e) {
			continue
		}
		if len(actions.Create) > 0 {
			act := actions.Create[0]
			actions.Create = actions.Create[1:]
			entry := e
			act.Entry = &entry
			actions.Update = append(actions.Update, act)
			continue
		}
		actions.Cancel = append(actions.Cancel, Cancellation{
			Entry:      e,
			RemoveOnly: e.Type == EntryTypePlenary,
		})
	}
	return actions
}

// claimed pops e from the unclaimed set, reporting whether it was still
// there.
func claimed(unclaimed map[entryKey][]CalendarEntry, k entryKey, e CalendarEntry) bool {
	entries := unclaimed[k]
	for i := range entries {
		if entries[i] == e {
			unclaimed[k] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

func keyOf(day, start, end, typ string, plenary bool) entryKey {
	k := entryKey{day: day, start: start, end: end}
	if plenary {
		k.typ = typ
	}
	return k
}
