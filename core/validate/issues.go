package validate

import (
	"sort"
	"strings"

	"github.com/kilianp07/agenda/core/model"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityCheck   Severity = "check"
)

// Issue types produced by the validator. Persisted state stores the
// sorted, comma-joined list of these per severity.
const (
	TypeFormat           = "format"
	TypeGroups           = "groups"
	TypeChairs           = "chairs"
	TypeConflicts        = "conflicts"
	TypeMeetingFormat    = "meeting format"
	TypeMeetingDuplicate = "meeting duplicate"
	TypeScheduling       = "scheduling"
	TypeTimes            = "times"
	TypeCapacity         = "capacity"
	TypeChairConflict    = "chair conflict"
	TypeGroupConflict    = "group conflict"
	TypeConflict         = "conflict"
	TypeTrack            = "track"
	TypePlenary          = "plenary"
	TypeIRC              = "irc"
	TypeInstructions     = "instructions"
	TypeMinutes          = "minutes"
)

// Issue is one validation finding for a session. Details carries the
// sessions involved in a conflict so callers can render evidence.
type Issue struct {
	Session  *model.Session
	Severity Severity
	Type     string
	Messages []string
	Details  []*model.Session
}

// Mode selects which issue types a validation pass produces.
type Mode int

const (
	// ModeEverything runs every check including informational ones.
	ModeEverything Mode = iota
	// ModeScheduling restricts the pass to the types relevant while
	// re-scheduling, skipping the informational checks.
	ModeScheduling
)

// Delta is the minimal persistence change per session number, produced
// when the computed issue state differs from the recorded one.
type Delta map[int]model.RecordedState

// blockingTypes are structural errors the scheduler cannot relax away; a
// session carrying one is excluded from scheduling entirely.
var blockingTypes = map[string]bool{
	TypeFormat:           true,
	TypeGroups:           true,
	TypeChairs:           true,
	TypeConflicts:        true,
	TypeMeetingFormat:    true,
	TypeMeetingDuplicate: true,
}

// Blocked returns the numbers of sessions carrying a blocking error.
func Blocked(issues []Issue) map[int]bool {
	out := make(map[int]bool)
	for _, is := range issues {
		if is.Severity == SeverityError && blockingTypes[is.Type] {
			out[is.Session.Number] = true
		}
	}
	return out
}

// joinTypes returns the sorted, comma-joined unique type names of the
// issues matching the severity, skipping suppressed types.
func joinTypes(issues []Issue, sev Severity, suppressed func(string) bool) string {
	seen := map[string]bool{}
	var types []string
	for _, is := range issues {
		if is.Severity != sev || seen[is.Type] {
			continue
		}
		if suppressed != nil && suppressed(is.Type) {
			continue
		}
		seen[is.Type] = true
		types = append(types, is.Type)
	}
	sort.Strings(types)
	return strings.Join(types, ", ")
}
