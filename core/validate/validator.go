// Package validate runs the conflict rules and structural checks against
// one session or the whole grid and computes the minimal issue state to
// persist back to the host system.
package validate

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kilianp07/agenda/core/logger"
	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
)

// DescriptionParser turns a raw session body into the structured
// description. Parsing normally happens at the system boundary; the
// validator only falls back to the parser for sessions that arrive
// unparsed.
type DescriptionParser interface {
	Parse(body string) (*model.Description, error)
}

// Directory resolves chairs and groups against the host system's people
// database. A nil directory skips both checks.
type Directory interface {
	// ResolveGroups maps a team-event session title to group names,
	// returning the tokens that resolved to nothing.
	ResolveGroups(title string) (groups, unresolved []string)
	// KnownChair reports whether the chair name exists.
	KnownChair(name string) bool
}

// Config holds validator settings.
type Config struct {
	// MinutesDomain is the canonical host for minutes links; links hosted
	// elsewhere are flagged.
	MinutesDomain string `json:"minutes_domain"`
	// MinutesGraceDays is how many days after a session's day the minutes
	// link may still be missing without a flag.
	MinutesGraceDays int `json:"minutes_grace_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MinutesGraceDays == 0 {
		c.MinutesGraceDays = 2
	}
}

// Validator runs all conflict rules plus structural checks. It never
// raises for a broken session; one session's structural error does not
// block validation of the others.
type Validator struct {
	cfg       Config
	parser    DescriptionParser
	directory Directory
	log       logger.Logger
	now       func() time.Time
}

// New creates a Validator. parser and directory may be nil.
func New(cfg Config, parser DescriptionParser, directory Directory, log logger.Logger) *Validator {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Validator{cfg: cfg, parser: parser, directory: directory, log: log, now: time.Now}
}

// SetClock overrides the time source, for tests.
func (v *Validator) SetClock(now func() time.Time) { v.now = now }

// ValidateGrid validates every session, applies the computed issue state
// to each session's recorded state and returns the raw issues plus the
// delta of sessions whose state changed.
func (v *Validator) ValidateGrid(p *model.Project, mode Mode) ([]Issue, Delta) {
	sn := rules.NewSnapshot(p)
	var all []Issue
	delta := Delta{}
	for _, s := range p.Sessions {
		issues := v.ValidateSession(sn, s, mode)
		all = append(all, issues...)

		state := model.RecordedState{
			Errors:   joinTypes(issues, SeverityError, nil),
			Warnings: joinTypes(issues, SeverityWarning, v.suppressedBy(s)),
			// The channel review flag is set and cleared externally, never
			// recomputed here.
			ReviewFlag: s.Recorded.ReviewFlag,
		}
		if state != s.Recorded {
			delta[s.Number] = state
			s.Recorded = state
		}
	}
	if len(delta) > 0 {
		v.log.Infof("validation state changed for %d sessions", len(delta))
	}
	return all, delta
}

// suppressedBy returns a matcher for admin-authored notes: a note that
// mentions a warning type's name suppresses persisting that type.
func (v *Validator) suppressedBy(s *model.Session) func(string) bool {
	notes := strings.ToLower(s.Notes)
	if notes == "" {
		return nil
	}
	return func(typ string) bool {
		return strings.Contains(notes, typ)
	}
}

// ValidateSession runs the ordered per-session checks. Order matters:
// later checks assume earlier ones passed, and a body that fails to parse
// short-circuits everything else for that session.
func (v *Validator) ValidateSession(sn *rules.Snapshot, s *model.Session, mode Mode) []Issue {
	if s.Description == nil {
		if v.parser == nil {
			return []Issue{v.issue(s, SeverityError, TypeFormat, "session has no structured description")}
		}
		desc, err := v.parser.Parse(s.Body)
		if err != nil {
			return []Issue{v.issue(s, SeverityError, TypeFormat, "cannot parse session body: %v", err)}
		}
		s.Description = desc
		sn.Refresh(s)
	}

	var issues []Issue
	issues = append(issues, v.checkPeople(sn, s)...)
	issues = append(issues, v.checkConflictIDs(sn, s)...)
	issues = append(issues, v.checkMeetings(sn, s)...)
	if mode == ModeEverything {
		issues = append(issues, v.checkInformational(sn, s)...)
	}
	return issues
}

// checkPeople resolves groups for team events and validates chairs for
// everything else.
func (v *Validator) checkPeople(sn *rules.Snapshot, s *model.Session) []Issue {
	if v.directory == nil {
		return nil
	}
	var issues []Issue
	if sn.Project.Meta.EventType == model.EventTeam {
		groups, unresolved := v.directory.ResolveGroups(s.Title)
		for _, g := range unresolved {
			issues = append(issues, v.issue(s, SeverityError, TypeGroups, "unknown group %q", g))
		}
		seen := map[string]bool{}
		for _, g := range groups {
			if seen[g] {
				issues = append(issues, v.issue(s, SeverityError, TypeGroups, "group %q meets jointly with itself", g))
			}
			seen[g] = true
		}
		for _, o := range sn.Project.Sessions {
			if o.Number == s.Number || o.Description == nil {
				continue
			}
			for _, g := range groups {
				for _, og := range o.Description.Groups {
					if g == og {
						issues = append(issues, v.issue(s, SeverityError, TypeGroups,
							"group %q also appears in session %d (%s)", g, o.Number, o.Title))
					}
				}
			}
		}
		if s.Description.Groups == nil {
			s.Description.Groups = groups
		}
		return issues
	}
	for _, c := range s.Description.Chairs {
		if !v.directory.KnownChair(c) {
			issues = append(issues, v.issue(s, SeverityError, TypeChairs, "unknown chair %q", c))
		}
	}
	return issues
}

// checkConflictIDs validates the declared conflict list.
func (v *Validator) checkConflictIDs(sn *rules.Snapshot, s *model.Session) []Issue {
	var issues []Issue
	if s.IsPlenary() && len(s.Description.Conflicts) > 0 {
		issues = append(issues, v.issue(s, SeverityError, TypeConflicts, "a plenary session cannot declare conflicts"))
	}
	for _, c := range s.Description.Conflicts {
		if c == s.Number {
			issues = append(issues, v.issue(s, SeverityError, TypeConflicts, "session %d conflicts with itself", c))
			continue
		}
		if sn.Project.SessionByNumber(c) == nil {
			issues = append(issues, v.issue(s, SeverityError, TypeConflicts, "conflict refers to unknown session %d", c))
		}
	}
	return issues
}

//gocyclo:ignore
func (v *Validator) checkMeetings(sn *rules.Snapshot, s *model.Session) []Issue {
	var issues []Issue
	meetings := sn.Meetings(s)

	for _, m := range meetings {
		if m.Invalid {
			issues = append(issues, v.issue(s, SeverityError, TypeMeetingFormat,
				"meeting entry contains an unresolvable room, day or slot token"))
		}
	}
	for i := range meetings {
		for j := i + 1; j < len(meetings); j++ {
			if meetings[i].SameTime(meetings[j]) {
				issues = append(issues, v.issue(s, SeverityError, TypeMeetingDuplicate,
					"two meetings share %s %s", meetings[i].Day.Name, meetings[i].Slot.Name))
			}
		}
	}

	if s.IsPlenary() {
		issues = append(issues, v.checkPlenaryMeetings(sn, s, meetings)...)
	}

	scheduled := 0
	for _, m := range meetings {
		if m.Invalid {
			continue
		}
		if m.Scheduled() {
			scheduled++
		}
		issues = append(issues, v.checkPlacement(sn, s, m)...)
	}
	if scheduled > 0 {
		issues = append(issues, v.checkTimes(sn, s, meetings)...)
	}
	return issues
}

func (v *Validator) checkPlenaryMeetings(sn *rules.Snapshot, s *model.Session, meetings []model.Meeting) []Issue {
	var issues []Issue
	if len(meetings) > 1 {
		issues = append(issues, v.issue(s, SeverityError, TypeScheduling,
			"a plenary session must resolve to exactly one meeting, got %d", len(meetings)))
	}
	room := sn.Project.PlenaryRoom()
	for _, m := range meetings {
		if m.Room != nil && (room == nil || m.Room.Name != room.Name) {
			issues = append(issues, v.issue(s, SeverityError, TypeScheduling,
				"plenary session must meet in the plenary room"))
		}
		if m.Day != nil && m.Slot != nil && sn.PlenarySlotCount(m) > v.holds(sn.Project) {
			issues = append(issues, v.issue(s, SeverityError, TypeScheduling,
				"Too many sessions scheduled in same plenary slot"))
		}
	}
	return issues
}

//gocyclo:ignore
func (v *Validator) checkPlacement(sn *rules.Snapshot, s *model.Session, m model.Meeting) []Issue {
	var issues []Issue

	if !s.IsPlenary() {
		if room := sn.Project.PlenaryRoom(); room != nil && m.Room != nil && m.Room.Name == room.Name {
			issues = append(issues, v.issue(s, SeverityError, TypeScheduling,
				"session is not a plenary but uses the plenary room"))
		}
		for _, o := range rules.RoomConflicts(s, m, sn) {
			is := v.issue(s, SeverityError, TypeScheduling,
				"also scheduled in %s on %s at %s: session %d (%s)",
				m.Room.Label, m.Day.Label, m.Slot.Start, o.Number, o.Title)
			is.Details = []*model.Session{o}
			issues = append(issues, is)
		}
	}

	if want := v.wantedCapacity(s); rules.CapacityShort(m, want) {
		issues = append(issues, v.issue(s, SeverityWarning, TypeCapacity,
			"requested capacity %d but room %s seats %d", want, m.Room.Label, m.Room.Capacity))
	}

	for _, o := range rules.ChairConflicts(s, m, sn) {
		typ := TypeChairConflict
		if sn.Project.Meta.EventType == model.EventTeam {
			typ = TypeGroupConflict
		}
		is := v.issue(s, SeverityError, typ,
			"shares a chair with parallel session %d (%s)", o.Number, o.Title)
		is.Details = []*model.Session{o}
		issues = append(issues, is)
	}
	for _, o := range rules.DeclaredConflicts(s, m, sn) {
		issues = append(issues, v.issue(s, SeverityWarning, TypeConflict,
			"conflicts with parallel session %d (%s)", o.Number, o.Title))
	}
	for _, o := range rules.TrackConflicts(s, m, sn) {
		issues = append(issues, v.issue(s, SeverityWarning, TypeTrack,
			"shares a track with parallel session %d (%s)", o.Number, o.Title))
	}
	for _, o := range rules.ParallelPlenaries(s, m, sn) {
		issues = append(issues, v.issue(s, SeverityWarning, TypePlenary,
			"meets in parallel with plenary session %d (%s)", o.Number, o.Title))
	}
	for _, o := range rules.ChannelConflicts(s, m, sn) {
		is := v.issue(s, SeverityError, TypeIRC,
			"channel %q also used by parallel session %d (%s)", s.Description.Channel, o.Number, o.Title)
		is.Details = []*model.Session{o}
		issues = append(issues, is)
	}
	return issues
}

// checkTimes warns when the assigned (day, slot) set differs from the
// requested acceptable times.
func (v *Validator) checkTimes(sn *rules.Snapshot, s *model.Session, meetings []model.Meeting) []Issue {
	prefs := s.Description.Times
	if len(prefs) == 0 {
		return nil
	}
	actual := map[model.TimePref]bool{}
	for _, m := range meetings {
		if m.Day != nil && m.Slot != nil {
			actual[model.TimePref{Day: m.Day.Name, Slot: m.Slot.Name}] = true
		}
	}
	mismatch := len(actual) != len(prefs)
	if !mismatch {
		for _, p := range prefs {
			if d := sn.Project.DayByName(p.Day); d != nil {
				p.Day = d.Name
			}
			if sl := sn.Project.SlotByName(p.Slot); sl != nil {
				p.Slot = sl.Name
			}
			if !actual[p] {
				mismatch = true
				break
			}
		}
	}
	if mismatch {
		return []Issue{v.issue(s, SeverityWarning, TypeTimes,
			"scheduled times differ from the %d requested times", len(prefs))}
	}
	return nil
}

// checkInformational produces the non-blocking check flags.
func (v *Validator) checkInformational(sn *rules.Snapshot, s *model.Session) []Issue {
	var issues []Issue
	if s.Description.Instructions != "" {
		issues = append(issues, v.issue(s, SeverityCheck, TypeInstructions,
			"session carries instructions for the meeting planners"))
	}
	issues = append(issues, v.checkMinutes(sn, s)...)
	return issues
}

func (v *Validator) checkMinutes(sn *rules.Snapshot, s *model.Session) []Issue {
	if s.Description.MinutesURL == "" {
		if day := v.sessionDate(sn, s); !day.IsZero() {
			due := day.AddDate(0, 0, v.cfg.MinutesGraceDays)
			if v.now().After(due) {
				return []Issue{v.issue(s, SeverityCheck, TypeMinutes, "minutes link still missing")}
			}
		}
		return nil
	}
	if v.cfg.MinutesDomain == "" {
		return nil
	}
	u, err := url.Parse(s.Description.MinutesURL)
	if err != nil || !strings.HasSuffix(u.Hostname(), v.cfg.MinutesDomain) {
		return []Issue{v.issue(s, SeverityCheck, TypeMinutes,
			"minutes hosted off %s: %s", v.cfg.MinutesDomain, s.Description.MinutesURL)}
	}
	return nil
}

// sessionDate returns the calendar date of the session's latest scheduled
// day, or the zero time when unscheduled.
func (v *Validator) sessionDate(sn *rules.Snapshot, s *model.Session) time.Time {
	var latest time.Time
	for _, m := range sn.Meetings(s) {
		if m.Day == nil {
			continue
		}
		d, err := time.Parse("2006-01-02", m.Day.Date)
		if err != nil {
			continue
		}
		if d.After(latest) {
			latest = d
		}
	}
	return latest
}

func (v *Validator) wantedCapacity(s *model.Session) int {
	return s.Description.Capacity
}

func (v *Validator) holds(p *model.Project) int {
	if p.Meta.PlenaryHolds > 0 {
		return p.Meta.PlenaryHolds
	}
	return 5
}

func (v *Validator) issue(s *model.Session, sev Severity, typ, format string, args ...any) Issue {
	return Issue{
		Session:  s,
		Severity: sev,
		Type:     typ,
		Messages: []string{fmt.Sprintf(format, args...)},
	}
}
