package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
)

func testProject(sessions ...*model.Session) *model.Project {
	return &model.Project{
		Rooms: []model.Room{
			{Name: "bellevue", Label: "Bellevue", Capacity: 120},
			{Name: "geneve", Label: "Geneve", Capacity: 40},
			{Name: "leman", Label: "Leman", Capacity: 20},
		},
		Days: []model.Day{
			{Name: "mon", Date: "2026-03-02"},
			{Name: "tue", Date: "2026-03-03"},
		},
		Slots: []model.Slot{
			{Name: "s1", Start: "09:00", End: "10:00", Duration: 60},
			{Name: "s2", Start: "10:00", End: "11:00", Duration: 60},
		},
		Sessions: sessions,
		Meta:     model.Metadata{PlenaryRoom: "bellevue", PlenaryHolds: 5},
	}
}

func session(n int, room, day, slot string, d *model.Description) *model.Session {
	if d == nil {
		d = &model.Description{}
	}
	return &model.Session{Number: n, Title: "session", Room: room, Day: day, Slot: slot, Description: d}
}

func hasIssue(issues []Issue, sev Severity, typ string) bool {
	for _, is := range issues {
		if is.Severity == sev && is.Type == typ {
			return true
		}
	}
	return false
}

func TestValidateGridDoubleBooking(t *testing.T) {
	a := session(1, "geneve", "mon", "s1", nil)
	b := session(2, "geneve", "mon", "s1", nil)
	p := testProject(a, b)
	v := New(Config{}, nil, nil, nil)

	issues, delta := v.ValidateGrid(p, ModeEverything)
	if !hasIssue(issues, SeverityError, TypeScheduling) {
		t.Fatalf("expected scheduling error, got %+v", issues)
	}
	if len(delta) != 2 {
		t.Fatalf("both sessions change state, got %d", len(delta))
	}
	if a.Recorded.Errors != TypeScheduling {
		t.Fatalf("recorded errors: %q", a.Recorded.Errors)
	}
	found := false
	for _, is := range issues {
		if is.Type == TypeScheduling && len(is.Details) == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("double booking must carry the other session as detail")
	}
}

func TestValidateGridIdempotentDelta(t *testing.T) {
	a := session(1, "geneve", "mon", "s1", nil)
	b := session(2, "geneve", "mon", "s1", nil)
	p := testProject(a, b)
	v := New(Config{}, nil, nil, nil)

	_, first := v.ValidateGrid(p, ModeEverything)
	if len(first) == 0 {
		t.Fatalf("first run must produce a delta")
	}
	_, second := v.ValidateGrid(p, ModeEverything)
	if len(second) != 0 {
		t.Fatalf("unchanged grid must yield an empty delta, got %v", second)
	}
}

func TestValidateGridPlenaryOverflow(t *testing.T) {
	var sessions []*model.Session
	for n := 1; n <= 6; n++ {
		sessions = append(sessions, session(n, "bellevue", "mon", "s1",
			&model.Description{Type: model.SessionPlenary}))
	}
	p := testProject(sessions...)
	v := New(Config{}, nil, nil, nil)

	issues, _ := v.ValidateGrid(p, ModeEverything)
	overflow := 0
	for _, is := range issues {
		for _, msg := range is.Messages {
			if msg == "Too many sessions scheduled in same plenary slot" {
				overflow++
			}
		}
	}
	if overflow == 0 {
		t.Fatalf("six plenaries in a slot holding five must overflow")
	}
}

func TestValidateGridPlenaryWithinCapacity(t *testing.T) {
	var sessions []*model.Session
	for n := 1; n <= 5; n++ {
		sessions = append(sessions, session(n, "bellevue", "mon", "s1",
			&model.Description{Type: model.SessionPlenary}))
	}
	p := testProject(sessions...)
	v := New(Config{}, nil, nil, nil)

	issues, _ := v.ValidateGrid(p, ModeEverything)
	for _, is := range issues {
		if is.Severity == SeverityError {
			t.Fatalf("five plenaries fit the cap, got %+v", is)
		}
	}
}

func TestValidateSessionCapacityWarning(t *testing.T) {
	s := session(1, "geneve", "mon", "s1", &model.Description{Capacity: 50})
	p := testProject(s)
	v := New(Config{}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityWarning, TypeCapacity) {
		t.Fatalf("expected capacity warning, got %+v", issues)
	}
	for _, is := range issues {
		if is.Type == TypeCapacity && !strings.Contains(is.Messages[0], "requested capacity 50") {
			t.Fatalf("message: %q", is.Messages[0])
		}
	}
}

func TestValidateSessionSharedChair(t *testing.T) {
	a := session(1, "geneve", "mon", "s1", &model.Description{Chairs: []string{"ana"}})
	b := session(2, "leman", "mon", "s1", &model.Description{Chairs: []string{"ana"}})
	p := testProject(a, b)
	v := New(Config{}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), a, ModeEverything)
	if !hasIssue(issues, SeverityError, TypeChairConflict) {
		t.Fatalf("expected chair conflict, got %+v", issues)
	}
}

func TestValidateSessionNonPlenaryInPlenaryRoom(t *testing.T) {
	s := session(1, "bellevue", "mon", "s1", nil)
	p := testProject(s)
	v := New(Config{}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityError, TypeScheduling) {
		t.Fatalf("non-plenary in plenary room must error, got %+v", issues)
	}
}

func TestValidateSessionUnparsableBody(t *testing.T) {
	s := &model.Session{Number: 1, Body: "whatever"}
	p := testProject(s)
	v := New(Config{}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if len(issues) != 1 || issues[0].Type != TypeFormat {
		t.Fatalf("missing description short-circuits with a format error, got %+v", issues)
	}
}

func TestValidateSessionConflictIDs(t *testing.T) {
	s := session(1, "", "", "", &model.Description{Conflicts: []int{1, 99}})
	p := testProject(s)
	v := New(Config{}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	n := 0
	for _, is := range issues {
		if is.Type == TypeConflicts {
			n++
		}
	}
	if n != 2 {
		t.Fatalf("self-conflict and unknown session each error, got %+v", issues)
	}
}

func TestNotesSuppressWarningPersistence(t *testing.T) {
	a := session(1, "leman", "mon", "s1", &model.Description{Capacity: 50})
	a.Notes = "room too small is fine, capacity accepted by the chair"
	p := testProject(a)
	v := New(Config{}, nil, nil, nil)

	issues, _ := v.ValidateGrid(p, ModeEverything)
	if !hasIssue(issues, SeverityWarning, TypeCapacity) {
		t.Fatalf("suppression hides persistence, not the issue itself")
	}
	if strings.Contains(a.Recorded.Warnings, TypeCapacity) {
		t.Fatalf("suppressed warning persisted: %q", a.Recorded.Warnings)
	}
}

func TestReviewFlagPreserved(t *testing.T) {
	a := session(1, "geneve", "mon", "s1", nil)
	a.Recorded.ReviewFlag = true
	p := testProject(a)
	v := New(Config{}, nil, nil, nil)

	v.ValidateGrid(p, ModeEverything)
	if !a.Recorded.ReviewFlag {
		t.Fatalf("review flag is managed externally and must survive validation")
	}
}

func TestModeSchedulingSkipsInformational(t *testing.T) {
	s := session(1, "geneve", "mon", "s1", &model.Description{Instructions: "set up a projector"})
	p := testProject(s)
	v := New(Config{}, nil, nil, nil)

	if issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeScheduling); hasIssue(issues, SeverityCheck, TypeInstructions) {
		t.Fatalf("scheduling mode must skip informational checks")
	}
	if issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything); !hasIssue(issues, SeverityCheck, TypeInstructions) {
		t.Fatalf("everything mode must include informational checks")
	}
}

func TestMinutesMissingAfterGrace(t *testing.T) {
	s := session(1, "geneve", "mon", "s1", nil)
	p := testProject(s)
	v := New(Config{MinutesGraceDays: 2}, nil, nil, nil)

	v.SetClock(func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) })
	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityCheck, TypeMinutes) {
		t.Fatalf("minutes missing past grace must flag, got %+v", issues)
	}

	v.SetClock(func() time.Time { return time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC) })
	issues = v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if hasIssue(issues, SeverityCheck, TypeMinutes) {
		t.Fatalf("within grace no flag, got %+v", issues)
	}
}

func TestMinutesOffCanonicalDomain(t *testing.T) {
	s := session(1, "geneve", "mon", "s1", &model.Description{MinutesURL: "https://elsewhere.example.com/m/1"})
	p := testProject(s)
	v := New(Config{MinutesDomain: "notes.example.org"}, nil, nil, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityCheck, TypeMinutes) {
		t.Fatalf("off-domain minutes must flag, got %+v", issues)
	}
}

func TestBlockedSelectsStructuralErrors(t *testing.T) {
	s := session(1, "", "", "", nil)
	issues := []Issue{
		{Session: s, Severity: SeverityError, Type: TypeFormat},
		{Session: session(2, "", "", "", nil), Severity: SeverityWarning, Type: TypeCapacity},
		{Session: session(3, "", "", "", nil), Severity: SeverityError, Type: TypeScheduling},
	}
	blocked := Blocked(issues)
	if !blocked[1] {
		t.Fatalf("format error blocks scheduling")
	}
	if blocked[2] || blocked[3] {
		t.Fatalf("warnings and relaxable errors do not block: %v", blocked)
	}
}

type stubDirectory struct{}

func (stubDirectory) ResolveGroups(title string) (groups, unresolved []string) {
	for _, tok := range strings.Split(title, "/") {
		tok = strings.TrimSpace(tok)
		if tok == "ghost" {
			unresolved = append(unresolved, tok)
			continue
		}
		groups = append(groups, tok)
	}
	return groups, unresolved
}

func (stubDirectory) KnownChair(name string) bool { return name == "ana" }

func TestTeamEventGroupResolution(t *testing.T) {
	s := session(1, "", "", "", nil)
	s.Title = "core/ghost"
	p := testProject(s)
	p.Meta.EventType = model.EventTeam
	v := New(Config{}, nil, stubDirectory{}, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityError, TypeGroups) {
		t.Fatalf("unresolved group must error, got %+v", issues)
	}
	if len(s.Description.Groups) != 1 || s.Description.Groups[0] != "core" {
		t.Fatalf("resolved groups stored on description: %v", s.Description.Groups)
	}
}

func TestConferenceEventUnknownChair(t *testing.T) {
	s := session(1, "", "", "", &model.Description{Chairs: []string{"ana", "zed"}})
	p := testProject(s)
	v := New(Config{}, nil, stubDirectory{}, nil)

	issues := v.ValidateSession(rules.NewSnapshot(p), s, ModeEverything)
	if !hasIssue(issues, SeverityError, TypeChairs) {
		t.Fatalf("unknown chair must error, got %+v", issues)
	}
}
