package rules

import (
	"testing"

	"github.com/kilianp07/agenda/core/model"
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
		Meta:     model.Metadata{PlenaryRoom: "bellevue", PlenaryHolds: 2},
	}
}

func placed(n int, room, day, slot string, d *model.Description) *model.Session {
	if d == nil {
		d = &model.Description{}
	}
	return &model.Session{Number: n, Room: room, Day: day, Slot: slot, Description: d}
}

func meetingAt(p *model.Project, room, day, slot string) model.Meeting {
	return model.Meeting{Room: p.RoomByName(room), Day: p.DayByName(day), Slot: p.SlotByName(slot)}
}

func TestRoomConflicts(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", nil)
	s := placed(1, "", "", "", nil)
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := RoomConflicts(s, meetingAt(p, "geneve", "mon", "s1"), sn); len(got) != 1 || got[0].Number != 2 {
		t.Fatalf("expected conflict with session 2, got %v", got)
	}
	if got := RoomConflicts(s, meetingAt(p, "geneve", "mon", "s2"), sn); len(got) != 0 {
		t.Fatalf("different slot must not conflict, got %v", got)
	}
	if got := RoomConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 0 {
		t.Fatalf("different room must not conflict, got %v", got)
	}
}

func TestRoomConflictsPlenaryPairExempt(t *testing.T) {
	plen := &model.Description{Type: model.SessionPlenary}
	other := placed(2, "bellevue", "mon", "s1", plen)
	s := placed(1, "", "", "", &model.Description{Type: model.SessionPlenary})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := RoomConflicts(s, meetingAt(p, "bellevue", "mon", "s1"), sn); len(got) != 0 {
		t.Fatalf("two plenaries share the plenary room, got %v", got)
	}
}

func TestChairConflicts(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", &model.Description{Chairs: []string{"ana", "bo"}})
	s := placed(1, "", "", "", &model.Description{Chairs: []string{"bo"}})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := ChairConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("parallel shared chair must conflict, got %v", got)
	}
	if got := ChairConflicts(s, meetingAt(p, "leman", "tue", "s1"), sn); len(got) != 0 {
		t.Fatalf("different day must not conflict, got %v", got)
	}
}

func TestChairConflictsGroupsOverlap(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", &model.Description{Groups: []string{"core"}})
	s := placed(1, "", "", "", &model.Description{Groups: []string{"core", "infra"}})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := ChairConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("shared group must conflict, got %v", got)
	}
}

func TestTrackConflicts(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", &model.Description{Tracks: []string{"ops"}})
	s := placed(1, "", "", "", &model.Description{Tracks: []string{"ops"}})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := TrackConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("shared track must conflict, got %v", got)
	}
}

func TestDeclaredConflictsEitherDirection(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", &model.Description{Conflicts: []int{1}})
	s := placed(1, "", "", "", &model.Description{})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := DeclaredConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("conflict declared by the other side must count, got %v", got)
	}
}

func TestChannelConflicts(t *testing.T) {
	other := placed(2, "geneve", "mon", "s1", &model.Description{Channel: "#general"})
	s := placed(1, "", "", "", &model.Description{Channel: "#general"})
	p := testProject(s, other)
	sn := NewSnapshot(p)

	if got := ChannelConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("shared channel must conflict, got %v", got)
	}
	s.Description.Channel = ""
	if got := ChannelConflicts(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 0 {
		t.Fatalf("empty channel never conflicts, got %v", got)
	}
}

func TestParallelPlenaries(t *testing.T) {
	plen := placed(2, "bellevue", "mon", "s1", &model.Description{Type: model.SessionPlenary})
	s := placed(1, "", "", "", &model.Description{})
	p := testProject(s, plen)
	sn := NewSnapshot(p)

	if got := ParallelPlenaries(s, meetingAt(p, "leman", "mon", "s1"), sn); len(got) != 1 {
		t.Fatalf("non-plenary parallel to plenary must flag, got %v", got)
	}
}

func TestCapacityShort(t *testing.T) {
	p := testProject()
	m := meetingAt(p, "leman", "mon", "s1")
	if !CapacityShort(m, 30) {
		t.Fatalf("room of 20 is short for 30")
	}
	if CapacityShort(m, 20) {
		t.Fatalf("room of 20 fits 20")
	}
	if CapacityShort(m, 0) {
		t.Fatalf("unknown request is never short")
	}
}

func TestPlenaryRoomOnly(t *testing.T) {
	plenary := placed(1, "", "", "", &model.Description{Type: model.SessionPlenary})
	normal := placed(2, "", "", "", &model.Description{})
	p := testProject(plenary, normal)
	sn := NewSnapshot(p)

	if !PlenaryRoomOnly(plenary, meetingAt(p, "bellevue", "mon", "s1"), sn) {
		t.Fatalf("plenary in plenary room must pass")
	}
	if PlenaryRoomOnly(plenary, meetingAt(p, "geneve", "mon", "s1"), sn) {
		t.Fatalf("plenary outside plenary room must fail")
	}
	if PlenaryRoomOnly(normal, meetingAt(p, "bellevue", "mon", "s1"), sn) {
		t.Fatalf("normal session in plenary room must fail")
	}
	if !PlenaryRoomOnly(normal, meetingAt(p, "geneve", "mon", "s1"), sn) {
		t.Fatalf("normal session elsewhere must pass")
	}
	if !PlenaryRoomOnly(normal, model.Meeting{Day: p.DayByName("mon")}, sn) {
		t.Fatalf("roomless candidate must pass")
	}
}

func TestPlenaryCapacity(t *testing.T) {
	d := &model.Description{Type: model.SessionPlenary}
	a := placed(2, "bellevue", "mon", "s1", d)
	b := placed(3, "bellevue", "mon", "s1", d)
	s := placed(1, "", "", "", &model.Description{Type: model.SessionPlenary})
	p := testProject(s, a, b)
	sn := NewSnapshot(p)

	rule := PlenaryCapacityOK(2)
	if rule(s, meetingAt(p, "bellevue", "mon", "s1"), sn) {
		t.Fatalf("slot already holds 2 plenaries, cap 2 must refuse a third")
	}
	if !rule(s, meetingAt(p, "bellevue", "mon", "s2"), sn) {
		t.Fatalf("empty slot must accept")
	}
}

func TestSnapshotRefresh(t *testing.T) {
	s := placed(1, "", "", "", nil)
	p := testProject(s)
	sn := NewSnapshot(p)
	if len(sn.Meetings(s)) != 0 {
		t.Fatalf("unplaced session has no meetings")
	}
	s.Room, s.Day, s.Slot = "geneve", "mon", "s1"
	sn.Refresh(s)
	if len(sn.Meetings(s)) != 1 || !sn.Meetings(s)[0].Scheduled() {
		t.Fatalf("refresh must pick up new placement: %+v", sn.Meetings(s))
	}
}

func TestCheckStopsOnFirstViolation(t *testing.T) {
	calls := 0
	pass := func(*model.Session, model.Meeting, *Snapshot) bool { calls++; return true }
	fail := func(*model.Session, model.Meeting, *Snapshot) bool { calls++; return false }
	if Check([]Rule{pass, fail, pass}, nil, model.Meeting{}, nil) {
		t.Fatalf("check must fail")
	}
	if calls != 2 {
		t.Fatalf("check must stop at first violation, ran %d rules", calls)
	}
}
