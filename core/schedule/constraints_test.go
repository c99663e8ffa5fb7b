package schedule

import (
	"testing"

	"github.com/kilianp07/agenda/core/model"
)

func TestLadderFullOrder(t *testing.T) {
	room := &model.Room{Name: "geneve", Capacity: 40}
	s := &model.Session{Number: 1, Description: &model.Description{
		Duration: 150,
		Times:    []model.TimePref{{Day: "mon", Slot: "s1"}},
	}}

	ladder := Ladder(s, room)
	if len(ladder) != 11 {
		t.Fatalf("expected 11 rungs, got %d", len(ladder))
	}

	first := ladder[0]
	if first.TrackRoom != room || first.NumMeetings != 3 || !first.StrictDuration ||
		!first.StrictTimes || !first.MeetDuration || !first.MeetCapacity ||
		!first.MeetTrackConflicts || !first.MeetSessionConflicts || !first.MeetAllConflicts {
		t.Fatalf("first rung must be fully strict: %+v", first)
	}

	if ladder[1].StrictDuration {
		t.Fatalf("rung 1 drops strict duration")
	}
	if ladder[2].TrackRoom != nil {
		t.Fatalf("rung 2 drops the track room")
	}
	if ladder[3].StrictTimes {
		t.Fatalf("rung 3 drops the requested times")
	}
	if ladder[4].NumMeetings != 2 || ladder[5].NumMeetings != 1 {
		t.Fatalf("rungs 4-5 shrink the meeting count: %d, %d",
			ladder[4].NumMeetings, ladder[5].NumMeetings)
	}
	if ladder[6].MeetDuration {
		t.Fatalf("rung 6 drops minimum duration")
	}
	if ladder[7].MeetCapacity {
		t.Fatalf("rung 7 drops capacity")
	}
	if ladder[8].MeetTrackConflicts {
		t.Fatalf("rung 8 drops track conflicts")
	}
	if ladder[9].MeetSessionConflicts {
		t.Fatalf("rung 9 drops declared conflicts")
	}
	last := ladder[10]
	if last.MeetAllConflicts {
		t.Fatalf("final rung drops the remaining conflicts")
	}
	if last.NumMeetings != 1 {
		t.Fatalf("final rung still places one meeting, got %d", last.NumMeetings)
	}
}

func TestLadderMinimalSession(t *testing.T) {
	s := &model.Session{Number: 1, Description: &model.Description{}}
	ladder := Ladder(s, nil)
	if len(ladder) != 7 {
		t.Fatalf("no track room, no times, one meeting: expected 7 rungs, got %d", len(ladder))
	}
	for _, c := range ladder {
		if c.TrackRoom != nil || c.StrictTimes {
			t.Fatalf("absent dimensions must never appear: %+v", c)
		}
	}
}

func TestRulesKeepHardRulesOnEveryRung(t *testing.T) {
	s := &model.Session{Number: 1, Description: &model.Description{
		Duration: 120,
		Times:    []model.TimePref{{Day: "mon", Slot: "s1"}},
	}}
	ladder := Ladder(s, nil)
	for i, c := range ladder {
		if got := len(c.Rules(s, 5)); got < 3 {
			t.Fatalf("rung %d lost a hard rule: %d rules", i, got)
		}
	}
	if got := len(ladder[len(ladder)-1].Rules(s, 5)); got != 3 {
		t.Fatalf("fully relaxed rung keeps exactly the hard rules, got %d", got)
	}
}

func TestDurationRule(t *testing.T) {
	slot30 := &model.Slot{Name: "s1", Duration: 30}
	slot60 := &model.Slot{Name: "s2", Duration: 60}

	strict := durationRule(30, true)
	if !strict(nil, model.Meeting{Slot: slot30}, nil) || strict(nil, model.Meeting{Slot: slot60}, nil) {
		t.Fatalf("strict rule wants an exact duration match")
	}
	loose := durationRule(30, false)
	if !loose(nil, model.Meeting{Slot: slot60}, nil) {
		t.Fatalf("loose rule accepts longer slots")
	}
	if !strict(nil, model.Meeting{}, nil) {
		t.Fatalf("slotless candidate passes, the slot comes later")
	}
}
