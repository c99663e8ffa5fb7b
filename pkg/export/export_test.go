package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/kilianp07/agenda/core/model"
)

func testProject() *model.Project {
	return &model.Project{
		Rooms: []model.Room{
			{Name: "geneve", Label: "Geneve", Capacity: 40},
		},
		Days: []model.Day{
			{Name: "mon", Date: "2026-03-02"},
		},
		Slots: []model.Slot{
			{Name: "s1", Start: "09:00", End: "10:00", Duration: 60},
			{Name: "s2", Start: "10:00", End: "11:00", Duration: 60},
		},
		Sessions: []*model.Session{
			{Number: 1, Title: "first", Room: "geneve", Day: "mon", Slot: "s1", Description: &model.Description{}},
			{Number: 2, Title: "multi", MeetingsRaw: "geneve, mon, s1; geneve, mon, s2", Description: &model.Description{}},
			{Number: 3, Title: "unplaced", Description: &model.Description{}},
		},
	}
}

func TestRowsFlattenScheduledMeetings(t *testing.T) {
	rows := Rows(testProject())
	if len(rows) != 3 {
		t.Fatalf("one row per scheduled meeting, got %d", len(rows))
	}
	if rows[0].Session != 1 || rows[0].Room != "geneve" || rows[0].Start != "09:00" {
		t.Fatalf("first row wrong: %+v", rows[0])
	}
	if rows[1].Session != 2 || rows[2].Session != 2 {
		t.Fatalf("multi-meeting session yields one row per meeting: %+v", rows[1:])
	}
	for _, r := range rows {
		if r.Session == 3 {
			t.Fatalf("unplaced session must not export: %+v", r)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testProject()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 3 || rows[0].Title != "first" {
		t.Fatalf("json output wrong: %+v", rows)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, testProject()); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("header plus 3 rows, got %d", len(records))
	}
	if records[0][0] != "session" || records[1][0] != "1" || records[1][2] != "geneve" {
		t.Fatalf("csv content wrong: %+v", records[:2])
	}
}
