// Package export renders the scheduled grid in machine-readable formats
// for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/agenda/core/model"
)

// Row is one scheduled meeting of one session.
type Row struct {
	Session int    `json:"session"`
	Title   string `json:"title"`
	Room    string `json:"room"`
	Day     string `json:"day"`
	Slot    string `json:"slot"`
	Start   string `json:"start"`
}

// Rows flattens the project's scheduled meetings, in session order.
func Rows(p *model.Project) []Row {
	var rows []Row
	for _, s := range p.Sessions {
		for _, m := range s.Meetings(p) {
			if m.Invalid || !m.Scheduled() {
				continue
			}
			rows = append(rows, Row{
				Session: s.Number,
				Title:   s.Title,
				Room:    m.Room.Name,
				Day:     m.Day.Name,
				Slot:    m.Slot.Name,
				Start:   m.Slot.Start,
			})
		}
	}
	return rows
}

// WriteJSON writes the grid to w in JSON format.
func WriteJSON(w io.Writer, p *model.Project) error {
	enc := json.NewEncoder(w)
	return enc.Encode(Rows(p))
}

// WriteCSV writes the grid to w in CSV format.
func WriteCSV(w io.Writer, p *model.Project) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"session", "title", "room", "day", "slot", "start"}); err != nil {
		return err
	}
	for _, r := range Rows(p) {
		rec := []string{
			strconv.Itoa(r.Session),
			r.Title,
			r.Room,
			r.Day,
			r.Slot,
			r.Start,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
