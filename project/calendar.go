package project

import (
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/agenda/core/reconcile"
)

// calendarFile is the on-disk shape of the recorded calendar: one entry
// list per session number.
type calendarFile struct {
	Sessions []struct {
		Session int                       `json:"session"`
		Entries []reconcile.CalendarEntry `json:"entries"`
	} `json:"sessions"`
}

// LoadCalendar reads the recorded calendar occurrences, keyed by session
// number. A missing path yields an empty calendar.
func LoadCalendar(path string) (map[int][]reconcile.CalendarEntry, error) {
	if path == "" {
		return map[int][]reconcile.CalendarEntry{}, nil
	}
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	var cf calendarFile
	if err := k.UnmarshalWithConf("", &cf, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	recorded := make(map[int][]reconcile.CalendarEntry, len(cf.Sessions))
	for _, s := range cf.Sessions {
		recorded[s.Session] = append(recorded[s.Session], s.Entries...)
	}
	return recorded, nil
}
