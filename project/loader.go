// Package project loads the project file describing rooms, days, slots and
// sessions, plus the recorded calendar used for reconciliation.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/agenda/core/model"
)

const defaultPlenaryHolds = 5

// Load reads a project file in JSON or YAML form, applies defaults and
// checks structural soundness.
func Load(path string) (*model.Project, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	var p model.Project
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	SetDefaults(&p)
	if err := Validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported project format: %s", filepath.Ext(path))
}

// SetDefaults fills in event metadata left out of the project file.
func SetDefaults(p *model.Project) {
	if p.Meta.PlenaryHolds == 0 {
		p.Meta.PlenaryHolds = defaultPlenaryHolds
	}
	if p.Meta.EventType == "" {
		p.Meta.EventType = model.EventConference
	}
}

// Validate checks the reference data the engine relies on: non-empty
// grids, unique names and resolvable metadata. Session-level problems are
// the validator's job, not the loader's.
func Validate(p *model.Project) error {
	if len(p.Rooms) == 0 || len(p.Days) == 0 || len(p.Slots) == 0 {
		return fmt.Errorf("project needs at least one room, day and slot")
	}
	if err := uniqueNames("room", roomNames(p)); err != nil {
		return err
	}
	if err := uniqueNames("day", dayNames(p)); err != nil {
		return err
	}
	if err := uniqueNames("slot", slotNames(p)); err != nil {
		return err
	}
	seen := map[int]bool{}
	for _, s := range p.Sessions {
		if s == nil {
			return fmt.Errorf("project contains a null session")
		}
		if seen[s.Number] {
			return fmt.Errorf("duplicate session number %d", s.Number)
		}
		seen[s.Number] = true
	}
	if p.Meta.PlenaryRoom != "" && p.PlenaryRoom() == nil {
		return fmt.Errorf("plenary room %q is not a known room", p.Meta.PlenaryRoom)
	}
	return nil
}

func uniqueNames(kind string, names []string) error {
	seen := map[string]bool{}
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s with empty name", kind)
		}
		if seen[n] {
			return fmt.Errorf("duplicate %s name %q", kind, n)
		}
		seen[n] = true
	}
	return nil
}

func roomNames(p *model.Project) []string {
	names := make([]string, len(p.Rooms))
	for i := range p.Rooms {
		names[i] = p.Rooms[i].Name
	}
	return names
}

func dayNames(p *model.Project) []string {
	names := make([]string, len(p.Days))
	for i := range p.Days {
		names[i] = p.Days[i].Name
	}
	return names
}

func slotNames(p *model.Project) []string {
	names := make([]string, len(p.Slots))
	for i := range p.Slots {
		names[i] = p.Slots[i].Name
	}
	return names
}
