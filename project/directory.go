package project

import (
	"strings"

	"github.com/kilianp07/agenda/core/model"
)

// StaticDirectory is a people directory backed by in-memory lists, loaded
// from the project host's export. It satisfies the validator's Directory
// interface.
type StaticDirectory struct {
	// Chairs holds the known chair names.
	Chairs []string
	// Groups maps group acronyms to their canonical names.
	Groups map[string]string
}

// NewDirectory builds the directory from the project file's people
// export. It returns nil when the project carries no people data, so
// grids exported without it skip the chair and group checks.
func NewDirectory(p *model.Project) *StaticDirectory {
	if len(p.People.Chairs) == 0 && len(p.People.Groups) == 0 {
		return nil
	}
	return &StaticDirectory{Chairs: p.People.Chairs, Groups: p.People.Groups}
}

// ResolveGroups splits a team-event session title on "/" and resolves each
// token to a group, returning the tokens that resolved to nothing.
func (d *StaticDirectory) ResolveGroups(title string) (groups, unresolved []string) {
	for _, tok := range strings.Split(title, "/") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if name, ok := d.Groups[tok]; ok {
			groups = append(groups, name)
			continue
		}
		unresolved = append(unresolved, tok)
	}
	return groups, unresolved
}

// KnownChair reports whether the chair name exists in the directory.
func (d *StaticDirectory) KnownChair(name string) bool {
	for _, c := range d.Chairs {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
