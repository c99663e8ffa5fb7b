package project

import (
	"testing"

	"github.com/kilianp07/agenda/core/model"
)

func TestResolveGroups(t *testing.T) {
	d := &StaticDirectory{Groups: map[string]string{
		"ops":  "Operations",
		"core": "Core Engineering",
	}}

	groups, unresolved := d.ResolveGroups("OPS / core / ghost")
	if len(groups) != 2 || groups[0] != "Operations" || groups[1] != "Core Engineering" {
		t.Fatalf("groups: %v", groups)
	}
	if len(unresolved) != 1 || unresolved[0] != "ghost" {
		t.Fatalf("unresolved: %v", unresolved)
	}

	groups, unresolved = d.ResolveGroups(" / ")
	if len(groups) != 0 || len(unresolved) != 0 {
		t.Fatalf("empty tokens are skipped: %v %v", groups, unresolved)
	}
}

func TestKnownChair(t *testing.T) {
	d := &StaticDirectory{Chairs: []string{"Ana", "Bo"}}
	if !d.KnownChair("ana") {
		t.Fatalf("chair lookup is case insensitive")
	}
	if d.KnownChair("zed") {
		t.Fatalf("unknown chair must not match")
	}
}

func TestNewDirectory(t *testing.T) {
	p := &model.Project{People: model.People{
		Chairs: []string{"Ana"},
		Groups: map[string]string{"ops": "Operations"},
	}}
	d := NewDirectory(p)
	if d == nil || !d.KnownChair("Ana") {
		t.Fatalf("directory must carry the project's people export: %+v", d)
	}
	if groups, _ := d.ResolveGroups("ops"); len(groups) != 1 {
		t.Fatalf("groups not carried over: %v", groups)
	}

	if d := NewDirectory(&model.Project{}); d != nil {
		t.Fatalf("a project without people data has no directory, got %+v", d)
	}
}
