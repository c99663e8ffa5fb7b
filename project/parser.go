package project

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kilianp07/agenda/core/model"
)

// BodyParser parses a raw session body into its structured description.
// Bodies are JSON documents; sessions created through the web form always
// carry one, hand-edited records may not.
type BodyParser struct{}

// Parse decodes the body and normalizes the session type.
func (BodyParser) Parse(body string) (*model.Description, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty session body")
	}
	var d model.Description
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	switch d.Type {
	case "":
		d.Type = model.SessionNormal
	case model.SessionNormal, model.SessionPlenary:
	default:
		return nil, fmt.Errorf("unknown session type %q", d.Type)
	}
	if d.Duration < 0 || d.Meetings < 0 || d.Capacity < 0 {
		return nil, fmt.Errorf("negative duration, meetings or capacity")
	}
	return &d, nil
}
