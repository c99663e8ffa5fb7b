// Package util provides fixture helpers shared across integration tests:
// canned project, calendar and configuration files written to a temp
// directory, plus a poller for the Prometheus metrics endpoint.
package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MetricTimeout bounds how long WaitForMetric polls before giving up.
	MetricTimeout = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

const projectYAML = `
rooms:
  - name: bellevue
    label: Bellevue
    capacity: 120
  - name: geneve
    label: Geneve
    capacity: 40
  - name: leman
    label: Leman
    capacity: 20
days:
  - name: mon
    label: Monday
    date: "2026-03-02"
  - name: tue
    label: Tuesday
    date: "2026-03-03"
slots:
  - name: s1
    start: "09:00"
    end: "10:00"
    duration: 60
  - name: s2
    start: "10:00"
    end: "11:00"
    duration: 60
sessions:
  - number: 1
    title: opening plenary
    description:
      type: plenary
  - number: 2
    title: capacity planning
    description:
      type: normal
      tracks: [ops]
      chairs: [Ana]
  - number: 3
    title: incident review
    description:
      type: normal
      capacity: 15
  - number: 4
    title: steering committee
    room: geneve
    day: mon
    slot: s1
    description:
      type: normal
people:
  chairs: [Ana]
metadata:
  plenary_room: bellevue
`

const calendarYAML = `
sessions:
  - session: 4
    entries:
      - day: mon
        start: "09:00"
        end: "10:00"
        url: cal/4
`

// WriteProjectFile writes the canned four-session project into dir.
func WriteProjectFile(dir string) (string, error) {
	return writeFile(dir, "project.yaml", projectYAML)
}

// WriteCalendarFile writes the canned recorded calendar into dir.
func WriteCalendarFile(dir string) (string, error) {
	return writeFile(dir, "calendar.yaml", calendarYAML)
}

// ConfigParams drives WriteConfigFile.
type ConfigParams struct {
	Project   string
	Calendar  string
	LogPath   string
	Publisher string
	Sink      string
	PromAddr  string
}

// WriteConfigFile writes a service configuration into dir. Seed is fixed
// so integration runs are reproducible.
func WriteConfigFile(dir string, p ConfigParams) (string, error) {
	if p.Sink == "" {
		p.Sink = "nop"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "project: %s\n", p.Project)
	if p.Calendar != "" {
		fmt.Fprintf(&b, "calendar: %s\n", p.Calendar)
	}
	b.WriteString("schedule:\n  seed: 42\n")
	fmt.Fprintf(&b, "logging:\n  backend: jsonl\n  path: %s\n", p.LogPath)
	fmt.Fprintf(&b, "metrics:\n  sinks:\n    - type: %s\n", p.Sink)
	if p.Publisher != "" {
		fmt.Fprintf(&b, "publisher:\n  type: %s\n", p.Publisher)
	}
	if p.PromAddr != "" {
		fmt.Fprintf(&b, "prom_addr: %s\n", p.PromAddr)
	}
	return writeFile(dir, "config.yaml", b.String())
}

func writeFile(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// WaitForMetric polls the given metrics URL until the provided substring is
// found in the output or the context is done.
func WaitForMetric(ctx context.Context, metricsURL, substr string) error {
	for {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, metricsURL, nil)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			body, rerr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if rerr != nil {
				return fmt.Errorf("read metrics body: %w", rerr)
			}
			if strings.Contains(string(body), substr) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("metric %q not found: %w", substr, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}
