// Package report summarizes a scheduled grid: how full each room is and
// how evenly the load spreads across rooms and slots.
package report

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/agenda/core/model"
	"github.com/kilianp07/agenda/core/rules"
)

// RoomUsage is the share of a room's (day, slot) cells holding a meeting.
type RoomUsage struct {
	Room        string  `json:"room"`
	Meetings    int     `json:"meetings"`
	Utilization float64 `json:"utilization"`
}

// GridReport summarizes one project snapshot.
type GridReport struct {
	Sessions        int         `json:"sessions"`
	Scheduled       int         `json:"scheduled"`
	Unscheduled     int         `json:"unscheduled"`
	Rooms           []RoomUsage `json:"rooms"`
	MeanUtilization float64     `json:"mean_utilization"`
	UtilizationStd  float64     `json:"utilization_std"`
	BusiestDay      string      `json:"busiest_day"`
	BusiestSlot     string      `json:"busiest_slot"`
}

// Build computes the report for the project's current state.
func Build(p *model.Project) GridReport {
	sn := rules.NewSnapshot(p)
	rep := GridReport{Sessions: len(p.Sessions)}

	cells := len(p.Days) * len(p.Slots)
	perRoom := map[string]int{}
	type cell struct{ day, slot string }
	perCell := map[cell]int{}

	for _, s := range p.Sessions {
		scheduled := false
		for _, m := range sn.Meetings(s) {
			if !m.Scheduled() || m.Invalid {
				continue
			}
			scheduled = true
			perRoom[m.Room.Name]++
			perCell[cell{day: m.Day.Name, slot: m.Slot.Name}]++
		}
		if scheduled {
			rep.Scheduled++
		} else {
			rep.Unscheduled++
		}
	}

	var utilizations []float64
	for _, r := range p.Rooms {
		u := RoomUsage{Room: r.Name, Meetings: perRoom[r.Name]}
		if cells > 0 {
			u.Utilization = float64(u.Meetings) / float64(cells)
		}
		utilizations = append(utilizations, u.Utilization)
		rep.Rooms = append(rep.Rooms, u)
	}
	if len(utilizations) > 0 {
		rep.MeanUtilization = stat.Mean(utilizations, nil)
	}
	if len(utilizations) > 1 {
		rep.UtilizationStd = stat.StdDev(utilizations, nil)
	}

	busiest := 0
	for _, d := range p.Days {
		for _, sl := range p.Slots {
			if n := perCell[cell{day: d.Name, slot: sl.Name}]; n > busiest {
				busiest = n
				rep.BusiestDay, rep.BusiestSlot = d.Name, sl.Name
			}
		}
	}
	return rep
}
