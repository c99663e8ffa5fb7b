package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Validate the grid and place every unscheduled session",
	RunE:  runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)

	res, delta, err := svc.Schedule(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s seed %d\n", res.RunID, res.Seed)
	for track, room := range res.TrackRooms {
		fmt.Printf("track %-16s -> %s\n", track, room)
	}
	for _, s := range res.Placed {
		fmt.Printf("placed   %d (%s)\n", s.Number, s.Title)
	}
	for _, s := range res.Unplaced {
		fmt.Printf("UNPLACED %d (%s)\n", s.Number, s.Title)
	}
	fmt.Printf("%d sessions placed, %d unplaced, %d state changes\n",
		len(res.Placed), len(res.Unplaced), len(delta))

	rep := svc.Report()
	fmt.Printf("grid: %d/%d scheduled, mean utilization %.0f%%\n",
		rep.Scheduled, rep.Sessions, rep.MeanUtilization*100)
	return nil
}
