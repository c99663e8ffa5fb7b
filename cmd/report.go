package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize room utilization for the current grid",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	svc, _, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)

	rep := svc.Report()
	fmt.Printf("%d sessions: %d scheduled, %d unscheduled\n",
		rep.Sessions, rep.Scheduled, rep.Unscheduled)
	for _, r := range rep.Rooms {
		fmt.Printf("room %-16s %3d meetings  %3.0f%% full\n",
			r.Room, r.Meetings, r.Utilization*100)
	}
	fmt.Printf("mean utilization %.0f%% (spread %.2f)\n",
		rep.MeanUtilization*100, rep.UtilizationStd)
	if rep.BusiestDay != "" {
		fmt.Printf("busiest cell: %s %s\n", rep.BusiestDay, rep.BusiestSlot)
	}
	return nil
}
