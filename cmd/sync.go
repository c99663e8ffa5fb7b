package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Diff the schedule against the recorded calendar",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)

	actions, err := svc.Sync(ctx)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		fmt.Println("calendar is up to date")
		return nil
	}
	for n, a := range actions {
		fmt.Printf("session %d: %d create, %d update, %d cancel\n",
			n, len(a.Create), len(a.Update), len(a.Cancel))
	}
	return nil
}
