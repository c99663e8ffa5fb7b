package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agenda/core/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every session and report issues without scheduling",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	svc, ctx, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)

	issues, delta, err := svc.Validate(ctx)
	if err != nil {
		return err
	}
	for _, is := range issues {
		fmt.Printf("%-7s session %d [%s]: %s\n",
			is.Severity, is.Session.Number, is.Type, strings.Join(is.Messages, "; "))
	}
	fmt.Printf("%d issues, %d sessions changed state\n", len(issues), len(delta))
	if len(validate.Blocked(issues)) > 0 {
		return fmt.Errorf("%d sessions carry blocking errors", len(validate.Blocked(issues)))
	}
	return nil
}
