package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agenda/pkg/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the scheduled grid to stdout as JSON or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, _, stop, err := newService()
	if err != nil {
		return err
	}
	defer stop()
	defer closeService(svc)

	switch exportFormat {
	case "json":
		return export.WriteJSON(os.Stdout, svc.Project)
	case "csv":
		return export.WriteCSV(os.Stdout, svc.Project)
	}
	return fmt.Errorf("unknown format %q", exportFormat)
}
