package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/session"
)

var listLive bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List session folders and whether they were used",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listLive, "live", false, "scan the data root instead of reading the stored snapshot")
}

func runList(cmd *cobra.Command, args []string) error {
	var reports []session.Report
	if listLive {
		res, err := buildDataset()
		if err != nil {
			return err
		}
		reports = res.Reports
	} else {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		reports, err = db.ListSessions()
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
	}

	if len(reports) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions found. Run 'tennismetrics build' or pass --live.")
		return nil
	}
	report.PrintSessionReports(os.Stdout, reports)
	return nil
}
