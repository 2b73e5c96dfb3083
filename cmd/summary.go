package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level snapshot overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the stored snapshot",
	Long: `Display the stored build (when, from where, how many sessions were used or
skipped) and one line per player: sessions played, date range, average serve
speed, average accuracy and average unforced error rate.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.LatestRun()
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		fmt.Fprintln(os.Stdout, "No snapshot stored yet. Run 'tennismetrics build' to create one.")
		return nil
	}
	report.PrintRun(os.Stdout, *run)

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if len(ov) == 0 {
		fmt.Fprintln(os.Stdout, "The stored snapshot has no rows.")
		return nil
	}
	report.PrintOverview(os.Stdout, ov)
	return nil
}
