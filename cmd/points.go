package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
)

var pointsStored bool

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Points won and aggregated game scores per session",
	Long: `Print, per session, the points won by host and guest and the sum over games of
each side's highest game score, with each side's ratio (own ÷ opponent).
A ratio is shown as "—" when the opponent total is 0.`,
	Args: cobra.NoArgs,
	RunE: runPoints,
}

func init() {
	pointsCmd.Flags().BoolVar(&pointsStored, "stored", false, "read from the stored snapshot instead of rebuilding")
}

func runPoints(cmd *cobra.Command, args []string) error {
	var (
		won    []model.SessionPoints
		totals []model.SessionGameTotals
	)
	if pointsStored {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if won, err = db.GetPointsWon(); err != nil {
			return fmt.Errorf("query points: %w", err)
		}
		if totals, err = db.GetGameTotals(); err != nil {
			return fmt.Errorf("query game totals: %w", err)
		}
	} else {
		res, err := buildDataset()
		if err != nil {
			return err
		}
		won, totals = res.PointsWon, res.GameTotals
	}

	if len(won) == 0 {
		fmt.Fprintln(os.Stdout, "No points tables found.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "\n=== Points won (host: %s) ===\n\n", cfg.Host)
	report.PrintPointsTable(os.Stdout, won)

	if len(totals) > 0 {
		fmt.Fprintf(os.Stdout, "\n=== Aggregated game points ===\n\n")
		report.PrintGameTotalsTable(os.Stdout, totals)
	}
	return nil
}
