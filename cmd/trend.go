package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/derived"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
)

var (
	trendLast   int
	trendStored bool
)

var trendCmd = &cobra.Command{
	Use:   "trend <player>",
	Short: "Chronological per-session performance trend for a player",
	Long: `Print a player's sessions in date order with average speed, average accuracy,
normalized speed ((speed - 40) / 170), unforced error rate and the composite
index (normalized speed × accuracy × (1 - error rate)), followed by per-stroke
means over the same sessions.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().IntVarP(&trendLast, "last", "n", 0, "only the most recent N sessions (0 = all)")
	trendCmd.Flags().BoolVar(&trendStored, "stored", false, "read from the stored snapshot instead of rebuilding")
}

func runTrend(cmd *cobra.Command, args []string) error {
	player := args[0]

	var rows []model.PlayerSessionRow
	if trendStored {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if rows, err = db.GetPlayerRows(player); err != nil {
			return fmt.Errorf("query player: %w", err)
		}
	} else {
		res, err := buildDataset()
		if err != nil {
			return err
		}
		rows = res.Dataset.ForPlayer(player)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No sessions found for %q. Run 'tennismetrics players' to see who is in the dataset.\n", player)
		return nil
	}
	printTrend(player, dataset.Last(rows, trendLast))
	return nil
}

func printTrend(player string, rows []model.PlayerSessionRow) {
	fmt.Fprintf(os.Stdout, "\n=== %s — %d sessions ===\n\n", player, len(rows))
	report.PrintTrendTable(os.Stdout, derived.Compute(rows))
	report.PrintKPI(os.Stdout, derived.Summarize(player, rows))
}
