package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/session"
)

var showStored bool

var showCmd = &cobra.Command{
	Use:   "show <YYYY-MM-DD>",
	Short: "Show the player rows of one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showStored, "stored", false, "read from the stored snapshot instead of rebuilding")
}

func runShow(cmd *cobra.Command, args []string) error {
	date := args[0]
	if session.ParseDate(date) == nil {
		return fmt.Errorf("invalid session date %q: want YYYY-MM-DD", date)
	}

	var rows []model.PlayerSessionRow
	if showStored {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if rows, err = db.GetSessionRows(date); err != nil {
			return fmt.Errorf("query session: %w", err)
		}
	} else {
		res, err := buildDataset()
		if err != nil {
			return err
		}
		rows = res.Dataset.ForDate(date)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stdout, "No data for session %s.\n", date)
		return nil
	}
	fmt.Fprintf(os.Stdout, "\nSession %s  |  Players: %d\n\n", date, len(rows))
	report.PrintDatasetTable(os.Stdout, rows, cfg.Host)
	return nil
}
