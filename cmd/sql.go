package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stored snapshot",
	Long: `Run an arbitrary SQL query against the snapshot database and print results as a table.

Schema overview:
  runs(id, root, host, built_at, sessions_used, sessions_skipped, row_count)
  sessions(name, run_id, date, status, reason, detail, players)
  player_session_rows(seq, run_id, player, date,
    serve_speed, serve_accuracy, serve_count,
    forehand_speed, forehand_accuracy, forehand_count,
    backhand_speed, backhand_accuracy, backhand_count,
    unforced_error_rate)
  session_points(seq, run_id, date, host_points, guest_points)
  session_game_totals(seq, run_id, date, host_total, guest_total)

Note: date is TEXT (YYYY-MM-DD) and NULL for folders not named as a date.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
