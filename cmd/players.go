package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players found in the dataset",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func runPlayers(cmd *cobra.Command, args []string) error {
	res, err := buildDataset()
	if err != nil {
		return err
	}
	players := res.Dataset.Players()
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players found. Check your CSV files and folder structure.")
		return nil
	}
	sessions := lo.CountValuesBy(res.Dataset.Rows, func(r model.PlayerSessionRow) string { return r.Player })
	report.PrintPlayers(os.Stdout, players, sessions, cfg.Host)
	return nil
}
