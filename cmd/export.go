package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/derived"
	"github.com/pable/go-tennis-metrics/internal/model"
)

var (
	exportOut    string
	exportStored bool
)

// exportDoc is the JSON document consumed by dashboards.
type exportDoc struct {
	GeneratedAt string            `json:"generated_at"`
	Host        string            `json:"host"`
	Players     []string          `json:"players"`
	Rows        []exportRow       `json:"rows"`
	PointsWon   []exportPoints    `json:"points_won"`
	GamePoints  []exportGameTotal `json:"game_points"`
}

// exportRow is one master-dataset row. Dates and rates are null when unknown.
type exportRow struct {
	Player            string   `json:"player"`
	ServeSpeed        float64  `json:"serve_speed"`
	ServeAccuracy     float64  `json:"serve_accuracy"`
	ServeCount        int      `json:"serve_count"`
	ForehandSpeed     float64  `json:"forehand_speed"`
	ForehandAccuracy  float64  `json:"forehand_accuracy"`
	ForehandCount     int      `json:"forehand_count"`
	BackhandSpeed     float64  `json:"backhand_speed"`
	BackhandAccuracy  float64  `json:"backhand_accuracy"`
	BackhandCount     int      `json:"backhand_count"`
	UnforcedErrorRate *float64 `json:"unforced_error_rate"`
	Date              *string  `json:"date"`
	CompositeIndex    *float64 `json:"composite_index"`
}

type exportPoints struct {
	Date        *string `json:"date"`
	HostPoints  int     `json:"host_points"`
	GuestPoints int     `json:"guest_points"`
}

type exportGameTotal struct {
	Date       *string `json:"date"`
	HostTotal  float64 `json:"host_total"`
	GuestTotal float64 `json:"guest_total"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset and point tables as JSON",
	Long: `Write the master dataset and the per-session point tables as one JSON document:

  {"rows": [...], "points_won": [...], "game_points": [...]}

Rows keep dataset order (date ascending, undated last). Output goes to stdout
unless --out is given.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportStored, "stored", false, "export the stored snapshot instead of rebuilding")
}

func runExport(cmd *cobra.Command, args []string) error {
	var (
		rows   []model.PlayerSessionRow
		won    []model.SessionPoints
		totals []model.SessionGameTotals
	)
	if exportStored {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if rows, err = db.GetAllRows(); err != nil {
			return fmt.Errorf("query rows: %w", err)
		}
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
		rows, won, totals = res.Dataset.Rows, res.PointsWon, res.GameTotals
	}

	doc := newExportDoc(cfg.Host, rows, won, totals)

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if exportOut != "" {
		log.WithField("file", exportOut).WithField("rows", len(doc.Rows)).Info("export written")
	}
	return nil
}

func newExportDoc(host string, rows []model.PlayerSessionRow, won []model.SessionPoints, totals []model.SessionGameTotals) exportDoc {
	doc := exportDoc{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Host:        host,
		Rows:        make([]exportRow, 0, len(rows)),
		PointsWon:   make([]exportPoints, 0, len(won)),
		GamePoints:  make([]exportGameTotal, 0, len(totals)),
	}
	for _, r := range rows {
		m := derived.ForRow(r)
		doc.Rows = append(doc.Rows, exportRow{
			Player:            r.Player,
			ServeSpeed:        r.Serve.AvgSpeed,
			ServeAccuracy:     r.Serve.Accuracy,
			ServeCount:        r.Serve.Count,
			ForehandSpeed:     r.Forehand.AvgSpeed,
			ForehandAccuracy:  r.Forehand.Accuracy,
			ForehandCount:     r.Forehand.Count,
			BackhandSpeed:     r.Backhand.AvgSpeed,
			BackhandAccuracy:  r.Backhand.Accuracy,
			BackhandCount:     r.Backhand.Count,
			UnforcedErrorRate: r.UnforcedErrorRate,
			Date:              jsonDate(r.Date),
			CompositeIndex:    m.CompositeIndex,
		})
	}
	doc.Players = lo.Uniq(lo.Map(doc.Rows, func(r exportRow, _ int) string { return r.Player }))
	sort.Strings(doc.Players)
	for _, p := range won {
		doc.PointsWon = append(doc.PointsWon, exportPoints{Date: jsonDate(p.Date), HostPoints: p.HostPoints, GuestPoints: p.GuestPoints})
	}
	for _, g := range totals {
		doc.GamePoints = append(doc.GamePoints, exportGameTotal{Date: jsonDate(g.Date), HostTotal: g.HostTotal, GuestTotal: g.GuestTotal})
	}
	return doc
}

func jsonDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(model.DateLayout)
	return &s
}
