// Package dataset builds the master dataset: every usable session under a
// data root, concatenated and ordered by session date.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/pable/go-tennis-metrics/internal/derived"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/session"
)

// Dataset is an immutable, date-ordered snapshot of player-session rows.
// Rows without a date sort after all dated rows.
type Dataset struct {
	Rows []model.PlayerSessionRow
}

// Result is everything a build produces.
type Result struct {
	Root       string
	BuiltAt    time.Time
	Duration   time.Duration
	Dataset    Dataset
	Reports    []session.Report
	PointsWon  []model.SessionPoints
	GameTotals []model.SessionGameTotals
}

// Used returns the number of sessions that contributed rows.
func (r Result) Used() int {
	return lo.CountBy(r.Reports, func(rep session.Report) bool { return rep.Status == session.StatusUsed })
}

// Skipped returns the number of session folders that were skipped.
func (r Result) Skipped() int {
	return len(r.Reports) - r.Used()
}

// Build scans the immediate subdirectories of root in lexical order and loads
// each as a session. Only a failure to list root itself is returned as an
// error; an empty dataset is a valid result.
func Build(root string, opts session.Options, log logrus.FieldLogger) (Result, error) {
	start := time.Now()
	entries, err := os.ReadDir(root)
	if err != nil {
		return Result{}, fmt.Errorf("read data root %s: %w", root, err)
	}

	res := Result{Root: root}
	var rows []model.PlayerSessionRow
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sess, rep := session.Load(filepath.Join(root, e.Name()), opts, log)
		res.Reports = append(res.Reports, rep)
		rows = append(rows, sess.Rows...)

		if sess.Points != nil {
			res.PointsWon = append(res.PointsWon, derived.PointsWon(sess.Date, sess.Points.Records))
			if sess.Points.HasGameScores {
				res.GameTotals = append(res.GameTotals, derived.GameTotals(sess.Date, sess.Points.Records))
			}
		}
	}

	SortByDate(rows)
	sortPointsByDate(res.PointsWon)
	sortTotalsByDate(res.GameTotals)

	res.Dataset = Dataset{Rows: rows}
	res.BuiltAt = time.Now()
	res.Duration = res.BuiltAt.Sub(start)

	if len(rows) == 0 {
		log.WithField("root", root).Warn("no valid session data loaded; check the CSV files and folder layout")
	} else {
		log.WithFields(logrus.Fields{
			"root":     root,
			"sessions": res.Used(),
			"skipped":  res.Skipped(),
			"rows":     len(rows),
		}).Info("dataset built")
	}
	return res, nil
}

// dateLess orders dates ascending with nil dates last.
func dateLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.Before(*b)
}

// SortByDate stable-sorts rows ascending by date, nulls last.
func SortByDate(rows []model.PlayerSessionRow) {
	sort.SliceStable(rows, func(i, j int) bool { return dateLess(rows[i].Date, rows[j].Date) })
}

func sortPointsByDate(p []model.SessionPoints) {
	sort.SliceStable(p, func(i, j int) bool { return dateLess(p[i].Date, p[j].Date) })
}

func sortTotalsByDate(g []model.SessionGameTotals) {
	sort.SliceStable(g, func(i, j int) bool { return dateLess(g[i].Date, g[j].Date) })
}

// ---- Slicing ----

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// Players returns the sorted distinct non-empty player names.
func (d Dataset) Players() []string {
	names := lo.Uniq(lo.FilterMap(d.Rows, func(r model.PlayerSessionRow, _ int) (string, bool) {
		return r.Player, r.Player != ""
	}))
	sort.Strings(names)
	return names
}

// ForPlayer returns the rows of one player, in dataset order.
func (d Dataset) ForPlayer(name string) []model.PlayerSessionRow {
	return lo.Filter(d.Rows, func(r model.PlayerSessionRow, _ int) bool { return r.Player == name })
}

// ForDate returns the rows of the session held on date (YYYY-MM-DD).
func (d Dataset) ForDate(date string) []model.PlayerSessionRow {
	return lo.Filter(d.Rows, func(r model.PlayerSessionRow, _ int) bool { return r.DateString() == date })
}

// Dates returns the distinct session dates in order. Undated rows are omitted.
func (d Dataset) Dates() []string {
	return lo.Uniq(lo.FilterMap(d.Rows, func(r model.PlayerSessionRow, _ int) (string, bool) {
		return r.DateString(), r.Date != nil
	}))
}

// Last keeps the final n rows of a slice, or all of them when n <= 0.
func Last(rows []model.PlayerSessionRow, n int) []model.PlayerSessionRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[len(rows)-n:]
}
