// Package session turns one dated session folder into master-dataset rows.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/parser"
)

// Default file names inside a session folder.
const (
	DefaultShotsFile  = "Shots-Table 1.csv"
	DefaultPointsFile = "Points-Table 1.csv"
)

// Options configures how a session folder is read and aggregated.
type Options struct {
	Host       string
	ShotsFile  string
	PointsFile string
	Aggregate  aggregator.Options
}

func (o Options) withDefaults() Options {
	if o.ShotsFile == "" {
		o.ShotsFile = DefaultShotsFile
	}
	if o.PointsFile == "" {
		o.PointsFile = DefaultPointsFile
	}
	return o
}

// Status is the outcome of loading one session folder.
type Status string

const (
	StatusUsed    Status = "used"
	StatusSkipped Status = "skipped"
)

// Skip reasons recorded in a Report.
const (
	ReasonMissingFile  = "missing file"
	ReasonShotsTable   = "shots table invalid"
	ReasonPointsTable  = "points table invalid"
	ReasonNoValidShots = "no valid shots"
	ReasonNoPoints     = "no points"
)

// Report describes what happened to one session folder during a build.
type Report struct {
	Name    string // folder basename
	Date    *time.Time
	Status  Status
	Reason  string // empty when used
	Detail  string // underlying error text, if any
	Players int
}

// Session is the result of loading one folder.
type Session struct {
	Name string
	Date *time.Time
	Rows []model.PlayerSessionRow

	// Points is the parsed points table, kept for the per-session point
	// tables. Nil when the points file could not be parsed.
	Points *parser.PointTable
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDate interprets a folder name as a session date. Anything other than a
// valid YYYY-MM-DD calendar date yields nil.
func ParseDate(name string) *time.Time {
	if !dateRe.MatchString(name) {
		return nil
	}
	t, err := time.Parse(model.DateLayout, name)
	if err != nil {
		return nil
	}
	return &t
}

// Assemble left-joins the shot aggregate onto the point aggregate by exact
// player name and stamps every row with the session date. Returns nil when
// either aggregate is empty.
func Assemble(shots []model.PlayerShotStats, rates []model.PlayerErrorRate, date *time.Time) []model.PlayerSessionRow {
	if len(shots) == 0 || len(rates) == 0 {
		return nil
	}
	byPlayer := make(map[string]float64, len(rates))
	for _, r := range rates {
		byPlayer[r.Player] = r.UnforcedErrorRate
	}

	rows := make([]model.PlayerSessionRow, 0, len(shots))
	for _, s := range shots {
		row := model.PlayerSessionRow{PlayerShotStats: s, Date: date}
		if rate, ok := byPlayer[s.Player]; ok {
			row.UnforcedErrorRate = &rate
		}
		rows = append(rows, row)
	}
	return rows
}

// Load reads the shots and points tables of dir and assembles its rows. It
// never returns an error: every failure becomes a skipped Report and a
// warning on log.
func Load(dir string, opts Options, log logrus.FieldLogger) (Session, Report) {
	opts = opts.withDefaults()
	name := filepath.Base(dir)
	date := ParseDate(name)

	sess := Session{Name: name, Date: date}
	rep := Report{Name: name, Date: date, Status: StatusSkipped}
	entry := log.WithField("session", name)

	skip := func(reason string, err error) (Session, Report) {
		rep.Reason = reason
		fields := logrus.Fields{"reason": reason}
		if err != nil {
			rep.Detail = err.Error()
			fields["error"] = err
		}
		entry.WithFields(fields).Warn("session skipped")
		return sess, rep
	}

	shotsPath := filepath.Join(dir, opts.ShotsFile)
	pointsPath := filepath.Join(dir, opts.PointsFile)
	for _, p := range []string{shotsPath, pointsPath} {
		if _, err := os.Stat(p); err != nil {
			return skip(ReasonMissingFile, err)
		}
	}

	// Points are parsed up front so the per-session point tables can use
	// them even when the shots side yields nothing.
	pt, pointsErr := parser.ParsePointsFile(pointsPath)
	if pointsErr == nil {
		sess.Points = pt
	}

	shots, err := parser.ParseShotsFile(shotsPath)
	if err != nil {
		return skip(ReasonShotsTable, err)
	}
	stats := aggregator.AggregateShots(shots, opts.Aggregate)
	if len(stats) == 0 {
		return skip(ReasonNoValidShots, nil)
	}

	if pointsErr != nil {
		if errors.Is(pointsErr, parser.ErrNoRows) {
			return skip(ReasonNoPoints, pointsErr)
		}
		return skip(ReasonPointsTable, pointsErr)
	}
	rates := aggregator.AggregatePoints(pt.Records, aggregator.Players(stats), opts.Host)
	if len(rates) == 0 {
		return skip(ReasonNoPoints, nil)
	}

	sess.Rows = Assemble(stats, rates, date)
	if date == nil {
		entry.Debug("folder name is not a date; rows carry a null date")
	}

	rep.Status = StatusUsed
	rep.Players = len(sess.Rows)
	entry.WithField("players", rep.Players).Debug("session loaded")
	return sess, rep
}
