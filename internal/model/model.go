package model

import (
	"strings"
	"time"
)

// Stroke categories that always appear in the output schema.
const (
	StrokeServe    = "serve"
	StrokeForehand = "forehand"
	StrokeBackhand = "backhand"
)

// Strokes lists the fixed stroke categories in output column order.
var Strokes = []string{StrokeServe, StrokeForehand, StrokeBackhand}

// Shot results accepted by the aggregator. Anything else is discarded.
const (
	ResultIn  = "in"
	ResultOut = "out"
	ResultNet = "net"
)

// Point-winner tokens in the points table.
const (
	WinnerHost  = "host"
	WinnerGuest = "guest"
)

// DateLayout is the session folder naming convention.
const DateLayout = "2006-01-02"

// ---- Raw records emitted by the parser ----

// ShotRecord is one row of a session's shots table.
type ShotRecord struct {
	Player string
	Stroke string   // lowercased
	Result string   // lowercased
	Speed  *float64 // km/h, nil when the cell is not numeric
}

// IsValid reports whether the shot participates in aggregation.
func (s ShotRecord) IsValid() bool {
	switch s.Result {
	case ResultIn, ResultOut, ResultNet:
		return true
	}
	return false
}

// Success is 1 for a shot that landed in, 0 otherwise.
func (s ShotRecord) Success() float64 {
	if s.Result == ResultIn {
		return 1
	}
	return 0
}

// PointRecord is one row of a points table.
type PointRecord struct {
	Winner         string // lowercased, trimmed
	Detail         string
	Game           string   // "" when the column is absent or the cell is empty
	HostGameScore  *float64 // nil when absent or non-numeric
	GuestGameScore *float64
}

// IsUnforcedError reports whether the point detail mentions an unforced error.
func (p PointRecord) IsUnforcedError() bool {
	return strings.Contains(strings.ToLower(p.Detail), "unforced error")
}

// ---- Aggregated metrics ----

// StrokeMetrics holds one player's numbers for one stroke in one session.
// A stroke with no valid shots is all zeros.
type StrokeMetrics struct {
	Accuracy float64
	AvgSpeed float64
	Count    int
}

// PlayerShotStats is one row of the shot aggregate (wide form).
type PlayerShotStats struct {
	Player   string
	Serve    StrokeMetrics
	Forehand StrokeMetrics
	Backhand StrokeMetrics
}

// Stroke returns the metrics for a known stroke name.
func (p *PlayerShotStats) Stroke(name string) StrokeMetrics {
	switch name {
	case StrokeServe:
		return p.Serve
	case StrokeForehand:
		return p.Forehand
	case StrokeBackhand:
		return p.Backhand
	}
	return StrokeMetrics{}
}

// SetStroke stores metrics for a known stroke name; unknown names are ignored.
func (p *PlayerShotStats) SetStroke(name string, m StrokeMetrics) {
	switch name {
	case StrokeServe:
		p.Serve = m
	case StrokeForehand:
		p.Forehand = m
	case StrokeBackhand:
		p.Backhand = m
	}
}

// PlayerErrorRate is one row of the point aggregate.
type PlayerErrorRate struct {
	Player            string
	UnforcedErrorRate float64
}

// PlayerSessionRow is one row of the master dataset.
type PlayerSessionRow struct {
	PlayerShotStats
	UnforcedErrorRate *float64   // nil when no rate could be attributed
	Date              *time.Time // nil when the folder name is not a date
}

// DateString formats the row date, or "" for a null date.
func (r PlayerSessionRow) DateString() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// ---- Auxiliary per-session tables (raw point data) ----

// SessionPoints counts points won by each side in one session.
type SessionPoints struct {
	Date        *time.Time
	HostPoints  int
	GuestPoints int
}

// SessionGameTotals sums the per-game maximum score of each side in one session.
type SessionGameTotals struct {
	Date       *time.Time
	HostTotal  float64
	GuestTotal float64
}

// Role is the participant slot of a player within a session.
type Role int

const (
	RoleHost Role = iota
	RoleGuest
)

func (r Role) String() string {
	if r == RoleHost {
		return WinnerHost
	}
	return WinnerGuest
}
