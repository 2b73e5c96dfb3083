// Package derived computes per-player metrics on top of the master dataset:
// averages across strokes, normalized speed, the composite performance index
// and point ratios taken from the raw points tables.
package derived

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Speed normalization constants in km/h: (speed - SpeedFloor) / SpeedSpan.
const (
	SpeedFloor = 40.0
	SpeedSpan  = 170.0
)

// SessionMetrics is one derived row for a player's session.
type SessionMetrics struct {
	Player            string
	Date              *time.Time
	AvgSpeed          float64
	AvgAccuracy       float64
	NormalizedSpeed   float64
	UnforcedErrorRate *float64
	CompositeIndex    *float64 // nil when the error rate is nil
}

// AvgSpeed is the plain mean of the three stroke speeds. Strokes with no
// shots contribute 0.
func AvgSpeed(r model.PlayerSessionRow) float64 {
	return (r.Serve.AvgSpeed + r.Forehand.AvgSpeed + r.Backhand.AvgSpeed) / 3
}

// AvgAccuracy is the plain mean of the three stroke accuracies.
func AvgAccuracy(r model.PlayerSessionRow) float64 {
	return (r.Serve.Accuracy + r.Forehand.Accuracy + r.Backhand.Accuracy) / 3
}

// NormalizedSpeed maps km/h onto a nominal 0..1 scale. The result is not
// clamped.
func NormalizedSpeed(avgSpeed float64) float64 {
	return (avgSpeed - SpeedFloor) / SpeedSpan
}

// CompositeIndex = normalized speed × average accuracy × (1 − unforced error rate).
func CompositeIndex(avgSpeed, avgAccuracy float64, unforcedErrorRate *float64) *float64 {
	if unforcedErrorRate == nil {
		return nil
	}
	v := NormalizedSpeed(avgSpeed) * avgAccuracy * (1 - *unforcedErrorRate)
	return &v
}

// ForRow derives the metrics of a single dataset row.
func ForRow(r model.PlayerSessionRow) SessionMetrics {
	speed := AvgSpeed(r)
	acc := AvgAccuracy(r)
	return SessionMetrics{
		Player:            r.Player,
		Date:              r.Date,
		AvgSpeed:          speed,
		AvgAccuracy:       acc,
		NormalizedSpeed:   NormalizedSpeed(speed),
		UnforcedErrorRate: r.UnforcedErrorRate,
		CompositeIndex:    CompositeIndex(speed, acc, r.UnforcedErrorRate),
	}
}

// Compute derives metrics for a player's time-ordered rows, preserving order.
func Compute(rows []model.PlayerSessionRow) []SessionMetrics {
	return lo.Map(rows, func(r model.PlayerSessionRow, _ int) SessionMetrics { return ForRow(r) })
}

// ---- KPI summary ----

// StrokeKPI is a stroke's mean speed and accuracy across sessions.
type StrokeKPI struct {
	Speed    float64
	Accuracy float64
}

// KPI summarizes one player across all of their sessions.
type KPI struct {
	Player   string
	Sessions int
	Serve    StrokeKPI
	Forehand StrokeKPI
	Backhand StrokeKPI

	// Means over the sessions where the value is defined; nil when none is.
	UnforcedErrorRate *float64
	CompositeIndex    *float64
}

// Summarize averages each stroke's speed and accuracy over rows.
func Summarize(player string, rows []model.PlayerSessionRow) KPI {
	k := KPI{Player: player, Sessions: len(rows)}
	if len(rows) == 0 {
		return k
	}
	strokeMean := func(pick func(model.PlayerSessionRow) model.StrokeMetrics) StrokeKPI {
		n := float64(len(rows))
		return StrokeKPI{
			Speed:    lo.SumBy(rows, func(r model.PlayerSessionRow) float64 { return pick(r).AvgSpeed }) / n,
			Accuracy: lo.SumBy(rows, func(r model.PlayerSessionRow) float64 { return pick(r).Accuracy }) / n,
		}
	}
	k.Serve = strokeMean(func(r model.PlayerSessionRow) model.StrokeMetrics { return r.Serve })
	k.Forehand = strokeMean(func(r model.PlayerSessionRow) model.StrokeMetrics { return r.Forehand })
	k.Backhand = strokeMean(func(r model.PlayerSessionRow) model.StrokeMetrics { return r.Backhand })

	metrics := Compute(rows)
	k.UnforcedErrorRate = meanDefined(lo.Map(metrics, func(m SessionMetrics, _ int) *float64 { return m.UnforcedErrorRate }))
	k.CompositeIndex = meanDefined(lo.Map(metrics, func(m SessionMetrics, _ int) *float64 { return m.CompositeIndex }))
	return k
}

func meanDefined(values []*float64) *float64 {
	defined := lo.FilterMap(values, func(v *float64, _ int) (float64, bool) {
		if v == nil {
			return 0, false
		}
		return *v, true
	})
	if len(defined) == 0 {
		return nil
	}
	m := lo.Sum(defined) / float64(len(defined))
	return &m
}

// ---- Point tables ----

// PointsWon counts the points each side won in one session.
func PointsWon(date *time.Time, points []model.PointRecord) model.SessionPoints {
	sp := model.SessionPoints{Date: date}
	for _, p := range points {
		switch p.Winner {
		case model.WinnerHost:
			sp.HostPoints++
		case model.WinnerGuest:
			sp.GuestPoints++
		}
	}
	return sp
}

// GameTotals takes the highest score each side reached in every game and sums
// them over the session. Points without a game id and missing scores are
// ignored.
func GameTotals(date *time.Time, points []model.PointRecord) model.SessionGameTotals {
	type best struct {
		host, guest     float64
		hasHost, hasGst bool
	}
	games := make(map[string]*best)
	for _, p := range points {
		if p.Game == "" {
			continue
		}
		g := games[p.Game]
		if g == nil {
			g = &best{}
			games[p.Game] = g
		}
		if s := p.HostGameScore; s != nil && (!g.hasHost || *s > g.host) {
			g.host, g.hasHost = *s, true
		}
		if s := p.GuestGameScore; s != nil && (!g.hasGst || *s > g.guest) {
			g.guest, g.hasGst = *s, true
		}
	}

	gt := model.SessionGameTotals{Date: date}
	for _, g := range games {
		gt.HostTotal += g.host
		gt.GuestTotal += g.guest
	}
	return gt
}

// Ratio is own ÷ opponent, nil when the opponent total is 0.
func Ratio(own, opponent float64) *float64 {
	if opponent == 0 {
		return nil
	}
	r := own / opponent
	return &r
}

// RoleOf places a player on the host or guest side.
func RoleOf(player, host string) model.Role {
	if strings.EqualFold(player, host) {
		return model.RoleHost
	}
	return model.RoleGuest
}

// PointsRatio returns role's points-won ratio for one session.
func PointsRatio(sp model.SessionPoints, role model.Role) *float64 {
	if role == model.RoleHost {
		return Ratio(float64(sp.HostPoints), float64(sp.GuestPoints))
	}
	return Ratio(float64(sp.GuestPoints), float64(sp.HostPoints))
}

// GameRatio returns role's aggregated game-score ratio for one session.
func GameRatio(gt model.SessionGameTotals, role model.Role) *float64 {
	if role == model.RoleHost {
		return Ratio(gt.HostTotal, gt.GuestTotal)
	}
	return Ratio(gt.GuestTotal, gt.HostTotal)
}
