package aggregator

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Options tunes shot aggregation.
type Options struct {
	// RobustSpeed averages speeds after dropping 1.5×IQR outliers.
	RobustSpeed bool
}

type metric int

const (
	metricSpeed metric = iota
	metricAccuracy
	metricCount
)

var metrics = []metric{metricSpeed, metricAccuracy, metricCount}

// column is one cell of the wide table, e.g. serve × accuracy.
type column struct {
	stroke string
	metric metric
}

// AggregateShots reduces one session's shots to one row per player with
// accuracy, average speed and count for every known stroke. Rows are ordered
// by player name. Returns nil when no shot has a valid result.
func AggregateShots(shots []model.ShotRecord, opts Options) []model.PlayerShotStats {
	valid := lo.Filter(shots, func(s model.ShotRecord, _ int) bool {
		return s.IsValid() && s.Player != "" && s.Stroke != ""
	})
	if len(valid) == 0 {
		return nil
	}

	// ---- Pass 1: group by (player, stroke) into long form. ----

	type strokeKey struct{ player, stroke string }
	groups := lo.GroupBy(valid, func(s model.ShotRecord) strokeKey {
		return strokeKey{s.Player, s.Stroke}
	})

	accuracy := make(map[strokeKey]float64)
	speed := make(map[strokeKey]float64)
	count := make(map[strokeKey]float64)
	for k, g := range groups {
		accuracy[k] = lo.SumBy(g, func(s model.ShotRecord) float64 { return s.Success() }) / float64(len(g))
		count[k] = float64(len(g))

		speeds := lo.FilterMap(g, func(s model.ShotRecord, _ int) (float64, bool) {
			if s.Speed == nil {
				return 0, false
			}
			return *s.Speed, true
		})
		if len(speeds) == 0 {
			continue // no numeric speed: the cell stays absent and is filled below
		}
		if opts.RobustSpeed {
			speed[k] = robustMean(speeds)
		} else {
			speed[k] = mean(speeds)
		}
	}

	// ---- Pass 2: pivot each metric wide, outer union of players. ----

	wide := make(map[string]map[column]float64)
	pivot := func(long map[strokeKey]float64, m metric) {
		for k, v := range long {
			row := wide[k.player]
			if row == nil {
				row = make(map[column]float64)
				wide[k.player] = row
			}
			row[column{k.stroke, m}] = v
		}
	}
	pivot(speed, metricSpeed)
	pivot(accuracy, metricAccuracy)
	pivot(count, metricCount)

	// ---- Pass 3: reconcile against the fixed stroke × metric columns. ----

	reconcile(wide)

	players := lo.Keys(wide)
	sort.Strings(players)

	out := make([]model.PlayerShotStats, 0, len(players))
	for _, p := range players {
		row := model.PlayerShotStats{Player: p}
		for _, stroke := range model.Strokes {
			row.SetStroke(stroke, model.StrokeMetrics{
				AvgSpeed: wide[p][column{stroke, metricSpeed}],
				Accuracy: wide[p][column{stroke, metricAccuracy}],
				Count:    int(wide[p][column{stroke, metricCount}]),
			})
		}
		out = append(out, row)
	}
	return out
}

// reconcile fills every expected column missing from a player's row with 0.
func reconcile(wide map[string]map[column]float64) {
	for _, row := range wide {
		for _, stroke := range model.Strokes {
			for _, m := range metrics {
				c := column{stroke, m}
				if _, ok := row[c]; !ok {
					row[c] = 0
				}
			}
		}
	}
}

// Players returns the player names of a shot aggregate in row order.
func Players(stats []model.PlayerShotStats) []string {
	return lo.Map(stats, func(s model.PlayerShotStats, _ int) string { return s.Player })
}
