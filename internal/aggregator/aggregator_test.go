package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tennis-metrics/internal/model"
)

const host = "Rasmus Kopperud Riis"

// shot builds a ShotRecord with a numeric speed.
func shot(player, stroke, result string, speed float64) model.ShotRecord {
	return model.ShotRecord{Player: player, Stroke: stroke, Result: result, Speed: &speed}
}

func point(winner, detail string) model.PointRecord {
	return model.PointRecord{Winner: winner, Detail: detail}
}

func findPlayer(t *testing.T, stats []model.PlayerShotStats, name string) model.PlayerShotStats {
	t.Helper()
	for _, s := range stats {
		if s.Player == name {
			return s
		}
	}
	t.Fatalf("player %q not in aggregate", name)
	return model.PlayerShotStats{}
}

// ---- Shot aggregation ----

func TestAggregateShots_ServeOnly(t *testing.T) {
	shots := []model.ShotRecord{
		shot("A", "serve", "in", 150),
		shot("A", "serve", "in", 160),
		shot("A", "serve", "out", 140),
	}
	stats := AggregateShots(shots, Options{})
	require.Len(t, stats, 1)

	a := stats[0]
	assert.Equal(t, 3, a.Serve.Count)
	assert.InDelta(t, 2.0/3.0, a.Serve.Accuracy, 1e-9)
	assert.InDelta(t, 150, a.Serve.AvgSpeed, 1e-9)

	// Strokes without shots are filled with zeros.
	assert.Equal(t, model.StrokeMetrics{}, a.Forehand)
	assert.Equal(t, model.StrokeMetrics{}, a.Backhand)
}

func TestAggregateShots_DiscardsInvalidResults(t *testing.T) {
	shots := []model.ShotRecord{
		shot("A", "forehand", "IN", 100), // parser lowercases; raw uppercase is not valid here
		shot("A", "forehand", "in", 100),
		shot("A", "forehand", "let", 300),
		shot("A", "forehand", "", 300),
		shot("A", "forehand", "net", 80),
	}
	a := AggregateShots(shots, Options{})[0]
	assert.Equal(t, 2, a.Forehand.Count)
	assert.InDelta(t, 0.5, a.Forehand.Accuracy, 1e-9)
	assert.InDelta(t, 90, a.Forehand.AvgSpeed, 1e-9)
}

func TestAggregateShots_NoValidShots(t *testing.T) {
	assert.Nil(t, AggregateShots(nil, Options{}))
	assert.Nil(t, AggregateShots([]model.ShotRecord{shot("A", "serve", "fault", 100)}, Options{}))
	assert.Nil(t, AggregateShots([]model.ShotRecord{shot("", "serve", "in", 100)}, Options{}))
}

func TestAggregateShots_AllColumnsForEveryPlayer(t *testing.T) {
	shots := []model.ShotRecord{
		shot("B", "backhand", "in", 90),
		shot("A", "serve", "out", 170),
		shot("C", "volley", "in", 60), // unknown stroke still yields a row
	}
	stats := AggregateShots(shots, Options{})
	require.Len(t, stats, 3)
	assert.Equal(t, []string{"A", "B", "C"}, Players(stats), "rows ordered by player name")

	for _, s := range stats {
		for _, stroke := range model.Strokes {
			m := s.Stroke(stroke)
			if m.Count == 0 {
				assert.Zero(t, m.Accuracy, "%s/%s accuracy", s.Player, stroke)
				assert.Zero(t, m.AvgSpeed, "%s/%s speed", s.Player, stroke)
			}
			assert.GreaterOrEqual(t, m.Accuracy, 0.0)
			assert.LessOrEqual(t, m.Accuracy, 1.0)
		}
	}

	c := findPlayer(t, stats, "C")
	assert.Equal(t, model.PlayerShotStats{Player: "C"}, c)
	a := findPlayer(t, stats, "A")
	assert.Equal(t, 1, a.Serve.Count)
	assert.Zero(t, a.Serve.Accuracy)
}

func TestAggregateShots_SpeedIgnoresNonNumeric(t *testing.T) {
	shots := []model.ShotRecord{
		shot("A", "serve", "in", 120),
		{Player: "A", Stroke: "serve", Result: "in"},
		{Player: "A", Stroke: "forehand", Result: "out"},
	}
	a := AggregateShots(shots, Options{})[0]
	assert.Equal(t, 2, a.Serve.Count)
	assert.InDelta(t, 120, a.Serve.AvgSpeed, 1e-9)
	assert.InDelta(t, 1.0, a.Serve.Accuracy, 1e-9)

	// Forehand has a count but no numeric speed: speed falls back to 0.
	assert.Equal(t, 1, a.Forehand.Count)
	assert.Zero(t, a.Forehand.AvgSpeed)
}

func TestAggregateShots_RobustSpeed(t *testing.T) {
	shots := []model.ShotRecord{
		shot("A", "serve", "in", 150),
		shot("A", "serve", "in", 152),
		shot("A", "serve", "in", 148),
		shot("A", "serve", "in", 151),
		shot("A", "serve", "in", 20), // sensor glitch
	}
	plain := AggregateShots(shots, Options{})[0]
	robust := AggregateShots(shots, Options{RobustSpeed: true})[0]

	assert.InDelta(t, 124.2, plain.Serve.AvgSpeed, 1e-9)
	assert.InDelta(t, 150.25, robust.Serve.AvgSpeed, 1e-9)
	assert.Equal(t, plain.Serve.Count, robust.Serve.Count, "trimming only affects speed")
}

func TestRobustMean(t *testing.T) {
	assert.Zero(t, robustMean(nil))
	assert.Equal(t, 7.0, robustMean([]float64{7}))
	assert.InDelta(t, 2.5, robustMean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	assert.InDelta(t, 17.5, quantile(sorted, 0.25), 1e-9)
	assert.InDelta(t, 32.5, quantile(sorted, 0.75), 1e-9)
	assert.Equal(t, 40.0, quantile(sorted, 1))
}

// ---- Point aggregation ----

func TestResolveGuest(t *testing.T) {
	g, ok := ResolveGuest([]string{host, "B"}, host)
	require.True(t, ok)
	assert.Equal(t, "B", g)

	g, ok = ResolveGuest([]string{"B", host, "C"}, host)
	require.True(t, ok)
	assert.Equal(t, "B", g)

	_, ok = ResolveGuest([]string{"rasmus kopperud riis"}, host)
	assert.False(t, ok, "host match is case-insensitive")

	_, ok = ResolveGuest(nil, host)
	assert.False(t, ok)
}

func TestAggregatePoints_InvertedAttribution(t *testing.T) {
	points := []model.PointRecord{
		point("host", "Unforced error"),
		point("guest", "UNFORCED ERROR forehand"),
		point("guest", "winner"),
		point("host", "ace"),
	}
	rates := AggregatePoints(points, []string{host, "B"}, host)
	require.Len(t, rates, 2)

	assert.Equal(t, host, rates[0].Player)
	assert.InDelta(t, 0.25, rates[0].UnforcedErrorRate, 1e-9)
	assert.Equal(t, "B", rates[1].Player)
	assert.InDelta(t, 0.25, rates[1].UnforcedErrorRate, 1e-9)
}

func TestAggregatePoints_ErrorChargedToOpponentOfWinner(t *testing.T) {
	points := []model.PointRecord{
		point("host", "winner"),
		point("guest", "unforced error"),
	}
	rates := AggregatePoints(points, []string{host, "B"}, host)
	require.Len(t, rates, 2)
	assert.InDelta(t, 0.5, rates[0].UnforcedErrorRate, 1e-9, "guest-won UFE charged to host")
	assert.Zero(t, rates[1].UnforcedErrorRate)
}

func TestAggregatePoints_UnknownWinnerIgnored(t *testing.T) {
	points := []model.PointRecord{
		point("let", "unforced error"),
		point("", "unforced error"),
	}
	rates := AggregatePoints(points, []string{host, "B"}, host)
	require.Len(t, rates, 2)
	assert.Zero(t, rates[0].UnforcedErrorRate)
	assert.Zero(t, rates[1].UnforcedErrorRate)
}

func TestAggregatePoints_NoGuest(t *testing.T) {
	rates := AggregatePoints([]model.PointRecord{point("guest", "unforced error")}, []string{host}, host)
	require.Len(t, rates, 1)
	assert.Equal(t, host, rates[0].Player)
	assert.InDelta(t, 1.0, rates[0].UnforcedErrorRate, 1e-9)
}

func TestAggregatePoints_ZeroPoints(t *testing.T) {
	assert.Nil(t, AggregatePoints(nil, []string{host, "B"}, host))
}
