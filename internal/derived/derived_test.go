package derived

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tennis-metrics/internal/model"
)

func ptr(f float64) *float64 { return &f }

func row(player string, speed, acc float64, ufe *float64) model.PlayerSessionRow {
	m := model.StrokeMetrics{AvgSpeed: speed, Accuracy: acc, Count: 10}
	return model.PlayerSessionRow{
		PlayerShotStats:   model.PlayerShotStats{Player: player, Serve: m, Forehand: m, Backhand: m},
		UnforcedErrorRate: ufe,
	}
}

func TestCompositeIndex_KnownValue(t *testing.T) {
	got := CompositeIndex(120, 0.8, ptr(0.2))
	require.NotNil(t, got)
	assert.InDelta(t, 0.3012, *got, 1e-4)
}

func TestCompositeIndex_NilRate(t *testing.T) {
	assert.Nil(t, CompositeIndex(120, 0.8, nil))
}

func TestNormalizedSpeed_Unclamped(t *testing.T) {
	assert.InDelta(t, 0, NormalizedSpeed(40), 1e-12)
	assert.InDelta(t, 1, NormalizedSpeed(210), 1e-12)
	assert.Less(t, NormalizedSpeed(0), 0.0)
	assert.Greater(t, NormalizedSpeed(250), 1.0)
}

func TestForRow_ZeroStrokesDragAverage(t *testing.T) {
	r := model.PlayerSessionRow{
		PlayerShotStats: model.PlayerShotStats{
			Player: "A",
			Serve:  model.StrokeMetrics{AvgSpeed: 150, Accuracy: 0.9, Count: 4},
		},
		UnforcedErrorRate: ptr(0),
	}
	m := ForRow(r)
	assert.InDelta(t, 50, m.AvgSpeed, 1e-9)
	assert.InDelta(t, 0.3, m.AvgAccuracy, 1e-9)
	require.NotNil(t, m.CompositeIndex)
	assert.InDelta(t, (50.0-40)/170*0.3, *m.CompositeIndex, 1e-12)
}

func TestCompute_PreservesOrder(t *testing.T) {
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
	a, b := row("A", 120, 0.8, ptr(0.2)), row("A", 130, 0.7, nil)
	a.Date, b.Date = &d1, &d2

	out := Compute([]model.PlayerSessionRow{a, b})
	require.Len(t, out, 2)
	assert.Equal(t, &d1, out[0].Date)
	assert.InDelta(t, 0.3012, *out[0].CompositeIndex, 1e-4)
	assert.Nil(t, out[1].CompositeIndex)
	assert.Nil(t, out[1].UnforcedErrorRate)
}

func TestSummarize(t *testing.T) {
	rows := []model.PlayerSessionRow{
		row("A", 100, 0.5, ptr(0.2)),
		row("A", 140, 0.7, nil),
	}
	k := Summarize("A", rows)
	assert.Equal(t, 2, k.Sessions)
	assert.InDelta(t, 120, k.Serve.Speed, 1e-9)
	assert.InDelta(t, 0.6, k.Backhand.Accuracy, 1e-9)
	require.NotNil(t, k.UnforcedErrorRate)
	assert.InDelta(t, 0.2, *k.UnforcedErrorRate, 1e-9, "undefined rates are left out of the mean")
	require.NotNil(t, k.CompositeIndex)

	empty := Summarize("nobody", nil)
	assert.Zero(t, empty.Sessions)
	assert.Nil(t, empty.CompositeIndex)
}

func TestPointsWon(t *testing.T) {
	points := []model.PointRecord{
		{Winner: "host"}, {Winner: "host"}, {Winner: "guest"}, {Winner: "let"},
	}
	sp := PointsWon(nil, points)
	assert.Equal(t, 2, sp.HostPoints)
	assert.Equal(t, 1, sp.GuestPoints)

	require.NotNil(t, PointsRatio(sp, model.RoleHost))
	assert.InDelta(t, 2, *PointsRatio(sp, model.RoleHost), 1e-12)
	assert.InDelta(t, 0.5, *PointsRatio(sp, model.RoleGuest), 1e-12)

	assert.Nil(t, PointsRatio(model.SessionPoints{HostPoints: 3}, model.RoleHost), "opponent total 0")
}

func TestGameTotals(t *testing.T) {
	points := []model.PointRecord{
		{Game: "1", HostGameScore: ptr(15), GuestGameScore: ptr(0)},
		{Game: "1", HostGameScore: ptr(30), GuestGameScore: ptr(0)},
		{Game: "1", HostGameScore: ptr(30), GuestGameScore: ptr(15)},
		{Game: "2", HostGameScore: nil, GuestGameScore: ptr(40)},
		{Game: "2", HostGameScore: ptr(15), GuestGameScore: nil},
		{Game: "", HostGameScore: ptr(99), GuestGameScore: ptr(99)},
	}
	gt := GameTotals(nil, points)
	assert.InDelta(t, 45, gt.HostTotal, 1e-9)
	assert.InDelta(t, 55, gt.GuestTotal, 1e-9)

	require.NotNil(t, GameRatio(gt, model.RoleGuest))
	assert.InDelta(t, 55.0/45.0, *GameRatio(gt, model.RoleGuest), 1e-12)
	assert.Nil(t, GameRatio(model.SessionGameTotals{HostTotal: 10}, model.RoleHost))
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, model.RoleHost, RoleOf("rasmus kopperud riis", "Rasmus Kopperud Riis"))
	assert.Equal(t, model.RoleGuest, RoleOf("B", "Rasmus Kopperud Riis"))
}
