package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/session"
)

func TestNewExportDoc(t *testing.T) {
	ufe := 0.2
	speed := model.StrokeMetrics{AvgSpeed: 120, Accuracy: 0.8, Count: 5}
	rows := []model.PlayerSessionRow{
		{
			PlayerShotStats:   model.PlayerShotStats{Player: "Rasmus Kopperud Riis", Serve: speed, Forehand: speed, Backhand: speed},
			UnforcedErrorRate: &ufe,
			Date:              session.ParseDate("2024-05-01"),
		},
		{PlayerShotStats: model.PlayerShotStats{Player: "B"}},
	}
	won := []model.SessionPoints{{Date: session.ParseDate("2024-05-01"), HostPoints: 3, GuestPoints: 2}}

	doc := newExportDoc("Rasmus Kopperud Riis", rows, won, nil)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, []any{"B", "Rasmus Kopperud Riis"}, out["players"])
	assert.Equal(t, []any{}, out["game_points"], "empty tables encode as [] not null")

	jsonRows := out["rows"].([]any)
	require.Len(t, jsonRows, 2)
	first := jsonRows[0].(map[string]any)
	assert.Equal(t, "2024-05-01", first["date"])
	assert.Equal(t, 5.0, first["serve_count"])
	assert.InDelta(t, 0.3012, first["composite_index"].(float64), 1e-4)

	second := jsonRows[1].(map[string]any)
	assert.Nil(t, second["date"])
	assert.Nil(t, second["unforced_error_rate"])
	assert.Nil(t, second["composite_index"])
	assert.Contains(t, second, "backhand_accuracy")

	points := out["points_won"].([]any)
	require.Len(t, points, 1)
	assert.Equal(t, 3.0, points[0].(map[string]any)["host_points"])
}
