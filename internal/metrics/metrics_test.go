package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/session"
)

func sampleResult() dataset.Result {
	return dataset.Result{
		BuiltAt:  time.Unix(1714560000, 0),
		Duration: 40 * time.Millisecond,
		Dataset: dataset.Dataset{Rows: []model.PlayerSessionRow{
			{PlayerShotStats: model.PlayerShotStats{Player: "A"}},
			{PlayerShotStats: model.PlayerShotStats{Player: "B"}},
			{PlayerShotStats: model.PlayerShotStats{Player: "A"}},
		}},
		Reports: []session.Report{
			{Name: "2024-05-01", Status: session.StatusUsed},
			{Name: "2024-05-08", Status: session.StatusUsed},
			{Name: "junk", Status: session.StatusSkipped},
		},
	}
}

func TestObserve(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleResult())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.SessionsProcessed.WithLabelValues("used")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SessionsProcessed.WithLabelValues("skipped")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.PlayerRows))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Players))
	assert.Equal(t, 1714560000.0, testutil.ToFloat64(r.LastBuild))

	n, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 6, n, "two outcome series plus four single metrics")
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleResult())

	path := filepath.Join(t.TempDir(), "tennismetrics.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tennismetrics_sessions_processed_total{outcome="skipped"} 1`)
	assert.Contains(t, string(data), "tennismetrics_player_rows 3")
}
