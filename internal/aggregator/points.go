package aggregator

import (
	"strings"

	"github.com/samber/lo"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// ResolveGuest returns the first player that is not the host (case-insensitive).
func ResolveGuest(players []string, host string) (string, bool) {
	return lo.Find(players, func(p string) bool {
		return !strings.EqualFold(p, host)
	})
}

// AggregatePoints computes the unforced error rate of the host and, when one
// can be resolved from shotPlayers, the guest. Returns nil for zero points.
//
// An unforced error on a point recorded as won by one side is charged to the
// other side.
func AggregatePoints(points []model.PointRecord, shotPlayers []string, host string) []model.PlayerErrorRate {
	total := len(points)
	if total == 0 {
		return nil
	}

	var hostErrors, guestErrors int
	for _, p := range points {
		if !p.IsUnforcedError() {
			continue
		}
		switch p.Winner {
		case model.WinnerHost:
			guestErrors++
		case model.WinnerGuest:
			hostErrors++
		}
	}

	out := []model.PlayerErrorRate{{
		Player:            host,
		UnforcedErrorRate: float64(hostErrors) / float64(total),
	}}
	if guest, ok := ResolveGuest(shotPlayers, host); ok {
		out = append(out, model.PlayerErrorRate{
			Player:            guest,
			UnforcedErrorRate: float64(guestErrors) / float64(total),
		})
	}
	return out
}
