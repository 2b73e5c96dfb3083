package aggregator

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

// quantile interpolates linearly between the two closest ranks of a
// pre-sorted (ascending) slice.
func quantile(sorted []float64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	base := int(math.Floor(pos))
	rest := pos - float64(base)
	if base+1 < len(sorted) {
		return sorted[base] + rest*(sorted[base+1]-sorted[base])
	}
	return sorted[base]
}

// robustMean averages the values inside [Q1 − 1.5·IQR, Q3 + 1.5·IQR].
// Falls back to the plain mean if nothing survives the trim.
func robustMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lower, upper := q1-1.5*iqr, q3+1.5*iqr

	kept := lo.Filter(sorted, func(v float64, _ int) bool { return v >= lower && v <= upper })
	if len(kept) == 0 {
		return mean(values)
	}
	return mean(kept)
}
