// Package benchmark implements the emissions benchmarking and data-quality
// assessment engine: cohort statistics, comparability rule checking,
// quality scoring, methodology drift detection, and trend analysis.
//
// Everything in this package is a pure function of its inputs (plus fixed
// classification tables injected at construction). There is no shared
// mutable state, so concurrent invocations need no locking.
package benchmark

import (
	"math"
	"sort"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// ComputeStats computes cohort statistics over a sample of metric values.
// An empty sample returns the zero-filled sentinel (Count == 0); cohorts
// frequently have no peers with data for a metric, so this is not an error.
//
// The percentile bounds use the value at sorted index floor(n*k) with no
// interpolation, and the standard deviation is the population form
// (divide by n). Both match the upstream benchmark outputs and must not be
// replaced with a different convention.
func ComputeStats(values []float64) models.CohortStats {
	n := len(values)
	if n == 0 {
		return models.CohortStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sumSq float64
	for _, v := range sorted {
		d := v - mean
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / float64(n))

	var median float64
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	} else {
		median = sorted[n/2]
	}

	return models.CohortStats{
		Count:        n,
		Mean:         mean,
		Median:       median,
		StdDev:       stdDev,
		Min:          sorted[0],
		Max:          sorted[n-1],
		Percentile25: percentileLower(sorted, 0.25),
		Percentile75: percentileLower(sorted, 0.75),
	}
}

// percentileLower returns the value at sorted index floor(n*k). sorted must
// be non-empty and ascending.
func percentileLower(sorted []float64, k float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * k))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// PercentileRank returns the mid-rank percentile of value within sample, in
// [0, 100]: (countBelow + 0.5*countEqual) / n * 100. The mid-rank form
// handles ties correctly where a plain count-below rank would not. An empty
// sample yields 0.
func PercentileRank(value float64, sample []float64) float64 {
	n := len(sample)
	if n == 0 {
		return 0
	}

	below, equal := 0, 0
	for _, v := range sample {
		switch {
		case v < value:
			below++
		case v == value:
			equal++
		}
	}
	return (float64(below) + 0.5*float64(equal)) / float64(n) * 100
}
