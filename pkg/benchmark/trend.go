package benchmark

import (
	"math"
	"sort"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// trendBandPercent is the fixed percent-change band separating stable from
// increasing/decreasing trends. Not configurable per call.
const trendBandPercent = 5.0

// AnalyzeTrend computes year-over-year and compound trend statistics for a
// series of per-year aggregate values. Fewer than two points returns the
// insufficient-data sentinel with every numeric field nil.
//
// CAGR is computed only for spans longer than one year with a positive
// first value; a one-year span has no compounding to measure and is
// reported through AverageAnnualChange instead.
func AnalyzeTrend(points []models.TrendPoint) models.TrendResult {
	if len(points) < 2 {
		return models.TrendResult{
			Direction: models.TrendInsufficientData,
			Points:    points,
		}
	}

	sorted := make([]models.TrendPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	first, last := sorted[0], sorted[len(sorted)-1]

	meanChange := last.Value - first.Value

	var meanChangePercent *float64
	if first.Value != 0 {
		pct := meanChange / first.Value * 100
		meanChangePercent = &pct
	}

	var diffSum float64
	for i := 1; i < len(sorted); i++ {
		diffSum += sorted[i].Value - sorted[i-1].Value
	}
	avgAnnual := diffSum / float64(len(sorted)-1)

	var cagrPercent *float64
	yearsApart := last.Year - first.Year
	if yearsApart > 1 && first.Value > 0 {
		cagr := (math.Pow(last.Value/first.Value, 1/float64(yearsApart)) - 1) * 100
		cagrPercent = &cagr
	}

	return models.TrendResult{
		Direction:           classifyDirection(meanChange, meanChangePercent),
		MeanChange:          &meanChange,
		MeanChangePercent:   meanChangePercent,
		AverageAnnualChange: &avgAnnual,
		CAGRPercent:         cagrPercent,
		Points:              sorted,
	}
}

// classifyDirection applies the fixed 5% band to the percent change. When
// the percent change is undefined (first value zero) the sign of the
// absolute change decides, with no change classified as stable.
func classifyDirection(meanChange float64, meanChangePercent *float64) models.TrendDirection {
	if meanChangePercent != nil {
		switch {
		case *meanChangePercent > trendBandPercent:
			return models.TrendIncreasing
		case *meanChangePercent < -trendBandPercent:
			return models.TrendDecreasing
		}
		return models.TrendStable
	}
	switch {
	case meanChange > 0:
		return models.TrendIncreasing
	case meanChange < 0:
		return models.TrendDecreasing
	}
	return models.TrendStable
}
