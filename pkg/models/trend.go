package models

// TrendDirection classifies the overall movement of a cohort's aggregate
// value over the analyzed span.
type TrendDirection string

const (
	TrendIncreasing       TrendDirection = "increasing"
	TrendDecreasing       TrendDirection = "decreasing"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

// TrendPoint is one period's aggregate value in a trend series.
type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// YearStats carries the full cohort statistics for one reporting year of a
// trend query.
type YearStats struct {
	Year  int         `json:"year"`
	Stats CohortStats `json:"stats"`
}

// TrendResult holds year-over-year and compound trend statistics for a
// cohort's aggregate values. All numeric fields are nil when fewer than two
// periods have data (Direction is then insufficient_data). CAGRPercent is
// additionally nil for one-year spans, which have no compounding to
// measure, and when the first value is zero.
type TrendResult struct {
	Direction           TrendDirection `json:"direction"`
	MeanChange          *float64       `json:"mean_change,omitempty"`
	MeanChangePercent   *float64       `json:"mean_change_percent,omitempty"`
	AverageAnnualChange *float64       `json:"average_annual_change,omitempty"`
	CAGRPercent         *float64       `json:"cagr_percent,omitempty"`
	Points              []TrendPoint   `json:"points,omitempty"`
	PerYearStats        []YearStats    `json:"per_year_stats,omitempty"`
}
