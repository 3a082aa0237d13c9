package models

// CohortStats summarizes a sample of scalar metric values across a peer
// cohort. A Count of zero is the sentinel for an empty sample: all other
// fields are zero and the struct is still well formed.
type CohortStats struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Percentile25 float64 `json:"percentile_25"`
	Percentile75 float64 `json:"percentile_75"`
}

// WarningType classifies a comparability warning.
type WarningType string

const (
	WarningMethodologyMismatch      WarningType = "methodology_mismatch"
	WarningBoundaryMismatch         WarningType = "boundary_mismatch"
	WarningPeriodMismatch           WarningType = "period_mismatch"
	WarningCategoryCoverageMismatch WarningType = "category_coverage_mismatch"
	WarningMissingData              WarningType = "missing_data"
)

// Severity ranks how strongly a warning impugns a comparison. A blocking
// warning marks the whole comparison invalid; advisory and informational
// warnings annotate it without invalidating it.
type Severity string

const (
	SeverityBlocking      Severity = "blocking"
	SeverityAdvisory      Severity = "advisory"
	SeverityInformational Severity = "informational"
)

// Warning is one typed comparability finding. Warnings are created per
// request and never persisted.
type Warning struct {
	Type       WarningType `json:"type"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// ComparabilityResult is the checker's verdict on a proposed comparison.
// IsComparable is false iff at least one blocking warning fired; all
// applicable warnings are always present so callers can filter by severity.
type ComparabilityResult struct {
	IsComparable bool      `json:"is_comparable"`
	Warnings     []Warning `json:"warnings"`
}

// CohortResult is the benchmark outcome for one peer cohort. A cohort that
// was formed but had too few peers is reported with Omitted set, its peer
// count, and a note instead of statistics.
type CohortResult struct {
	Name           string            `json:"name"`
	Filters        map[string]string `json:"filters"`
	Stats          *CohortStats      `json:"stats,omitempty"`
	PercentileRank *float64          `json:"percentile_rank,omitempty"`
	Omitted        bool              `json:"omitted,omitempty"`
	PeerCount      int               `json:"peer_count"`
	Note           string            `json:"note,omitempty"`
}

// BenchmarkResult is the response of the engine's single mode.
type BenchmarkResult struct {
	CompanyID   string         `json:"company_id"`
	CompanyName string         `json:"company_name"`
	Metric      Metric         `json:"metric"`
	Year        int            `json:"year"`
	Value       *float64       `json:"value,omitempty"`
	Cohorts     []CohortResult `json:"cohorts"`
	Warnings    []Warning      `json:"warnings"`
}

// ComparisonEntry is one company's row in a compare-mode response.
type ComparisonEntry struct {
	CompanyID   string             `json:"company_id"`
	CompanyName string             `json:"company_name"`
	Year        int                `json:"year"`
	Value       *float64           `json:"value,omitempty"`
	Quality     *QualityAssessment `json:"quality,omitempty"`
}

// ComparisonResult is the response of the engine's compare mode.
type ComparisonResult struct {
	Metric       Metric            `json:"metric"`
	Entries      []ComparisonEntry `json:"entries"`
	IsComparable bool              `json:"is_comparable"`
	Warnings     []Warning         `json:"warnings"`
}

// PeerStatsResult is the response of the engine's peer_stats mode.
type PeerStatsResult struct {
	Metric  Metric            `json:"metric"`
	Year    int               `json:"year,omitempty"`
	Filters map[string]string `json:"filters"`
	Stats   CohortStats       `json:"stats"`
}
