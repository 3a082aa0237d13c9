package models

// Score is a 3-level ordinal quality rating.
type Score string

const (
	ScoreHigh   Score = "high"
	ScoreMedium Score = "medium"
	ScoreLow    Score = "low"
)

// Points maps a score onto the numeric scale used by the overall
// aggregation: high 3, medium 2, low 1.
func (s Score) Points() int {
	switch s {
	case ScoreHigh:
		return 3
	case ScoreMedium:
		return 2
	}
	return 1
}

// MethodTier is the data-provenance tier of one Scope 3 category value:
// directly measured or supplier-specific (primary), estimated or averaged
// (modeled), or undisclosed (unknown).
type MethodTier string

const (
	TierPrimary MethodTier = "primary"
	TierModeled MethodTier = "modeled"
	TierUnknown MethodTier = "unknown"
)

// QualityAssessment scores the trustworthiness of one company-year report.
// It is computed on demand from the report and never cached.
type QualityAssessment struct {
	CompanyID string `json:"company_id"`
	Year      int    `json:"year"`

	BoundaryScore     Score `json:"boundary_score"`
	VerificationScore Score `json:"verification_score"`
	MethodologyScore  Score `json:"methodology_score"`

	// CategoryTiers is indexed like EmissionsReport.Scope3Categories
	// (index 0 = category 1).
	CategoryTiers [NumScope3Categories]MethodTier `json:"category_tiers"`

	OverallScore Score    `json:"overall_score"`
	Warnings     []string `json:"warnings"`
}

// FieldChange records one boundary or methodology field that differs
// between two consecutive reporting years.
type FieldChange struct {
	Field    string `json:"field"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// MethodologyChange lists every changed boundary/methodology field between
// a pair of consecutive reporting years for one company. Pairs with no
// changes are omitted from detector output entirely.
type MethodologyChange struct {
	CompanyID string        `json:"company_id"`
	FromYear  int           `json:"from_year"`
	ToYear    int           `json:"to_year"`
	Changes   []FieldChange `json:"changes"`
}
