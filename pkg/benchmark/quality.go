package benchmark

import (
	"fmt"
	"strings"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// Tables holds the fixed classification data the assessor scores against.
// Tables are immutable configuration injected at construction, never
// mutable package state, so tests can substitute them without global side
// effects.
type Tables struct {
	// StandardBoundaries are the GHG Protocol consolidation approaches;
	// a report naming one scores high on the boundary pillar.
	StandardBoundaries []string
	// VariantBoundaries are recognized but lower-rigor boundary
	// descriptions scoring medium.
	VariantBoundaries []string

	// HighAssurance descriptors score high on the verification pillar.
	HighAssurance []string
	// LimitedAssurance descriptors score medium.
	LimitedAssurance []string

	// PrimaryMethods and ModeledMethods classify calculation method names
	// into provenance tiers. Unlisted or absent methods are unknown.
	PrimaryMethods []string
	ModeledMethods []string

	// MaterialityThreshold is the absolute category value (tCO2e) above
	// which a non-primary tier is worth a warning.
	MaterialityThreshold float64
}

// DefaultTables returns the classification tables used in production.
func DefaultTables() Tables {
	return Tables{
		StandardBoundaries: []string{
			"Operational control",
			"Financial control",
			"Equity share",
		},
		VariantBoundaries: []string{
			"Aligned with financial reporting",
			"Operational boundary",
		},
		HighAssurance: []string{
			"Reasonable assurance",
			"High assurance",
		},
		LimitedAssurance: []string{
			"Limited assurance",
			"Moderate assurance",
		},
		PrimaryMethods: []string{
			"Supplier-specific method",
			"Direct measurement",
			"Site-specific method",
			"Hybrid method",
			"Fuel-based method",
		},
		ModeledMethods: []string{
			"Average-data method",
			"Spend-based method",
			"Distance-based method",
			"Average product method",
			"Average spend-based method",
			"Industry average",
		},
		MaterialityThreshold: 10000,
	}
}

// Assessor scores the trustworthiness of reported measurements. Assess is a
// pure function of one report and the fixed tables.
type Assessor struct {
	tables Tables
}

// NewAssessor creates an assessor over the given classification tables.
func NewAssessor(tables Tables) *Assessor {
	return &Assessor{tables: tables}
}

// Assess scores one company-year report across the boundary, verification,
// and methodology pillars and derives the overall score. Data-quality
// violations (a category exceeding its parent total, missing totals) are
// attached as warnings, never returned as errors.
func (a *Assessor) Assess(report *models.EmissionsReport) models.QualityAssessment {
	qa := models.QualityAssessment{
		CompanyID: report.CompanyID,
		Year:      report.Year,
		Warnings:  []string{},
	}

	qa.BoundaryScore = a.scoreBoundary(report.OrgBoundary, &qa.Warnings)
	qa.VerificationScore = a.scoreVerification(report.Assurance, &qa.Warnings)
	qa.CategoryTiers = a.classifyCategories(report, &qa.Warnings)
	qa.MethodologyScore = a.scoreMethodology(report)
	qa.OverallScore = overallScore(qa.BoundaryScore, qa.VerificationScore, qa.MethodologyScore)

	a.checkCategoryConsistency(report, &qa.Warnings)

	return qa
}

func (a *Assessor) scoreBoundary(boundary string, warnings *[]string) models.Score {
	if boundary == "" {
		*warnings = append(*warnings, "no organizational boundary disclosed")
		return models.ScoreLow
	}
	if matchesAny(boundary, a.tables.StandardBoundaries) {
		return models.ScoreHigh
	}
	if matchesAny(boundary, a.tables.VariantBoundaries) {
		return models.ScoreMedium
	}
	*warnings = append(*warnings, fmt.Sprintf("non-standard organizational boundary %q", boundary))
	return models.ScoreLow
}

func (a *Assessor) scoreVerification(assurance string, warnings *[]string) models.Score {
	if assurance == "" {
		*warnings = append(*warnings, "no independent verification")
		return models.ScoreLow
	}
	if matchesAny(assurance, a.tables.HighAssurance) {
		return models.ScoreHigh
	}
	if matchesAny(assurance, a.tables.LimitedAssurance) {
		return models.ScoreMedium
	}
	*warnings = append(*warnings, fmt.Sprintf("unrecognized assurance descriptor %q", assurance))
	return models.ScoreLow
}

func (a *Assessor) classifyCategories(report *models.EmissionsReport, warnings *[]string) [models.NumScope3Categories]models.MethodTier {
	var tiers [models.NumScope3Categories]models.MethodTier
	for i, cat := range report.Scope3Categories {
		tier := a.methodTier(cat.Methodology)
		tiers[i] = tier
		if cat.Value != nil && *cat.Value > a.tables.MaterialityThreshold && tier != models.TierPrimary {
			*warnings = append(*warnings, fmt.Sprintf(
				"category %d (%s) reports %.0f tCO2e with %s methodology",
				i+1, models.Scope3CategoryNames[i], *cat.Value, tier))
		}
	}
	return tiers
}

func (a *Assessor) methodTier(method string) models.MethodTier {
	if method == "" {
		return models.TierUnknown
	}
	if matchesAny(method, a.tables.PrimaryMethods) {
		return models.TierPrimary
	}
	if matchesAny(method, a.tables.ModeledMethods) {
		return models.TierModeled
	}
	return models.TierUnknown
}

// scoreMethodology rates the top-level scope 1/2 method descriptors with
// the same three-tier heuristic as the category tiers: primary methods
// score high, modeled methods medium, absent or unrecognized low.
func (a *Assessor) scoreMethodology(report *models.EmissionsReport) models.Score {
	best := models.ScoreLow
	for _, method := range []string{report.Scope1Methodology, report.Scope2Methodology} {
		switch a.methodTier(method) {
		case models.TierPrimary:
			return models.ScoreHigh
		case models.TierModeled:
			best = models.ScoreMedium
		}
	}
	return best
}

// overallScore averages the three pillar scores on the {3,2,1} scale and
// bands the result: >= 2.5 high, >= 1.5 medium, else low. Plain averaging
// is deliberate; do not replace with a weighted combination.
func overallScore(scores ...models.Score) models.Score {
	total := 0
	for _, s := range scores {
		total += s.Points()
	}
	avg := float64(total) / float64(len(scores))
	switch {
	case avg >= 2.5:
		return models.ScoreHigh
	case avg >= 1.5:
		return models.ScoreMedium
	}
	return models.ScoreLow
}

// checkCategoryConsistency flags malformed records: any category exceeding
// the parent scope 3 total, or categories reported with no total at all.
func (a *Assessor) checkCategoryConsistency(report *models.EmissionsReport, warnings *[]string) {
	populated := report.PopulatedCategoryCount()
	if populated == 0 {
		return
	}
	if report.Scope3Total == nil {
		*warnings = append(*warnings, fmt.Sprintf(
			"%d scope 3 categories reported without a scope 3 total", populated))
		return
	}
	for i, cat := range report.Scope3Categories {
		if cat.Value != nil && *cat.Value > *report.Scope3Total {
			*warnings = append(*warnings, fmt.Sprintf(
				"category %d (%s) value %.0f exceeds the scope 3 total %.0f",
				i+1, models.Scope3CategoryNames[i], *cat.Value, *report.Scope3Total))
		}
	}
}

// matchesAny reports whether value matches any table entry, exactly or by
// substring, case-insensitively. Disclosed descriptors are free text
// ("Verified - reasonable assurance"), so substring matching in both
// directions is required.
func matchesAny(value string, table []string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, entry := range table {
		e := strings.ToLower(entry)
		if v == e || strings.Contains(v, e) || strings.Contains(e, v) {
			return true
		}
	}
	return false
}
