package benchmark

import (
	"fmt"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// Checker decides whether reports may be validly compared for a metric and
// emits typed warnings when they may not. Thresholds are fixed at
// construction; the checker itself holds no mutable state and never mutates
// input reports.
type Checker struct {
	// CategoryCoverageGap is the minimum difference in populated Scope 3
	// category counts that triggers a coverage warning.
	CategoryCoverageGap int
	// CoverageRatioLimit is the max/min populated-category-total ratio
	// above which a set-wide coverage variance warning fires.
	CoverageRatioLimit float64
}

// Default comparability thresholds.
const (
	DefaultCategoryCoverageGap = 5
	DefaultCoverageRatioLimit  = 10.0
)

// NewChecker returns a Checker with the default thresholds.
func NewChecker() *Checker {
	return &Checker{
		CategoryCoverageGap: DefaultCategoryCoverageGap,
		CoverageRatioLimit:  DefaultCoverageRatioLimit,
	}
}

// CheckPair runs every comparability rule on a pair of reports for a
// requested metric. All applicable rules run and all warnings are
// returned; IsComparable is false iff any blocking warning fired.
func (c *Checker) CheckPair(metric models.Metric, a, b *models.EmissionsReport) models.ComparabilityResult {
	warnings := c.pairWarnings(metric, a, b)
	return result(warnings)
}

// CheckSet runs the pairwise rules across every pair in the set plus the
// set-wide category coverage variance rule. Sets of fewer than two reports
// are trivially comparable with no warnings.
func (c *Checker) CheckSet(metric models.Metric, reports []*models.EmissionsReport) models.ComparabilityResult {
	var warnings []models.Warning
	seen := make(map[string]bool)

	for i := 0; i < len(reports); i++ {
		for j := i + 1; j < len(reports); j++ {
			for _, w := range c.pairWarnings(metric, reports[i], reports[j]) {
				// A large set repeats the same finding across many pairs;
				// keep one warning per type+message.
				key := string(w.Type) + "|" + w.Message
				if !seen[key] {
					seen[key] = true
					warnings = append(warnings, w)
				}
			}
		}
	}

	if w := c.coverageVarianceWarning(reports); w != nil {
		warnings = append(warnings, *w)
	}

	return result(warnings)
}

func result(warnings []models.Warning) models.ComparabilityResult {
	comparable := true
	for _, w := range warnings {
		if w.Severity == models.SeverityBlocking {
			comparable = false
		}
	}
	if warnings == nil {
		warnings = []models.Warning{}
	}
	return models.ComparabilityResult{IsComparable: comparable, Warnings: warnings}
}

// pairWarnings applies the rules in priority order. No rule suppresses
// another: a blocking methodology mismatch does not hide a boundary or
// period finding.
func (c *Checker) pairWarnings(metric models.Metric, a, b *models.EmissionsReport) []models.Warning {
	var warnings []models.Warning

	if w := c.variantMismatchWarning(metric, a, b); w != nil {
		warnings = append(warnings, *w)
	}

	if a.OrgBoundary != "" && b.OrgBoundary != "" && a.OrgBoundary != b.OrgBoundary {
		warnings = append(warnings, models.Warning{
			Type:     models.WarningBoundaryMismatch,
			Severity: models.SeverityAdvisory,
			Message: fmt.Sprintf("organizational boundaries differ: %q vs %q; totals may consolidate different sets of operations",
				a.OrgBoundary, b.OrgBoundary),
			Suggestion: "interpret gaps between the two companies directionally rather than as exact differences",
		})
	}

	if a.Year != b.Year {
		warnings = append(warnings, models.Warning{
			Type:     models.WarningPeriodMismatch,
			Severity: models.SeverityAdvisory,
			Message:  fmt.Sprintf("reporting years differ: %d vs %d", a.Year, b.Year),
		})
	}

	if metric == models.MetricScope3 {
		ca, cb := a.PopulatedCategoryCount(), b.PopulatedCategoryCount()
		gap := ca - cb
		if gap < 0 {
			gap = -gap
		}
		if gap >= c.CategoryCoverageGap {
			warnings = append(warnings, models.Warning{
				Type:     models.WarningCategoryCoverageMismatch,
				Severity: models.SeverityAdvisory,
				Message: fmt.Sprintf("scope 3 category coverage differs by %d categories (%d vs %d of %d); broader coverage mechanically inflates totals",
					gap, ca, cb, models.NumScope3Categories),
				Suggestion: "compare per-category values for the categories both companies report",
			})
		}
	}

	if a.Value(metric) == nil || b.Value(metric) == nil {
		warnings = append(warnings, models.Warning{
			Type:     models.WarningMissingData,
			Severity: models.SeverityBlocking,
			Message:  fmt.Sprintf("at least one company did not report %s; no comparison can be made", metric),
		})
	}

	return warnings
}

// variantMismatchWarning enforces the methodology-pair rule: when the
// requested metric belongs to a mutually exclusive variant pair (the two
// Scope 2 accounting methods), both companies must report under the same
// variant. Mixing variants produces numerically plausible but semantically
// meaningless comparisons, so this is a hard block.
func (c *Checker) variantMismatchWarning(metric models.Metric, a, b *models.EmissionsReport) *models.Warning {
	partner := metric.ExclusivePartner()
	if partner == "" {
		return nil
	}

	// A company "uses the other variant" when it reports under the partner
	// method but not the requested one.
	aOther := a.Value(metric) == nil && a.Value(partner) != nil
	bOther := b.Value(metric) == nil && b.Value(partner) != nil
	if aOther == bOther {
		return nil
	}

	return &models.Warning{
		Type:     models.WarningMethodologyMismatch,
		Severity: models.SeverityBlocking,
		Message: fmt.Sprintf("the companies report scope 2 under different accounting methods (%s vs %s); the two variants are not convertible and must not be compared",
			metric, partner),
		Suggestion: fmt.Sprintf("request %s for both companies, or benchmark each within a cohort using its own variant", partner),
	}
}

// coverageVarianceWarning checks the spread of populated-category totals
// across a whole comparison set. A max/min ratio above the limit means the
// companies' Scope 3 footprint definitions differ too much for totals to
// line up.
func (c *Checker) coverageVarianceWarning(reports []*models.EmissionsReport) *models.Warning {
	var min, max float64
	counted := 0
	for _, r := range reports {
		t := r.CategoryTotal()
		if t <= 0 {
			continue
		}
		if counted == 0 || t < min {
			min = t
		}
		if counted == 0 || t > max {
			max = t
		}
		counted++
	}
	if counted < 2 || min <= 0 {
		return nil
	}
	ratio := max / min
	if ratio <= c.CoverageRatioLimit {
		return nil
	}
	return &models.Warning{
		Type:     models.WarningCategoryCoverageMismatch,
		Severity: models.SeverityAdvisory,
		Message: fmt.Sprintf("scope 3 category totals vary %.0fx across the set (%.0f to %.0f tCO2e), suggesting very different category coverage",
			ratio, min, max),
		Suggestion: "filter the comparison to companies with similar scope 3 category coverage",
	}
}
