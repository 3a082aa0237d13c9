package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/store"
)

// DefaultMinCohortSize is the peer count below which the intersection
// cohort is suppressed rather than reported.
const DefaultMinCohortSize = 3

// Engine orchestrates benchmarking over the record store: it builds peer
// cohorts, computes statistics and percentile ranks, and assembles
// comparability and quality context. The engine holds no mutable state
// beyond its collaborators and is safe for concurrent use.
type Engine struct {
	store         store.RecordStore
	checker       *Checker
	assessor      *Assessor
	minCohortSize int
}

// NewEngine creates an engine over the given store. A minCohortSize of 0
// selects the default.
func NewEngine(rs store.RecordStore, checker *Checker, assessor *Assessor, minCohortSize int) *Engine {
	if minCohortSize <= 0 {
		minCohortSize = DefaultMinCohortSize
	}
	return &Engine{
		store:         rs,
		checker:       checker,
		assessor:      assessor,
		minCohortSize: minCohortSize,
	}
}

// Single benchmarks one company's metric against up to three peer cohorts:
// same jurisdiction, same sector, and their intersection. The intersection
// cohort is suppressed below the minimum peer count and reported with its
// count and a note instead. An unknown company returns store.ErrNotFound;
// cohorts with no data yield the zero-count stats sentinel, never an error.
func (e *Engine) Single(ctx context.Context, companyID string, metric models.Metric, year *int) (*models.BenchmarkResult, error) {
	company, err := e.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	focalReport, err := e.reportFor(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	result := &models.BenchmarkResult{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Metric:      metric,
		Warnings:    []models.Warning{},
	}
	var focalValue *float64
	if focalReport != nil {
		result.Year = focalReport.Year
		focalValue = focalReport.Value(metric)
		result.Value = focalValue
	}

	cohortDefs := []struct {
		name    string
		filters map[string]string
	}{
		{"jurisdiction", map[string]string{models.AttrJurisdiction: company.Jurisdiction}},
		{"sector", map[string]string{models.AttrSector: company.Sector}},
		{"jurisdiction_and_sector", map[string]string{
			models.AttrJurisdiction: company.Jurisdiction,
			models.AttrSector:       company.Sector,
		}},
	}

	peerReports := make(map[string]*models.EmissionsReport)
	for i, def := range cohortDefs {
		cohort, reports, err := e.buildCohort(ctx, def.name, def.filters, metric, year, focalValue)
		if err != nil {
			return nil, err
		}

		// Only the narrow intersection cohort is suppressed when thin;
		// the broad cohorts are reported even when empty.
		if i == len(cohortDefs)-1 && cohort.PeerCount < e.minCohortSize {
			cohort.Stats = nil
			cohort.PercentileRank = nil
			cohort.Omitted = true
			cohort.Note = fmt.Sprintf("only %d peers share both jurisdiction and sector; at least %d are required for a meaningful comparison",
				cohort.PeerCount, e.minCohortSize)
		}
		result.Cohorts = append(result.Cohorts, cohort)

		for _, r := range reports {
			peerReports[r.CompanyID] = r
		}
	}

	if focalReport != nil {
		set := []*models.EmissionsReport{focalReport}
		for _, id := range sortedKeys(peerReports) {
			if id != companyID {
				set = append(set, peerReports[id])
			}
		}
		check := e.checker.CheckSet(metric, set)
		result.Warnings = check.Warnings
	} else {
		result.Warnings = append(result.Warnings, models.Warning{
			Type:     models.WarningMissingData,
			Severity: models.SeverityBlocking,
			Message:  fmt.Sprintf("%s has no emissions report for the requested period", company.Name),
		})
	}

	return result, nil
}

// buildCohort gathers the metric values of every company matching the
// filters and computes the cohort statistics and, when the focal value is
// known, its percentile rank within the cohort. The focal company's own
// value participates in the sample; the mid-rank formula keeps its rank
// well defined.
func (e *Engine) buildCohort(ctx context.Context, name string, filters map[string]string, metric models.Metric, year *int, focalValue *float64) (models.CohortResult, []*models.EmissionsReport, error) {
	companies, err := e.store.ListCompaniesByAttributes(ctx, filters)
	if err != nil {
		return models.CohortResult{}, nil, err
	}

	var values []float64
	var reports []*models.EmissionsReport
	for _, c := range companies {
		r, err := e.reportFor(ctx, c.ID, year)
		if err != nil {
			return models.CohortResult{}, nil, err
		}
		if r == nil {
			continue
		}
		v := r.Value(metric)
		if v == nil {
			continue
		}
		values = append(values, *v)
		reports = append(reports, r)
	}

	stats := ComputeStats(values)
	cohort := models.CohortResult{
		Name:      name,
		Filters:   filters,
		Stats:     &stats,
		PeerCount: stats.Count,
	}
	if focalValue != nil && stats.Count > 0 {
		rank := PercentileRank(*focalValue, values)
		cohort.PercentileRank = &rank
	}
	return cohort, reports, nil
}

// Compare fetches the latest-or-given-year report for each company, scores
// each with the quality assessor, and runs the comparability check across
// the whole set. Companies may be named explicitly or derived from cohort
// filters; explicit unknown IDs are a lookup failure.
func (e *Engine) Compare(ctx context.Context, companyIDs []string, filters map[string]string, metric models.Metric, year *int) (*models.ComparisonResult, error) {
	if len(companyIDs) == 0 {
		companies, err := e.store.ListCompaniesByAttributes(ctx, filters)
		if err != nil {
			return nil, err
		}
		for _, c := range companies {
			companyIDs = append(companyIDs, c.ID)
		}
	}

	result := &models.ComparisonResult{
		Metric:   metric,
		Entries:  []models.ComparisonEntry{},
		Warnings: []models.Warning{},
	}

	var reports []*models.EmissionsReport
	for _, id := range companyIDs {
		company, err := e.store.GetCompany(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", id, err)
		}

		entry := models.ComparisonEntry{CompanyID: company.ID, CompanyName: company.Name}
		report, err := e.reportFor(ctx, id, year)
		if err != nil {
			return nil, err
		}
		if report != nil {
			entry.Year = report.Year
			entry.Value = report.Value(metric)
			qa := e.assessor.Assess(report)
			entry.Quality = &qa
			reports = append(reports, report)
		}
		result.Entries = append(result.Entries, entry)
	}

	check := e.checker.CheckSet(metric, reports)
	result.IsComparable = check.IsComparable
	result.Warnings = check.Warnings
	return result, nil
}

// PeerStats computes cohort statistics for a filtered sample with no focal
// company and no percentile rank. A cohort with no data for the metric
// returns the zero-count sentinel.
func (e *Engine) PeerStats(ctx context.Context, filters map[string]string, metric models.Metric, year *int) (*models.PeerStatsResult, error) {
	cohort, _, err := e.buildCohort(ctx, "peer_stats", filters, metric, year, nil)
	if err != nil {
		return nil, err
	}

	result := &models.PeerStatsResult{
		Metric:  metric,
		Filters: filters,
		Stats:   *cohort.Stats,
	}
	if year != nil {
		result.Year = *year
	}
	return result, nil
}

// AssessQuality scores the trustworthiness of one company-year report.
// A company or year absent from the store returns store.ErrNotFound.
func (e *Engine) AssessQuality(ctx context.Context, companyID string, year *int) (*models.QualityAssessment, error) {
	if _, err := e.store.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	report, err := e.reportFor(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, store.ErrNotFound
	}
	qa := e.assessor.Assess(report)
	return &qa, nil
}

// MethodologyChanges surfaces year-over-year boundary and methodology drift
// across a company's full reporting history.
func (e *Engine) MethodologyChanges(ctx context.Context, companyID string) ([]models.MethodologyChange, error) {
	reports, err := e.store.GetEmissions(ctx, companyID, nil)
	if err != nil {
		return nil, err
	}
	return DetectChanges(reports), nil
}

// Trend computes per-year cohort statistics for the filtered sample over
// the given span and feeds the per-year means to the trend analyzer. Years
// in which no company reported the metric contribute no point.
func (e *Engine) Trend(ctx context.Context, metric models.Metric, filters map[string]string, startYear, endYear *int) (*models.TrendResult, error) {
	companies, err := e.store.ListCompaniesByAttributes(ctx, filters)
	if err != nil {
		return nil, err
	}

	valuesByYear := make(map[int][]float64)
	for _, c := range companies {
		reports, err := e.store.GetEmissions(ctx, c.ID, nil)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, r := range reports {
			if startYear != nil && r.Year < *startYear {
				continue
			}
			if endYear != nil && r.Year > *endYear {
				continue
			}
			if v := r.Value(metric); v != nil {
				valuesByYear[r.Year] = append(valuesByYear[r.Year], *v)
			}
		}
	}

	years := make([]int, 0, len(valuesByYear))
	for y := range valuesByYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var points []models.TrendPoint
	var perYear []models.YearStats
	for _, y := range years {
		stats := ComputeStats(valuesByYear[y])
		perYear = append(perYear, models.YearStats{Year: y, Stats: stats})
		points = append(points, models.TrendPoint{Year: y, Value: stats.Mean})
	}

	result := AnalyzeTrend(points)
	result.PerYearStats = perYear
	return &result, nil
}

// reportFor returns the company's report for the given year, or its most
// recent report when year is nil. A company with no report for the span
// yields nil rather than an error so cohort building can skip it.
func (e *Engine) reportFor(ctx context.Context, companyID string, year *int) (*models.EmissionsReport, error) {
	reports, err := e.store.GetEmissions(ctx, companyID, year)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) && year != nil {
			return nil, nil
		}
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return reports[0], nil
}

func sortedKeys(m map[string]*models.EmissionsReport) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
