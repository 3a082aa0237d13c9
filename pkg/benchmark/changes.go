package benchmark

import (
	"fmt"
	"sort"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// DetectChanges diffs consecutive reporting years of one company's history
// and returns one record per pair of years with at least one changed
// boundary or methodology field. A value disclosed one year and absent the
// next (or the reverse) counts as a change. Fewer than two years yields an
// empty list.
func DetectChanges(reports []*models.EmissionsReport) []models.MethodologyChange {
	out := []models.MethodologyChange{}
	if len(reports) < 2 {
		return out
	}

	sorted := make([]*models.EmissionsReport, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		changes := diffReports(prev, cur)
		if len(changes) == 0 {
			continue
		}
		out = append(out, models.MethodologyChange{
			CompanyID: cur.CompanyID,
			FromYear:  prev.Year,
			ToYear:    cur.Year,
			Changes:   changes,
		})
	}
	return out
}

func diffReports(prev, cur *models.EmissionsReport) []models.FieldChange {
	var changes []models.FieldChange

	appendIfChanged := func(field, p, c string) {
		if p != c {
			changes = append(changes, models.FieldChange{Field: field, Previous: p, Current: c})
		}
	}

	appendIfChanged("org_boundary", prev.OrgBoundary, cur.OrgBoundary)
	appendIfChanged("assurance", prev.Assurance, cur.Assurance)
	appendIfChanged("scope1_methodology", prev.Scope1Methodology, cur.Scope1Methodology)
	appendIfChanged("scope2_methodology", prev.Scope2Methodology, cur.Scope2Methodology)

	for i := 0; i < models.NumScope3Categories; i++ {
		appendIfChanged(
			fmt.Sprintf("scope3_category_%d_methodology", i+1),
			prev.Scope3Categories[i].Methodology,
			cur.Scope3Categories[i].Methodology,
		)
	}

	return changes
}
