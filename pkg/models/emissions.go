package models

import "fmt"

// Metric identifies one of the reported scalar emissions metrics.
type Metric string

const (
	MetricScope1              Metric = "scope1"
	MetricScope2LocationBased Metric = "scope2_location_based"
	MetricScope2MarketBased   Metric = "scope2_market_based"
	MetricScope3              Metric = "scope3"
)

// DefaultMetric is used when a benchmark request names no metric.
const DefaultMetric = MetricScope1

// ParseMetric validates a metric name from a request. An empty name resolves
// to DefaultMetric.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case "":
		return DefaultMetric, nil
	case MetricScope1, MetricScope2LocationBased, MetricScope2MarketBased, MetricScope3:
		return Metric(name), nil
	}
	return "", fmt.Errorf("unknown metric %q", name)
}

// ExclusivePartner returns the other member of a mutually exclusive
// reporting-variant pair, or "" when the metric has no partner. The two
// Scope 2 accounting methods describe the same conceptual quantity but are
// not convertible and must never be mixed in one comparison.
func (m Metric) ExclusivePartner() Metric {
	switch m {
	case MetricScope2LocationBased:
		return MetricScope2MarketBased
	case MetricScope2MarketBased:
		return MetricScope2LocationBased
	}
	return ""
}

// NumScope3Categories is the fixed size of the Scope 3 category breakdown
// defined by the GHG Protocol.
const NumScope3Categories = 15

// Scope3Category holds one category's reported value and the calculation
// method the company declared for it. A nil Value means the category was not
// reported.
type Scope3Category struct {
	Value       *float64 `json:"value,omitempty"`
	Methodology string   `json:"methodology,omitempty"`
}

// EmissionsReport is one company's reported values for one reporting year.
// Metric values are in tCO2e; nil means not reported. A given
// (company, year) pair is unique in the store.
type EmissionsReport struct {
	CompanyID string `json:"company_id"`
	Year      int    `json:"year"`

	Scope1              *float64 `json:"scope1,omitempty"`
	Scope2LocationBased *float64 `json:"scope2_location_based,omitempty"`
	Scope2MarketBased   *float64 `json:"scope2_market_based,omitempty"`
	Scope3Total         *float64 `json:"scope3,omitempty"`

	// Scope3Categories is indexed by category number minus one
	// (index 0 = category 1, "Purchased goods and services").
	Scope3Categories [NumScope3Categories]Scope3Category `json:"scope3_categories"`

	// OrgBoundary is the organizational accounting boundary the totals
	// were consolidated under.
	OrgBoundary string `json:"org_boundary,omitempty"`

	// Assurance is the third-party verification descriptor, empty when
	// the report carries no independent assurance.
	Assurance string `json:"assurance,omitempty"`

	Scope1Methodology string `json:"scope1_methodology,omitempty"`
	Scope2Methodology string `json:"scope2_methodology,omitempty"`
}

// Value returns the reported value for a metric, or nil when the metric was
// not reported.
func (r *EmissionsReport) Value(m Metric) *float64 {
	switch m {
	case MetricScope1:
		return r.Scope1
	case MetricScope2LocationBased:
		return r.Scope2LocationBased
	case MetricScope2MarketBased:
		return r.Scope2MarketBased
	case MetricScope3:
		return r.Scope3Total
	}
	return nil
}

// PopulatedCategoryCount returns how many of the 15 Scope 3 categories carry
// a reported value.
func (r *EmissionsReport) PopulatedCategoryCount() int {
	n := 0
	for _, c := range r.Scope3Categories {
		if c.Value != nil {
			n++
		}
	}
	return n
}

// CategoryTotal sums the reported Scope 3 category values.
func (r *EmissionsReport) CategoryTotal() float64 {
	var total float64
	for _, c := range r.Scope3Categories {
		if c.Value != nil {
			total += *c.Value
		}
	}
	return total
}

// Scope3CategoryNames maps category number (1-based) to the GHG Protocol
// category name. Used for warnings and reference text.
var Scope3CategoryNames = [NumScope3Categories]string{
	"Purchased goods and services",
	"Capital goods",
	"Fuel- and energy-related activities",
	"Upstream transportation and distribution",
	"Waste generated in operations",
	"Business travel",
	"Employee commuting",
	"Upstream leased assets",
	"Downstream transportation and distribution",
	"Processing of sold products",
	"Use of sold products",
	"End-of-life treatment of sold products",
	"Downstream leased assets",
	"Franchises",
	"Investments",
}
