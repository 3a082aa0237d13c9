// Package reference serves the static educational text the tool surface
// exposes alongside benchmark results. Topics are fixed at build time.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

var topics = map[string]string{
	"scopes": "GHG emissions are reported in three scopes. Scope 1 covers direct emissions " +
		"from owned or controlled sources. Scope 2 covers indirect emissions from purchased " +
		"electricity, steam, heat, and cooling. Scope 3 covers all other indirect emissions " +
		"across the value chain, broken into 15 categories.",

	"scope2_dual_reporting": "Scope 2 has two accounting methods that must never be mixed in " +
		"one comparison. The location-based method uses average grid emission factors for the " +
		"grids where consumption occurs. The market-based method reflects contractual " +
		"instruments such as renewable energy certificates and power purchase agreements. The " +
		"two describe the same consumption under different conventions and are not convertible; " +
		"a company reporting 0 tCO2e market-based may still have substantial location-based " +
		"emissions.",

	"boundaries": "The organizational boundary determines which operations a company " +
		"consolidates into its totals. The GHG Protocol defines three approaches: operational " +
		"control, financial control, and equity share. Companies using different boundaries " +
		"can report materially different totals for the same underlying business, so boundary " +
		"differences reduce comparability.",

	"assurance": "Third-party assurance raises confidence in reported figures. Reasonable " +
		"assurance is the higher rigor level, comparable to a financial audit. Limited " +
		"assurance involves narrower procedures. Unassured figures rely entirely on the " +
		"company's internal controls.",

	"scope3_categories": scope3CategoryText(),

	"methodology_tiers": "Scope 3 calculation methods fall into provenance tiers. Primary " +
		"methods (supplier-specific, direct measurement) use data from the actual value chain. " +
		"Modeled methods (average-data, spend-based) estimate emissions from industry averages " +
		"or financial proxies. Modeled values are systematically less certain, which matters " +
		"most for large categories.",

	"percentile_rank": "Percentile ranks use the mid-rank convention: a company's rank is the " +
		"share of the cohort strictly below its value plus half the share exactly equal to it. " +
		"A rank of 75 on an emissions metric means the company reports more than roughly three " +
		"quarters of its peers.",
}

func scope3CategoryText() string {
	var b strings.Builder
	b.WriteString("The 15 Scope 3 categories defined by the GHG Protocol:\n")
	for i, name := range models.Scope3CategoryNames {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, name)
	}
	return b.String()
}

// Get returns the explanation for a topic.
func Get(topic string) (string, error) {
	text, ok := topics[topic]
	if !ok {
		return "", fmt.Errorf("unknown reference topic %q (available: %s)", topic, strings.Join(List(), ", "))
	}
	return text, nil
}

// List returns the available topic names, sorted.
func List() []string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
