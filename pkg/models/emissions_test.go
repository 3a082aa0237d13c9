package models

import "testing"

func fv(v float64) *float64 { return &v }

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	if err != nil || m != DefaultMetric {
		t.Errorf("Expected empty name to resolve to %q, got %q (%v)", DefaultMetric, m, err)
	}

	for _, name := range []string{"scope1", "scope2_location_based", "scope2_market_based", "scope3"} {
		m, err := ParseMetric(name)
		if err != nil || string(m) != name {
			t.Errorf("Expected %q to parse, got %q (%v)", name, m, err)
		}
	}

	if _, err := ParseMetric("scope4"); err == nil {
		t.Error("Expected an error for an unknown metric")
	}
}

func TestExclusivePartner(t *testing.T) {
	if MetricScope2LocationBased.ExclusivePartner() != MetricScope2MarketBased {
		t.Error("Expected location-based to pair with market-based")
	}
	if MetricScope2MarketBased.ExclusivePartner() != MetricScope2LocationBased {
		t.Error("Expected market-based to pair with location-based")
	}
	if MetricScope1.ExclusivePartner() != "" || MetricScope3.ExclusivePartner() != "" {
		t.Error("Expected scope 1 and scope 3 to have no partner")
	}
}

func TestReportValue(t *testing.T) {
	r := &EmissionsReport{Scope1: fv(100), Scope2MarketBased: fv(50)}
	if v := r.Value(MetricScope1); v == nil || *v != 100 {
		t.Errorf("Expected scope1 100, got %v", v)
	}
	if v := r.Value(MetricScope2LocationBased); v != nil {
		t.Errorf("Expected nil for an unreported metric, got %v", *v)
	}
	if v := r.Value(MetricScope2MarketBased); v == nil || *v != 50 {
		t.Errorf("Expected market-based 50, got %v", v)
	}
}

func TestCategoryAccounting(t *testing.T) {
	r := &EmissionsReport{}
	if r.PopulatedCategoryCount() != 0 || r.CategoryTotal() != 0 {
		t.Error("Expected zero categories on an empty report")
	}

	r.Scope3Categories[0].Value = fv(100)
	r.Scope3Categories[14].Value = fv(50)
	if r.PopulatedCategoryCount() != 2 {
		t.Errorf("Expected 2 populated categories, got %d", r.PopulatedCategoryCount())
	}
	if r.CategoryTotal() != 150 {
		t.Errorf("Expected category total 150, got %f", r.CategoryTotal())
	}
}

func TestCompanyMatchesFilters(t *testing.T) {
	c := &Company{ID: "acme", Jurisdiction: "US", Sector: "Energy", SubSector: "Oil & Gas"}

	if !c.MatchesFilters(nil) {
		t.Error("Expected nil filters to match")
	}
	if !c.MatchesFilters(map[string]string{AttrJurisdiction: "US", AttrSector: "Energy"}) {
		t.Error("Expected matching filters to match")
	}
	if c.MatchesFilters(map[string]string{AttrJurisdiction: "DE"}) {
		t.Error("Expected mismatched jurisdiction to fail")
	}
	if c.MatchesFilters(map[string]string{"unknown_attr": "x"}) {
		t.Error("Expected an unrecognized attribute to never match")
	}
}

func TestScorePoints(t *testing.T) {
	cases := map[Score]int{ScoreHigh: 3, ScoreMedium: 2, ScoreLow: 1}
	for score, want := range cases {
		if score.Points() != want {
			t.Errorf("Expected %q to be %d points, got %d", score, want, score.Points())
		}
	}
}
