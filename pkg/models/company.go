package models

// Company represents one disclosing organization and its static
// classification attributes. Records are owned by the record store and are
// immutable once loaded.
type Company struct {
	ID           string `json:"company_id"`
	Name         string `json:"name"`
	LEI          string `json:"lei,omitempty"`
	Jurisdiction string `json:"jurisdiction"`
	Sector       string `json:"sics_sector"`
	SubSector    string `json:"sics_sub_sector,omitempty"`
}

// Attribute names accepted by cohort filters.
const (
	AttrJurisdiction = "jurisdiction"
	AttrSector       = "sics_sector"
	AttrSubSector    = "sics_sub_sector"
)

// Attribute returns the value of a named classification attribute, or ""
// when the name is not a recognized attribute.
func (c *Company) Attribute(name string) string {
	switch name {
	case AttrJurisdiction:
		return c.Jurisdiction
	case AttrSector:
		return c.Sector
	case AttrSubSector:
		return c.SubSector
	}
	return ""
}

// MatchesFilters reports whether the company matches every attribute filter.
// An empty filter map matches all companies.
func (c *Company) MatchesFilters(filters map[string]string) bool {
	for name, want := range filters {
		if c.Attribute(name) != want {
			return false
		}
	}
	return true
}
