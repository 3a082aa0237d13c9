package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// MemoryStore is a map-backed RecordStore for tests and local fixtures.
type MemoryStore struct {
	mu        sync.RWMutex
	companies map[string]*models.Company
	emissions map[string][]*models.EmissionsReport
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		companies: make(map[string]*models.Company),
		emissions: make(map[string][]*models.EmissionsReport),
	}
}

// AddCompany inserts or replaces a company record.
func (m *MemoryStore) AddCompany(c *models.Company) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = c
}

// AddReport inserts a report for its company, replacing any existing report
// for the same year.
func (m *MemoryStore) AddReport(r *models.EmissionsReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reports := m.emissions[r.CompanyID]
	for i, existing := range reports {
		if existing.Year == r.Year {
			reports[i] = r
			return
		}
	}
	reports = append(reports, r)
	sort.Slice(reports, func(i, j int) bool { return reports[i].Year > reports[j].Year })
	m.emissions[r.CompanyID] = reports
}

// GetCompany implements RecordStore.
func (m *MemoryStore) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// GetEmissions implements RecordStore.
func (m *MemoryStore) GetEmissions(ctx context.Context, companyID string, year *int) ([]*models.EmissionsReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.companies[companyID]; !ok {
		return nil, ErrNotFound
	}

	reports := m.emissions[companyID]
	if year == nil {
		out := make([]*models.EmissionsReport, len(reports))
		copy(out, reports)
		return out, nil
	}

	for _, r := range reports {
		if r.Year == *year {
			return []*models.EmissionsReport{r}, nil
		}
	}
	return nil, ErrNotFound
}

// ListCompaniesByAttributes implements RecordStore.
func (m *MemoryStore) ListCompaniesByAttributes(ctx context.Context, filters map[string]string) ([]*models.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*models.Company{}
	for _, c := range m.companies {
		if c.MatchesFilters(filters) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
