package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
)

// SQLiteStore is a RecordStore over a SQLite dataset file. The file is
// written by the external ingestion tooling and read here; the store keeps
// an in-memory attribute index over companies so cohort listing does not
// scan the table per request.
type SQLiteStore struct {
	db   *sql.DB
	path string

	mu        sync.RWMutex
	companies map[string]*models.Company
	byID      []string
}

// NewSQLiteStore opens the dataset at dbPath and builds the company index.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	s := &SQLiteStore{db: db, path: dbPath}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.RefreshIndex(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build company index: %w", err)
	}

	return s, nil
}

// initSchema creates the dataset tables when the file is fresh. Ingestion
// tooling normally creates and populates them; this keeps an empty local
// database usable.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lei TEXT,
		jurisdiction TEXT NOT NULL,
		sics_sector TEXT NOT NULL,
		sics_sub_sector TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_companies_jurisdiction ON companies(jurisdiction);
	CREATE INDEX IF NOT EXISTS idx_companies_sector ON companies(sics_sector);

	CREATE TABLE IF NOT EXISTS emissions_reports (
		company_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		scope1 REAL,
		scope2_location_based REAL,
		scope2_market_based REAL,
		scope3_total REAL,
		org_boundary TEXT,
		assurance TEXT,
		scope1_methodology TEXT,
		scope2_methodology TEXT,
		PRIMARY KEY (company_id, year),
		FOREIGN KEY (company_id) REFERENCES companies(id)
	);

	CREATE TABLE IF NOT EXISTS scope3_categories (
		company_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		category INTEGER NOT NULL,
		value REAL,
		methodology TEXT,
		PRIMARY KEY (company_id, year, category),
		FOREIGN KEY (company_id, year) REFERENCES emissions_reports(company_id, year)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RefreshIndex rebuilds the in-memory company index from the dataset. Run
// at startup and whenever the dataset file has been replaced.
func (s *SQLiteStore) RefreshIndex() error {
	rows, err := s.db.Query(`SELECT id, name, COALESCE(lei, ''), jurisdiction, sics_sector, COALESCE(sics_sub_sector, '') FROM companies`)
	if err != nil {
		return fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	companies := make(map[string]*models.Company)
	var ids []string
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.LEI, &c.Jurisdiction, &c.Sector, &c.SubSector); err != nil {
			return fmt.Errorf("failed to scan company: %w", err)
		}
		companies[c.ID] = &c
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	sort.Strings(ids)

	s.mu.Lock()
	s.companies = companies
	s.byID = ids
	s.mu.Unlock()

	return nil
}

// CompanyCount returns the number of indexed companies.
func (s *SQLiteStore) CompanyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetCompany implements RecordStore.
func (s *SQLiteStore) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	s.mu.RLock()
	c, ok := s.companies[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// ListCompaniesByAttributes implements RecordStore.
func (s *SQLiteStore) ListCompaniesByAttributes(ctx context.Context, filters map[string]string) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Company{}
	for _, id := range s.byID {
		c := s.companies[id]
		if c.MatchesFilters(filters) {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetEmissions implements RecordStore.
func (s *SQLiteStore) GetEmissions(ctx context.Context, companyID string, year *int) ([]*models.EmissionsReport, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	query := `SELECT company_id, year, scope1, scope2_location_based, scope2_market_based,
		scope3_total, org_boundary, assurance, scope1_methodology, scope2_methodology
		FROM emissions_reports WHERE company_id = ?`
	args := []any{companyID}
	if year != nil {
		query += ` AND year = ?`
		args = append(args, *year)
	}
	query += ` ORDER BY year DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.EmissionsReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if year != nil && len(reports) == 0 {
		return nil, ErrNotFound
	}

	for _, r := range reports {
		if err := s.loadCategories(ctx, r); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func scanReport(rows *sql.Rows) (*models.EmissionsReport, error) {
	var r models.EmissionsReport
	var scope1, scope2LB, scope2MB, scope3 sql.NullFloat64
	var boundary, assurance, m1, m2 sql.NullString

	if err := rows.Scan(&r.CompanyID, &r.Year, &scope1, &scope2LB, &scope2MB, &scope3,
		&boundary, &assurance, &m1, &m2); err != nil {
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}

	r.Scope1 = nullableFloat(scope1)
	r.Scope2LocationBased = nullableFloat(scope2LB)
	r.Scope2MarketBased = nullableFloat(scope2MB)
	r.Scope3Total = nullableFloat(scope3)
	r.OrgBoundary = boundary.String
	r.Assurance = assurance.String
	r.Scope1Methodology = m1.String
	r.Scope2Methodology = m2.String
	return &r, nil
}

// loadCategories fills the fixed-size category array from the child table.
// Rows with a category number outside 1..15 are ignored.
func (s *SQLiteStore) loadCategories(ctx context.Context, r *models.EmissionsReport) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, value, methodology FROM scope3_categories WHERE company_id = ? AND year = ?`,
		r.CompanyID, r.Year)
	if err != nil {
		return fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category int
		var value sql.NullFloat64
		var methodology sql.NullString
		if err := rows.Scan(&category, &value, &methodology); err != nil {
			return fmt.Errorf("failed to scan category: %w", err)
		}
		if category < 1 || category > models.NumScope3Categories {
			continue
		}
		r.Scope3Categories[category-1] = models.Scope3Category{
			Value:       nullableFloat(value),
			Methodology: methodology.String,
		}
	}
	return rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
