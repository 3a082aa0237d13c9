package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/config"
)

// newTestServer creates a server over a seeded temporary dataset. The cron
// schedule is disabled; tests refresh the index directly.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.db")

	cfg := &config.Config{
		Environment:   "test",
		Port:          "0",
		LogLevel:      "error",
		LogFormat:     "text",
		DatabasePath:  path,
		MinCohortSize: 3,
	}
	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	// The sqlite driver is registered by the store package.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open seed connection: %v", err)
	}
	stmts := []string{
		`INSERT INTO companies (id, name, jurisdiction, sics_sector) VALUES
			('acme', 'Acme Corp', 'US', 'Energy'),
			('bolt', 'Bolt Inc', 'US', 'Energy'),
			('crux', 'Crux Ltd', 'US', 'Energy'),
			('dyno', 'Dyno AG', 'DE', 'Energy')`,
		`INSERT INTO emissions_reports (company_id, year, scope1, org_boundary, assurance) VALUES
			('acme', 2023, 100, 'Operational control', 'Reasonable assurance'),
			('acme', 2022, 120, 'Operational control', ''),
			('bolt', 2023, 200, 'Operational control', ''),
			('crux', 2023, 300, 'Operational control', ''),
			('dyno', 2023, 150, 'Operational control', '')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}
	db.Close()

	if err := s.store.RefreshIndex(); err != nil {
		t.Fatalf("RefreshIndex failed: %v", err)
	}
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", body["status"])
	}
	if body["companies"] != float64(4) {
		t.Errorf("Expected 4 companies, got %v", body["companies"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-API-Version"); got != "v1" {
		t.Errorf("Expected X-API-Version v1, got %q", got)
	}
	body := decodeBody(t, rec)
	if body["version"] != serverVersion {
		t.Errorf("Expected version %q, got %v", serverVersion, body["version"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/health", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a request ID header")
	}
}

func TestListCompaniesWithFilters(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/companies?jurisdiction=US", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(3) {
		t.Errorf("Expected 3 US companies, got %v", body["count"])
	}
}

func TestGetCompanyNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/companies/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetEmissions(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/companies/acme/emissions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	reports, ok := body["reports"].([]any)
	if !ok || len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %v", body["reports"])
	}

	rec = doRequest(t, s, "GET", "/api/v1/companies/acme/emissions?year=1999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an absent year, got %d", rec.Code)
	}

	rec = doRequest(t, s, "GET", "/api/v1/companies/acme/emissions?year=banana", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed year, got %d", rec.Code)
	}
}

func TestBenchmarkEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "POST", "/api/v1/benchmark", map[string]any{
		"company_id": "acme",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	// Omitting the metric defaults to scope1.
	if body["metric"] != "scope1" {
		t.Errorf("Expected default metric scope1, got %v", body["metric"])
	}
	cohorts, ok := body["cohorts"].([]any)
	if !ok || len(cohorts) != 3 {
		t.Fatalf("Expected 3 cohorts, got %v", body["cohorts"])
	}
}

func TestBenchmarkValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, "POST", "/api/v1/benchmark", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a company_id, got %d", rec.Code)
	}

	rec = doRequest(t, s, "POST", "/api/v1/benchmark", map[string]any{
		"company_id": "acme",
		"metric":     "scope4",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown metric, got %d", rec.Code)
	}

	rec = doRequest(t, s, "POST", "/api/v1/benchmark", map[string]any{
		"company_id": "ghost",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown company, got %d", rec.Code)
	}
}

func TestCompareEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "POST", "/api/v1/benchmark/compare", map[string]any{
		"company_ids": []string{"acme", "bolt"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	entries, ok := body["entries"].([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %v", body["entries"])
	}
	if body["is_comparable"] != true {
		t.Errorf("Expected a comparable pair, got %v", body["is_comparable"])
	}

	rec = doRequest(t, s, "POST", "/api/v1/benchmark/compare", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 with neither ids nor filters, got %d", rec.Code)
	}
}

func TestPeerStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "POST", "/api/v1/benchmark/peer-stats", map[string]any{
		"filters": map[string]string{"sics_sector": "Energy"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	stats, ok := body["stats"].(map[string]any)
	if !ok || stats["count"] != float64(4) {
		t.Errorf("Expected 4 Energy reporters, got %v", body["stats"])
	}
}

func TestAssessQualityEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/companies/acme/quality", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["boundary_score"] != "high" {
		t.Errorf("Expected a high boundary score, got %v", body["boundary_score"])
	}

	rec = doRequest(t, s, "GET", "/api/v1/companies/acme/quality?year=1999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an absent year, got %d", rec.Code)
	}
}

func TestMethodologyChangesEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "GET", "/api/v1/companies/acme/methodology-changes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	// Assurance was dropped between 2022 and 2023.
	changes, ok := body["changes"].([]any)
	if !ok || len(changes) != 1 {
		t.Errorf("Expected one change record, got %v", body["changes"])
	}
}

func TestTrendEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, "POST", "/api/v1/trend", map[string]any{
		"filters": map[string]string{"jurisdiction": "US"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["direction"] == "" {
		t.Errorf("Expected a trend direction, got %v", body)
	}
}

func TestReferenceEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, "GET", "/api/v1/reference", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if topics, ok := body["topics"].([]any); !ok || len(topics) == 0 {
		t.Errorf("Expected a topic list, got %v", body)
	}

	rec = doRequest(t, s, "GET", "/api/v1/reference/boundaries", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, s, "GET", "/api/v1/reference/scope4", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown topic, got %d", rec.Code)
	}
}
