package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/reference"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"companies": s.store.CompanyCount(),
		"time":      time.Now().Format(time.RFC3339),
	})
}

// handleVersion reports the server version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"version": serverVersion,
	})
}

// handleListCompanies lists companies matching the attribute filters given
// as query parameters.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	filters := map[string]string{}
	for _, attr := range []string{models.AttrJurisdiction, models.AttrSector, models.AttrSubSector} {
		if v := r.URL.Query().Get(attr); v != "" {
			filters[attr] = v
		}
	}

	companies, err := s.store.ListCompaniesByAttributes(r.Context(), filters)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"count":     len(companies),
		"companies": companies,
	})
}

// handleGetCompany returns one company record.
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	company, err := s.store.GetCompany(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, company)
}

// handleGetEmissions returns a company's reports, all years or one.
func (s *Server) handleGetEmissions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	year, err := parseYearParam(r)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	reports, err := s.store.GetEmissions(r.Context(), id, year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"company_id": id,
		"reports":    reports,
	})
}

// BenchmarkRequest is the body of a single-mode benchmark request. An
// empty metric defaults to scope1.
type BenchmarkRequest struct {
	CompanyID string `json:"company_id"`
	Metric    string `json:"metric,omitempty"`
	Year      *int   `json:"year,omitempty"`
}

// handleBenchmark runs the engine's single mode.
func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req BenchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "invalid request body: "+err.Error())
		return
	}
	if req.CompanyID == "" {
		writeBadRequestResponse(w, "company_id is required")
		return
	}
	metric, err := models.ParseMetric(req.Metric)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	result, err := s.engine.Single(r.Context(), req.CompanyID, metric, req.Year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// CompareRequest is the body of a compare-mode request. Companies may be
// named explicitly or derived from attribute filters.
type CompareRequest struct {
	CompanyIDs []string          `json:"company_ids,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Metric     string            `json:"metric,omitempty"`
	Year       *int              `json:"year,omitempty"`
}

// handleCompare runs the engine's compare mode.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "invalid request body: "+err.Error())
		return
	}
	if len(req.CompanyIDs) == 0 && len(req.Filters) == 0 {
		writeBadRequestResponse(w, "either company_ids or filters must be provided")
		return
	}
	metric, err := models.ParseMetric(req.Metric)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	result, err := s.engine.Compare(r.Context(), req.CompanyIDs, req.Filters, metric, req.Year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// PeerStatsRequest is the body of a peer_stats request.
type PeerStatsRequest struct {
	Filters map[string]string `json:"filters"`
	Metric  string            `json:"metric,omitempty"`
	Year    *int              `json:"year,omitempty"`
}

// handlePeerStats computes cohort statistics with no focal company.
func (s *Server) handlePeerStats(w http.ResponseWriter, r *http.Request) {
	var req PeerStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "invalid request body: "+err.Error())
		return
	}
	if len(req.Filters) == 0 {
		writeBadRequestResponse(w, "filters are required")
		return
	}
	metric, err := models.ParseMetric(req.Metric)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	result, err := s.engine.PeerStats(r.Context(), req.Filters, metric, req.Year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// handleAssessQuality scores one company-year report.
func (s *Server) handleAssessQuality(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	year, err := parseYearParam(r)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	assessment, err := s.engine.AssessQuality(r.Context(), id, year)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, assessment)
}

// handleMethodologyChanges surfaces year-over-year methodology drift.
func (s *Server) handleMethodologyChanges(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	changes, err := s.engine.MethodologyChanges(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"company_id": id,
		"changes":    changes,
	})
}

// TrendRequest is the body of a trend request.
type TrendRequest struct {
	Metric    string            `json:"metric,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	StartYear *int              `json:"start_year,omitempty"`
	EndYear   *int              `json:"end_year,omitempty"`
}

// handleTrend computes cohort trend statistics.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	var req TrendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, "invalid request body: "+err.Error())
		return
	}
	metric, err := models.ParseMetric(req.Metric)
	if err != nil {
		writeBadRequestResponse(w, err.Error())
		return
	}

	result, err := s.engine.Trend(r.Context(), metric, req.Filters, req.StartYear, req.EndYear)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// handleListReferenceTopics lists the available reference topics.
func (s *Server) handleListReferenceTopics(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"topics": reference.List(),
	})
}

// handleGetReferenceTopic returns one reference explanation.
func (s *Server) handleGetReferenceTopic(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	text, err := reference.Get(topic)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"topic": topic,
		"text":  text,
	})
}
