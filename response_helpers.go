package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/store"
)

// Response helpers for common HTTP response patterns

// writeJSONResponse writes a JSON response with the given status code
func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes an error response with the given status code and message
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]any{
		"error":  message,
		"status": "error",
	})
}

// writeBadRequestResponse writes a 400 Bad Request response
func writeBadRequestResponse(w http.ResponseWriter, message string) {
	writeErrorResponse(w, http.StatusBadRequest, message)
}

// writeEngineError maps an engine error to the right status code: a store
// not-found is the caller's problem (404), anything else is ours (500).
func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	writeErrorResponse(w, http.StatusInternalServerError, err.Error())
}

// parseYearParam extracts an optional year query parameter. A missing
// parameter yields nil; a malformed one is an error.
func parseYearParam(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("year must be an integer")
	}
	return &year, nil
}
