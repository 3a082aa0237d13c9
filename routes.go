package main

// setupRoutes sets up the HTTP routes with API versioning.
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.errorRecoveryMiddleware)

	// Health check (no version)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// MCP endpoints (no version prefix)
	s.router.PathPrefix("/mcp").Handler(s.mcpServer)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.Use(s.versionMiddleware("v1"))

	// Company and emissions lookup
	v1.HandleFunc("/companies", s.handleListCompanies).Methods("GET")
	v1.HandleFunc("/companies/{id}", s.handleGetCompany).Methods("GET")
	v1.HandleFunc("/companies/{id}/emissions", s.handleGetEmissions).Methods("GET")

	// Benchmarking
	v1.HandleFunc("/benchmark", s.handleBenchmark).Methods("POST")
	v1.HandleFunc("/benchmark/compare", s.handleCompare).Methods("POST")
	v1.HandleFunc("/benchmark/peer-stats", s.handlePeerStats).Methods("POST")

	// Data quality
	v1.HandleFunc("/companies/{id}/quality", s.handleAssessQuality).Methods("GET")
	v1.HandleFunc("/companies/{id}/methodology-changes", s.handleMethodologyChanges).Methods("GET")

	// Trend analysis
	v1.HandleFunc("/trend", s.handleTrend).Methods("POST")

	// Reference text
	v1.HandleFunc("/reference", s.handleListReferenceTopics).Methods("GET")
	v1.HandleFunc("/reference/{topic}", s.handleGetReferenceTopic).Methods("GET")

	// System endpoints
	v1.HandleFunc("/version", s.handleVersion).Methods("GET")
}
