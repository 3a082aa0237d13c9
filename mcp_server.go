package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dp-veritas/nzdpu-mcp-server/pkg/benchmark"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/models"
	"github.com/dp-veritas/nzdpu-mcp-server/pkg/reference"
)

// MCPServer exposes the benchmark engine as MCP-compatible tools: a
// discovery endpoint describing each tool's JSON input schema, and an
// execution endpoint dispatching to the engine.
type MCPServer struct {
	engine *benchmark.Engine
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(engine *benchmark.Engine) *MCPServer {
	return &MCPServer{engine: engine}
}

// ServeHTTP handles HTTP requests for the MCP server
func (ms *MCPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/mcp/tools" && r.Method == "GET" {
		ms.handleToolDiscovery(w, r)
		return
	}

	if r.URL.Path == "/mcp/tools/execute" && r.Method == "POST" {
		ms.handleToolExecution(w, r)
		return
	}

	http.Error(w, "Not found", http.StatusNotFound)
}

// handleToolDiscovery returns available tools in MCP-compatible format
func (ms *MCPServer) handleToolDiscovery(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"tools": toolDefinitions(),
	})
}

// handleToolExecution executes a specific tool
func (ms *MCPServer) handleToolExecution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToolName  string         `json:"tool_name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequestResponse(w, fmt.Sprintf("invalid request: %v", err))
		return
	}

	result, err := ms.execute(r, req.ToolName, req.Arguments)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  result,
	})
}

func (ms *MCPServer) execute(r *http.Request, toolName string, args map[string]any) (any, error) {
	ctx := r.Context()

	metric, err := models.ParseMetric(getStringArg(args, "metric"))
	if err != nil {
		return nil, err
	}

	switch toolName {
	case "benchmark_emissions":
		companyID := getStringArg(args, "company_id")
		if companyID == "" {
			return nil, fmt.Errorf("company_id is required")
		}
		return ms.engine.Single(ctx, companyID, metric, getIntArg(args, "year"))

	case "compare_companies":
		return ms.engine.Compare(ctx,
			getStringSliceArg(args, "company_ids"),
			getFilterArg(args, "filters"),
			metric,
			getIntArg(args, "year"))

	case "peer_statistics":
		return ms.engine.PeerStats(ctx, getFilterArg(args, "filters"), metric, getIntArg(args, "year"))

	case "assess_data_quality":
		companyID := getStringArg(args, "company_id")
		if companyID == "" {
			return nil, fmt.Errorf("company_id is required")
		}
		return ms.engine.AssessQuality(ctx, companyID, getIntArg(args, "year"))

	case "methodology_changes":
		companyID := getStringArg(args, "company_id")
		if companyID == "" {
			return nil, fmt.Errorf("company_id is required")
		}
		return ms.engine.MethodologyChanges(ctx, companyID)

	case "emissions_trend":
		return ms.engine.Trend(ctx,
			metric,
			getFilterArg(args, "filters"),
			getIntArg(args, "start_year"),
			getIntArg(args, "end_year"))

	case "explain_methodology":
		topic := getStringArg(args, "topic")
		if topic == "" {
			return map[string]any{"topics": reference.List()}, nil
		}
		text, err := reference.Get(topic)
		if err != nil {
			return nil, err
		}
		return map[string]any{"topic": topic, "text": text}, nil
	}

	return nil, fmt.Errorf("unknown tool %q", toolName)
}

// toolDefinitions describes the tool surface for discovery.
func toolDefinitions() []map[string]any {
	metricProp := map[string]any{
		"type":        "string",
		"description": "Metric to benchmark: scope1 (default), scope2_location_based, scope2_market_based, or scope3",
	}
	yearProp := map[string]any{
		"type":        "integer",
		"description": "Reporting year; the latest reported year when omitted",
	}
	filtersProp := map[string]any{
		"type":                 "object",
		"description":          "Cohort attribute filters: jurisdiction, sics_sector, sics_sub_sector",
		"additionalProperties": map[string]any{"type": "string"},
	}
	companyProp := map[string]any{
		"type":        "string",
		"description": "NZDPU company identifier",
	}

	return []map[string]any{
		{
			"name":        "benchmark_emissions",
			"description": "Benchmark one company's emissions metric against peers in the same jurisdiction, sector, and their intersection, with percentile rank and comparability warnings",
			"inputSchema": inputSchema(map[string]any{
				"company_id": companyProp,
				"metric":     metricProp,
				"year":       yearProp,
			}, "company_id"),
		},
		{
			"name":        "compare_companies",
			"description": "Compare emissions across companies with per-company data-quality assessments and comparability warnings",
			"inputSchema": inputSchema(map[string]any{
				"company_ids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Explicit companies to compare; may be omitted in favor of filters",
				},
				"filters": filtersProp,
				"metric":  metricProp,
				"year":    yearProp,
			}),
		},
		{
			"name":        "peer_statistics",
			"description": "Compute emissions statistics (count, mean, median, quartiles) for a filtered peer cohort",
			"inputSchema": inputSchema(map[string]any{
				"filters": filtersProp,
				"metric":  metricProp,
				"year":    yearProp,
			}, "filters"),
		},
		{
			"name":        "assess_data_quality",
			"description": "Score the trustworthiness of one company's reported emissions across boundary, verification, and methodology pillars",
			"inputSchema": inputSchema(map[string]any{
				"company_id": companyProp,
				"year":       yearProp,
			}, "company_id"),
		},
		{
			"name":        "methodology_changes",
			"description": "Surface year-over-year boundary and methodology changes in a company's reporting history",
			"inputSchema": inputSchema(map[string]any{
				"company_id": companyProp,
			}, "company_id"),
		},
		{
			"name":        "emissions_trend",
			"description": "Compute year-over-year and compound growth trends for a peer cohort's emissions",
			"inputSchema": inputSchema(map[string]any{
				"filters":    filtersProp,
				"metric":     metricProp,
				"start_year": map[string]any{"type": "integer"},
				"end_year":   map[string]any{"type": "integer"},
			}),
		},
		{
			"name":        "explain_methodology",
			"description": "Explain emissions reporting concepts: scopes, scope 2 dual reporting, boundaries, assurance, methodology tiers",
			"inputSchema": inputSchema(map[string]any{
				"topic": map[string]any{
					"type":        "string",
					"description": "Topic name; omit to list available topics",
				},
			}),
		},
	}
}

func inputSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Argument helpers

func getStringArg(args map[string]any, key string) string {
	if val, ok := args[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getIntArg(args map[string]any, key string) *int {
	if val, ok := args[key]; ok {
		// JSON numbers decode as float64.
		if f, ok := val.(float64); ok {
			n := int(f)
			return &n
		}
	}
	return nil
}

func getStringSliceArg(args map[string]any, key string) []string {
	var out []string
	if val, ok := args[key]; ok {
		if items, ok := val.([]any); ok {
			for _, item := range items {
				if str, ok := item.(string); ok {
					out = append(out, str)
				}
			}
		}
	}
	return out
}

func getFilterArg(args map[string]any, key string) map[string]string {
	out := map[string]string{}
	if val, ok := args[key]; ok {
		if m, ok := val.(map[string]any); ok {
			for k, v := range m {
				if str, ok := v.(string); ok {
					out[k] = str
				}
			}
		}
	}
	return out
}
