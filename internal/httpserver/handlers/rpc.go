package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hydrokr/stationd/internal/httpserver/deps"
	"github.com/hydrokr/stationd/internal/logger"
	"github.com/hydrokr/stationd/internal/search"
)

// JSON-RPC 2.0 error codes.
const (
	rpcParseError     = -32700
	rpcMethodNotFound = -32601
	rpcInvalidParams  = -32602
	rpcInternalError  = -32603
)

const (
	rpcProtocolVersion = "2024-11-05"
	rpcServerName      = "K-Water 수문정보 서버"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  rpcParams       `json:"params"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []toolContent `json:"content"`
}

type toolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// toolSpecs describe the callable tools; schemas follow JSON Schema.
var toolSpecs = []toolSpec{
	{
		Name:        "search_water_station_by_name",
		Description: "지역명이나 강 이름으로 관측소 검색",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location_name": map[string]any{
					"type":        "string",
					"description": "검색할 지역명 또는 강 이름 (예: '한강', '서울')",
				},
				"data_type": map[string]any{
					"type":    "string",
					"enum":    []string{"waterlevel", "rainfall", "dam"},
					"default": "waterlevel",
				},
				"limit": map[string]any{
					"type":    "number",
					"default": 5,
					"maximum": 10,
				},
			},
			"required": []string{"location_name"},
		},
	},
	{
		Name:        "get_water_info_by_location",
		Description: "자연어 수문 정보 조회",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "자연어 쿼리 (예: '한강 수위', '서울 강우량')",
				},
				"limit": map[string]any{
					"type":    "number",
					"default": 5,
					"maximum": 10,
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "get_water_info",
		Description: "관측소 검색 및 실시간 수위 데이터 통합 조회",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "검색어 (관측소명, 하천명, 위치)",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "recommend_nearby_stations",
		Description: "주변 관측소 추천",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "기준 위치 (지역명)",
				},
				"radius": map[string]any{
					"type":    "number",
					"default": 20,
				},
				"priority": map[string]any{
					"type":    "string",
					"enum":    []string{"distance", "relevance"},
					"default": "distance",
				},
			},
			"required": []string{"location"},
		},
	},
}

// RPC is the JSON-RPC 2.0 surface exposing the service as callable tools
// (initialize, tools/list, tools/call).
func RPC(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusOK, rpcResponse{
				JSONRPC: "2.0",
				Error:   &rpcError{Code: rpcParseError, Message: "parse error"},
			})
			return
		}

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

		switch req.Method {
		case "initialize":
			resp.Result = map[string]any{
				"protocolVersion": rpcProtocolVersion,
				"capabilities":    map[string]any{"tools": map[string]any{}},
				"serverInfo": map[string]any{
					"name":    rpcServerName,
					"version": d.Version,
				},
			}
		case "tools/list":
			resp.Result = map[string]any{"tools": toolSpecs}
		case "tools/call":
			result, rpcErr := callTool(r, d, req.Params)
			if rpcErr != nil {
				resp.Error = rpcErr
			} else {
				resp.Result = result
			}
		default:
			resp.Error = &rpcError{
				Code:    rpcMethodNotFound,
				Message: fmt.Sprintf("Unknown method: %s", req.Method),
			}
		}

		d.Logger.Debug("rpc request",
			logger.String("method", req.Method),
			logger.String("tool", req.Params.Name),
			logger.Bool("error", resp.Error != nil))

		writeJSON(w, http.StatusOK, resp)
	}
}

func callTool(r *http.Request, d deps.Deps, params rpcParams) (toolResult, *rpcError) {
	var payload any

	switch params.Name {
	case "search_water_station_by_name":
		location, ok := stringArg(params.Arguments, "location_name")
		if !ok {
			return toolResult{}, &rpcError{Code: rpcInvalidParams, Message: "location_name parameter required"}
		}
		typ, ok := parseTypeParam(stringArgOr(params.Arguments, "data_type", ""))
		if !ok {
			return toolResult{}, &rpcError{Code: rpcInvalidParams, Message: "invalid data_type"}
		}
		limit := intArgOr(params.Arguments, "limit", 5)
		stations := d.Pipeline.SearchStations(location, typ, limit)
		payload = searchResponse{
			Query:    location,
			Type:     string(typ),
			Count:    len(stations),
			Stations: stations,
		}

	case "get_water_info", "get_water_info_by_location":
		query, ok := stringArg(params.Arguments, "query")
		if !ok {
			return toolResult{}, &rpcError{Code: rpcInvalidParams, Message: "query parameter required"}
		}
		payload = d.Pipeline.WaterInfo(r.Context(), query, search.TypeAll)

	case "recommend_nearby_stations":
		location, ok := stringArg(params.Arguments, "location")
		if !ok {
			return toolResult{}, &rpcError{Code: rpcInvalidParams, Message: "location parameter required"}
		}
		radius := intArgOr(params.Arguments, "radius", defaultRadiusKM)
		priority := stringArgOr(params.Arguments, "priority", defaultPriority)
		payload = d.Pipeline.Nearby(location, radius, priority)

	default:
		return toolResult{}, &rpcError{
			Code:    rpcInternalError,
			Message: fmt.Sprintf("Unknown tool: %s", params.Name),
		}
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return toolResult{}, &rpcError{Code: rpcInternalError, Message: "failed to encode result"}
	}
	return toolResult{Content: []toolContent{{Type: "text", Text: string(text)}}}, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func stringArgOr(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func intArgOr(args map[string]any, key string, def int) int {
	// JSON numbers decode as float64 in an untyped map.
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return def
}
