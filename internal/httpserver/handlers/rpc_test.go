package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func callRPC(t *testing.T, body string) rpcResponse {
	t.Helper()
	handler := RPC(newTestDeps(t))

	req := httptest.NewRequest(http.MethodPost, "/api/rpc", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp rpcResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestRPCInitialize(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result is not an object: %T", resp.Result)
	}
	if result["protocolVersion"] != rpcProtocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	if string(resp.ID) != "1" {
		t.Errorf("id = %s, want 1", resp.ID)
	}
}

func TestRPCToolsList(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	tools, ok := result["tools"].([]any)
	if !ok || len(tools) != len(toolSpecs) {
		t.Fatalf("tools = %v, want %d entries", result["tools"], len(toolSpecs))
	}
}

func TestRPCUnknownMethod(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != rpcMethodNotFound {
		t.Errorf("code = %d, want %d", resp.Error.Code, rpcMethodNotFound)
	}
}

func TestRPCToolsCallGetWaterInfo(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_water_info","arguments":{"query":"대청댐"}}}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(map[string]any)
	content, ok := result["content"].([]any)
	if !ok || len(content) != 1 {
		t.Fatalf("content = %v, want one entry", result["content"])
	}
	text := content[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "대청댐") || !strings.Contains(text, "success") {
		t.Errorf("tool text %q missing expected fields", text)
	}
}

func TestRPCToolsCallSearch(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"search_water_station_by_name","arguments":{"location_name":"한강","limit":2}}}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestRPCToolsCallMissingArgument(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"get_water_info","arguments":{}}}`)

	if resp.Error == nil {
		t.Fatal("expected error for missing query argument")
	}
	if resp.Error.Code != rpcInvalidParams {
		t.Errorf("code = %d, want %d", resp.Error.Code, rpcInvalidParams)
	}
}

func TestRPCToolsCallUnknownTool(t *testing.T) {
	resp := callRPC(t, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"no_such_tool","arguments":{}}}`)

	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
	if resp.Error.Code != rpcInternalError {
		t.Errorf("code = %d, want %d", resp.Error.Code, rpcInternalError)
	}
}

func TestRPCParseError(t *testing.T) {
	resp := callRPC(t, `{not json`)

	if resp.Error == nil {
		t.Fatal("expected parse error")
	}
	if resp.Error.Code != rpcParseError {
		t.Errorf("code = %d, want %d", resp.Error.Code, rpcParseError)
	}
}
