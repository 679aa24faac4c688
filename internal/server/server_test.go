package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.writer == nil {
		t.Fatal("New() did not initialize output writer")
	}
	if s.debug {
		t.Error("debug should default to false")
	}
}

func TestNew_Options(t *testing.T) {
	s := New(WithDebug(true))
	if !s.debug {
		t.Error("WithDebug(true) did not enable debug")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestToolCallParams_ProgressToken(t *testing.T) {
	raw := `{"name":"sprite_highlight","arguments":{},"_meta":{"progressToken":"tok-7"}}`

	var params ToolCallParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if params.Meta == nil {
		t.Fatal("Meta should not be nil")
	}
	if params.Meta.ProgressToken != "tok-7" {
		t.Errorf("ProgressToken: got %v, want tok-7", params.Meta.ProgressToken)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "spritex" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != Version {
		t.Errorf("serverInfo.version: got %v, want %s", serverInfo["version"], Version)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "ping-1",
		Method:  "ping",
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := s.handleRequest(req)

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("tools: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	// Notifications don't get responses
	if resp := s.handleRequest(req); resp != nil {
		t.Error("notifications/initialized should return nil response")
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "nonexistent/method",
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

// decodeLines decodes every JSON message written by Serve.
func decodeLines(t *testing.T, out *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var msgs []map[string]interface{}
	dec := json.NewDecoder(out)
	for dec.More() {
		var m map[string]interface{}
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("failed to decode output: %v", err)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func TestServe(t *testing.T) {
	s := New()
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`not json`,
		``,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	msgs := decodeLines(t, &out)
	if len(msgs) != 2 {
		t.Fatalf("responses: got %d, want 2", len(msgs))
	}
	if msgs[0]["id"] != float64(1) || msgs[1]["id"] != float64(2) {
		t.Errorf("ids: got %v, %v", msgs[0]["id"], msgs[1]["id"])
	}
}

func TestServe_ProgressNotifications(t *testing.T) {
	s := newTestServer()
	imgPath := createSinglePixelScenario(t)

	call, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      9,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "sprite_highlight",
			"arguments": regionArgsMap(imgPath, 0, 0, 2, 2),
			"_meta":     map[string]interface{}{"progressToken": "tok"},
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	var out bytes.Buffer
	if err := s.Serve(bytes.NewReader(call), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	msgs := decodeLines(t, &out)
	if len(msgs) < 2 {
		t.Fatalf("messages: got %d, want progress plus response", len(msgs))
	}

	last := -1.0
	for _, m := range msgs[:len(msgs)-1] {
		if m["method"] != "notifications/progress" {
			t.Fatalf("unexpected message before response: %v", m)
		}
		params := m["params"].(map[string]interface{})
		if params["progressToken"] != "tok" {
			t.Errorf("progressToken: got %v, want tok", params["progressToken"])
		}
		p := params["progress"].(float64)
		if p <= last {
			t.Errorf("progress not increasing: %v after %v", p, last)
		}
		last = p
	}
	if last != 100 {
		t.Errorf("final progress: got %v, want 100", last)
	}

	resp := msgs[len(msgs)-1]
	if resp["id"] != float64(9) {
		t.Errorf("response id: got %v, want 9", resp["id"])
	}
	if resp["error"] != nil {
		t.Errorf("unexpected error: %v", resp["error"])
	}
}

func TestServe_NoProgressWithoutToken(t *testing.T) {
	s := newTestServer()
	imgPath := createSinglePixelScenario(t)

	call, _ := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "sprite_unique_colors",
			"arguments": regionArgsMap(imgPath, 1, 1, 1, 1),
		},
	})

	var out bytes.Buffer
	if err := s.Serve(bytes.NewReader(call), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	if msgs := decodeLines(t, &out); len(msgs) != 1 {
		t.Errorf("messages: got %d, want only the response", len(msgs))
	}
}

func TestProgressReporter_NilToken(t *testing.T) {
	s := New()
	if s.progressReporter(nil) != nil {
		t.Error("progressReporter(nil) should return nil")
	}
}
