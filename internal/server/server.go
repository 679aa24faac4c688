package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/ironsheep/spritex/internal/analysis"
	"github.com/ironsheep/spritex/internal/imaging"
)

// Version is reported to clients during initialize. The binary overrides it
// with its build version.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cache  *imaging.ImageCache
	writer *imaging.OutputWriter
	debug  bool

	mu  sync.Mutex
	enc *json.Encoder
}

// Option configures a Server.
type Option func(*Server)

// WithDebug enables per-call debug logging to the standard logger.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// WithOutputWriter replaces the writer used for result files.
func WithOutputWriter(w *imaging.OutputWriter) Option {
	return func(s *Server) { s.writer = w }
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a new MCP server instance
func New(opts ...Option) *Server {
	s := &Server{
		cache:  imaging.NewImageCache(),
		writer: imaging.NewOutputWriter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses and notifications to w until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.mu.Lock()
	s.enc = json.NewEncoder(w)
	s.mu.Unlock()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		if resp := s.handleRequest(&req); resp != nil {
			if err := s.send(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// send writes v to the client. Without an active Serve loop it is a no-op.
func (s *Server) send(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc == nil {
		return nil
	}
	return s.enc.Encode(v)
}

// progressReporter returns a ProgressFunc that emits notifications/progress
// for token, or nil when the client did not ask for progress.
func (s *Server) progressReporter(token interface{}) analysis.ProgressFunc {
	if token == nil {
		return nil
	}
	last := -1
	return func(percent int) {
		if percent == last {
			return
		}
		last = percent
		err := s.send(&MCPNotification{
			JSONRPC: "2.0",
			Method:  "notifications/progress",
			Params: map[string]interface{}{
				"progressToken": token,
				"progress":      percent,
				"total":         100,
			},
		})
		if err != nil {
			log.Printf("Failed to send progress: %v", err)
		}
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "spritex",
				"version": Version,
			},
		},
	}
}

// handleToolsList returns the tool catalogue
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
