package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/govql/cache"
	"github.com/jonwraymond/govql/gov"
	"github.com/jonwraymond/govql/observe"
)

// CacheManager exposes the query client's cache management surface
// without coupling to the concrete client type.
type CacheManager interface {
	CacheStats(ctx context.Context) cache.Stats
	ClearCache(ctx context.Context) error
	IsCachingEnabled() bool
}

// Server is an MCP server over newline-delimited JSON-RPC 2.0.
type Server struct {
	gov     *gov.Service
	cache   CacheManager
	logger  observe.Logger
	metrics observe.Metrics
	name    string
	version string
}

// Config configures a Server. Logger and Metrics default to no-ops.
type Config struct {
	Name    string
	Version string
	Logger  observe.Logger
	Metrics observe.Metrics
}

// New creates a Server serving the given governance service.
func New(svc *gov.Service, cacheMgr CacheManager, cfg Config) *Server {
	if cfg.Name == "" {
		cfg.Name = "govql"
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NewNopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NewNopMetrics()
	}
	return &Server{
		gov:     svc,
		cache:   cacheMgr,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		name:    cfg.Name,
		version: cfg.Version,
	}
}

// Run reads JSON-RPC requests from r line-by-line and writes responses
// to w. It blocks until r is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(ctx, w, Response{
				JSONRPC: "2.0",
				Error:   &RPCError{Code: CodeParseError, Message: "parse error"},
			})
			continue
		}

		resp := s.Dispatch(ctx, &req)
		if resp == nil {
			// notification, no response
			continue
		}
		s.writeResponse(ctx, w, *resp)
	}
	return scanner.Err()
}

// Dispatch routes a single request to its handler. It returns nil for
// notifications. The HTTP serving mode calls this directly.
func (s *Server) Dispatch(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)},
		}
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: InitializeResult{
			ProtocolVersion: "2024-11-05",
			ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
			Capabilities: map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{},
			},
		},
	}
}

func (s *Server) handleToolsList(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  ToolsListResult{Tools: allTools},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInvalidParams, Message: "invalid params"},
		}
	}

	handler, ok := toolHandlers[params.Name]
	if !ok {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: ToolCallResult{
				Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf("unknown tool: %s", params.Name)}},
				IsError: true,
			},
		}
	}

	callID := uuid.NewString()
	logger := s.logger.With(
		observe.F("call_id", callID),
		observe.F("tool", params.Name),
	)
	logger.Debug(ctx, "tool call started")

	start := time.Now()
	result := handler(ctx, s, params.Arguments)
	elapsed := time.Since(start)

	var callErr error
	if result.IsError {
		callErr = fmt.Errorf("tool %s failed", params.Name)
		logger.Warn(ctx, "tool call failed",
			observe.F("duration_ms", elapsed.Milliseconds()))
	} else {
		logger.Debug(ctx, "tool call completed",
			observe.F("duration_ms", elapsed.Milliseconds()))
	}
	s.metrics.RecordToolCall(ctx, params.Name, elapsed, callErr)

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
}

func (s *Server) writeResponse(ctx context.Context, w io.Writer, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error(ctx, "marshal response failed", observe.F("error", err.Error()))
		return
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		s.logger.Error(ctx, "write response failed", observe.F("error", err.Error()))
	}
}
