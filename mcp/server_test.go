package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonwraymond/govql/cache"
	"github.com/jonwraymond/govql/client"
	"github.com/jonwraymond/govql/gov"
)

// fakeQuerier returns a canned payload for any query.
type fakeQuerier struct {
	data json.RawMessage
	err  error
}

func (f *fakeQuerier) Query(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// fakeCacheManager implements CacheManager for testing.
type fakeCacheManager struct {
	stats   cache.Stats
	enabled bool
	cleared bool
}

func (f *fakeCacheManager) CacheStats(_ context.Context) cache.Stats { return f.stats }
func (f *fakeCacheManager) ClearCache(_ context.Context) error {
	f.cleared = true
	return nil
}
func (f *fakeCacheManager) IsCachingEnabled() bool { return f.enabled }

func newTestServer(q gov.Querier, cacheMgr CacheManager) *Server {
	return New(gov.NewService(q), cacheMgr, Config{Name: "govql", Version: "test"})
}

func sendAndReceive(t *testing.T, srv *Server, req Request) Response {
	t.Helper()
	line, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	line = append(line, '\n')

	var out bytes.Buffer
	if err := srv.Run(context.Background(), bytes.NewReader(line), &out); err != nil {
		t.Fatal(err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, out.String())
	}
	return resp
}

func toolResult(t *testing.T, resp Response) ToolCallResult {
	t.Helper()
	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal tool result: %v", err)
	}
	return result
}

func TestInitialize(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`1`),
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result InitializeResult
	json.Unmarshal(data, &result)

	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocol version = %s, want 2024-11-05", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "govql" {
		t.Errorf("server name = %s, want govql", result.ServerInfo.Name)
	}
}

func TestToolsList(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)
	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`2`),
		Method:  "tools/list",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ToolsListResult
	json.Unmarshal(data, &result)

	if len(result.Tools) != 7 {
		t.Errorf("expected 7 tools, got %d", len(result.Tools))
	}

	names := make(map[string]bool, len(result.Tools))
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"gov_organizations", "gov_organization", "gov_proposals",
		"gov_proposal", "gov_delegates", "gov_votes", "gov_cache_stats",
	} {
		if !names[want] {
			t.Errorf("missing tool %q", want)
		}
	}
}

func TestToolsCall_Organizations(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"organizations": {
			"nodes": [{"id": "org-1", "slug": "uniswap", "name": "Uniswap"}],
			"pageInfo": {"lastCursor": "c1", "count": 1}
		}
	}`)}
	srv := newTestServer(q, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`3`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_organizations", "arguments": {}}`),
	})

	result := toolResult(t, resp)
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	if !strings.Contains(result.Content[0].Text, "uniswap") {
		t.Errorf("expected organization in output, got:\n%s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "Next page cursor: c1") {
		t.Errorf("expected next-page cursor in output, got:\n%s", result.Content[0].Text)
	}
}

func TestToolsCall_MissingRequiredArgument(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`4`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_proposal", "arguments": {}}`),
	})

	result := toolResult(t, resp)
	if !result.IsError {
		t.Fatal("expected error result for missing id")
	}
	if !strings.Contains(result.Content[0].Text, "id is required") {
		t.Errorf("unexpected error text: %s", result.Content[0].Text)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`5`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_nonexistent"}`),
	})

	result := toolResult(t, resp)
	if !result.IsError {
		t.Fatal("expected error result for unknown tool")
	}
}

func TestToolsCall_RateLimitErrorSurfaced(t *testing.T) {
	q := &fakeQuerier{err: &client.RateLimitError{RetryAfter: 42}}
	srv := newTestServer(q, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`6`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_organizations"}`),
	})

	result := toolResult(t, resp)
	if !result.IsError {
		t.Fatal("expected error result for rate limit")
	}
	if !strings.Contains(result.Content[0].Text, "42 seconds") {
		t.Errorf("expected retry-after in output, got: %s", result.Content[0].Text)
	}
}

func TestToolsCall_CacheStats(t *testing.T) {
	cacheMgr := &fakeCacheManager{
		stats:   cache.Stats{Size: 3, Hits: 10, Misses: 5},
		enabled: true,
	}
	srv := newTestServer(&fakeQuerier{}, cacheMgr)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`7`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_cache_stats"}`),
	})

	result := toolResult(t, resp)
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "Hits:     10") || !strings.Contains(text, "66.7%") {
		t.Errorf("unexpected cache stats output:\n%s", text)
	}
}

func TestToolsCall_CacheStatsDisabled(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, &fakeCacheManager{enabled: false})

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`8`),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": "gov_cache_stats"}`),
	})

	result := toolResult(t, resp)
	if !strings.Contains(result.Content[0].Text, "disabled") {
		t.Errorf("expected disabled message, got: %s", result.Content[0].Text)
	}
}

func TestResourcesList(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`9`),
		Method:  "resources/list",
	})

	data, _ := json.Marshal(resp.Result)
	var result ResourcesListResult
	json.Unmarshal(data, &result)

	if len(result.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(result.Resources))
	}
	if result.Resources[0].URI != "gov://popular-organizations" {
		t.Errorf("unexpected first resource: %+v", result.Resources[0])
	}
}

func TestResourcesRead_PopularOrganizations(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"organizations": {
			"nodes": [{"id": "org-1", "slug": "uniswap", "name": "Uniswap"}],
			"pageInfo": {"count": 1}
		}
	}`)}
	srv := newTestServer(q, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`10`),
		Method:  "resources/read",
		Params:  json.RawMessage(`{"uri": "gov://popular-organizations"}`),
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	data, _ := json.Marshal(resp.Result)
	var result ResourcesReadResult
	json.Unmarshal(data, &result)

	if len(result.Contents) != 1 || !strings.Contains(result.Contents[0].Text, "uniswap") {
		t.Errorf("unexpected resource contents: %+v", result.Contents)
	}
}

func TestResourcesRead_ServerInfo(t *testing.T) {
	cacheMgr := &fakeCacheManager{stats: cache.Stats{Size: 1}, enabled: true}
	srv := newTestServer(&fakeQuerier{}, cacheMgr)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`11`),
		Method:  "resources/read",
		Params:  json.RawMessage(`{"uri": "gov://server-info"}`),
	})

	data, _ := json.Marshal(resp.Result)
	var result ResourcesReadResult
	json.Unmarshal(data, &result)

	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content entry, got %d", len(result.Contents))
	}

	var info map[string]any
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &info); err != nil {
		t.Fatalf("server info is not valid JSON: %v", err)
	}
	if info["name"] != "govql" || info["version"] != "test" {
		t.Errorf("unexpected server info: %v", info)
	}
	if info["cachingEnabled"] != true {
		t.Errorf("expected cachingEnabled=true, got %v", info["cachingEnabled"])
	}
}

func TestResourcesRead_Unknown(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`12`),
		Method:  "resources/read",
		Params:  json.RawMessage(`{"uri": "gov://bogus"}`),
	})

	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Fatalf("expected invalid-params error, got: %+v", resp.Error)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	resp := sendAndReceive(t, srv, Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(`13`),
		Method:  "bogus/method",
	})

	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Fatalf("expected method-not-found error, got: %+v", resp.Error)
	}
}

func TestParseError(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	var out bytes.Buffer
	err := srv.Run(context.Background(), strings.NewReader("{not json}\n"), &out)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != CodeParseError {
		t.Fatalf("expected parse error, got: %+v", resp.Error)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	srv := newTestServer(&fakeQuerier{}, nil)

	var out bytes.Buffer
	line := `{"jsonrpc": "2.0", "method": "notifications/initialized"}` + "\n"
	if err := srv.Run(context.Background(), strings.NewReader(line), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no response to notification, got: %s", out.String())
	}
}
