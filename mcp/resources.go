package mcp

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/govql/gov"
)

// Resource URIs.
const (
	popularOrganizationsURI = "gov://popular-organizations"
	serverInfoURI           = "gov://server-info"
)

// allResources is the list of resource definitions exposed via resources/list.
var allResources = []ResourceDefinition{
	{
		URI:         popularOrganizationsURI,
		Name:        "Popular Organizations",
		Description: "The most active governance organizations.",
		MimeType:    "text/plain",
	},
	{
		URI:         serverInfoURI,
		Name:        "Server Info",
		Description: "Server version and cache status.",
		MimeType:    "application/json",
	},
}

func (s *Server) handleResourcesList(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  ResourcesListResult{Resources: allResources},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, req *Request) *Response {
	var params ResourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInvalidParams, Message: "invalid params"},
		}
	}

	switch params.URI {
	case popularOrganizationsURI:
		return s.readPopularOrganizations(ctx, req)
	case serverInfoURI:
		return s.readServerInfo(ctx, req)
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInvalidParams, Message: "unknown resource: " + params.URI},
		}
	}
}

func (s *Server) readPopularOrganizations(ctx context.Context, req *Request) *Response {
	orgs, err := s.gov.PopularOrganizations(ctx)
	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInternalError, Message: errorText(err)},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: ResourcesReadResult{
			Contents: []ResourceContents{{
				URI:      popularOrganizationsURI,
				MimeType: "text/plain",
				Text:     "Popular governance organizations:\n\n" + gov.FormatOrganizations(orgs),
			}},
		},
	}
}

func (s *Server) readServerInfo(ctx context.Context, req *Request) *Response {
	info := map[string]any{
		"name":    s.name,
		"version": s.version,
	}
	if s.cache != nil {
		info["cachingEnabled"] = s.cache.IsCachingEnabled()
		if s.cache.IsCachingEnabled() {
			stats := s.cache.CacheStats(ctx)
			info["cache"] = map[string]any{
				"size":   stats.Size,
				"hits":   stats.Hits,
				"misses": stats.Misses,
			}
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &RPCError{Code: CodeInternalError, Message: "encode server info: " + err.Error()},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: ResourcesReadResult{
			Contents: []ResourceContents{{
				URI:      serverInfoURI,
				MimeType: "application/json",
				Text:     string(data),
			}},
		},
	}
}
