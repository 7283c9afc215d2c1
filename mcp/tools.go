package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/govql/gov"
)

// Tool argument structs.

type listArgs struct {
	Limit       int    `json:"limit"`
	AfterCursor string `json:"after_cursor"`
}

type slugArgs struct {
	Slug string `json:"slug"`
}

type orgListArgs struct {
	OrganizationSlug string `json:"organization_slug"`
	Limit            int    `json:"limit"`
	AfterCursor      string `json:"after_cursor"`
}

type idArgs struct {
	ID string `json:"id"`
}

type votesArgs struct {
	ProposalID  string `json:"proposal_id"`
	Limit       int    `json:"limit"`
	AfterCursor string `json:"after_cursor"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"gov_organizations": handleOrganizations,
	"gov_organization":  handleOrganization,
	"gov_proposals":     handleProposals,
	"gov_proposal":      handleProposal,
	"gov_delegates":     handleDelegates,
	"gov_votes":         handleVotes,
	"gov_cache_stats":   handleCacheStats,
}

var paginationProperties = map[string]any{
	"limit": map[string]any{
		"type":        "integer",
		"description": "Maximum number of items to return (optional)",
	},
	"after_cursor": map[string]any{
		"type":        "string",
		"description": "Cursor from a previous page (optional)",
	},
}

func withPagination(properties map[string]any) map[string]any {
	merged := make(map[string]any, len(properties)+len(paginationProperties))
	for k, v := range properties {
		merged[k] = v
	}
	for k, v := range paginationProperties {
		merged[k] = v
	}
	return merged
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "gov_organizations",
		Description: "List governance organizations (DAOs), ordered by activity.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": withPagination(map[string]any{}),
		},
	},
	{
		Name:        "gov_organization",
		Description: "Show details for a single governance organization by slug.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"slug"},
			"properties": map[string]any{
				"slug": map[string]any{
					"type":        "string",
					"description": "The organization slug, e.g. 'uniswap'",
				},
			},
		},
	},
	{
		Name:        "gov_proposals",
		Description: "List proposals for an organization with status and voting window.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"organization_slug"},
			"properties": withPagination(map[string]any{
				"organization_slug": map[string]any{
					"type":        "string",
					"description": "The organization slug to list proposals for",
				},
			}),
		},
	},
	{
		Name:        "gov_proposal",
		Description: "Show full detail for a single proposal, including description and vote breakdown.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"id"},
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "The proposal ID",
				},
			},
		},
	},
	{
		Name:        "gov_delegates",
		Description: "List delegates for an organization, ordered by voting power.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"organization_slug"},
			"properties": withPagination(map[string]any{
				"organization_slug": map[string]any{
					"type":        "string",
					"description": "The organization slug to list delegates for",
				},
			}),
		},
	},
	{
		Name:        "gov_votes",
		Description: "List votes cast on a proposal.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"proposal_id"},
			"properties": withPagination(map[string]any{
				"proposal_id": map[string]any{
					"type":        "string",
					"description": "The proposal ID to list votes for",
				},
			}),
		},
	},
	{
		Name:        "gov_cache_stats",
		Description: "Show query cache statistics (size, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleOrganizations(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args listArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}

	orgs, page, err := s.gov.Organizations(ctx, gov.ListOptions{
		Limit:       args.Limit,
		AfterCursor: args.AfterCursor,
	})
	if err != nil {
		return errorResult(errorText(err))
	}

	out := gov.FormatOrganizations(orgs)
	if page.LastCursor != "" {
		out += fmt.Sprintf("\nNext page cursor: %s\n", page.LastCursor)
	}
	return textResult(out)
}

func handleOrganization(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args slugArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.Slug == "" {
		return errorResult("slug is required")
	}

	org, err := s.gov.Organization(ctx, args.Slug)
	if err != nil {
		return errorResult(errorText(err))
	}
	return textResult(gov.FormatOrganization(org))
}

func handleProposals(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args orgListArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.OrganizationSlug == "" {
		return errorResult("organization_slug is required")
	}

	proposals, page, err := s.gov.Proposals(ctx, args.OrganizationSlug, gov.ListOptions{
		Limit:       args.Limit,
		AfterCursor: args.AfterCursor,
	})
	if err != nil {
		return errorResult(errorText(err))
	}

	out := gov.FormatProposals(proposals)
	if page.LastCursor != "" {
		out += fmt.Sprintf("\nNext page cursor: %s\n", page.LastCursor)
	}
	return textResult(out)
}

func handleProposal(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args idArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.ID == "" {
		return errorResult("id is required")
	}

	proposal, err := s.gov.Proposal(ctx, args.ID)
	if err != nil {
		return errorResult(errorText(err))
	}
	return textResult(gov.FormatProposal(proposal))
}

func handleDelegates(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args orgListArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.OrganizationSlug == "" {
		return errorResult("organization_slug is required")
	}

	delegates, page, err := s.gov.Delegates(ctx, args.OrganizationSlug, gov.ListOptions{
		Limit:       args.Limit,
		AfterCursor: args.AfterCursor,
	})
	if err != nil {
		return errorResult(errorText(err))
	}

	out := gov.FormatDelegates(delegates)
	if page.LastCursor != "" {
		out += fmt.Sprintf("\nNext page cursor: %s\n", page.LastCursor)
	}
	return textResult(out)
}

func handleVotes(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args votesArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.ProposalID == "" {
		return errorResult("proposal_id is required")
	}

	votes, page, err := s.gov.Votes(ctx, args.ProposalID, gov.ListOptions{
		Limit:       args.Limit,
		AfterCursor: args.AfterCursor,
	})
	if err != nil {
		return errorResult(errorText(err))
	}

	out := gov.FormatVotes(votes)
	if page.LastCursor != "" {
		out += fmt.Sprintf("\nNext page cursor: %s\n", page.LastCursor)
	}
	return textResult(out)
}

func handleCacheStats(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	if s.cache == nil || !s.cache.IsCachingEnabled() {
		return textResult("Query caching is disabled.")
	}

	stats := s.cache.CacheStats(ctx)
	return textResult(fmt.Sprintf("Query Cache Statistics\n"+
		"  Entries:  %d\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Size, stats.Hits, stats.Misses, stats.HitRate()*100))
}
