package gov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultLimit is applied to list queries when the caller does not set one.
const DefaultLimit = 20

// MaxLimit caps list queries regardless of what the caller asks for.
const MaxLimit = 100

// ErrNotFound is returned when a lookup query matches nothing.
var ErrNotFound = errors.New("gov: not found")

// Querier dispatches a query and returns the raw data payload.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations surface their own error taxonomy; this
//   package passes those errors through unwrapped.
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Service builds governance queries and decodes their responses.
type Service struct {
	q Querier
}

// NewService creates a Service on top of the given Querier.
func NewService(q Querier) *Service {
	return &Service{q: q}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func listVariables(opts ListOptions) map[string]any {
	vars := map[string]any{
		"limit": clampLimit(opts.Limit),
	}
	if opts.AfterCursor != "" {
		vars["afterCursor"] = opts.AfterCursor
	}
	return vars
}

type pagedOrganizations struct {
	Nodes    []Organization `json:"nodes"`
	PageInfo PageInfo       `json:"pageInfo"`
}

type pagedProposals struct {
	Nodes    []Proposal `json:"nodes"`
	PageInfo PageInfo   `json:"pageInfo"`
}

type pagedDelegates struct {
	Nodes    []Delegate `json:"nodes"`
	PageInfo PageInfo   `json:"pageInfo"`
}

type pagedVotes struct {
	Nodes    []Vote   `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// Organizations lists governance organizations.
func (s *Service) Organizations(ctx context.Context, opts ListOptions) ([]Organization, PageInfo, error) {
	data, err := s.q.Query(ctx, organizationsQuery, listVariables(opts))
	if err != nil {
		return nil, PageInfo{}, err
	}

	var envelope struct {
		Organizations pagedOrganizations `json:"organizations"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, PageInfo{}, fmt.Errorf("gov: decode organizations: %w", err)
	}
	return envelope.Organizations.Nodes, envelope.Organizations.PageInfo, nil
}

// Organization looks up a single organization by slug.
func (s *Service) Organization(ctx context.Context, slug string) (*Organization, error) {
	if slug == "" {
		return nil, fmt.Errorf("gov: organization slug is required")
	}

	data, err := s.q.Query(ctx, organizationQuery, map[string]any{"slug": slug})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Organization *Organization `json:"organization"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("gov: decode organization: %w", err)
	}
	if envelope.Organization == nil || envelope.Organization.ID == "" {
		return nil, fmt.Errorf("%w: organization %q", ErrNotFound, slug)
	}
	return envelope.Organization, nil
}

// Proposals lists proposals for an organization.
func (s *Service) Proposals(ctx context.Context, organizationSlug string, opts ListOptions) ([]Proposal, PageInfo, error) {
	if organizationSlug == "" {
		return nil, PageInfo{}, fmt.Errorf("gov: organization slug is required")
	}

	vars := listVariables(opts)
	vars["organizationSlug"] = organizationSlug

	data, err := s.q.Query(ctx, proposalsQuery, vars)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var envelope struct {
		Proposals pagedProposals `json:"proposals"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, PageInfo{}, fmt.Errorf("gov: decode proposals: %w", err)
	}
	return envelope.Proposals.Nodes, envelope.Proposals.PageInfo, nil
}

// Proposal looks up a single proposal by ID, including its description.
func (s *Service) Proposal(ctx context.Context, id string) (*Proposal, error) {
	if id == "" {
		return nil, fmt.Errorf("gov: proposal id is required")
	}

	data, err := s.q.Query(ctx, proposalQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Proposal *Proposal `json:"proposal"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("gov: decode proposal: %w", err)
	}
	if envelope.Proposal == nil || envelope.Proposal.ID == "" {
		return nil, fmt.Errorf("%w: proposal %q", ErrNotFound, id)
	}
	return envelope.Proposal, nil
}

// Delegates lists delegates for an organization, ordered by voting power.
func (s *Service) Delegates(ctx context.Context, organizationSlug string, opts ListOptions) ([]Delegate, PageInfo, error) {
	if organizationSlug == "" {
		return nil, PageInfo{}, fmt.Errorf("gov: organization slug is required")
	}

	vars := listVariables(opts)
	vars["organizationSlug"] = organizationSlug

	data, err := s.q.Query(ctx, delegatesQuery, vars)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var envelope struct {
		Delegates pagedDelegates `json:"delegates"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, PageInfo{}, fmt.Errorf("gov: decode delegates: %w", err)
	}
	return envelope.Delegates.Nodes, envelope.Delegates.PageInfo, nil
}

// Votes lists votes cast on a proposal.
func (s *Service) Votes(ctx context.Context, proposalID string, opts ListOptions) ([]Vote, PageInfo, error) {
	if proposalID == "" {
		return nil, PageInfo{}, fmt.Errorf("gov: proposal id is required")
	}

	vars := listVariables(opts)
	vars["proposalId"] = proposalID

	data, err := s.q.Query(ctx, votesQuery, vars)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var envelope struct {
		Votes pagedVotes `json:"votes"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, PageInfo{}, fmt.Errorf("gov: decode votes: %w", err)
	}
	return envelope.Votes.Nodes, envelope.Votes.PageInfo, nil
}

// PopularOrganizations returns the first page of organizations; the
// upstream orders them by activity.
func (s *Service) PopularOrganizations(ctx context.Context) ([]Organization, error) {
	orgs, _, err := s.Organizations(ctx, ListOptions{Limit: DefaultLimit})
	return orgs, err
}
