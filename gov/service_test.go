package gov

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fakeQuerier returns canned data and records the last dispatch.
type fakeQuerier struct {
	data      json.RawMessage
	err       error
	lastQuery string
	lastVars  map[string]any
}

func (f *fakeQuerier) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	f.lastQuery = query
	f.lastVars = variables
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

// TestService_Organizations verifies decoding of the list envelope.
func TestService_Organizations(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"organizations": {
			"nodes": [
				{"id": "org-1", "slug": "uniswap", "name": "Uniswap", "proposalsCount": 80},
				{"id": "org-2", "slug": "arbitrum", "name": "Arbitrum", "proposalsCount": 40}
			],
			"pageInfo": {"lastCursor": "c2", "count": 2}
		}
	}`)}

	svc := NewService(q)
	orgs, page, err := svc.Organizations(context.Background(), ListOptions{})
	if err != nil {
		t.Fatalf("Organizations failed: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(orgs))
	}
	if orgs[0].Slug != "uniswap" {
		t.Errorf("expected slug 'uniswap', got %q", orgs[0].Slug)
	}
	if page.LastCursor != "c2" || page.Count != 2 {
		t.Errorf("unexpected page info: %+v", page)
	}
	if q.lastVars["limit"] != DefaultLimit {
		t.Errorf("expected default limit %d, got %v", DefaultLimit, q.lastVars["limit"])
	}
}

// TestService_LimitClamped verifies limits are bounded.
func TestService_LimitClamped(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"organizations":{"nodes":[],"pageInfo":{}}}`)}
	svc := NewService(q)

	svc.Organizations(context.Background(), ListOptions{Limit: 5000})
	if q.lastVars["limit"] != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %v", MaxLimit, q.lastVars["limit"])
	}

	svc.Organizations(context.Background(), ListOptions{Limit: -1})
	if q.lastVars["limit"] != DefaultLimit {
		t.Errorf("expected default limit for negative input, got %v", q.lastVars["limit"])
	}
}

// TestService_Organization verifies lookup and not-found behavior.
func TestService_Organization(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"organization": {"id": "org-1", "slug": "uniswap", "name": "Uniswap"}
	}`)}
	svc := NewService(q)

	org, err := svc.Organization(context.Background(), "uniswap")
	if err != nil {
		t.Fatalf("Organization failed: %v", err)
	}
	if org.Name != "Uniswap" {
		t.Errorf("expected name 'Uniswap', got %q", org.Name)
	}
	if q.lastVars["slug"] != "uniswap" {
		t.Errorf("expected slug variable, got %v", q.lastVars)
	}
}

// TestService_OrganizationNotFound verifies a null payload maps to ErrNotFound.
func TestService_OrganizationNotFound(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"organization": null}`)}
	svc := NewService(q)

	_, err := svc.Organization(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

// TestService_OrganizationEmptySlug verifies input validation.
func TestService_OrganizationEmptySlug(t *testing.T) {
	svc := NewService(&fakeQuerier{})

	if _, err := svc.Organization(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty slug")
	}
}

// TestService_Proposals verifies decode and required variables.
func TestService_Proposals(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"proposals": {
			"nodes": [
				{"id": "prop-1", "title": "Enable fee switch", "status": "active"}
			],
			"pageInfo": {"count": 1}
		}
	}`)}
	svc := NewService(q)

	proposals, _, err := svc.Proposals(context.Background(), "uniswap", ListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Proposals failed: %v", err)
	}
	if len(proposals) != 1 || proposals[0].Title != "Enable fee switch" {
		t.Errorf("unexpected proposals: %+v", proposals)
	}
	if q.lastVars["organizationSlug"] != "uniswap" {
		t.Errorf("expected organizationSlug variable, got %v", q.lastVars)
	}
	if q.lastVars["limit"] != 5 {
		t.Errorf("expected limit 5, got %v", q.lastVars["limit"])
	}
}

// TestService_ProposalNotFound verifies lookup failure mapping.
func TestService_ProposalNotFound(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"proposal": null}`)}
	svc := NewService(q)

	_, err := svc.Proposal(context.Background(), "prop-404")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

// TestService_Votes verifies decode of the votes envelope.
func TestService_Votes(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{
		"votes": {
			"nodes": [
				{"id": "v-1", "voter": {"address": "0xabc"}, "type": "for", "amount": "1200"}
			],
			"pageInfo": {"count": 1}
		}
	}`)}
	svc := NewService(q)

	votes, _, err := svc.Votes(context.Background(), "prop-1", ListOptions{})
	if err != nil {
		t.Fatalf("Votes failed: %v", err)
	}
	if len(votes) != 1 || votes[0].Type != "for" {
		t.Errorf("unexpected votes: %+v", votes)
	}
	if q.lastVars["proposalId"] != "prop-1" {
		t.Errorf("expected proposalId variable, got %v", q.lastVars)
	}
}

// TestService_QuerierErrorPassesThrough verifies upstream errors are not wrapped.
func TestService_QuerierErrorPassesThrough(t *testing.T) {
	sentinel := errors.New("upstream down")
	svc := NewService(&fakeQuerier{err: sentinel})

	_, _, err := svc.Delegates(context.Background(), "uniswap", ListOptions{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected querier error to pass through, got: %v", err)
	}
}

// TestService_DecodeFailure verifies malformed payloads surface as decode errors.
func TestService_DecodeFailure(t *testing.T) {
	q := &fakeQuerier{data: json.RawMessage(`{"organizations": "not an object"}`)}
	svc := NewService(q)

	_, _, err := svc.Organizations(context.Background(), ListOptions{})
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected decode error, got: %v", err)
	}
}
