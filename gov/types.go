package gov

import "time"

// Organization is a governance organization (a DAO or protocol).
type Organization struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	ChainIDs        []string `json:"chainIds"`
	ProposalCount   int      `json:"proposalsCount"`
	DelegateCount   int      `json:"delegatesCount"`
	TokenOwnerCount int      `json:"tokenOwnersCount"`
}

// Account identifies an on-chain participant.
type Account struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	ENS     string `json:"ens,omitempty"`
}

// VoteStats aggregates voting power by support type for a proposal.
type VoteStats struct {
	Type        string  `json:"type"`
	VotesCount  string  `json:"votesCount"`
	VotersCount int     `json:"votersCount"`
	Percent     float64 `json:"percent"`
}

// Proposal is a governance proposal.
type Proposal struct {
	ID          string      `json:"id"`
	OnchainID   string      `json:"onchainId,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status"`
	Proposer    Account     `json:"proposer"`
	VoteStats   []VoteStats `json:"voteStats,omitempty"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
}

// Delegate is an account with delegated voting power in an organization.
type Delegate struct {
	Account         Account `json:"account"`
	VotesCount      string  `json:"votesCount"`
	DelegatorsCount int     `json:"delegatorsCount"`
	Statement       string  `json:"statement,omitempty"`
}

// Vote is a single cast vote on a proposal.
type Vote struct {
	ID     string    `json:"id"`
	Voter  Account   `json:"voter"`
	Type   string    `json:"type"`
	Amount string    `json:"amount"`
	CastAt time.Time `json:"castAt"`
}

// PageInfo carries cursors for paginated list responses.
type PageInfo struct {
	FirstCursor string `json:"firstCursor,omitempty"`
	LastCursor  string `json:"lastCursor,omitempty"`
	Count       int    `json:"count"`
}

// ListOptions controls pagination for list queries.
type ListOptions struct {
	// Limit caps the number of returned items. Zero means the
	// service default.
	Limit int

	// AfterCursor resumes a previous listing.
	AfterCursor string
}
