package gov

import (
	"fmt"
	"strings"
	"time"
)

func shortAddress(a Account) string {
	if a.Name != "" {
		return a.Name
	}
	if a.ENS != "" {
		return a.ENS
	}
	if len(a.Address) > 12 {
		return a.Address[:6] + "..." + a.Address[len(a.Address)-4:]
	}
	return a.Address
}

// FormatOrganizations renders organizations as a text table.
func FormatOrganizations(orgs []Organization) string {
	if len(orgs) == 0 {
		return "No organizations found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-28s %10s %10s %12s\n",
		"Slug", "Name", "Proposals", "Delegates", "Token Owners")
	b.WriteString(strings.Repeat("-", 88) + "\n")
	for _, o := range orgs {
		name := o.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		fmt.Fprintf(&b, "%-24s %-28s %10d %10d %12d\n",
			o.Slug, name, o.ProposalCount, o.DelegateCount, o.TokenOwnerCount)
	}
	return b.String()
}

// FormatOrganization renders a single organization with full detail.
func FormatOrganization(o *Organization) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", o.Name, o.Slug)
	fmt.Fprintf(&b, "  ID:           %s\n", o.ID)
	if len(o.ChainIDs) > 0 {
		fmt.Fprintf(&b, "  Chains:       %s\n", strings.Join(o.ChainIDs, ", "))
	}
	fmt.Fprintf(&b, "  Proposals:    %d\n", o.ProposalCount)
	fmt.Fprintf(&b, "  Delegates:    %d\n", o.DelegateCount)
	fmt.Fprintf(&b, "  Token Owners: %d\n", o.TokenOwnerCount)
	return b.String()
}

// FormatProposals renders proposals as a text table.
func FormatProposals(proposals []Proposal) string {
	if len(proposals) == 0 {
		return "No proposals found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-44s %-10s %-12s\n",
		"ID", "Title", "Status", "Ends")
	b.WriteString(strings.Repeat("-", 84) + "\n")
	for _, p := range proposals {
		title := p.Title
		if len(title) > 44 {
			title = title[:41] + "..."
		}
		ends := ""
		if !p.EndTime.IsZero() {
			ends = p.EndTime.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%-14s %-44s %-10s %-12s\n", p.ID, title, p.Status, ends)
	}
	return b.String()
}

// FormatProposal renders a single proposal with vote breakdown.
func FormatProposal(p *Proposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Title)
	fmt.Fprintf(&b, "  ID:       %s\n", p.ID)
	if p.OnchainID != "" {
		fmt.Fprintf(&b, "  Onchain:  %s\n", p.OnchainID)
	}
	fmt.Fprintf(&b, "  Status:   %s\n", p.Status)
	fmt.Fprintf(&b, "  Proposer: %s\n", shortAddress(p.Proposer))
	if !p.StartTime.IsZero() {
		fmt.Fprintf(&b, "  Voting:   %s to %s\n",
			p.StartTime.Format(time.RFC3339), p.EndTime.Format(time.RFC3339))
	}

	if len(p.VoteStats) > 0 {
		b.WriteString("  Votes:\n")
		for _, vs := range p.VoteStats {
			fmt.Fprintf(&b, "    %-10s %14s votes from %6d voters (%5.1f%%)\n",
				vs.Type, vs.VotesCount, vs.VotersCount, vs.Percent)
		}
	}

	if p.Description != "" {
		desc := p.Description
		if len(desc) > 2000 {
			desc = desc[:2000] + "\n  [truncated]"
		}
		fmt.Fprintf(&b, "\n%s\n", desc)
	}
	return b.String()
}

// FormatDelegates renders delegates as a text table.
func FormatDelegates(delegates []Delegate) string {
	if len(delegates) == 0 {
		return "No delegates found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %18s %12s\n",
		"Delegate", "Voting Power", "Delegators")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, d := range delegates {
		fmt.Fprintf(&b, "%-28s %18s %12d\n",
			shortAddress(d.Account), d.VotesCount, d.DelegatorsCount)
	}
	return b.String()
}

// FormatVotes renders votes as a text table.
func FormatVotes(votes []Vote) string {
	if len(votes) == 0 {
		return "No votes found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %-10s %18s %-20s\n",
		"Voter", "Type", "Amount", "Cast At")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	for _, v := range votes {
		cast := ""
		if !v.CastAt.IsZero() {
			cast = v.CastAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(&b, "%-28s %-10s %18s %-20s\n",
			shortAddress(v.Voter), v.Type, v.Amount, cast)
	}
	return b.String()
}
