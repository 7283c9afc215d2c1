package gov

// Query text for each operation. Variable definitions mark required
// inputs as non-nullable so client-side validation can enforce them.

const organizationsQuery = `query Organizations($limit: Int, $afterCursor: String) {
  organizations(limit: $limit, afterCursor: $afterCursor) {
    nodes {
      id
      slug
      name
      chainIds
      proposalsCount
      delegatesCount
      tokenOwnersCount
    }
    pageInfo {
      firstCursor
      lastCursor
      count
    }
  }
}`

const organizationQuery = `query Organization($slug: String!) {
  organization(slug: $slug) {
    id
    slug
    name
    chainIds
    proposalsCount
    delegatesCount
    tokenOwnersCount
  }
}`

const proposalsQuery = `query Proposals($organizationSlug: String!, $limit: Int, $afterCursor: String) {
  proposals(organizationSlug: $organizationSlug, limit: $limit, afterCursor: $afterCursor) {
    nodes {
      id
      onchainId
      title
      status
      proposer {
        address
        name
        ens
      }
      voteStats {
        type
        votesCount
        votersCount
        percent
      }
      startTime
      endTime
    }
    pageInfo {
      firstCursor
      lastCursor
      count
    }
  }
}`

const proposalQuery = `query Proposal($id: ID!) {
  proposal(id: $id) {
    id
    onchainId
    title
    description
    status
    proposer {
      address
      name
      ens
    }
    voteStats {
      type
      votesCount
      votersCount
      percent
    }
    startTime
    endTime
  }
}`

const delegatesQuery = `query Delegates($organizationSlug: String!, $limit: Int, $afterCursor: String) {
  delegates(organizationSlug: $organizationSlug, limit: $limit, afterCursor: $afterCursor) {
    nodes {
      account {
        address
        name
        ens
      }
      votesCount
      delegatorsCount
      statement
    }
    pageInfo {
      firstCursor
      lastCursor
      count
    }
  }
}`

const votesQuery = `query Votes($proposalId: ID!, $limit: Int, $afterCursor: String) {
  votes(proposalId: $proposalId, limit: $limit, afterCursor: $afterCursor) {
    nodes {
      id
      voter {
        address
        name
        ens
      }
      type
      amount
      castAt
    }
    pageInfo {
      firstCursor
      lastCursor
      count
    }
  }
}`
