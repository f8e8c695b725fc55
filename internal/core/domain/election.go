package domain

import (
	"strings"
	"time"
)

// Election is a votable contest. Active → Closed is one-way.
type Election struct {
	ID           string
	Name         string
	IsActive     bool
	CandidateIDs []string
	CreatedAt    time.Time
}

// Candidate is an option within exactly one Election.
// VoteCount always equals len(VotedBy).
type Candidate struct {
	ID         string
	ElectionID string
	Name       string
	VoteCount  int
	VotedBy    []string
}

// ElectionView is an Election with its candidates resolved in list order.
type ElectionView struct {
	Election
	Candidates []Candidate
}

// TotalVotes sums the vote counts of all candidates.
func (v ElectionView) TotalVotes() int {
	total := 0
	for _, c := range v.Candidates {
		total += c.VoteCount
	}
	return total
}

// Leaders returns the candidates with the highest non-zero count. Ties
// return every tied candidate.
func (v ElectionView) Leaders() []Candidate {
	best := 0
	var out []Candidate
	for _, c := range v.Candidates {
		switch {
		case c.VoteCount > best:
			best = c.VoteCount
			out = []Candidate{c}
		case c.VoteCount == best && best > 0:
			out = append(out, c)
		}
	}
	return out
}

// Ballot is a single vote request.
type Ballot struct {
	AccountID   string
	ElectionID  string
	CandidateID string
}

// VoteEvent is the audit record written after a ballot is recorded.
type VoteEvent struct {
	Ballot
	RequestID string
	CastAt    time.Time
}

// NormalizeName trims a display name and rejects blanks.
func NormalizeName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("%s name is required", kind)
	}
	return name, nil
}
