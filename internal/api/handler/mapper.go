package handler

import (
	"github.com/civicvote/voting-api/internal/core/domain"
)

// --- Domain → HTTP response ---

func toCandidateResponse(c domain.Candidate) candidateResponse {
	return candidateResponse{
		ID:         c.ID,
		ElectionID: c.ElectionID,
		Name:       c.Name,
		VoteCount:  c.VoteCount,
	}
}

func toCandidateResponses(cs []domain.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCandidateResponse(c))
	}
	return out
}

// toElectionResponse renders an election without its candidates resolved;
// used for admin writes that return the bare record.
func toElectionResponse(e *domain.Election) electionResponse {
	return electionResponse{
		ID:         e.ID,
		Name:       e.Name,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt.UTC(),
		Candidates: []candidateResponse{},
	}
}

func toElectionViewResponse(v domain.ElectionView) electionResponse {
	resp := toElectionResponse(&v.Election)
	resp.Candidates = toCandidateResponses(v.Candidates)
	return resp
}

func toElectionList(views []domain.ElectionView) []electionResponse {
	out := make([]electionResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toElectionViewResponse(v))
	}
	return out
}

func toResultList(views []domain.ElectionView) []resultResponse {
	out := make([]resultResponse, 0, len(views))
	for _, v := range views {
		out = append(out, resultResponse{
			electionResponse: toElectionViewResponse(v),
			TotalVotes:       v.TotalVotes(),
			Leaders:          toCandidateResponses(v.Leaders()),
		})
	}
	return out
}
