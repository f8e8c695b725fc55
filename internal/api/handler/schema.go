package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	NationalID string `json:"nationalId" validate:"required,len=12,numeric"`
	Secret     string `json:"secret"     validate:"required"`
	Role       string `json:"role"       validate:"omitempty,oneof=user admin"`
}

type registerResponse struct {
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}

type loginRequest struct {
	NationalID string `json:"nationalId" validate:"required,len=12,numeric"`
	Secret     string `json:"secret"     validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	AccountID string    `json:"accountId"`
	Role      string    `json:"role"`
}

// --- Elections ---

type createElectionRequest struct {
	Name string `json:"name" validate:"required"`
}

type addCandidateRequest struct {
	ElectionID string `json:"electionId" validate:"required"`
	Name       string `json:"name"       validate:"required"`
}

type candidateResponse struct {
	ID         string `json:"id"`
	ElectionID string `json:"electionId"`
	Name       string `json:"name"`
	VoteCount  int    `json:"voteCount"`
}

type electionResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	IsActive   bool                `json:"isActive"`
	CreatedAt  time.Time           `json:"createdAt"`
	Candidates []candidateResponse `json:"candidates"`
}

type resultResponse struct {
	electionResponse
	TotalVotes int                 `json:"totalVotes"`
	Leaders    []candidateResponse `json:"leaders"`
}

// --- Votes ---

type castVoteRequest struct {
	ElectionID  string `json:"electionId"  validate:"required"`
	CandidateID string `json:"candidateId" validate:"required"`
}

type voteResponse struct {
	Message     string `json:"message"`
	ElectionID  string `json:"electionId"`
	CandidateID string `json:"candidateId"`
}
