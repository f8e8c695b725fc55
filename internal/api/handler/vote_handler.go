package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

// VoteHandler casts ballots for the authenticated account.
type VoteHandler struct {
	service ports.VotingService
}

func NewVoteHandler(service ports.VotingService) *VoteHandler {
	return &VoteHandler{service: service}
}

// Cast handles POST /api/election/vote. The voter is always the token
// subject; the body cannot vote on behalf of another account.
//
// @Summary      Cast a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castVoteRequest  true  "Election and candidate"
// @Success      200   {object}  voteResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/election/vote [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req castVoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.service.CastVote(c.Request().Context(), domain.Ballot{
		AccountID:   principal.AccountID,
		ElectionID:  req.ElectionID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, voteResponse{
		Message:     "vote recorded",
		ElectionID:  req.ElectionID,
		CandidateID: req.CandidateID,
	})
}
