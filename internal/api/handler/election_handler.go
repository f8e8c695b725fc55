package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

// ElectionHandler serves the election listings and the admin workflow.
type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{service: service}
}

// List handles GET /api/elections.
//
// @Summary      List elections
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   electionResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/elections [get]
func (h *ElectionHandler) List(c echo.Context) error {
	views, err := h.service.ListElections(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toElectionList(views))
}

// Results handles GET /api/results.
//
// @Summary      Election results
// @Description  Every election with per-candidate counts, the total and the leading candidates (ties included).
// @Tags         elections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   resultResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/results [get]
func (h *ElectionHandler) Results(c echo.Context) error {
	views, err := h.service.Results(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResultList(views))
}

// Create handles POST /api/election.
//
// @Summary      Create an election
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createElectionRequest  true  "Election name"
// @Success      201   {object}  electionResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/election [post]
func (h *ElectionHandler) Create(c echo.Context) error {
	var req createElectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	election, err := h.service.CreateElection(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toElectionResponse(election))
}

// AddCandidate handles POST /api/election/candidate.
//
// @Summary      Add a candidate to an election
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCandidateRequest  true  "Election id and candidate name"
// @Success      201   {object}  candidateResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/election/candidate [post]
func (h *ElectionHandler) AddCandidate(c echo.Context) error {
	var req addCandidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	candidate, err := h.service.AddCandidate(c.Request().Context(), req.ElectionID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCandidateResponse(*candidate))
}

// End handles PUT /api/election/:id/end.
//
// @Summary      End an election
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Election id"
// @Success      200  {object}  electionResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/election/{id}/end [put]
func (h *ElectionHandler) End(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return domain.Invalid("election id is required")
	}

	election, err := h.service.EndElection(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toElectionResponse(election))
}
