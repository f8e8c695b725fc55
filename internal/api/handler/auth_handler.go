package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account for a pre-seeded national ID.
//
// @Summary      Register an account
// @Description  role=admin is refused with 403 unless ALLOW_ADMIN_REGISTRATION=true.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "National ID and secret"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		NationalID: req.NationalID,
		Secret:     req.Secret,
		Role:       req.Role,
	})
	if err != nil {
		// Unknown identities and duplicate accounts are client mistakes on
		// this route, not lookups of a resource.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAccountExists) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		AccountID: account.ID,
		Role:      account.Role.String(),
	})
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.NationalID, req.Secret)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC(),
		AccountID: res.AccountID,
		Role:      res.Role.String(),
	})
}
