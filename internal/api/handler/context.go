package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/api/middleware"
	"github.com/civicvote/voting-api/internal/core/domain"
)

// ctxPrincipal returns the caller decoded by the Auth middleware. A missing
// principal means the route was mounted without Auth; reject rather than
// act anonymously.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.AccountID == "" {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return p, nil
}
