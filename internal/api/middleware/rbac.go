package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/civicvote/voting-api/internal/core/domain"
)

// RequireRole enforces role-based access control. Must run after Auth.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrInvalidToken
			}
			if !p.Is(roles...) {
				return fmt.Errorf("role %s: %w", p.Role, domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
