package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bugtrackr/bugtrack-api/internal/api/metrics"
)

// RBAC rejects requests whose principal does not hold one of the allowed
// roles. Exact-role gating, same rule the services enforce; the middleware
// just fails fast before any payload is parsed.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, ok := allowed[p.Role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues(p.Role).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
