package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/bugtrackr/bugtrack-api/internal/api/metrics"
	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// principalKey is the echo context key the resolved principal is stored under.
const principalKey = "principal"

// PrincipalSource resolves a token subject to the persisted user. Looking the
// user up on every request means a role change or account deletion takes
// effect immediately instead of when the token expires.
type PrincipalSource interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// RevocationChecker reports whether a token has been revoked via logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Auth validates the bearer token and injects the resolved Principal into the
// request context. Fails closed: any defect in the credential yields 401.
func Auth(jwtSecret string, users PrincipalSource, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			raw := parts[1]

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), raw)
				if err == nil && isRevoked {
					metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_subject").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), sub)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(principalKey, domain.Principal{
				ID:    user.ID,
				Email: user.Email,
				Name:  user.Name,
				Role:  user.Role,
			})
			c.Set("token", raw)

			return next(c)
		}
	}
}

// PrincipalFrom extracts the principal stored by Auth. The bool is false when
// the middleware did not run on this route.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// TokenFrom returns the raw bearer token stored by Auth.
func TokenFrom(c echo.Context) string {
	token, _ := c.Get("token").(string)
	return token
}
