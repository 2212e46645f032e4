package ports

import (
	"context"
	"time"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// AuthService implements credential login, self-registration and token
// revocation.
type AuthService interface {
	// Login verifies the credentials and returns a signed bearer token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Register creates a REPORTER account. The role is never caller
	// controlled on this path.
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	// Logout revokes the presented token until its expiry.
	Logout(ctx context.Context, token string) error
}

// TokenDenylist tracks revoked bearer tokens until they would have expired.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
