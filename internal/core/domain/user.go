package domain

import "time"

const (
	RoleReporter  = "REPORTER"
	RoleDeveloper = "DEVELOPER"
	RoleAdmin     = "ADMIN"
)

// ValidRole reports whether role is one of the three enumerated roles.
// No operation may persist a role outside this set.
func ValidRole(role string) bool {
	switch role {
	case RoleReporter, RoleDeveloper, RoleAdmin:
		return true
	}
	return false
}

// User models an account in the tracker. The password is stored only as a
// bcrypt hash and never serialised.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the request-scoped identity resolved by the auth middleware.
// It carries the role as currently persisted, not the role baked into the
// token, so a role change takes effect on the next request.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Authorize denies unless the principal's role is one of the allowed roles.
// Exact-role gating: ADMIN does not implicitly satisfy a DEVELOPER-only
// check unless the caller lists both roles.
func Authorize(p Principal, allowed ...string) error {
	for _, role := range allowed {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
