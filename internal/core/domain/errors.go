package domain

import "errors"

// Closed error taxonomy. Services return exactly one of these per failure and
// the HTTP layer selects the status code from the error identity alone, never
// from message text.
var (
	// Authentication / authorization.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	// Missing entities.
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")

	// Uniqueness conflicts.
	ErrEmailTaken       = errors.New("email already exists")
	ErrProjectNameTaken = errors.New("project name already exists")
	ErrAlreadyAssigned  = errors.New("user already assigned to project")

	// Validation failures.
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNameRequired       = errors.New("project name is required")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrEmailRequired      = errors.New("email and password are required")

	// Self-service misuse.
	ErrSelfDelete = errors.New("cannot delete your own account")
)
