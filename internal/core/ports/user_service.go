package ports

import (
	"context"
	"time"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// UserView is the admin-facing projection of a user: the stored fields plus
// the names of the projects the user is assigned to and the number of bugs
// the user has reported.
type UserView struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	Projects     []string  `json:"projects"`
	BugsReported int64     `json:"bugs_reported"`
}

// CreateUserInput carries the fields for admin user creation.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

// UpdateUserInput is a partial update: only supplied fields change. Name may
// be cleared; email, password and role may only be set.
type UpdateUserInput struct {
	Email    domain.Patch[string]
	Name     domain.Patch[string]
	Password domain.Patch[string]
	Role     domain.Patch[string]
}

// UserService owns admin user management. Every operation requires the
// principal to hold the ADMIN role.
type UserService interface {
	List(ctx context.Context, p domain.Principal) ([]UserView, error)
	Get(ctx context.Context, p domain.Principal, id string) (*UserView, error)
	Create(ctx context.Context, p domain.Principal, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateUserInput) (*UserView, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}
