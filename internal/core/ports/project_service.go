package ports

import (
	"context"
	"time"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// ProjectMember identifies a user assigned to a project.
type ProjectMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ProjectView is a project plus its membership list and bug-id list.
type ProjectView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Users       []ProjectMember `json:"users"`
	Bugs        []string        `json:"bugs"`
}

// ProjectService owns project management. Every operation requires the
// principal to hold the ADMIN role.
type ProjectService interface {
	List(ctx context.Context, p domain.Principal) ([]ProjectView, error)
	Get(ctx context.Context, p domain.Principal, id string) (*ProjectView, error)
	Create(ctx context.Context, p domain.Principal, name string, description *string) (*ProjectView, error)
	// Update replaces name and description; a nil description clears it.
	Update(ctx context.Context, p domain.Principal, id, name string, description *string) (*ProjectView, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

// AssignmentService creates project memberships. Removal is only a
// consequence of deleting a user or project; there is deliberately no
// unassign operation.
type AssignmentService interface {
	Assign(ctx context.Context, p domain.Principal, projectID, userID string) error
}
