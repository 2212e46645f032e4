package ports

import (
	"context"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// AssignmentRepository defines persistence operations for the User↔Project
// join relation. The compound unique index on (user_id, project_id) is the
// final authority for pair uniqueness; Create surfaces a violation as
// domain.ErrAlreadyAssigned.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	Exists(ctx context.Context, userID, projectID string) (bool, error)
	List(ctx context.Context) ([]*domain.Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Assignment, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
}
