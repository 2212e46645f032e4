package ports

import (
	"context"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects. Name
// uniqueness is ultimately enforced by the store's unique index, surfaced as
// domain.ErrProjectNameTaken.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	// Delete removes the project together with every assignment and bug
	// scoped to it, in a single transaction. Returns
	// domain.ErrProjectNotFound when id does not exist.
	Delete(ctx context.Context, id string) error
}
