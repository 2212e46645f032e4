package ports

import (
	"context"

	"github.com/bugtrackr/bugtrack-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Create and Update must surface the store's unique-index violation on email
// as domain.ErrEmailTaken: the service pre-check is only an optimisation for
// a fast typed error, the index is the final authority under concurrency.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the user together with every assignment and bug
	// referencing it, in a single transaction. Returns
	// domain.ErrUserNotFound when id does not exist.
	Delete(ctx context.Context, id string) error
}
