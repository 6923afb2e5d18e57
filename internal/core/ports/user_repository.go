package ports

import (
	"context"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// UserRepository is the user directory. Every read excludes soft-deleted
// users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsername resolves the login identifier, which is the email.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update applies patch and returns the re-read user. A user deleted in
	// between yields domain.ErrUserNotFound.
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]*domain.User, error)
}
