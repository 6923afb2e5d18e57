package ports

import (
	"context"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// RegisterInput carries the data of a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	PhoneNo   string
	Address   string
	Email     string
	Password  string
}

// UpdateUserInput is a partial profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	PhoneNo   *string
	Address   *string
	Email     *string
	Role      *domain.Role
	Status    *string
}

// AccountService implements registration, authentication and account
// management.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error)
	ConfirmEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateCredit(ctx context.Context, userID string, delta int64) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

