package ports

import (
	"context"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// MessageRepository is the family-member message store.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) (*domain.Message, error)
	// FindAll returns every active message, newest first.
	FindAll(ctx context.Context) ([]*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// FindByUserID returns the owner's active messages, newest first.
	FindByUserID(ctx context.Context, userID string) ([]*domain.Message, error)
	Update(ctx context.Context, id string, patch domain.MessagePatch) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}
