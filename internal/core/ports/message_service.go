package ports

import (
	"context"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// CreateMessageInput carries the data of a new family-member message. Owner
// is taken from the authenticated caller, never from the request body.
type CreateMessageInput struct {
	Owner   string
	Helper  string
	Patient string
	Email   string
	Body    string
	Status  string
}

// MessageService implements the family-member message use cases.
type MessageService interface {
	Create(ctx context.Context, in CreateMessageInput) (*domain.Message, error)
	List(ctx context.Context) ([]*domain.Message, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	Get(ctx context.Context, id string) (*domain.Message, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
}

// DashboardService builds the per-user summary.
type DashboardService interface {
	Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error)
}
