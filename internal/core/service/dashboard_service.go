package service

import (
	"context"

	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

type DashboardService struct {
	users    ports.UserRepository
	messages ports.MessageRepository
}

func NewDashboardService(users ports.UserRepository, messages ports.MessageRepository) *DashboardService {
	return &DashboardService{users: users, messages: messages}
}

// Dashboard returns the message count and credit of an existing user. The
// credit is re-read after counting and falls back to 0 when that read fails.
func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.messages.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	d := &domain.Dashboard{MessageCount: count}
	if current, err := s.users.FindByID(ctx, user.ID); err == nil {
		d.UserCredit = current.Credit
	}
	return d, nil
}
