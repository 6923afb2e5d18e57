package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// MessageService implements the family-member message use cases.
type MessageService struct {
	messages ports.MessageRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewMessageService(messages ports.MessageRepository, logger zerolog.Logger) *MessageService {
	return &MessageService{
		messages: messages,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a message owned by in.Owner. Bodies mentioning banking or
// credential keywords are flagged as suspicious.
func (s *MessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	if in.Owner == "" || in.Helper == "" {
		return nil, fmt.Errorf("%w: owner and helper are required", domain.ErrValidation)
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = domain.MessageStatusPending
	}

	now := s.now()
	msg := &domain.Message{
		ID:         uuid.NewString(),
		Helper:     in.Helper,
		User:       in.Owner,
		Patient:    in.Patient,
		Email:      in.Email,
		Body:       in.Body,
		Status:     status,
		Suspicious: domain.IsSuspicious(in.Body),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	if created.Suspicious {
		s.logger.Warn().Str("message_id", created.ID).Str("user_id", created.User).Msg("suspicious message stored")
	}
	return created, nil
}

func (s *MessageService) List(ctx context.Context) ([]*domain.Message, error) {
	return s.messages.FindAll(ctx)
}

func (s *MessageService) ListByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.messages.FindByUserID(ctx, userID)
}

func (s *MessageService) Get(ctx context.Context, id string) (*domain.Message, error) {
	return s.messages.FindByID(ctx, id)
}

// UpdateStatus changes the status of a message. Ownership is never touched.
func (s *MessageService) UpdateStatus(ctx context.Context, id, status string) (*domain.Message, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", domain.ErrValidation)
	}
	if _, err := s.messages.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.messages.Update(ctx, id, domain.MessagePatch{Status: &status})
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if _, err := s.messages.FindByID(ctx, id); err != nil {
		return err
	}
	return s.messages.Delete(ctx, id)
}
