package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// AccountLinks are the frontend URLs that confirmation and reset tokens are
// appended to.
type AccountLinks struct {
	ConfirmEmailURL  string
	ResetPasswordURL string
}

// AccountService implements registration, authentication and account
// management on top of the user directory.
type AccountService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	notifier ports.Notifier
	links    AccountLinks
	logger   zerolog.Logger
	now      func() time.Time
}

func NewAccountService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	notifier ports.Notifier,
	links AccountLinks,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		links:    links,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an unconfirmed account with the user role and mails a
// confirmation link. An email owned by an active account is rejected before
// anything is written.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNo:      in.PhoneNo,
		Address:      in.Address,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusUncompleted,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(domain.TokenClaims{UserID: created.ID, Purpose: domain.PurposeConfirmEmail}, 0)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", created.ID).Msg("confirmation token not issued")
		return created, nil
	}
	s.notifier.Notify(ctx, created.Email, "Email confirmation",
		"Please confirm your email by clicking on the following link: "+s.links.ConfirmEmailURL+token)

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and issues an access token embedding the
// stripped user. Unknown email and wrong password are indistinguishable.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	public := user.Public()
	token, err := s.tokens.Issue(domain.TokenClaims{UserID: user.ID, User: public, Purpose: domain.PurposeAccess}, 0)
	if err != nil {
		return "", nil, err
	}
	return token, public, nil
}

// ConfirmEmail marks the account behind a confirmation token as verified.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.verify(token, domain.PurposeConfirmEmail)
	if err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		return err
	}

	confirmed := true
	status := domain.StatusCompleted
	verifiedAt := s.now()
	_, err = s.users.Update(ctx, claims.UserID, domain.UserPatch{
		Confirmed:       &confirmed,
		Status:          &status,
		EmailVerifiedAt: &verifiedAt,
	})
	return err
}

// ForgotPassword mails a reset link to the account owning email.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(domain.TokenClaims{UserID: user.ID, Purpose: domain.PurposeResetPassword}, 0)
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, user.Email, "Password reset",
		"Please reset your password by clicking on the following link: "+s.links.ResetPasswordURL+token)
	return nil
}

// ResetPassword replaces the password of the account behind a reset token.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.verify(token, domain.PurposeResetPassword)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	s.notifier.Notify(ctx, user.Email, "Password reset", "Your password has been reset.")
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	s.notifier.Notify(ctx, user.Email, "Password changed", "Your password has been changed.")
	return nil
}

// UpdateCredit adds delta to the balance. The balance has no floor, so it
// may become negative.
func (s *AccountService) UpdateCredit(ctx context.Context, userID string, delta int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	credit := user.Credit + delta
	updated, err := s.users.Update(ctx, user.ID, domain.UserPatch{Credit: &credit})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, user.Email, "Credit recharge",
		fmt.Sprintf("Your credit has been recharged by %d.", delta))
	return updated, nil
}

// DeleteUser soft-deletes a non-admin account.
func (s *AccountService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.users.SoftDelete(ctx, user.ID); err != nil {
		return err
	}

	s.notifier.Notify(ctx, user.Email, "Account deleted", "Your account has been deleted.")
	s.logger.Info().Str("user_id", user.ID).Msg("user deleted")
	return nil
}

func (s *AccountService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateUser applies a partial profile update. A new email must not belong
// to another active account.
func (s *AccountService) UpdateUser(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Role != nil && !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *in.Role)
	}

	patch := domain.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		PhoneNo:   in.PhoneNo,
		Address:   in.Address,
		Role:      in.Role,
		Status:    in.Status,
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
				return nil, domain.ErrUserExists
			} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		patch.Email = &email
	}

	return s.users.Update(ctx, user.ID, patch)
}

func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *AccountService) setPassword(ctx context.Context, userID, password string) error {
	if password == "" {
		return domain.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = s.users.Update(ctx, userID, domain.UserPatch{PasswordHash: &hash})
	return err
}

func (s *AccountService) verify(token string, purpose domain.TokenPurpose) (*domain.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		s.logger.Warn().Str("user_id", claims.UserID).Str("purpose", string(claims.Purpose)).Msg("token used for wrong purpose")
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
