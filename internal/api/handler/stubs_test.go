package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/famcare/caregiving-api/internal/api/middleware"
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

type stubAccountService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (string, *domain.PublicUser, error)
	confirmFn        func(ctx context.Context, token string) error
	forgotFn         func(ctx context.Context, email string) error
	resetFn          func(ctx context.Context, token, newPassword string) error
	changePasswordFn func(ctx context.Context, userID, oldPassword, newPassword string) error
	updateCreditFn   func(ctx context.Context, userID string, delta int64) (*domain.User, error)
	deleteFn         func(ctx context.Context, userID string) error
	getFn            func(ctx context.Context, userID string) (*domain.User, error)
	updateFn         func(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error)
	listFn           func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) ConfirmEmail(ctx context.Context, token string) error {
	return s.confirmFn(ctx, token)
}

func (s *stubAccountService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetFn(ctx, token, newPassword)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAccountService) UpdateCredit(ctx context.Context, userID string, delta int64) (*domain.User, error) {
	return s.updateCreditFn(ctx, userID, delta)
}

func (s *stubAccountService) DeleteUser(ctx context.Context, userID string) error {
	return s.deleteFn(ctx, userID)
}

func (s *stubAccountService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getFn(ctx, userID)
}

func (s *stubAccountService) UpdateUser(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

func (s *stubAccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

type stubDashboardService struct {
	dashboardFn func(ctx context.Context, userID string) (*domain.Dashboard, error)
}

func (s *stubDashboardService) Dashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	return s.dashboardFn(ctx, userID)
}

type stubMessageService struct {
	createFn       func(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error)
	listFn         func(ctx context.Context) ([]*domain.Message, error)
	listByUserFn   func(ctx context.Context, userID string) ([]*domain.Message, error)
	getFn          func(ctx context.Context, id string) (*domain.Message, error)
	updateStatusFn func(ctx context.Context, id, status string) (*domain.Message, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (s *stubMessageService) Create(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
	return s.createFn(ctx, in)
}

func (s *stubMessageService) List(ctx context.Context) ([]*domain.Message, error) {
	return s.listFn(ctx)
}

func (s *stubMessageService) ListByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *stubMessageService) Get(ctx context.Context, id string) (*domain.Message, error) {
	return s.getFn(ctx, id)
}

func (s *stubMessageService) UpdateStatus(ctx context.Context, id, status string) (*domain.Message, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubMessageService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// newContext builds an echo context with the validator installed. A non-empty
// body is sent as JSON.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate sets the claims the Auth middleware would inject.
func authenticate(c echo.Context, userID string, role domain.Role) {
	claims := &domain.TokenClaims{
		UserID:  userID,
		User:    &domain.PublicUser{ID: userID, Role: role},
		Purpose: domain.PurposeAccess,
	}
	c.Set(middleware.ClaimsKey, claims)
	c.Set(middleware.UserIDKey, userID)
	c.Set(middleware.RoleKey, role)
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
