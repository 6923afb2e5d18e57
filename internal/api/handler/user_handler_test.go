package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
	"github.com/famcare/caregiving-api/internal/pkg/pagination"
)

func newUserHandler(acc *stubAccountService, dash *stubDashboardService, msgs *stubMessageService) *UserHandler {
	if acc == nil {
		acc = &stubAccountService{}
	}
	if dash == nil {
		dash = &stubDashboardService{}
	}
	if msgs == nil {
		msgs = &stubMessageService{}
	}
	return NewUserHandler(acc, dash, msgs, zerolog.Nop())
}

func TestUserHandler_Register_Success(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.FirstName != "Ada" || in.Email != "ada@example.com" || in.Password != "secret123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: "u1", FirstName: in.FirstName, Email: in.Email, PasswordHash: "hash", Role: domain.RoleUser}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodPost, "/api/users/register",
		`{"firstName":"Ada","email":"ada@example.com","password":"secret123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["role"] != "user" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestUserHandler_Register_Validation(t *testing.T) {
	h := newUserHandler(nil, nil, nil)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"firstName":`, http.StatusBadRequest},
		{"missing email", `{"firstName":"Ada","password":"secret123"}`, http.StatusUnprocessableEntity},
		{"bad email", `{"firstName":"Ada","email":"nope","password":"secret123"}`, http.StatusUnprocessableEntity},
		{"short password", `{"firstName":"Ada","email":"a@b.com","password":"123"}`, http.StatusUnprocessableEntity},
		{"long password", `{"firstName":"Ada","email":"a@b.com","password":"` + strings.Repeat("x", 73) + `"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/api/users/register", tt.body)
			err := h.Register(c)
			if got := statusOf(err); got != tt.want {
				t.Fatalf("expected %d, got %d (%v)", tt.want, got, err)
			}
		})
	}
}

func TestUserHandler_Register_UserExists(t *testing.T) {
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, _ := newContext(http.MethodPost, "/api/users/register",
		`{"firstName":"Ada","email":"ada@example.com","password":"secret123"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserHandler_Login(t *testing.T) {
	stub := &stubAccountService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.PublicUser, error) {
			if password != "secret123" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "tok", &domain.PublicUser{ID: "u1", Email: email}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	c, _ = newContext(http.MethodPost, "/api/users/login", `{"email":"a@b.com","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserHandler_ForgotPassword_SameResponseForUnknownEmail(t *testing.T) {
	stub := &stubAccountService{
		forgotFn: func(ctx context.Context, email string) error {
			if email == "known@example.com" {
				return nil
			}
			return domain.ErrUserNotFound
		},
	}
	h := newUserHandler(stub, nil, nil)

	var bodies []string
	for _, email := range []string{"known@example.com", "ghost@example.com"} {
		c, rec := newContext(http.MethodPost, "/api/users/forgot-password", fmt.Sprintf(`{"email":%q}`, email))
		if err := h.ForgotPassword(c); err != nil {
			t.Fatalf("handler error for %s: %v", email, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("responses differ: %q vs %q", bodies[0], bodies[1])
	}
}

func TestUserHandler_ForgotPassword_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("db down")
	stub := &stubAccountService{
		forgotFn: func(ctx context.Context, email string) error { return boom },
	}
	h := newUserHandler(stub, nil, nil)

	c, _ := newContext(http.MethodPost, "/api/users/forgot-password", `{"email":"a@b.com"}`)
	if err := h.ForgotPassword(c); !errors.Is(err, boom) {
		t.Fatalf("expected db error, got %v", err)
	}
}

func TestUserHandler_ConfirmEmail(t *testing.T) {
	var got string
	stub := &stubAccountService{
		confirmFn: func(ctx context.Context, token string) error {
			got = token
			return nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodGet, "/api/users/confirmation/abc", "")
	c.SetParamNames("token")
	c.SetParamValues("abc")
	if err := h.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "abc" || rec.Code != http.StatusOK {
		t.Fatalf("token=%q code=%d", got, rec.Code)
	}
}

func TestUserHandler_ChangePassword_UsesCaller(t *testing.T) {
	stub := &stubAccountService{
		changePasswordFn: func(ctx context.Context, userID, oldPassword, newPassword string) error {
			if userID != "u1" || oldPassword != "old-pass" || newPassword != "new-pass" {
				t.Fatalf("unexpected args: %s %s %s", userID, oldPassword, newPassword)
			}
			return nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodPost, "/api/users/change-password", `{"oldPassword":"old-pass","newPassword":"new-pass"}`)
	authenticate(c, "u1", domain.RoleUser)
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_PasswordTooLong(t *testing.T) {
	h := newUserHandler(nil, nil, nil)
	long := strings.Repeat("x", 73)

	c, _ := newContext(http.MethodPost, "/api/users/reset-password", `{"token":"t","newPassword":"`+long+`"}`)
	if got := statusOf(h.ResetPassword(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("reset: expected 422, got %d", got)
	}

	c, _ = newContext(http.MethodPost, "/api/users/change-password", `{"oldPassword":"old-pass","newPassword":"`+long+`"}`)
	authenticate(c, "u1", domain.RoleUser)
	if got := statusOf(h.ChangePassword(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("change: expected 422, got %d", got)
	}
}

func TestUserHandler_ChangePassword_RequiresClaims(t *testing.T) {
	h := newUserHandler(nil, nil, nil)

	c, _ := newContext(http.MethodPost, "/api/users/change-password", `{"oldPassword":"a","newPassword":"bbbbbb"}`)
	if got := statusOf(h.ChangePassword(c)); got != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", got)
	}
}

func TestUserHandler_Dashboard(t *testing.T) {
	dash := &stubDashboardService{
		dashboardFn: func(ctx context.Context, userID string) (*domain.Dashboard, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user %s", userID)
			}
			return &domain.Dashboard{MessageCount: 3, UserCredit: 42}, nil
		},
	}
	h := newUserHandler(nil, dash, nil)

	c, rec := newContext(http.MethodGet, "/api/users/home/dashboard", "")
	authenticate(c, "u1", domain.RoleUser)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp domain.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp != (domain.Dashboard{MessageCount: 3, UserCredit: 42}) {
		t.Fatalf("unexpected dashboard: %+v", resp)
	}
}

func TestUserHandler_MyMessages_Paginates(t *testing.T) {
	msgs := &stubMessageService{
		listByUserFn: func(ctx context.Context, userID string) ([]*domain.Message, error) {
			out := make([]*domain.Message, 12)
			for i := range out {
				out[i] = &domain.Message{ID: fmt.Sprintf("m%d", i), User: userID}
			}
			return out, nil
		},
	}
	h := newUserHandler(nil, nil, msgs)

	c, rec := newContext(http.MethodGet, "/api/users/home/my-messages?page=2", "")
	authenticate(c, "u1", domain.RoleUser)
	if err := h.MyMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var page pagination.Page[domain.Message]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if page.Page != 2 || page.PageSize != 10 || page.Total != 12 || len(page.Data) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.HasNextPage || !page.HasPreviousPage {
		t.Fatalf("unexpected navigation flags: %+v", page)
	}
	if page.PreviousPageURL == nil || *page.PreviousPageURL != "/api/users/home/my-messages?page=1&pageSize=10" {
		t.Fatalf("unexpected previous url: %v", page.PreviousPageURL)
	}
}

func TestUserHandler_List_HidesPasswords(t *testing.T) {
	stub := &stubAccountService{
		listFn: func(ctx context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "u1", PasswordHash: "h1"},
				{ID: "u2", PasswordHash: "h2"},
			}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodGet, "/api/users?pageSize=1", "")
	authenticate(c, "admin", domain.RoleAdmin)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var page pagination.Page[domain.PublicUser]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if page.TotalPages != 2 || len(page.Data) != 1 || page.Data[0].ID != "u1" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if strings.Contains(rec.Body.String(), "h1") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestUserHandler_Get_SelfOrAdmin(t *testing.T) {
	stub := &stubAccountService{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	tests := []struct {
		name    string
		caller  string
		role    domain.Role
		wantErr error
	}{
		{"self", "u1", domain.RoleUser, nil},
		{"admin", "root", domain.RoleAdmin, nil},
		{"other user", "u2", domain.RoleUser, domain.ErrForbidden},
		{"helper", "h1", domain.RoleHelper, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/api/users/u1", "")
			c.SetParamNames("id")
			c.SetParamValues("u1")
			authenticate(c, tt.caller, tt.role)

			err := h.Get(c)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUserHandler_Update_MapsRole(t *testing.T) {
	stub := &stubAccountService{
		updateFn: func(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
			if in.Role == nil || *in.Role != domain.RoleHelper {
				t.Fatalf("role not mapped: %+v", in)
			}
			if in.FirstName != nil {
				t.Fatalf("absent field must stay nil")
			}
			return &domain.User{ID: userID, Role: *in.Role}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodPut, "/api/users/u1", `{"role":"helper"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPut, "/api/users/u1", `{"role":"superuser"}`)
	if got := statusOf(h.Update(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestUserHandler_Delete_AdminForbidden(t *testing.T) {
	stub := &stubAccountService{
		deleteFn: func(ctx context.Context, userID string) error {
			if userID == "admin" {
				return domain.ErrForbidden
			}
			return nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodDelete, "/api/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodDelete, "/api/users/admin", "")
	c.SetParamNames("id")
	c.SetParamValues("admin")
	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_UpdateCredit_AcceptsNegative(t *testing.T) {
	stub := &stubAccountService{
		updateCreditFn: func(ctx context.Context, userID string, delta int64) (*domain.User, error) {
			return &domain.User{ID: userID, Credit: 50 + delta}, nil
		},
	}
	h := newUserHandler(stub, nil, nil)

	c, rec := newContext(http.MethodPut, "/api/users/u1/credit", `{"credit":-100}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := h.UpdateCredit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Credit != -50 {
		t.Fatalf("expected credit -50, got %d", resp.Credit)
	}
}
