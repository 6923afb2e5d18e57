package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
	"github.com/famcare/caregiving-api/internal/pkg/pagination"
)

func TestMessageHandler_Create_OwnerFromClaims(t *testing.T) {
	stub := &stubMessageService{
		createFn: func(ctx context.Context, in ports.CreateMessageInput) (*domain.Message, error) {
			if in.Owner != "u1" {
				t.Fatalf("owner must come from claims, got %q", in.Owner)
			}
			return &domain.Message{
				ID:         "m1",
				User:       in.Owner,
				Helper:     in.Helper,
				Body:       in.Body,
				Status:     domain.MessageStatusPending,
				Suspicious: domain.IsSuspicious(in.Body),
			}, nil
		},
	}
	h := NewMessageHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/family-members",
		`{"helper":"h1","body":"send me your bank details","user":"someone-else"}`)
	authenticate(c, "u1", domain.RoleUser)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User != "u1" || !resp.Suspicious || resp.Status != "pending" {
		t.Fatalf("unexpected message: %+v", resp)
	}
}

func TestMessageHandler_Create_RequiresHelper(t *testing.T) {
	h := NewMessageHandler(&stubMessageService{})

	c, _ := newContext(http.MethodPost, "/api/family-members", `{"body":"hello"}`)
	authenticate(c, "u1", domain.RoleUser)
	if got := statusOf(h.Create(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestMessageHandler_ListByUser(t *testing.T) {
	stub := &stubMessageService{
		listByUserFn: func(ctx context.Context, userID string) ([]*domain.Message, error) {
			out := make([]*domain.Message, 7)
			for i := range out {
				out[i] = &domain.Message{ID: fmt.Sprintf("m%d", i), User: userID}
			}
			return out, nil
		},
	}
	h := NewMessageHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/family-members/user/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	authenticate(c, "u1", domain.RoleUser)
	if err := h.ListByUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var page pagination.Page[domain.Message]
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if page.PageSize != 5 || page.TotalPages != 2 || len(page.Data) != 5 {
		t.Fatalf("unexpected page: %+v", page)
	}

	c, _ = newContext(http.MethodGet, "/api/family-members/user/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	authenticate(c, "u2", domain.RoleUser)
	if err := h.ListByUser(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMessageHandler_Get_Ownership(t *testing.T) {
	stub := &stubMessageService{
		getFn: func(ctx context.Context, id string) (*domain.Message, error) {
			if id != "m1" {
				return nil, domain.ErrMessageNotFound
			}
			return &domain.Message{ID: "m1", User: "owner"}, nil
		},
	}
	h := NewMessageHandler(stub)

	tests := []struct {
		name    string
		id      string
		caller  string
		role    domain.Role
		wantErr error
	}{
		{"owner", "m1", "owner", domain.RoleUser, nil},
		{"admin", "m1", "root", domain.RoleAdmin, nil},
		{"stranger", "m1", "other", domain.RoleUser, domain.ErrForbidden},
		{"missing", "m9", "owner", domain.RoleUser, domain.ErrMessageNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/api/family-members/"+tt.id, "")
			c.SetParamNames("id")
			c.SetParamValues(tt.id)
			authenticate(c, tt.caller, tt.role)

			if err := h.Get(c); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMessageHandler_UpdateStatus(t *testing.T) {
	stub := &stubMessageService{
		getFn: func(ctx context.Context, id string) (*domain.Message, error) {
			return &domain.Message{ID: id, User: "owner", Status: "pending"}, nil
		},
		updateStatusFn: func(ctx context.Context, id, status string) (*domain.Message, error) {
			return &domain.Message{ID: id, User: "owner", Status: status}, nil
		},
	}
	h := NewMessageHandler(stub)

	c, rec := newContext(http.MethodPatch, "/api/family-members/m1", `{"status":"read"}`)
	c.SetParamNames("id")
	c.SetParamValues("m1")
	authenticate(c, "owner", domain.RoleUser)
	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "read" || resp.User != "owner" {
		t.Fatalf("unexpected message: %+v", resp)
	}

	c, _ = newContext(http.MethodPatch, "/api/family-members/m1", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("m1")
	authenticate(c, "owner", domain.RoleUser)
	if got := statusOf(h.UpdateStatus(c)); got != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", got)
	}
}

func TestMessageHandler_Delete(t *testing.T) {
	stub := &stubMessageService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "m1" {
				return domain.ErrMessageNotFound
			}
			return nil
		},
	}
	h := NewMessageHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/family-members/m1", "")
	c.SetParamNames("id")
	c.SetParamValues("m1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodDelete, "/api/family-members/m2", "")
	c.SetParamNames("id")
	c.SetParamValues("m2")
	if err := h.Delete(c); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
