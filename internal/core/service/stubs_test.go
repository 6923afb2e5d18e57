package service

import (
	"context"
	"sort"
	"sync"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	writes int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) {
	r.users[u.ID] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Active() && u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.writes++
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.Active() {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Active() && u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.FindByEmail(ctx, username)
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || !u.Active() {
		return nil, domain.ErrUserNotFound
	}
	r.writes++
	patch.Apply(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok || !u.Active() {
		return domain.ErrUserNotFound
	}
	r.writes++
	now := u.UpdatedAt
	u.DeletedAt = &now
	return nil
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.Active() {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubMessageRepo struct {
	messages map[string]*domain.Message
	order    []string
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{messages: make(map[string]*domain.Message)}
}

func cloneMessage(m *domain.Message) *domain.Message {
	clone := *m
	return &clone
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	r.messages[m.ID] = cloneMessage(m)
	r.order = append(r.order, m.ID)
	return cloneMessage(m), nil
}

func (r *stubMessageRepo) active(match func(*domain.Message) bool) []*domain.Message {
	var out []*domain.Message
	for i := len(r.order) - 1; i >= 0; i-- {
		m := r.messages[r.order[i]]
		if m.DeletedAt == nil && match(m) {
			out = append(out, cloneMessage(m))
		}
	}
	return out
}

func (r *stubMessageRepo) FindAll(_ context.Context) ([]*domain.Message, error) {
	return r.active(func(*domain.Message) bool { return true }), nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok || m.DeletedAt != nil {
		return nil, domain.ErrMessageNotFound
	}
	return cloneMessage(m), nil
}

func (r *stubMessageRepo) FindByUserID(_ context.Context, userID string) ([]*domain.Message, error) {
	return r.active(func(m *domain.Message) bool { return m.User == userID }), nil
}

func (r *stubMessageRepo) Update(_ context.Context, id string, patch domain.MessagePatch) (*domain.Message, error) {
	m, ok := r.messages[id]
	if !ok || m.DeletedAt != nil {
		return nil, domain.ErrMessageNotFound
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.Helper != nil {
		m.Helper = *patch.Helper
	}
	return cloneMessage(m), nil
}

func (r *stubMessageRepo) Delete(_ context.Context, id string) error {
	m, ok := r.messages[id]
	if !ok || m.DeletedAt != nil {
		return domain.ErrMessageNotFound
	}
	now := m.CreatedAt
	m.DeletedAt = &now
	return nil
}

func (r *stubMessageRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	msgs, _ := r.FindByUserID(ctx, userID)
	return int64(len(msgs)), nil
}

type sentMail struct {
	to, subject, body string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *stubNotifier) Notify(_ context.Context, to, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
}

func (n *stubNotifier) last() (sentMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentMail{}, false
	}
	return n.sent[len(n.sent)-1], true
}
