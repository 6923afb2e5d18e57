package domain

import "time"

// Role is the access level of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleHelper Role = "helper"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleHelper:
		return true
	}
	return false
}

// Account lifecycle tags stored in User.Status.
const (
	StatusUncompleted = "uncompleted"
	StatusCompleted   = "completed"
)

// User models a registered account. PasswordHash never leaves the process.
type User struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	PhoneNo         string     `json:"phoneNo"`
	Address         string     `json:"address,omitempty"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Status          string     `json:"status"`
	Confirmed       bool       `json:"confirmed"`
	Credit          int64      `json:"credit"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
}

// Active reports whether the account has not been soft-deleted.
func (u *User) Active() bool {
	return u.DeletedAt == nil
}

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns the copy of u that may be embedded in tokens and responses.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		PhoneNo:         u.PhoneNo,
		Address:         u.Address,
		Email:           u.Email,
		Role:            u.Role,
		Status:          u.Status,
		Confirmed:       u.Confirmed,
		Credit:          u.Credit,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// PublicUser is a User without credentials.
type PublicUser struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	PhoneNo         string     `json:"phoneNo"`
	Address         string     `json:"address,omitempty"`
	Email           string     `json:"email"`
	Role            Role       `json:"role"`
	Status          string     `json:"status"`
	Confirmed       bool       `json:"confirmed"`
	Credit          int64      `json:"credit"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left
// untouched.
type UserPatch struct {
	FirstName       *string
	LastName        *string
	PhoneNo         *string
	Address         *string
	Email           *string
	PasswordHash    *string
	Role            *Role
	Status          *string
	Confirmed       *bool
	Credit          *int64
	EmailVerifiedAt *time.Time
}

// Apply copies the non-nil fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.PhoneNo != nil {
		u.PhoneNo = *p.PhoneNo
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Confirmed != nil {
		u.Confirmed = *p.Confirmed
	}
	if p.Credit != nil {
		u.Credit = *p.Credit
	}
	if p.EmailVerifiedAt != nil {
		t := *p.EmailVerifiedAt
		u.EmailVerifiedAt = &t
	}
}

// Dashboard is the per-user home screen summary.
type Dashboard struct {
	MessageCount int64 `json:"messageCount"`
	UserCredit   int64 `json:"userCredit"`
}
