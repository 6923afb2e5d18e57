package handler

import (
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/pkg/pagination"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse acknowledges operations that return no resource.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"max=100"`
	PhoneNo   string `json:"phoneNo"   validate:"max=30"`
	Address   string `json:"address"   validate:"max=255"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string             `json:"token"`
	User  *domain.PublicUser `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=100"`
	PhoneNo   *string `json:"phoneNo"   validate:"omitempty,max=30"`
	Address   *string `json:"address"   validate:"omitempty,max=255"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Role      *string `json:"role"      validate:"omitempty,oneof=admin user helper"`
	Status    *string `json:"status"    validate:"omitempty,max=50"`
}

type updateCreditRequest struct {
	Credit int64 `json:"credit" validate:"required"`
}

// userPage is a page of users, declared for the API docs.
type userPage = pagination.Page[*domain.PublicUser]

// --- Family-member messages ---

type createMessageRequest struct {
	Helper  string `json:"helper"  validate:"required"`
	Patient string `json:"patient" validate:"max=255"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Body    string `json:"body"    validate:"max=5000"`
	Status  string `json:"status"  validate:"max=50"`
}

type updateMessageRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

// messagePage is a page of messages, declared for the API docs.
type messagePage = pagination.Page[*domain.Message]
