package handler

import (
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhoneNo:   req.PhoneNo,
		Address:   req.Address,
		Email:     req.Email,
		Password:  req.Password,
	}
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	in := ports.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PhoneNo:   req.PhoneNo,
		Address:   req.Address,
		Email:     req.Email,
		Status:    req.Status,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	return in
}

func toCreateMessageInput(req createMessageRequest, owner string) ports.CreateMessageInput {
	return ports.CreateMessageInput{
		Owner:   owner,
		Helper:  req.Helper,
		Patient: req.Patient,
		Email:   req.Email,
		Body:    req.Body,
		Status:  req.Status,
	}
}

// --- Domain → Response ---

func toPublicUser(u *domain.User) *domain.PublicUser {
	return u.Public()
}
