package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation forbidden")
	ErrValidation         = errors.New("validation failed")

	// ErrInvalidToken and ErrExpiredToken both surface as an authentication
	// failure; they stay distinct so the cause can be logged.
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
