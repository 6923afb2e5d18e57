package ports

import (
	"time"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords. Verify never errors: any
// mismatch or malformed hash is simply false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService issues and verifies stateless signed tokens.
type TokenService interface {
	Issue(claims domain.TokenClaims, ttl time.Duration) (string, error)
	// Verify returns domain.ErrExpiredToken or domain.ErrInvalidToken on
	// failure.
	Verify(token string) (*domain.TokenClaims, error)
	TTL() time.Duration
}
