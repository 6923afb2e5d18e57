package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/famcare/caregiving-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// Claims is the JWT payload: {id, user?, purpose} plus the registered
// exp/iat claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string              `json:"id"`
	User    *domain.PublicUser  `json:"user,omitempty"`
	Purpose domain.TokenPurpose `json:"purpose"`
}

// JWTService implements ports.TokenService with HS256 tokens. Tokens are
// stateless and cannot be revoked before they expire.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption customises a JWTService.
type JWTOption func(*JWTService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWTService returns a token service signing with secret. A non-positive
// ttl falls back to 24h.
func NewJWTService(secret string, ttl time.Duration, opts ...JWTOption) *JWTService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured default validity.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs claims valid for ttl, or for the default TTL when ttl <= 0.
func (s *JWTService) Issue(c domain.TokenClaims, ttl time.Duration) (string, error) {
	if c.UserID == "" {
		return "", errors.New("issue token: missing user id")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  c.UserID,
		User:    c.User,
		Purpose: c.Purpose,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates token. Expiry yields domain.ErrExpiredToken;
// every other failure yields domain.ErrInvalidToken.
func (s *JWTService) Verify(token string) (*domain.TokenClaims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing id claim", domain.ErrInvalidToken)
	}

	return &domain.TokenClaims{
		UserID:  claims.UserID,
		User:    claims.User,
		Purpose: claims.Purpose,
	}, nil
}
