package domain

// TokenPurpose scopes what a signed token may be used for.
type TokenPurpose string

const (
	PurposeAccess        TokenPurpose = "access"
	PurposeConfirmEmail  TokenPurpose = "confirm_email"
	PurposeResetPassword TokenPurpose = "reset_password"
)

// TokenClaims is the identity carried by a signed token. User is only set on
// access tokens issued at login.
type TokenClaims struct {
	UserID  string
	User    *PublicUser
	Purpose TokenPurpose
}

// Role returns the role of the embedded user, or "" when none is embedded.
func (c *TokenClaims) Role() Role {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Role
}
