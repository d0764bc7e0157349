package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens issued by
// the admin API. The original deployment issued day-long tokens; keep that
// unless overridden via config.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims used by the admin API. Keep changes
// additive to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the authenticated user.
	Username string `json:"username,omitempty"`

	// Email of the authenticated user, lowercase-normalized.
	Email string `json:"email,omitempty"`

	// Role is either "user" or "admin".
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a user token.
func NewAccessClaims(
	subject, username, email, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Username: username,
		Email:    email,
		Role:     role,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool { return c.Role == "admin" }

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
