// Package token issues and verifies the stateless session tokens handed to
// signed-in clients.
//
// A token is a signed JWT carrying the user's id, email, name and picture plus
// the upstream provider's access token. It is never stored server side and
// expires after Config.MaxAge (90 days by default). Projecting a token back
// into a SessionView reads the claims only; it does not consult storage, so
// the view reflects the user as of sign-in.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set of a session token.
type Claims struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Picture     string `json:"picture,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
	jwt.RegisteredClaims
}

// Token is an issued session token.
type Token struct {
	// Raw is the signed compact form handed to the client.
	Raw    string
	Claims Claims
}

// IssuedAt returns the iat claim.
func (t Token) IssuedAt() time.Time {
	if t.Claims.IssuedAt == nil {
		return time.Time{}
	}

	return t.Claims.IssuedAt.Time
}

// ExpiresAt returns the exp claim.
func (t Token) ExpiresAt() time.Time {
	if t.Claims.ExpiresAt == nil {
		return time.Time{}
	}

	return t.Claims.ExpiresAt.Time
}

// Config is shared by Issuer and Projector.
type Config struct {
	// Issuer is written to and required in the iss claim.
	Issuer string
	// MaxAge is the token lifetime.
	MaxAge time.Duration
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}
