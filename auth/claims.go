package auth

import (
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/huzzdev/sincrolab-backend/account"
)

// SessionClaims is the payload carried by a session token. Email and Role
// are copied from the account at issuance and are not refreshed while the
// token lives.
type SessionClaims struct {
	Email string       `json:"email"`
	Role  account.Role `json:"role"`
	gojwt.RegisteredClaims
}

// Registered exposes the standard claims to the token codec.
func (c *SessionClaims) Registered() *gojwt.RegisteredClaims { return &c.RegisteredClaims }

// Payload returns the client-facing identity.
func (c *SessionClaims) Payload() Payload {
	return Payload{Sub: c.Subject, Email: c.Email, Role: c.Role}
}

// Payload is the identity returned to clients alongside a token.
type Payload struct {
	Sub   string       `json:"sub"`
	Email string       `json:"email"`
	Role  account.Role `json:"role"`
}

// Session is the result of a successful registration or sign-in.
type Session struct {
	User        Payload `json:"user"`
	AccessToken string  `json:"access_token"`
}
