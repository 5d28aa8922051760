package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// AccountID returns the account the token was issued to.
func (c *Claims) AccountID() string {
	return c.Subject
}

// IsAdmin reports whether the token grants administrative access.
func (c *Claims) IsAdmin() bool {
	return c.Admin
}

// CanAccess reports whether the holder may act on the account with id:
// either it is their own account or they are an admin.
func (c *Claims) CanAccess(id string) bool {
	return c.Admin || c.Subject == id
}
