package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

type Claims struct {
	Type    Type `json:"type"`
	Fresh   bool `json:"fresh"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// Token is a signed token together with the parts callers need without
// parsing it again.
type Token struct {
	Raw       string
	ID        string
	ExpiresAt time.Time
}

func (c *Claims) UserID() string { return c.Subject }

func (c *Claims) JTI() string { return c.ID }

// Expiry returns the exp claim, or the zero time when it is absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
