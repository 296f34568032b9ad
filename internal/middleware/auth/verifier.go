package auth

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/stores_api/internal/revocation"
	"github.com/Skotchmaster/stores_api/internal/tokens"
)

type TokenParser interface {
	Parse(raw string) (*tokens.Claims, error)
}

type Verifier struct {
	Tokens   TokenParser
	Registry revocation.Registry
}

func NewVerifier(p TokenParser, r revocation.Registry) *Verifier {
	return &Verifier{Tokens: p, Registry: r}
}

// Verify checks raw in a fixed order: presence, signature and expiry, token
// type, then the revocation registry. Freshness is left to the Fresh guard.
func (v *Verifier) Verify(ctx context.Context, raw string, want tokens.Type) (*tokens.Claims, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}

	c, err := v.Tokens.Parse(raw)
	if err != nil {
		return nil, err
	}

	if c.Type != want {
		if want == tokens.TypeRefresh {
			return nil, ErrRefreshTokenRequired
		}
		return nil, ErrFreshTokenRequired
	}

	revoked, err := v.Registry.IsRevoked(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return c, nil
}
