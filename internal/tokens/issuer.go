package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/stores_api/internal/claims"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resolver   claims.Resolver

	// Now is the clock used for iat/exp and for expiry checks.
	Now func() time.Time
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration, resolver claims.Resolver) *Issuer {
	if resolver == nil {
		resolver = claims.NewStaticAdmins()
	}
	return &Issuer{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resolver:   resolver,
		Now:        time.Now,
	}
}

func (i *Issuer) IssueAccess(ctx context.Context, userID string, fresh bool) (Token, error) {
	return i.issue(ctx, userID, TypeAccess, fresh, i.accessTTL)
}

// IssueRefresh never marks the token fresh.
func (i *Issuer) IssueRefresh(ctx context.Context, userID string) (Token, error) {
	return i.issue(ctx, userID, TypeRefresh, false, i.refreshTTL)
}

func (i *Issuer) issue(ctx context.Context, userID string, typ Type, fresh bool, ttl time.Duration) (Token, error) {
	if userID == "" {
		return Token{}, fmt.Errorf("issue %s token: empty subject", typ)
	}
	extra, err := i.resolver.Resolve(ctx, userID)
	if err != nil {
		return Token{}, fmt.Errorf("resolve claims: %w", err)
	}

	now := i.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()

	c := Claims{
		Type:    typ,
		Fresh:   fresh,
		IsAdmin: extra.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return Token{Raw: raw, ID: jti, ExpiresAt: exp}, nil
}

// Parse checks the signature and the time-based claims of raw. A token past
// its exp yields ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	var c Claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}

	if c.ID == "" || c.Subject == "" {
		return nil, fmt.Errorf("%w: missing jti or sub", ErrTokenInvalid)
	}
	if c.Type != TypeAccess && c.Type != TypeRefresh {
		return nil, fmt.Errorf("%w: unknown type %q", ErrTokenInvalid, c.Type)
	}
	return &c, nil
}
