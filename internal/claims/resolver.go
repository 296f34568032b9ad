// Package claims decides the extra claims embedded in an access token at
// issuance time.
package claims

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Skotchmaster/stores_api/internal/models"
)

type Claims struct {
	IsAdmin bool
}

type Resolver interface {
	Resolve(ctx context.Context, userID string) (Claims, error)
}

type ResolverFunc func(ctx context.Context, userID string) (Claims, error)

func (f ResolverFunc) Resolve(ctx context.Context, userID string) (Claims, error) {
	return f(ctx, userID)
}

// StaticAdmins grants is_admin to a fixed set of user ids.
type StaticAdmins struct {
	ids map[string]struct{}
}

func NewStaticAdmins(ids ...string) StaticAdmins {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return StaticAdmins{ids: set}
}

func (s StaticAdmins) Resolve(_ context.Context, userID string) (Claims, error) {
	_, ok := s.ids[userID]
	return Claims{IsAdmin: ok}, nil
}

var ErrUnknownUser = errors.New("unknown user")

type RoleSource interface {
	UserRole(ctx context.Context, id uint) (string, error)
}

// RoleLookup grants is_admin to users whose stored role is admin. Users that
// no longer exist resolve to a non-admin claim set.
type RoleLookup struct {
	Source RoleSource
}

func (r RoleLookup) Resolve(ctx context.Context, userID string) (Claims, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return Claims{}, nil
	}
	role, err := r.Source.UserRole(ctx, uint(id))
	if errors.Is(err, ErrUnknownUser) {
		return Claims{}, nil
	}
	if err != nil {
		return Claims{}, err
	}
	return Claims{IsAdmin: role == models.RoleAdmin}, nil
}

// Any grants is_admin when at least one resolver does.
func Any(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, userID string) (Claims, error) {
		var out Claims
		for _, r := range resolvers {
			c, err := r.Resolve(ctx, userID)
			if err != nil {
				return Claims{}, err
			}
			out.IsAdmin = out.IsAdmin || c.IsAdmin
		}
		return out, nil
	})
}
