package claims

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stores_api/internal/models"
)

type fakeRoles map[uint]string

func (f fakeRoles) UserRole(_ context.Context, id uint) (string, error) {
	role, ok := f[id]
	if !ok {
		return "", ErrUnknownUser
	}
	return role, nil
}

func TestStaticAdmins(t *testing.T) {
	t.Parallel()

	r := NewStaticAdmins("1", " 7 ", "")
	tests := []struct {
		id   string
		want bool
	}{
		{id: "1", want: true},
		{id: "7", want: true},
		{id: "2", want: false},
		{id: "", want: false},
	}

	for _, tt := range tests {
		c, err := r.Resolve(context.Background(), tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.IsAdmin, "id=%q", tt.id)
	}
}

func TestRoleLookup(t *testing.T) {
	t.Parallel()

	r := RoleLookup{Source: fakeRoles{3: models.RoleAdmin, 4: models.RoleUser}}
	ctx := context.Background()

	c, err := r.Resolve(ctx, "3")
	require.NoError(t, err)
	assert.True(t, c.IsAdmin)

	c, err = r.Resolve(ctx, "4")
	require.NoError(t, err)
	assert.False(t, c.IsAdmin)

	c, err = r.Resolve(ctx, "99")
	require.NoError(t, err)
	assert.False(t, c.IsAdmin)

	c, err = r.Resolve(ctx, "not-a-number")
	require.NoError(t, err)
	assert.False(t, c.IsAdmin)
}

func TestAny(t *testing.T) {
	t.Parallel()

	r := Any(NewStaticAdmins("1"), RoleLookup{Source: fakeRoles{5: models.RoleAdmin}})
	for id, want := range map[string]bool{"1": true, "5": true, "2": false} {
		c, err := r.Resolve(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, c.IsAdmin, "id=%s", id)
	}
}

func TestAny_PropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	r := Any(NewStaticAdmins("1"), ResolverFunc(func(context.Context, string) (Claims, error) {
		return Claims{}, boom
	}))

	_, err := r.Resolve(context.Background(), "1")
	assert.ErrorIs(t, err, boom)
}
