package revocation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stores_api/internal/db/dbtest"
)

type registryUnderTest interface {
	Registry
	Pruner
}

func backends(t *testing.T) map[string]registryUnderTest {
	t.Helper()
	return map[string]registryUnderTest{
		"memory": NewMemory(),
		"db":     NewStore(dbtest.Open(t)),
	}
}

func TestRegistry_RevokeIsPermanentAndIdempotent(t *testing.T) {
	t.Parallel()

	for name, r := range backends(t) {
		r := r
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			exp := time.Now().Add(time.Hour)

			revoked, err := r.IsRevoked(ctx, "jti-1")
			require.NoError(t, err)
			assert.False(t, revoked)

			for i := 0; i < 3; i++ {
				require.NoError(t, r.Revoke(ctx, "jti-1", exp))
				revoked, err = r.IsRevoked(ctx, "jti-1")
				require.NoError(t, err)
				assert.True(t, revoked)
			}

			revoked, err = r.IsRevoked(ctx, "jti-2")
			require.NoError(t, err)
			assert.False(t, revoked)
		})
	}
}

func TestRegistry_PruneDropsOnlyExpired(t *testing.T) {
	t.Parallel()

	for name, r := range backends(t) {
		r := r
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			require.NoError(t, r.Revoke(ctx, "old", now.Add(-time.Minute)))
			require.NoError(t, r.Revoke(ctx, "live", now.Add(time.Hour)))

			n, err := r.Prune(ctx, now)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			revoked, err := r.IsRevoked(ctx, "old")
			require.NoError(t, err)
			assert.False(t, revoked)

			revoked, err = r.IsRevoked(ctx, "live")
			require.NoError(t, err)
			assert.True(t, revoked)
		})
	}
}

func TestMemory_RepeatedRevokeKeepsLatestExpiry(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "a", now.Add(-time.Hour)))

	n, err := m.Prune(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, m.Len())
}

func TestMemory_ConcurrentRevokeAndLookup(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				jti := fmt.Sprintf("w%d-%d", w, i)
				_ = m.Revoke(ctx, jti, exp)
				ok, _ := m.IsRevoked(ctx, jti)
				if !ok {
					t.Errorf("jti %s not revoked right after Revoke", jti)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker, m.Len())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler("not a cron spec", NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler("@every 1h", NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
