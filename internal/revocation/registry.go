// Package revocation holds the blocklist of revoked token ids.
package revocation

import (
	"context"
	"time"
)

// Registry must be safe for concurrent use. Revoke is idempotent and
// permanent: once a jti is revoked, IsRevoked reports true until the entry
// is pruned after the token's own expiry.
type Registry interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Pruner drops entries whose token expired before now and returns how many
// were removed.
type Pruner interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}
