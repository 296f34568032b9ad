package revocation

import (
	"context"
	"sync"
	"time"
)

type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time)}
}

func (m *Memory) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// keep the latest known expiry so a repeated revoke never shortens the entry's life
	if prev, ok := m.revoked[jti]; ok && prev.After(expiresAt) {
		return nil
	}
	m.revoked[jti] = expiresAt
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	_, ok := m.revoked[jti]
	m.mu.RUnlock()
	return ok, nil
}

func (m *Memory) Prune(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for jti, exp := range m.revoked {
		if !exp.IsZero() && exp.Before(now) {
			delete(m.revoked, jti)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.revoked)
}
