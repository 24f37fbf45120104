package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrQuotaExceeded is returned by a quota-limited backend when a value is
// larger than the quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is a persistent string key-value store.
type Backend interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// WithQuota wraps b so that values longer than maxBytes are rejected with
// ErrQuotaExceeded. A non-positive maxBytes returns b unchanged.
func WithQuota(b Backend, maxBytes int) Backend {
	if maxBytes <= 0 {
		return b
	}
	return &quotaBackend{Backend: b, max: maxBytes}
}

type quotaBackend struct {
	Backend
	max int
}

func (q *quotaBackend) Set(ctx context.Context, key, value string) error {
	if len(value) > q.max {
		return fmt.Errorf("set %s (%d bytes, quota %d): %w", key, len(value), q.max, ErrQuotaExceeded)
	}
	return q.Backend.Set(ctx, key, value)
}
