package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store for single-instance deployments and tests
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates an empty in-process store
func NewMemory() *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, time.Minute)}
}

// Get retrieves a value; expired entries are reported as absent
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

// Set stores a copy of value. A ttl of zero never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.items.Set(key, buf, ttl)
	return nil
}

// Clear removes every entry
func (m *Memory) Clear(_ context.Context) error {
	m.items.Flush()
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
