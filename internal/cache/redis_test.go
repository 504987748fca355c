package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/pkg/config"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"/"},
		},
		{
			name:  "multiple parts",
			parts: []string{"index_page", "/?page=2"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}

	if HashKey("/?page=1") == HashKey("/?page=2") {
		t.Error("HashKey() should differ for different URIs")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "yatube:test",
		},
		{
			name:     "key with colon",
			key:      "index_page:abc",
			expected: "yatube:index_page:abc",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "yatube:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func newRedis(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	c, err := New(&config.RedisConfig{URL: "redis://" + mr.Addr(), Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Second))
	assert.True(t, mr.Exists("yatube:k"))

	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	mr.FastForward(21 * time.Second)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	require.NoError(t, mr.Set("other:app", "keep"))
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), time.Minute))
	}

	require.NoError(t, c.Clear(ctx))

	for _, k := range []string{"a", "b", "c"} {
		_, ok, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
	assert.True(t, mr.Exists("other:app"))
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(&config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	_, isMemory := store.(*Memory)
	assert.True(t, isMemory)

	_, err = NewStore(&config.RedisConfig{Enabled: true, URL: "://bad"})
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("page")
	require.NoError(t, m.Set(ctx, "k", value, 50*time.Millisecond))
	value[0] = 'P'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "page", string(got), "stored value is a copy")

	require.Eventually(t, func() bool {
		_, ok, _ := m.Get(ctx, "k")
		return !ok
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, m.Set(ctx, "k", value, time.Minute))
	require.NoError(t, m.Clear(ctx))
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
