package cache

import (
	"context"
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{"single part", []string{"unread"}},
		{"multiple parts", []string{"unread", "user-42"}},
		{"empty parts", []string{}},
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
}

func TestHashKeyDistinct(t *testing.T) {
	if HashKey("unread", "user-1") == HashKey("unread", "user-2") {
		t.Error("HashKey() should differ for different users")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"simple key", "unread", "onestop:forum:unread"},
		{"key with colon", "unread:user-1", "onestop:forum:unread:user-1"},
		{"empty key", "", "onestop:forum:"},
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

func TestDisabledCache(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); err != ErrCacheDisabled {
		t.Errorf("Get on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Set(ctx, "k", "v", 0); err != ErrCacheDisabled {
		t.Errorf("Set on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Delete(ctx, "k"); err != ErrCacheDisabled {
		t.Errorf("Delete on nil cache = %v, want ErrCacheDisabled", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache should be a no-op, got %v", err)
	}
}
