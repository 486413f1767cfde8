package cache

import (
	"testing"
	"time"

	"flownet/pkg/config"
)

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}
}

func TestNew_UnknownBackendFallsBack(t *testing.T) {
	c, err := New(&Options{Backend: "tarantool"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected fallback to *MemoryCache, got %T", c)
	}
}

func TestMustNew(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustNew should not panic for memory backend: %v", r)
		}
	}()

	c := MustNew(&Options{Backend: BackendMemory})
	defer c.Close()
}

func TestFromConfig(t *testing.T) {
	cfg := &config.CacheConfig{
		Driver:     "redis",
		Host:       "cache.local",
		Port:       6380,
		Password:   "pw",
		DB:         2,
		DefaultTTL: 3 * time.Minute,
		MaxEntries: 500,
	}

	opts := FromConfig(cfg)
	if opts.Backend != "redis" {
		t.Errorf("expected redis backend, got %s", opts.Backend)
	}
	if opts.RedisAddr != "cache.local:6380" {
		t.Errorf("unexpected redis addr: %s", opts.RedisAddr)
	}
	if opts.RedisDB != 2 || opts.RedisPassword != "pw" {
		t.Error("redis credentials not propagated")
	}
	if opts.DefaultTTL != 3*time.Minute || opts.MaxEntries != 500 {
		t.Error("ttl/entries not propagated")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %s", opts.Backend)
	}
	if opts.DefaultTTL <= 0 {
		t.Error("expected positive default TTL")
	}
}
