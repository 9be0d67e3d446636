package cache

import (
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New(time.Minute)

	if _, hit := c.Get("/api/radio/buscar?pais=MX"); hit {
		t.Fatal("empty cache must miss")
	}

	c.Set("/api/radio/buscar?pais=MX", []byte("payload"))
	value, hit := c.Get("/api/radio/buscar?pais=MX")
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(value) != "payload" {
		t.Fatalf("unexpected cached value %q", value)
	}

	if _, hit := c.Get("/api/radio/buscar?pais=AR"); hit {
		t.Fatal("different key must miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(5*time.Minute, WithClock(func() time.Time { return now }))

	c.Set("key", []byte("v"))

	now = now.Add(4 * time.Minute)
	if _, hit := c.Get("key"); !hit {
		t.Fatal("entry must survive inside the TTL window")
	}

	now = now.Add(2 * time.Minute)
	if _, hit := c.Get("key"); hit {
		t.Fatal("entry must expire after the TTL window")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be swept on access, len=%d", c.Len())
	}
}

func TestCacheReset(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Reset()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Reset, len=%d", c.Len())
	}
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("/api/radio/buscar?pais=MX", []byte("1"))
	c.Set("/api/radio/buscar?pais=AR", []byte("2"))
	c.Set("/api/games?pagina=1", []byte("3"))

	c.InvalidatePrefix("/api/radio/")

	if _, hit := c.Get("/api/radio/buscar?pais=MX"); hit {
		t.Fatal("prefixed key must be invalidated")
	}
	if _, hit := c.Get("/api/games?pagina=1"); !hit {
		t.Fatal("unrelated key must survive")
	}
}

func TestCacheZeroTTLDisables(t *testing.T) {
	c := New(0)
	c.Set("key", []byte("v"))
	if _, hit := c.Get("key"); hit {
		t.Fatal("zero TTL must disable caching")
	}
}

func TestCacheNilSafe(t *testing.T) {
	var c *TTLCache
	c.Set("key", []byte("v"))
	c.Invalidate("key")
	c.Reset()
	if _, hit := c.Get("key"); hit {
		t.Fatal("nil cache must miss")
	}
	if c.Len() != 0 {
		t.Fatal("nil cache length must be 0")
	}
}
