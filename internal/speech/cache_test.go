package speech

import (
	"bytes"
	"errors"
	"testing"
)

func TestCachePutGet(t *testing.T) {
	c, err := NewCache(1 << 20)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close() //nolint:errcheck

	value := bytes.Repeat([]byte("speech"), 1000)
	if err := c.Put("k", value); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected a hit")
	}
	if !bytes.Equal(got, value) {
		t.Error("value did not survive compression")
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected a miss")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Size >= stats.Raw {
		t.Errorf("compressed size %d should be below raw size %d", stats.Size, stats.Raw)
	}
}

func TestCacheEviction(t *testing.T) {
	c, err := NewCache(1 << 20)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close() //nolint:errcheck

	a := c.encoder.EncodeAll(monoPCM(20000), nil)
	c.capacity = int64(len(a))*2 + 1

	_ = c.Put("a", monoPCM(20000))
	_ = c.Put("b", monoPCM(20000))
	c.Get("a") // a becomes most recent
	_ = c.Put("c", monoPCM(20000))

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry should survive")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestCacheTooLarge(t *testing.T) {
	c, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer c.Close() //nolint:errcheck

	if err := c.Put("big", monoPCM(5000)); !errors.Is(err, ErrItemTooLarge) {
		t.Errorf("Put = %v, want ErrItemTooLarge", err)
	}
}

func TestNewCacheRejectsZero(t *testing.T) {
	if _, err := NewCache(0); err == nil {
		t.Error("zero capacity should fail")
	}
}

func TestCacheKey(t *testing.T) {
	if CacheKey("a", "bc") == CacheKey("ab", "c") {
		t.Error("keys must separate parts")
	}
	if CacheKey("x", "1.00") != CacheKey("x", "1.00") {
		t.Error("keys must be stable")
	}
}
