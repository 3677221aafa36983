package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)

	value, ok := c.Get("a")
	if !ok || value != 1 {
		t.Fatalf("got (%d, %v), want (1, true)", value, ok)
	}
}

func TestGetMiss(t *testing.T) {
	c := NewTTLCache[string, int]()
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)

	if _, ok := c.Get("a"); !ok {
		t.Fatalf("zero TTL entries must not expire")
	}
}

func TestDelete(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected deleted entry to miss")
	}
}

func TestSweep(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("stale", 1, time.Nanosecond)
	c.Set("fresh", 2, time.Hour)
	c.Set("pinned", 3, 0)
	time.Sleep(time.Millisecond)

	if removed := c.Sweep(time.Now()); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Fatalf("fresh entry must survive sweep")
	}
	if _, ok := c.Get("pinned"); !ok {
		t.Fatalf("pinned entry must survive sweep")
	}
}

func TestNoopCache(t *testing.T) {
	var c NoopCache[string, int]
	c.Set("a", 1, time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("noop cache must always miss")
	}
}
