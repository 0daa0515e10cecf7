package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache() (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewTTLCache(WithClock[string, int](clock.Now)), clock
}

func TestTTLCache_GetSet(t *testing.T) {
	c, _ := newTestCache()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache should miss")
	}

	c.Set("a", 1, time.Minute)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", got, ok)
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	c, clock := newTestCache()
	c.Set("a", 1, time.Minute)

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should expire exactly at its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after expired read", c.Len())
	}
}

func TestTTLCache_ZeroTTLNeverExpires(t *testing.T) {
	c, clock := newTestCache()
	c.Set("a", 1, 0)

	clock.Advance(24 * time.Hour)
	if _, ok := c.Get("a"); !ok {
		t.Error("zero TTL entry should not expire")
	}
}

func TestTTLCache_SetRefreshes(t *testing.T) {
	c, clock := newTestCache()
	c.Set("a", 1, time.Minute)
	clock.Advance(50 * time.Second)
	c.Set("a", 2, time.Minute)
	clock.Advance(50 * time.Second)

	got, ok := c.Get("a")
	if !ok || got != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", got, ok)
	}
}

func TestTTLCache_DeleteAndPurge(t *testing.T) {
	c, clock := newTestCache()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, 0)

	c.Delete("c")
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	clock.Advance(2 * time.Minute)
	if n := c.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("b should survive purge")
	}
}

func TestTTLCache_NilReceiver(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1, time.Minute)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("nil cache should always miss")
	}
	if c.Len() != 0 || c.Purge() != 0 {
		t.Error("nil cache should be empty")
	}
}

func TestNoopCache(t *testing.T) {
	var c Cache[string, int] = NoopCache[string, int]{}
	c.Set("a", 1, time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("NoopCache should never hit")
	}
	if c.Len() != 0 {
		t.Error("NoopCache should be empty")
	}
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := NewTTLCache[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i, time.Minute)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}
