package memcache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*TTLStore[string], *fakeClock, *[]string) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	var evicted []string
	s := NewTTLStore(ttl, func(key string, _ string) { evicted = append(evicted, key) })
	s.now = clock.Now
	return s, clock, &evicted
}

func TestTTLStoreGetRefreshesExpiry(t *testing.T) {
	s, clock, evicted := newTestStore(time.Minute)
	s.Set("a", "1")

	clock.Advance(45 * time.Second)
	if v, ok := s.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	clock.Advance(45 * time.Second)
	if _, ok := s.Get("a"); !ok {
		t.Fatal("entry expired although it was read within the ttl")
	}
	clock.Advance(2 * time.Minute)
	if _, ok := s.Get("a"); ok {
		t.Fatal("entry survived past its ttl")
	}
	if len(*evicted) != 1 || (*evicted)[0] != "a" {
		t.Errorf("evicted = %v", *evicted)
	}
}

func TestTTLStoreSweep(t *testing.T) {
	s, clock, evicted := newTestStore(time.Minute)
	s.Set("old", "1")
	clock.Advance(30 * time.Second)
	s.Set("new", "2")
	clock.Advance(45 * time.Second)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d", s.Len())
	}
	if len(*evicted) != 1 || (*evicted)[0] != "old" {
		t.Errorf("evicted = %v", *evicted)
	}
}

func TestTTLStoreDeleteRunsHook(t *testing.T) {
	s, _, evicted := newTestStore(time.Minute)
	s.Set("a", "1")

	if !s.Delete("a") {
		t.Fatal("Delete(a) = false")
	}
	if s.Delete("a") {
		t.Error("second Delete(a) = true")
	}
	if len(*evicted) != 1 {
		t.Errorf("evicted = %v", *evicted)
	}
}

func TestTTLStoreStopWithoutJanitor(t *testing.T) {
	s := NewTTLStore[int](time.Minute, nil)
	s.Stop()
	s.Stop()

	s2 := NewTTLStore[int](time.Minute, nil)
	s2.StartJanitor(time.Millisecond)
	s2.Stop()
}
