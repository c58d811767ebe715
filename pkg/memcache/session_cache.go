// Package memcache holds short-lived in-process state with sliding expiry.
package memcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLStore maps keys to values that expire after ttl without access.
// Evicted values are passed to onEvict outside the lock.
type TTLStore[V any] struct {
	mu      sync.Mutex
	data    map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	onEvict func(key string, value V)

	janitor  bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewTTLStore[V any](ttl time.Duration, onEvict func(key string, value V)) *TTLStore[V] {
	return &TTLStore[V]{
		data:    make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
		onEvict: onEvict,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *TTLStore[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the value and pushes its expiry forward. Expired entries are
// evicted on the spot.
func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	e, ok := s.data[key]
	if !ok {
		s.mu.Unlock()
		var zero V
		return zero, false
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.data, key)
		s.mu.Unlock()
		s.evict(key, e.value)
		var zero V
		return zero, false
	}
	e.expiresAt = now.Add(s.ttl)
	s.data[key] = e
	s.mu.Unlock()
	return e.value, true
}

// Delete removes key and runs the eviction hook. It reports whether the key
// was present.
func (s *TTLStore[V]) Delete(key string) bool {
	s.mu.Lock()
	e, ok := s.data[key]
	delete(s.data, key)
	s.mu.Unlock()
	if ok {
		s.evict(key, e.value)
	}
	return ok
}

// Sweep evicts every expired entry and returns how many were removed.
func (s *TTLStore[V]) Sweep() int {
	now := s.now()
	expired := make(map[string]V)

	s.mu.Lock()
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			expired[k] = e.value
			delete(s.data, k)
		}
	}
	s.mu.Unlock()

	for k, v := range expired {
		s.evict(k, v)
	}
	return len(expired)
}

func (s *TTLStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Keys returns a snapshot of the stored keys, expired or not.
func (s *TTLStore[V]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// StartJanitor runs Sweep every interval until Stop is called.
func (s *TTLStore[V]) StartJanitor(interval time.Duration) {
	s.mu.Lock()
	if s.janitor {
		s.mu.Unlock()
		return
	}
	s.janitor = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the janitor and waits for it to exit. Safe to call when the
// janitor was never started.
func (s *TTLStore[V]) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		running := s.janitor
		s.mu.Unlock()
		if running {
			<-s.done
		}
	})
}

func (s *TTLStore[V]) evict(key string, value V) {
	if s.onEvict != nil {
		s.onEvict(key, value)
	}
}
