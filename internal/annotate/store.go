// Package annotate implements an identity-keyed side table. Entries are keyed
// by the address of a value, never by its contents, and are dropped once the
// keyed value becomes unreachable.
package annotate

import (
	"runtime"
	"sync"
	"weak"
)

// Store associates an annotation A with individual *T values.
type Store[T, A any] struct {
	mu sync.RWMutex
	m  map[weak.Pointer[T]]A
}

// New returns an empty Store.
func New[T, A any]() *Store[T, A] {
	return &Store[T, A]{m: make(map[weak.Pointer[T]]A)}
}

// Register associates a with p, silently replacing an earlier annotation on
// the same p. A nil p is ignored.
func (s *Store[T, A]) Register(p *T, a A) {
	if p == nil {
		return
	}
	wp := weak.Make(p)
	s.mu.Lock()
	_, existed := s.m[wp]
	s.m[wp] = a
	s.mu.Unlock()
	if !existed {
		runtime.AddCleanup(p, s.evict, wp)
	}
}

// Lookup returns the annotation registered for p.
func (s *Store[T, A]) Lookup(p *T) (A, bool) {
	var zero A
	if p == nil {
		return zero, false
	}
	s.mu.RLock()
	a, ok := s.m[weak.Make(p)]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	return a, true
}

// Len reports the number of live entries.
func (s *Store[T, A]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store[T, A]) evict(wp weak.Pointer[T]) {
	s.mu.Lock()
	delete(s.m, wp)
	s.mu.Unlock()
}
