package reactive

import (
	"sync"
	"sync/atomic"
)

// signalIDCounter generates unique signal IDs.
var signalIDCounter uint64

// Readable is the type-erased read capability of a signal.
// The template compiler emits reads through this interface for
// expressions marked reactive; it never inspects the concrete type.
type Readable interface {
	// ReadAny returns the current value.
	ReadAny() any

	// Subscribe registers fn to run after each Set. It returns an
	// unsubscribe function.
	Subscribe(fn func()) (unsubscribe func())
}

// Signal holds a mutable value with read/subscribe semantics.
type Signal[T any] struct {
	id uint64

	mu    sync.RWMutex
	value T

	subMu  sync.Mutex
	nextID uint64
	subs   map[uint64]func()
}

// NewSignal creates a signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    atomic.AddUint64(&signalIDCounter, 1),
		value: initial,
		subs:  make(map[uint64]func()),
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	s.notify()
}

// Update applies fn to the current value and notifies subscribers.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.mu.Unlock()
	s.notify()
}

// ReadAny implements Readable.
func (s *Signal[T]) ReadAny() any {
	return s.Get()
}

// Subscribe implements Readable.
func (s *Signal[T]) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify runs all subscribers synchronously.
func (s *Signal[T]) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
