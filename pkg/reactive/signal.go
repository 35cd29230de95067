package reactive

import (
	"reflect"
	"sync"
)

// Signal is an observable value container.
type Signal[T any] struct {
	id uint64

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// subs are the listeners subscribed to this signal.
	subs []subscription[T]

	// subMu protects the subs slice.
	subMu sync.RWMutex

	// equal is the equality function used to determine if the value changed.
	// If nil, uses default equality checking.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if the value changed.
// Reports whether a change happened.
func (s *Signal[T]) Set(value T) bool {
	s.mu.Lock()
	prev := s.value
	changed := !s.equals(prev, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.notify(prev, value)
	}
	return changed
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new value.
func (s *Signal[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	prev := s.value
	next := fn(prev)
	changed := !s.equals(prev, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.notify(prev, next)
	}
	return changed
}

// Subscribe registers fn to run after every change.
func (s *Signal[T]) Subscribe(fn Listener[T]) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	sub := subscription[T]{id: nextID(), fn: fn}

	s.subMu.Lock()
	s.subs = append(s.subs, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(sub.id) })
	}
}

// Subscribers returns the number of attached listeners.
func (s *Signal[T]) Subscribers() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// WithEquals returns the signal configured with a custom equality function.
// This is useful for custom types where reflect.DeepEqual is too expensive
// or has incorrect semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

// unsubscribe removes a listener. Order of the remaining listeners is kept so
// notification order stays the subscription order.
func (s *Signal[T]) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, existing := range s.subs {
		if existing.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify calls every subscriber with the transition.
// Uses copy-before-notify to avoid holding locks during notification.
func (s *Signal[T]) notify(prev, next T) {
	s.subMu.RLock()
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	for _, sub := range subs {
		sub.fn(prev, next)
	}
}

// equals checks if two values are equal using the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
