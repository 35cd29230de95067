// Package throttle bounds how often a handler may fire.
//
// A throttled handler fires on the first call, then drops every call that
// arrives before the window measured from that call has elapsed. Dropped calls
// are not queued or coalesced:
//
//	onMove := throttle.Func(50*time.Millisecond, func(y float64) {
//	    item.Report(y)
//	})
//	for _, y := range pointerSamples {
//	    onMove(y) // at most one Report per 50ms
//	}
package throttle

import (
	"sync"
	"time"
)

// DefaultWindow is the window used for pointer movement handlers.
const DefaultWindow = 50 * time.Millisecond

// Clock supplies the current time. Tests swap in a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(l *Limiter) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithDropHook sets a callback invoked for every dropped call.
func WithDropHook(fn func()) Option {
	return func(l *Limiter) {
		l.onDrop = fn
	}
}

// Limiter admits at most one call per window.
type Limiter struct {
	window time.Duration
	clock  Clock
	onDrop func()

	mu      sync.Mutex
	started bool
	start   time.Time
	dropped uint64
}

// New creates a limiter with the given window. A window <= 0 admits every call.
func New(window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		window: window,
		clock:  systemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a call arriving now may fire. A true result opens a
// new window starting now.
func (l *Limiter) Allow() bool {
	if l.window <= 0 {
		return true
	}

	l.mu.Lock()
	now := l.clock.Now()
	if l.started && now.Sub(l.start) < l.window {
		l.dropped++
		hook := l.onDrop
		l.mu.Unlock()
		if hook != nil {
			hook()
		}
		return false
	}
	l.started = true
	l.start = now
	l.mu.Unlock()
	return true
}

// Dropped returns how many calls have been rejected.
func (l *Limiter) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Window returns the configured window.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Throttle wraps fn so it fires at most once per window.
func Throttle(window time.Duration, fn func(), opts ...Option) func() {
	l := New(window, opts...)
	return func() {
		if l.Allow() {
			fn()
		}
	}
}

// Func wraps a single-argument handler so it fires at most once per window.
func Func[T any](window time.Duration, fn func(T), opts ...Option) func(T) {
	l := New(window, opts...)
	return func(v T) {
		if l.Allow() {
			fn(v)
		}
	}
}
