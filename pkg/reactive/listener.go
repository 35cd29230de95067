package reactive

// Listener is notified when a signal's value changes.
// prev is the value before the change, next the value after it.
type Listener[T any] func(prev, next T)

// Unsubscribe detaches a listener. Calling it more than once is safe.
type Unsubscribe func()

// subscription pairs a listener with the ID used to remove it.
type subscription[T any] struct {
	id uint64
	fn Listener[T]
}
