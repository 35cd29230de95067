// Package reactive provides observable mutable cells.
//
// A Signal holds a value and a list of subscribers. Every Set or Update that
// changes the value notifies each subscriber synchronously, before the call
// returns, in subscription order:
//
//	target := reactive.NewSignal(-1)
//	stop := target.Subscribe(func(prev, next int) {
//	    fmt.Println("target moved", prev, "->", next)
//	})
//	target.Set(3) // prints before Set returns
//	stop()
//
// There is no implicit dependency tracking. Callers register interest in the
// specific cells they care about and receive the previous and next values.
//
// # Thread Safety
//
// Values and subscriber lists are guarded by mutexes. Notifications run
// outside those locks, so a subscriber may read or write the same signal.
package reactive
