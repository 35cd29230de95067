package dnd

import "sync/atomic"

// NewIDAllocator returns a generator yielding 0, 1, 2, ...
// Each view holds its own allocator; values are never reused.
func NewIDAllocator() func() ContainerID {
	var next int64 = -1
	return func() ContainerID {
		return ContainerID(atomic.AddInt64(&next, 1))
	}
}
