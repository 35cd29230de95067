package dnd

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vango-dev/dragsort/pkg/reactive"
	"github.com/vango-dev/dragsort/pkg/throttle"
)

// State is a snapshot of the coordinator.
type State struct {
	Dragged Item
	Target  ContainerID
	Locked  bool
}

// Active reports whether a drag is in flight.
func (s State) Active() bool {
	return !s.Dragged.IsNone()
}

// Coordinator is the shared drag record for one view.
type Coordinator struct {
	dragged *reactive.Signal[Item]
	target  *reactive.Signal[ContainerID]
	locked  *reactive.Signal[bool]

	logger *slog.Logger
	clock  throttle.Clock

	// startedAt is when the current drag began; zero while idle.
	startedAt time.Time
	mu        sync.Mutex
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(opts ...Option) *Coordinator {
	o := buildOptions(opts)
	return newCoordinator(o)
}

func newCoordinator(o options) *Coordinator {
	return &Coordinator{
		dragged: reactive.NewSignal(NoItem).WithEquals(sameItem),
		target:  reactive.NewSignal(NoContainer),
		locked:  reactive.NewSignal(false),
		logger:  o.logger,
		clock:   o.clock,
	}
}

// BeginDrag records item as dragged and container as the target.
// A sentinel item is ignored.
func (c *Coordinator) BeginDrag(item Item, container ContainerID) {
	if item.IsNone() {
		c.logger.Warn("begin drag with sentinel item ignored", "container", int(container))
		return
	}

	c.mu.Lock()
	c.startedAt = c.clock.Now()
	c.mu.Unlock()

	c.logger.Debug("drag begin", "item", item.ID, "container", int(container))
	c.dragged.Set(item)
	c.target.Set(container)
}

// SetTargetContainer moves the drop target to container.
func (c *Coordinator) SetTargetContainer(container ContainerID) {
	if c.target.Set(container) {
		c.logger.Debug("drag target", "container", int(container))
	}
}

// EndDrag clears the dragged item, committing the drop, then clears the
// target. Calling it while idle does nothing.
func (c *Coordinator) EndDrag() {
	prev := c.dragged.Get()

	// Dragged must reset before the target: containers drop the dragged item
	// on target changes only while a drag is active.
	if c.dragged.Set(NoItem) {
		c.logger.Debug("drag end", "item", prev.ID)
	}
	c.target.Set(NoContainer)

	c.mu.Lock()
	c.startedAt = time.Time{}
	c.mu.Unlock()
}

// LockTransition marks an animation as running.
func (c *Coordinator) LockTransition() {
	c.locked.Set(true)
}

// UnlockTransition clears the transition lock.
func (c *Coordinator) UnlockTransition() {
	c.locked.Set(false)
}

// Reset forces the coordinator back to idle and unlocked. It is the recovery
// path for a drag whose end event never arrived.
func (c *Coordinator) Reset(reason string) {
	st := c.State()
	if st.Active() || st.Locked {
		c.logger.Warn("drag reset", "reason", reason, "item", st.Dragged.ID, "locked", st.Locked)
	}
	c.EndDrag()
	c.UnlockTransition()
}

// Dragged returns the dragged item or NoItem.
func (c *Coordinator) Dragged() Item {
	return c.dragged.Get()
}

// Target returns the current drop target or NoContainer.
func (c *Coordinator) Target() ContainerID {
	return c.target.Get()
}

// Locked reports whether the transition lock is held.
func (c *Coordinator) Locked() bool {
	return c.locked.Get()
}

// State returns a snapshot of all fields.
func (c *Coordinator) State() State {
	return State{
		Dragged: c.dragged.Get(),
		Target:  c.target.Get(),
		Locked:  c.locked.Get(),
	}
}

// DragAge returns how long the current drag has been in flight.
func (c *Coordinator) DragAge() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startedAt.IsZero() {
		return 0, false
	}
	return c.clock.Now().Sub(c.startedAt), true
}

// OnDraggedChange subscribes fn to dragged item changes.
func (c *Coordinator) OnDraggedChange(fn func(prev, next Item)) reactive.Unsubscribe {
	return c.dragged.Subscribe(fn)
}

// OnTargetChange subscribes fn to drop target changes.
func (c *Coordinator) OnTargetChange(fn func(prev, next ContainerID)) reactive.Unsubscribe {
	return c.target.Subscribe(fn)
}

// OnLockChange subscribes fn to transition lock changes.
func (c *Coordinator) OnLockChange(fn func(prev, next bool)) reactive.Unsubscribe {
	return c.locked.Subscribe(fn)
}

// WatchStale resets drags that stay in flight longer than maxAge. It checks
// every maxAge/4 until ctx is done. Checks and resets run while holding
// guard, which must be the lock that serializes input for this view.
// onReset, if not nil, runs after each reset while guard is still held.
func (c *Coordinator) WatchStale(ctx context.Context, maxAge time.Duration, guard sync.Locker, onReset func()) {
	if maxAge <= 0 {
		return
	}
	interval := maxAge / 4
	if interval <= 0 {
		interval = maxAge
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			guard.Lock()
			if c.ResetIfStale(maxAge) && onReset != nil {
				onReset()
			}
			guard.Unlock()
		}
	}
}

// ResetIfStale resets the coordinator when the current drag is older than
// maxAge. Reports whether a reset happened.
func (c *Coordinator) ResetIfStale(maxAge time.Duration) bool {
	age, ok := c.DragAge()
	if !ok || age < maxAge {
		return false
	}
	c.Reset("stale drag after " + age.Round(time.Millisecond).String())
	return true
}
