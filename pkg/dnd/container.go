package dnd

import (
	"log/slog"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/reactive"
)

// CommitFunc receives a container's final order when a drag completes.
type CommitFunc func(id ContainerID, items []Item)

// Container controls the local order of one container.
type Container struct {
	id     ContainerID
	coord  *Coordinator
	items  *reactive.Signal[[]Item]
	commit CommitFunc
	hooks  Hooks
	logger *slog.Logger

	initialized bool

	// held is set while the current drag cycle has placed the dragged item in
	// this container at least once.
	held bool

	unsubs []reactive.Unsubscribe
}

// NewContainer creates a controller for container id and subscribes it to
// coord. commit may be nil.
func NewContainer(coord *Coordinator, id ContainerID, commit CommitFunc, opts ...Option) *Container {
	o := buildOptions(opts)
	return newContainer(coord, id, commit, o)
}

func newContainer(coord *Coordinator, id ContainerID, commit CommitFunc, o options) *Container {
	c := &Container{
		id:     id,
		coord:  coord,
		items:  reactive.NewSignal([]Item(nil)).WithEquals(sameOrder),
		commit: commit,
		hooks:  o.hooks,
		logger: o.logger.With("container", int(id)),
	}
	c.unsubs = append(c.unsubs,
		coord.OnDraggedChange(c.draggedChanged),
		coord.OnTargetChange(c.targetChanged),
	)
	return c
}

// ID returns the container's identifier.
func (c *Container) ID() ContainerID {
	return c.id
}

// Items returns a copy of the local order.
func (c *Container) Items() []Item {
	items := c.items.Get()
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Len returns the number of items in the local order.
func (c *Container) Len() int {
	return len(c.items.Get())
}

// Subscribe registers fn to run whenever the local order changes, for
// renderers that redraw on reorder.
func (c *Container) Subscribe(fn func(prev, next []Item)) reactive.Unsubscribe {
	return c.items.Subscribe(fn)
}

// Initialize seeds the local order. It may be called once.
func (c *Container) Initialize(items []Item) error {
	if c.initialized {
		return errors.New("E202").WithDetailf("container %d", c.id)
	}

	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.IsNone() {
			return errors.New("E201").
				WithDetailf("container %d has an item with the reserved empty ID", c.id).
				WithSuggestion("Give every item a non-empty ID")
		}
		if _, dup := seen[it.ID]; dup {
			return errors.New("E201").
				WithDetailf("item %q appears twice in container %d", it.ID, c.id).
				WithSuggestion("Give every item in a container a unique ID")
		}
		seen[it.ID] = struct{}{}
	}

	seeded := make([]Item, len(items))
	copy(seeded, items)
	c.initialized = true
	c.setItems(seeded)
	return nil
}

// OnDragOverEmptyArea handles the pointer entering the container outside of
// any item. It claims the drag only when the container is empty.
func (c *Container) OnDragOverEmptyArea() {
	st := c.coord.State()
	if st.Locked || !st.Active() || st.Target == c.id {
		return
	}
	if c.Len() > 0 {
		return
	}

	c.coord.SetTargetContainer(c.id)
	c.logger.Debug("claimed empty container", "item", st.Dragged.ID)
	c.setItems([]Item{st.Dragged})
}

// OnItemPositionReport moves the dragged item to position.
func (c *Container) OnItemPositionReport(position int) {
	st := c.coord.State()
	if st.Locked || !st.Active() {
		c.hooks.PositionReported(c.id, position, false)
		return
	}

	c.setItems(Reorder(c.items.Get(), st.Dragged, position))
	c.hooks.PositionReported(c.id, position, true)
}

// Close detaches the container from the coordinator.
func (c *Container) Close() {
	for _, stop := range c.unsubs {
		stop()
	}
	c.unsubs = nil
}

func (c *Container) setItems(items []Item) {
	c.items.Set(items)
	if dragged := c.coord.Dragged(); !dragged.IsNone() && indexOf(items, dragged.ID) >= 0 {
		c.held = true
	}
}

func (c *Container) targetChanged(_, next ContainerID) {
	if next == c.id {
		return
	}
	dragged := c.coord.Dragged()
	if dragged.IsNone() {
		return
	}

	items := c.items.Get()
	i := indexOf(items, dragged.ID)
	if i < 0 {
		return
	}

	rest := make([]Item, 0, len(items)-1)
	rest = append(rest, items[:i]...)
	rest = append(rest, items[i+1:]...)
	c.logger.Debug("released dragged item", "item", dragged.ID, "target", int(next))
	c.items.Set(rest)
}

func (c *Container) draggedChanged(_, next Item) {
	if !next.IsNone() {
		c.held = indexOf(c.items.Get(), next.ID) >= 0
		return
	}

	if !c.held {
		return
	}
	c.held = false

	items := c.Items()
	c.logger.Debug("commit", "items", len(items))
	c.hooks.Committed(c.id, items)
	if c.commit != nil {
		c.commit(c.id, items)
	}
}
