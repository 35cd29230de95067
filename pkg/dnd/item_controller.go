package dnd

import (
	"log/slog"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/reactive"
	"github.com/vango-dev/dragsort/pkg/throttle"
)

// Owner is the container an item reports insertion positions to.
type Owner interface {
	ID() ContainerID
	OnItemPositionReport(position int)
}

// ItemController handles pointer input for one displayed item.
type ItemController struct {
	coord    *Coordinator
	owner    Owner
	item     Item
	index    int
	handle   any
	measurer Measurer
	logger   *slog.Logger

	midpoint float64
	measured bool
	dragging bool

	dragOver func(float64)
	unsub    reactive.Unsubscribe
}

// NewItemController creates a controller for item at index inside owner.
// handle is passed to the Measurer on Refresh.
func NewItemController(coord *Coordinator, owner Owner, item Item, index int, handle any, opts ...Option) *ItemController {
	o := buildOptions(opts)
	return newItemController(coord, owner, item, index, handle, o)
}

func newItemController(coord *Coordinator, owner Owner, item Item, index int, handle any, o options) *ItemController {
	ic := &ItemController{
		coord:    coord,
		owner:    owner,
		item:     item,
		index:    index,
		handle:   handle,
		measurer: o.measurer,
		logger:   o.logger.With("item", item.ID, "container", int(owner.ID())),
		// A re-render during a drag recreates the dragged item's controller.
		dragging: !item.IsNone() && coord.Dragged().ID == item.ID,
	}

	hooks := o.hooks
	ic.dragOver = throttle.Func(o.window, ic.handleDragOver,
		throttle.WithClock(o.clock),
		throttle.WithDropHook(func() { hooks.DragOverDropped(owner.ID()) }),
	)

	ic.unsub = coord.OnDraggedChange(func(_, next Item) {
		if next.IsNone() {
			ic.dragging = false
		}
	})
	return ic
}

// Item returns the controlled item.
func (ic *ItemController) Item() Item {
	return ic.item
}

// Index returns the last known position in the owner's list.
func (ic *ItemController) Index() int {
	return ic.index
}

// SetIndex updates the position after a re-render.
func (ic *ItemController) SetIndex(index int) {
	ic.index = index
}

// IsDragging reports whether this item is being dragged.
func (ic *ItemController) IsDragging() bool {
	return ic.dragging
}

// Measured reports whether geometry has been cached.
func (ic *ItemController) Measured() bool {
	return ic.measured
}

// Midpoint returns the cached vertical center.
func (ic *ItemController) Midpoint() (float64, bool) {
	return ic.midpoint, ic.measured
}

// Refresh re-measures the item and caches its vertical midpoint. Call it
// after the first layout pass and after every re-render. On error the item
// stays unmeasured and drag-over input is ignored until the next success.
func (ic *ItemController) Refresh() error {
	if ic.measurer == nil {
		ic.measured = false
		return errors.New("E203").WithDetailf("item %q: no measurer configured", ic.item.ID)
	}

	box, err := ic.measurer.Measure(ic.handle)
	if err != nil {
		ic.measured = false
		return errors.New("E203").WithDetailf("item %q", ic.item.ID).Wrap(err)
	}

	ic.midpoint = box.Midpoint()
	ic.measured = true
	return nil
}

// OnDragStart starts dragging this item out of its owner.
func (ic *ItemController) OnDragStart() {
	ic.coord.BeginDrag(ic.item, ic.owner.ID())
	ic.dragging = true
}

// OnDragEnd finishes the drag, committing every affected container.
func (ic *ItemController) OnDragEnd() {
	ic.coord.EndDrag()
}

// OnDragOver handles the pointer moving over this item. Calls are rate
// limited; calls inside the window are dropped.
func (ic *ItemController) OnDragOver(pointerY float64) {
	ic.dragOver(pointerY)
}

// Position returns the insertion index the pointer at pointerY asks for:
// this item's index when the pointer is above the midpoint, the next index
// otherwise.
func (ic *ItemController) Position(pointerY float64) (int, error) {
	if !ic.measured {
		return 0, errors.New("E203").WithDetailf("item %q", ic.item.ID)
	}
	if ic.midpoint-pointerY > 0 {
		return ic.index, nil
	}
	return ic.index + 1, nil
}

// TransitionStart holds the transition lock while a reorder animates.
func (ic *ItemController) TransitionStart() {
	ic.coord.LockTransition()
}

// TransitionEnd releases the transition lock.
func (ic *ItemController) TransitionEnd() {
	ic.coord.UnlockTransition()
}

// Close detaches the controller from the coordinator.
func (ic *ItemController) Close() {
	if ic.unsub != nil {
		ic.unsub()
		ic.unsub = nil
	}
}

func (ic *ItemController) handleDragOver(pointerY float64) {
	dragged := ic.coord.Dragged()
	if dragged.IsNone() || dragged.ID == ic.item.ID {
		return
	}

	owner := ic.owner.ID()
	if ic.coord.Target() != owner {
		ic.coord.SetTargetContainer(owner)
	}

	position, err := ic.Position(pointerY)
	if err != nil {
		ic.logger.Debug("drag over skipped", "error", err)
		return
	}
	ic.owner.OnItemPositionReport(position)
}
