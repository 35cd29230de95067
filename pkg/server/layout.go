package server

import (
	"sync"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/dnd"
)

// Layout is a Measurer fed by client "layout" messages. Handles are item IDs.
//
// Each report replaces everything the same container reported before, so an
// item that left a container loses its old geometry. Boxes a different
// container reported later are kept.
type Layout struct {
	mu    sync.RWMutex
	boxes map[string]dnd.Box
	owner map[string]dnd.ContainerID
}

// NewLayout creates an empty layout cache.
func NewLayout() *Layout {
	return &Layout{
		boxes: make(map[string]dnd.Box),
		owner: make(map[string]dnd.ContainerID),
	}
}

// Update stores the boxes reported for container, dropping the ones it
// reported earlier.
func (l *Layout) Update(container dnd.ContainerID, boxes map[string]dnd.Box) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, c := range l.owner {
		if c == container {
			delete(l.owner, id)
			delete(l.boxes, id)
		}
	}
	for id, box := range boxes {
		l.boxes[id] = box
		l.owner[id] = container
	}
}

// Measure implements dnd.Measurer.
func (l *Layout) Measure(handle any) (dnd.Box, error) {
	id, ok := handle.(string)
	if !ok {
		return dnd.Box{}, errors.New("E203").WithDetailf("handle %v is not an item ID", handle)
	}
	l.mu.RLock()
	box, ok := l.boxes[id]
	l.mu.RUnlock()
	if !ok {
		return dnd.Box{}, errors.New("E203").
			WithDetailf("no layout reported for item %q", id).
			WithSuggestion("Send a layout message after rendering the container")
	}
	return box, nil
}
