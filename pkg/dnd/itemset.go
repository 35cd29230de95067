package dnd

import "github.com/vango-dev/dragsort/internal/errors"

// ItemSet keeps one item controller per displayed item of a container,
// mirroring what a renderer does after each layout pass. Handles passed to
// the Measurer are item IDs.
type ItemSet struct {
	view      *View
	container *Container
	ctrls     map[string]*ItemController
}

// Track creates an empty item set for c. Call Sync after each layout pass.
func (v *View) Track(c *Container) *ItemSet {
	return &ItemSet{
		view:      v,
		container: c,
		ctrls:     make(map[string]*ItemController),
	}
}

// Sync creates controllers for new items, updates indices, re-measures every
// item and closes controllers of items that left the container. It returns
// the number of items left unmeasured.
func (s *ItemSet) Sync() int {
	current := s.container.Items()
	present := make(map[string]struct{}, len(current))
	unmeasured := 0

	for i, it := range current {
		present[it.ID] = struct{}{}
		ic, ok := s.ctrls[it.ID]
		if !ok {
			ic = s.view.NewItem(s.container, it, i, it.ID)
			s.ctrls[it.ID] = ic
		} else {
			ic.SetIndex(i)
		}
		if err := ic.Refresh(); err != nil {
			unmeasured++
			s.view.opts.logger.Debug("item not measured", "item", it.ID, "error", err)
		}
	}

	for id, ic := range s.ctrls {
		if _, ok := present[id]; !ok {
			ic.Close()
			delete(s.ctrls, id)
		}
	}
	return unmeasured
}

// Item returns the controller for a displayed item.
func (s *ItemSet) Item(id string) (*ItemController, error) {
	ic, ok := s.ctrls[id]
	if !ok {
		return nil, errors.New("E205").
			WithDetailf("item %q in container %d", id, s.container.id).
			WithSuggestion("Report the container's layout before sending input for its items")
	}
	return ic, nil
}

// Len returns the number of tracked controllers.
func (s *ItemSet) Len() int {
	return len(s.ctrls)
}

// Close detaches every controller.
func (s *ItemSet) Close() {
	for id, ic := range s.ctrls {
		ic.Close()
		delete(s.ctrls, id)
	}
}
