package dnd

import (
	"log/slog"
	"sort"

	"github.com/vango-dev/dragsort/internal/errors"
)

// View groups the containers that share one drag coordinator.
type View struct {
	coord      *Coordinator
	nextID     func() ContainerID
	opts       options
	containers map[ContainerID]*Container
}

// NewView creates a view with its own coordinator and ID allocator.
func NewView(opts ...Option) *View {
	o := buildOptions(opts)
	return &View{
		coord:      newCoordinator(o),
		nextID:     NewIDAllocator(),
		opts:       o,
		containers: make(map[ContainerID]*Container),
	}
}

// Coordinator returns the view's drag coordinator.
func (v *View) Coordinator() *Coordinator {
	return v.coord
}

// Logger returns the view's logger.
func (v *View) Logger() *slog.Logger {
	return v.opts.logger
}

// NewContainer allocates an ID, creates a container controller and seeds it
// with items. commit receives the container's order after every drag that
// touched it.
func (v *View) NewContainer(items []Item, commit CommitFunc) (*Container, error) {
	c := newContainer(v.coord, v.nextID(), commit, v.opts)
	if err := c.Initialize(items); err != nil {
		c.Close()
		return nil, err
	}
	v.containers[c.id] = c
	return c, nil
}

// Container looks up a container by ID.
func (v *View) Container(id ContainerID) (*Container, error) {
	c, ok := v.containers[id]
	if !ok {
		return nil, errors.New("E204").WithDetailf("container %d", id)
	}
	return c, nil
}

// Containers returns every live container ordered by ID.
func (v *View) Containers() []*Container {
	out := make([]*Container, 0, len(v.containers))
	for _, c := range v.containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// RemoveContainer closes and forgets a container.
func (v *View) RemoveContainer(id ContainerID) {
	if c, ok := v.containers[id]; ok {
		c.Close()
		delete(v.containers, id)
	}
}

// NewItem creates an item controller owned by c. Call Refresh on it once the
// item has been laid out.
func (v *View) NewItem(c *Container, item Item, index int, handle any) *ItemController {
	return newItemController(v.coord, c, item, index, handle, v.opts)
}

// Close detaches every container.
func (v *View) Close() {
	for id := range v.containers {
		v.RemoveContainer(id)
	}
}
