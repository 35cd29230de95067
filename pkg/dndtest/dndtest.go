// Package dndtest provides test helpers for code built on package dnd.
//
// # Quick Start
//
//	func TestBoard(t *testing.T) {
//	    clock := dndtest.NewClock()
//	    layout := dndtest.NewLayout()
//	    rec := dndtest.NewRecorder()
//
//	    view := dnd.NewView(dnd.WithClock(clock), dnd.WithMeasurer(layout))
//	    col, _ := view.NewContainer(dndtest.Items("a", "b"), rec.Commit)
//	    layout.Column(0, 40, "a", "b")
//	    ...
//	    rec.ExpectLast(t, col.ID(), "b", "a")
//	}
package dndtest

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/dragsort/pkg/dnd"
)

// Items builds items whose payload is their ID.
func Items(ids ...string) []dnd.Item {
	items := make([]dnd.Item, len(ids))
	for i, id := range ids {
		items[i] = dnd.Item{ID: id, Payload: id}
	}
	return items
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current manual time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Layout is a Measurer backed by a table of boxes keyed by handle.
type Layout struct {
	mu    sync.Mutex
	boxes map[any]dnd.Box
}

// NewLayout returns an empty layout. Unknown handles fail to measure.
func NewLayout() *Layout {
	return &Layout{boxes: make(map[any]dnd.Box)}
}

// Set places handle at box.
func (l *Layout) Set(handle any, box dnd.Box) {
	l.mu.Lock()
	l.boxes[handle] = box
	l.mu.Unlock()
}

// Column stacks handles top to bottom starting at top, each height tall.
func (l *Layout) Column(top, height float64, handles ...string) {
	for i, h := range handles {
		l.Set(h, dnd.Box{Top: top + float64(i)*height, Height: height})
	}
}

// Remove forgets handle.
func (l *Layout) Remove(handle any) {
	l.mu.Lock()
	delete(l.boxes, handle)
	l.mu.Unlock()
}

// Measure implements dnd.Measurer.
func (l *Layout) Measure(handle any) (dnd.Box, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	box, ok := l.boxes[handle]
	if !ok {
		return dnd.Box{}, fmt.Errorf("dndtest: handle %v not laid out", handle)
	}
	return box, nil
}

// Commit is one recorded commit.
type Commit struct {
	Container dnd.ContainerID
	IDs       []string
}

// Recorder collects commits. Its Commit method is a dnd.CommitFunc.
type Recorder struct {
	mu      sync.Mutex
	commits []Commit
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commit records a commit.
func (r *Recorder) Commit(id dnd.ContainerID, items []dnd.Item) {
	r.mu.Lock()
	r.commits = append(r.commits, Commit{Container: id, IDs: dnd.IDs(items)})
	r.mu.Unlock()
}

// All returns every recorded commit in order.
func (r *Recorder) All() []Commit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.commits)
}

// For returns the commits for one container.
func (r *Recorder) For(id dnd.ContainerID) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][]string
	for _, c := range r.commits {
		if c.Container == id {
			out = append(out, c.IDs)
		}
	}
	return out
}

// Count returns how many commits container id received.
func (r *Recorder) Count(id dnd.ContainerID) int {
	return len(r.For(id))
}

// Reset forgets all commits.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.commits = nil
	r.mu.Unlock()
}

// ExpectLast fails the test unless the latest commit for id has exactly ids.
func (r *Recorder) ExpectLast(t testing.TB, id dnd.ContainerID, ids ...string) {
	t.Helper()
	got := r.For(id)
	if len(got) == 0 {
		t.Fatalf("container %d: no commits, want %v", id, ids)
	}
	last := got[len(got)-1]
	if !slices.Equal(last, ids) {
		t.Fatalf("container %d: last commit = %v, want %v", id, last, ids)
	}
}

// ExpectIDs fails the test unless items have exactly ids in order.
func ExpectIDs(t testing.TB, items []dnd.Item, ids ...string) {
	t.Helper()
	got := dnd.IDs(items)
	if !slices.Equal(got, ids) {
		t.Fatalf("ids = %v, want %v", got, ids)
	}
}
