package dnd_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/dragsort/pkg/dnd"
	"github.com/vango-dev/dragsort/pkg/dndtest"
)

func TestCoordinatorLifecycle(t *testing.T) {
	c := dnd.NewCoordinator()

	st := c.State()
	if st.Active() || st.Target != dnd.NoContainer || st.Locked {
		t.Fatalf("initial State() = %+v, want idle", st)
	}

	c.BeginDrag(dnd.Item{ID: "a"}, 2)
	if got := c.Dragged().ID; got != "a" {
		t.Fatalf("Dragged() = %q, want a", got)
	}
	if got := c.Target(); got != 2 {
		t.Fatalf("Target() = %d, want 2", got)
	}

	c.SetTargetContainer(5)
	if got := c.Target(); got != 5 {
		t.Fatalf("Target() = %d, want 5", got)
	}

	c.EndDrag()
	st = c.State()
	if st.Active() || st.Target != dnd.NoContainer {
		t.Fatalf("after EndDrag State() = %+v, want idle", st)
	}
}

func TestCoordinatorNotifiesBeforeReturn(t *testing.T) {
	c := dnd.NewCoordinator()

	var events []string
	c.OnDraggedChange(func(_, next dnd.Item) { events = append(events, "dragged:"+next.ID) })
	c.OnTargetChange(func(_, next dnd.ContainerID) {
		if next == dnd.NoContainer {
			events = append(events, "target:none")
			return
		}
		events = append(events, "target")
	})

	c.BeginDrag(dnd.Item{ID: "a"}, 0)
	if len(events) != 2 || events[0] != "dragged:a" || events[1] != "target" {
		t.Fatalf("events after BeginDrag = %v", events)
	}

	c.EndDrag()
	// Dragged resets before the target so the drop commits while the target
	// is still known.
	if len(events) != 4 || events[2] != "dragged:" || events[3] != "target:none" {
		t.Fatalf("events after EndDrag = %v", events)
	}
}

func TestCoordinatorEndDragTwiceIsSilent(t *testing.T) {
	c := dnd.NewCoordinator()
	calls := 0
	c.OnDraggedChange(func(_, _ dnd.Item) { calls++ })

	c.BeginDrag(dnd.Item{ID: "a"}, 0)
	c.EndDrag()
	c.EndDrag()

	if calls != 2 {
		t.Fatalf("dragged notifications = %d, want 2", calls)
	}
}

func TestCoordinatorIgnoresSentinelBegin(t *testing.T) {
	c := dnd.NewCoordinator()
	c.BeginDrag(dnd.NoItem, 3)
	if c.State().Active() || c.Target() != dnd.NoContainer {
		t.Fatalf("State() = %+v, want idle", c.State())
	}
}

func TestCoordinatorLock(t *testing.T) {
	c := dnd.NewCoordinator()
	var seen []bool
	c.OnLockChange(func(_, next bool) { seen = append(seen, next) })

	c.LockTransition()
	c.LockTransition()
	if !c.Locked() {
		t.Fatal("Locked() = false, want true")
	}
	c.UnlockTransition()
	if c.Locked() {
		t.Fatal("Locked() = true, want false")
	}
	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("lock notifications = %v, want [true false]", seen)
	}
}

func TestCoordinatorReset(t *testing.T) {
	c := dnd.NewCoordinator()
	c.BeginDrag(dnd.Item{ID: "a"}, 1)
	c.LockTransition()

	c.Reset("test")

	st := c.State()
	if st.Active() || st.Locked || st.Target != dnd.NoContainer {
		t.Fatalf("State() after Reset = %+v, want idle and unlocked", st)
	}
}

func TestCoordinatorResetIfStale(t *testing.T) {
	clock := dndtest.NewClock()
	c := dnd.NewCoordinator(dnd.WithClock(clock))

	if c.ResetIfStale(time.Second) {
		t.Fatal("ResetIfStale while idle = true")
	}

	c.BeginDrag(dnd.Item{ID: "a"}, 0)
	clock.Advance(500 * time.Millisecond)
	if age, ok := c.DragAge(); !ok || age != 500*time.Millisecond {
		t.Fatalf("DragAge() = %v, %v", age, ok)
	}
	if c.ResetIfStale(time.Second) {
		t.Fatal("ResetIfStale before maxAge = true")
	}

	clock.Advance(600 * time.Millisecond)
	if !c.ResetIfStale(time.Second) {
		t.Fatal("ResetIfStale after maxAge = false")
	}
	if c.State().Active() {
		t.Fatal("drag still active after stale reset")
	}
	if _, ok := c.DragAge(); ok {
		t.Fatal("DragAge() reports a drag after reset")
	}
}

func TestCoordinatorWatchStale(t *testing.T) {
	c := dnd.NewCoordinator()
	c.BeginDrag(dnd.Item{ID: "a"}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		resets int
	)
	done := make(chan struct{})
	go func() {
		c.WatchStale(ctx, 20*time.Millisecond, &mu, func() { resets++ })
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		active := c.State().Active()
		mu.Unlock()
		if !active {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watchdog never reset the stale drag")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchStale did not return after cancel")
	}
	if resets != 1 {
		t.Fatalf("onReset ran %d times, want 1", resets)
	}
}
