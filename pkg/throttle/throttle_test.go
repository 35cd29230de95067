package throttle

import (
	"testing"
	"time"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time         { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func TestThrottleFiresOncePerHalfWindow(t *testing.T) {
	clock := newManualClock()
	calls := 0
	fn := Throttle(50*time.Millisecond, func() { calls++ }, WithClock(clock))

	// 20 calls spread over the first half of the window
	for i := 0; i < 20; i++ {
		fn()
		clock.Advance(time.Millisecond)
	}

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestThrottleWindowBoundaries(t *testing.T) {
	clock := newManualClock()
	l := New(50*time.Millisecond, WithClock(clock))

	tests := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{10 * time.Millisecond, false},
		{39 * time.Millisecond, false}, // 49ms after first call
		{1 * time.Millisecond, true},   // exactly 50ms: new window
		{49 * time.Millisecond, false},
		{100 * time.Millisecond, true},
	}

	for i, tt := range tests {
		clock.Advance(tt.advance)
		if got := l.Allow(); got != tt.want {
			t.Fatalf("step %d: Allow() = %v, want %v", i, got, tt.want)
		}
	}
	if l.Dropped() != 3 {
		t.Errorf("Dropped() = %d, want 3", l.Dropped())
	}
}

func TestThrottleDropsNotQueues(t *testing.T) {
	clock := newManualClock()
	var got []int
	fn := Func(50*time.Millisecond, func(v int) { got = append(got, v) }, WithClock(clock))

	fn(1)
	fn(2)
	fn(3)
	clock.Advance(60 * time.Millisecond)
	fn(4)

	if len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Fatalf("got = %v, want [1 4]", got)
	}
}

func TestThrottleDropHook(t *testing.T) {
	clock := newManualClock()
	drops := 0
	fn := Throttle(time.Second, func() {}, WithClock(clock), WithDropHook(func() { drops++ }))

	for i := 0; i < 5; i++ {
		fn()
	}
	if drops != 4 {
		t.Errorf("drops = %d, want 4", drops)
	}
}

func TestThrottleZeroWindowAdmitsAll(t *testing.T) {
	calls := 0
	fn := Throttle(0, func() { calls++ })
	for i := 0; i < 5; i++ {
		fn()
	}
	if calls != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
}
