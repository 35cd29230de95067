package dnd

import (
	"io"
	"log/slog"
	"time"

	"github.com/vango-dev/dragsort/pkg/throttle"
)

// Hooks receives controller events that the coordinator signals do not carry.
// Implementations must not call back into the controllers.
type Hooks interface {
	// PositionReported fires for every position report a container receives.
	// applied is false when the report was ignored (idle or locked).
	PositionReported(container ContainerID, position int, applied bool)

	// DragOverDropped fires when the rate limiter drops a drag-over call.
	DragOverDropped(container ContainerID)

	// Committed fires once per container per completed drag cycle.
	Committed(container ContainerID, items []Item)
}

type nopHooks struct{}

func (nopHooks) PositionReported(ContainerID, int, bool) {}
func (nopHooks) DragOverDropped(ContainerID)             {}
func (nopHooks) Committed(ContainerID, []Item)           {}

type options struct {
	logger   *slog.Logger
	clock    throttle.Clock
	window   time.Duration
	measurer Measurer
	hooks    Hooks
}

// Option configures a View and the controllers it creates.
type Option func(*options)

// WithLogger sets the structured logger. Defaults to discarding output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock sets the time source used for throttling and drag age.
func WithClock(c throttle.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithThrottleWindow sets the drag-over rate limit window.
// Defaults to throttle.DefaultWindow.
func WithThrottleWindow(d time.Duration) Option {
	return func(o *options) {
		o.window = d
	}
}

// WithMeasurer sets the geometry provider for item controllers.
func WithMeasurer(m Measurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithHooks sets the event hooks, typically telemetry.
func WithHooks(h Hooks) Option {
	return func(o *options) {
		if h != nil {
			o.hooks = h
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  wallClock{},
		window: throttle.DefaultWindow,
		hooks:  nopHooks{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = wallClock{}
	}
	return o
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }
