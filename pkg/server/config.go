package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vango-dev/dragsort/pkg/dnd"
	"github.com/vango-dev/dragsort/pkg/throttle"
)

// Column is one container of the board every session starts with.
type Column struct {
	Name  string
	Items []dnd.Item
}

// Config holds server settings.
type Config struct {
	// Address is the listen address (e.g., "localhost:4100").
	Address string

	// ReadTimeout closes a connection that sends nothing for this long.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ThrottleWindow rate limits drag-over input per item.
	ThrottleWindow time.Duration

	// StaleTimeout resets drags with no end event. Zero disables the watchdog.
	StaleTimeout time.Duration

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// CheckOrigin validates the Origin header of upgrade requests.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// MetricsPath is where Prometheus metrics are served.
	MetricsPath string

	// Board is copied into every new session.
	Board []Column
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           "localhost:4100",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ThrottleWindow:    throttle.DefaultWindow,
		StaleTimeout:      30 * time.Second,
		CheckOrigin:       SameOriginCheck,
		MetricsPath:       "/metrics",
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.MetricsPath == "" {
		out.MetricsPath = d.MetricsPath
	}
	return &out
}

// SameOriginCheck accepts upgrade requests whose Origin host matches the
// request host, and requests without an Origin header.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// AllowOrigins returns an origin check that accepts same-origin requests
// plus the listed origins. "*" accepts every origin.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[normalizeOrigin(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		if SameOriginCheck(r) {
			return true
		}
		_, ok := allowed[normalizeOrigin(r.Header.Get("Origin"))]
		return ok
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimRight(strings.ToLower(origin), "/")
}
