package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/internal/logging"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "dragsort.json"

	// DefaultPort is the default server port.
	DefaultPort = 4100

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultThrottleWindow bounds drag-over handling per item.
	DefaultThrottleWindow = "50ms"

	// DefaultStaleTimeout is how long a drag may stay in flight before the
	// server resets it.
	DefaultStaleTimeout = "30s"

	// DefaultNamespace is the Prometheus namespace.
	DefaultNamespace = "dragsort"
)

// Config represents the complete dragsort.json configuration.
type Config struct {
	// Drag contains coordinator tuning.
	Drag DragConfig `json:"drag,omitempty"`

	// Server contains WebSocket server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Log contains logger settings.
	Log LogConfig `json:"log,omitempty"`

	// Board is the initial set of containers for every served session.
	Board []ColumnConfig `json:"board,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DragConfig contains coordinator tuning.
type DragConfig struct {
	// ThrottleWindow is the drag-over rate limit window (e.g., "50ms").
	ThrottleWindow string `json:"throttleWindow,omitempty"`

	// StaleTimeout resets drags without an end event (e.g., "30s"). "0s"
	// disables the watchdog.
	StaleTimeout string `json:"staleTimeout,omitempty"`
}

// ServerConfig contains WebSocket server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ReadTimeout closes idle connections.
	ReadTimeout string `json:"readTimeout,omitempty"`

	// WriteTimeout bounds each frame write.
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// AllowedOrigins restricts WebSocket upgrades. Empty allows same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Path      string `json:"path,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled,omitempty"`
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// ColumnConfig describes one container of the served board.
type ColumnConfig struct {
	Name  string       `json:"name"`
	Items []ItemConfig `json:"items,omitempty"`
}

// ItemConfig describes one item of a column.
type ItemConfig struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Drag: DragConfig{
			ThrottleWindow: DefaultThrottleWindow,
			StaleTimeout:   DefaultStaleTimeout,
		},
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReadTimeout:  "60s",
			WriteTimeout: "10s",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      "/metrics",
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Board: []ColumnConfig{
			{Name: "todo"},
			{Name: "doing"},
			{Name: "done"},
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for dragsort.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E401").
				WithDetail("No dragsort.json found in " + filepath.Dir(path)).
				WithSuggestion("Create dragsort.json or run without --config to use defaults")
		}
		return nil, errors.New("E402").Wrap(err)
	}

	cfg := New()
	cfg.Board = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E402").
			WithDetail("Failed to parse dragsort.json: " + err.Error()).
			WithSuggestion("Check that dragsort.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads dragsort.json from dir, falling back to defaults when
// the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E401") {
		return New(), nil
	}
	return cfg, err
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E402").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E402").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Drag.ThrottleWindow == "" {
		c.Drag.ThrottleWindow = DefaultThrottleWindow
	}
	if c.Drag.StaleTimeout == "" {
		c.Drag.StaleTimeout = DefaultStaleTimeout
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "60s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Board == nil {
		c.Board = New().Board
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E403").
			WithDetail("server.port must be between 0 and 65535")
	}

	durations := []struct {
		name  string
		value string
	}{
		{"drag.throttleWindow", c.Drag.ThrottleWindow},
		{"drag.staleTimeout", c.Drag.StaleTimeout},
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return errors.New("E403").
				WithDetailf("%s: %v", d.name, err).
				WithSuggestion(`Use Go duration syntax such as "50ms" or "30s"`)
		}
		if v < 0 {
			return errors.New("E403").WithDetailf("%s must not be negative", d.name)
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.New("E403").WithDetailf("log.level: %v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E403").WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}

	names := make(map[string]struct{}, len(c.Board))
	ids := make(map[string]string)
	for _, col := range c.Board {
		if col.Name == "" {
			return errors.New("E403").WithDetail("board columns need a name")
		}
		if _, dup := names[col.Name]; dup {
			return errors.New("E403").WithDetailf("board column %q is defined twice", col.Name)
		}
		names[col.Name] = struct{}{}
		for _, it := range col.Items {
			if it.ID == "" {
				return errors.New("E403").WithDetailf("board column %q has an item without id", col.Name)
			}
			if other, dup := ids[it.ID]; dup {
				return errors.New("E403").WithDetailf("item %q appears in %q and %q", it.ID, other, col.Name)
			}
			ids[it.ID] = col.Name
		}
	}
	return nil
}

// Address returns the host:port string for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ThrottleWindow returns the parsed drag-over window.
func (c *Config) ThrottleWindow() time.Duration {
	return mustDuration(c.Drag.ThrottleWindow, 50*time.Millisecond)
}

// StaleTimeout returns the parsed stale drag timeout.
func (c *Config) StaleTimeout() time.Duration {
	return mustDuration(c.Drag.StaleTimeout, 30*time.Second)
}

// ReadTimeout returns the parsed connection read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout, 60*time.Second)
}

// WriteTimeout returns the parsed frame write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout, 10*time.Second)
}

// mustDuration parses s, returning fallback for values Validate rejects.
func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
