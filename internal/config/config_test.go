package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/dragsort/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.ThrottleWindow() != 50*time.Millisecond {
		t.Errorf("ThrottleWindow() = %v, want 50ms", cfg.ThrottleWindow())
	}
	if len(cfg.Board) != 3 {
		t.Errorf("Board len = %d, want 3", len(cfg.Board))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if !errors.HasCode(err, "E401") {
		t.Errorf("Load(missing) error = %v, want E401", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "drag": {
    "throttleWindow": "20ms",
    "staleTimeout": "5s"
  },
  "server": {
    "host": "0.0.0.0",
    "port": 8080,
    "allowedOrigins": ["http://localhost:3000"]
  },
  "log": {"level": "debug", "format": "json"},
  "board": [
    {"name": "todo", "items": [{"id": "t1", "label": "Write docs"}, {"id": "t2"}]},
    {"name": "done"}
  ]
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want %q", cfg.Address(), "0.0.0.0:8080")
	}
	if cfg.ThrottleWindow() != 20*time.Millisecond {
		t.Errorf("ThrottleWindow() = %v, want 20ms", cfg.ThrottleWindow())
	}
	if cfg.StaleTimeout() != 5*time.Second {
		t.Errorf("StaleTimeout() = %v, want 5s", cfg.StaleTimeout())
	}
	if cfg.ReadTimeout() != 60*time.Second {
		t.Errorf("ReadTimeout() = %v, want default 60s", cfg.ReadTimeout())
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "debug" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if len(cfg.Board) != 2 || len(cfg.Board[0].Items) != 2 || cfg.Board[0].Items[0].Label != "Write docs" {
		t.Errorf("Board = %+v", cfg.Board)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want default", cfg.Metrics.Namespace)
	}
	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E402") {
		t.Errorf("Expected E402 error, got: %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want default", cfg.Server.Port)
	}
}

func TestLoadKeepsExplicitEmptyBoard(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"board": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Board) != 0 {
		t.Errorf("Board = %+v, want empty", cfg.Board)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path should fail")
	}

	cfg.Server.Port = 9000
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", loaded.Server.Port)
	}

	loaded.Log.Level = "warn"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if again.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", again.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, false},
		{"bad duration", func(c *Config) { c.Drag.ThrottleWindow = "fast" }, false},
		{"negative duration", func(c *Config) { c.Drag.StaleTimeout = "-1s" }, false},
		{"zero stale timeout", func(c *Config) { c.Drag.StaleTimeout = "0s" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"unnamed column", func(c *Config) { c.Board = []ColumnConfig{{}} }, false},
		{"duplicate column", func(c *Config) {
			c.Board = []ColumnConfig{{Name: "a"}, {Name: "a"}}
		}, false},
		{"item without id", func(c *Config) {
			c.Board = []ColumnConfig{{Name: "a", Items: []ItemConfig{{Label: "x"}}}}
		}, false},
		{"item in two columns", func(c *Config) {
			c.Board = []ColumnConfig{
				{Name: "a", Items: []ItemConfig{{ID: "1"}}},
				{Name: "b", Items: []ItemConfig{{ID: "1"}}},
			}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.HasCode(err, "E403") {
				t.Fatalf("Validate() = %v, want E403", err)
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := New()
	cfg.Drag.ThrottleWindow = "nonsense"
	if cfg.ThrottleWindow() != 50*time.Millisecond {
		t.Errorf("ThrottleWindow() = %v, want fallback 50ms", cfg.ThrottleWindow())
	}
}
