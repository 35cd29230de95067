package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dragsort/internal/config"
	"github.com/vango-dev/dragsort/internal/logging"
	"github.com/vango-dev/dragsort/pkg/dnd"
	"github.com/vango-dev/dragsort/pkg/server"
	"github.com/vango-dev/dragsort/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
		logLevel   string
		tracing    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve drag-and-drop boards over WebSocket",
		Long: `Serve the configured board to browser clients.

Every WebSocket connection gets its own copy of the board from
dragsort.json. Clients report layout and pointer input; the server
answers with reorders and commits.

Examples:
  dragsort serve
  dragsort serve --config ./deploy/dragsort.json
  dragsort serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if tracing {
				cfg.Tracing.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", ".", "dragsort.json file or directory containing it")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from dragsort.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from dragsort.json)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&tracing, "trace", false, "Log a span for every drag")

	return cmd
}

// loadConfig reads path as a config file, or as a directory that may hold
// dragsort.json.
func loadConfig(path string) (*config.Config, error) {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return config.LoadFile(path)
	}
	return config.LoadOrDefault(path)
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(level, cfg.Log.Format)

	opts := []server.Option{server.WithLogger(logger)}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := telemetry.NewMetrics(
			telemetry.WithRegistry(reg),
			telemetry.WithNamespace(cfg.Metrics.Namespace),
		)
		opts = append(opts, server.WithMetrics(metrics, reg))
	}

	if cfg.Tracing.Enabled {
		tp := telemetry.NewLogTracerProvider(logger)
		defer tp.Shutdown(context.Background())
		opts = append(opts, server.WithTracer(telemetry.NewTracer(
			telemetry.WithTracerName(cfg.Tracing.TracerName),
			telemetry.WithTracerProvider(tp),
		)))
	}

	srv := server.New(serverConfig(cfg), opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	success(out, "Serving %d containers on ws://%s/ws", len(cfg.Board), cfg.Address())
	if cfg.Metrics.Enabled {
		info(out, "Metrics at http://%s%s", cfg.Address(), cfg.Metrics.Path)
	}

	return srv.Run(ctx)
}

// serverConfig maps dragsort.json onto the server settings. Item labels
// become payloads.
func serverConfig(cfg *config.Config) *server.Config {
	board := make([]server.Column, len(cfg.Board))
	for i, col := range cfg.Board {
		items := make([]dnd.Item, len(col.Items))
		for j, it := range col.Items {
			items[j] = dnd.Item{ID: it.ID}
			if it.Label != "" {
				items[j].Payload = it.Label
			}
		}
		board[i] = server.Column{Name: col.Name, Items: items}
	}

	check := server.SameOriginCheck
	if len(cfg.Server.AllowedOrigins) > 0 {
		check = server.AllowOrigins(cfg.Server.AllowedOrigins...)
	}

	return &server.Config{
		Address:        cfg.Address(),
		ReadTimeout:    cfg.ReadTimeout(),
		WriteTimeout:   cfg.WriteTimeout(),
		ThrottleWindow: cfg.ThrottleWindow(),
		StaleTimeout:   cfg.StaleTimeout(),
		CheckOrigin:    check,
		MetricsPath:    cfg.Metrics.Path,
		Board:          board,
	}
}
