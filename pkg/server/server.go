package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/protocol"
	"github.com/vango-dev/dragsort/pkg/telemetry"
)

// Server is the HTTP/WebSocket server hosting drag sessions.
type Server struct {
	config   *Config
	sessions *SessionManager
	upgrader websocket.Upgrader

	metrics  *telemetry.Metrics
	gatherer prometheus.Gatherer
	tracer   *telemetry.Tracer

	httpServer *http.Server
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records session and drag metrics into m and serves gatherer
// on the metrics path.
func WithMetrics(m *telemetry.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracer traces every session's drags.
func WithTracer(t *telemetry.Tracer) Option {
	return func(s *Server) {
		s.tracer = t
	}
}

// New creates a server. A nil config uses DefaultConfig.
func New(config *Config, opts ...Option) *Server {
	config = config.withDefaults()

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	s.sessions = NewSessionManager(config.MaxSessions, s.logger)
	return s
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// HandleWebSocket upgrades the request and runs a session until the client
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.sessions.Full() {
		http.Error(w, ErrMaxSessionsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		if s.metrics != nil {
			s.metrics.RecordWebSocketError("upgrade")
		}
		return
	}
	conn.SetReadLimit(protocol.MaxMessageSize)

	session, err := newSession(conn, s.config, s.logger, s.metrics, s.tracer)
	if err != nil {
		s.logger.Error("session setup failed", "error", err)
		s.writeError(conn, err)
		conn.Close()
		return
	}
	if err := s.sessions.Add(session); err != nil {
		s.writeError(conn, errors.Newf(errors.CategoryProtocol, "%v", err))
		session.Close()
		return
	}

	session.Start()
}

func (s *Server) writeError(conn *websocket.Conn, err error) {
	data, encErr := protocol.Encode(protocol.Error(err))
	if encErr != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// Run serves on the configured address until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}
