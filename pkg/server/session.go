package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/dnd"
	"github.com/vango-dev/dragsort/pkg/protocol"
	"github.com/vango-dev/dragsort/pkg/telemetry"
)

// Session is one connected client and its board.
type Session struct {
	// ID is the session identifier sent in the hello message.
	ID string

	// CreatedAt is when the connection was accepted.
	CreatedAt time.Time

	conn    *websocket.Conn
	config  *Config
	logger  *slog.Logger
	metrics *telemetry.Metrics

	// mu serializes all input for view.
	mu     sync.Mutex
	view   *dnd.View
	layout *Layout
	names  map[dnd.ContainerID]string
	sets   map[dnd.ContainerID]*dnd.ItemSet
	detach []func()

	writeMu sync.Mutex
	closed  bool

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	onClose   func(*Session)
}

func newSession(conn *websocket.Conn, config *Config, logger *slog.Logger, metrics *telemetry.Metrics, tracer *telemetry.Tracer) (*Session, error) {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		config:    config,
		logger:    logger.With("session_id", id),
		metrics:   metrics,
		layout:    NewLayout(),
		names:     make(map[dnd.ContainerID]string),
		sets:      make(map[dnd.ContainerID]*dnd.ItemSet),
		ctx:       ctx,
		cancel:    cancel,
	}

	opts := []dnd.Option{
		dnd.WithLogger(s.logger),
		dnd.WithThrottleWindow(config.ThrottleWindow),
		dnd.WithMeasurer(s.layout),
	}
	if metrics != nil {
		opts = append(opts, dnd.WithHooks(metrics))
	}
	s.view = dnd.NewView(opts...)

	for _, col := range config.Board {
		items := append([]dnd.Item(nil), col.Items...)
		c, err := s.view.NewContainer(items, s.commit)
		if err != nil {
			s.view.Close()
			cancel()
			return nil, err
		}
		cid := c.ID()
		s.names[cid] = col.Name
		s.sets[cid] = s.view.Track(c)
		s.detach = append(s.detach, c.Subscribe(func(_, next []dnd.Item) {
			s.send(protocol.Items(cid, next))
		}))
	}

	coord := s.view.Coordinator()
	if metrics != nil {
		s.detach = append(s.detach, metrics.Observe(coord))
	}
	if tracer != nil {
		s.detach = append(s.detach, tracer.Observe(ctx, coord, attribute.String("session.id", id)))
	}
	return s, nil
}

// Start sends the hello message, starts the stale drag watchdog and reads
// client messages until the connection closes.
func (s *Session) Start() {
	if s.metrics != nil {
		s.metrics.RecordSessionCreate()
	}
	s.send(protocol.Hello(s.ID, s.Snapshot()))

	if s.config.StaleTimeout > 0 {
		go s.view.Coordinator().WatchStale(s.ctx, s.config.StaleTimeout, &s.mu, s.staleReset)
	}
	s.ReadLoop()
}

// ReadLoop reads and dispatches client messages. It blocks until the
// connection fails or is closed, then closes the session.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
				s.recordWebSocketError("read")
			}
			return
		}

		msg, err := protocol.DecodeClient(data)
		if err == nil {
			err = s.Dispatch(msg)
		}
		if err != nil {
			s.reject(err)
		}
	}
}

// Dispatch applies one client message to the board.
func (s *Session) Dispatch(msg *protocol.ClientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coord := s.view.Coordinator()
	switch msg.Type {
	case protocol.TypeLayout:
		return s.applyLayout(msg.ContainerID(), msg.Boxes)

	case protocol.TypeDragStart:
		ic, err := s.item(msg.ContainerID(), msg.Item)
		if err != nil {
			return err
		}
		ic.OnDragStart()

	case protocol.TypeDragOver:
		ic, err := s.item(msg.ContainerID(), msg.Item)
		if err != nil {
			return err
		}
		ic.OnDragOver(*msg.PointerY)

	case protocol.TypeEmptyOver:
		c, err := s.view.Container(msg.ContainerID())
		if err != nil {
			return err
		}
		c.OnDragOverEmptyArea()

	case protocol.TypeDragEnd:
		coord.EndDrag()

	case protocol.TypeTransitionStart:
		coord.LockTransition()

	case protocol.TypeTransitionEnd:
		coord.UnlockTransition()

	case protocol.TypeReset:
		coord.Reset("client request")

	default:
		return errors.New("E302").WithDetailf("type %q", msg.Type)
	}
	return nil
}

// Snapshot returns the current order of every container.
func (s *Session) Snapshot() []protocol.ContainerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	containers := s.view.Containers()
	out := make([]protocol.ContainerState, len(containers))
	for i, c := range containers {
		out[i] = protocol.ContainerState{
			ID:    int(c.ID()),
			Name:  s.names[c.ID()],
			Items: c.Items(),
		}
	}
	return out
}

// Close detaches the board and closes the connection. It is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.mu.Lock()
		for _, fn := range s.detach {
			fn()
		}
		for _, set := range s.sets {
			set.Close()
		}
		s.view.Close()
		s.mu.Unlock()

		s.writeMu.Lock()
		s.closed = true
		s.conn.Close()
		s.writeMu.Unlock()

		if s.metrics != nil {
			s.metrics.RecordSessionDestroy()
		}
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// applyLayout records the boxes of a rendered container and brings its item
// controllers in line with the container's current order.
func (s *Session) applyLayout(id dnd.ContainerID, boxes map[string]dnd.Box) error {
	if _, err := s.view.Container(id); err != nil {
		return err
	}
	s.layout.Update(id, boxes)
	if n := s.sets[id].Sync(); n > 0 {
		s.logger.Debug("layout incomplete", "container", int(id), "unmeasured", n)
	}
	return nil
}

func (s *Session) item(container dnd.ContainerID, itemID string) (*dnd.ItemController, error) {
	if _, err := s.view.Container(container); err != nil {
		return nil, err
	}
	return s.sets[container].Item(itemID)
}

func (s *Session) commit(id dnd.ContainerID, items []dnd.Item) {
	s.logger.Debug("commit", "container", int(id), "items", dnd.IDs(items))
	s.send(protocol.Commit(id, items))
}

func (s *Session) staleReset() {
	s.logger.Warn("stale drag reset", "timeout", s.config.StaleTimeout)
	if s.metrics != nil {
		s.metrics.RecordStaleReset()
	}
}

func (s *Session) reject(err error) {
	de := errors.FromError(err, "E301")
	s.logger.Debug("message rejected", "code", de.Code, "error", err)
	if s.metrics != nil {
		s.metrics.RecordProtocolError(de.Code)
	}
	s.send(protocol.Error(de))
}

// send writes msg as a text frame. Write failures close nothing; the read
// loop notices the broken connection.
func (s *Session) send(msg *protocol.ServerMessage) {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("encode failed", "type", msg.Type, "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("write failed", "type", msg.Type, "error", err)
		s.recordWebSocketError("write")
	}
}

func (s *Session) recordWebSocketError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}
