package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/dnd"
)

// MaxMessageSize bounds a single client message in bytes.
const MaxMessageSize = 64 * 1024

// MaxLayoutBoxes bounds the number of boxes in one layout message.
const MaxLayoutBoxes = 4096

// Type identifies a message.
type Type string

// Client message types.
const (
	TypeLayout          Type = "layout"
	TypeDragStart       Type = "dragstart"
	TypeDragOver        Type = "dragover"
	TypeDragEnd         Type = "dragend"
	TypeEmptyOver       Type = "emptyover"
	TypeTransitionStart Type = "transitionstart"
	TypeTransitionEnd   Type = "transitionend"
	TypeReset           Type = "reset"
)

// Server message types.
const (
	TypeHello  Type = "hello"
	TypeItems  Type = "items"
	TypeCommit Type = "commit"
	TypeError  Type = "error"
)

// ClientMessage is a decoded client input.
type ClientMessage struct {
	Type      Type               `json:"type"`
	Container *int               `json:"container,omitempty"`
	Item      string             `json:"item,omitempty"`
	PointerY  *float64           `json:"pointerY,omitempty"`
	Boxes     map[string]dnd.Box `json:"boxes,omitempty"`
}

// ContainerID returns the container field as a dnd.ContainerID.
func (m *ClientMessage) ContainerID() dnd.ContainerID {
	if m.Container == nil {
		return dnd.NoContainer
	}
	return dnd.ContainerID(*m.Container)
}

// ContainerState describes one container in a hello message.
type ContainerState struct {
	ID    int        `json:"id"`
	Name  string     `json:"name,omitempty"`
	Items []dnd.Item `json:"items"`
}

// ServerMessage is an outgoing message.
type ServerMessage struct {
	Type       Type              `json:"type"`
	Session    string            `json:"session,omitempty"`
	Containers []ContainerState  `json:"containers,omitempty"`
	Container  *int              `json:"container,omitempty"`
	Items      []dnd.Item        `json:"items,omitempty"`
	Error      *errors.DragError `json:"error,omitempty"`
}

// DecodeClient parses and validates a client message.
func DecodeClient(data []byte) (*ClientMessage, error) {
	if len(data) > MaxMessageSize {
		return nil, errors.New("E301").WithDetailf("message is %d bytes, limit %d", len(data), MaxMessageSize)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var msg ClientMessage
	if err := dec.Decode(&msg); err != nil {
		return nil, errors.New("E301").WithDetail(err.Error()).Wrap(err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Validate checks that the fields required by the message type are present.
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case TypeLayout:
		if m.Container == nil {
			return missing(m.Type, "container")
		}
		if len(m.Boxes) > MaxLayoutBoxes {
			return errors.New("E301").WithDetailf("layout has %d boxes, limit %d", len(m.Boxes), MaxLayoutBoxes)
		}
	case TypeDragStart:
		if m.Container == nil {
			return missing(m.Type, "container")
		}
		if m.Item == "" {
			return missing(m.Type, "item")
		}
	case TypeDragOver:
		if m.Container == nil {
			return missing(m.Type, "container")
		}
		if m.Item == "" {
			return missing(m.Type, "item")
		}
		if m.PointerY == nil {
			return missing(m.Type, "pointerY")
		}
	case TypeEmptyOver:
		if m.Container == nil {
			return missing(m.Type, "container")
		}
	case TypeDragEnd, TypeTransitionStart, TypeTransitionEnd, TypeReset:
	case "":
		return missing(m.Type, "type")
	default:
		return errors.New("E302").WithDetailf("type %q", m.Type)
	}
	return nil
}

func missing(t Type, field string) error {
	return errors.New("E301").WithDetailf("%s message requires %q", t, field)
}

// Encode serializes a server message.
func Encode(msg *ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// Hello greets a new connection with the board state.
func Hello(session string, containers []ContainerState) *ServerMessage {
	return &ServerMessage{Type: TypeHello, Session: session, Containers: containers}
}

// Items reports a container's current local order.
func Items(id dnd.ContainerID, items []dnd.Item) *ServerMessage {
	return containerMessage(TypeItems, id, items)
}

// Commit reports a container's final order after a drop.
func Commit(id dnd.ContainerID, items []dnd.Item) *ServerMessage {
	return containerMessage(TypeCommit, id, items)
}

// Error reports a rejected message.
func Error(err error) *ServerMessage {
	return &ServerMessage{Type: TypeError, Error: errors.FromError(err, "E301")}
}

func containerMessage(t Type, id dnd.ContainerID, items []dnd.Item) *ServerMessage {
	cid := int(id)
	if items == nil {
		items = []dnd.Item{}
	}
	return &ServerMessage{Type: t, Container: &cid, Items: items}
}
