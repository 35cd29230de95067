package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/vango-dev/dragsort/internal/errors"
	"github.com/vango-dev/dragsort/pkg/dnd"
)

func TestDecodeClient(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Type
	}{
		{"dragstart", `{"type":"dragstart","container":0,"item":"a"}`, TypeDragStart},
		{"dragover", `{"type":"dragover","container":1,"item":"x","pointerY":12.5}`, TypeDragOver},
		{"dragover at zero", `{"type":"dragover","container":1,"item":"x","pointerY":0}`, TypeDragOver},
		{"emptyover", `{"type":"emptyover","container":2}`, TypeEmptyOver},
		{"layout", `{"type":"layout","container":0,"boxes":{"a":{"top":0,"height":40}}}`, TypeLayout},
		{"layout without boxes", `{"type":"layout","container":0}`, TypeLayout},
		{"dragend", `{"type":"dragend"}`, TypeDragEnd},
		{"transitionstart", `{"type":"transitionstart"}`, TypeTransitionStart},
		{"transitionend", `{"type":"transitionend"}`, TypeTransitionEnd},
		{"reset", `{"type":"reset"}`, TypeReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeClient([]byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeClient() error = %v", err)
			}
			if msg.Type != tt.want {
				t.Fatalf("Type = %q, want %q", msg.Type, tt.want)
			}
		})
	}
}

func TestDecodeClientFields(t *testing.T) {
	msg, err := DecodeClient([]byte(`{"type":"dragover","container":3,"item":"x","pointerY":212.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if msg.ContainerID() != dnd.ContainerID(3) {
		t.Errorf("ContainerID() = %d, want 3", msg.ContainerID())
	}
	if msg.Item != "x" || *msg.PointerY != 212.5 {
		t.Errorf("msg = %+v", msg)
	}

	layout, err := DecodeClient([]byte(`{"type":"layout","container":0,"boxes":{"a":{"top":10,"height":40}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := layout.Boxes["a"].Midpoint(); got != 30 {
		t.Errorf("Boxes[a].Midpoint() = %v, want 30", got)
	}

	idle, _ := DecodeClient([]byte(`{"type":"dragend"}`))
	if idle.ContainerID() != dnd.NoContainer {
		t.Errorf("ContainerID() = %d, want NoContainer", idle.ContainerID())
	}
}

func TestDecodeClientErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code string
	}{
		{"not json", `nope`, "E301"},
		{"unknown field", `{"type":"dragend","extra":1}`, "E301"},
		{"missing type", `{"container":0}`, "E301"},
		{"unknown type", `{"type":"drop"}`, "E302"},
		{"dragstart without item", `{"type":"dragstart","container":0}`, "E301"},
		{"dragstart without container", `{"type":"dragstart","item":"a"}`, "E301"},
		{"dragover without pointer", `{"type":"dragover","container":0,"item":"a"}`, "E301"},
		{"emptyover without container", `{"type":"emptyover"}`, "E301"},
		{"layout without container", `{"type":"layout","boxes":{}}`, "E301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClient([]byte(tt.data))
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("DecodeClient() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeClientSizeLimit(t *testing.T) {
	data := `{"type":"dragstart","container":0,"item":"` + strings.Repeat("a", MaxMessageSize) + `"}`
	_, err := DecodeClient([]byte(data))
	if !errors.HasCode(err, "E301") {
		t.Fatalf("DecodeClient() error = %v, want E301", err)
	}
}

func TestEncodeServerMessages(t *testing.T) {
	items := []dnd.Item{{ID: "a", Payload: "Alpha"}}

	tests := []struct {
		name string
		msg  *ServerMessage
		want string
	}{
		{
			name: "commit",
			msg:  Commit(1, items),
			want: `{"type":"commit","container":1,"items":[{"id":"a","payload":"Alpha"}]}`,
		},
		{
			name: "items",
			msg:  Items(0, items),
			want: `{"type":"items","container":0,"items":[{"id":"a","payload":"Alpha"}]}`,
		},
		{
			name: "empty commit",
			msg:  Commit(2, nil),
			want: `{"type":"commit","container":2}`,
		},
		{
			name: "hello",
			msg:  Hello("s1", []ContainerState{{ID: 0, Name: "todo", Items: items}}),
			want: `{"type":"hello","session":"s1","containers":[{"id":0,"name":"todo","items":[{"id":"a","payload":"Alpha"}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(data) != tt.want {
				t.Fatalf("Encode() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestEncodeError(t *testing.T) {
	_, decodeErr := DecodeClient([]byte(`{"type":"drop"}`))
	data, err := Encode(Error(decodeErr))
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Type  Type `json:"type"`
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if out.Type != TypeError || out.Error.Code != "E302" {
		t.Fatalf("Encode(Error) = %s", data)
	}
}
