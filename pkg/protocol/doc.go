// Package protocol defines the JSON messages exchanged between a browser
// client and the dragsort server over a WebSocket connection.
//
// Every message is a single JSON object in a text frame with a "type" field.
//
// # Client → Server
//
//	{"type":"layout","container":0,"boxes":{"a":{"top":0,"height":40}}}
//	{"type":"dragstart","container":0,"item":"a"}
//	{"type":"dragover","container":1,"item":"x","pointerY":212.5}
//	{"type":"emptyover","container":2}
//	{"type":"transitionstart"}
//	{"type":"transitionend"}
//	{"type":"dragend"}
//	{"type":"reset"}
//
// "layout" reports measured boxes after each render. Items become
// addressable by dragstart and dragover once their container's layout has
// been reported; an item without a box never reports a position.
//
// # Server → Client
//
//	{"type":"hello","session":"…","containers":[{"id":0,"name":"todo","items":[…]}]}
//	{"type":"items","container":0,"items":[…]}
//	{"type":"commit","container":0,"items":[…]}
//	{"type":"error","error":{"code":"E301","message":"Invalid message",…}}
//
// "items" is sent whenever a container's local order changes during a drag
// so the client can re-render; "commit" is sent once per container when the
// drop completes. An empty order is sent without the "items" field.
package protocol
