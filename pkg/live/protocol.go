package live

import "github.com/vango-dev/renditional/pkg/dom/memdom"

// MessageType discriminates server messages.
type MessageType string

const (
	MessageInit  MessageType = "init"
	MessagePatch MessageType = "patch"
	MessageError MessageType = "error"
)

// ServerMessage is sent from the session to the browser.
type ServerMessage struct {
	Type MessageType `json:"type"`

	// Seq increases by one per message of a session.
	Seq uint64 `json:"seq"`

	// Tree is the whole body, for init.
	Tree *memdom.Snapshot `json:"tree,omitempty"`

	// Mutations are the changes made while handling one event.
	Mutations []memdom.Mutation `json:"mutations,omitempty"`

	Error string `json:"error,omitempty"`
}

// ClientEvent is a DOM event forwarded by the browser.
type ClientEvent struct {
	// Type is the DOM event name, e.g. "click".
	Type string `json:"type"`

	// Target is the memdom node ID the event was dispatched on.
	Target uint64 `json:"target"`

	// Value is the target's value for input-like events.
	Value string `json:"value,omitempty"`
}
