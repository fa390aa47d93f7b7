// Package dom defines the host tree contract the renderer mutates.
//
// The renderer never inspects host nodes beyond this contract: it creates
// nodes through a Document, inserts and removes them through an Element,
// and walks siblings with NextSibling. Package memdom provides an in-memory
// implementation.
package dom

// Document creates nodes.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(data string) Text
	CreateComment(data string) Node
}

// Node is any node of the host tree.
type Node interface {
	// ParentNode returns the containing element, or nil when detached.
	ParentNode() Element

	// NextSibling returns the following sibling, or nil when last.
	NextSibling() Node

	// OwnerDocument returns the Document that created the node.
	OwnerDocument() Document
}

// Element is a node that holds children, attributes, properties and
// event listeners.
type Element interface {
	Node

	TagName() string

	AppendChild(child Node)
	RemoveChild(child Node)

	// InsertBefore inserts child before ref. A nil ref appends. Inserting
	// a node that is already attached moves it.
	InsertBefore(child, ref Node)

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	HasAttribute(name string) bool

	// SetProperty sets a host property that is not an attribute, such as
	// the live value of an input.
	SetProperty(name string, value any)

	// AddEventListener registers l for events named name and returns the
	// function that removes exactly this registration.
	AddEventListener(name string, l Listener) (remove func())
}

// Text is a text node.
type Text interface {
	Node

	Data() string
	SetData(data string)
}

// Listener handles an event.
type Listener func(e *Event)

// Event is delivered to listeners.
type Event struct {
	// Type is the event name, e.g. "click".
	Type string

	// Target is the element the event was dispatched on.
	Target Element

	// Value carries the target's value for input-like events.
	Value string

	defaultPrevented bool
	stopped          bool
}

// PreventDefault marks the event as handled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops the event from reaching further ancestors.
// Listeners on the current element still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}
