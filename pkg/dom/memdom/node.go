// Package memdom is an in-memory host tree implementing package dom.
//
// It is the render target used by tests, by the CLI and by live sessions,
// where every structural or attribute change is reported to observers as a
// Mutation and shipped to the browser.
package memdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/renditional/pkg/dom"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota + 1
	KindText
	KindComment
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Attr is a single attribute.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type listener struct {
	fn dom.Listener
}

// Node is an element, text or comment node. It implements dom.Element and
// dom.Text; element-only methods panic on other kinds.
type Node struct {
	id   uint64
	kind Kind
	doc  *Document

	tag   string
	data  string
	attrs []Attr
	props map[string]any

	listeners map[string][]*listener

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prev       *Node
	next       *Node
}

var (
	_ dom.Element = (*Node)(nil)
	_ dom.Text    = (*Node)(nil)
)

// asNode converts a dom.Node created by this package.
func asNode(n dom.Node) *Node {
	m, ok := n.(*Node)
	if !ok || m == nil {
		panic(fmt.Sprintf("memdom: foreign or nil node %T", n))
	}
	return m
}

func (n *Node) mustBeElement(op string) {
	if n.kind != KindElement {
		panic(fmt.Sprintf("memdom: %s on %s node", op, n.kind))
	}
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 {
	return n.id
}

// Kind returns the node type.
func (n *Node) Kind() Kind {
	return n.kind
}

// ParentNode implements dom.Node.
func (n *Node) ParentNode() dom.Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// NextSibling implements dom.Node.
func (n *Node) NextSibling() dom.Node {
	if n.next == nil {
		return nil
	}
	return n.next
}

// OwnerDocument implements dom.Node.
func (n *Node) OwnerDocument() dom.Document {
	return n.doc
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Next returns the following sibling, or nil.
func (n *Node) Next() *Node { return n.next }

// Prev returns the preceding sibling, or nil.
func (n *Node) Prev() *Node { return n.prev }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.lastChild }

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// TagName implements dom.Element.
func (n *Node) TagName() string {
	return n.tag
}

// Data implements dom.Text. For comments it returns the comment text.
func (n *Node) Data() string {
	return n.data
}

// SetData implements dom.Text.
func (n *Node) SetData(data string) {
	if n.kind == KindElement {
		panic("memdom: SetData on element node")
	}
	if n.data == data {
		return
	}
	n.data = data
	n.doc.emitFor(n, Mutation{Op: OpSetText, Target: n.id, Value: data})
}

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.kind == KindText {
		return n.data
	}
	var b strings.Builder
	n.walk(func(c *Node) {
		if c.kind == KindText {
			b.WriteString(c.data)
		}
	})
	return b.String()
}

// walk visits every descendant in document order.
func (n *Node) walk(fn func(*Node)) {
	for c := n.firstChild; c != nil; c = c.next {
		fn(c)
		c.walk(fn)
	}
}

// Find returns the first descendant for which match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	for c := n.firstChild; c != nil; c = c.next {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant for which match returns true.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if match(c) {
			out = append(out, c)
		}
	})
	return out
}

// ByTag is a Find predicate matching elements with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool {
		return n.kind == KindElement && n.tag == tag
	}
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// connected reports whether n is attached to its document's body.
func (n *Node) connected() bool {
	return n.doc.body.Contains(n)
}
