package memdom

import "github.com/vango-dev/renditional/pkg/dom"

// MutationOp names a change to the connected tree.
type MutationOp string

const (
	OpInsert     MutationOp = "insert"
	OpRemove     MutationOp = "remove"
	OpSetAttr    MutationOp = "setAttr"
	OpRemoveAttr MutationOp = "removeAttr"
	OpSetText    MutationOp = "setText"
	OpSetProp    MutationOp = "setProp"
)

// Mutation describes one change to the part of the tree attached to the
// document body. Changes to detached nodes are not reported; they surface
// as the Tree of the insert that connects them.
type Mutation struct {
	Op MutationOp `json:"op"`

	// Target is the parent for insert/remove and the changed node otherwise.
	Target uint64 `json:"target"`

	// Node is the inserted or removed child.
	Node uint64 `json:"node,omitempty"`

	// Before is the reference sibling of an insert; 0 appends.
	Before uint64 `json:"before,omitempty"`

	// Moved marks an insert of a node that was already connected.
	Moved bool `json:"moved,omitempty"`

	// Tree is the inserted subtree for inserts of newly connected nodes.
	Tree *Snapshot `json:"tree,omitempty"`

	Name  string `json:"name,omitempty"`
	Value any    `json:"value,omitempty"`
}

// Document is an in-memory host tree rooted at a body element.
type Document struct {
	lastID    uint64
	body      *Node
	observers map[uint64]func(Mutation)
	nextObs   uint64
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates a Document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.newNode(KindElement)
	d.body.tag = "body"
	return d
}

// Body returns the root element.
func (d *Document) Body() *Node {
	return d.body
}

func (d *Document) newNode(kind Kind) *Node {
	d.lastID++
	return &Node{id: d.lastID, kind: kind, doc: d}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(data string) dom.Text {
	return d.NewText(data)
}

// CreateComment implements dom.Document.
func (d *Document) CreateComment(data string) dom.Node {
	n := d.newNode(KindComment)
	n.data = data
	return n
}

// NewElement is CreateElement returning the concrete type.
func (d *Document) NewElement(tag string) *Node {
	n := d.newNode(KindElement)
	n.tag = tag
	return n
}

// NewText is CreateTextNode returning the concrete type.
func (d *Document) NewText(data string) *Node {
	n := d.newNode(KindText)
	n.data = data
	return n
}

// NodeByID finds a connected node by its identifier.
func (d *Document) NodeByID(id uint64) *Node {
	if d.body.id == id {
		return d.body
	}
	return d.body.Find(func(n *Node) bool { return n.id == id })
}

// Observe registers fn to receive every Mutation of the connected tree and
// returns a function that unregisters it.
func (d *Document) Observe(fn func(Mutation)) (stop func()) {
	if d.observers == nil {
		d.observers = make(map[uint64]func(Mutation))
	}
	d.nextObs++
	key := d.nextObs
	d.observers[key] = fn
	return func() { delete(d.observers, key) }
}

func (d *Document) emit(m Mutation) {
	for _, fn := range d.observers {
		fn(m)
	}
}

// emitFor emits m if n is connected.
func (d *Document) emitFor(n *Node, m Mutation) {
	if len(d.observers) == 0 || !n.connected() {
		return
	}
	d.emit(m)
}

// Snapshot is a serializable copy of a subtree.
type Snapshot struct {
	ID       uint64         `json:"id"`
	Kind     string         `json:"kind"`
	Tag      string         `json:"tag,omitempty"`
	Data     string         `json:"data,omitempty"`
	Attrs    []Attr         `json:"attrs,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Children []*Snapshot    `json:"children,omitempty"`
}

// Snapshot returns a serializable copy of n and its descendants.
func (n *Node) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:   n.id,
		Kind: n.kind.String(),
		Tag:  n.tag,
		Data: n.data,
	}
	if len(n.attrs) > 0 {
		s.Attrs = n.Attributes()
	}
	if len(n.props) > 0 {
		s.Props = make(map[string]any, len(n.props))
		for k, v := range n.props {
			s.Props[k] = v
		}
	}
	for c := n.firstChild; c != nil; c = c.next {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}
