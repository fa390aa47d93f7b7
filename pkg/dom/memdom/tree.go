package memdom

import (
	"fmt"

	"github.com/vango-dev/renditional/pkg/dom"
)

// AppendChild implements dom.Element.
func (n *Node) AppendChild(child dom.Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore implements dom.Element. It panics, as a browser DOM throws,
// when ref is not a child of n or when child contains n.
func (n *Node) InsertBefore(child, ref dom.Node) {
	n.mustBeElement("InsertBefore")
	c := asNode(child)

	var r *Node
	if ref != nil {
		r = asNode(ref)
		if r.parent != n {
			panic(fmt.Sprintf("memdom: reference node %d is not a child of %d", r.id, n.id))
		}
		if r == c {
			return
		}
	}
	if c.Contains(n) {
		panic(fmt.Sprintf("memdom: cannot insert node %d into its own descendant %d", c.id, n.id))
	}

	oldParent := c.parent
	wasConnected := oldParent != nil && c.connected()
	if oldParent != nil {
		oldParent.unlink(c)
	}
	n.link(c, r)

	switch {
	case len(n.doc.observers) == 0:
	case n.connected():
		m := Mutation{Op: OpInsert, Target: n.id, Node: c.id, Moved: wasConnected}
		if r != nil {
			m.Before = r.id
		}
		if !wasConnected {
			m.Tree = c.Snapshot()
		}
		n.doc.emit(m)
	case wasConnected:
		n.doc.emit(Mutation{Op: OpRemove, Target: oldParent.id, Node: c.id})
	}
}

// RemoveChild implements dom.Element. It panics when child is not a child
// of n.
func (n *Node) RemoveChild(child dom.Node) {
	n.mustBeElement("RemoveChild")
	c := asNode(child)
	if c.parent != n {
		panic(fmt.Sprintf("memdom: node %d is not a child of %d", c.id, n.id))
	}

	wasConnected := n.connected()
	n.unlink(c)
	if wasConnected {
		n.doc.emit(Mutation{Op: OpRemove, Target: n.id, Node: c.id})
	}
}

// link inserts c before r (or last when r is nil). c must be detached.
func (n *Node) link(c, r *Node) {
	c.parent = n
	if r == nil {
		c.prev = n.lastChild
		c.next = nil
		if n.lastChild != nil {
			n.lastChild.next = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
		return
	}

	c.next = r
	c.prev = r.prev
	if r.prev != nil {
		r.prev.next = c
	} else {
		n.firstChild = c
	}
	r.prev = c
}

// unlink detaches c from n.
func (n *Node) unlink(c *Node) {
	if c.prev != nil {
		c.prev.next = c.next
	} else {
		n.firstChild = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	} else {
		n.lastChild = c.prev
	}
	c.parent, c.prev, c.next = nil, nil, nil
}
