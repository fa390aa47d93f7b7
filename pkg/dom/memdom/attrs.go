package memdom

import "github.com/vango-dev/renditional/pkg/dom"

// SetAttribute implements dom.Element.
func (n *Node) SetAttribute(name, value string) {
	n.mustBeElement("SetAttribute")
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			if n.attrs[i].Value == value {
				return
			}
			n.attrs[i].Value = value
			n.doc.emitFor(n, Mutation{Op: OpSetAttr, Target: n.id, Name: name, Value: value})
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	n.doc.emitFor(n, Mutation{Op: OpSetAttr, Target: n.id, Name: name, Value: value})
}

// RemoveAttribute implements dom.Element. Removing an absent attribute
// does nothing.
func (n *Node) RemoveAttribute(name string) {
	n.mustBeElement("RemoveAttribute")
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.emitFor(n, Mutation{Op: OpRemoveAttr, Target: n.id, Name: name})
			return
		}
	}
}

// HasAttribute implements dom.Element.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Attribute returns the value of the named attribute.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns a copy of the attributes in insertion order.
func (n *Node) Attributes() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetProperty implements dom.Element.
func (n *Node) SetProperty(name string, value any) {
	n.mustBeElement("SetProperty")
	if n.props == nil {
		n.props = make(map[string]any)
	}
	if old, ok := n.props[name]; ok && sameScalar(old, value) {
		return
	}
	n.props[name] = value
	n.doc.emitFor(n, Mutation{Op: OpSetProp, Target: n.id, Name: name, Value: value})
}

// Property returns a property set with SetProperty.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// AddEventListener implements dom.Element.
func (n *Node) AddEventListener(name string, l dom.Listener) (remove func()) {
	n.mustBeElement("AddEventListener")
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	entry := &listener{fn: l}
	n.listeners[name] = append(n.listeners[name], entry)

	return func() {
		list := n.listeners[name]
		for i, existing := range list {
			if existing == entry {
				n.listeners[name] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners registered for name.
func (n *Node) ListenerCount(name string) int {
	return len(n.listeners[name])
}

// Dispatch delivers e to n's listeners and then to each ancestor's, as a
// bubbling DOM event, until a listener stops propagation. It returns false
// if a listener called PreventDefault.
func (n *Node) Dispatch(e *dom.Event) bool {
	n.mustBeElement("Dispatch")
	e.Target = n
	for cur := n; cur != nil; cur = cur.parent {
		list := cur.listeners[e.Type]
		if len(list) == 0 {
			continue
		}
		snapshot := make([]*listener, len(list))
		copy(snapshot, list)
		for _, l := range snapshot {
			l.fn(e)
		}
		if e.PropagationStopped() {
			break
		}
	}
	return !e.DefaultPrevented()
}

// sameScalar reports whether a and b are equal strings, bools or numbers.
// Other values always count as different.
func sameScalar(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	default:
		return false
	}
}
