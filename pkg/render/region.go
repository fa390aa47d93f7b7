package render

import "github.com/vango-dev/renditional/pkg/dom"

// Region is an insertion point in the host tree: either an element or a
// Section of one.
type Region interface {
	AppendChild(n dom.Node)
	RemoveChild(n dom.Node)
	InsertBefore(n, before dom.Node)

	// Element returns the host element that owns the region's nodes.
	Element() dom.Element

	// Document returns the factory for new nodes.
	Document() dom.Document
}

type rootRegion struct {
	el dom.Element
}

// Root returns the Region covering all children of el.
func Root(el dom.Element) Region {
	return rootRegion{el: el}
}

func (r rootRegion) AppendChild(n dom.Node)          { r.el.AppendChild(n) }
func (r rootRegion) RemoveChild(n dom.Node)          { r.el.RemoveChild(n) }
func (r rootRegion) InsertBefore(n, before dom.Node) { r.el.InsertBefore(n, before) }
func (r rootRegion) Element() dom.Element            { return r.el }
func (r rootRegion) Document() dom.Document          { return r.el.OwnerDocument() }

// Section is a virtual Region ending at a marker node. Appending inserts
// before the marker in whatever parent the marker currently has, so a
// Section follows its marker when the marker is moved.
type Section struct {
	marker dom.Node
}

var _ Region = (*Section)(nil)

// NewSection returns the Section ending at marker. marker must be attached.
func NewSection(marker dom.Node) *Section {
	return &Section{marker: marker}
}

// Marker returns the node that ends the section.
func (s *Section) Marker() dom.Node {
	return s.marker
}

// AppendChild inserts n immediately before the marker.
func (s *Section) AppendChild(n dom.Node) {
	s.marker.ParentNode().InsertBefore(n, s.marker)
}

// RemoveChild removes n from the marker's parent.
func (s *Section) RemoveChild(n dom.Node) {
	s.marker.ParentNode().RemoveChild(n)
}

// InsertBefore inserts n before the given sibling, or before the marker
// when before is nil.
func (s *Section) InsertBefore(n, before dom.Node) {
	if before == nil {
		s.AppendChild(n)
		return
	}
	s.marker.ParentNode().InsertBefore(n, before)
}

// Element returns the marker's parent.
func (s *Section) Element() dom.Element {
	return s.marker.ParentNode()
}

// Document returns the marker's owner document.
func (s *Section) Document() dom.Document {
	return s.marker.OwnerDocument()
}
