package memdom

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// voidElements are HTML elements that cannot have children and are
// serialized without a closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// HTMLOptions configures serialization.
type HTMLOptions struct {
	// IDAttr, when set, adds the node ID to every element under this
	// attribute name (e.g. "data-nid").
	IDAttr string

	// Comments keeps comment nodes. Markers are comments, so output meant
	// for a human usually omits them.
	Comments bool
}

// OuterHTML serializes n and its subtree. Comment nodes are omitted.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	_ = n.WriteHTML(&b, HTMLOptions{})
	return b.String()
}

// InnerHTML serializes n's children. Comment nodes are omitted.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	w := bufio.NewWriter(&b)
	for c := n.firstChild; c != nil; c = c.next {
		_ = c.writeHTML(w, HTMLOptions{})
	}
	_ = w.Flush()
	return b.String()
}

// WriteHTML streams n as HTML to w.
func (n *Node) WriteHTML(w io.Writer, opts HTMLOptions) error {
	bw := bufio.NewWriter(w)
	if err := n.writeHTML(bw, opts); err != nil {
		return err
	}
	return bw.Flush()
}

func (n *Node) writeHTML(w *bufio.Writer, opts HTMLOptions) error {
	switch n.kind {
	case KindText:
		_, err := w.WriteString(escapeHTML(n.data))
		return err
	case KindComment:
		if !opts.Comments {
			return nil
		}
		_, err := w.WriteString("<!--" + strings.ReplaceAll(n.data, "--", "- -") + "-->")
		return err
	}

	w.WriteByte('<')
	w.WriteString(n.tag)
	if opts.IDAttr != "" {
		w.WriteString(" " + opts.IDAttr + `="` + strconv.FormatUint(n.id, 10) + `"`)
	}
	for _, a := range n.attrs {
		w.WriteByte(' ')
		w.WriteString(a.Name)
		if a.Value != "" {
			w.WriteString(`="` + escapeAttr(a.Value) + `"`)
		}
	}
	w.WriteByte('>')

	if voidElements[n.tag] {
		return nil
	}

	for c := n.firstChild; c != nil; c = c.next {
		if err := c.writeHTML(w, opts); err != nil {
			return err
		}
	}

	_, err := w.WriteString("</" + n.tag + ">")
	return err
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for safe inclusion in a double-quoted attribute
// value, including whitespace that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
