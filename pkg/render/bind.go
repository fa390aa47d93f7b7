package render

import (
	"fmt"

	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Text renders one text node holding v. A computed v is re-evaluated on
// every scheduled run after a cell it read changes; the node itself is
// created once and removed at teardown.
func Text(v reactive.Value[string]) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		node := r.Document().CreateTextNode("")
		cancel := watchValue(v, func(s string) { node.SetData(s) })
		r.AppendChild(node)
		register(func() {
			cancel()
			r.RemoveChild(node)
		})
		return nil
	})
}

// Textf renders a fixed formatted text node.
func Textf(format string, args ...any) Effect {
	return Text(reactive.Literal(fmt.Sprintf(format, args...)))
}

// Attr binds the attribute name on the region's element.
//
// true sets the attribute with an empty value; false and nil remove it;
// anything else is set to its fmt.Sprint form. The attribute is removed at
// teardown.
func Attr(name string, v reactive.Value[any]) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		el := r.Element()
		cancel := watchValue(v, func(val any) { setAttr(el, name, val) })
		register(func() {
			cancel()
			el.RemoveAttribute(name)
		})
		return nil
	})
}

func setAttr(el dom.Element, name string, val any) {
	switch x := val.(type) {
	case nil:
		el.RemoveAttribute(name)
	case bool:
		if x {
			el.SetAttribute(name, "")
		} else {
			el.RemoveAttribute(name)
		}
	case string:
		el.SetAttribute(name, x)
	default:
		el.SetAttribute(name, fmt.Sprint(x))
	}
}

// Property binds a host property such as an input's value or checked
// state. Unlike an attribute, a property is left in place at teardown.
func Property(name string, v reactive.Value[any]) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		el := r.Element()
		register(watchValue(v, func(val any) { el.SetProperty(name, val) }))
		return nil
	})
}

// On registers l for the event on the region's element. The listener is
// fixed for the life of the effect and deregistered at teardown.
func On(event string, l dom.Listener) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		register(r.Element().AddEventListener(event, l))
		return nil
	})
}

// Element creates a tag element, renders children into it and appends it
// to the region. Children share the enclosing scope, and their cleanups
// run before the element is removed.
func Element(tag string, children ...Template) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		el := r.Document().CreateElement(tag)
		register(func() {
			if el.ParentNode() != nil {
				r.RemoveChild(el)
			}
		})
		if err := renderAll(Root(el), children, register); err != nil {
			return err
		}
		r.AppendChild(el)
		return nil
	})
}

// watchValue calls apply with v's value now and, for a computed v, again
// whenever the cells it read change. The returned function stops it.
func watchValue[T any](v reactive.Value[T], apply func(T)) (cancel func()) {
	if !v.IsComputed() {
		apply(v.Get())
		return func() {}
	}
	return reactive.Watch(func() { apply(v.Get()) })
}
