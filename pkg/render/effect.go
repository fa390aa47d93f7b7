package render

import (
	"fmt"
	"reflect"
	"strconv"

	rerrors "github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Template is anything Render accepts.
type Template = any

// Fragment is an ordered group of templates rendered into the same region.
type Fragment []Template

// Effect produces side effects in a Region and registers the cleanups that
// undo them.
type Effect interface {
	Apply(r Region, register lifecycle.Registrar) error
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(r Region, register lifecycle.Registrar) error

// Apply calls f.
func (f EffectFunc) Apply(r Region, register lifecycle.Registrar) error {
	return f(r, register)
}

// Render puts t into r.
//
//   - Effect: applied.
//   - Fragment and any other slice or array: each element in order.
//   - nil, string, bool, integer and float kinds: a text node, removed on
//     cleanup. nil renders an empty text node, not the text "null" a
//     browser's createTextNode(null) would produce.
//
// Anything else fails with an error matching ErrUnrenderableTemplate.
func Render(r Region, t Template, register lifecycle.Registrar) error {
	switch v := t.(type) {
	case Effect:
		return v.Apply(r, register)
	case Fragment:
		return renderAll(r, v, register)
	case []Template:
		return renderAll(r, v, register)
	case []Effect:
		for _, e := range v {
			if err := e.Apply(r, register); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return literal(r, "", register)
	case string:
		return literal(r, v, register)
	case bool:
		return literal(r, strconv.FormatBool(v), register)
	case int:
		return literal(r, strconv.Itoa(v), register)
	case float64:
		return literal(r, strconv.FormatFloat(v, 'g', -1, 64), register)
	}

	rv := reflect.ValueOf(t)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := Render(r, rv.Index(i).Interface(), register); err != nil {
				return err
			}
		}
		return nil
	case reflect.String:
		return literal(r, rv.String(), register)
	case reflect.Bool:
		return literal(r, strconv.FormatBool(rv.Bool()), register)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return literal(r, fmt.Sprint(t), register)
	}

	return rerrors.New(rerrors.CodeUnrenderable).
		WithDetailf("cannot render a value of type %T", t)
}

func renderAll(r Region, ts []Template, register lifecycle.Registrar) error {
	for _, t := range ts {
		if err := Render(r, t, register); err != nil {
			return err
		}
	}
	return nil
}

func literal(r Region, s string, register lifecycle.Registrar) error {
	node := r.Document().CreateTextNode(s)
	r.AppendChild(node)
	register(func() { r.RemoveChild(node) })
	return nil
}

// Lazy defers building a template until the effect is applied. Content of a
// Maybe is usually wrapped in Lazy so it is constructed on every mount.
func Lazy(build func() Template) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		return Render(r, build(), register)
	})
}

// Mount renders t into root and returns the Destroyer that removes it
// again. If rendering fails, whatever was mounted is torn down before the
// error is returned.
func Mount(root dom.Element, t Template) (*lifecycle.Destroyer, error) {
	d := lifecycle.New()
	var err error
	reactive.Untracked(func() {
		err = Render(Root(root), t, d.Registrar())
	})
	if err != nil {
		d.MustRun()
		return nil, err
	}
	return d, nil
}
