// This file defines text and structural helpers for the el package.
package el

import (
	"fmt"

	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

// Text renders a text node. content is a string, a func() string or a
// reactive.Value[string]; the latter two update the node in place.
func Text(content any) Effect {
	switch c := content.(type) {
	case string:
		return render.Text(reactive.Literal(c))
	case func() string:
		return render.Text(reactive.Computed(c))
	case reactive.Value[string]:
		return render.Text(c)
	case reactive.Readable[string]:
		return render.Text(reactive.Of(c))
	default:
		return render.Text(reactive.Computed(func() string {
			return fmt.Sprint(dynamic(content).Get())
		}))
	}
}

func Textf(format string, args ...any) Effect {
	return render.Textf(format, args...)
}

func Fragment(children ...Template) render.Fragment {
	return render.Fragment(children)
}

// If mounts children while cond holds. cond is a bool, a func() bool, a
// reactive.Value[bool] or a readable cell. Children are built again on every mount.
func If(cond any, children ...Template) Effect {
	return render.Maybe(predicate(cond), render.Fragment(children))
}

// Unless mounts children while cond does not hold.
func Unless(cond any, children ...Template) Effect {
	p := predicate(cond)
	return render.Maybe(reactive.Computed(func() bool { return !p.Get() }), render.Fragment(children))
}

// When mounts the template built by fn while cond holds; fn runs on each
// mount.
func When(cond any, fn func() Template) Effect {
	return render.Maybe(predicate(cond), render.Lazy(fn))
}

// Range renders fn(item) for every distinct item of items, moving rendered
// items when the list is reordered. items is a []T, a func() []T or a
// reactive.Value[[]T].
func Range[T any](items any, fn func(item T) Template) Effect {
	var v reactive.Value[[]T]
	switch x := items.(type) {
	case []T:
		v = reactive.Literal(x)
	case func() []T:
		v = reactive.Computed(x)
	case reactive.Value[[]T]:
		v = x
	case reactive.Readable[[]T]:
		v = reactive.Of(x)
	default:
		return render.EffectFunc(func(render.Region, lifecycle.Registrar) error {
			return unsupported("Range items", items)
		})
	}
	return render.Map(v, fn)
}

func predicate(cond any) reactive.Value[bool] {
	switch c := cond.(type) {
	case bool:
		return reactive.Literal(c)
	case func() bool:
		return reactive.Computed(c)
	case reactive.Value[bool]:
		return c
	case reactive.Readable[bool]:
		return reactive.Of(c)
	default:
		return reactive.Computed(func() bool {
			b, _ := dynamic(cond).Get().(bool)
			return b
		})
	}
}
