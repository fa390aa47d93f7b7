// This file defines event helpers for the el package.
package el

import (
	rerrors "github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/render"
)

// On registers handler for an arbitrary event. handler is one of
// func(), func(*dom.Event), dom.Listener or func(string), which receives
// the event value.
func On(event string, handler any) Effect {
	l, ok := listener(handler)
	if !ok {
		return render.EffectFunc(func(render.Region, lifecycle.Registrar) error {
			return unsupported(event+" handler", handler)
		})
	}
	return render.Event(event)(l)
}

func OnClick(handler any) Effect {
	return On("click", handler)
}
func OnDblClick(handler any) Effect {
	return On("dblclick", handler)
}
func OnInput(handler any) Effect {
	return On("input", handler)
}
func OnChange(handler any) Effect {
	return On("change", handler)
}
func OnKeyDown(handler any) Effect {
	return On("keydown", handler)
}
func OnFocus(handler any) Effect {
	return On("focus", handler)
}
func OnBlur(handler any) Effect {
	return On("blur", handler)
}

// OnSubmit registers handler for form submission and prevents the default
// navigation.
func OnSubmit(handler any) Effect {
	l, ok := listener(handler)
	if !ok {
		return On("submit", handler)
	}
	return render.Event("submit")(func(e *dom.Event) {
		e.PreventDefault()
		l(e)
	})
}

func listener(handler any) (dom.Listener, bool) {
	switch h := handler.(type) {
	case dom.Listener:
		return h, true
	case func(*dom.Event):
		return h, true
	case func():
		return func(*dom.Event) { h() }, true
	case func(string):
		return func(e *dom.Event) { h(e.Value) }, true
	default:
		return nil, false
	}
}

func unsupported(what string, v any) error {
	return rerrors.New(rerrors.CodeUnrenderable).
		WithDetailf("unsupported %s type %T", what, v)
}
