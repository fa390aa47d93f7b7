// This file defines attribute and property helpers for the el package.
package el

import (
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

// Attr binds an arbitrary attribute. Mixed-case names are hyphenated.
func Attr(name string, value any) Effect {
	return render.Att(name)(dynamic(value))
}

func ID(value any) Effect {
	return render.Attr("id", dynamic(value))
}
func Class(value any) Effect {
	return render.Attr("class", dynamic(value))
}
func Style(value any) Effect {
	return render.Attr("style", dynamic(value))
}
func TitleAttr(value any) Effect {
	return render.Attr("title", dynamic(value))
}
func Type(value any) Effect {
	return render.Attr("type", dynamic(value))
}
func Name(value any) Effect {
	return render.Attr("name", dynamic(value))
}
func Placeholder(value any) Effect {
	return render.Attr("placeholder", dynamic(value))
}
func Href(value any) Effect {
	return render.Attr("href", dynamic(value))
}
func Src(value any) Effect {
	return render.Attr("src", dynamic(value))
}
func Alt(value any) Effect {
	return render.Attr("alt", dynamic(value))
}
func For(value any) Effect {
	return render.Attr("for", dynamic(value))
}
func Role(value any) Effect {
	return render.Attr("role", dynamic(value))
}
func AriaLabel(value any) Effect {
	return render.Attr("aria-label", dynamic(value))
}
func Disabled(value any) Effect {
	return render.Attr("disabled", dynamic(value))
}
func Hidden(value any) Effect {
	return render.Attr("hidden", dynamic(value))
}
func Autofocus(value any) Effect {
	return render.Attr("autofocus", dynamic(value))
}

// Data binds a data-* attribute.
func Data(key string, value any) Effect {
	return render.Attr("data-"+render.Hyphenate(key), dynamic(value))
}

// Value binds the value property of an input, select or textarea.
func Value(value any) Effect {
	return render.Property("value", dynamic(value))
}

// Checked binds the checked property of a checkbox or radio input.
func Checked(value any) Effect {
	return render.Property("checked", dynamic(value))
}

// dynamic converts a literal, a func, a readable cell or a reactive.Value
// into a reactive.Value[any].
func dynamic(v any) reactive.Value[any] {
	switch x := v.(type) {
	case reactive.Value[any]:
		return x
	case reactive.Value[string]:
		return reactive.Box(x)
	case reactive.Value[bool]:
		return reactive.Box(x)
	case reactive.Value[int]:
		return reactive.Box(x)
	case func() any:
		return reactive.Computed(x)
	case func() string:
		return reactive.Computed(func() any { return x() })
	case func() bool:
		return reactive.Computed(func() any { return x() })
	case func() int:
		return reactive.Computed(func() any { return x() })
	case reactive.Readable[string]:
		return reactive.Computed(func() any { return x.Read() })
	case reactive.Readable[bool]:
		return reactive.Computed(func() any { return x.Read() })
	case reactive.Readable[int]:
		return reactive.Computed(func() any { return x.Read() })
	default:
		return reactive.Literal(v)
	}
}
