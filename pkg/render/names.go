package render

import (
	"strings"
	"sync"
	"unicode"

	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Hyphenate converts a mixed-case identifier to the host's hyphenated
// spelling: "ariaLabel" becomes "aria-label". Runs of capitals are split
// per letter.
func Hyphenate(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ElementFunc builds an element effect from its children.
type ElementFunc func(children ...Template) Effect

// AttrFunc builds an attribute binding.
type AttrFunc func(v reactive.Value[any]) Effect

// EventFunc builds an event binding.
type EventFunc func(l dom.Listener) Effect

var (
	registryMu sync.Mutex
	elements   = map[string]ElementFunc{}
	attrs      = map[string]AttrFunc{}
	events     = map[string]EventFunc{}
)

// El returns the constructor for the element named name, hyphenated.
// Constructors are cached per name.
func El(name string) ElementFunc {
	registryMu.Lock()
	defer registryMu.Unlock()

	if fn, ok := elements[name]; ok {
		return fn
	}
	tag := Hyphenate(name)
	fn := func(children ...Template) Effect {
		return Element(tag, children...)
	}
	elements[name] = fn
	return fn
}

// Att returns the binding constructor for the attribute named name,
// hyphenated.
func Att(name string) AttrFunc {
	registryMu.Lock()
	defer registryMu.Unlock()

	if fn, ok := attrs[name]; ok {
		return fn
	}
	attr := Hyphenate(name)
	fn := func(v reactive.Value[any]) Effect {
		return Attr(attr, v)
	}
	attrs[name] = fn
	return fn
}

// Event returns the listener constructor for the event named name. Event
// names are lower-cased, not hyphenated: "dblClick" becomes "dblclick".
func Event(name string) EventFunc {
	registryMu.Lock()
	defer registryMu.Unlock()

	if fn, ok := events[name]; ok {
		return fn
	}
	event := strings.ToLower(name)
	fn := func(l dom.Listener) Effect {
		return On(event, l)
	}
	events[name] = fn
	return fn
}
