// Package demo is the sample application served by `renditional serve` and
// rendered by `renditional render`.
//
// It combines a Fizz/Buzz counter, a todo list with a deterministic
// shuffle, a dependency-tracking playground and three toggled blocks.
package demo

import (
	"fmt"
	"strings"

	"github.com/vango-dev/renditional/el"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/render"
)

// App holds the state of one demo instance.
type App struct {
	Counter      *Counter
	Todos        *TodoList
	Dependencies *Dependencies
	Toggles      *Toggles
}

// New creates an App. seed drives the todo shuffle.
func New(seed uint64) *App {
	return &App{
		Counter:      NewCounter(),
		Todos:        NewTodoList(seed),
		Dependencies: NewDependencies(),
		Toggles:      NewToggles(),
	}
}

// Render returns the whole page.
func (a *App) Render() el.Template {
	return el.Fragment(
		a.Counter.Render(),
		a.Todos.Render(),
		a.Dependencies.Render(),
		a.Toggles.Render(),
	)
}

// Factory returns a constructor building a fresh App per call, so every
// live session gets its own state.
func Factory(seed uint64) func() render.Template {
	return func() render.Template {
		return New(seed).Render()
	}
}

// Press dispatches a click on the first button under root whose text
// starts with label.
func Press(root *memdom.Node, label string) error {
	btn := root.Find(func(n *memdom.Node) bool {
		return n.TagName() == "button" && strings.HasPrefix(n.TextContent(), label)
	})
	if btn == nil {
		return fmt.Errorf("no button labelled %q", label)
	}
	btn.Dispatch(&dom.Event{Type: "click"})
	return nil
}
