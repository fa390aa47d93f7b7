package render

import "github.com/vango-dev/renditional/pkg/reactive"

// ListObserver receives structural events from Maybe and Map. A runtime
// Observer that also implements ListObserver receives them for every
// combinator created while that runtime is current.
type ListObserver interface {
	ItemMounted()
	ItemUnmounted()
	ItemMoved()
	ConditionalToggled(shown bool)
}

type nopListObserver struct{}

func (nopListObserver) ItemMounted()            {}
func (nopListObserver) ItemUnmounted()          {}
func (nopListObserver) ItemMoved()              {}
func (nopListObserver) ConditionalToggled(bool) {}

func currentListObserver() ListObserver {
	if lo, ok := reactive.Current().Observer().(ListObserver); ok {
		return lo
	}
	return nopListObserver{}
}
