package render

import (
	rerrors "github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Map renders mapper(v) for every distinct value v of items, in order.
//
// Values are compared with reactive.Identical; a value that occurs more
// than once is rendered only at its first position. When items changes,
// sub-trees of values still present are moved, never recreated; values
// that disappeared are unmounted and new values are mounted in place.
// After every pass the rendered items are checked against the list; a
// mismatch, which means values do not keep a stable identity, fails with
// an error matching ErrReconciliationInvariant.
func Map[T any](items reactive.Value[[]T], mapper func(T) Template) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		l := &list[T]{
			items:    items,
			mapper:   mapper,
			start:    r.Document().CreateComment("map"),
			observer: currentListObserver(),
		}
		r.AppendChild(l.start)

		l.dep = reactive.NewDependent(l.update)
		register(func() {
			l.dep.Cancel()
			for _, it := range l.current {
				l.observer.ItemUnmounted()
				it.scope.MustRun()
			}
			l.current = nil
			r.RemoveChild(l.start)
		})
		return l.update()
	})
}

// listItem is one mounted value. Its nodes run from just after the previous
// item's end marker (or the list's start marker) up to and including end.
type listItem[T any] struct {
	value T
	end   dom.Node
	scope *lifecycle.Destroyer
}

type list[T any] struct {
	items  reactive.Value[[]T]
	mapper func(T) Template
	start  dom.Node
	dep    *reactive.Dependent

	current  []*listItem[T]
	observer ListObserver
}

func (l *list[T]) update() error {
	var values []T
	l.dep.Track(func() { values = l.items.Get() })
	next := dedupe(values)

	var err error
	reactive.Untracked(func() { err = l.reconcile(next) })
	if err != nil {
		return err
	}
	return l.check(next)
}

func (l *list[T]) reconcile(next []T) error {
	index := 0
	for index < len(l.current) || index < len(next) {
		if index < len(l.current) && indexOf(next, l.current[index].value, 0) < 0 {
			l.unmount(index)
			continue
		}
		if index >= len(next) {
			// Every remaining current value has a match, so next cannot be
			// exhausted first; check reports the mismatch if it ever is.
			return nil
		}

		j := l.find(next[index], index)
		switch {
		case j < 0:
			if err := l.mount(index, next[index]); err != nil {
				return err
			}
		case j != index:
			l.move(j, index)
		}
		index++
	}
	return nil
}

// find returns the position of v in current at or after from, or -1.
func (l *list[T]) find(v T, from int) int {
	for i := from; i < len(l.current); i++ {
		if reactive.Identical(l.current[i].value, v) {
			return i
		}
	}
	return -1
}

// endBefore returns the marker after which the item at index begins.
func (l *list[T]) endBefore(index int) dom.Node {
	if index == 0 {
		return l.start
	}
	return l.current[index-1].end
}

func (l *list[T]) unmount(index int) {
	it := l.current[index]
	l.current = append(l.current[:index], l.current[index+1:]...)
	l.observer.ItemUnmounted()
	it.scope.MustRun()
}

func (l *list[T]) mount(index int, v T) error {
	prev := l.endBefore(index)
	parent := prev.ParentNode()
	end := parent.OwnerDocument().CreateComment("item")
	parent.InsertBefore(end, prev.NextSibling())

	it := &listItem[T]{value: v, end: end, scope: lifecycle.New()}
	// Registered first so the marker goes last.
	it.scope.Register(func() {
		if p := end.ParentNode(); p != nil {
			p.RemoveChild(end)
		}
	})

	l.current = append(l.current, nil)
	copy(l.current[index+1:], l.current[index:])
	l.current[index] = it
	l.observer.ItemMounted()

	return Render(NewSection(end), l.mapper(v), it.scope.Registrar())
}

// move relocates the item at from, which is after to, so that it becomes
// the item at to.
func (l *list[T]) move(from, to int) {
	it := l.current[from]

	var nodes []dom.Node
	for n := l.endBefore(from).NextSibling(); n != nil; n = n.NextSibling() {
		nodes = append(nodes, n)
		if n == it.end {
			break
		}
	}

	prev := l.endBefore(to)
	parent := prev.ParentNode()
	anchor := prev.NextSibling()
	for _, n := range nodes {
		parent.InsertBefore(n, anchor)
	}

	copy(l.current[to+1:from+1], l.current[to:from])
	l.current[to] = it
	l.observer.ItemMoved()
}

// check verifies that current matches next pairwise and that item markers
// follow the start marker in strictly increasing document order.
func (l *list[T]) check(next []T) error {
	if len(l.current) != len(next) {
		return invariantError("rendered %d items for a list of %d", len(l.current), len(next))
	}
	for i, it := range l.current {
		if !reactive.Identical(it.value, next[i]) {
			return invariantError("item %d does not match the list", i)
		}
	}

	k := 0
	for n := l.start.NextSibling(); n != nil && k < len(l.current); n = n.NextSibling() {
		if n == l.current[k].end {
			k++
		}
	}
	if k != len(l.current) {
		return invariantError("item marker %d is out of order", k)
	}
	return nil
}

func invariantError(format string, args ...any) error {
	return rerrors.New(rerrors.CodeReconciliation).WithDetailf(format, args...)
}

// dedupe returns the first occurrence of every distinct value, in order.
func dedupe[T any](values []T) []T {
	out := make([]T, 0, len(values))
	for _, v := range values {
		if indexOf(out, v, 0) < 0 {
			out = append(out, v)
		}
	}
	return out
}

func indexOf[T any](values []T, v T, from int) int {
	for i := from; i < len(values); i++ {
		if reactive.Identical(values[i], v) {
			return i
		}
	}
	return -1
}
