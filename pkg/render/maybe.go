package render

import (
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Maybe mounts content while shown is true.
//
// The predicate is evaluated once when the effect is applied and again on
// every scheduled run after a cell it read changes, so side effects inside
// it happen on each evaluation. A false-to-true edge mounts content with a
// fresh lifecycle scope; a true-to-false edge tears that scope down. An
// unchanged result does nothing. Content sits before a comment marker that
// stays in place in both states, keeping sibling order stable.
//
// Teardown stops the predicate, unmounts shown content and removes the
// marker.
func Maybe(shown reactive.Value[bool], content Template) Effect {
	return EffectFunc(func(r Region, register lifecycle.Registrar) error {
		m := &maybe{
			shown:    shown,
			content:  content,
			marker:   r.Document().CreateComment("maybe"),
			observer: currentListObserver(),
		}
		r.AppendChild(m.marker)

		m.dep = reactive.NewDependent(m.update)
		register(func() {
			m.dep.Cancel()
			m.hide()
			r.RemoveChild(m.marker)
		})
		return m.update()
	})
}

type maybe struct {
	shown   reactive.Value[bool]
	content Template
	marker  dom.Node
	dep     *reactive.Dependent

	// scope is non-nil while content is mounted.
	scope    *lifecycle.Destroyer
	observer ListObserver
}

func (m *maybe) update() error {
	var on bool
	m.dep.Track(func() { on = m.shown.Get() })

	switch {
	case on && m.scope == nil:
		return m.show()
	case !on && m.scope != nil:
		m.hide()
	}
	return nil
}

func (m *maybe) show() error {
	m.scope = lifecycle.New()
	m.observer.ConditionalToggled(true)

	var err error
	reactive.Untracked(func() {
		err = Render(NewSection(m.marker), m.content, m.scope.Registrar())
	})
	return err
}

func (m *maybe) hide() {
	if m.scope == nil {
		return
	}
	scope := m.scope
	m.scope = nil
	m.observer.ConditionalToggled(false)
	scope.MustRun()
}
