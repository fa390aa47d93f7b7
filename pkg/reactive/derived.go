package reactive

import rerrors "github.com/vango-dev/renditional/internal/errors"

// Derived is a cached computation over other reactive values.
//
// Derived values are lazy: an upstream update only marks them dirty, and
// the getter runs on the next read. However many reads and upstream updates
// happen, the getter runs at most once per dirty period.
type Derived[T any] struct {
	dep   *Dependency
	inner *Dependent

	get func() T
	set func(T)

	value     T
	dirty     bool
	computing bool
}

// NewDerived creates a read-only Derived. Writes fail with
// ErrReadOnlyViolation.
func NewDerived[T any](get func() T) *Derived[T] {
	return NewWritableDerived(get, nil)
}

// NewWritableDerived creates a Derived whose writes are forwarded to set.
func NewWritableDerived[T any](get func() T, set func(T)) *Derived[T] {
	d := &Derived[T]{
		dep:   NewDependency(),
		get:   get,
		set:   set,
		dirty: true,
	}
	d.inner = newImmediateDependent(d.invalidate)
	return d
}

// Read returns the cached value, recomputing it first if dirty, and
// records a dependency on this Derived.
func (d *Derived[T]) Read() T {
	d.dep.Referenced()
	return d.Peek()
}

// Peek returns the value without recording a dependency. It still
// recomputes when dirty.
func (d *Derived[T]) Peek() T {
	if d.dirty && !d.computing {
		d.recompute()
	}
	return d.value
}

// Write forwards v to the setter.
func (d *Derived[T]) Write(v T) error {
	if d.set == nil {
		return rerrors.New(rerrors.CodeReadOnly).
			WithDetailf("derived %d has no setter", d.inner.id)
	}
	d.set(v)
	return nil
}

// Dirty reports whether the next read recomputes.
func (d *Derived[T]) Dirty() bool {
	return d.dirty
}

// Value returns the derived cell as a computed Value.
func (d *Derived[T]) Value() Value[T] {
	return Computed(d.Read)
}

// Dispose unsubscribes from upstream values. The cached value stays
// readable but is never invalidated again.
func (d *Derived[T]) Dispose() {
	d.inner.Cancel()
}

func (d *Derived[T]) invalidate() {
	if d.dirty {
		return
	}
	d.dirty = true
	d.dep.Updated()
}

func (d *Derived[T]) recompute() {
	d.computing = true
	defer func() { d.computing = false }()

	var v T
	d.inner.Track(func() {
		v = d.get()
	})
	d.value = v
	d.dirty = false
}
