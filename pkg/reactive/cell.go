package reactive

// Readable is anything that can be read reactively.
type Readable[T any] interface {
	Read() T
}

// Cell is a mutable reactive value.
type Cell[T any] struct {
	dep   *Dependency
	value T

	// equal decides whether a write changes the value. If nil, Identical.
	equal func(a, b T) bool
}

// CellOption configures a Cell.
type CellOption[T any] func(*Cell[T])

// WithEquals sets the equality used to decide whether a write is a change.
func WithEquals[T any](fn func(a, b T) bool) CellOption[T] {
	return func(c *Cell[T]) {
		c.equal = fn
	}
}

// NewCell creates a Cell holding initial.
func NewCell[T any](initial T, opts ...CellOption[T]) *Cell[T] {
	c := &Cell[T]{
		dep:   NewDependency(),
		value: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the current value and records a dependency for the active
// Dependent, if any.
func (c *Cell[T]) Read() T {
	c.dep.Referenced()
	return c.value
}

// Peek returns the current value without recording a dependency.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Write stores v and notifies dependents. Writing a value identical to the
// current one does nothing.
func (c *Cell[T]) Write(v T) {
	if c.equals(c.value, v) {
		return
	}
	c.value = v
	c.dep.Updated()
}

// Update writes fn(current).
func (c *Cell[T]) Update(fn func(T) T) {
	c.Write(fn(c.value))
}

// ForceNotify notifies dependents without changing the value. Use it after
// mutating a slice or map held by the cell in place.
func (c *Cell[T]) ForceNotify() {
	c.dep.Updated()
}

// Value returns the cell as a computed Value.
func (c *Cell[T]) Value() Value[T] {
	return Computed(c.Read)
}

// Dependency exposes the cell's Dependency.
func (c *Cell[T]) Dependency() *Dependency {
	return c.dep
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return Identical(a, b)
}
