package reactive

// Value is either a literal or a computation, evaluated uniformly with Get.
// The zero Value is the literal zero of T.
type Value[T any] struct {
	literal T
	compute func() T
}

// Literal returns a Value that always yields v.
func Literal[T any](v T) Value[T] {
	return Value[T]{literal: v}
}

// Computed returns a Value that calls fn on every Get. Reads made by fn are
// tracked by whichever Dependent evaluates the Value.
func Computed[T any](fn func() T) Value[T] {
	return Value[T]{compute: fn}
}

// Of returns a Value reading r.
func Of[T any](r Readable[T]) Value[T] {
	return Computed(r.Read)
}

// Get evaluates the Value.
func (v Value[T]) Get() T {
	if v.compute != nil {
		return v.compute()
	}
	return v.literal
}

// IsComputed reports whether the Value is a computation.
func (v Value[T]) IsComputed() bool {
	return v.compute != nil
}

// Box converts v to a Value[any] yielding the same results.
func Box[T any](v Value[T]) Value[any] {
	if v.compute == nil {
		return Literal[any](v.literal)
	}
	return Computed(func() any { return v.compute() })
}
