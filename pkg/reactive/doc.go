// Package reactive provides the dependency graph and update scheduler that
// drive renditional's fine-grained rendering.
//
// A Dependency is an observable source; a Dependent is a computation that
// reads Dependencies. Reading a Dependency while a Dependent is being tracked
// subscribes the Dependent automatically:
//
//	count := reactive.NewCell(0)
//	stop := reactive.Watch(func() {
//	    fmt.Println("count is", count.Read())
//	})
//	defer stop()
//
//	count.Write(1)       // nothing printed yet
//	reactive.Current().Flush() // prints "count is 1"
//
// # Scheduling
//
// Notifications never re-run a Dependent synchronously. The Dependent is
// queued on the Runtime it was created on, at most once per update window,
// and runs when the Runtime is flushed. Within one synchronous burst of
// writes every reader sees a consistent value.
//
// Derived cells are the exception: they are invalidated synchronously and
// recompute lazily on their next read.
//
// # Runtimes
//
// A Runtime holds the tracking stack and the update queue for one logical
// thread. Current returns the Runtime bound to the calling goroutine,
// creating one on first use. Bind installs a specific Runtime, which is how a
// live session confines its whole reactive graph to its own goroutine.
// Reactive values are not safe for concurrent use across goroutines.
package reactive
