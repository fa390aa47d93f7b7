// Package lifecycle provides scoped, ordered, one-shot cleanup.
package lifecycle

import (
	"fmt"

	rerrors "github.com/vango-dev/renditional/internal/errors"
)

// Registrar registers a cleanup with the enclosing scope.
type Registrar func(cleanup func())

// Discard is a Registrar that drops every cleanup. It suits output that is
// never torn down.
var Discard Registrar = func(func()) {}

// Destroyer is an ordered list of cleanups that runs exactly once, last
// registered first.
type Destroyer struct {
	cleanups []func()
	running  bool
	consumed bool
}

// New creates an empty Destroyer.
func New() *Destroyer {
	return &Destroyer{}
}

// Register adds a cleanup. Registering on a Destroyer that is running or
// consumed is a programming error and panics with an R003 error.
func (d *Destroyer) Register(cleanup func()) {
	if d.consumed {
		panic(rerrors.New(rerrors.CodeLifecycle).
			WithDetail("cleanup registered after the scope was torn down"))
	}
	if d.running {
		panic(rerrors.New(rerrors.CodeLifecycle).
			WithDetail("cleanup registered while the scope is being torn down"))
	}
	d.cleanups = append(d.cleanups, cleanup)
}

// Registrar returns d.Register as a Registrar.
func (d *Destroyer) Registrar() Registrar {
	return d.Register
}

// Len returns the number of registered cleanups.
func (d *Destroyer) Len() int {
	return len(d.cleanups)
}

// Consumed reports whether Run has been called.
func (d *Destroyer) Consumed() bool {
	return d.consumed
}

// Run runs every cleanup, last registered first. The Destroyer is marked
// consumed even if a cleanup panics. A panicking cleanup does not stop the
// others; after all have run, Run re-panics with the first panic value.
// Running a consumed or running Destroyer returns an R003 error.
func (d *Destroyer) Run() error {
	if d.consumed || d.running {
		return rerrors.New(rerrors.CodeLifecycle).
			WithDetail("scope torn down twice")
	}
	d.running = true
	defer func() {
		d.running = false
		d.consumed = true
	}()

	var first any
	for i := len(d.cleanups) - 1; i >= 0; i-- {
		if p := runCleanup(d.cleanups[i]); p != nil && first == nil {
			first = p
		}
		d.cleanups[i] = nil
	}
	d.cleanups = nil

	if first != nil {
		if err, ok := first.(error); ok {
			panic(fmt.Errorf("lifecycle: cleanup panicked: %w", err))
		}
		panic(fmt.Sprintf("lifecycle: cleanup panicked: %v", first))
	}
	return nil
}

// MustRun is Run for callers that treat a double teardown as fatal.
func (d *Destroyer) MustRun() {
	if err := d.Run(); err != nil {
		panic(err)
	}
}

func runCleanup(fn func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	fn()
	return nil
}
