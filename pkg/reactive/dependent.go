package reactive

// Dependent is a computation that reads Dependencies. It is notified when
// any of them updates, and then re-runs its callback on the next Flush of
// the Runtime it was created on.
//
// A cancelled Dependent never subscribes again and never runs, even if it
// was already queued.
type Dependent struct {
	id uint64
	rt *Runtime

	// deps are the Dependencies this Dependent is subscribed to.
	deps []*Dependency

	callback  func() error
	cancelled bool
	queued    bool

	// invalidate, when set, replaces scheduling: the Dependent is notified
	// synchronously. Used by Derived.
	invalidate func()
}

// NewDependent creates a Dependent bound to the calling goroutine's Runtime.
// callback may be nil and registered later with SetCallback.
func NewDependent(callback func() error) *Dependent {
	return &Dependent{
		id:       nextID(),
		rt:       Current(),
		callback: callback,
	}
}

func newImmediateDependent(invalidate func()) *Dependent {
	return &Dependent{
		id:         nextID(),
		rt:         Current(),
		invalidate: invalidate,
	}
}

// ID returns the unique identifier of this Dependent.
func (d *Dependent) ID() uint64 {
	return d.id
}

// SetCallback registers the function run when a Dependency updates.
func (d *Dependent) SetCallback(callback func() error) {
	d.callback = callback
}

// Track clears the current subscriptions and runs fn with d as the active
// Dependent, so d ends up subscribed to exactly what fn read.
func (d *Dependent) Track(fn func()) {
	d.ClearDependencies()
	Current().Track(d, fn)
}

// ClearDependencies unsubscribes from every Dependency.
func (d *Dependent) ClearDependencies() {
	for i, dep := range d.deps {
		dep.removeDependent(d)
		d.deps[i] = nil
	}
	d.deps = d.deps[:0]
}

// Dependencies returns the number of Dependencies currently subscribed.
func (d *Dependent) Dependencies() int {
	return len(d.deps)
}

// Cancel unsubscribes from everything and prevents any further run.
func (d *Dependent) Cancel() {
	d.cancelled = true
	d.ClearDependencies()
}

// Cancelled reports whether Cancel was called.
func (d *Dependent) Cancelled() bool {
	return d.cancelled
}

// Queued reports whether d is waiting in its Runtime's queue.
func (d *Dependent) Queued() bool {
	return d.queued
}

func (d *Dependent) addDependency(dep *Dependency) {
	if d.cancelled {
		return
	}
	for _, existing := range d.deps {
		if existing == dep {
			return
		}
	}
	d.deps = append(d.deps, dep)
	dep.addDependent(d)
}

func (d *Dependent) onDependencyUpdated() {
	if d.cancelled {
		return
	}
	if d.invalidate != nil {
		d.invalidate()
		return
	}
	d.rt.schedule(d)
}
