package reactive

// Dependency is an observable source. It records which Dependents read it
// and notifies them when updated.
type Dependency struct {
	// dependents are the current subscribers, unique by identity.
	dependents []*Dependent
}

// NewDependency creates a Dependency with no subscribers.
func NewDependency() *Dependency {
	return &Dependency{}
}

// Referenced records a read: if a Dependent is being tracked on the calling
// goroutine, it and this Dependency subscribe to each other.
func (dep *Dependency) Referenced() {
	if d := Current().active(); d != nil {
		d.addDependency(dep)
	}
}

// Updated notifies every current Dependent. The set is copied first, so
// subscriptions added or removed during notification do not affect this
// pass.
func (dep *Dependency) Updated() {
	if len(dep.dependents) == 0 {
		return
	}
	snapshot := make([]*Dependent, len(dep.dependents))
	copy(snapshot, dep.dependents)

	for _, d := range snapshot {
		d.onDependencyUpdated()
	}
}

// Len returns the number of subscribed Dependents.
func (dep *Dependency) Len() int {
	return len(dep.dependents)
}

func (dep *Dependency) addDependent(d *Dependent) {
	for _, existing := range dep.dependents {
		if existing == d {
			return
		}
	}
	dep.dependents = append(dep.dependents, d)
}

func (dep *Dependency) removeDependent(d *Dependent) {
	for i, existing := range dep.dependents {
		if existing == d {
			// Order doesn't matter: swap with last.
			last := len(dep.dependents) - 1
			dep.dependents[i] = dep.dependents[last]
			dep.dependents[last] = nil
			dep.dependents = dep.dependents[:last]
			return
		}
	}
}
