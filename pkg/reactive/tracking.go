package reactive

import (
	"runtime"
	"sync"
)

// runtimes stores the Runtime bound to each goroutine.
var runtimes sync.Map

// getGoroutineID returns the current goroutine's identifier, parsed from
// the header of the runtime stack ("goroutine <id> [...").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// Current returns the Runtime bound to the calling goroutine.
// If none is bound, a default Runtime is created and bound; it stays bound
// until Release is called on that goroutine. Code that owns its goroutine
// should prefer Bind with a deferred restore.
func Current() *Runtime {
	gid := getGoroutineID()
	if rt, ok := runtimes.Load(gid); ok {
		return rt.(*Runtime)
	}
	rt := NewRuntime()
	runtimes.Store(gid, rt)
	return rt
}

// Bind binds rt to the calling goroutine and returns a function that
// restores the previous binding.
//
//	restore := reactive.Bind(rt)
//	defer restore()
func Bind(rt *Runtime) (restore func()) {
	gid := getGoroutineID()
	prev, had := runtimes.Load(gid)
	runtimes.Store(gid, rt)
	return func() {
		if had {
			runtimes.Store(gid, prev)
		} else {
			runtimes.Delete(gid)
		}
	}
}

// Release drops the calling goroutine's Runtime binding.
// Goroutines that used reactive values should call it before exiting.
func Release() {
	runtimes.Delete(getGoroutineID())
}

// Track runs fn with d as the active Dependent: every Dependency referenced
// during fn subscribes d. Nested calls stack; the previous Dependent is
// restored even if fn panics.
func (rt *Runtime) Track(d *Dependent, fn func()) {
	rt.stack = append(rt.stack, d)
	defer func() {
		rt.stack[len(rt.stack)-1] = nil
		rt.stack = rt.stack[:len(rt.stack)-1]
	}()
	fn()
}

// active returns the Dependent on top of the tracking stack, or nil.
func (rt *Runtime) active() *Dependent {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// Untracked runs fn without an active Dependent, so reads inside fn record
// no subscriptions.
func Untracked(fn func()) {
	Current().Track(nil, fn)
}
