package reactive

import (
	"log/slog"
	"time"

	rerrors "github.com/vango-dev/renditional/internal/errors"
)

// DefaultMaxRunsPerFlush bounds the number of Dependent runs in one Flush.
const DefaultMaxRunsPerFlush = 10000

// Runtime is the tracking context and update scheduler of one logical
// thread of execution.
type Runtime struct {
	id uint64

	// stack holds the Dependents currently being tracked; the top one
	// receives subscriptions.
	stack []*Dependent

	// queue holds notified Dependents in FIFO order. A Dependent appears at
	// most once (Dependent.queued).
	queue []*Dependent

	flushing bool

	maxRuns    int
	observer   Observer
	logger     *slog.Logger
	onSchedule func()
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithObserver sets the Observer notified after each flush.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		rt.observer = o
	}
}

// WithLogger sets the logger used for scheduler diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithMaxRunsPerFlush sets the storm budget of a single Flush.
// Values <= 0 select DefaultMaxRunsPerFlush.
func WithMaxRunsPerFlush(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxRuns = n
		}
	}
}

// WithOnSchedule sets a hook called whenever the queue goes from empty to
// non-empty. Host loops use it to arrange a Flush.
func WithOnSchedule(fn func()) Option {
	return func(rt *Runtime) {
		rt.onSchedule = fn
	}
}

// NewRuntime creates a Runtime. It is not bound to any goroutine; see Bind.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		id:      nextID(),
		maxRuns: DefaultMaxRunsPerFlush,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// ID returns the unique identifier of this Runtime.
func (rt *Runtime) ID() uint64 {
	return rt.id
}

// Observer returns the configured Observer, or nil.
func (rt *Runtime) Observer() Observer {
	return rt.observer
}

// Logger returns the Runtime's logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Pending returns the number of queued Dependents.
func (rt *Runtime) Pending() int {
	return len(rt.queue)
}

// schedule queues d unless it is already queued.
func (rt *Runtime) schedule(d *Dependent) {
	if d.queued {
		return
	}
	d.queued = true
	rt.queue = append(rt.queue, d)
	if len(rt.queue) == 1 && rt.onSchedule != nil {
		rt.onSchedule()
	}
}

// Flush runs queued Dependents in FIFO order until the queue is empty,
// including Dependents queued by the runs themselves. A Dependent's queued
// flag is cleared before it runs, so a write made by its own callback
// queues exactly one more run.
//
// The first callback error stops the flush and is returned; work still in
// the queue stays queued. Exceeding the storm budget returns an R005 error.
// Flush called from inside a running callback is a no-op: the outer flush
// drains the queue.
func (rt *Runtime) Flush() error {
	if rt.flushing {
		return nil
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	start := time.Now()
	runs := 0
	var err error

	for len(rt.queue) > 0 {
		d := rt.queue[0]
		rt.queue[0] = nil
		rt.queue = rt.queue[1:]
		d.queued = false

		if d.cancelled || d.callback == nil {
			continue
		}

		if runs >= rt.maxRuns {
			d.queued = true
			rt.queue = append([]*Dependent{d}, rt.queue...)
			err = rerrors.New(rerrors.CodeBudget).
				WithDetailf("more than %d runs in one flush", rt.maxRuns)
			rt.logger.Warn("update budget exceeded",
				"runtime", rt.id, "runs", runs, "pending", len(rt.queue))
			break
		}

		runs++
		if err = d.callback(); err != nil {
			break
		}
	}

	if len(rt.queue) == 0 {
		rt.queue = nil
	}

	elapsed := time.Since(start)
	if runs > 0 || err != nil {
		rt.logger.Debug("flush", "runtime", rt.id, "runs", runs, "elapsed", elapsed)
		if rt.observer != nil {
			rt.observer.FlushCompleted(runs, elapsed, err)
		}
	}
	return err
}
