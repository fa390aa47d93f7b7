package live

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	rerrors "github.com/vango-dev/renditional/internal/errors"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/metrics"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

// App builds the template a session mounts. It is called once per session
// on the session goroutine, so cells it creates belong to that session.
type App func() render.Template

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings. It should be
	// well below ReadTimeout. Zero disables heartbeats.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxEventQueue is the size of the event channel buffer.
	// Default: 256.
	MaxEventQueue int

	// MaxRunsPerFlush bounds the dependents run per event.
	// Default: reactive.DefaultMaxRunsPerFlush.
	MaxRunsPerFlush int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024, // 64KB
		MaxEventQueue:     256,
		MaxRunsPerFlush:   reactive.DefaultMaxRunsPerFlush,
	}
}

// Session is one mounted application and the connection it serves.
type Session struct {
	id        string
	app       App
	transport Transport
	config    *SessionConfig
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *metrics.Collector

	doc *memdom.Document
	rt  *reactive.Runtime

	events     chan ClientEvent
	dispatchCh chan func()
	done       chan struct{}
	closeOnce  sync.Once

	// pending collects mutations until the next send. Session goroutine only.
	pending []memdom.Mutation
	seq     uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionConfig replaces the session configuration.
func WithSessionConfig(c *SessionConfig) SessionOption {
	return func(s *Session) {
		s.config = c
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithTracer sets the tracer used for per-event spans.
func WithTracer(t trace.Tracer) SessionOption {
	return func(s *Session) {
		s.tracer = t
	}
}

// WithMetrics records session activity on c. The session runtime reports
// flushes and structural changes to c as well.
func WithMetrics(c *metrics.Collector) SessionOption {
	return func(s *Session) {
		s.metrics = c
	}
}

// NewSession creates a session for app over transport. Nothing happens
// until Run is called.
func NewSession(id string, app App, transport Transport, opts ...SessionOption) *Session {
	s := &Session{
		id:        id,
		app:       app,
		transport: transport,
		config:    DefaultSessionConfig(),
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer(defaultTracerName),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", id)
	s.events = make(chan ClientEvent, s.config.MaxEventQueue)
	s.dispatchCh = make(chan func(), 16)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Document returns the session's document. Only the session goroutine may
// touch it while Run is active.
func (s *Session) Document() *memdom.Document {
	return s.doc
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Dispatch runs fn on the session goroutine, then flushes and sends the
// resulting mutations. It is the way for other goroutines (timers, pushes)
// to write a session's cells. Dispatch after the session ended is a no-op.
func (s *Session) Dispatch(fn func()) {
	select {
	case s.dispatchCh <- fn:
	case <-s.done:
	}
}

// Run mounts the application, sends the initial tree and then handles
// events until the client disconnects, ctx is cancelled or handling an
// event fails. It returns nil on an ordinary disconnect.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	var observer reactive.Observer
	if s.metrics != nil {
		observer = s.metrics
		s.metrics.SessionOpened()
		defer s.metrics.SessionClosed()
	}
	s.rt = reactive.NewRuntime(
		reactive.WithObserver(observer),
		reactive.WithLogger(s.logger),
		reactive.WithMaxRunsPerFlush(s.config.MaxRunsPerFlush),
	)
	restore := reactive.Bind(s.rt)
	defer restore()

	s.doc = memdom.NewDocument()
	destroy, err := render.Mount(s.doc.Body(), s.app())
	if err != nil {
		s.sendError(err)
		return err
	}
	defer s.teardown(destroy)

	stop := s.doc.Observe(func(m memdom.Mutation) {
		s.pending = append(s.pending, m)
	})
	defer stop()

	if err := s.send(&ServerMessage{Type: MessageInit, Tree: s.doc.Body().Snapshot()}); err != nil {
		return err
	}
	s.logger.Info("session started")

	readErr := make(chan error, 1)
	go s.readLoop(readErr)

	var heartbeat <-chan time.Time
	if s.config.HeartbeatInterval > 0 {
		ticker := time.NewTicker(s.config.HeartbeatInterval)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	for {
		select {
		case ev := <-s.events:
			if err := s.handleEvent(ctx, ev); err != nil {
				s.sendError(err)
				return err
			}

		case fn := <-s.dispatchCh:
			if err := s.execute(ctx, "dispatch", fn); err != nil {
				s.sendError(err)
				return err
			}

		case <-heartbeat:
			if err := s.transport.Ping(); err != nil {
				s.logger.Warn("heartbeat failed", "error", err)
				if s.metrics != nil {
					s.metrics.WebSocketError("ping")
				}
				return nil
			}

		case err := <-readErr:
			if !isExpectedClose(ctx, err) {
				s.logger.Error("read error", "error", err)
				if s.metrics != nil {
					s.metrics.WebSocketError("read")
				}
			}
			s.logger.Info("session ended")
			return nil

		case <-ctx.Done():
			s.logger.Info("session cancelled")
			return nil
		}
	}
}

// readLoop forwards client events until the transport fails.
func (s *Session) readLoop(readErr chan<- error) {
	for {
		ev, err := s.transport.ReadEvent()
		if err != nil {
			readErr <- err
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		default:
			s.logger.Warn("event queue full, dropping event", "type", ev.Type)
		}
	}
}

// handleEvent delivers ev to its target node inside a span.
func (s *Session) handleEvent(ctx context.Context, ev ClientEvent) error {
	target := s.doc.NodeByID(ev.Target)
	if target == nil || target.Kind() != memdom.KindElement {
		// The node went away while the event was in flight.
		s.logger.Debug("event for unknown node", "type", ev.Type, "target", ev.Target)
		return nil
	}

	return s.execute(ctx, ev.Type, func() {
		if ev.Type == "input" || ev.Type == "change" {
			target.SetProperty("value", ev.Value)
		}
		target.Dispatch(&dom.Event{Type: ev.Type, Value: ev.Value})
	}, attribute.Int64("renditional.target", int64(ev.Target)))
}

// execute runs fn, flushes the runtime and sends what changed.
func (s *Session) execute(ctx context.Context, name string, fn func(), attrs ...attribute.KeyValue) error {
	_, span := s.tracer.Start(ctx, "renditional.event "+name,
		trace.WithAttributes(append(attrs,
			attribute.String("renditional.session_id", s.id),
			attribute.String("renditional.event_type", name),
		)...),
	)
	defer span.End()

	start := time.Now()
	err := s.safeExecute(fn)
	if err == nil {
		err = s.rt.Flush()
	}
	if s.metrics != nil {
		s.metrics.EventHandled(name, time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	n := len(s.pending)
	span.SetAttributes(attribute.Int("renditional.mutations", n))
	if n == 0 {
		return nil
	}
	msg := &ServerMessage{Type: MessagePatch, Mutations: s.pending}
	s.pending = nil
	if s.metrics != nil {
		s.metrics.MutationsSent(n)
	}
	return s.send(msg)
}

// safeExecute runs fn and converts a panic into an error.
func (s *Session) safeExecute(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panic",
				"panic", r,
				"stack", string(debug.Stack()))
			if e, ok := r.(error); ok {
				err = fmt.Errorf("handler panic: %w", e)
				return
			}
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	fn()
	return nil
}

func (s *Session) send(msg *ServerMessage) error {
	s.seq++
	msg.Seq = s.seq
	if err := s.transport.Send(msg); err != nil {
		if s.metrics != nil {
			s.metrics.WebSocketError("write")
		}
		return err
	}
	return nil
}

func (s *Session) sendError(err error) {
	s.logger.Error("session failed", "error", err, "code", rerrors.CodeOf(err))
	_ = s.send(&ServerMessage{Type: MessageError, Error: err.Error()})
}

func (s *Session) teardown(destroy *lifecycle.Destroyer) {
	if err := destroy.Run(); err != nil {
		s.logger.Error("teardown failed", "error", err)
	}
	s.pending = nil
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.transport.Close()
	})
}
