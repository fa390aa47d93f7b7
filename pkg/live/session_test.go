package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/renditional/el"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

var errClosed = errors.New("transport closed")

// fakeTransport is an in-memory Transport.
type fakeTransport struct {
	in     chan ClientEvent
	out    chan *ServerMessage
	closed chan struct{}
	once   sync.Once
	pings  chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan ClientEvent, 16),
		out:    make(chan *ServerMessage, 16),
		closed: make(chan struct{}),
		pings:  make(chan struct{}, 64),
	}
}

func (f *fakeTransport) ReadEvent() (ClientEvent, error) {
	select {
	case ev, ok := <-f.in:
		if !ok {
			return ClientEvent{}, io.EOF
		}
		return ev, nil
	case <-f.closed:
		return ClientEvent{}, errClosed
	}
}

func (f *fakeTransport) Send(msg *ServerMessage) error {
	select {
	case f.out <- msg:
		return nil
	case <-f.closed:
		return errClosed
	}
}

func (f *fakeTransport) Ping() error {
	select {
	case <-f.closed:
		return errClosed
	default:
	}
	select {
	case f.pings <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) next(t *testing.T) *ServerMessage {
	t.Helper()
	select {
	case msg := <-f.out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a server message")
		return nil
	}
}

// counterApp is a button incrementing a counter shown as text.
func counterApp(count **reactive.Cell[int]) App {
	return func() render.Template {
		c := reactive.NewCell(0)
		*count = c
		return el.Div(
			el.Button(el.OnClick(func() { c.Update(func(n int) int { return n + 1 }) }), "+"),
			el.P(el.Text(func() string { return fmt.Sprintf("Count: %d", c.Read()) })),
		)
	}
}

func findTag(s *memdom.Snapshot, tag string) *memdom.Snapshot {
	if s.Tag == tag {
		return s
	}
	for _, c := range s.Children {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startSession(t *testing.T, app App) (*fakeTransport, <-chan error, context.CancelFunc) {
	t.Helper()
	tr := newFakeTransport()
	s := NewSession("test", app, tr, WithSessionLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(cancel)
	return tr, done, cancel
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the session to end")
		return nil
	}
}

func TestSessionInitAndPatch(t *testing.T) {
	var count *reactive.Cell[int]
	tr, done, _ := startSession(t, counterApp(&count))

	first := tr.next(t)
	if first.Type != MessageInit || first.Seq != 1 || first.Tree == nil {
		t.Fatalf("unexpected init message %+v", first)
	}
	btn := findTag(first.Tree, "button")
	if btn == nil {
		t.Fatal("expected a button in the initial tree")
	}
	if p := findTag(first.Tree, "p"); p == nil || p.Children[0].Data != "Count: 0" {
		t.Fatalf("unexpected paragraph %+v", p)
	}

	tr.in <- ClientEvent{Type: "click", Target: btn.ID}
	patch := tr.next(t)
	if patch.Type != MessagePatch || patch.Seq != 2 {
		t.Fatalf("unexpected patch message %+v", patch)
	}
	if len(patch.Mutations) != 1 {
		t.Fatalf("expected 1 mutation, got %+v", patch.Mutations)
	}
	if m := patch.Mutations[0]; m.Op != memdom.OpSetText || m.Value != "Count: 1" {
		t.Errorf("unexpected mutation %+v", m)
	}

	close(tr.in)
	if err := wait(t, done); err != nil {
		t.Errorf("expected clean end, got %v", err)
	}
}

func TestSessionIgnoresUnknownTargets(t *testing.T) {
	var count *reactive.Cell[int]
	tr, _, _ := startSession(t, counterApp(&count))

	btn := findTag(tr.next(t).Tree, "button")
	tr.in <- ClientEvent{Type: "click", Target: 9999}
	tr.in <- ClientEvent{Type: "click", Target: btn.ID}

	patch := tr.next(t)
	if patch.Seq != 2 {
		t.Errorf("expected the unknown target to send nothing, got seq %d", patch.Seq)
	}
	if patch.Mutations[0].Value != "Count: 1" {
		t.Errorf("expected one increment, got %+v", patch.Mutations)
	}
}

func TestSessionDispatch(t *testing.T) {
	var count *reactive.Cell[int]
	tr := newFakeTransport()
	s := NewSession("test", counterApp(&count), tr, WithSessionLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	tr.next(t)
	s.Dispatch(func() { count.Write(5) })

	patch := tr.next(t)
	if len(patch.Mutations) != 1 || patch.Mutations[0].Value != "Count: 5" {
		t.Errorf("unexpected patch %+v", patch.Mutations)
	}

	cancel()
	if err := wait(t, done); err != nil {
		t.Errorf("expected clean end, got %v", err)
	}
	select {
	case <-s.Done():
	default:
		t.Error("expected Done to be closed")
	}

	// Dispatch after the end must not block.
	s.Dispatch(func() {})
}

func TestSessionFailsFast(t *testing.T) {
	tr, done, _ := startSession(t, func() render.Template {
		return el.Button(el.OnClick(func() { panic("boom") }))
	})

	btn := findTag(tr.next(t).Tree, "button")
	tr.in <- ClientEvent{Type: "click", Target: btn.ID}

	msg := tr.next(t)
	if msg.Type != MessageError || msg.Error == "" {
		t.Errorf("expected an error message, got %+v", msg)
	}
	if err := wait(t, done); err == nil {
		t.Error("expected Run to return the handler error")
	}
}

func TestSessionMountError(t *testing.T) {
	tr, done, _ := startSession(t, func() render.Template {
		return struct{}{}
	})

	msg := tr.next(t)
	if msg.Type != MessageError {
		t.Errorf("expected an error message, got %+v", msg)
	}
	if err := wait(t, done); !errors.Is(err, render.ErrUnrenderableTemplate) {
		t.Errorf("expected unrenderable error, got %v", err)
	}
}

func TestSessionInputSetsValue(t *testing.T) {
	var last string
	tr, _, _ := startSession(t, func() render.Template {
		text := reactive.NewCell("")
		return el.Div(
			el.Input(el.OnInput(func(v string) { last = v; text.Write(v) })),
			el.Span(el.Text(text)),
		)
	})

	input := findTag(tr.next(t).Tree, "input")
	tr.in <- ClientEvent{Type: "input", Target: input.ID, Value: "milk"}

	patch := tr.next(t)
	ops := map[memdom.MutationOp]bool{}
	for _, m := range patch.Mutations {
		ops[m.Op] = true
	}
	if !ops[memdom.OpSetProp] || !ops[memdom.OpSetText] {
		t.Errorf("expected value property and text updates, got %+v", patch.Mutations)
	}
	if last != "milk" {
		t.Errorf("expected handler to see milk, got %q", last)
	}
}

func TestSessionSendsHeartbeats(t *testing.T) {
	var count *reactive.Cell[int]
	tr := newFakeTransport()
	config := DefaultSessionConfig()
	config.HeartbeatInterval = 10 * time.Millisecond
	s := NewSession("test", counterApp(&count), tr,
		WithSessionConfig(config), WithSessionLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	tr.next(t)
	for i := 0; i < 2; i++ {
		select {
		case <-tr.pings:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected heartbeat %d", i+1)
		}
	}

	cancel()
	if err := wait(t, done); err != nil {
		t.Errorf("expected clean end, got %v", err)
	}
}
