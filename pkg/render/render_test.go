package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/lifecycle"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// env is a document plus a runtime bound to the test goroutine.
type env struct {
	t   *testing.T
	doc *memdom.Document
	rt  *reactive.Runtime
}

func newEnv(t *testing.T, opts ...reactive.Option) *env {
	t.Helper()
	rt := reactive.NewRuntime(opts...)
	t.Cleanup(reactive.Bind(rt))
	return &env{t: t, doc: memdom.NewDocument(), rt: rt}
}

func (e *env) mount(tpl Template) *lifecycle.Destroyer {
	e.t.Helper()
	d, err := Mount(e.doc.Body(), tpl)
	if err != nil {
		e.t.Fatalf("mount: %v", err)
	}
	return d
}

func (e *env) flush() {
	e.t.Helper()
	if err := e.rt.Flush(); err != nil {
		e.t.Fatalf("flush: %v", err)
	}
}

func (e *env) html() string {
	return e.doc.Body().InnerHTML()
}

// recorder counts scheduler and structural events.
type recorder struct {
	flushes   int
	mounted   int
	unmounted int
	moved     int
	toggles   []bool
}

func (r *recorder) FlushCompleted(int, time.Duration, error) { r.flushes++ }
func (r *recorder) ItemMounted()                             { r.mounted++ }
func (r *recorder) ItemUnmounted()                           { r.unmounted++ }
func (r *recorder) ItemMoved()                               { r.moved++ }
func (r *recorder) ConditionalToggled(shown bool)            { r.toggles = append(r.toggles, shown) }

func TestRenderLiterals(t *testing.T) {
	e := newEnv(t)
	d := e.mount(Fragment{"a", 1, 2.5, true, nil, []string{"x", "y"}, int64(7), []Template{"z"}})

	body := e.doc.Body()
	if got := body.TextContent(); got != "a12.5truexy7z" {
		t.Errorf("expected a12.5truexy7z, got %q", got)
	}
	if n := len(body.Children()); n != 9 {
		t.Errorf("expected 9 text nodes, got %d", n)
	}

	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if body.FirstChild() != nil {
		t.Errorf("expected empty body, got %s", e.html())
	}
}

func TestRenderUnrenderable(t *testing.T) {
	e := newEnv(t)

	tests := []Template{
		struct{}{},
		map[string]string{"a": "b"},
		Fragment{"kept until failure", &struct{}{}},
		func() {},
	}

	for _, tpl := range tests {
		_, err := Mount(e.doc.Body(), tpl)
		if !errors.Is(err, ErrUnrenderableTemplate) {
			t.Errorf("%T: expected unrenderable error, got %v", tpl, err)
		}
		if e.doc.Body().FirstChild() != nil {
			t.Errorf("%T: expected failed mount to be torn down, got %s", tpl, e.html())
		}
	}
}

func TestCounterUpdatesAfterFlush(t *testing.T) {
	e := newEnv(t)
	counter := reactive.NewCell(0)

	e.mount(Element("p", Text(reactive.Computed(func() string {
		return fmt.Sprintf("Counter: %d", counter.Read())
	}))))
	if got := e.html(); got != "<p>Counter: 0</p>" {
		t.Fatalf("unexpected initial html %s", got)
	}

	counter.Write(3)
	if got := e.html(); got != "<p>Counter: 0</p>" {
		t.Errorf("expected no synchronous update, got %s", got)
	}

	e.flush()
	if got := e.html(); got != "<p>Counter: 3</p>" {
		t.Errorf("expected Counter: 3 after flush, got %s", got)
	}
}

func TestTextNodeIsReused(t *testing.T) {
	e := newEnv(t)
	name := reactive.NewCell("a")
	e.mount(Text(reactive.Of[string](name)))

	node := e.doc.Body().FirstChild()
	name.Write("b")
	e.flush()

	if e.doc.Body().FirstChild() != node {
		t.Error("expected the same text node after update")
	}
	if node.Data() != "b" {
		t.Errorf("expected b, got %q", node.Data())
	}
}

func TestAttr(t *testing.T) {
	e := newEnv(t)
	disabled := reactive.NewCell(true)
	label := reactive.NewCell[any](nil)

	d := e.mount(Element("button",
		Attr("disabled", reactive.Computed(func() any { return disabled.Read() })),
		Attr("aria-label", reactive.Of[any](label)),
		Attr("tabindex", reactive.Literal[any](3)),
		Attr("type", reactive.Literal[any]("submit")),
	))

	btn := e.doc.Body().FirstChild()
	if v, ok := btn.Attribute("disabled"); !ok || v != "" {
		t.Errorf("expected empty disabled attribute, got %q, %v", v, ok)
	}
	if btn.HasAttribute("aria-label") {
		t.Error("expected nil to leave the attribute out")
	}
	if v, _ := btn.Attribute("tabindex"); v != "3" {
		t.Errorf("expected tabindex 3, got %q", v)
	}

	disabled.Write(false)
	label.Write("Save")
	e.flush()

	if btn.HasAttribute("disabled") {
		t.Error("expected false to remove disabled")
	}
	if v, _ := btn.Attribute("aria-label"); v != "Save" {
		t.Errorf("expected Save, got %q", v)
	}

	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if len(btn.Attributes()) != 0 {
		t.Errorf("expected attributes removed at teardown, got %v", btn.Attributes())
	}
}

func TestPropertyAndOn(t *testing.T) {
	e := newEnv(t)
	value := reactive.NewCell("draft")
	var inputs []string

	d := e.mount(Element("input",
		Property("value", reactive.Box(reactive.Of[string](value))),
		On("input", func(ev *dom.Event) { inputs = append(inputs, ev.Value) }),
	))

	input := e.doc.Body().FirstChild()
	if v, _ := input.Property("value"); v != "draft" {
		t.Errorf("expected draft, got %v", v)
	}

	value.Write("sent")
	e.flush()
	if v, _ := input.Property("value"); v != "sent" {
		t.Errorf("expected sent, got %v", v)
	}

	input.Dispatch(&dom.Event{Type: "input", Value: "x"})
	if len(inputs) != 1 || inputs[0] != "x" {
		t.Errorf("expected one input event, got %v", inputs)
	}

	if err := d.Run(); err != nil {
		t.Fatal(err)
	}
	if input.ListenerCount("input") != 0 {
		t.Error("expected listener removed at teardown")
	}
}

func TestCleanupOrdering(t *testing.T) {
	e := newEnv(t)
	var order []string
	body := e.doc.Body()

	child := EffectFunc(func(r Region, register lifecycle.Registrar) error {
		register(func() {
			if body.FirstChild() == nil {
				t.Error("parent element removed before child cleanup")
			}
			order = append(order, "child")
		})
		return nil
	})
	parent := EffectFunc(func(r Region, register lifecycle.Registrar) error {
		register(func() { order = append(order, "parent") })
		return Render(r, Element("div", Maybe(reactive.Literal(true), child)), register)
	})

	d := e.mount(parent)
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}

	if strings.Join(order, ",") != "child,parent" {
		t.Errorf("expected child,parent, got %v", order)
	}
	if body.FirstChild() != nil {
		t.Errorf("expected empty body, got %s", e.html())
	}
}

func TestSection(t *testing.T) {
	e := newEnv(t)
	body := e.doc.Body()
	a := e.doc.NewText("a")
	marker := e.doc.CreateComment("end")
	z := e.doc.NewText("z")
	body.AppendChild(a)
	body.AppendChild(marker)
	body.AppendChild(z)

	s := NewSection(marker)
	b := e.doc.NewText("b")
	c := e.doc.NewText("c")
	s.AppendChild(c)
	s.InsertBefore(b, c)
	if got := body.TextContent(); got != "abcz" {
		t.Errorf("expected abcz, got %q", got)
	}

	s.RemoveChild(b)
	if got := body.TextContent(); got != "acz" {
		t.Errorf("expected acz, got %q", got)
	}
	if s.Element() != dom.Element(body) {
		t.Error("expected section element to be the marker's parent")
	}
	if s.Marker() != marker {
		t.Error("unexpected marker")
	}
}

func TestLazyBuildsOnApply(t *testing.T) {
	e := newEnv(t)
	builds := 0
	show := reactive.NewCell(false)

	e.mount(Maybe(reactive.Of[bool](show), Lazy(func() Template {
		builds++
		return fmt.Sprintf("build %d", builds)
	})))
	if builds != 0 {
		t.Errorf("expected no build while hidden, got %d", builds)
	}

	for i := 0; i < 2; i++ {
		show.Write(true)
		e.flush()
		show.Write(false)
		e.flush()
	}
	show.Write(true)
	e.flush()

	if builds != 3 {
		t.Errorf("expected 3 builds, got %d", builds)
	}
	if got := e.html(); got != "build 3" {
		t.Errorf("expected build 3, got %q", got)
	}
}

func TestHyphenate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"div", "div"},
		{"ariaLabel", "aria-label"},
		{"myWidget", "my-widget"},
		{"dataTestId", "data-test-id"},
		{"Button", "button"},
		{"already-hyphenated", "already-hyphenated"},
	}

	for _, tt := range tests {
		if got := Hyphenate(tt.input); got != tt.expected {
			t.Errorf("Hyphenate(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRegistries(t *testing.T) {
	e := newEnv(t)
	clicks := 0

	widget := El("myWidget")
	before := len(elements)
	El("myWidget")
	if len(elements) != before {
		t.Errorf("expected the cached constructor to be reused, got %d new", len(elements)-before)
	}

	e.mount(widget(
		Att("ariaLabel")(reactive.Literal[any]("hi")),
		Event("dblClick")(func(*dom.Event) { clicks++ }),
		"body",
	))

	w := e.doc.Body().FirstChild()
	if w.TagName() != "my-widget" {
		t.Errorf("expected my-widget, got %s", w.TagName())
	}
	if v, _ := w.Attribute("aria-label"); v != "hi" {
		t.Errorf("expected aria-label hi, got %q", v)
	}
	w.Dispatch(&dom.Event{Type: "dblclick"})
	if clicks != 1 {
		t.Errorf("expected 1 click, got %d", clicks)
	}
}
