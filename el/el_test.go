package el

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

func setup(t *testing.T) (*memdom.Document, *reactive.Runtime) {
	t.Helper()
	rt := reactive.NewRuntime()
	t.Cleanup(reactive.Bind(rt))
	return memdom.NewDocument(), rt
}

func mount(t *testing.T, doc *memdom.Document, tpl Template) {
	t.Helper()
	if _, err := render.Mount(doc.Body(), tpl); err != nil {
		t.Fatalf("mount: %v", err)
	}
}

func TestElementsAndAttributes(t *testing.T) {
	doc, _ := setup(t)

	mount(t, doc, Div(
		Class("box"),
		ID("main"),
		Data("testId", 7),
		SectionEl(H1("Title"), P("a ", Strong("b"))),
		Input(Type("checkbox"), Disabled(true), Hidden(false)),
		Element("myWidget", "w"),
	))

	want := `<div class="box" id="main" data-test-id="7"><section><h1>Title</h1><p>a <strong>b</strong></p></section>` +
		`<input type="checkbox" disabled><my-widget>w</my-widget></div>`
	if got := doc.Body().InnerHTML(); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestDynamicAttributesAndText(t *testing.T) {
	doc, rt := setup(t)
	done := reactive.NewCell(false)
	count := reactive.NewCell(1)

	mount(t, doc, Li(
		Class(func() string {
			if done.Read() {
				return "done"
			}
			return "open"
		}),
		Disabled(done),
		Text(func() string { return fmt.Sprintf("%d items", count.Read()) }),
		Text(count),
	))

	li := doc.Body().FirstChild()
	if got := li.OuterHTML(); got != `<li class="open">1 items1</li>` {
		t.Errorf("unexpected html %s", got)
	}

	done.Write(true)
	count.Write(2)
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := li.OuterHTML(); got != `<li class="done" disabled>2 items2</li>` {
		t.Errorf("unexpected html %s", got)
	}
}

func TestValueAndChecked(t *testing.T) {
	doc, _ := setup(t)
	mount(t, doc, Fragment(Input(Value("hello")), Input(Checked(true))))

	inputs := doc.Body().Children()
	if v, _ := inputs[0].Property("value"); v != "hello" {
		t.Errorf("expected hello, got %v", v)
	}
	if v, _ := inputs[1].Property("checked"); v != true {
		t.Errorf("expected checked, got %v", v)
	}
}

func TestEvents(t *testing.T) {
	doc, _ := setup(t)
	var got []string

	mount(t, doc, Form(
		OnSubmit(func() { got = append(got, "submit") }),
		Input(OnInput(func(v string) { got = append(got, "input:"+v) })),
		Button(OnClick(func(e *dom.Event) { got = append(got, "click:"+e.Type) })),
	))

	form := doc.Body().FirstChild()
	input := form.FirstChild()
	button := input.Next()

	input.Dispatch(&dom.Event{Type: "input", Value: "x"})
	button.Dispatch(&dom.Event{Type: "click"})
	submit := &dom.Event{Type: "submit"}
	if form.Dispatch(submit) {
		t.Error("expected submit default to be prevented")
	}

	want := []string{"input:x", "click:click", "submit"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUnsupportedHandler(t *testing.T) {
	doc, _ := setup(t)
	_, err := render.Mount(doc.Body(), Button(OnClick(42)))
	if !errors.Is(err, render.ErrUnrenderableTemplate) {
		t.Errorf("expected unrenderable error, got %v", err)
	}
}

func TestConditionals(t *testing.T) {
	doc, rt := setup(t)
	on := reactive.NewCell(false)
	builds := 0

	mount(t, doc, P(
		If(on, "yes"),
		Unless(on, "no"),
		When(func() bool { return on.Read() }, func() Template {
			builds++
			return "!"
		}),
		If(true, "."),
	))

	p := doc.Body().FirstChild()
	if got := p.TextContent(); got != "no." {
		t.Errorf("expected no., got %q", got)
	}

	on.Write(true)
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := p.TextContent(); got != "yes!." {
		t.Errorf("expected yes!., got %q", got)
	}
	if builds != 1 {
		t.Errorf("expected 1 build, got %d", builds)
	}
}

func TestRange(t *testing.T) {
	doc, rt := setup(t)
	items := reactive.NewCell([]string{"a", "b"})

	mount(t, doc, Ul(Range(items, func(s string) Template { return Li(s) })))

	items.Write([]string{"b", "c", "a"})
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := doc.Body().InnerHTML(); got != "<ul><li>b</li><li>c</li><li>a</li></ul>" {
		t.Errorf("unexpected html %s", got)
	}

	_, err := render.Mount(doc.Body(), Range(42, func(int) Template { return nil }))
	if !errors.Is(err, render.ErrUnrenderableTemplate) {
		t.Errorf("expected unrenderable error, got %v", err)
	}
}
