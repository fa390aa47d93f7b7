package demo

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

func mountApp(t *testing.T, app *App) (*memdom.Node, *reactive.Runtime) {
	t.Helper()
	rt := reactive.NewRuntime()
	t.Cleanup(reactive.Bind(rt))
	doc := memdom.NewDocument()
	destroy, err := render.Mount(doc.Body(), app.Render())
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(func() { destroy.Run() })
	return doc.Body(), rt
}

func press(t *testing.T, root *memdom.Node, rt *reactive.Runtime, label string) {
	t.Helper()
	if err := Press(root, label); err != nil {
		t.Fatal(err)
	}
	if err := rt.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func todoItems(root *memdom.Node) []*memdom.Node {
	var out []*memdom.Node
	for _, li := range root.FindAll(memdom.ByTag("li")) {
		if strings.HasPrefix(li.TextContent(), "#") {
			out = append(out, li)
		}
	}
	return out
}

func TestCounterFizzBuzz(t *testing.T) {
	app := New(1)
	body, rt := mountApp(t, app)
	counter := body.Find(func(n *memdom.Node) bool {
		v, _ := n.Attribute("class")
		return n.TagName() == "div" && v == "test"
	})
	if counter == nil {
		t.Fatal("counter div not found")
	}
	if counter.TextContent() != "Counter: 0" {
		t.Fatalf("expected Counter: 0, got %q", counter.TextContent())
	}

	want := map[int]string{
		1:  "Counter: 1",
		3:  "Counter: 3 Fizz!",
		4:  "Counter: 4",
		5:  "Counter: 5 Buzz!",
		6:  "Counter: 6 Fizz!",
		15: "Counter: 15 Fizz! Buzz!",
		16: "Counter: 16",
	}
	for i := 1; i <= 16; i++ {
		if err := Press(body, "Click me!"); err != nil {
			t.Fatal(err)
		}
		if i == 1 && counter.TextContent() != "Counter: 0" {
			t.Errorf("expected no update before flush, got %q", counter.TextContent())
		}
		if err := rt.Flush(); err != nil {
			t.Fatal(err)
		}
		if w, ok := want[i]; ok && counter.TextContent() != w {
			t.Errorf("after %d clicks: expected %q, got %q", i, w, counter.TextContent())
		}
	}
	if app.Counter.Count() != 16 {
		t.Errorf("expected count 16, got %d", app.Counter.Count())
	}
}

func TestTodoAddToggleDelete(t *testing.T) {
	app := New(1)
	body, rt := mountApp(t, app)

	input := body.Find(memdom.ByTag("input"))
	form := body.Find(memdom.ByTag("form"))
	submit := form.Find(memdom.ByTag("button"))

	if !submit.HasAttribute("disabled") {
		t.Error("expected submit disabled for empty input")
	}

	input.Dispatch(&dom.Event{Type: "input", Value: "write tests"})
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if submit.HasAttribute("disabled") {
		t.Error("expected submit enabled")
	}

	if form.Dispatch(&dom.Event{Type: "submit"}) {
		t.Error("expected submit default to be prevented")
	}
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}

	items := todoItems(body)
	if len(items) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(items))
	}
	if got := items[0].TextContent(); got != "#0: write tests (Waiting) Delete" {
		t.Errorf("expected todo text, got %q", got)
	}
	if v, _ := input.Property("value"); v != "" {
		t.Errorf("expected input cleared, got %v", v)
	}
	if app.Todos.Input() != "" {
		t.Errorf("expected pending input cleared, got %q", app.Todos.Input())
	}

	items[0].Dispatch(&dom.Event{Type: "click"})
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := items[0].TextContent(); got != "#0: write tests (Done) Delete" {
		t.Errorf("expected toggled todo, got %q", got)
	}

	del := items[0].Find(memdom.ByTag("button"))
	del.Dispatch(&dom.Event{Type: "click"})
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	if n := len(todoItems(body)); n != 0 {
		t.Errorf("expected todo deleted, got %d", n)
	}
	if len(app.Todos.Todos()) != 0 {
		t.Errorf("expected empty list, got %v", app.Todos.IDs())
	}
	if last := body.FindAll(memdom.ByTag("li")); len(last) != 1 || last[0].TextContent() != "Extra: not a todo" {
		t.Errorf("expected only the extra item to remain")
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	l := NewTodoList(1)
	l.SetInput("   ")
	if l.Submit() {
		t.Error("expected blank submit to be ignored")
	}
	if len(l.Todos()) != 0 {
		t.Errorf("expected no todos, got %d", len(l.Todos()))
	}
}

func TestShuffleKeepsNodeIdentity(t *testing.T) {
	app := New(42)
	body, rt := mountApp(t, app)
	for i := 0; i < 5; i++ {
		app.Todos.Add(fmt.Sprintf("task %d", i))
	}
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}

	before := make(map[int]*memdom.Node)
	for i, li := range todoItems(body) {
		before[i] = li
	}

	for round := 0; round < 5; round++ {
		press(t, body, rt, "Shuffle Todos")

		ids := app.Todos.IDs()
		items := todoItems(body)
		if len(items) != len(ids) {
			t.Fatalf("round %d: expected %d items, got %d", round, len(ids), len(items))
		}
		for i, id := range ids {
			prefix := fmt.Sprintf("#%d:", id)
			if !strings.HasPrefix(items[i].TextContent(), prefix) {
				t.Errorf("round %d: expected item %d to start with %q, got %q", round, i, prefix, items[i].TextContent())
			}
			if old, ok := before[id]; ok && old != items[i] {
				t.Errorf("round %d: todo %d was re-created instead of moved", round, id)
			}
			before[id] = items[i]
		}

		all := body.FindAll(memdom.ByTag("li"))
		if all[len(all)-1].TextContent() != "Extra: not a todo" {
			t.Errorf("round %d: expected extra item last", round)
		}
	}
}

func TestShuffleIsDeterministic(t *testing.T) {
	a, b := NewTodoList(7), NewTodoList(7)
	for i := 0; i < 3; i++ {
		a.Shuffle()
		b.Shuffle()
	}
	if !slices.Equal(a.IDs(), b.IDs()) {
		t.Errorf("expected equal ids, got %v and %v", a.IDs(), b.IDs())
	}
	for i, todo := range a.Todos() {
		if todo.Description.Peek() != b.Todos()[i].Description.Peek() {
			t.Errorf("expected equal descriptions at %d", i)
		}
	}
}

func TestIDsText(t *testing.T) {
	app := New(3)
	body, rt := mountApp(t, app)
	app.Todos.Add("a")
	app.Todos.Add("b")
	if err := rt.Flush(); err != nil {
		t.Fatal(err)
	}
	row := body.Find(func(n *memdom.Node) bool {
		return n.TagName() == "div" && strings.HasPrefix(n.TextContent(), "Shuffle Todos")
	})
	if row == nil {
		t.Fatal("shuffle row not found")
	}
	if row.TextContent() != "Shuffle Todos [0,1]" {
		t.Errorf("expected Shuffle Todos [0,1], got %q", row.TextContent())
	}
}

func TestDependenciesTrackOnlyWhatWasRead(t *testing.T) {
	app := New(1)
	body, rt := mountApp(t, app)

	steps := []struct {
		press string
		logs  int
		last  string
	}{
		{"", 1, "updating text: hidden 0"},
		{"Value: ", 1, "updating text: hidden 0"},
		{"Shown: ", 2, "updating text: shown 1"},
		{"Value: ", 3, "updating text: shown 2"},
		{"Shown: ", 4, "updating text: hidden 2"},
		{"Value: ", 4, "updating text: hidden 2"},
	}
	for i, step := range steps {
		if step.press != "" {
			press(t, body, rt, step.press)
		}
		logs := app.Dependencies.Logs()
		if len(logs) != step.logs {
			t.Fatalf("step %d: expected %d log entries, got %v", i, step.logs, logs)
		}
		if logs[len(logs)-1] != step.last {
			t.Errorf("step %d: expected last log %q, got %q", i, step.last, logs[len(logs)-1])
		}
	}

	pre := body.Find(memdom.ByTag("pre"))
	want := "> updating text: hidden 0\n> updating text: shown 1\n> updating text: shown 2\n> updating text: hidden 2\n"
	if pre.TextContent() != want {
		t.Errorf("expected log text %q, got %q", want, pre.TextContent())
	}
	if strings.Contains(body.TextContent(), "You can't see me") {
		t.Error("expected hidden block to stay hidden")
	}
}

func TestTogglesKeepOrder(t *testing.T) {
	app := New(1)
	body, rt := mountApp(t, app)

	blocks := body.Find(func(n *memdom.Node) bool {
		return n.TagName() == "div" && n.TextContent() == "Item A"
	}).Parent()

	steps := []struct {
		press string
		want  string
	}{
		{"Toggle B", "Item AItem C"},
		{"Toggle A", "Item C"},
		{"Toggle B", "Item BItem C"},
		{"Toggle A", "Item AItem BItem C"},
		{"Toggle C", "Item AItem B"},
	}
	for _, step := range steps {
		press(t, body, rt, step.press)
		if got := blocks.TextContent(); got != step.want {
			t.Errorf("after %s: expected %q, got %q", step.press, step.want, got)
		}
	}
}

func TestFactoryIsolatesState(t *testing.T) {
	rt := reactive.NewRuntime()
	t.Cleanup(reactive.Bind(rt))
	factory := Factory(1)

	docA, docB := memdom.NewDocument(), memdom.NewDocument()
	if _, err := render.Mount(docA.Body(), factory()); err != nil {
		t.Fatal(err)
	}
	if _, err := render.Mount(docB.Body(), factory()); err != nil {
		t.Fatal(err)
	}

	press(t, docA.Body(), rt, "Click me!")
	if !strings.Contains(docA.Body().TextContent(), "Counter: 1") {
		t.Error("expected first document to count")
	}
	if !strings.Contains(docB.Body().TextContent(), "Counter: 0") {
		t.Error("expected second document to stay at 0")
	}
}

func TestPressMissingButton(t *testing.T) {
	doc := memdom.NewDocument()
	if err := Press(doc.Body(), "Nope"); err == nil {
		t.Error("expected error for missing button")
	}
}
