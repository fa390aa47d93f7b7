package demo

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/vango-dev/renditional/el"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Dependencies shows dynamic dependency tracking: a conditional whose
// predicate reads value only while shown is true. Every predicate
// evaluation is appended to a visible log.
type Dependencies struct {
	shown *reactive.Cell[bool]
	value *reactive.Cell[int]
	logs  *reactive.Cell[[]*logEntry]
}

type logEntry struct {
	text string
}

func NewDependencies() *Dependencies {
	return &Dependencies{
		shown: reactive.NewCell(false),
		value: reactive.NewCell(0),
		logs:  reactive.NewCell[[]*logEntry](nil),
	}
}

// Logs returns the evaluation log.
func (d *Dependencies) Logs() []string {
	var out []string
	for _, e := range d.logs.Peek() {
		out = append(out, e.text)
	}
	return out
}

func (d *Dependencies) log(text string) {
	d.logs.Update(func(old []*logEntry) []*logEntry {
		return append(slices.Clip(old), &logEntry{text: text})
	})
}

func (d *Dependencies) hidden() bool {
	state := "hidden"
	if d.shown.Peek() {
		state = "shown"
	}
	d.log(fmt.Sprintf("updating text: %s %d", state, d.value.Peek()))
	if d.shown.Read() {
		return d.value.Read() < 0
	}
	return false
}

func (d *Dependencies) Render() el.Template {
	return el.Fragment(
		el.H1("Test Dependencies"),
		el.Div(
			el.Button(
				el.OnClick(func() { d.shown.Update(func(b bool) bool { return !b }) }),
				"Shown: ",
				el.Text(func() string { return strconv.FormatBool(d.shown.Read()) }),
			),
			el.Button(
				el.OnClick(func() { d.value.Update(func(n int) int { return n + 1 }) }),
				"Value: ",
				el.Text(func() string { return strconv.Itoa(d.value.Read()) }),
			),
		),
		el.If(d.hidden, "You can't see me"),
		el.Pre(
			el.Range(d.logs, func(e *logEntry) el.Template {
				return "> " + e.text + "\n"
			}),
		),
	)
}

// Toggles shows three independently toggled blocks.
type Toggles struct {
	shown [3]*reactive.Cell[bool]
}

var toggleNames = [3]string{"A", "B", "C"}

func NewToggles() *Toggles {
	t := &Toggles{}
	for i := range t.shown {
		t.shown[i] = reactive.NewCell(true)
	}
	return t
}

// Toggle flips block i.
func (t *Toggles) Toggle(i int) {
	t.shown[i].Update(func(b bool) bool { return !b })
}

func (t *Toggles) Render() el.Template {
	buttons := make([]el.Template, 0, len(t.shown))
	blocks := make([]el.Template, 0, len(t.shown))
	for i, name := range toggleNames {
		buttons = append(buttons, el.Button("Toggle "+name, el.OnClick(func() { t.Toggle(i) })))
		blocks = append(blocks, el.If(t.shown[i], el.Div("Item "+name)))
	}
	return el.Fragment(
		el.H1("Test Maybe"),
		el.Div(buttons...),
		el.Div(blocks...),
	)
}
