package demo

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vango-dev/renditional/el"
	"github.com/vango-dev/renditional/pkg/dom"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// shuffleSteps is the number of random edits one Shuffle performs.
const shuffleSteps = 10

// Todo is one entry of a TodoList. Entries are identified by pointer.
type Todo struct {
	ID          int
	Description *reactive.Cell[string]
	Complete    *reactive.Cell[bool]
}

// Toggle flips the completion state.
func (t *Todo) Toggle() {
	t.Complete.Update(func(done bool) bool { return !done })
}

// TodoList is an editable list of todos.
type TodoList struct {
	input  *reactive.Cell[string]
	todos  *reactive.Cell[[]*Todo]
	nextID int
	rng    *rand.Rand
}

func NewTodoList(seed uint64) *TodoList {
	return &TodoList{
		input: reactive.NewCell(""),
		todos: reactive.NewCell[[]*Todo](nil),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Todos returns the current entries without tracking.
func (l *TodoList) Todos() []*Todo {
	return l.todos.Peek()
}

// IDs returns the ids of the current entries in order.
func (l *TodoList) IDs() []int {
	ids := make([]int, 0, len(l.todos.Peek()))
	for _, t := range l.todos.Peek() {
		ids = append(ids, t.ID)
	}
	return ids
}

func (l *TodoList) Input() string {
	return l.input.Peek()
}

func (l *TodoList) SetInput(s string) {
	l.input.Write(s)
}

// Submit adds the pending input as a todo and clears it. Blank input is
// ignored.
func (l *TodoList) Submit() bool {
	desc := strings.TrimSpace(l.input.Peek())
	if desc == "" {
		return false
	}
	l.Add(desc)
	l.input.Write("")
	return true
}

// Add appends a new todo.
func (l *TodoList) Add(desc string) *Todo {
	t := l.newTodo(desc, false)
	l.todos.Write(append(slices.Clip(l.todos.Peek()), t))
	return t
}

// Delete removes t if it is still listed.
func (l *TodoList) Delete(t *Todo) {
	cur := l.todos.Peek()
	i := slices.Index(cur, t)
	if i < 0 {
		return
	}
	l.todos.Write(slices.Delete(slices.Clone(cur), i, i+1))
}

// Shuffle applies random creations, swaps and deletions in one write.
func (l *TodoList) Shuffle() {
	working := slices.Clone(l.todos.Peek())
	for range shuffleSteps {
		ops := []string{"create"}
		if len(working) > 1 {
			ops = append(ops, "swap")
		}
		if len(working) > 0 {
			ops = append(ops, "delete")
		}

		switch ops[l.rng.IntN(len(ops))] {
		case "create":
			t := l.newTodo(l.randomWord(8), l.rng.Float64() > 0.5)
			working = slices.Insert(working, l.rng.IntN(len(working)+1), t)
		case "swap":
			i, j := l.rng.IntN(len(working)), l.rng.IntN(len(working))
			working[i], working[j] = working[j], working[i]
		case "delete":
			i := l.rng.IntN(len(working))
			working = slices.Delete(working, i, i+1)
		}
	}
	l.todos.Write(working)
}

func (l *TodoList) newTodo(desc string, done bool) *Todo {
	t := &Todo{
		ID:          l.nextID,
		Description: reactive.NewCell(desc),
		Complete:    reactive.NewCell(done),
	}
	l.nextID++
	return t
}

func (l *TodoList) randomWord(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[l.rng.IntN(len(letters))]
	}
	return string(b)
}

func (l *TodoList) idsText() string {
	ids := make([]int, 0)
	for _, t := range l.todos.Read() {
		ids = append(ids, t.ID)
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

func (l *TodoList) Render() el.Template {
	return el.Div(
		el.Form(
			el.OnSubmit(func() { l.Submit() }),
			el.Input(
				el.Value(func() string { return l.input.Read() }),
				el.OnInput(l.SetInput),
			),
			el.Button(
				el.Type("submit"),
				el.Disabled(func() bool { return strings.TrimSpace(l.input.Read()) == "" }),
				el.Text("New Todo"),
			),
		),
		el.Div(
			el.Button(el.OnClick(l.Shuffle), "Shuffle Todos"),
			" ",
			el.Text(l.idsText),
		),
		el.Ul(
			el.Range(l.todos, l.renderTodo),
			el.Li("Extra: not a todo"),
		),
	)
}

func (l *TodoList) renderTodo(t *Todo) el.Template {
	return el.Li(
		el.OnClick(t.Toggle),
		el.Text(fmt.Sprintf("#%d:", t.ID)),
		" ",
		el.Text(func() string {
			state := "Waiting"
			if t.Complete.Read() {
				state = "Done"
			}
			return fmt.Sprintf("%s (%s)", t.Description.Read(), state)
		}),
		" ",
		el.Button(
			el.OnClick(func(e *dom.Event) {
				e.StopPropagation()
				l.Delete(t)
			}),
			"Delete",
		),
	)
}
