package demo

import (
	"fmt"

	"github.com/vango-dev/renditional/el"
	"github.com/vango-dev/renditional/pkg/reactive"
)

// Counter counts clicks and announces Fizz on multiples of three and Buzz
// on multiples of five.
type Counter struct {
	count *reactive.Cell[int]
}

func NewCounter() *Counter {
	return &Counter{count: reactive.NewCell(0)}
}

// Count returns the current count without tracking.
func (c *Counter) Count() int {
	return c.count.Peek()
}

func (c *Counter) Increment() {
	c.count.Update(func(n int) int { return n + 1 })
}

func (c *Counter) multipleOf(k int) func() bool {
	return func() bool {
		n := c.count.Read()
		return n > 0 && n%k == 0
	}
}

func (c *Counter) Render() el.Template {
	return el.Fragment(
		el.Div(
			el.Class("test"),
			el.Text(func() string { return fmt.Sprintf("Counter: %d", c.count.Read()) }),
			el.When(c.multipleOf(3), func() el.Template { return el.Text(" Fizz!") }),
			el.If(c.multipleOf(5), " Buzz!"),
		),
		el.Div(
			el.Button(el.OnClick(c.Increment), el.Text("Click me!")),
		),
	)
}
