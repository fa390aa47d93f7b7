// Package el provides the element DSL for renditional.
//
// It wraps the render package's name registries in named constructors for
// common HTML elements, attributes and events, and exposes the structural
// combinators under short names.
//
// Typical usage:
//
//	import (
//	    "github.com/vango-dev/renditional/pkg/reactive"
//	    . "github.com/vango-dev/renditional/el"
//	)
//
//	count := reactive.NewCell(0)
//	view := Div(
//	    Button(OnClick(func() { count.Update(func(n int) int { return n + 1 }) }), "+"),
//	    P(Text(func() string { return fmt.Sprint(count.Read()) })),
//	)
//
// Attribute and text helpers accept either a literal or a func returning
// the value; a func is re-evaluated whenever the cells it reads change.
package el
