// Package render binds reactive values to a host tree.
//
// A template is any value Render knows how to put into a Region: an Effect,
// a slice of templates, nil, a string, a number or a boolean. Effects create
// host nodes, subscribe to cells and register cleanups with the enclosing
// lifecycle scope; they never diff trees. Maybe and Map are the two
// structural combinators: Maybe mounts and unmounts content as a predicate
// flips, Map keeps one mounted sub-tree per list value and moves sub-trees
// instead of recreating them when the list is reordered.
//
// Every region an effect creates is anchored by comment markers, so
// combinators nest freely inside elements, other combinators and list items.
//
// # Example
//
//	count := reactive.NewCell(0)
//	destroy, err := render.Mount(doc.Body(), render.Element("p",
//		render.Text(reactive.Computed(func() string {
//			return fmt.Sprintf("Counter: %d", count.Read())
//		})),
//	))
package render
