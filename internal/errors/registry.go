package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Reactive and render errors (R001-R099)

	CodeReadOnly: {
		Category:   CategoryReactive,
		Message:    "Write to read-only derived cell",
		Suggestion: "Create the cell with reactive.NewWritableDerived to accept writes.",
	},
	CodeUnrenderable: {
		Category:   CategoryRender,
		Message:    "Unrenderable template",
		Suggestion: "Templates are effects, slices of templates, nil, strings, numbers or booleans.",
	},
	CodeLifecycle: {
		Category:   CategoryLifecycle,
		Message:    "Destroyer misused",
		Suggestion: "Cleanups must be registered before the owning scope is torn down, and a scope is torn down once.",
	},
	CodeReconciliation: {
		Category:   CategoryRender,
		Message:    "List reconciliation invariant violated",
		Suggestion: "List values must keep a stable identity between recomputations.",
	},
	CodeBudget: {
		Category:   CategoryReactive,
		Message:    "Update budget exceeded",
		Suggestion: "A computation probably writes a cell it also reads, re-queueing itself forever.",
	},

	// Configuration errors (C001-C099)

	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
	},

	// Snapshot errors (S001-S099)

	CodeSnapshot: {
		Category: CategorySnapshot,
		Message:  "Snapshot store operation failed",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
