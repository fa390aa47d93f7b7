package render

import rerrors "github.com/vango-dev/renditional/internal/errors"

// ErrUnrenderableTemplate is matched (errors.Is) by the error Render returns
// for a value it cannot interpret.
var ErrUnrenderableTemplate error = rerrors.New(rerrors.CodeUnrenderable)

// ErrReconciliationInvariant is matched by the error a Map returns when its
// rendered items no longer agree with its input list.
var ErrReconciliationInvariant error = rerrors.New(rerrors.CodeReconciliation)
