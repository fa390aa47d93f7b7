package reactive

import rerrors "github.com/vango-dev/renditional/internal/errors"

// ErrReadOnlyViolation is matched (errors.Is) by the error returned when
// writing a Derived created without a setter.
var ErrReadOnlyViolation error = rerrors.New(rerrors.CodeReadOnly)

// ErrBudgetExceeded is matched by the error returned from Flush when the
// storm budget is exhausted.
var ErrBudgetExceeded error = rerrors.New(rerrors.CodeBudget)
