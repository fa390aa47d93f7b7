// Package errors provides coded, structured errors for renditional.
//
// Every failure in the reactive core and the reconciler is a contract
// violation rather than a transient condition, so errors carry a stable
// code that callers can match with errors.Is:
//
//	if errors.Is(err, rerrors.New(rerrors.CodeReadOnly)) { ... }
//
// # Error Categories
//
//   - reactive: dependency graph and cell misuse (read-only writes, budgets)
//   - render: template dispatch and reconciliation failures
//   - lifecycle: Destroyer misuse
//   - config: configuration loading and validation
//   - snapshot: snapshot store failures
//
// # Usage
//
//	err := errors.New(errors.CodeUnrenderable).
//	    WithDetailf("cannot render value of type %T", v)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Unrenderable template
//	//
//	//   cannot render value of type struct {}
package errors
