package fluentdb

import "fmt"

// ValidationError reports malformed input to a builder call. It is raised
// synchronously, before any statement is built or dispatched.
type ValidationError struct {
	Op     string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// NewValidationError creates a validation error for a builder operation.
func NewValidationError(op, format string, args ...any) error {
	return ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// PreconditionError reports an Update or Delete attempted with no WHERE
// condition present. The guard protects against accidental full-table
// writes; add at least one condition or use a raw statement deliberately.
type PreconditionError struct {
	Op string
}

func (e PreconditionError) Error() string {
	return fmt.Sprintf("%s: refusing to run without a WHERE condition", e.Op)
}

// ExecutionError reports a driver-level failure surfaced by the Executor.
// It carries the statement that failed and wraps the driver's error.
type ExecutionError struct {
	SQL string
	Err error
}

func (e ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execute %q: %v", e.SQL, e.Err)
	}
	return fmt.Sprintf("execute %q: query execution failed", e.SQL)
}

func (e ExecutionError) Unwrap() error {
	return e.Err
}
