package fluentdb

import "context"

// Result is the uniform shape every executed statement normalizes to.
// Row-returning statements fill Rows; write statements fill LastInsertID
// and RowsAffected when the driver reports them.
type Result struct {
	Rows         []map[string]any
	LastInsertID int64
	RowsAffected int64
}

// First returns the first row, or nil when the result is empty.
func (r *Result) First() map[string]any {
	if r == nil || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0]
}

// Executor runs one SQL statement against the database. Implementations
// own transport, pooling, and retry policy; the builder only hands them
// compiled SQL text. The pool subpackage provides the standard
// database/sql-backed implementation.
type Executor interface {
	Execute(ctx context.Context, sql string) (*Result, error)
}
