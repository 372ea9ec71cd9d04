package pool

import (
	"context"
	"errors"
	"strings"

	"github.com/fluentdb/fluentdb"
)

// Envelope is the uniform shape returned by Raw: callers always get a
// status and a payload instead of a Go error.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Batch splits a script on semicolons and executes each statement in
// order, returning one result per statement. The first failure aborts the
// batch; earlier statements stay applied. Batch always returns the full
// list, even for a single statement; collapsing a one-statement script to
// its lone result is Raw's envelope concern, not Batch's.
func (d *DB) Batch(ctx context.Context, script string) ([]*fluentdb.Result, error) {
	var results []*fluentdb.Result
	for _, stmt := range splitStatements(script) {
		res, err := d.Execute(ctx, stmt)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Raw executes free-form SQL and reports the outcome as data rather than
// an error, so script-style callers always see the same envelope. A
// single-statement script unwraps to its one result; multiple statements
// yield the full list.
func (d *DB) Raw(ctx context.Context, script string) Envelope {
	results, err := d.Batch(ctx, script)
	if err != nil {
		return Envelope{Status: StatusError, Message: errorMessage(err), Data: nil}
	}
	env := Envelope{Status: StatusSuccess}
	switch len(results) {
	case 0:
		env.Data = nil
	case 1:
		env.Data = results[0]
	default:
		env.Data = results
	}
	return env
}

// errorMessage prefers the driver's native error text over the wrapped
// statement context.
func errorMessage(err error) string {
	var eerr fluentdb.ExecutionError
	if errors.As(err, &eerr) && eerr.Err != nil {
		return eerr.Err.Error()
	}
	if err != nil {
		return err.Error()
	}
	return "query execution failed"
}

func splitStatements(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
