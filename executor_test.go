package fluentdb_test

import (
	"context"

	"github.com/fluentdb/fluentdb"
)

// fakeExecutor records every statement it receives and answers through an
// optional respond hook; without one it returns an empty result.
type fakeExecutor struct {
	calls   []string
	respond func(sql string) (*fluentdb.Result, error)
}

func (f *fakeExecutor) Execute(_ context.Context, sql string) (*fluentdb.Result, error) {
	f.calls = append(f.calls, sql)
	if f.respond != nil {
		return f.respond(sql)
	}
	return &fluentdb.Result{}, nil
}
