package fluentdb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Builder accumulates query state through chained calls and compiles it to
// SQL text. A builder is single-use per logical query: terminal calls
// dispatch the compiled statement and the builder should be discarded
// afterwards (Clone a configured builder to reuse it as a template).
//
// The first chained call that fails parks its error on the builder; every
// later call passes through unchanged and the error surfaces from
// BuildQuery or the terminal operation, before any I/O.
//
// A builder is not safe for concurrent use.
type Builder struct {
	exec      Executor
	table     string
	cols      []string
	distinct  bool
	agg       Aggregate
	aggColumn string
	conds     []condition
	pending   Combinator
	joins     []string
	groupBy   []string
	orders    []OrderSpec
	limit     int
	page      int
	err       error
}

// Table starts a new builder bound to the given table.
func Table(name string) *Builder {
	b := &Builder{table: name, pending: AND}
	if name == "" {
		b.err = NewValidationError("table", "table name is required")
	}
	return b
}

// Using binds the executor that terminal operations dispatch to.
func (b *Builder) Using(exec Executor) *Builder {
	b.exec = exec
	return b
}

// Err returns the first error raised by a chained call, if any.
func (b *Builder) Err() error {
	return b.err
}

// Select replaces the projected column list. No columns means SELECT *.
func (b *Builder) Select(columns ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.cols = append([]string(nil), columns...)
	return b
}

// Distinct marks the projection DISTINCT. Repeated calls have no further
// effect.
func (b *Builder) Distinct() *Builder {
	if b.err != nil {
		return b
	}
	b.distinct = true
	return b
}

// Where appends a condition joined with the pending combinator (AND unless
// changed by Or). A zero operator defaults to equality.
func (b *Builder) Where(column string, op Operator, v Value) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		b.err = NewValidationError("where", "column is required")
		return b
	}
	if op == "" {
		op = EQ
	}
	b.appendCondition(condition{column: column, op: op, values: []Value{v}, comb: b.takeCombinator()})
	return b
}

// WhereEq appends an equality condition.
func (b *Builder) WhereEq(column string, v Value) *Builder {
	return b.Where(column, EQ, v)
}

// OrWhere appends a condition joined with OR regardless of the pending
// combinator, which is left untouched for the next Where call.
func (b *Builder) OrWhere(column string, op Operator, v Value) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		b.err = NewValidationError("orWhere", "column is required")
		return b
	}
	if op == "" {
		op = EQ
	}
	b.conds = append(b.conds, condition{column: column, op: op, values: []Value{v}, comb: OR})
	return b
}

// OrWhereEq appends an equality condition joined with OR.
func (b *Builder) OrWhereEq(column string, v Value) *Builder {
	return b.OrWhere(column, EQ, v)
}

// And sets the combinator for the next Where call. AND is already the
// default; the call exists for readable chains.
func (b *Builder) And() *Builder {
	if b.err != nil {
		return b
	}
	b.pending = AND
	return b
}

// Or sets the combinator for the next Where call only.
func (b *Builder) Or() *Builder {
	if b.err != nil {
		return b
	}
	b.pending = OR
	return b
}

// WhereBetween appends a BETWEEN condition. The builder is returned
// unchanged when either bound is absent.
func (b *Builder) WhereBetween(column string, lo, hi Value) *Builder {
	if b.err != nil {
		return b
	}
	if lo.IsAbsent() || hi.IsAbsent() {
		return b
	}
	b.appendCondition(condition{column: column, op: Between, values: []Value{lo, hi}, comb: b.takeCombinator()})
	return b
}

// WhereIn appends an IN condition. The builder is returned unchanged when
// the value list is empty.
func (b *Builder) WhereIn(column string, values ...Value) *Builder {
	if b.err != nil {
		return b
	}
	if len(values) == 0 {
		return b
	}
	b.appendCondition(condition{column: column, op: In, values: append([]Value(nil), values...), comb: b.takeCombinator()})
	return b
}

// WhereNull appends an IS NULL condition.
func (b *Builder) WhereNull(column string) *Builder {
	if b.err != nil {
		return b
	}
	b.appendCondition(condition{column: column, op: IsNull, comb: b.takeCombinator()})
	return b
}

// WhereNotNull appends an IS NOT NULL condition.
func (b *Builder) WhereNotNull(column string) *Builder {
	if b.err != nil {
		return b
	}
	b.appendCondition(condition{column: column, op: IsNotNull, comb: b.takeCombinator()})
	return b
}

// Group returns a scratch builder bound to the same table for composing a
// parenthesized condition group. Populate it with Where calls and hand it
// back through WhereGroup; its non-condition state is ignored.
func (b *Builder) Group() *Builder {
	return &Builder{table: b.table, pending: AND}
}

// WhereGroup compiles the group's condition sequence and appends it as one
// parenthesized condition, joined with the pending combinator. A group
// error is adopted before the empty check; a failed chained call appends
// no condition, so checking emptiness first would drop it. An empty or nil
// group leaves the builder unchanged.
func (b *Builder) WhereGroup(g *Builder) *Builder {
	if b.err != nil {
		return b
	}
	if g == nil {
		return b
	}
	if g.err != nil {
		b.err = g.err
		return b
	}
	if len(g.conds) == 0 {
		return b
	}
	b.appendCondition(condition{isGroup: true, group: compileConditions(g.conds), comb: b.takeCombinator()})
	return b
}

// Join appends an inner join clause. Clauses render in call order.
func (b *Builder) Join(table, columnA string, op Operator, columnB string) *Builder {
	return b.joinKind(InnerJoin, table, columnA, op, columnB)
}

// LeftJoin appends a left join clause.
func (b *Builder) LeftJoin(table, columnA string, op Operator, columnB string) *Builder {
	return b.joinKind(LeftJoin, table, columnA, op, columnB)
}

// RightJoin appends a right join clause.
func (b *Builder) RightJoin(table, columnA string, op Operator, columnB string) *Builder {
	return b.joinKind(RightJoin, table, columnA, op, columnB)
}

func (b *Builder) joinKind(kind JoinKind, table, columnA string, op Operator, columnB string) *Builder {
	if b.err != nil {
		return b
	}
	if table == "" || columnA == "" || columnB == "" {
		b.err = NewValidationError("join", "table and both columns are required")
		return b
	}
	if op == "" {
		op = EQ
	}
	b.joins = append(b.joins, fmt.Sprintf("%s %s ON %s %s %s", kind, table, columnA, op, columnB))
	return b
}

// OrderBy appends an ORDER BY entry. The direction is validated
// case-insensitively; empty means ascending. ORDER BY is suppressed from
// the compiled query while an aggregate is selected.
func (b *Builder) OrderBy(column, direction string) *Builder {
	if b.err != nil {
		return b
	}
	var dir Direction
	switch strings.ToUpper(direction) {
	case "", string(ASC):
		dir = ASC
	case string(DESC):
		dir = DESC
	default:
		b.err = NewValidationError("orderBy", "invalid direction %q, want ASC or DESC", direction)
		return b
	}
	b.orders = append(b.orders, OrderSpec{Column: column, Direction: dir})
	return b
}

// GroupBy appends a column to the GROUP BY list.
func (b *Builder) GroupBy(column string) *Builder {
	if b.err != nil {
		return b
	}
	b.groupBy = append(b.groupBy, column)
	return b
}

// Count selects COUNT(column), discarding any projected columns. An empty
// column counts all rows.
func (b *Builder) Count(column string) *Builder { return b.aggregate(AggCount, column) }

// Sum selects SUM(column).
func (b *Builder) Sum(column string) *Builder { return b.aggregate(AggSum, column) }

// Avg selects AVG(column).
func (b *Builder) Avg(column string) *Builder { return b.aggregate(AggAvg, column) }

// Max selects MAX(column).
func (b *Builder) Max(column string) *Builder { return b.aggregate(AggMax, column) }

// Min selects MIN(column).
func (b *Builder) Min(column string) *Builder { return b.aggregate(AggMin, column) }

func (b *Builder) aggregate(agg Aggregate, column string) *Builder {
	if b.err != nil {
		return b
	}
	if column == "" {
		column = "*"
	}
	b.agg = agg
	b.aggColumn = column
	b.cols = nil
	return b
}

// Limit caps the number of returned rows. Non-positive values disable the
// clause.
func (b *Builder) Limit(n int) *Builder {
	if b.err != nil {
		return b
	}
	b.limit = n
	return b
}

// Page selects a 1-based page of results. The offset is derived as
// (page-1)*limit and emitted only when a positive limit is also set; a
// page without a limit is ignored.
func (b *Builder) Page(n int) *Builder {
	if b.err != nil {
		return b
	}
	b.page = n
	return b
}

// Clone returns a deep copy of the builder, sharing only the executor.
// Use it to keep a configured builder as a template across queries.
func (b *Builder) Clone() *Builder {
	c := *b
	c.cols = append([]string(nil), b.cols...)
	c.conds = append([]condition(nil), b.conds...)
	c.joins = append([]string(nil), b.joins...)
	c.groupBy = append([]string(nil), b.groupBy...)
	c.orders = append([]OrderSpec(nil), b.orders...)
	return &c
}

// Columns returns a schema differ bound to the builder's table and
// executor.
func (b *Builder) Columns() *Columns {
	return NewColumns(b.exec, b.table)
}

func (b *Builder) appendCondition(c condition) {
	b.conds = append(b.conds, c)
}

// takeCombinator consumes the pending combinator, resetting it to AND.
func (b *Builder) takeCombinator() Combinator {
	comb := b.pending
	b.pending = AND
	return comb
}

// BuildConditions compiles only the WHERE fragment, without the keyword.
func (b *Builder) BuildConditions() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return compileConditions(b.conds), nil
}

// BuildQuery compiles the full SELECT statement. Compilation is
// side-effect-free; the same builder state compiles identically every
// time.
func (b *Builder) BuildQuery() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.buildQuery(), nil
}

// buildQuery assembles clauses in fixed order: base, joins, WHERE,
// GROUP BY, LIMIT/OFFSET, ORDER BY. ORDER BY trailing the LIMIT clause is
// long-standing output shape; downstream consumers compare generated text,
// so it stays.
func (b *Builder) buildQuery() string {
	var sb strings.Builder
	sb.WriteString(b.baseClause())
	for _, j := range b.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(b.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(compileConditions(b.conds))
	}
	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
		if b.page > 0 {
			sb.WriteString(" OFFSET ")
			sb.WriteString(strconv.Itoa((b.page - 1) * b.limit))
		}
	}
	if b.agg == AggNone && len(b.orders) > 0 {
		parts := make([]string, len(b.orders))
		for i, o := range b.orders {
			parts[i] = fmt.Sprintf("%s %s", o.Column, o.Direction)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	return sb.String()
}

func (b *Builder) baseClause() string {
	if b.agg != AggNone {
		return fmt.Sprintf("SELECT %s(%s) FROM %s", b.agg, b.aggColumn, b.table)
	}
	cols := "*"
	if len(b.cols) > 0 {
		cols = strings.Join(b.cols, ", ")
	}
	if b.distinct {
		return fmt.Sprintf("SELECT DISTINCT %s FROM %s", cols, b.table)
	}
	return fmt.Sprintf("SELECT %s FROM %s", cols, b.table)
}

// ready gates terminal operations: parked errors surface first, and a
// bound executor is required before any dispatch.
func (b *Builder) ready(op string) error {
	if b.err != nil {
		return b.err
	}
	if b.exec == nil {
		return NewValidationError(op, "no executor bound, call Using first")
	}
	return nil
}

// Get executes the compiled query and returns all rows.
func (b *Builder) Get(ctx context.Context) (*Result, error) {
	if err := b.ready("get"); err != nil {
		return nil, err
	}
	return b.exec.Execute(ctx, b.buildQuery())
}

// First executes the compiled query and returns the first row, or nil when
// the result is empty.
func (b *Builder) First(ctx context.Context) (map[string]any, error) {
	res, err := b.Get(ctx)
	if err != nil {
		return nil, err
	}
	return res.First(), nil
}

// Find looks up a single row by its id column.
func (b *Builder) Find(ctx context.Context, v Value) (map[string]any, error) {
	return b.FindBy(ctx, "id", v)
}

// FindBy appends an equality condition on the given column and returns the
// first matching row.
func (b *Builder) FindBy(ctx context.Context, column string, v Value) (map[string]any, error) {
	return b.WhereEq(column, v).First(ctx)
}

// Insert validates and inserts the given rows one statement at a time,
// re-querying each by its generated identifier to return the canonical
// stored row. Validation covers the whole batch before any statement runs;
// an execution failure partway through leaves earlier inserts applied.
func (b *Builder) Insert(ctx context.Context, rows ...*Row) ([]map[string]any, error) {
	if err := b.ready("insert"); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewValidationError("insert", "at least one row is required")
	}
	for i, r := range rows {
		if r == nil || r.Len() == 0 {
			return nil, NewValidationError("insert", "row %d is empty", i)
		}
	}

	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		res, err := b.exec.Execute(ctx, b.insertSQL(r))
		if err != nil {
			return nil, err
		}
		stored, err := Table(b.table).Using(b.exec).WhereEq("id", Int(res.LastInsertID)).First(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

func (b *Builder) insertSQL(r *Row) string {
	cols := r.Columns()
	vals := make([]string, len(cols))
	for i, c := range cols {
		v, _ := r.Get(c)
		vals[i] = v.literal()
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table, strings.Join(cols, ", "), strings.Join(vals, ", "))
}

// Update applies the patch to every row matching the builder's conditions.
// At least one condition must be present; the guard exists so a bare
// builder cannot rewrite a whole table.
func (b *Builder) Update(ctx context.Context, patch *Row) (*Result, error) {
	if err := b.ready("update"); err != nil {
		return nil, err
	}
	if patch == nil || patch.Len() == 0 {
		return nil, NewValidationError("update", "patch must set at least one column")
	}
	if len(b.conds) == 0 {
		return nil, PreconditionError{Op: "update"}
	}

	cols := patch.Columns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		v, _ := patch.Get(c)
		sets[i] = fmt.Sprintf("%s = %s", c, v.literal())
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		b.table, strings.Join(sets, ", "), compileConditions(b.conds))
	return b.exec.Execute(ctx, sql)
}

// Delete removes every row matching the builder's conditions, with the
// same WHERE-required guard as Update.
func (b *Builder) Delete(ctx context.Context) (*Result, error) {
	if err := b.ready("delete"); err != nil {
		return nil, err
	}
	if len(b.conds) == 0 {
		return nil, PreconditionError{Op: "delete"}
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", b.table, compileConditions(b.conds))
	return b.exec.Execute(ctx, sql)
}

// Create emits and executes a CREATE TABLE statement for the given fields.
// Every field is validated before any SQL is built.
func (b *Builder) Create(ctx context.Context, fields []Field) (*Result, error) {
	if err := b.ready("create"); err != nil {
		return nil, err
	}
	sql, err := createSQL(b.table, fields)
	if err != nil {
		return nil, err
	}
	return b.exec.Execute(ctx, sql)
}

// Drop removes the builder's table if it exists.
func (b *Builder) Drop(ctx context.Context) (*Result, error) {
	if err := b.ready("drop"); err != nil {
		return nil, err
	}
	return b.exec.Execute(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", b.table))
}
