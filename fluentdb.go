// Package fluentdb provides a fluent SQL query builder and schema
// management layer for MySQL-family databases.
//
// Queries are described through chained builder calls and compiled to SQL
// text deterministically; execution happens through an Executor, an
// injected handle to a pooled connection (see the pool subpackage).
//
// # Basic Usage
//
//	db, err := pool.Open(cfg)
//	if err != nil {
//		return err
//	}
//
//	rows, err := fluentdb.Table("users").
//		Using(db).
//		Where("age", fluentdb.GT, fluentdb.Int(25)).
//		OrWhere("name", fluentdb.EQ, fluentdb.Text("Jane")).
//		OrderBy("age", "ASC").
//		Limit(10).
//		Get(ctx)
//
// Builders are single-use: configure one per logical query, finish it with
// a terminal call (Get, First, Find, Insert, Update, Delete, Create, Drop),
// then discard it. Clone produces a template copy when the same shape is
// needed more than once. A builder must not be shared across goroutines.
//
// # Value Literals
//
// Condition and payload values are tagged literals embedded directly into
// the generated SQL: Text renders single-quoted, Int/Float/Bool render
// bare, Null renders NULL and Raw is emitted verbatim. No escaping is
// applied inside text literals; the compiled statement is exactly what the
// Executor receives.
//
// # Schema Management
//
// Create and Drop generate table DDL from Field descriptors. Columns is
// the schema differ: it introspects live column metadata on every call and
// emits only the ALTER statements needed to reach the target field list.
// A DBML project can serve as the target via Schema and Sync.
package fluentdb
