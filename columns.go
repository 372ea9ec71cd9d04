package fluentdb

import (
	"context"
	"fmt"
	"strings"
)

// ColumnMeta is the live schema state of one column, as reported by
// information_schema. Default is nil when the column records no default.
type ColumnMeta struct {
	Type    string
	Default *string
	Key     string
	Extra   string
}

// Columns evolves a table's schema by diffing live column metadata against
// desired field definitions. Metadata is read fresh on every call so each
// decision reflects current database state; nothing is cached.
//
// Multi-field calls are not transactional: a failure partway through
// leaves the ALTERs already applied in place.
type Columns struct {
	exec  Executor
	table string
}

// NewColumns creates a schema differ for the given table.
func NewColumns(exec Executor, table string) *Columns {
	return &Columns{exec: exec, table: table}
}

// Get introspects the table's current columns. A table that does not exist
// yields an empty mapping, not an error.
func (c *Columns) Get(ctx context.Context) (map[string]ColumnMeta, error) {
	if c.exec == nil {
		return nil, NewValidationError("columns", "no executor bound")
	}

	exists, err := c.tableExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]ColumnMeta{}, nil
	}

	res, err := c.exec.Execute(ctx, fmt.Sprintf(
		"SELECT column_name, column_type, column_default, column_key, extra "+
			"FROM information_schema.columns "+
			"WHERE table_schema = DATABASE() AND table_name = '%s' "+
			"ORDER BY ordinal_position", c.table))
	if err != nil {
		return nil, err
	}

	out := make(map[string]ColumnMeta, len(res.Rows))
	for _, row := range res.Rows {
		name := rowString(row, "column_name")
		if name == "" {
			continue
		}
		out[name] = ColumnMeta{
			Type:    rowString(row, "column_type"),
			Default: rowStringPtr(row, "column_default"),
			Key:     rowString(row, "column_key"),
			Extra:   rowString(row, "extra"),
		}
	}
	return out, nil
}

// Add emits ADD COLUMN for each field not already present; existing
// columns are left untouched. A field with a foreign key gets a second
// ALTER attaching the constraint.
func (c *Columns) Add(ctx context.Context, fields []Field) error {
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return err
		}
	}

	current, err := c.Get(ctx)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if _, ok := current[f.Name]; ok {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", c.table, f.columnDefinition())
		if _, err := c.exec.Execute(ctx, sql); err != nil {
			return err
		}
		if fk := f.foreignKeyClause(); fk != "" {
			sql = fmt.Sprintf("ALTER TABLE %s ADD %s", c.table, fk)
			if _, err := c.exec.Execute(ctx, sql); err != nil {
				return err
			}
		}
	}
	return nil
}

// Edit emits MODIFY COLUMN for each field whose live metadata differs from
// the desired definition in type, default, key, or extra. Matching columns
// produce no DDL. Foreign keys are not re-attached here: MODIFY COLUMN
// leaves an existing constraint in place, and re-adding one is not
// idempotent on the MySQL side.
func (c *Columns) Edit(ctx context.Context, fields []Field) error {
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return err
		}
	}

	current, err := c.Get(ctx)
	if err != nil {
		return err
	}
	for _, f := range fields {
		meta, ok := current[f.Name]
		if !ok {
			continue
		}
		if !columnDiffers(f, meta) {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", c.table, f.columnDefinition())
		if _, err := c.exec.Execute(ctx, sql); err != nil {
			return err
		}
	}
	return nil
}

// Delete emits DROP COLUMN for each named field present in the table;
// absent names are skipped.
func (c *Columns) Delete(ctx context.Context, fields []Field) error {
	current, err := c.Get(ctx)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if _, ok := current[f.Name]; !ok {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", c.table, f.Name)
		if _, err := c.exec.Execute(ctx, sql); err != nil {
			return err
		}
	}
	return nil
}

// columnDiffers compares desired field attributes against live metadata.
func columnDiffers(f Field, meta ColumnMeta) bool {
	if !strings.EqualFold(f.typeDefinition(), meta.Type) {
		return true
	}
	want := f.desiredDefault()
	switch {
	case want == nil && meta.Default != nil:
		return true
	case want != nil && (meta.Default == nil || *want != *meta.Default):
		return true
	}
	if f.hasOption(Primary) && meta.Key != "PRI" {
		return true
	}
	if f.hasOption(Unique) && meta.Key != "UNI" && meta.Key != "PRI" {
		return true
	}
	if f.hasOption(AutoIncrement) && !strings.Contains(strings.ToLower(meta.Extra), "auto_increment") {
		return true
	}
	return false
}

func (c *Columns) tableExists(ctx context.Context) (bool, error) {
	res, err := c.exec.Execute(ctx, fmt.Sprintf(
		"SELECT COUNT(*) AS n FROM information_schema.tables "+
			"WHERE table_schema = DATABASE() AND table_name = '%s'", c.table))
	if err != nil {
		return false, err
	}
	row := res.First()
	if row == nil {
		return false, nil
	}
	return rowInt(row, "n") > 0, nil
}

// rowString reads a column from a result row as text; drivers hand back
// strings or byte slices depending on the column type.
func rowString(row map[string]any, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// rowStringPtr is rowString preserving SQL NULL as nil.
func rowStringPtr(row map[string]any, key string) *string {
	if row[key] == nil {
		return nil
	}
	s := rowString(row, key)
	return &s
}

func rowInt(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		var n int64
		_, _ = fmt.Sscan(v, &n)
		return n
	case []byte:
		var n int64
		_, _ = fmt.Sscan(string(v), &n)
		return n
	default:
		return 0
	}
}
