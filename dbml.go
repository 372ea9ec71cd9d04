package fluentdb

import (
	"context"
	"fmt"

	"github.com/zoobzio/dbml"
)

// Schema wraps a DBML project as a schema target: each DBML table becomes
// a field list the differ can reconcile a live database against.
type Schema struct {
	project *dbml.Project
	tables  map[string]*dbml.Table
}

// NewSchema creates a schema from a DBML project.
func NewSchema(project *dbml.Project) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	s := &Schema{
		project: project,
		tables:  make(map[string]*dbml.Table),
	}
	for _, table := range project.Tables {
		s.tables[table.Name] = table
	}
	return s, nil
}

// Tables returns the table names defined by the project, in declaration
// order.
func (s *Schema) Tables() []string {
	names := make([]string, 0, len(s.project.Tables))
	for _, t := range s.project.Tables {
		names = append(names, t.Name)
	}
	return names
}

// HasTable reports whether the project defines the named table.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.tables[name]
	return ok
}

// Fields converts a DBML table's columns to DDL field descriptors. Column
// settings map onto field options and the default value; an inline ref
// becomes the field's foreign key.
func (s *Schema) Fields(table string) ([]Field, error) {
	t, ok := s.tables[table]
	if !ok {
		return nil, NewValidationError("schema", "table %q not found in project", table)
	}
	fields := make([]Field, 0, len(t.Columns))
	for _, col := range t.Columns {
		f := Field{Name: col.Name, Type: col.Type}
		if set := col.Settings; set != nil {
			if set.PrimaryKey {
				f.Options = append(f.Options, Primary)
			}
			if set.Increment {
				f.Options = append(f.Options, AutoIncrement)
			}
			if set.Unique {
				f.Options = append(f.Options, Unique)
			}
			if set.Default != nil {
				f.Default = Text(*set.Default)
			} else if set.PrimaryKey || set.Increment {
				// Key columns cannot carry a DEFAULT clause.
				f.Default = Text(DefaultNone)
			}
		}
		if ref := col.InlineRef; ref != nil {
			f.ForeignKey = &ForeignKey{Table: ref.Table, Column: ref.Column}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Sync reconciles the live database with the project: tables missing from
// the database are created; existing tables receive the columns they lack
// and have drifted columns modified through the differ. Sync never drops
// columns or tables.
func (s *Schema) Sync(ctx context.Context, exec Executor) error {
	if exec == nil {
		return NewValidationError("sync", "no executor bound")
	}
	for _, name := range s.Tables() {
		fields, err := s.Fields(name)
		if err != nil {
			return err
		}
		cols := NewColumns(exec, name)
		current, err := cols.Get(ctx)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			if _, err := Table(name).Using(exec).Create(ctx, fields); err != nil {
				return err
			}
			continue
		}
		if err := cols.Add(ctx, fields); err != nil {
			return err
		}
		if err := cols.Edit(ctx, fields); err != nil {
			return err
		}
	}
	return nil
}
