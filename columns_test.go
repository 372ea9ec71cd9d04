package fluentdb_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fluentdb/fluentdb"
)

// schemaExecutor fakes the introspection queries a Columns call issues:
// table existence, then column metadata. Everything else is recorded and
// answered with an empty result.
func schemaExecutor(exists bool, cols []map[string]any) *fakeExecutor {
	exec := &fakeExecutor{}
	exec.respond = func(sql string) (*fluentdb.Result, error) {
		switch {
		case strings.Contains(sql, "information_schema.tables"):
			n := int64(0)
			if exists {
				n = 1
			}
			return &fluentdb.Result{Rows: []map[string]any{{"n": n}}}, nil
		case strings.Contains(sql, "information_schema.columns"):
			return &fluentdb.Result{Rows: cols}, nil
		default:
			return &fluentdb.Result{}, nil
		}
	}
	return exec
}

func alterStatements(exec *fakeExecutor) []string {
	var out []string
	for _, sql := range exec.calls {
		if strings.HasPrefix(sql, "ALTER") {
			out = append(out, sql)
		}
	}
	return out
}

func TestGetMissingTableReturnsEmptyMapping(t *testing.T) {
	exec := schemaExecutor(false, nil)
	cols, err := fluentdb.NewColumns(exec, "users").Get(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("Expected empty mapping, got %v", cols)
	}
}

func TestGetReadsLiveMetadata(t *testing.T) {
	def := "guest"
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": []byte("id"), "column_type": []byte("int"), "column_default": nil,
			"column_key": []byte("PRI"), "extra": []byte("auto_increment")},
		{"column_name": "name", "column_type": "varchar(100)", "column_default": def,
			"column_key": "", "extra": ""},
	})

	cols, err := fluentdb.NewColumns(exec, "users").Get(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	id, ok := cols["id"]
	if !ok {
		t.Fatal("Expected column 'id' in mapping")
	}
	if id.Key != "PRI" {
		t.Errorf("Expected key PRI, got %q", id.Key)
	}
	if !strings.Contains(id.Extra, "auto_increment") {
		t.Errorf("Expected auto_increment in extra, got %q", id.Extra)
	}
	if id.Default != nil {
		t.Errorf("Expected nil default, got %v", *id.Default)
	}

	name := cols["name"]
	if name.Default == nil || *name.Default != "guest" {
		t.Errorf("Expected default 'guest', got %v", name.Default)
	}
}

func TestAddOnlyMissingColumns(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "id", "column_type": "int", "column_default": nil, "column_key": "PRI", "extra": "auto_increment"},
	})

	err := fluentdb.NewColumns(exec, "users").Add(context.Background(), []fluentdb.Field{
		{Name: "id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone), Options: []fluentdb.FieldOption{fluentdb.Primary}},
		{Name: "email", Type: "VARCHAR", Length: 255},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	alters := alterStatements(exec)
	want := []string{"ALTER TABLE users ADD COLUMN email VARCHAR(255) DEFAULT NULL"}
	if len(alters) != 1 || alters[0] != want[0] {
		t.Errorf("Expected %v, got %v", want, alters)
	}
}

func TestAddAttachesForeignKey(t *testing.T) {
	exec := schemaExecutor(true, nil)

	err := fluentdb.NewColumns(exec, "orders").Add(context.Background(), []fluentdb.Field{
		{Name: "user_id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone),
			ForeignKey: &fluentdb.ForeignKey{Table: "users", Column: "id"}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	alters := alterStatements(exec)
	want := []string{
		"ALTER TABLE orders ADD COLUMN user_id INT",
		"ALTER TABLE orders ADD FOREIGN KEY (user_id) REFERENCES users(id)",
	}
	if len(alters) != 2 || alters[0] != want[0] || alters[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, alters)
	}
}

func TestEditSkipsMatchingColumn(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "name", "column_type": "varchar(100)", "column_default": "guest", "column_key": "", "extra": ""},
	})

	err := fluentdb.NewColumns(exec, "users").Edit(context.Background(), []fluentdb.Field{
		{Name: "name", Type: "VARCHAR", Length: 100, Default: fluentdb.Text("guest")},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alters := alterStatements(exec); len(alters) != 0 {
		t.Errorf("Matching column must emit no DDL, got %v", alters)
	}
}

func TestEditModifiesOnTypeMismatch(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "name", "column_type": "varchar(50)", "column_default": "guest", "column_key": "", "extra": ""},
	})

	err := fluentdb.NewColumns(exec, "users").Edit(context.Background(), []fluentdb.Field{
		{Name: "name", Type: "VARCHAR", Length: 100, Default: fluentdb.Text("guest")},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	alters := alterStatements(exec)
	want := "ALTER TABLE users MODIFY COLUMN name VARCHAR(100) DEFAULT 'guest'"
	if len(alters) != 1 || alters[0] != want {
		t.Errorf("Expected %q, got %v", want, alters)
	}
}

func TestEditModifiesOnDefaultMismatch(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "name", "column_type": "varchar(100)", "column_default": "guest", "column_key": "", "extra": ""},
	})

	err := fluentdb.NewColumns(exec, "users").Edit(context.Background(), []fluentdb.Field{
		{Name: "name", Type: "VARCHAR", Length: 100, Default: fluentdb.Text("member")},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alters := alterStatements(exec); len(alters) != 1 {
		t.Errorf("Default mismatch must emit one MODIFY, got %v", alters)
	}
}

func TestEditModifiesOnMissingKeyOption(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "email", "column_type": "varchar(255)", "column_default": nil, "column_key": "", "extra": ""},
	})

	err := fluentdb.NewColumns(exec, "users").Edit(context.Background(), []fluentdb.Field{
		{Name: "email", Type: "VARCHAR", Length: 255, Options: []fluentdb.FieldOption{fluentdb.Unique}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alters := alterStatements(exec); len(alters) != 1 {
		t.Errorf("Missing UNI key must emit one MODIFY, got %v", alters)
	}
}

func TestEditSkipsAbsentColumn(t *testing.T) {
	exec := schemaExecutor(true, nil)

	err := fluentdb.NewColumns(exec, "users").Edit(context.Background(), []fluentdb.Field{
		{Name: "ghost", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone)},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if alters := alterStatements(exec); len(alters) != 0 {
		t.Errorf("Absent column must be skipped, got %v", alters)
	}
}

func TestDeleteDropsOnlyPresentColumns(t *testing.T) {
	exec := schemaExecutor(true, []map[string]any{
		{"column_name": "legacy", "column_type": "int", "column_default": nil, "column_key": "", "extra": ""},
	})

	err := fluentdb.NewColumns(exec, "users").Delete(context.Background(), []fluentdb.Field{
		{Name: "legacy"},
		{Name: "ghost"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	alters := alterStatements(exec)
	want := "ALTER TABLE users DROP COLUMN legacy"
	if len(alters) != 1 || alters[0] != want {
		t.Errorf("Expected %q, got %v", want, alters)
	}
}

func TestBuilderColumnsConvenience(t *testing.T) {
	exec := schemaExecutor(false, nil)
	cols, err := fluentdb.Table("users").Using(exec).Columns().Get(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(cols) != 0 {
		t.Errorf("Expected empty mapping, got %v", cols)
	}
}
