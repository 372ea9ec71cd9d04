package fluentdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fluentdb/fluentdb"
)

// createTable runs Create against a recording executor and returns the
// emitted DDL.
func createTable(t *testing.T, table string, fields []fluentdb.Field) string {
	t.Helper()
	exec := &fakeExecutor{}
	if _, err := fluentdb.Table(table).Using(exec).Create(context.Background(), fields); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("Expected one statement, got %v", exec.calls)
	}
	return exec.calls[0]
}

func TestCreateBasicColumns(t *testing.T) {
	out := createTable(t, "users", []fluentdb.Field{
		{Name: "id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone), Options: []fluentdb.FieldOption{fluentdb.Primary, fluentdb.AutoIncrement}},
		{Name: "name", Type: "VARCHAR", Length: 100, Default: fluentdb.Text("guest")},
	})

	want := "CREATE TABLE users (" +
		"id INT PRIMARY KEY AUTO_INCREMENT, " +
		"name VARCHAR(100) DEFAULT 'guest')"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestCreateOptionOrderIsFixed(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone),
			Options: []fluentdb.FieldOption{fluentdb.Unique, fluentdb.AutoIncrement, fluentdb.Primary}},
	})

	want := "CREATE TABLE t (id INT PRIMARY KEY AUTO_INCREMENT UNIQUE)"
	if out != want {
		t.Errorf("Option order must be PRIMARY KEY, AUTO_INCREMENT, UNIQUE: %q", out)
	}
}

func TestCreateTextTypeNeverTakesLength(t *testing.T) {
	out := createTable(t, "posts", []fluentdb.Field{
		{Name: "body", Type: "TEXT", Length: 500},
	})

	want := "CREATE TABLE posts (body TEXT DEFAULT NULL)"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestCreateForeignKeyTrailsColumns(t *testing.T) {
	out := createTable(t, "orders", []fluentdb.Field{
		{Name: "id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone), Options: []fluentdb.FieldOption{fluentdb.Primary}},
		{Name: "user_id", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone),
			ForeignKey: &fluentdb.ForeignKey{Table: "users", Column: "id"}},
	})

	want := "CREATE TABLE orders (" +
		"id INT PRIMARY KEY, " +
		"user_id INT, " +
		"FOREIGN KEY (user_id) REFERENCES users(id))"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestTextDefaultPresent(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "status", Type: "varchar", Length: 20, Default: fluentdb.Text("new")},
	})
	if out != "CREATE TABLE t (status varchar(20) DEFAULT 'new')" {
		t.Errorf("Text default must be quoted: %q", out)
	}
}

func TestTextDefaultAbsentRendersDefaultNull(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "nick", Type: "VARCHAR", Length: 30},
	})
	if out != "CREATE TABLE t (nick VARCHAR(30) DEFAULT NULL)" {
		t.Errorf("Absent text default must render DEFAULT NULL: %q", out)
	}
}

func TestTextDefaultExplicitNullRendersDefaultNull(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "nick", Type: "VARCHAR", Length: 30, Default: fluentdb.Null()},
	})
	if out != "CREATE TABLE t (nick VARCHAR(30) DEFAULT NULL)" {
		t.Errorf("Null text default must render DEFAULT NULL: %q", out)
	}
}

func TestNonTextNoneSentinelSuppressesClause(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "n", Type: "INT", Default: fluentdb.Text(fluentdb.DefaultNone)},
	})
	if out != "CREATE TABLE t (n INT)" {
		t.Errorf("NONE sentinel must suppress the clause: %q", out)
	}
}

func TestNonTextNullSuppressesClause(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "n", Type: "INT", Default: fluentdb.Null()},
	})
	if out != "CREATE TABLE t (n INT)" {
		t.Errorf("Null non-text default must suppress the clause: %q", out)
	}
}

func TestNonTextDefaultRendersUnquoted(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "n", Type: "INT", Default: fluentdb.Int(5)},
	})
	if out != "CREATE TABLE t (n INT DEFAULT 5)" {
		t.Errorf("Non-text default must be unquoted: %q", out)
	}
}

func TestNonTextAbsentDefaultRendersDefaultNull(t *testing.T) {
	out := createTable(t, "t", []fluentdb.Field{
		{Name: "n", Type: "INT"},
	})
	if out != "CREATE TABLE t (n INT DEFAULT NULL)" {
		t.Errorf("Absent non-text default must render DEFAULT NULL: %q", out)
	}
}

func TestCreateRejectsFieldWithoutName(t *testing.T) {
	exec := &fakeExecutor{}
	_, err := fluentdb.Table("t").Using(exec).Create(context.Background(),
		[]fluentdb.Field{{Type: "INT"}})

	var verr fluentdb.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("Expected no SQL on validation failure, got %v", exec.calls)
	}
}

func TestCreateRejectsFieldWithoutType(t *testing.T) {
	exec := &fakeExecutor{}
	_, err := fluentdb.Table("t").Using(exec).Create(context.Background(),
		[]fluentdb.Field{{Name: "n"}})

	var verr fluentdb.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
}

func TestCreateRequiresFields(t *testing.T) {
	exec := &fakeExecutor{}
	_, err := fluentdb.Table("t").Using(exec).Create(context.Background(), nil)
	var verr fluentdb.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
}
