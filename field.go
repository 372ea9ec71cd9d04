package fluentdb

import (
	"fmt"
	"strings"
)

// FieldOption is a column constraint flag. Options render in fixed order:
// PRIMARY KEY, AUTO_INCREMENT, UNIQUE.
type FieldOption string

const (
	Primary       FieldOption = "primary"
	AutoIncrement FieldOption = "autoincrement"
	Unique        FieldOption = "unique"
)

// DefaultNone is the sentinel default for non-text columns meaning "emit
// no DEFAULT clause at all". Text-family columns have no such sentinel; an
// absent default on them renders DEFAULT NULL.
const DefaultNone = "NONE"

// ForeignKey references a column on another table.
type ForeignKey struct {
	Table  string
	Column string
}

// Field describes one column for DDL emission: CREATE TABLE, ADD COLUMN,
// and MODIFY COLUMN all render from the same definition.
type Field struct {
	Name       string
	Type       string
	Default    Value
	Length     int
	Options    []FieldOption
	ForeignKey *ForeignKey
}

// textFamily lists the types whose defaults are quoted. Matched
// case-insensitively.
var textFamily = map[string]bool{
	"VARCHAR": true,
	"CHAR":    true,
	"TEXT":    true,
	"ENUM":    true,
	"SET":     true,
}

// lengthless lists the types that never take a length suffix even when one
// is set on the field.
var lengthless = map[string]bool{
	"TEXT":       true,
	"TINYTEXT":   true,
	"MEDIUMTEXT": true,
	"LONGTEXT":   true,
	"BLOB":       true,
	"TINYBLOB":   true,
	"MEDIUMBLOB": true,
	"LONGBLOB":   true,
	"ENUM":       true,
	"SET":        true,
	"JSON":       true,
}

func (f Field) validate() error {
	if f.Name == "" {
		return NewValidationError("field", "name is required")
	}
	if f.Type == "" {
		return NewValidationError("field", "type is required for column %q", f.Name)
	}
	return nil
}

// baseType strips an inline length or value list so family checks see the
// bare keyword ("varchar(255)" classifies as VARCHAR).
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i != -1 {
		t = t[:i]
	}
	return strings.ToUpper(strings.TrimSpace(t))
}

func (f Field) isText() bool {
	return textFamily[baseType(f.Type)]
}

func (f Field) hasOption(opt FieldOption) bool {
	for _, o := range f.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// typeDefinition renders the type keyword with its length suffix when the
// type takes one.
func (f Field) typeDefinition() string {
	if f.Length > 0 && !lengthless[baseType(f.Type)] {
		return fmt.Sprintf("%s(%d)", f.Type, f.Length)
	}
	return f.Type
}

// defaultClause renders the DEFAULT portion of the column definition.
//
// Text-family types: a present default is quoted; an absent or explicit
// null default renders DEFAULT NULL. Non-text types: the NONE sentinel and
// explicit null suppress the clause entirely, any other present default
// renders unquoted, and an absent default renders DEFAULT NULL. The
// asymmetry between the two families is load-bearing for existing schemas
// and is kept as-is.
func (f Field) defaultClause() string {
	if f.isText() {
		switch f.Default.kind {
		case ValueAbsent, ValueNull:
			return " DEFAULT NULL"
		default:
			return fmt.Sprintf(" DEFAULT '%s'", f.Default.text)
		}
	}
	switch f.Default.kind {
	case ValueNull:
		return ""
	case ValueAbsent:
		return " DEFAULT NULL"
	default:
		if f.Default.kind == ValueText && f.Default.text == DefaultNone {
			return ""
		}
		return fmt.Sprintf(" DEFAULT %s", f.Default.text)
	}
}

// desiredDefault is the column_default value the live schema should show
// once this field is applied; nil means no default recorded. Used by the
// differ's attribute comparison.
func (f Field) desiredDefault() *string {
	switch f.Default.kind {
	case ValueAbsent, ValueNull:
		return nil
	case ValueText:
		if !f.isText() && f.Default.text == DefaultNone {
			return nil
		}
	}
	text := f.Default.text
	return &text
}

// columnDefinition renders the full column definition used by CREATE
// TABLE, ADD COLUMN, and MODIFY COLUMN. The foreign key clause is table
// level and rendered separately.
func (f Field) columnDefinition() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteString(" ")
	sb.WriteString(f.typeDefinition())
	sb.WriteString(f.defaultClause())
	if f.hasOption(Primary) {
		sb.WriteString(" PRIMARY KEY")
	}
	if f.hasOption(AutoIncrement) {
		sb.WriteString(" AUTO_INCREMENT")
	}
	if f.hasOption(Unique) {
		sb.WriteString(" UNIQUE")
	}
	return sb.String()
}

// foreignKeyClause renders the table-level constraint for this field, or
// an empty string when none is set.
func (f Field) foreignKeyClause() string {
	if f.ForeignKey == nil {
		return ""
	}
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", f.Name, f.ForeignKey.Table, f.ForeignKey.Column)
}

// createSQL builds the CREATE TABLE statement for a field list, column
// definitions first and foreign key constraints trailing.
func createSQL(table string, fields []Field) (string, error) {
	if len(fields) == 0 {
		return "", NewValidationError("create", "at least one field is required")
	}
	defs := make([]string, 0, len(fields))
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return "", err
		}
		defs = append(defs, f.columnDefinition())
	}
	for _, f := range fields {
		if fk := f.foreignKeyClause(); fk != "" {
			defs = append(defs, fk)
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", ")), nil
}
