package fluentdb

// Row is an ordered mapping of column name to tagged Value, used as the
// payload for Insert and Update. Column order is insertion order; setting
// a column that is already present replaces its value in place.
type Row struct {
	names  []string
	values map[string]Value
}

// NewRow creates an empty payload row.
func NewRow() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set assigns a value to a column and returns the row for chaining.
func (r *Row) Set(column string, v Value) *Row {
	if _, ok := r.values[column]; !ok {
		r.names = append(r.names, column)
	}
	r.values[column] = v
	return r
}

// Columns returns the column names in insertion order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the value for a column and whether it is present.
func (r *Row) Get(column string) (Value, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Len returns the number of columns in the row.
func (r *Row) Len() int {
	return len(r.names)
}
