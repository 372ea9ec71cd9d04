package fluentdb

import (
	"fmt"
	"strconv"
)

// ValueKind discriminates the literal forms a Value can take.
type ValueKind int

const (
	// ValueAbsent is the zero Value; it marks a value that was never
	// provided. Guarded builder calls (WhereBetween) treat it as missing.
	ValueAbsent ValueKind = iota
	ValueText
	ValueNumber
	ValueBool
	ValueNull
	ValueRaw
)

// Value is a tagged literal embedded into generated SQL. Text renders
// single-quoted, Number and Bool render bare, Null renders NULL, and Raw
// is emitted verbatim. Text payloads are not escaped.
type Value struct {
	kind ValueKind
	text string
}

// Text creates a string value, rendered single-quoted.
func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

// Int creates an integer value, rendered unquoted.
func Int(i int64) Value {
	return Value{kind: ValueNumber, text: strconv.FormatInt(i, 10)}
}

// Float creates a floating-point value, rendered unquoted.
func Float(f float64) Value {
	return Value{kind: ValueNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Bool creates a boolean value, rendered as TRUE or FALSE.
func Bool(b bool) Value {
	if b {
		return Value{kind: ValueBool, text: "TRUE"}
	}
	return Value{kind: ValueBool, text: "FALSE"}
}

// Null creates an explicit SQL NULL.
func Null() Value {
	return Value{kind: ValueNull}
}

// Raw creates a value emitted into the SQL text verbatim, without quoting.
// The caller is responsible for its validity.
func Raw(expr string) Value {
	return Value{kind: ValueRaw, text: expr}
}

// V converts a plain Go value to a tagged Value: nil maps to Null, strings
// to Text, integers and floats to Number, bools to Bool. A Value passes
// through unchanged; anything else is formatted with fmt and tagged Text.
func V(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Value{kind: ValueNumber, text: strconv.FormatUint(uint64(x), 10)}
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Value{kind: ValueNumber, text: strconv.FormatUint(x, 10)}
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	default:
		return Text(fmt.Sprint(x))
	}
}

// Kind returns the value's literal form.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the value was never provided.
func (v Value) IsAbsent() bool {
	return v.kind == ValueAbsent
}

// literal renders the value as embedded SQL text.
func (v Value) literal() string {
	switch v.kind {
	case ValueText:
		return "'" + v.text + "'"
	case ValueNumber, ValueBool, ValueRaw:
		return v.text
	case ValueNull:
		return "NULL"
	default:
		return ""
	}
}
