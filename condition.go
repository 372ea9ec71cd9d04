package fluentdb

import (
	"fmt"
	"strings"
)

// condition is one predicate in a WHERE sequence, or a nested group of
// predicates that was compiled separately. Sequence order is significant:
// it is preserved verbatim in the rendered fragment.
type condition struct {
	column  string
	op      Operator
	values  []Value
	group   string
	isGroup bool
	comb    Combinator
}

// compileConditions renders an ordered condition sequence as a WHERE
// fragment. The first condition never renders its combinator; every
// subsequent one is prefixed with its own. An empty sequence renders an
// empty string and the caller omits the WHERE keyword.
func compileConditions(conds []condition) string {
	var sb strings.Builder
	for i, c := range conds {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(string(c.comb))
			sb.WriteString(" ")
		}
		sb.WriteString(c.fragment())
	}
	return sb.String()
}

// fragment renders one condition without its combinator prefix.
func (c condition) fragment() string {
	if c.isGroup {
		return "(" + c.group + ")"
	}

	switch c.op {
	case Between:
		return fmt.Sprintf("%s BETWEEN %s AND %s", c.column, c.values[0].literal(), c.values[1].literal())
	case In:
		parts := make([]string, len(c.values))
		for i, v := range c.values {
			parts[i] = v.literal()
		}
		return fmt.Sprintf("%s IN (%s)", c.column, strings.Join(parts, ", "))
	case IsNull, IsNotNull:
		return fmt.Sprintf("%s %s", c.column, c.op)
	default:
		return fmt.Sprintf("%s %s %s", c.column, c.op, c.values[0].literal())
	}
}
