package fluentdb

// Operator represents query comparison operators.
type Operator string

const (
	// Basic comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Extended operators.
	Between   Operator = "BETWEEN"
	In        Operator = "IN"
	LIKE      Operator = "LIKE"
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"
)

// Combinator joins a condition to the ones preceding it in a sequence.
// The combinator belongs to the condition being added, not the one before
// it; the first condition in a sequence never renders its combinator.
type Combinator string

const (
	AND Combinator = "AND"
	OR  Combinator = "OR"
)

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// Aggregate selects a scalar SQL aggregate function in place of row
// projection. While an aggregate is set, column selection is discarded and
// ORDER BY is suppressed.
type Aggregate string

const (
	AggNone  Aggregate = ""
	AggCount Aggregate = "COUNT"
	AggSum   Aggregate = "SUM"
	AggAvg   Aggregate = "AVG"
	AggMax   Aggregate = "MAX"
	AggMin   Aggregate = "MIN"
)

// JoinKind represents the type of SQL join.
type JoinKind string

const (
	InnerJoin JoinKind = "JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
	RightJoin JoinKind = "RIGHT JOIN"
)

// OrderSpec is one ORDER BY entry; sequence order is clause order.
type OrderSpec struct {
	Column    string
	Direction Direction
}
