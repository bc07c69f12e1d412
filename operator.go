package keypager

import "fmt"

// Operator defines the comparison operator applied to the composite
// (sort key, id) tuple when seeking past a cursor.
type Operator string

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"

	// operatorEq is the equality operator. It is private because we use it
	// ONLY while expanding the composite tuple comparison into conditions.
	operatorEq Operator = "="
)

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

// ForSortOrder returns the physical fetch order under which the operator
// seeks away from a cursor: ">" walks ascending data, "<" walks descending.
func (o Operator) ForSortOrder() SortOrder {
	switch o {
	case OperatorGT:
		return SortAsc
	case OperatorLT:
		return SortDesc
	default:
		panic(fmt.Errorf("cannot map operator '%s' to sort order", o))
	}
}
