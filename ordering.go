package keypager

import (
	"fmt"

	"github.com/samber/lo"
)

// SortOrder defines the natural display order of a listing. It is a
// per-listing constant, not a per-request parameter: a conversations listing
// that shows most recent first stays SortDesc for every page ever served.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Opposite returns the reversed sort order.
func (o SortOrder) Opposite() SortOrder {
	switch o {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortAsc
	default:
		panic(fmt.Errorf("cannot reverse sort order '%s'", o))
	}
}

// ForOperator returns the comparison operator that continues a traversal in
// this order: ascending data lies beyond ">" and descending data beyond "<".
func (o SortOrder) ForOperator() Operator {
	switch o {
	case SortAsc:
		return OperatorGT
	case SortDesc:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map sort order '%s' to operator", o))
	}
}

// Direction defines which side of the cursor a request wants: Forward asks
// for rows that come after the position in display order, Backward for rows
// that come before it. Without a cursor there is no position to page
// relative to, and traversal always starts Forward from the top.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionBackward
}

// ParseDirection parses the request-surface direction string. An empty
// string means Forward.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); {
	case s == "":
		return DirectionForward, nil
	case d.Valid():
		return d, nil
	default:
		return "", fmt.Errorf("invalid pagination direction '%s'", s)
	}
}

// QueryPlan describes how to fetch one page: the comparison applied to the
// composite (sort key, id) tuple against the cursor, the physical ORDER BY
// direction, and whether the fetched rows must be reversed before they are
// handed back to the caller.
type QueryPlan struct {
	Comparison Operator
	Order      SortOrder
	Reverse    bool
}

// Plan derives the query plan for paging through an o-ordered listing in
// direction d.
//
// Paging backward fetches in the opposite physical order, bounded by the
// limit, so the rows nearest the cursor are the ones returned; they are then
// reversed back into display order. Fetching backward pages in display order
// would return the furthest preceding rows and silently drop the nearest.
func (o SortOrder) Plan(d Direction) QueryPlan {
	switch {
	case o == SortDesc && d == DirectionForward:
		return QueryPlan{Comparison: OperatorLT, Order: SortDesc, Reverse: false}
	case o == SortDesc && d == DirectionBackward:
		return QueryPlan{Comparison: OperatorGT, Order: SortAsc, Reverse: true}
	case o == SortAsc && d == DirectionForward:
		return QueryPlan{Comparison: OperatorGT, Order: SortAsc, Reverse: false}
	case o == SortAsc && d == DirectionBackward:
		return QueryPlan{Comparison: OperatorLT, Order: SortDesc, Reverse: true}
	default:
		panic(fmt.Errorf("cannot plan query for sort order '%s' and direction '%s'", o, d))
	}
}

// Columns names the physical columns a listing paginates over. SortKey is
// the ordering column (created_at, updated_at, ...), ID is the unique
// tie-breaker column.
type Columns struct {
	SortKey string
	ID      string
}

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (c Columns) validate() error {
	for _, column := range []string{c.SortKey, c.ID} {
		if column == "" {
			return fmt.Errorf("empty pagination column name")
		}

		// Guard against SQL injection by restricting allowed characters in column names.
		if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
			return fmt.Errorf("pagination column name contains forbidden symbols '%s'", column)
		}
	}

	if c.SortKey == c.ID {
		return fmt.Errorf("pagination columns must differ, got '%s' twice", c.SortKey)
	}

	return nil
}

// orderSQL renders the physical ORDER BY expression for the given fetch
// order. Both columns share the direction so the tuple comparison and the
// ordering agree.
//
// Example: for Columns{"created_at", "id"} and SortDesc returns
// "created_at DESC, id DESC".
func (c Columns) orderSQL(order SortOrder) string {
	return fmt.Sprintf("%s %s, %s %s", c.SortKey, order, c.ID, order)
}
