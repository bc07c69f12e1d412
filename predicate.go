package keypager

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

type (
	tCondition struct {
		Column   string
		Value    any
		Operator Operator
	}

	tConjunction []tCondition

	// tPredicate represents the keyset seek predicate in disjunctive normal
	// form. Conjunctions are joined by OR, the conditions inside each
	// conjunction by AND.
	//
	// The composite tuple comparison (k, id) <op> (K, I) expands to:
	//
	//	(k <op> K) OR (k = K AND id <op> I)
	//
	// which keeps the strict inequality on the sort key while the unique id
	// breaks ties among rows sharing K. The expansion is portable to stores
	// without native ROW(...) comparison support.
	tPredicate []tConjunction
)

// keysetPredicate expands the comparison of (cols.SortKey, cols.ID) against
// the anchor cursor into a tPredicate.
func keysetPredicate(cols Columns, cmp Operator, anchor Cursor) tPredicate {
	return tPredicate{
		{
			{Column: cols.SortKey, Operator: cmp, Value: anchor.SortKey},
		},
		{
			{Column: cols.SortKey, Operator: operatorEq, Value: anchor.SortKey},
			{Column: cols.ID, Operator: cmp, Value: anchor.ID},
		},
	}
}

// toGORMExpression converts a condition of the form Operator(Column, Value)
// into an SQL condition "Column Operator ?" represented as a clause.Expression.
func (c tCondition) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition of the form Operator(Column, Value) to an
// SQL condition "Column Operator ?" with a corresponding placeholder value.
//
// Example:
//
//	tCondition = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c tCondition) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

// toGORMExpression converts a conjunction (K1, K2) into a gorm expression
// "K1 AND K2" where each Ki is expanded via tCondition.toGORMExpression.
func (j tConjunction) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(j))
	for _, condition := range j {
		andExpressions = append(andExpressions, condition.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a conjunction (K1, K2) into an SQL condition
// "(K1 AND K2)" with corresponding placeholder values.
func (j tConjunction) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(j))
	andValues := make([]driver.Value, 0, len(j))

	for _, condition := range j {
		andClause, andValue := condition.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression joins the predicate's conjunctions with OR into a single
// clause.Expression.
func (p tPredicate) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(p))

	for _, conjunction := range p {
		andExpression := conjunction.toGORMExpression()
		if andExpression == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpression)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause joins the predicate's conjunctions with OR into a single SQL
// condition with its placeholder values.
//
// Example:
//
//	tPredicate = {
//		{{Column: "created_at", Operator: "<", Value: t}},
//		{{Column: "created_at", Operator: "=", Value: t}, {Column: "id", Operator: "<", Value: id}},
//	}
//
// Result:
//
//	("((created_at < ?) OR (created_at = ? AND id < ?))", [t, t, id])
func (p tPredicate) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(p))
	values := make([]driver.Value, 0, len(p))

	for _, conjunction := range p {
		orClause, orValues := conjunction.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}
