package keypager

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func Test_tCondition_toGORMExpression(t *testing.T) {
	timeNow := TruncateToMillis(time.Now())
	id := uuid.New()

	tests := []struct {
		name      string
		condition tCondition
		wantSQL   string
		wantVars  []any
	}{
		{
			name:      "sort key less than",
			condition: tCondition{Column: "created_at", Operator: OperatorLT, Value: timeNow},
			wantSQL:   "created_at < ?",
			wantVars:  []any{timeNow},
		},
		{
			name:      "sort key greater than",
			condition: tCondition{Column: "updated_at", Operator: OperatorGT, Value: timeNow},
			wantSQL:   "updated_at > ?",
			wantVars:  []any{timeNow},
		},
		{
			name:      "tie-breaker equality",
			condition: tCondition{Column: "id", Operator: operatorEq, Value: id},
			wantSQL:   "id = ?",
			wantVars:  []any{id},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := tt.condition.toGORMExpression()
			clauseExpr := expr.(clause.Expr)

			if clauseExpr.SQL != tt.wantSQL {
				t.Errorf("unexpected SQL: got %s, want %s", clauseExpr.SQL, tt.wantSQL)
			}

			if len(clauseExpr.Vars) != len(tt.wantVars) {
				t.Errorf("unexpected vars length: got %d, want %d", len(clauseExpr.Vars), len(tt.wantVars))
			}

			for i, wantVar := range tt.wantVars {
				if clauseExpr.Vars[i] != wantVar {
					t.Errorf("unexpected var[%d]: got %v, want %v", i, clauseExpr.Vars[i], wantVar)
				}
			}
		})
	}
}

func Test_keysetPredicate_toSQLClause(t *testing.T) {
	sortKey := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	anchor := NewCursor(sortKey, id)
	cols := Columns{SortKey: "created_at", ID: "id"}

	tests := []struct {
		name     string
		cmp      Operator
		wantSQL  string
		wantVals []driver.Value
	}{
		{
			name:     "less than expands with tie-break arm",
			cmp:      OperatorLT,
			wantSQL:  "((created_at < ?) OR (created_at = ? AND id < ?))",
			wantVals: []driver.Value{anchor.SortKey, anchor.SortKey, anchor.ID},
		},
		{
			name:     "greater than expands with tie-break arm",
			cmp:      OperatorGT,
			wantSQL:  "((created_at > ?) OR (created_at = ? AND id > ?))",
			wantVals: []driver.Value{anchor.SortKey, anchor.SortKey, anchor.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotVals := keysetPredicate(cols, tt.cmp, anchor).toSQLClause()

			if gotSQL != tt.wantSQL {
				t.Errorf("unexpected SQL: got %s, want %s", gotSQL, tt.wantSQL)
			}

			if len(gotVals) != len(tt.wantVals) {
				t.Fatalf("unexpected values length: got %d, want %d", len(gotVals), len(tt.wantVals))
			}
			for i := range tt.wantVals {
				if gotVals[i] != tt.wantVals[i] {
					t.Errorf("unexpected value[%d]: got %v, want %v", i, gotVals[i], tt.wantVals[i])
				}
			}
		})
	}
}

func Test_tPredicate_Empty(t *testing.T) {
	var p tPredicate

	if expr := p.toGORMExpression(); expr != nil {
		t.Errorf("empty predicate must yield nil expression, got %#v", expr)
	}

	gotSQL, gotVals := p.toSQLClause()
	if gotSQL != "TRUE" || gotVals != nil {
		t.Errorf("empty predicate must render TRUE, got (%s, %v)", gotSQL, gotVals)
	}
}

func Test_tConjunction_toGORMExpression(t *testing.T) {
	tests := []struct {
		name        string
		conjunction tConjunction
		wantNil     bool
	}{
		{
			name: "two conditions join with AND",
			conjunction: tConjunction{
				{Column: "created_at", Operator: operatorEq, Value: time.Unix(0, 0)},
				{Column: "id", Operator: OperatorGT, Value: uuid.Nil},
			},
			wantNil: false,
		},
		{
			name:        "single condition stays bare",
			conjunction: tConjunction{{Column: "created_at", Operator: OperatorLT, Value: time.Unix(0, 0)}},
			wantNil:     false,
		},
		{
			name:        "empty conjunction yields nil",
			conjunction: tConjunction{},
			wantNil:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.conjunction.toGORMExpression()
			if (got == nil) != tt.wantNil {
				t.Errorf("%s: nil=%v want nil=%v", tt.name, got == nil, tt.wantNil)
			}
		})
	}
}
