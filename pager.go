package keypager

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// ErrContractViolation signals a programming error at the adapter boundary:
// more rows supplied than the lookahead limit allows, or a listing configured
// without a sort-key accessor. It is never caused by client input; hosts
// should surface it as a server fault.
var ErrContractViolation = errors.New("pagination contract violation")

// Pager drives keyset pagination for one listing. The listing-scoped parts —
// physical columns, display order and the record-to-cursor accessor — are
// fixed at construction; the request-scoped parts arrive via WithParams or
// the individual With* methods, each of which returns a derived pager and
// leaves its receiver untouched. A listing-scoped Pager can therefore be
// shared across goroutines and specialized per request.
//
// A Pager is otherwise pure: it issues no queries of its own and spawns no
// work.
type Pager[T any] struct {
	columns   Columns
	order     SortOrder
	sortKeyOf func(T) Cursor

	limit     int
	cursor    *Cursor
	direction Direction
}

// NewPager describes a listing: the columns it paginates over, its display
// order and an accessor producing a record's cursor position.
//
// Example:
//
//	pager := keypager.NewPager(
//		keypager.Columns{SortKey: "created_at", ID: "id"},
//		keypager.SortDesc,
//		func(l AuditLog) keypager.Cursor { return keypager.NewCursor(l.CreatedAt, l.ID) },
//	)
func NewPager[T any](columns Columns, order SortOrder, sortKeyOf func(T) Cursor) *Pager[T] {
	return &Pager[T]{
		columns:   columns,
		order:     order,
		sortKeyOf: sortKeyOf,
		limit:     DefaultLimit,
		direction: DirectionForward,
	}
}

func (p *Pager[T]) clone() *Pager[T] {
	if p == nil {
		return &Pager[T]{
			limit:     DefaultLimit,
			direction: DirectionForward,
		}
	}

	derived := *p

	return &derived
}

// WithParams applies the request-scoped inputs in one call.
func (p *Pager[T]) WithParams(params ListParams) *Pager[T] {
	return p.
		WithLimit(params.Limit).
		WithCursor(params.Cursor).
		WithDirection(params.Direction)
}

// WithLimit sets the maximum number of returned records. The value is passed
// through NormalizeLimit, so zero and negative inputs fall back to
// DefaultLimit and values above MaxLimit are clamped.
func (p *Pager[T]) WithLimit(limit int) *Pager[T] {
	p = p.clone()
	p.limit = NormalizeLimit(limit)

	return p
}

// WithCursor sets the anchor cursor. Nil means the first page.
func (p *Pager[T]) WithCursor(cursor *Cursor) *Pager[T] {
	p = p.clone()
	p.cursor = cursor

	return p
}

// WithDirection sets the traversal direction relative to the anchor cursor.
// An empty direction means Forward, matching ParseDirection, so a zero-value
// ListParams yields a first-page request rather than an invalid pager.
func (p *Pager[T]) WithDirection(direction Direction) *Pager[T] {
	p = p.clone()
	if direction == "" {
		direction = DirectionForward
	}
	p.direction = direction

	return p
}

// GetLimit returns the normalized per-page limit.
func (p *Pager[T]) GetLimit() int {
	if p == nil {
		return 0
	}

	return p.limit
}

// GetCursor returns the anchor cursor as-is.
func (p *Pager[T]) GetCursor() *Cursor {
	if p == nil {
		return nil
	}

	return p.cursor
}

// GetDirection returns the effective traversal direction. Without an anchor
// cursor there is no position to page backward from, so the direction is
// always Forward.
func (p *Pager[T]) GetDirection() Direction {
	if p == nil || p.cursor == nil {
		return DirectionForward
	}

	return p.direction
}

// GetSortOrder returns the listing's display order.
func (p *Pager[T]) GetSortOrder() SortOrder {
	if p == nil {
		return ""
	}

	return p.order
}

// Plan derives the query plan for the current request: the tuple comparison
// against the cursor, the physical fetch order and the reversal flag.
func (p *Pager[T]) Plan() QueryPlan {
	return p.GetSortOrder().Plan(p.GetDirection())
}

// GetFetchLimit returns the limit adjusted for lookahead. One extra row is
// always fetched to decide has_more without a second query.
func (p *Pager[T]) GetFetchLimit() int {
	return p.GetLimit() + 1
}

func (p *Pager[T]) validate() error {
	if p == nil {
		return fmt.Errorf("pager is nil")
	}

	if err := p.columns.validate(); err != nil {
		return err
	}

	if !p.order.Valid() {
		return fmt.Errorf("invalid sort order '%s'", p.order)
	}

	if !p.direction.Valid() {
		return fmt.Errorf("invalid direction '%s'", p.direction)
	}

	if p.limit <= 0 || p.limit > MaxLimit {
		return fmt.Errorf("limit %d out of range", p.limit)
	}

	return nil
}

// Paginate applies pagination to the dataset: the physical ordering, the
// keyset seek predicate when an anchor cursor is present, and the lookahead
// limit. Entity filters must already be applied to db — filtering after the
// keyset predicate would break the lookahead accounting.
func (p *Pager[T]) Paginate(db *gorm.DB) (*gorm.DB, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("cannot paginate: %w", err)
	}

	plan := p.Plan()

	db = db.Order(p.columns.orderSQL(plan.Order))

	if p.cursor != nil {
		db = db.Clauses(keysetPredicate(p.columns, plan.Comparison, *p.cursor).toGORMExpression())
	}

	return db.Limit(p.GetFetchLimit()), nil
}

// Assemble turns the raw rows of a lookahead fetch into the page handed back
// to the caller.
//
// rows must be ordered per the Plan's fetch order and contain at most
// GetFetchLimit() records; supplying more is a caller bug reported as
// ErrContractViolation. The returned items are always in the listing's
// display order: backward fetches arrive reversed and are flipped back here.
func (p *Pager[T]) Assemble(rows []T) (ListResult[T], error) {
	if err := p.validate(); err != nil {
		return ListResult[T]{}, fmt.Errorf("cannot assemble page: %w", err)
	}

	if p.sortKeyOf == nil {
		return ListResult[T]{}, fmt.Errorf("%w: listing has no sort-key accessor", ErrContractViolation)
	}

	if len(rows) > p.GetFetchLimit() {
		return ListResult[T]{}, fmt.Errorf(
			"%w: got %d rows for fetch limit %d", ErrContractViolation, len(rows), p.GetFetchLimit(),
		)
	}

	hasMore := len(rows) > p.limit
	items := rows[:min(len(rows), p.limit)]

	if p.Plan().Reverse {
		slices.Reverse(items)
	}

	result := ListResult[T]{
		Items:   items,
		HasMore: hasMore,
	}

	if len(items) == 0 {
		return result, nil
	}

	direction := p.GetDirection()

	// A backward page always has further forward content: at minimum the
	// page it was paged back from.
	if hasMore || direction == DirectionBackward {
		next := p.sortKeyOf(items[len(items)-1])
		result.Cursors.Next = &next
	}

	// Anything but the absolute first page has a preceding position.
	if p.cursor != nil || direction == DirectionBackward {
		prev := p.sortKeyOf(items[0])
		result.Cursors.Prev = &prev
	}

	return result, nil
}

// List runs the whole pipeline against a GORM query: Paginate, fetch,
// Assemble. The query is the only blocking step and honors ctx.
//
// db must already carry the listing's model/table and entity filters.
func (p *Pager[T]) List(ctx context.Context, db *gorm.DB) (*ListResult[T], error) {
	paged, err := p.Paginate(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var rows []T
	if err = paged.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	result, err := p.Assemble(rows)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// KeysetSQL renders the seek predicate as a raw SQL condition with its
// placeholder values, for repositories that build queries by hand.
//
// Usage:
//
//	where, args := pager.KeysetSQL()
//	query := fmt.Sprintf("SELECT ... WHERE deleted_at IS NULL AND %s ORDER BY %s LIMIT %d",
//		where, pager.OrderSQL(), pager.GetFetchLimit())
//
// Returns "TRUE" with no values when there is no anchor cursor.
func (p *Pager[T]) KeysetSQL() (string, []driver.Value) {
	if p == nil || p.cursor == nil {
		return "TRUE", nil
	}

	return keysetPredicate(p.columns, p.Plan().Comparison, *p.cursor).toSQLClause()
}

// OrderSQL renders the physical ORDER BY expression for the current request.
func (p *Pager[T]) OrderSQL() string {
	return p.columns.orderSQL(p.Plan().Order)
}
