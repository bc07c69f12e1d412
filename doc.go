// Package keypager provides generic keyset (cursor-based) pagination for
// list-returning repositories.
//
// Overview
//
// A listing is described once — the physical columns used for ordering, the
// collection's display order and an accessor mapping a record to its cursor
// position — and every page request reuses that description:
//   - Cursor: an opaque (sort key, id) position token. URL-safe, stable
//     across restarts and shared by every entity type.
//   - Pager: orchestrates planning, lookahead fetching and page assembly.
//     It applies itself to a GORM query, or renders raw SQL clauses for
//     repositories that build queries by hand.
//   - ListResult: items plus has_more and next/prev cursors.
//
// Key concepts
//   - SortOrder is a property of the listing, not of the request. A request
//     only chooses a Direction (forward/backward) relative to its cursor.
//   - Backward pages are fetched in the opposite physical order and reversed
//     before being returned, so items always arrive in display order.
//   - Sort keys are compared at millisecond precision; truncate timestamps
//     with TruncateToMillis when writing rows that will be paginated.
//
// See README for examples and usage details.
package keypager
