package keypager

// RawListParams is intended for API payloads. For proper code generation, inline it:
//
//	type AuditLogFilter struct {
//	    Paging RawListParams `json:",inline"`
//	}
type RawListParams struct {
	// Limit - maximum number of records to return in the response.
	// Zero means DefaultLimit; values above MaxLimit are clamped.
	Limit int `json:"limit"`
	// Cursor - base64-encoded position token obtained from a previous
	// response's cursors. If empty, the first page is returned.
	Cursor string `json:"cursor"`
	// Direction - "forward" (default) or "backward", relative to Cursor.
	Direction string `json:"direction"`
}

// Decode converts RawListParams into ListParams, normalizing Limit and
// validating the cursor token and direction. A malformed cursor yields an
// error wrapping ErrInvalidCursor; it is the caller's client error, never a
// silent fall back to the first page.
func (p RawListParams) Decode() (ListParams, error) {
	direction, err := ParseDirection(p.Direction)
	if err != nil {
		return ListParams{}, err
	}

	params := ListParams{
		Limit:     NormalizeLimit(p.Limit),
		Direction: direction,
	}

	if p.Cursor != "" {
		cursor, err := DecodeCursor(p.Cursor)
		if err != nil {
			return ListParams{}, err
		}
		params.Cursor = &cursor
	}

	return params, nil
}

// ListParams carries the request-scoped pagination inputs of a list query.
// Entity filters live in the caller's own query type alongside it.
type ListParams struct {
	// Limit - maximum number of records to return.
	Limit int
	// Cursor - anchor position for keyset pagination. Nil means the first page.
	Cursor *Cursor
	// Direction - traversal direction relative to Cursor. Ignored without one.
	Direction Direction
}

// PageCursors holds the cursors for navigating away from the current page.
// Both are derived from the page's boundary rows, not from the request.
type PageCursors struct {
	// Next - position to pass for the following page, if one exists.
	Next *Cursor `json:"next,omitempty"`
	// Prev - position to pass with Direction "backward" for the preceding page.
	Prev *Cursor `json:"prev,omitempty"`
}

// ListResult is a generic paginated result container. It is built once per
// request by Pager.Assemble and returned to the caller unchanged.
type ListResult[T any] struct {
	// Items - page elements, always in the listing's display order.
	Items []T `json:"items"`
	// HasMore - whether rows exist beyond this page in the fetch direction.
	HasMore bool `json:"has_more"`
	// Cursors - next/prev navigation for this page.
	Cursors PageCursors `json:"cursors"`
}
