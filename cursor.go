package keypager

import (
	"encoding"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var _encoder = base64.RawURLEncoding

// ErrInvalidCursor is returned when a caller-supplied token cannot be decoded
// into a Cursor. Tokens arrive from untrusted API clients, so every decode
// failure wraps this sentinel and callers map it to a client-facing error.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor represents a position in an ordered collection as a
// (sort key, tie-breaker) pair.
//
// IMPORTANT:
// SortKey is an opaque, listing-defined sort key, NOT necessarily a creation
// time. A listing ordered by last update stores the update timestamp here.
// ID is a globally unique identifier, which makes (SortKey, ID) a total order
// over the collection even when sort keys collide.
//
// SortKey is held at millisecond precision so a cursor minted from one read
// compares cleanly against rows written with the same or coarser precision.
// NewCursor truncates; a Cursor built via struct literal with sub-millisecond
// precision will not survive an encode/decode round trip unchanged.
type Cursor struct {
	SortKey time.Time
	ID      uuid.UUID
}

// NewCursor builds a cursor from a sort key and a tie-breaker identifier.
// The sort key is truncated to millisecond precision.
func NewCursor(sortKey time.Time, id uuid.UUID) Cursor {
	return Cursor{
		SortKey: TruncateToMillis(sortKey),
		ID:      id,
	}
}

// TruncateToMillis drops sub-millisecond precision from t and normalizes it
// to UTC.
//
// Rows that participate in keyset pagination should be written with sort keys
// passed through this function: cursors encode milliseconds, and a stored
// nanosecond-precision timestamp would compare as strictly greater than the
// cursor minted from it, skipping the boundary row on the next page.
func TruncateToMillis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}

// DecodeCursor attempts to parse a base64-encoded token into a Cursor.
//
// Any token not produced by Cursor.Encode fails with an error wrapping
// ErrInvalidCursor. Decoding never falls back to a default position: a caller
// holding a bad token must request a fresh first page.
func DecodeCursor(token string) (Cursor, error) {
	if len(token) == 0 {
		return Cursor{}, fmt.Errorf("%w: empty token", ErrInvalidCursor)
	}

	raw, err := _encoder.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: base64 decode: %v", ErrInvalidCursor, err)
	}

	// Format: "<millis>:<uuid>". UUIDs use hyphens, never colons, so the
	// first ':' cleanly splits the two parts.
	millisPart, idPart, found := strings.Cut(string(raw), ":")
	if !found {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	millis, err := strconv.ParseInt(millisPart, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed sort key", ErrInvalidCursor)
	}

	id, err := uuid.Parse(idPart)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: malformed id", ErrInvalidCursor)
	}

	return Cursor{
		SortKey: time.UnixMilli(millis).UTC(),
		ID:      id,
	}, nil
}

// Encode serializes the cursor as a URL-safe base64 token.
//
// The token embeds "<millis>:<uuid>" and nothing else: it is self-contained,
// carries no entity type information and is never validated against the
// backing store. A cursor referencing a since-deleted row remains a valid
// position to paginate from.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.SortKey.UnixMilli(), 10) + ":" + c.ID.String()
	return _encoder.EncodeToString([]byte(raw))
}

// String - implements fmt.Stringer.
func (c Cursor) String() string {
	return c.Encode()
}

// IsZero reports whether the cursor is the zero value.
func (c Cursor) IsZero() bool {
	return c == Cursor{}
}

// Compare orders two cursors by (SortKey, ID). It returns -1 if c sorts
// before other, +1 if after and 0 when both components are equal.
func (c Cursor) Compare(other Cursor) int {
	if v := c.SortKey.Compare(other.SortKey); v != 0 {
		return v
	}

	return strings.Compare(c.ID.String(), other.ID.String())
}

// MarshalText - implements encoding.TextMarshaler. Cursors cross the process
// boundary only in encoded form.
func (c Cursor) MarshalText() ([]byte, error) {
	return []byte(c.Encode()), nil
}

// UnmarshalText - implements encoding.TextUnmarshaler.
func (c *Cursor) UnmarshalText(text []byte) error {
	decoded, err := DecodeCursor(string(text))
	if err != nil {
		return err
	}

	*c = decoded

	return nil
}

var (
	_ fmt.Stringer             = Cursor{}
	_ encoding.TextMarshaler   = Cursor{}
	_ encoding.TextUnmarshaler = (*Cursor)(nil)
)
