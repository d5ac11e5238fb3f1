package paging

import (
	"fmt"
	"strings"
)

// NoID marks an absent identifier in cursors and results. Generated
// identifiers are never zero.
const NoID int64 = 0

// SortDirection is the display order of a paginated collection.
type SortDirection string

const (
	Ascending  SortDirection = "asc"  // oldest first
	Descending SortDirection = "desc" // newest first
)

// ParseSortDirection parses "asc" or "desc", case-insensitively. An empty
// string means Ascending.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q", s)
	}
}

// Valid reports whether d is Ascending or Descending.
func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// Reverse returns the opposite direction.
func (d SortDirection) Reverse() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// Cursor is the position of a produced page: its number, the identifiers of
// its first and last rows in display order, and the sort direction.
type Cursor struct {
	PageNumber    int           `json:"page_number"`
	FirstID       int64         `json:"first_id,omitempty"`
	LastID        int64         `json:"last_id,omitempty"`
	SortDirection SortDirection `json:"sort_direction"`
}

// NewCursor returns a cursor with the page number clamped to 1 and an empty
// direction defaulted to Ascending.
func NewCursor(pageNumber int, firstID, lastID int64, dir SortDirection) Cursor {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if dir == "" {
		dir = Ascending
	}
	return Cursor{
		PageNumber:    pageNumber,
		FirstID:       firstID,
		LastID:        lastID,
		SortDirection: dir,
	}
}

// DefaultCursor is the cursor of a session that has not fetched anything.
func DefaultCursor(dir SortDirection) Cursor {
	return NewCursor(1, NoID, NoID, dir)
}

// IsFirstRequest reports whether the cursor points before the first page.
func (c Cursor) IsFirstRequest() bool {
	return c.PageNumber == 1 && c.LastID == NoID
}
