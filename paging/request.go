package paging

import "fmt"

// NavigationDirection is the movement a request makes relative to its cursor.
type NavigationDirection int

const (
	Refresh NavigationDirection = iota
	Next
	Previous
)

// String returns the direction name.
func (d NavigationDirection) String() string {
	switch d {
	case Refresh:
		return "refresh"
	case Next:
		return "next"
	case Previous:
		return "previous"
	default:
		return fmt.Sprintf("navigation(%d)", int(d))
	}
}

// Request asks for one page relative to a cursor. Requests are values; every
// helper returns a new one.
type Request struct {
	PageNumber             int      `json:"page_number"`
	PageSize               PageSize `json:"page_size"`
	Cursor                 Cursor   `json:"cursor"`
	Total                  Total    `json:"total"`
	UpdateTotalCount       bool     `json:"update_total_count,omitempty"`
	MarkAsHasNextOnRefresh bool     `json:"mark_as_has_next_on_refresh,omitempty"`
}

// RequestOption configures a Request.
type RequestOption func(*Request)

// WithTotal carries a known total.
func WithTotal(t Total) RequestOption {
	return func(r *Request) { r.Total = t }
}

// WithUpdateTotalCount asks the engine to recount the collection.
func WithUpdateTotalCount(update bool) RequestOption {
	return func(r *Request) { r.UpdateTotalCount = update }
}

// WithMarkAsHasNextOnRefresh keeps a previously observed HasNext on refresh.
func WithMarkAsHasNextOnRefresh(mark bool) RequestOption {
	return func(r *Request) { r.MarkAsHasNextOnRefresh = mark }
}

// NewRequest returns a request for pageNumber, clamped to 1.
func NewRequest(pageNumber int, size PageSize, cursor Cursor, opts ...RequestOption) Request {
	if pageNumber < 1 {
		pageNumber = 1
	}
	r := Request{
		PageNumber: pageNumber,
		PageSize:   size,
		Cursor:     NewCursor(cursor.PageNumber, cursor.FirstID, cursor.LastID, cursor.SortDirection),
		Total:      UnspecifiedTotal(),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// FirstPage returns the initial request of a session.
func FirstPage(size PageSize, dir SortDirection, opts ...RequestOption) Request {
	return NewRequest(1, size, DefaultCursor(dir), opts...)
}

// SortDirection returns the cursor's sort direction.
func (r Request) SortDirection() SortDirection {
	return r.Cursor.SortDirection
}

// NavigationDirection derives the movement from the page numbers.
func (r Request) NavigationDirection() NavigationDirection {
	switch {
	case r.Cursor.IsFirstRequest() || r.PageNumber > r.Cursor.PageNumber:
		return Next
	case r.PageNumber < r.Cursor.PageNumber:
		return Previous
	default:
		return Refresh
	}
}

// PageDifference is the distance between the requested page and the cursor.
func (r Request) PageDifference() int {
	d := r.PageNumber - r.Cursor.PageNumber
	if d < 0 {
		return -d
	}
	return d
}

// IsPageJump reports whether the request skips at least one page.
func (r Request) IsPageJump() bool {
	return r.PageDifference() > 1
}

// SkipSize is the number of rows between the cursor anchor and the
// requested page.
func (r Request) SkipSize() int {
	if !r.IsPageJump() {
		return 0
	}
	return (r.PageDifference() - 1) * r.PageSize.Size
}

// StartOffset is the absolute offset of the requested page from the start of
// the collection.
func (r Request) StartOffset() int {
	return (r.PageNumber - 1) * r.PageSize.Size
}

// CursorAnchorID is the identifier the page is fetched relative to: the last
// row when moving forward, the first row otherwise.
func (r Request) CursorAnchorID() int64 {
	if r.NavigationDirection() == Next {
		return r.Cursor.LastID
	}
	return r.Cursor.FirstID
}

// HasAnchor reports whether CursorAnchorID is set.
func (r Request) HasAnchor() bool {
	return r.CursorAnchorID() != NoID
}

// NextPage returns the request for the page after this one, anchored on the
// produced page's first and last ids. total replaces the carried total when
// it is specified.
func (r Request) NextPage(firstID, lastID int64, total Total) Request {
	return r.follow(r.PageNumber+1, r.PageNumber, firstID, lastID, total)
}

// PreviousPage returns the request for the page before this one.
func (r Request) PreviousPage(firstID, lastID int64, total Total) Request {
	return r.follow(r.PageNumber-1, r.PageNumber, firstID, lastID, total)
}

// JumpToPage returns a request for toPage from a cursor positioned on fromPage.
func (r Request) JumpToPage(firstID, lastID int64, fromPage, toPage int, total Total) Request {
	return r.follow(toPage, fromPage, firstID, lastID, total)
}

// Refresh returns a request re-fetching this page. hasNext is the value
// observed on the previous fetch and is kept optimistically.
func (r Request) Refresh(firstID, lastID int64, hasNext, updateTotal bool, total Total) Request {
	next := r.follow(r.PageNumber, r.PageNumber, firstID, lastID, total)
	next.MarkAsHasNextOnRefresh = hasNext
	next.UpdateTotalCount = updateTotal
	return next
}

// Reset returns the first page request with the same size and direction.
func (r Request) Reset() Request {
	return FirstPage(r.PageSize, r.SortDirection(), WithTotal(r.Total))
}

// WithTotalCountUpdate returns a copy that asks for a recount.
func (r Request) WithTotalCountUpdate(update bool) Request {
	r.UpdateTotalCount = update
	return r
}

// WithPageSize returns a copy with a different page size.
func (r Request) WithPageSize(size PageSize) Request {
	r.PageSize = size
	return r
}

// WithSortDirection returns the first page request in direction dir. Ids
// from the other direction cannot anchor the new order.
func (r Request) WithSortDirection(dir SortDirection) Request {
	if dir == r.SortDirection() {
		return r
	}
	return FirstPage(r.PageSize, dir, WithTotal(r.Total))
}

func (r Request) follow(toPage, fromPage int, firstID, lastID int64, total Total) Request {
	if !total.CountSpecified() {
		total = r.Total
	}
	return NewRequest(toPage, r.PageSize, NewCursor(fromPage, firstID, lastID, r.SortDirection()), WithTotal(total))
}
