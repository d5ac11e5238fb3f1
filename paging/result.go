package paging

// ResultInfo describes a produced page. It is everything needed to resume
// the session and round-trips through JSON.
type ResultInfo struct {
	PageNumber    int           `json:"page_number"`
	PageSize      PageSize      `json:"page_size"`
	SortDirection SortDirection `json:"sort_direction"`
	FirstID       int64         `json:"first_id,omitempty"`
	LastID        int64         `json:"last_id,omitempty"`
	HasNext       bool          `json:"has_next"`
	HasPrevious   bool          `json:"has_previous"`
	Total         Total         `json:"total"`
}

// Result is a page of items together with the request that produced it.
type Result[T any] struct {
	Items   []T        `json:"items"`
	Info    ResultInfo `json:"info"`
	Request Request    `json:"request"`
}

// Cursor returns the position of this page.
func (r *Result[T]) Cursor() Cursor {
	return NewCursor(r.Info.PageNumber, r.Info.FirstID, r.Info.LastID, r.Info.SortDirection)
}

// NextPage returns the request for the following page.
func (r *Result[T]) NextPage() Request {
	return r.Request.NextPage(r.Info.FirstID, r.Info.LastID, r.Info.Total)
}

// PreviousPage returns the request for the preceding page. From an empty
// page past the end of a counted collection it jumps to the last page.
func (r *Result[T]) PreviousPage() Request {
	if last := r.Info.Total.Pages; len(r.Items) == 0 && last >= 1 && int64(r.Info.PageNumber-1) > last {
		return r.JumpToPage(int(last))
	}
	return r.Request.PreviousPage(r.Info.FirstID, r.Info.LastID, r.Info.Total)
}

// JumpToPage returns the request for page n.
func (r *Result[T]) JumpToPage(n int) Request {
	return r.Request.JumpToPage(r.Info.FirstID, r.Info.LastID, r.Info.PageNumber, n, r.Info.Total)
}

// Refresh returns the request re-fetching this page.
func (r *Result[T]) Refresh(updateTotal bool) Request {
	return r.Request.Refresh(r.Info.FirstID, r.Info.LastID, r.Info.HasNext, updateTotal, r.Info.Total)
}

// ResultModel is the response shape of a page: items, page info and opaque
// tokens for the neighbouring pages.
type ResultModel[T any] struct {
	Items    []T        `json:"items"`
	Info     ResultInfo `json:"info"`
	Next     string     `json:"next,omitempty"`
	Previous string     `json:"previous,omitempty"`
	Refresh  string     `json:"refresh"`
}

// Model returns the response model of r.
func (r *Result[T]) Model() ResultModel[T] {
	m := ResultModel[T]{
		Items:   r.Items,
		Info:    r.Info,
		Refresh: EncodeToken(r.Refresh(false)),
	}
	if m.Items == nil {
		m.Items = make([]T, 0)
	}
	if r.Info.HasNext {
		m.Next = EncodeToken(r.NextPage())
	}
	if r.Info.HasPrevious {
		m.Previous = EncodeToken(r.PreviousPage())
	}
	return m
}

// Token returns the token of the next page, or "" on the last page.
func (r *Result[T]) Token() string {
	if !r.Info.HasNext {
		return ""
	}
	return EncodeToken(r.NextPage())
}
