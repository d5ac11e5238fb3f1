package paging

const (
	// MaxPageSizeThreshold caps MaxSize unless explicitly overridden.
	MaxPageSizeThreshold = 1000

	// DefaultMaxPageSize is the MaxSize used by DefaultPageSize.
	DefaultMaxPageSize = 100

	// Unspecified marks an unknown total count or page count.
	Unspecified int64 = -1
)

// PageSize is the capacity of a page. MaxSize is kept distinct from Size so
// that a serialized request restores the same bounds.
type PageSize struct {
	Size    int `json:"size"`
	MaxSize int `json:"max_size"`
}

// NewPageSize clamps size into [1, min(maxSize, MaxPageSizeThreshold)].
func NewPageSize(size, maxSize int) PageSize {
	return newPageSize(size, maxSize, false)
}

// NewPageSizeOverride is NewPageSize without the MaxPageSizeThreshold cap.
func NewPageSizeOverride(size, maxSize int) PageSize {
	return newPageSize(size, maxSize, true)
}

// DefaultPageSize clamps size into [1, DefaultMaxPageSize].
func DefaultPageSize(size int) PageSize {
	return NewPageSize(size, DefaultMaxPageSize)
}

func newPageSize(size, maxSize int, override bool) PageSize {
	if !override && maxSize > MaxPageSizeThreshold {
		maxSize = MaxPageSizeThreshold
	}
	if maxSize < 1 {
		maxSize = 1
	}
	switch {
	case size < 1:
		size = 1
	case size > maxSize:
		size = maxSize
	}
	return PageSize{Size: size, MaxSize: maxSize}
}

// valid reports whether the invariant 1 <= Size <= MaxSize holds.
func (p PageSize) valid() bool {
	return p.Size >= 1 && p.Size <= p.MaxSize
}

// Total is the total row count of a collection and the page count it implies.
type Total struct {
	Count int64 `json:"count"`
	Pages int64 `json:"pages"`
}

// NewTotal computes the page count for count rows. A negative count yields
// an unspecified total.
func NewTotal(count int64, pageSize int) Total {
	if count < 0 {
		return UnspecifiedTotal()
	}
	if pageSize < 1 {
		pageSize = 1
	}
	size := int64(pageSize)
	return Total{Count: count, Pages: (count + size - 1) / size}
}

// UnspecifiedTotal is a total that has not been counted.
func UnspecifiedTotal() Total {
	return Total{Count: Unspecified, Pages: Unspecified}
}

// CountSpecified reports whether the count is known.
func (t Total) CountSpecified() bool {
	return t.Count >= 0
}
