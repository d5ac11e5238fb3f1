package paging

import (
	"context"
	"fmt"
)

// Params holds the pagination parameters of an API call.
type Params struct {
	Token     string `json:"token" form:"token"`
	Limit     int    `json:"limit" form:"limit"`
	Direction string `json:"direction" form:"direction"`
	Total     bool   `json:"total" form:"total"`
}

// Bounds sizes the requests built from API parameters. A non-positive size
// selects the default size.
type Bounds interface {
	PageSize(size int) PageSize
	FirstPage(size int, dir SortDirection) Request
}

// Limits is a Bounds over fixed values.
type Limits struct {
	DefaultSize int
	MaxSize     int
	Override    bool // Allow MaxSize above MaxPageSizeThreshold
	CountTotal  bool // Count the collection on the first page
}

// PageSize implements Bounds.
func (l Limits) PageSize(size int) PageSize {
	if size <= 0 {
		size = l.DefaultSize
	}
	if l.Override {
		return NewPageSizeOverride(size, l.MaxSize)
	}
	return NewPageSize(size, l.MaxSize)
}

// FirstPage implements Bounds.
func (l Limits) FirstPage(size int, dir SortDirection) Request {
	return FirstPage(l.PageSize(size), dir, WithUpdateTotalCount(l.CountTotal))
}

// NormalizeParams fills in the default limit and direction.
func NormalizeParams(params Params, defaultLimit int) Params {
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Direction == "" {
		params.Direction = string(Ascending)
	}
	return params
}

// RequestFromParams returns the request named by params.Token, or the first
// page sized by params.Limit when there is no token. Token page sizes are
// clamped to b like any client-supplied limit.
func RequestFromParams(params Params, b Bounds) (Request, error) {
	if params.Token != "" {
		req, err := DecodeToken(params.Token)
		if err != nil {
			return Request{}, err
		}
		req = req.WithPageSize(b.PageSize(req.PageSize.Size))
		return req.WithTotalCountUpdate(req.UpdateTotalCount || params.Total), nil
	}
	dir, err := ParseSortDirection(params.Direction)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	req := b.FirstPage(params.Limit, dir)
	return req.WithTotalCountUpdate(req.UpdateTotalCount || params.Total), nil
}

// Paginate runs the request described by params and returns the response
// model.
func Paginate[T any](ctx context.Context, e *Engine[T], q Query[T], params Params, b Bounds) (ResultModel[T], error) {
	params = NormalizeParams(params, b.PageSize(0).Size)
	req, err := RequestFromParams(params, b)
	if err != nil {
		return ResultModel[T]{}, err
	}
	res, err := e.Execute(ctx, q, req)
	if err != nil {
		return ResultModel[T]{}, fmt.Errorf("pagination error: %w", err)
	}
	return res.Model(), nil
}
