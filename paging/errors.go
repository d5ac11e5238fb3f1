package paging

import "errors"

var (
	// ErrInvalidCursor is returned when a cursor id or direction is rejected.
	ErrInvalidCursor = errors.New("paging: invalid cursor")
	// ErrInvalidToken is returned when a page token cannot be decoded.
	ErrInvalidToken = errors.New("paging: invalid token")
	// ErrJumpUnsupported is returned by engines built WithoutJumps when a
	// request needs an offset scan.
	ErrJumpUnsupported = errors.New("paging: page jumps are disabled")
	// ErrNilQuery is returned when Execute is called without a query.
	ErrNilQuery = errors.New("paging: nil query")
)
