package ecode

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/ncobase/pagekit/bitfield"
	"github.com/ncobase/pagekit/paging"
	"github.com/ncobase/pagekit/sortid"
)

// Common codes
const (
	OK                 = 0
	RequestErr         = -400
	ParamErr           = -401
	NotFound           = -404
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
	Canceled           = -499
)

// Pagination and identifier codes
const (
	InvalidCursor   = -1001
	InvalidToken    = -1002
	JumpUnsupported = -1003
	InvalidID       = -1004
	FieldOverflow   = -1005
	ClockBackwards  = -1006
	InvalidLayout   = -1007
)

var (
	mu       sync.RWMutex
	messages = map[int]string{
		OK:                 "ok",
		RequestErr:         "invalid request",
		ParamErr:           "invalid parameters",
		NotFound:           "resource not found",
		ServerErr:          "internal server error",
		ServiceUnavailable: "service unavailable",
		Deadline:           "deadline exceeded",
		Canceled:           "request canceled",
		InvalidCursor:      "invalid page cursor",
		InvalidToken:       "invalid page token",
		JumpUnsupported:    "page jumps are disabled",
		InvalidID:          "invalid identifier",
		FieldOverflow:      "identifier field overflow",
		ClockBackwards:     "clock moved backwards",
		InvalidLayout:      "invalid bit layout",
	}
)

// Register sets the message of a custom code.
func Register(code int, message string) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
}

// Text returns the message of code, or "unknown error".
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "unknown error"
}

// FromError maps err to a code. nil maps to OK and unrecognized errors to
// ServerErr.
func FromError(err error) int {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, paging.ErrInvalidCursor):
		return InvalidCursor
	case errors.Is(err, paging.ErrInvalidToken):
		return InvalidToken
	case errors.Is(err, paging.ErrJumpUnsupported):
		return JumpUnsupported
	case errors.Is(err, paging.ErrNilQuery):
		return ServerErr
	case errors.Is(err, sortid.ErrInvalidID):
		return InvalidID
	case errors.Is(err, sortid.ErrFieldOverflow):
		return FieldOverflow
	case errors.Is(err, sortid.ErrClockBackwards):
		return ClockBackwards
	case errors.Is(err, sortid.ErrInvalidSettings), errors.Is(err, bitfield.ErrInvalidLayout):
		return InvalidLayout
	case errors.Is(err, context.DeadlineExceeded):
		return Deadline
	case errors.Is(err, context.Canceled):
		return Canceled
	default:
		return ServerErr
	}
}

// ToHTTPStatus maps code to an HTTP status.
func ToHTTPStatus(code int) int {
	switch code {
	case OK:
		return http.StatusOK
	case RequestErr, ParamErr, InvalidCursor, InvalidToken, InvalidID, FieldOverflow:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case JumpUnsupported:
		return http.StatusUnprocessableEntity
	case Canceled:
		return 499
	case ServiceUnavailable, ClockBackwards:
		return http.StatusServiceUnavailable
	case Deadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
