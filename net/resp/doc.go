// Package resp writes JSON response envelopes for pagekit's HTTP endpoints.
//
// Successful responses carry the payload as is. Failures use:
//
//	{
//	  "code": -1002,
//	  "message": "invalid page token",
//	  "errors": "pagination error: paging: invalid token: ..."
//	}
//
// Error derives code, message and HTTP status from ecode.
package resp
