// Package ecode maps pagination and identifier errors to stable numeric
// codes, messages and HTTP statuses.
//
// Codes follow the convention:
//   - 0: success
//   - -400 to -599: request and server errors
//   - -1000 and below: pagination and identifier errors
//
// Map an error returned by the paging engine:
//
//	code := ecode.FromError(err)
//	status := ecode.ToHTTPStatus(code)
//	msg := ecode.Text(code)
//
// Custom codes are registered with Register.
package ecode
