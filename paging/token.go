package paging

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// EncodeToken encodes req as an opaque URL-safe token.
func EncodeToken(req Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		// Request has only plain fields.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeToken decodes a token produced by EncodeToken. Tokens are untrusted
// input: malformed ones fail with ErrInvalidToken and are never repaired.
func DecodeToken(token string) (Request, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var req Request
	if err := json.Unmarshal(b, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	switch {
	case req.PageNumber < 1 || req.Cursor.PageNumber < 1:
		return Request{}, fmt.Errorf("%w: page number out of range", ErrInvalidToken)
	case !req.PageSize.valid():
		return Request{}, fmt.Errorf("%w: page size %d of %d", ErrInvalidToken, req.PageSize.Size, req.PageSize.MaxSize)
	case !req.Cursor.SortDirection.Valid():
		return Request{}, fmt.Errorf("%w: sort direction %q", ErrInvalidToken, req.Cursor.SortDirection)
	case req.Cursor.FirstID < 0 || req.Cursor.LastID < 0:
		return Request{}, fmt.Errorf("%w: negative cursor id", ErrInvalidToken)
	}
	if req.Total.Count < Unspecified {
		req.Total = UnspecifiedTotal()
	}
	return req, nil
}
