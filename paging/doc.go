// Package paging implements bidirectional cursor pagination over collections
// ordered by sortable integer ids.
//
// A Request names a target page relative to a Cursor: the page number, first
// and last ids, and sort direction of the page the caller last saw. The
// Engine turns it into one read against a Query:
//
//	engine := paging.NewEngine(func(m Message) int64 { return m.ID })
//	res, err := engine.Execute(ctx, query, paging.FirstPage(paging.DefaultPageSize(20), paging.Descending))
//	next, err := engine.Execute(ctx, query, res.NextPage())
//
// Adjacent pages are fetched with a bound on the anchor id only. Jumps of
// more than one page add a Skip past the anchor, and requests without an
// anchor fall back to an absolute offset. WithoutJumps disables both for
// stores where offset scans are too expensive.
//
// Every fetch asks for one row more than the page size. The extra row tells
// whether another page exists in the fetch direction and is never returned.
//
// Requests and results are values. They can be serialized with EncodeToken
// and resumed after a restart.
package paging
