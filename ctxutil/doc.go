// Package ctxutil carries request-scoped values through context.Context.
//
// Pagination calls are usually triggered from a request handler; the trace id
// stored here is attached to every log line the engine writes:
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	res, err := engine.Execute(ctx, query, req)
package ctxutil
