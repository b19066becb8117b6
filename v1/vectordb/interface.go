package vectordb

import "context"

// Executor runs filter queries against a vector database.
//
// Implementations translate the request for their backend. A request whose
// filter uses constructs the backend cannot express must fail with an error
// wrapping ErrUnsupportedExpression rather than silently widening the result.
//
//go:generate mockgen -source=interface.go -destination=mock_executor.go -package=vectordb
type Executor interface {
	// Query returns the rows matching the request, at most req.Limit of them
	// after skipping req.Offset.
	Query(ctx context.Context, req QueryRequest) ([]Row, error)
}
