// Package vectordb defines the database-agnostic contract between the
// filter builders and a vector database backend.
//
// # Overview
//
// A condition builder renders its state into a [QueryRequest]: the filter
// expression (both as text and as structured nodes), the target collection,
// the consistency level, the partitions to scan, paging and projection. A
// backend implements [Executor] to run such a request and return [Row]
// values. Applications depend only on this package and swap backends
// without changing query code.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                    Application Layer                        │
//	│        (builds filters with wrapper.NewQuery[T])            │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │ QueryRequest
//	                           ▼
//	┌─────────────────────────────────────────────────────────────┐
//	│                   vectordb.Executor                         │
//	│          (common interface + DB-agnostic types)             │
//	└──────────────────────────┬──────────────────────────────────┘
//	                           │
//	                 ┌─────────┴─────────┐
//	                 ▼                   ▼
//	        ┌────────────────┐   ┌────────────────┐
//	        │ qdrant.Adapter │   │  MockExecutor  │
//	        └────────────────┘   └────────────────┘
//
// # Usage
//
//	req, err := wrapper.NewQuery[Document]().
//	    Eq(true, "status", "published").
//	    Gt(true, "year", 2020).
//	    Request()
//	if err != nil {
//	    return err
//	}
//	rows, err := executor.Query(ctx, req)
//
// # Consistency
//
// [ConsistencyLevel] follows the Milvus levels. Strong is the default.
// Backends map the levels onto what they support and document the mapping.
//
// # Testing
//
// [MockExecutor] is generated with go.uber.org/mock:
//
//	ctrl := gomock.NewController(t)
//	exec := vectordb.NewMockExecutor(ctrl)
//	exec.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rows, nil)
package vectordb
