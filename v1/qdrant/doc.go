// Package qdrant runs filter queries built with the wrapper package against
// a Qdrant server.
//
// Qdrant has no textual filter language, so the adapter compiles the
// rendered expression nodes into a structured filter with [Translate] and
// sends it as a vectorless query. Matching points come back ordered by ID:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{
//	    Config: qdrant.FromEndpoint("localhost"),
//	    Logger: log,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	adapter := qdrant.NewAdapter(client)
//	req, err := wrapper.NewQuery[Article]().
//	    Eq(true, "author", "ada").
//	    Gt(true, "year", 2020).
//	    Request()
//	rows, err := adapter.Query(ctx, req)
//
// Request fields map as follows:
//
//   - ConsistencyLevel: Strong reads all replicas, Session and Bounded a
//     majority, Customized a quorum, Eventually the server default.
//   - PartitionNames: shard keys of a custom-sharded collection.
//   - OutputFields: the payload include list.
//   - Limit and Offset: query paging. A zero limit uses the server default.
//
// LIKE patterns, raw fragments and template placeholders have no Qdrant
// equivalent and fail with vectordb.ErrUnsupportedExpression.
//
// [Adapter.EnsureCollection] and [UpsertEntities] create and fill a
// collection from a schema definition, which is mainly useful for tests
// and local setups.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    qdrant.FXModule,
//	    fx.Supply(qdrant.FromEndpoint("localhost")),
//	)
package qdrant
