// Package query executes rendered filter queries.
//
// Service sits between the builders of the wrapper package and a
// vectordb.Executor. It validates requests, bounds them with a timeout,
// records vexpr_* metrics, opens a span per query and logs the outcome with
// a request ID.
//
//	svc := query.NewService(query.ServiceParams{
//	    Config:   query.DefaultConfig(),
//	    Executor: adapter,
//	    Logger:   log,
//	})
//
//	rows, err := query.Run(ctx, svc, wrapper.NewQuery[Document]().
//	    Eq(true, "tenant", tenant).
//	    In(true, "status", "draft", "published"))
//
// QueryAll fans a batch of requests out over a bounded number of goroutines
// and returns the results in request order.
package query
