// Package wrapper provides fluent, type-safe builders for vector-database
// filter expressions.
//
// Two flavours share one implementation. QueryWrapper takes column names as
// strings; LambdaQueryWrapper takes typed column tokens from the schema
// package, so renaming a struct field cannot silently break a filter:
//
//	type Document struct {
//	    ID     int64  `milvus:"primary"`
//	    Status string
//	    Age    int64
//	    Tags   []string
//	}
//
//	status := schema.Field(func(d *Document) any { return &d.Status })
//	age := schema.Field(func(d *Document) any { return &d.Age })
//
//	q := wrapper.NewLambdaQuery[Document]().
//	    Eq(true, status, "published").
//	    Or(true, func(n *wrapper.LambdaQueryWrapper[Document]) {
//	        n.Gt(true, age, 18).Lt(true, age, 65)
//	    })
//	q.Expr() // status == 'published' OR (age > 18 AND age < 65)
//
// Every predicate method takes a leading condition flag. When it is false
// the call is a no-op, which keeps optional filters inline:
//
//	q.Eq(tenant != "", "tenant", tenant)
//
// Consecutive predicates are joined with AND. Or replaces a pending AND,
// Not negates the next predicate, and connectives with nothing to join are
// dropped, so the rendered expression is always well formed.
//
// With WithTemplate(true) literal values are rendered as {p1}, {p2}, ...
// placeholders and returned by Params, for backends that bind expression
// parameters separately.
//
// Request turns a builder into a vectordb.QueryRequest that any
// vectordb.Executor can run.
//
// Builders are not safe for concurrent mutation. Clone returns an
// independent copy.
package wrapper
