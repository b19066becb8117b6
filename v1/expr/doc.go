// Package expr implements the expression-construction engine behind the
// condition builders in package wrapper.
//
// A filter expression is assembled from immutable Segments (columns,
// keywords, literals and pre-rendered groups). Segments are pushed into a
// Merger one unit at a time: either a predicate (for example `age > 18`) or a
// boolean connective (AND, OR, NOT). The Merger owns the placement rules for
// connectives and renders the accumulated units into the linear textual form
// accepted by Milvus-style query APIs:
//
//	m := expr.NewMerger()
//	m.Append(expr.Col("age"), expr.Gt, expr.MustLiteral(18))
//	m.Append(expr.Or)
//	m.Append(expr.Col("name"), expr.Eq, expr.MustLiteral("bob"))
//	m.Render() // age > 18 OR name == 'bob'
//
// Connective rules:
//
//   - a predicate following another predicate is joined with an implicit AND
//   - a binary connective on an empty merger is dropped
//   - two binary connectives in a row fold into one, the later one wins
//   - a binary connective directly after NOT is ignored
//   - NOT after a predicate gets an implicit AND in front, NOT after NOT folds
//   - trailing connectives are never rendered
//
// Literal formatting is strict: strings are single-quoted as-is and numbers
// are rendered unquoted. Any other value fails with ErrInvalidLiteral.
//
// Merger is not safe for concurrent mutation. Segments are immutable and may
// be shared freely.
package expr
