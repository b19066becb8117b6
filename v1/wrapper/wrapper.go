package wrapper

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/vexpr/v1/expr"
	"github.com/Aleph-Alpha/vexpr/v1/schema"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
)

// DefaultLimit is the row limit of a new builder.
const DefaultLimit int64 = 10

// Wrapper is a fluent filter builder for entity type T with column
// references of type R. Every mutator takes a leading condition flag: when
// it is false the call does nothing and returns the same builder.
//
// A Wrapper belongs to a single caller and must not be mutated from several
// goroutines. Use Clone to hand an independent copy to another goroutine.
type Wrapper[T any, R any] struct {
	entity       *T
	entityType   reflect.Type
	resolve      func(R) (string, error)
	registry     *schema.Registry
	merger       *expr.Merger
	params       *binding
	template     bool
	collection   string
	consistency  vectordb.ConsistencyLevel
	partitions   []string
	outputFields []string
	limit        int64
	offset       int64
}

// QueryWrapper references columns by plain name.
type QueryWrapper[T any] = Wrapper[T, string]

// LambdaQueryWrapper references columns through typed schema tokens.
type LambdaQueryWrapper[T any] = Wrapper[T, schema.Column[T]]

// NewQuery returns a builder that takes column names as strings.
//
// Example:
//
//	q := wrapper.NewQuery[Document]().
//	    Eq(true, "status", "published").
//	    Gt(age > 0, "age", age)
//	q.Expr() // status == 'published' AND age > 18
func NewQuery[T any](opts ...Option) *QueryWrapper[T] {
	o := newOptions(opts)
	return newWrapper[T](o, func(name string) (string, error) {
		if strings.TrimSpace(name) == "" {
			return "", ErrEmptyColumn
		}
		return name, nil
	})
}

// NewLambdaQuery returns a builder that takes typed column tokens, resolved
// through the registry given with WithRegistry or schema.Default.
//
// Example:
//
//	title := schema.Field(func(d *Document) any { return &d.Title })
//	q := wrapper.NewLambdaQuery[Document]().LikeRight(true, title, "intro")
//	q.Expr() // title LIKE 'intro%'
func NewLambdaQuery[T any](opts ...Option) *LambdaQueryWrapper[T] {
	o := newOptions(opts)
	registry := o.registry
	return newWrapper[T](o, func(c schema.Column[T]) (string, error) {
		return schema.Resolve(registry, c)
	})
}

func newWrapper[T any, R any](o options, resolve func(R) (string, error)) *Wrapper[T, R] {
	return &Wrapper[T, R]{
		resolve:    resolve,
		registry:   o.registry,
		merger:     expr.NewMerger(),
		params:     newBinding(),
		template:   o.template,
		collection: o.collection,
		partitions: []string{},
		limit:      DefaultLimit,
	}
}

// instance returns a fresh builder for a nested group. It shares the entity
// binding, resolver and parameter binding but starts with an empty merger.
func (w *Wrapper[T, R]) instance() *Wrapper[T, R] {
	return &Wrapper[T, R]{
		entity:     w.entity,
		entityType: w.entityType,
		resolve:    w.resolve,
		registry:   w.registry,
		merger:     expr.NewMerger(),
		params:     w.params,
		template:   w.template,
		limit:      DefaultLimit,
	}
}

// ── Comparisons ──────────────────────────────────────────────────────────────

// Eq appends `column == value`.
func (w *Wrapper[T, R]) Eq(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Eq", expr.Eq, column, value)
}

// Ne appends `column != value`.
func (w *Wrapper[T, R]) Ne(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Ne", expr.Ne, column, value)
}

// Gt appends `column > value`.
func (w *Wrapper[T, R]) Gt(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Gt", expr.Gt, column, value)
}

// Ge appends `column >= value`.
func (w *Wrapper[T, R]) Ge(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Ge", expr.Ge, column, value)
}

// Lt appends `column < value`.
func (w *Wrapper[T, R]) Lt(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Lt", expr.Lt, column, value)
}

// Le appends `column <= value`.
func (w *Wrapper[T, R]) Le(condition bool, column R, value any) *Wrapper[T, R] {
	return w.compare(condition, "Le", expr.Le, column, value)
}

func (w *Wrapper[T, R]) compare(condition bool, op string, kw expr.Keyword, column R, value any) *Wrapper[T, R] {
	if !condition {
		return w
	}
	col := w.column(op, column)
	w.merger.Append(col, kw, w.literal(op, value))
	return w
}

// ── Pattern matching ─────────────────────────────────────────────────────────

// Like appends `column LIKE '%value%'`.
func (w *Wrapper[T, R]) Like(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "Like", expr.Like, column, value, expr.MatchContains)
}

// NotLike appends `column NOT LIKE '%value%'`.
func (w *Wrapper[T, R]) NotLike(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "NotLike", expr.NotLike, column, value, expr.MatchContains)
}

// LikeLeft appends `column LIKE '%value'`.
func (w *Wrapper[T, R]) LikeLeft(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "LikeLeft", expr.Like, column, value, expr.MatchLeft)
}

// NotLikeLeft appends `column NOT LIKE '%value'`.
func (w *Wrapper[T, R]) NotLikeLeft(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "NotLikeLeft", expr.NotLike, column, value, expr.MatchLeft)
}

// LikeRight appends `column LIKE 'value%'`, a prefix match.
func (w *Wrapper[T, R]) LikeRight(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "LikeRight", expr.Like, column, value, expr.MatchRight)
}

// NotLikeRight appends `column NOT LIKE 'value%'`.
func (w *Wrapper[T, R]) NotLikeRight(condition bool, column R, value any) *Wrapper[T, R] {
	return w.like(condition, "NotLikeRight", expr.NotLike, column, value, expr.MatchRight)
}

func (w *Wrapper[T, R]) like(condition bool, op string, kw expr.Keyword, column R, value any, mode expr.MatchMode) *Wrapper[T, R] {
	if !condition {
		return w
	}
	pattern, err := expr.ConcatLike(value, mode)
	if err != nil {
		fail(op, err)
	}
	col := w.column(op, column)
	w.merger.Append(col, kw, w.literal(op, pattern))
	return w
}

// ── Boolean grouping ─────────────────────────────────────────────────────────

// And joins the next predicate with AND. With nested functions it builds
// them into a fresh builder and appends `AND (...)`. A nested group that
// stays empty appends nothing.
//
// Example:
//
//	q.Eq(true, "a", 1).And(true, func(n *wrapper.QueryWrapper[Doc]) {
//	    n.Eq(true, "b", 2).Or(true).Eq(true, "c", 3)
//	})
//	// a == 1 AND (b == 2 OR c == 3)
func (w *Wrapper[T, R]) And(condition bool, nested ...func(*Wrapper[T, R])) *Wrapper[T, R] {
	return w.connect(condition, expr.And, nested)
}

// Or joins the next predicate with OR, or appends `OR (...)` for nested
// functions. Or replaces a pending AND.
func (w *Wrapper[T, R]) Or(condition bool, nested ...func(*Wrapper[T, R])) *Wrapper[T, R] {
	return w.connect(condition, expr.Or, nested)
}

// Not negates the next predicate, or appends `NOT (...)` for nested
// functions.
func (w *Wrapper[T, R]) Not(condition bool, nested ...func(*Wrapper[T, R])) *Wrapper[T, R] {
	return w.connect(condition, expr.Not, nested)
}

func (w *Wrapper[T, R]) connect(condition bool, kw expr.Keyword, nested []func(*Wrapper[T, R])) *Wrapper[T, R] {
	if !condition {
		return w
	}
	if len(nested) == 0 {
		w.merger.Append(kw)
		return w
	}

	child := w.instance()
	for _, fn := range nested {
		if fn != nil {
			fn(child)
		}
	}
	if child.merger.IsEmpty() {
		return w
	}
	group := expr.NewGroup(child.merger.Render(), child.merger.Nodes())
	w.merger.Append(kw)
	w.merger.Append(group)
	return w
}

// Func applies fn to this builder. It is meant for reusable fragments.
func (w *Wrapper[T, R]) Func(condition bool, fn func(*Wrapper[T, R])) *Wrapper[T, R] {
	if condition && fn != nil {
		fn(w)
	}
	return w
}

// Apply appends a raw expression. Placeholders {0}, {1}, ... are replaced
// by the literal form of values, stopping at the first index missing from
// the template; later placeholders stay verbatim. Template values are always
// inlined, even in template mode.
func (w *Wrapper[T, R]) Apply(condition bool, template string, values ...any) *Wrapper[T, R] {
	if !condition {
		return w
	}
	text, err := expr.FormatTemplate(template, values...)
	if err != nil {
		fail("Apply", err)
	}
	if text == "" {
		return w
	}
	w.merger.Append(expr.Apply, expr.Raw(text))
	return w
}

// ── Membership ───────────────────────────────────────────────────────────────

// In appends `column IN [v1,v2]`. A single slice argument is expanded. An
// empty list renders `column IN []`.
func (w *Wrapper[T, R]) In(condition bool, column R, values ...any) *Wrapper[T, R] {
	return w.membership(condition, "In", expr.In, column, values)
}

// NotIn appends `column NOT IN [v1,v2]`.
func (w *Wrapper[T, R]) NotIn(condition bool, column R, values ...any) *Wrapper[T, R] {
	return w.membership(condition, "NotIn", expr.NotIn, column, values)
}

func (w *Wrapper[T, R]) membership(condition bool, op string, kw expr.Keyword, column R, values []any) *Wrapper[T, R] {
	if !condition {
		return w
	}
	if len(values) == 1 {
		values = expr.ToAnySlice(values[0])
	}
	col := w.column(op, column)
	w.merger.Append(col, kw, w.list(op, values))
	return w
}

// ── JSON and array predicates ────────────────────────────────────────────────

// JSONContains appends `JSON_CONTAINS(column['k'], value)`. A nil or empty
// string value renders `JSON_CONTAINS()`.
func (w *Wrapper[T, R]) JSONContains(condition bool, column R, value any, path ...any) *Wrapper[T, R] {
	return w.call(condition, "JSONContains", expr.JSONContains, column, path, value, false)
}

// JSONContainsAll appends `JSON_CONTAINS_ALL(column['k'], [v1,v2])`. values
// is a slice; an empty one renders `JSON_CONTAINS_ALL()`.
func (w *Wrapper[T, R]) JSONContainsAll(condition bool, column R, values any, path ...any) *Wrapper[T, R] {
	return w.call(condition, "JSONContainsAll", expr.JSONContainsAll, column, path, values, true)
}

// JSONContainsAny appends `JSON_CONTAINS_ANY(column['k'], [v1,v2])`.
func (w *Wrapper[T, R]) JSONContainsAny(condition bool, column R, values any, path ...any) *Wrapper[T, R] {
	return w.call(condition, "JSONContainsAny", expr.JSONContainsAny, column, path, values, true)
}

// ArrayContains appends `ARRAY_CONTAINS(column, value)`.
func (w *Wrapper[T, R]) ArrayContains(condition bool, column R, value any) *Wrapper[T, R] {
	return w.call(condition, "ArrayContains", expr.ArrayContains, column, nil, value, false)
}

// ArrayContainsAll appends `ARRAY_CONTAINS_ALL(column, [v1,v2])`.
func (w *Wrapper[T, R]) ArrayContainsAll(condition bool, column R, values any) *Wrapper[T, R] {
	return w.call(condition, "ArrayContainsAll", expr.ArrayContainsAll, column, nil, values, true)
}

// ArrayContainsAny appends `ARRAY_CONTAINS_ANY(column, [v1,v2])`.
func (w *Wrapper[T, R]) ArrayContainsAny(condition bool, column R, values any) *Wrapper[T, R] {
	return w.call(condition, "ArrayContainsAny", expr.ArrayContainsAny, column, nil, values, true)
}

// ArrayLength appends `ARRAY_LENGTH(column) == n`. n must be numeric.
func (w *Wrapper[T, R]) ArrayLength(condition bool, column R, n any) *Wrapper[T, R] {
	if !condition {
		return w
	}
	if !expr.IsNumeric(n) {
		fail("ArrayLength", &expr.LiteralError{Value: n})
	}
	col := w.column("ArrayLength", column)
	w.merger.Append(expr.ArrayLength, col, expr.Eq, w.literal("ArrayLength", n))
	return w
}

func (w *Wrapper[T, R]) call(condition bool, op string, fn expr.Keyword, column R, path []any, value any, list bool) *Wrapper[T, R] {
	if !condition {
		return w
	}
	if isEmptyArgument(value, list) {
		w.merger.Append(fn)
		return w
	}
	col := w.column(op, column, path...)
	var lit expr.Segment
	if list {
		lit = w.list(op, expr.ToAnySlice(value))
	} else {
		lit = w.literal(op, value)
	}
	w.merger.Append(fn, col, lit)
	return w
}

func isEmptyArgument(value any, list bool) bool {
	if list {
		return len(expr.ToAnySlice(value)) == 0
	}
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return len(expr.ToAnySlice(value)) == 0
	}
	return false
}

// ── Columns and literals ─────────────────────────────────────────────────────

func (w *Wrapper[T, R]) column(op string, ref R, path ...any) expr.Column {
	name, err := w.resolve(ref)
	if err != nil {
		fail(op, err)
	}
	col, err := expr.ColPath(name, path...)
	if err != nil {
		fail(op, err)
	}
	return col
}

func (w *Wrapper[T, R]) literal(op string, value any) expr.Segment {
	if w.template {
		l, err := expr.NewParam(w.params.next(), value)
		if err != nil {
			fail(op, err)
		}
		w.params.bind(l.ParamName(), l.Value())
		return l
	}
	l, err := expr.NewLiteral(value)
	if err != nil {
		fail(op, err)
	}
	return l
}

func (w *Wrapper[T, R]) list(op string, values []any) expr.Segment {
	if w.template {
		l, err := expr.NewParam(w.params.next(), values)
		if err != nil {
			fail(op, err)
		}
		w.params.bind(l.ParamName(), l.Value())
		return l
	}
	l, err := expr.NewList(values)
	if err != nil {
		fail(op, err)
	}
	return l
}

// ── Entity binding and query options ─────────────────────────────────────────

// Entity returns the bound entity, if any.
func (w *Wrapper[T, R]) Entity() *T {
	return w.entity
}

// SetEntity binds an entity. The entity is only used to derive the entity
// type and is never modified.
func (w *Wrapper[T, R]) SetEntity(entity *T) *Wrapper[T, R] {
	w.entity = entity
	return w
}

// EntityType returns the type used for schema lookups: the type set with
// SetEntityType, else the dynamic type of the bound entity, else T.
func (w *Wrapper[T, R]) EntityType() reflect.Type {
	if w.entityType == nil && w.entity != nil {
		v := reflect.ValueOf(w.entity).Elem()
		if v.Kind() == reflect.Interface && !v.IsNil() {
			v = v.Elem()
		}
		w.entityType = v.Type()
	}
	if w.entityType != nil {
		return w.entityType
	}
	return reflect.TypeFor[T]()
}

// SetEntityType overrides the entity type. A nil type is ignored.
func (w *Wrapper[T, R]) SetEntityType(t reflect.Type) *Wrapper[T, R] {
	if t != nil {
		w.entityType = t
	}
	return w
}

// ConsistencyLevel returns the requested read consistency.
func (w *Wrapper[T, R]) ConsistencyLevel() vectordb.ConsistencyLevel {
	return w.consistency
}

// SetConsistencyLevel sets the requested read consistency.
func (w *Wrapper[T, R]) SetConsistencyLevel(level vectordb.ConsistencyLevel) *Wrapper[T, R] {
	w.consistency = level
	return w
}

// PartitionNames returns a copy of the partitions the query is limited to.
func (w *Wrapper[T, R]) PartitionNames() []string {
	return slices.Clone(w.partitions)
}

// SetPartitionNames limits the query to the given partitions, in order. A
// nil or empty list means all partitions.
func (w *Wrapper[T, R]) SetPartitionNames(names []string) *Wrapper[T, R] {
	w.partitions = append([]string{}, names...)
	return w
}

// Collection sets the target collection. Without it the collection name
// is taken from the schema registry.
func (w *Wrapper[T, R]) Collection(name string) *Wrapper[T, R] {
	w.collection = name
	return w
}

// Limit sets the maximum number of rows. The default is DefaultLimit.
func (w *Wrapper[T, R]) Limit(n int64) *Wrapper[T, R] {
	w.limit = n
	return w
}

// Offset sets the number of rows to skip.
func (w *Wrapper[T, R]) Offset(n int64) *Wrapper[T, R] {
	w.offset = n
	return w
}

// Select adds output fields. Duplicates are dropped, order is kept.
func (w *Wrapper[T, R]) Select(columns ...R) *Wrapper[T, R] {
	for _, c := range columns {
		name := w.column("Select", c).String()
		if !slices.Contains(w.outputFields, name) {
			w.outputFields = append(w.outputFields, name)
		}
	}
	return w
}

// OutputFields returns a copy of the selected output fields.
func (w *Wrapper[T, R]) OutputFields() []string {
	return slices.Clone(w.outputFields)
}

// ParamSeq returns the number of parameter names issued so far.
func (w *Wrapper[T, R]) ParamSeq() int {
	return w.params.seq
}

// Params returns a copy of the values bound to placeholders in template mode.
func (w *Wrapper[T, R]) Params() map[string]any {
	return w.params.snapshot()
}

// ── Rendering and lifecycle ──────────────────────────────────────────────────

// Expr renders the filter expression. An empty builder renders "".
func (w *Wrapper[T, R]) Expr() string {
	return w.merger.Render()
}

func (w *Wrapper[T, R]) String() string {
	return w.Expr()
}

// Nodes returns the structured form of the expression.
func (w *Wrapper[T, R]) Nodes() []expr.Node {
	return w.merger.Nodes()
}

// Clear resets the entity binding, the parameter counter and the
// expression in place. The entity type and query options are kept.
func (w *Wrapper[T, R]) Clear() *Wrapper[T, R] {
	w.entity = nil
	w.params.reset()
	w.merger.Clear()
	return w
}

// Clone returns a deep copy that shares no mutable state with w.
func (w *Wrapper[T, R]) Clone() *Wrapper[T, R] {
	c := *w
	c.merger = w.merger.Clone()
	c.params = w.params.clone()
	c.partitions = slices.Clone(w.partitions)
	c.outputFields = slices.Clone(w.outputFields)
	if w.entity != nil {
		e := *w.entity
		c.entity = &e
	}
	return &c
}

// Request renders the builder into a query request. The collection name
// falls back to the registered definition of the entity type, which also
// supplies the scalar columns as default output fields.
func (w *Wrapper[T, R]) Request() (vectordb.QueryRequest, error) {
	req := vectordb.QueryRequest{
		Collection:       w.collection,
		Expr:             w.Expr(),
		Filter:           w.Nodes(),
		ConsistencyLevel: w.consistency,
		PartitionNames:   w.PartitionNames(),
		OutputFields:     w.OutputFields(),
		Limit:            w.limit,
		Offset:           w.offset,
	}
	if w.template {
		req.Params = w.Params()
	}

	if req.Collection == "" {
		def, err := w.registry.Collection(w.EntityType())
		if err != nil {
			return req, fmt.Errorf("resolve collection of %s: %w", w.EntityType(), err)
		}
		req.Collection = def.Name
		if len(req.OutputFields) == 0 {
			req.OutputFields = def.ScalarColumnNames()
		}
	}
	return req, req.Validate()
}

// binding issues placeholder names and keeps their values. Nested builders
// share the binding of their parent.
type binding struct {
	seq    int
	values map[string]any
}

func newBinding() *binding {
	return &binding{values: make(map[string]any)}
}

func (b *binding) next() string {
	b.seq++
	return "p" + strconv.Itoa(b.seq)
}

func (b *binding) bind(name string, value any) {
	b.values[name] = value
}

func (b *binding) reset() {
	b.seq = 0
	clear(b.values)
}

func (b *binding) snapshot() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		if list, ok := v.([]any); ok {
			v = slices.Clone(list)
		}
		out[k] = v
	}
	return out
}

func (b *binding) clone() *binding {
	return &binding{seq: b.seq, values: b.snapshot()}
}
