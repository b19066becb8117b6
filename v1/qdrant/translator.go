package qdrant

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vexpr/v1/expr"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
)

// Translate compiles the nodes of a rendered filter into a Qdrant filter.
//
// AND binds tighter than OR, and NOT applies to the operand that follows
// it. A single conjunction becomes Must/MustNot conditions; a disjunction
// becomes Should over one sub-filter per conjunction. Groups are compiled
// recursively. An empty node list yields a nil filter, which matches every
// point.
//
// Supported predicates:
//
//	col == v, col != v          match keyword / integer, range for floats
//	col > v (>=, <, <=)         numeric range
//	col IN [..], col NOT IN     match any keyword / integer
//	ARRAY_CONTAINS(col, v)      match on the array field
//	ARRAY_CONTAINS_ANY/ALL      match any / all
//	JSON_CONTAINS*(col['k'], v) as above on the nested key col.k
//	ARRAY_LENGTH(col) == n      values count
//
// LIKE, raw fragments and template placeholders return an error wrapping
// vectordb.ErrUnsupportedExpression.
//
// Example:
//
//	filter, err := qdrant.Translate(wrapper.NewQuery[Doc]().
//	    Eq(true, "tenant", "acme").
//	    Or(true).
//	    In(true, "status", "draft", "review").
//	    Nodes())
//	// Should: [tenant == acme, status in (draft, review)]
func Translate(nodes []expr.Node) (*qdrant.Filter, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	var terms []*qdrant.Filter
	term := &qdrant.Filter{}
	negate := false

	for _, n := range nodes {
		if kw, ok := n.Connective(); ok {
			switch kw {
			case expr.Not:
				negate = !negate
			case expr.Or:
				terms = append(terms, term)
				term = &qdrant.Filter{}
				negate = false
			}
			continue
		}

		cond, negated, err := translatePredicate(n)
		if err != nil {
			return nil, err
		}
		if negated != negate {
			term.MustNot = append(term.MustNot, cond)
		} else {
			term.Must = append(term.Must, cond)
		}
		negate = false
	}
	terms = append(terms, term)

	if len(terms) == 1 {
		return terms[0], nil
	}
	should := make([]*qdrant.Condition, 0, len(terms))
	for _, t := range terms {
		should = append(should, termCondition(t))
	}
	return &qdrant.Filter{Should: should}, nil
}

// termCondition unwraps a conjunction holding a single positive condition.
func termCondition(f *qdrant.Filter) *qdrant.Condition {
	if len(f.Must) == 1 && len(f.MustNot) == 0 {
		return f.Must[0]
	}
	return qdrant.NewFilterAsCondition(f)
}

// translatePredicate returns the condition for one predicate node and
// whether it must be negated.
func translatePredicate(n expr.Node) (*qdrant.Condition, bool, error) {
	segs := n.Segments()
	if len(segs) == 0 {
		return nil, false, unsupported(n, "empty predicate")
	}

	switch first := segs[0].(type) {
	case expr.Group:
		f, err := Translate(first.Nodes())
		if err != nil {
			return nil, false, err
		}
		if f == nil {
			f = &qdrant.Filter{}
		}
		return qdrant.NewFilterAsCondition(f), false, nil

	case expr.Keyword:
		if !first.IsFunction() {
			return nil, false, unsupported(n, "raw expression")
		}
		cond, err := translateFunction(n, first, segs[1:])
		return cond, false, err

	case expr.Column:
		if len(segs) != 3 {
			return nil, false, unsupported(n, "malformed comparison")
		}
		op, ok := segs[1].(expr.Keyword)
		if !ok {
			return nil, false, unsupported(n, "missing operator")
		}
		value, err := literalValue(n, segs[2])
		if err != nil {
			return nil, false, err
		}
		key, err := fieldKey(n, first)
		if err != nil {
			return nil, false, err
		}
		return translateComparison(n, key, op, value)
	}
	return nil, false, unsupported(n, "unknown predicate")
}

func translateComparison(n expr.Node, key string, op expr.Keyword, value any) (*qdrant.Condition, bool, error) {
	switch op {
	case expr.Eq, expr.Ne:
		cond, err := matchValue(n, key, value)
		return cond, op == expr.Ne, err

	case expr.Gt, expr.Ge, expr.Lt, expr.Le:
		f, ok := asFloat(value)
		if !ok {
			return nil, false, unsupported(n, "range on a non-numeric value")
		}
		r := &qdrant.Range{}
		switch op {
		case expr.Gt:
			r.Gt = &f
		case expr.Ge:
			r.Gte = &f
		case expr.Lt:
			r.Lt = &f
		case expr.Le:
			r.Lte = &f
		}
		return qdrant.NewRange(key, r), false, nil

	case expr.In, expr.NotIn:
		list, ok := value.([]any)
		if !ok {
			return nil, false, unsupported(n, "membership on a scalar")
		}
		cond, err := matchAny(n, key, list)
		return cond, op == expr.NotIn, err
	}
	return nil, false, unsupported(n, "operator "+string(op))
}

func translateFunction(n expr.Node, fn expr.Keyword, args []expr.Segment) (*qdrant.Condition, error) {
	if fn == expr.ArrayLength {
		return translateArrayLength(n, args)
	}
	if len(args) != 2 {
		return nil, unsupported(n, "function without arguments")
	}
	col, ok := args[0].(expr.Column)
	if !ok {
		return nil, unsupported(n, "function without column")
	}
	key, err := fieldKey(n, col)
	if err != nil {
		return nil, err
	}
	value, err := literalValue(n, args[1])
	if err != nil {
		return nil, err
	}

	switch fn {
	case expr.JSONContains, expr.ArrayContains:
		return matchValue(n, key, value)

	case expr.JSONContainsAny, expr.ArrayContainsAny:
		list, ok := value.([]any)
		if !ok {
			return nil, unsupported(n, "expected a list")
		}
		return matchAny(n, key, list)

	case expr.JSONContainsAll, expr.ArrayContainsAll:
		list, ok := value.([]any)
		if !ok {
			return nil, unsupported(n, "expected a list")
		}
		all := &qdrant.Filter{Must: make([]*qdrant.Condition, 0, len(list))}
		for _, v := range list {
			cond, err := matchValue(n, key, v)
			if err != nil {
				return nil, err
			}
			all.Must = append(all.Must, cond)
		}
		return qdrant.NewFilterAsCondition(all), nil
	}
	return nil, unsupported(n, "function "+string(fn))
}

// translateArrayLength handles ARRAY_LENGTH(col) == n.
func translateArrayLength(n expr.Node, args []expr.Segment) (*qdrant.Condition, error) {
	if len(args) != 3 {
		return nil, unsupported(n, "malformed ARRAY_LENGTH")
	}
	if op, ok := args[1].(expr.Keyword); !ok || op != expr.Eq {
		return nil, unsupported(n, "ARRAY_LENGTH supports == only")
	}
	col, ok := args[0].(expr.Column)
	if !ok {
		return nil, unsupported(n, "ARRAY_LENGTH without column")
	}
	key, err := fieldKey(n, col)
	if err != nil {
		return nil, err
	}
	value, err := literalValue(n, args[2])
	if err != nil {
		return nil, err
	}
	length, ok := asInt(value)
	if !ok || length < 0 {
		return nil, unsupported(n, "ARRAY_LENGTH needs a non-negative integer")
	}
	count := uint64(length)
	return qdrant.NewValuesCount(key, &qdrant.ValuesCount{Gte: &count, Lte: &count}), nil
}

func matchValue(n expr.Node, key string, value any) (*qdrant.Condition, error) {
	if s, ok := asString(value); ok {
		return qdrant.NewMatchKeyword(key, s), nil
	}
	if i, ok := asInt(value); ok {
		return qdrant.NewMatchInt(key, i), nil
	}
	if f, ok := asFloat(value); ok {
		return qdrant.NewRange(key, &qdrant.Range{Gte: &f, Lte: &f}), nil
	}
	return nil, unsupported(n, fmt.Sprintf("value of type %T", value))
}

func matchAny(n expr.Node, key string, values []any) (*qdrant.Condition, error) {
	var (
		keywords []string
		ints     []int64
	)
	for _, v := range values {
		if s, ok := asString(v); ok {
			keywords = append(keywords, s)
			continue
		}
		if i, ok := asInt(v); ok {
			ints = append(ints, i)
			continue
		}
		return nil, unsupported(n, fmt.Sprintf("list element of type %T", v))
	}
	switch {
	case len(keywords) > 0 && len(ints) > 0:
		return nil, unsupported(n, "mixed keyword and integer list")
	case len(ints) > 0:
		return qdrant.NewMatchInts(key, ints...), nil
	default:
		return qdrant.NewMatchKeywords(key, keywords...), nil
	}
}

// fieldKey renders a column with its key path as a Qdrant payload key,
// e.g. meta['a']['b'] as meta.a.b.
func fieldKey(n expr.Node, col expr.Column) (string, error) {
	key := col.Name()
	for _, p := range col.Path() {
		s, ok := asString(p)
		if !ok {
			return "", unsupported(n, "array index in key path")
		}
		key += "." + s
	}
	return key, nil
}

func literalValue(n expr.Node, seg expr.Segment) (any, error) {
	lit, ok := seg.(expr.Literal)
	if !ok {
		return nil, unsupported(n, "expected a literal")
	}
	switch lit.Type() {
	case expr.LiteralParam:
		return nil, unsupported(n, "placeholder "+lit.String())
	case expr.LiteralRaw:
		return nil, unsupported(n, "raw literal")
	}
	return lit.Value(), nil
}

func unsupported(n expr.Node, reason string) error {
	return fmt.Errorf("%w: %s in %q", vectordb.ErrUnsupportedExpression, reason, n.String())
}

func asString(v any) (string, bool) {
	if _, ok := v.(json.Number); ok {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func asInt(v any) (int64, bool) {
	if n, ok := v.(json.Number); ok {
		i, err := n.Int64()
		return i, err == nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64) {
		return rv.Float(), true
	}
	return 0, false
}
