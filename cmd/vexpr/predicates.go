package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

// record is the entity type behind CLI queries. Columns are given by name
// and the collection by flag, so it carries no fields.
type record struct{}

type queryWrapper = wrapper.QueryWrapper[record]

// predicateFlags collects the filter flags shared by render and query.
// Predicates are applied in flag order: all --eq, then --ne, and so on.
type predicateFlags struct {
	eq, ne, gt, ge, lt, le []string
	in, notIn              []string
	like                   []string
	jsonContains           []string
	arrayContains          []string
	or                     bool
	template               bool
}

func (p *predicateFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVar(&p.eq, "eq", nil, "column == value (key=value, repeatable)")
	fs.StringArrayVar(&p.ne, "ne", nil, "column != value")
	fs.StringArrayVar(&p.gt, "gt", nil, "column > value")
	fs.StringArrayVar(&p.ge, "ge", nil, "column >= value")
	fs.StringArrayVar(&p.lt, "lt", nil, "column < value")
	fs.StringArrayVar(&p.le, "le", nil, "column <= value")
	fs.StringArrayVar(&p.in, "in", nil, "column IN list (key=a,b,c)")
	fs.StringArrayVar(&p.notIn, "not-in", nil, "column NOT IN list (key=a,b,c)")
	fs.StringArrayVar(&p.like, "like", nil, "column LIKE prefix% (key=prefix)")
	fs.StringArrayVar(&p.jsonContains, "json-contains", nil, "JSON_CONTAINS(column['path'], value) (key.path=value)")
	fs.StringArrayVar(&p.arrayContains, "array-contains", nil, "ARRAY_CONTAINS(column, value)")
	fs.BoolVar(&p.or, "or", false, "join predicates with OR instead of AND")
	fs.BoolVar(&p.template, "template", false, "render values as {pN} placeholders")
}

// options returns the wrapper options the flags ask for.
func (p *predicateFlags) options() []wrapper.Option {
	return []wrapper.Option{wrapper.WithTemplate(p.template)}
}

// apply adds the flag predicates to w.
func (p *predicateFlags) apply(w *queryWrapper) error {
	parsed, err := p.parse()
	if err != nil {
		return err
	}
	return wrapper.Build(w, func(w *queryWrapper) {
		for _, pr := range parsed {
			if p.or {
				w.Or(true)
			}
			pr(w)
		}
	})
}

type predicate func(w *queryWrapper)

func (p *predicateFlags) parse() ([]predicate, error) {
	var out []predicate

	scalar := func(flag string, values []string, add func(w *queryWrapper, col string, v any)) error {
		for _, raw := range values {
			col, value, err := splitPair(flag, raw)
			if err != nil {
				return err
			}
			v := parseValue(value)
			out = append(out, func(w *queryWrapper) { add(w, col, v) })
		}
		return nil
	}
	list := func(flag string, values []string, add func(w *queryWrapper, col string, vs []any)) error {
		for _, raw := range values {
			col, value, err := splitPair(flag, raw)
			if err != nil {
				return err
			}
			vs := parseList(value)
			out = append(out, func(w *queryWrapper) { add(w, col, vs) })
		}
		return nil
	}

	steps := []func() error{
		func() error {
			return scalar("eq", p.eq, func(w *queryWrapper, c string, v any) { w.Eq(true, c, v) })
		},
		func() error {
			return scalar("ne", p.ne, func(w *queryWrapper, c string, v any) { w.Ne(true, c, v) })
		},
		func() error {
			return scalar("gt", p.gt, func(w *queryWrapper, c string, v any) { w.Gt(true, c, v) })
		},
		func() error {
			return scalar("ge", p.ge, func(w *queryWrapper, c string, v any) { w.Ge(true, c, v) })
		},
		func() error {
			return scalar("lt", p.lt, func(w *queryWrapper, c string, v any) { w.Lt(true, c, v) })
		},
		func() error {
			return scalar("le", p.le, func(w *queryWrapper, c string, v any) { w.Le(true, c, v) })
		},
		func() error {
			return list("in", p.in, func(w *queryWrapper, c string, vs []any) { w.In(true, c, vs...) })
		},
		func() error {
			return list("not-in", p.notIn, func(w *queryWrapper, c string, vs []any) { w.NotIn(true, c, vs...) })
		},
		func() error {
			return scalar("like", p.like, func(w *queryWrapper, c string, v any) { w.LikeRight(true, c, v) })
		},
		func() error {
			return scalar("json-contains", p.jsonContains, func(w *queryWrapper, c string, v any) {
				col, path := splitPath(c)
				w.JSONContains(true, col, v, path...)
			})
		},
		func() error {
			return scalar("array-contains", p.arrayContains, func(w *queryWrapper, c string, v any) { w.ArrayContains(true, c, v) })
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func splitPair(flag, raw string) (string, string, error) {
	col, value, ok := strings.Cut(raw, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return "", "", fmt.Errorf("--%s %q: want column=value", flag, raw)
	}
	return col, value, nil
}

// splitPath splits meta.a.b into the column meta and the key path [a b].
func splitPath(s string) (string, []any) {
	parts := strings.Split(s, ".")
	path := make([]any, 0, len(parts)-1)
	for _, p := range parts[1:] {
		path = append(path, p)
	}
	return parts[0], path
}

// parseValue reads integers and floats as numbers and everything else as a
// string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

func parseList(s string) []any {
	if s == "" {
		return []any{}
	}
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, parseValue(strings.TrimSpace(p)))
	}
	return out
}
