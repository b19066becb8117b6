package expr

import (
	"strings"
)

// Kind identifies the variant of a Segment.
type Kind int

const (
	KindColumn Kind = iota
	KindKeyword
	KindLiteral
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindKeyword:
		return "keyword"
	case KindLiteral:
		return "literal"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Segment is one immutable fragment of a filter expression.
type Segment interface {
	Kind() Kind
	String() string
}

// Column references a field, optionally descending into a JSON value
// through a key path.
type Column struct {
	name string
	path []any
	text string
}

// Col returns a column reference without a key path.
func Col(name string) Column {
	return Column{name: name, text: name}
}

// ColPath returns a column reference that descends into a JSON field. Each
// key is a string or an integer index and is rendered bracketed, for example
// meta['tags'][0].
func ColPath(name string, path ...any) (Column, error) {
	if len(path) == 0 {
		return Col(name), nil
	}
	var sb strings.Builder
	sb.WriteString(name)
	for _, k := range path {
		s, err := formatKey(k)
		if err != nil {
			return Column{}, err
		}
		sb.WriteString(s)
	}
	return Column{name: name, path: append([]any(nil), path...), text: sb.String()}, nil
}

func (c Column) Kind() Kind { return KindColumn }

func (c Column) String() string { return c.text }

// Name returns the column name without the key path.
func (c Column) Name() string { return c.name }

// Path returns a copy of the JSON key path.
func (c Column) Path() []any { return append([]any(nil), c.path...) }

// LiteralType tells how a Literal was produced.
type LiteralType int

const (
	// LiteralScalar is a single string or number.
	LiteralScalar LiteralType = iota
	// LiteralList is a bracketed list of scalars.
	LiteralList
	// LiteralRaw is caller-supplied text rendered as-is.
	LiteralRaw
	// LiteralParam is a named placeholder whose value is bound out of band.
	LiteralParam
)

// Literal is a formatted value. Its text is computed once at construction.
type Literal struct {
	typ   LiteralType
	text  string
	value any
	name  string
}

// NewLiteral formats a string or numeric scalar.
func NewLiteral(v any) (Literal, error) {
	s, err := FormatParam(v)
	if err != nil {
		return Literal{}, err
	}
	return Literal{typ: LiteralScalar, text: s, value: v}, nil
}

// MustLiteral is like NewLiteral but panics on an invalid value.
func MustLiteral(v any) Literal {
	l, err := NewLiteral(v)
	if err != nil {
		panic(err)
	}
	return l
}

// NewList formats a list literal. An empty list renders as [].
func NewList(values []any) (Literal, error) {
	s, err := FormatList(values)
	if err != nil {
		return Literal{}, err
	}
	return Literal{typ: LiteralList, text: s, value: append([]any{}, values...)}, nil
}

// Raw wraps pre-rendered text.
func Raw(text string) Literal {
	return Literal{typ: LiteralRaw, text: text, value: text}
}

// NewParam returns a placeholder literal rendered as {name}. The bound value
// must be a valid scalar or a []any of valid scalars.
func NewParam(name string, v any) (Literal, error) {
	if list, ok := v.([]any); ok {
		if _, err := FormatList(list); err != nil {
			return Literal{}, err
		}
		v = append([]any{}, list...)
	} else if _, err := FormatParam(v); err != nil {
		return Literal{}, err
	}
	return Literal{typ: LiteralParam, text: "{" + name + "}", value: v, name: name}, nil
}

func (l Literal) Kind() Kind { return KindLiteral }

func (l Literal) String() string { return l.text }

// Type returns how the literal was produced.
func (l Literal) Type() LiteralType { return l.typ }

// Value returns the Go value behind the literal. Lists are returned as []any.
func (l Literal) Value() any {
	if list, ok := l.value.([]any); ok {
		return append([]any{}, list...)
	}
	return l.value
}

// ParamName returns the placeholder name of a LiteralParam.
func (l Literal) ParamName() string { return l.name }

// Group is a nested sub-expression. It carries both the rendered text and
// the nodes it was rendered from.
type Group struct {
	text  string
	nodes []Node
}

// NewGroup wraps a rendered sub-expression.
func NewGroup(text string, nodes []Node) Group {
	return Group{text: text, nodes: cloneNodes(nodes)}
}

func (g Group) Kind() Kind { return KindGroup }

func (g Group) String() string { return "(" + g.text + ")" }

// Text returns the sub-expression without parentheses.
func (g Group) Text() string { return g.text }

// Nodes returns a copy of the nested nodes.
func (g Group) Nodes() []Node { return cloneNodes(g.nodes) }
