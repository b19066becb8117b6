package expr

import (
	"errors"
	"testing"
)

func pred(col string, op Keyword, v any) []Segment {
	return []Segment{Col(col), op, MustLiteral(v)}
}

func TestMerger_Empty(t *testing.T) {
	m := NewMerger()
	if got := m.Render(); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
	if !m.IsEmpty() {
		t.Error("expected IsEmpty")
	}
}

func TestMerger_ExplicitAnd(t *testing.T) {
	m := NewMerger()
	m.Append(pred("a", Eq, 1)...)
	m.Append(And)
	m.Append(pred("b", Gt, 2)...)

	if got := m.Render(); got != "a == 1 AND b > 2" {
		t.Errorf("got %q", got)
	}
}

func TestMerger_ImplicitAnd(t *testing.T) {
	m := NewMerger()
	m.Append(pred("a", Eq, 1)...)
	m.Append(pred("b", Ne, "x")...)

	if got := m.Render(); got != "a == 1 AND b != 'x'" {
		t.Errorf("got %q", got)
	}
}

func TestMerger_ConnectiveFolding(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Merger)
		want  string
	}{
		{
			name: "leading binary connective is dropped",
			build: func(m *Merger) {
				m.Append(Or)
				m.Append(pred("a", Eq, 1)...)
			},
			want: "a == 1",
		},
		{
			name: "double or folds",
			build: func(m *Merger) {
				m.Append(pred("a", Eq, 1)...)
				m.Append(Or)
				m.Append(Or)
				m.Append(pred("b", Eq, 2)...)
			},
			want: "a == 1 OR b == 2",
		},
		{
			name: "later connective wins",
			build: func(m *Merger) {
				m.Append(pred("a", Eq, 1)...)
				m.Append(And)
				m.Append(Or)
				m.Append(pred("b", Eq, 2)...)
			},
			want: "a == 1 OR b == 2",
		},
		{
			name: "trailing connective is stripped",
			build: func(m *Merger) {
				m.Append(pred("a", Eq, 1)...)
				m.Append(Or)
			},
			want: "a == 1",
		},
		{
			name: "not after predicate gets implicit and",
			build: func(m *Merger) {
				m.Append(pred("a", Eq, 1)...)
				m.Append(Not)
				m.Append(pred("b", Eq, 2)...)
			},
			want: "a == 1 AND NOT b == 2",
		},
		{
			name: "not not folds",
			build: func(m *Merger) {
				m.Append(Not)
				m.Append(Not)
				m.Append(pred("a", Eq, 1)...)
			},
			want: "NOT a == 1",
		},
		{
			name: "binary after not is ignored",
			build: func(m *Merger) {
				m.Append(pred("a", Eq, 1)...)
				m.Append(Or)
				m.Append(Not)
				m.Append(And)
				m.Append(pred("b", Eq, 2)...)
			},
			want: "a == 1 OR NOT b == 2",
		},
		{
			name: "lone not renders nothing",
			build: func(m *Merger) {
				m.Append(Not)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger()
			tt.build(m)
			if got := m.Render(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerger_NoAdjacentConnectives(t *testing.T) {
	m := NewMerger()
	steps := []func(){
		func() { m.Append(And) },
		func() { m.Append(pred("a", Eq, 1)...) },
		func() { m.Append(Or) },
		func() { m.Append(And) },
		func() { m.Append(Not) },
		func() { m.Append(Or) },
		func() { m.Append(pred("b", Eq, 2)...) },
		func() { m.Append(pred("c", Eq, 3)...) },
		func() { m.Append(Or) },
	}
	for _, step := range steps {
		step()
	}

	nodes := m.Nodes()
	if len(nodes) == 0 {
		t.Fatal("expected nodes")
	}
	if _, ok := nodes[0].Connective(); ok && nodes[0].String() != "NOT" {
		t.Errorf("rendering starts with a dangling connective: %q", m.Render())
	}
	for i := 1; i < len(nodes); i++ {
		prev, prevOK := nodes[i-1].Connective()
		cur, curOK := nodes[i].Connective()
		if prevOK && curOK && prev.IsBinary() && cur.IsBinary() {
			t.Errorf("adjacent binary connectives in %q", m.Render())
		}
	}
	if got := m.Render(); got != "a == 1 AND NOT b == 2 AND c == 3" {
		t.Errorf("got %q", got)
	}
}

func TestMerger_Group(t *testing.T) {
	inner := NewMerger()
	inner.Append(pred("a", Eq, 1)...)
	inner.Append(Or)
	inner.Append(pred("b", Eq, 2)...)

	outer := NewMerger()
	outer.Append(pred("c", Lt, 3)...)
	outer.Append(And)
	outer.Append(NewGroup(inner.Render(), inner.Nodes()))

	if got := outer.Render(); got != "c < 3 AND (a == 1 OR b == 2)" {
		t.Errorf("got %q", got)
	}

	g := outer.Nodes()[2].Segments()[0].(Group)
	if len(g.Nodes()) != 3 {
		t.Errorf("expected group to keep 3 nodes, got %d", len(g.Nodes()))
	}
}

func TestMerger_FunctionNodes(t *testing.T) {
	col, err := ColPath("meta", "tags", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, err := NewList([]any{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		segs []Segment
		want string
	}{
		{"json contains with path", []Segment{JSONContains, col, MustLiteral("x")}, "JSON_CONTAINS(meta['tags'][0], 'x')"},
		{"array contains all", []Segment{ArrayContainsAll, Col("tags"), list}, "ARRAY_CONTAINS_ALL(tags, ['a','b'])"},
		{"empty call", []Segment{JSONContainsAny}, "JSON_CONTAINS_ANY()"},
		{"array length", []Segment{ArrayLength, Col("tags"), Eq, MustLiteral(3)}, "ARRAY_LENGTH(tags) == 3"},
		{"raw apply", []Segment{Apply, Raw("x % 2 == 0")}, "x % 2 == 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger()
			m.Append(tt.segs...)
			if got := m.Render(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerger_ClearAndClone(t *testing.T) {
	m := NewMerger()
	m.Append(pred("a", Eq, 1)...)

	c := m.Clone()
	c.Append(pred("b", Eq, 2)...)
	if got := m.Render(); got != "a == 1" {
		t.Errorf("original changed after clone mutation: %q", got)
	}
	if got := c.Render(); got != "a == 1 AND b == 2" {
		t.Errorf("clone: got %q", got)
	}

	m.Clear()
	if got := m.Render(); got != "" {
		t.Errorf("expected empty render after clear, got %q", got)
	}
	m.Append(pred("z", Eq, 0)...)
	if got := m.Render(); got != "z == 0" {
		t.Errorf("spurious connective after clear: %q", got)
	}
}

func TestColPath_InvalidKey(t *testing.T) {
	if _, err := ColPath("meta", 1.5); !errors.Is(err, ErrInvalidKeyPath) {
		t.Errorf("expected ErrInvalidKeyPath, got %v", err)
	}
}

func TestNewParam(t *testing.T) {
	p, err := NewParam("p1", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "{p1}" || p.Type() != LiteralParam || p.Value() != "x" {
		t.Errorf("unexpected param literal: %q %v %v", p.String(), p.Type(), p.Value())
	}

	if _, err := NewParam("p2", []any{1, true}); !errors.Is(err, ErrInvalidLiteral) {
		t.Errorf("expected ErrInvalidLiteral, got %v", err)
	}
}
