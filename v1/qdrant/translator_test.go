package qdrant

import (
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
	"github.com/Aleph-Alpha/vexpr/v1/wrapper"
)

type Book struct {
	ID     int64  `milvus:"primary"`
	Title  string `milvus:"index"`
	Author string `milvus:"index"`
	Year   int64  `milvus:"index"`
	Rating float64
	Tags   []string
	Meta   map[string]any
	Vector []float32 `milvus:"dim:4,metric:COSINE"`
}

type Q = wrapper.QueryWrapper[Book]

func ptr[T any](v T) *T { return &v }

func assertFilter(t *testing.T, want, got *qdrant.Filter) {
	t.Helper()
	assert.Truef(t, proto.Equal(want, got), "want %v\ngot  %v", want, got)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *Q)
		want  *qdrant.Filter
	}{
		{
			name:  "empty",
			build: func(q *Q) {},
			want:  nil,
		},
		{
			name:  "conjunction",
			build: func(q *Q) { q.Eq(true, "author", "ada").Eq(true, "year", 1843) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewMatchKeyword("author", "ada"),
				qdrant.NewMatchInt("year", 1843),
			}},
		},
		{
			name:  "not equal",
			build: func(q *Q) { q.Ne(true, "author", "ada") },
			want:  &qdrant.Filter{MustNot: []*qdrant.Condition{qdrant.NewMatchKeyword("author", "ada")}},
		},
		{
			name:  "not of not equal",
			build: func(q *Q) { q.Not(true).Ne(true, "author", "ada") },
			want:  &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewMatchKeyword("author", "ada")}},
		},
		{
			name:  "ranges",
			build: func(q *Q) { q.Gt(true, "year", 1900).Le(true, "rating", 4.5) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewRange("year", &qdrant.Range{Gt: ptr(1900.0)}),
				qdrant.NewRange("rating", &qdrant.Range{Lte: ptr(4.5)}),
			}},
		},
		{
			name:  "float equality",
			build: func(q *Q) { q.Eq(true, "rating", 4.5) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewRange("rating", &qdrant.Range{Gte: ptr(4.5), Lte: ptr(4.5)}),
			}},
		},
		{
			name:  "in and not in",
			build: func(q *Q) { q.In(true, "author", "ada", "alan").NotIn(true, "year", 1, 2) },
			want: &qdrant.Filter{
				Must:    []*qdrant.Condition{qdrant.NewMatchKeywords("author", "ada", "alan")},
				MustNot: []*qdrant.Condition{qdrant.NewMatchInts("year", 1, 2)},
			},
		},
		{
			name:  "disjunction",
			build: func(q *Q) { q.Eq(true, "author", "ada").Or(true).Ne(true, "title", "x") },
			want: &qdrant.Filter{Should: []*qdrant.Condition{
				qdrant.NewMatchKeyword("author", "ada"),
				qdrant.NewFilterAsCondition(&qdrant.Filter{MustNot: []*qdrant.Condition{qdrant.NewMatchKeyword("title", "x")}}),
			}},
		},
		{
			name: "and binds tighter than or",
			build: func(q *Q) {
				q.Eq(true, "author", "ada").Gt(true, "year", 1800).Or(true).Eq(true, "author", "alan")
			},
			want: &qdrant.Filter{Should: []*qdrant.Condition{
				qdrant.NewFilterAsCondition(&qdrant.Filter{Must: []*qdrant.Condition{
					qdrant.NewMatchKeyword("author", "ada"),
					qdrant.NewRange("year", &qdrant.Range{Gt: ptr(1800.0)}),
				}}),
				qdrant.NewMatchKeyword("author", "alan"),
			}},
		},
		{
			name: "nested groups",
			build: func(q *Q) {
				q.Eq(true, "author", "ada").
					Not(true, func(n *Q) { n.Eq(true, "year", 1).Or(true).Eq(true, "year", 2) })
			},
			want: &qdrant.Filter{
				Must: []*qdrant.Condition{qdrant.NewMatchKeyword("author", "ada")},
				MustNot: []*qdrant.Condition{qdrant.NewFilterAsCondition(&qdrant.Filter{Should: []*qdrant.Condition{
					qdrant.NewMatchInt("year", 1),
					qdrant.NewMatchInt("year", 2),
				}})},
			},
		},
		{
			name:  "array functions",
			build: func(q *Q) { q.ArrayContains(true, "tags", "go").ArrayContainsAny(true, "tags", []string{"a", "b"}) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewMatchKeyword("tags", "go"),
				qdrant.NewMatchKeywords("tags", "a", "b"),
			}},
		},
		{
			name:  "contains all",
			build: func(q *Q) { q.ArrayContainsAll(true, "tags", []string{"a", "b"}) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewFilterAsCondition(&qdrant.Filter{Must: []*qdrant.Condition{
					qdrant.NewMatchKeyword("tags", "a"),
					qdrant.NewMatchKeyword("tags", "b"),
				}}),
			}},
		},
		{
			name:  "json path",
			build: func(q *Q) { q.JSONContains(true, "meta", "x", "labels", "primary") },
			want:  &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewMatchKeyword("meta.labels.primary", "x")}},
		},
		{
			name:  "array length",
			build: func(q *Q) { q.ArrayLength(true, "tags", 2) },
			want: &qdrant.Filter{Must: []*qdrant.Condition{
				qdrant.NewValuesCount("tags", &qdrant.ValuesCount{Gte: ptr(uint64(2)), Lte: ptr(uint64(2))}),
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wrapper.NewQuery[Book]()
			tt.build(q)
			got, err := Translate(q.Nodes())
			require.NoError(t, err)
			assertFilter(t, tt.want, got)
		})
	}
}

func TestTranslate_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		build func(q *Q)
	}{
		{"like", func(q *Q) { q.Like(true, "title", "go") }},
		{"apply", func(q *Q) { q.Apply(true, "year % {0} == 0", 4) }},
		{"empty function", func(q *Q) { q.JSONContains(true, "meta", nil) }},
		{"array index in path", func(q *Q) { q.JSONContains(true, "meta", 1, "a", 0) }},
		{"mixed list", func(q *Q) { q.In(true, "year", 1, "two") }},
		{"range on string", func(q *Q) { q.Gt(true, "title", "m") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := wrapper.NewQuery[Book]()
			tt.build(q)
			_, err := Translate(q.Nodes())
			assert.ErrorIs(t, err, vectordb.ErrUnsupportedExpression)
		})
	}
}

func TestTranslate_TemplatePlaceholder(t *testing.T) {
	q := wrapper.NewQuery[Book](wrapper.WithTemplate(true)).Eq(true, "author", "ada")
	_, err := Translate(q.Nodes())
	assert.ErrorIs(t, err, vectordb.ErrUnsupportedExpression)
}
