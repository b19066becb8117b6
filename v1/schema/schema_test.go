package schema

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	CreatedAt int64
}

type Document struct {
	Base
	ID        int64     `milvus:"name:doc_id,primary"`
	Tenant    string    `milvus:"partitionKey,maxLength:64"`
	Title     string    `milvus:"desc:document title"`
	Tags      []string
	Meta      map[string]any
	Embedding []float32 `milvus:"dim:768,index,indexType:IVF_FLAT,metric:IP"`
	Skipped   string    `milvus:"-"`
	internal  string
}

type namedDoc struct {
	Key string `milvus:"primary"`
}

func (namedDoc) CollectionName() string { return "custom_docs" }

func TestRegister_ParsesTags(t *testing.T) {
	r := NewRegistry()
	def, err := r.Register(Document{})
	require.NoError(t, err)

	assert.Equal(t, "document", def.Name)
	assert.Equal(t, []string{"created_at", "doc_id", "tenant", "title", "tags", "meta", "embedding"}, def.ColumnNames())

	require.NotNil(t, def.Primary)
	assert.Equal(t, "doc_id", def.Primary.Name)
	assert.Equal(t, Int64, def.Primary.DataType)

	require.NotNil(t, def.PartitionKey)
	assert.Equal(t, "tenant", def.PartitionKey.Name)
	assert.Equal(t, 64, def.PartitionKey.MaxLength)

	title, ok := def.Column("Title")
	require.True(t, ok)
	assert.Equal(t, "document title", title.Description)
	assert.Equal(t, VarChar, title.DataType)
	assert.Equal(t, DefaultMaxLength, title.MaxLength)

	tags, _ := def.Column("Tags")
	assert.Equal(t, Array, tags.DataType)
	assert.Equal(t, VarChar, tags.ElementType)

	meta, _ := def.ColumnByName("meta")
	assert.Equal(t, JSON, meta.DataType)

	emb, _ := def.Column("Embedding")
	assert.Equal(t, FloatVector, emb.DataType)
	assert.Equal(t, 768, emb.VectorDimension)
	assert.True(t, emb.Index)
	assert.Equal(t, IVFFlat, emb.IndexType)
	assert.Equal(t, IP, emb.MetricType)

	assert.Equal(t, []string{"created_at", "doc_id", "tenant", "title", "tags", "meta"}, def.ScalarColumnNames())
}

func TestRegister_FirstRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first, err := r.Register(&Document{})
	require.NoError(t, err)
	second, err := r.Register(Document{})
	require.NoError(t, err)
	assert.Same(t, first, second)

	byName, ok := r.CollectionByName("document")
	require.True(t, ok)
	assert.Same(t, first, byName)
}

func TestRegister_CollectionNameMethod(t *testing.T) {
	def, err := NewRegistry().Register(namedDoc{})
	require.NoError(t, err)
	assert.Equal(t, "custom_docs", def.Name)
}

func TestRegister_Validation(t *testing.T) {
	type noPrimary struct {
		Name string
	}
	type twoPrimaries struct {
		A int64 `milvus:"primary"`
		B int64 `milvus:"primary"`
	}
	type partitionOnPrimary struct {
		A int64 `milvus:"primary,partitionKey"`
	}
	type floatPartition struct {
		A int64   `milvus:"primary"`
		B float64 `milvus:"partitionKey"`
	}
	type badTag struct {
		A int64 `milvus:"primary,color:red"`
	}
	type badDim struct {
		A int64     `milvus:"primary"`
		V []float32 `milvus:"dim:x"`
	}

	tests := []struct {
		name  string
		model any
		want  error
	}{
		{"missing primary", noPrimary{}, ErrMissingPrimaryKey},
		{"duplicate primary", twoPrimaries{}, ErrDuplicatePrimaryKey},
		{"partition key on primary", partitionOnPrimary{}, ErrInvalidPartitionKey},
		{"float partition key", floatPartition{}, ErrInvalidPartitionKey},
		{"unknown tag option", badTag{}, ErrInvalidTag},
		{"non numeric dim", badDim{}, ErrInvalidTag},
		{"not a struct", 42, ErrInvalidModel},
		{"nil", nil, ErrInvalidModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().Register(tt.model)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostInitHandlers(t *testing.T) {
	var visited []string
	r := NewRegistry(PostInitFuncs{
		Column: func(def *CollectionDefinition, col *ColumnDefinition) error {
			visited = append(visited, col.Name)
			if col.FieldName == "Title" {
				col.Name = "headline"
			}
			return nil
		},
		Collection: func(def *CollectionDefinition) error {
			def.Description = "enriched"
			return nil
		},
	})

	def, err := r.Register(Document{})
	require.NoError(t, err)
	assert.Len(t, visited, 7)
	assert.Equal(t, "enriched", def.Description)

	_, ok := def.ColumnByName("headline")
	assert.True(t, ok)

	name, err := Resolve(r, FieldNamed[Document]("Title"))
	require.NoError(t, err)
	assert.Equal(t, "headline", name)
}

func TestRegistryUse_AppliesToLaterRegistrations(t *testing.T) {
	r := NewRegistry()
	before, err := r.Register(namedDoc{})
	require.NoError(t, err)

	r.Use(PostInitFuncs{Collection: func(def *CollectionDefinition) error {
		def.Description = "late"
		return nil
	}})

	after, err := r.Register(Document{})
	require.NoError(t, err)
	assert.Equal(t, "late", after.Description)
	assert.Empty(t, before.Description)

	again, err := r.Collection(namedDoc{})
	require.NoError(t, err)
	assert.Same(t, before, again)
	assert.Empty(t, again.Description)
}

func TestPostInitHandlers_Error(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(PostInitFuncs{Collection: func(*CollectionDefinition) error { return boom }})
	_, err := r.Register(Document{})
	assert.ErrorIs(t, err, boom)

	_, ok := r.CollectionByName("document")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		col  Column[Document]
		want string
	}{
		{"accessor", Field(func(d *Document) any { return &d.ID }), "doc_id"},
		{"accessor embedded", Field(func(d *Document) any { return &d.CreatedAt }), "created_at"},
		{"accessor slice", Field(func(d *Document) any { return &d.Tags }), "tags"},
		{"field name", FieldNamed[Document]("Tenant"), "tenant"},
		{"literal", Col[Document]("anything"), "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(r, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Resolution registered the type lazily.
	_, ok := r.CollectionByName("document")
	assert.True(t, ok)
}

func TestResolve_UnknownColumn(t *testing.T) {
	r := NewRegistry()

	_, err := Resolve(r, FieldNamed[Document]("Missing"))
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = Resolve(r, Field(func(d *Document) any { return &d.Skipped }))
	assert.ErrorIs(t, err, ErrUnknownColumn)

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Document", colErr.Type.Name())
}

func TestField_InvalidAccessor(t *testing.T) {
	outside := "x"
	assert.PanicsWithError(t, (&ColumnError{Type: reflect.TypeFor[Document](), Field: "*string", Err: ErrInvalidAccessor}).Error(), func() {
		Field(func(d *Document) any { return &outside })
	})
	assert.Panics(t, func() {
		Field(func(d *Document) any { return d.ID })
	})
}

func TestColumnTokensAreComparable(t *testing.T) {
	a := Field(func(d *Document) any { return &d.Title })
	b := Field(func(d *Document) any { return &d.Title })
	c := Field(func(d *Document) any { return &d.Tenant })
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestResolve_Concurrent(t *testing.T) {
	r := NewRegistry()
	col := Field(func(d *Document) any { return &d.Title })

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, err := Resolve(r, col)
			if err == nil && name != "title" {
				err = errors.New("unexpected name " + name)
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":      "name",
		"CreatedAt": "created_at",
		"ID":        "id",
		"UserID":    "user_id",
		"URLValue":  "url_value",
		"HTTPSPort": "https_port",
		"APIKey":    "api_key",
		"Value1":    "value1",
		"Field2A":   "field2a",
		"X":         "x",
		"lowercase": "lowercase",
	}
	for input, expected := range tests {
		if got := toSnakeCase(input); got != expected {
			t.Errorf("toSnakeCase(%q) = %q, want %q", input, got, expected)
		}
	}
}
