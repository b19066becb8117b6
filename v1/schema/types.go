package schema

import (
	"reflect"
)

// DataType is the column type declared to the vector database.
type DataType string

const (
	Bool              DataType = "Bool"
	Int8              DataType = "Int8"
	Int16             DataType = "Int16"
	Int32             DataType = "Int32"
	Int64             DataType = "Int64"
	Float             DataType = "Float"
	Double            DataType = "Double"
	VarChar           DataType = "VarChar"
	JSON              DataType = "JSON"
	Array             DataType = "Array"
	FloatVector       DataType = "FloatVector"
	BinaryVector      DataType = "BinaryVector"
	Float16Vector     DataType = "Float16Vector"
	BFloat16Vector    DataType = "BFloat16Vector"
	SparseFloatVector DataType = "SparseFloatVector"
)

// IsVector reports whether columns of this type hold embeddings.
func (d DataType) IsVector() bool {
	switch d {
	case FloatVector, BinaryVector, Float16Vector, BFloat16Vector, SparseFloatVector:
		return true
	}
	return false
}

// IndexType is the vector index algorithm.
type IndexType string

const (
	Flat     IndexType = "FLAT"
	IVFFlat  IndexType = "IVF_FLAT"
	IVFSQ8   IndexType = "IVF_SQ8"
	IVFPQ    IndexType = "IVF_PQ"
	HNSW     IndexType = "HNSW"
	DiskANN  IndexType = "DISKANN"
	AutoIdx  IndexType = "AUTOINDEX"
	Inverted IndexType = "INVERTED"
)

// MetricType is the similarity metric used by a vector index.
type MetricType string

const (
	L2      MetricType = "L2"
	IP      MetricType = "IP"
	Cosine  MetricType = "COSINE"
	Hamming MetricType = "HAMMING"
	Jaccard MetricType = "JACCARD"
)

const (
	DefaultVectorDimension = 1024
	DefaultMaxLength       = 500
	DefaultIndexType       = HNSW
	DefaultMetricType      = L2
)

// CollectionDefinition describes a registered entity type.
type CollectionDefinition struct {
	Name        string
	Description string
	Type        reflect.Type
	Columns     []*ColumnDefinition

	// Primary and PartitionKey point into Columns.
	Primary      *ColumnDefinition
	PartitionKey *ColumnDefinition

	byField  map[string]*ColumnDefinition
	byOffset map[uintptr]*ColumnDefinition
	byName   map[string]*ColumnDefinition
}

// ColumnDefinition describes one mapped struct field.
type ColumnDefinition struct {
	Name        string
	FieldName   string
	FieldIndex  []int
	Offset      uintptr
	GoType      reflect.Type
	DataType    DataType
	ElementType DataType
	Description string

	Primary      bool
	PartitionKey bool

	VectorDimension int
	MaxLength       int

	Index      bool
	IndexType  IndexType
	MetricType MetricType
}

// Column returns the column declared for a Go field name.
func (d *CollectionDefinition) Column(field string) (*ColumnDefinition, bool) {
	c, ok := d.byField[field]
	return c, ok
}

// ColumnByName returns the column with the given database name.
func (d *CollectionDefinition) ColumnByName(name string) (*ColumnDefinition, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// ColumnNames returns the database names of all columns in declaration order.
func (d *CollectionDefinition) ColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		names = append(names, c.Name)
	}
	return names
}

// ScalarColumnNames returns the non-vector column names, the usual output
// fields of a filter query.
func (d *CollectionDefinition) ScalarColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if !c.DataType.IsVector() {
			names = append(names, c.Name)
		}
	}
	return names
}

func (d *CollectionDefinition) index() {
	d.byField = make(map[string]*ColumnDefinition, len(d.Columns))
	d.byOffset = make(map[uintptr]*ColumnDefinition, len(d.Columns))
	d.byName = make(map[string]*ColumnDefinition, len(d.Columns))
	d.Primary, d.PartitionKey = nil, nil
	for _, c := range d.Columns {
		d.byField[c.FieldName] = c
		d.byName[c.Name] = c
		if _, taken := d.byOffset[c.Offset]; !taken {
			d.byOffset[c.Offset] = c
		}
		if c.Primary && d.Primary == nil {
			d.Primary = c
		}
		if c.PartitionKey && d.PartitionKey == nil {
			d.PartitionKey = c
		}
	}
}
