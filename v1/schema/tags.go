package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const tagName = "milvus"

// Namer lets an entity choose its collection name.
type Namer interface {
	CollectionName() string
}

// Describer lets an entity provide a collection description.
type Describer interface {
	CollectionDescription() string
}

// parseModel builds the collection definition of a struct type from its
// milvus tags.
func parseModel(t reflect.Type) (*CollectionDefinition, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrInvalidModel, t)
	}

	def := &CollectionDefinition{
		Name: toSnakeCase(t.Name()),
		Type: t,
	}
	zero := reflect.New(t).Interface()
	if n, ok := zero.(Namer); ok && n.CollectionName() != "" {
		def.Name = n.CollectionName()
	}
	if d, ok := zero.(Describer); ok {
		def.Description = d.CollectionDescription()
	}
	if def.Name == "" {
		return nil, fmt.Errorf("%w: anonymous struct needs a CollectionName method", ErrInvalidModel)
	}

	if err := collectColumns(def, t, nil, 0); err != nil {
		return nil, err
	}
	if len(def.Columns) == 0 {
		return nil, fmt.Errorf("%w: %s has no mapped fields", ErrInvalidModel, t)
	}
	def.index()
	return def, nil
}

func collectColumns(def *CollectionDefinition, t reflect.Type, index []int, base uintptr) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, tagged := f.Tag.Lookup(tagName)
		if tag == "-" {
			continue
		}
		fieldIndex := append(append([]int(nil), index...), i)

		if f.Anonymous && !tagged {
			ft := f.Type
			if ft.Kind() == reflect.Struct {
				if err := collectColumns(def, ft, fieldIndex, base+f.Offset); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		col, err := parseColumn(f, tag)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", t.Name(), f.Name, err)
		}
		col.FieldIndex = fieldIndex
		col.Offset = base + f.Offset
		def.Columns = append(def.Columns, col)
	}
	return nil
}

// parseColumn reads a tag of the form
//
//	name:doc_id,primary,type:Int64,dim:768,maxLength:64,partitionKey,index,indexType:HNSW,metric:IP,desc:text
func parseColumn(f reflect.StructField, tag string) (*ColumnDefinition, error) {
	col := &ColumnDefinition{
		Name:            toSnakeCase(f.Name),
		FieldName:       f.Name,
		GoType:          f.Type,
		VectorDimension: DefaultVectorDimension,
		MaxLength:       DefaultMaxLength,
		IndexType:       DefaultIndexType,
		MetricType:      DefaultMetricType,
	}

	explicitDim := false
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "name":
			if value == "" {
				return nil, fmt.Errorf("%w: empty name", ErrInvalidTag)
			}
			col.Name = value
		case "primary":
			col.Primary = true
		case "partitionKey":
			col.PartitionKey = true
		case "index":
			col.Index = true
		case "type":
			col.DataType = DataType(value)
		case "elementType":
			col.ElementType = DataType(value)
		case "indexType":
			col.IndexType = IndexType(value)
		case "metric":
			col.MetricType = MetricType(value)
		case "desc":
			col.Description = value
		case "dim", "maxLength":
			n, err := strconv.Atoi(value)
			if err != nil || !hasValue {
				return nil, fmt.Errorf("%w: %s needs an integer, got %q", ErrInvalidTag, key, value)
			}
			if key == "dim" {
				col.VectorDimension = n
				explicitDim = true
			} else {
				col.MaxLength = n
			}
		default:
			return nil, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, key)
		}
	}

	if col.DataType == "" {
		dt, elem, dim, err := inferDataType(f.Type)
		if err != nil {
			return nil, err
		}
		col.DataType = dt
		if col.ElementType == "" {
			col.ElementType = elem
		}
		if dim > 0 && !explicitDim {
			col.VectorDimension = dim
		}
	}

	if col.DataType.IsVector() && col.VectorDimension <= 0 {
		return nil, fmt.Errorf("%w: vector column needs a positive dim", ErrInvalidTag)
	}
	return col, nil
}

// inferDataType maps a Go type to a column type. Fixed-size float arrays
// also report their length as the vector dimension.
func inferDataType(t reflect.Type) (DataType, DataType, int, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool, "", 0, nil
	case reflect.Int8:
		return Int8, "", 0, nil
	case reflect.Int16:
		return Int16, "", 0, nil
	case reflect.Int32:
		return Int32, "", 0, nil
	case reflect.Int, reflect.Int64:
		return Int64, "", 0, nil
	case reflect.Float32:
		return Float, "", 0, nil
	case reflect.Float64:
		return Double, "", 0, nil
	case reflect.String:
		return VarChar, "", 0, nil
	case reflect.Array:
		if t.Elem().Kind() == reflect.Float32 {
			return FloatVector, "", t.Len(), nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return BinaryVector, "", t.Len() * 8, nil
		}
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Float32:
			return FloatVector, "", 0, nil
		case reflect.Uint8:
			return BinaryVector, "", 0, nil
		}
		elem, _, _, err := inferDataType(t.Elem())
		if err != nil {
			return "", "", 0, err
		}
		return Array, elem, 0, nil
	case reflect.Map:
		if t.Key().Kind() == reflect.Uint32 && t.Elem().Kind() == reflect.Float32 {
			return SparseFloatVector, "", 0, nil
		}
		return JSON, "", 0, nil
	case reflect.Struct, reflect.Interface:
		return JSON, "", 0, nil
	}
	return "", "", 0, fmt.Errorf("%w: cannot infer a column type for %s, set type in the tag", ErrInvalidTag, t)
}

// validate checks the key constraints of a parsed definition.
func validate(def *CollectionDefinition) error {
	var primaries, partitions int
	for _, c := range def.Columns {
		if c.Primary {
			primaries++
		}
		if !c.PartitionKey {
			continue
		}
		partitions++
		if c.Primary {
			return fmt.Errorf("%w: %s is the primary key", ErrInvalidPartitionKey, c.FieldName)
		}
		if c.DataType != Int64 && c.DataType != VarChar {
			return fmt.Errorf("%w: %s has type %s, want Int64 or VarChar", ErrInvalidPartitionKey, c.FieldName, c.DataType)
		}
	}
	switch {
	case primaries == 0:
		return fmt.Errorf("%w: %s", ErrMissingPrimaryKey, def.Type)
	case primaries > 1:
		return fmt.Errorf("%w: %s declares %d", ErrDuplicatePrimaryKey, def.Type, primaries)
	case partitions > 1:
		return fmt.Errorf("%w: %s declares %d", ErrInvalidPartitionKey, def.Type, partitions)
	}
	return nil
}
