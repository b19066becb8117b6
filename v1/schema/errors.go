package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidModel is returned when a type cannot be mapped to a collection.
	ErrInvalidModel = errors.New("invalid model")

	// ErrMissingPrimaryKey is returned when a model declares no primary key.
	ErrMissingPrimaryKey = errors.New("missing primary key")

	// ErrDuplicatePrimaryKey is returned when a model declares more than one primary key.
	ErrDuplicatePrimaryKey = errors.New("duplicate primary key")

	// ErrInvalidPartitionKey is returned for partition keys that are not
	// Int64 or VarChar, sit on the primary key, or are declared twice.
	ErrInvalidPartitionKey = errors.New("invalid partition key")

	// ErrInvalidTag is returned for malformed milvus struct tags.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrUnknownColumn is returned when a column reference does not match
	// any mapped field.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidAccessor is returned when a field accessor does not return a
	// pointer into the entity.
	ErrInvalidAccessor = errors.New("invalid field accessor")
)

// ColumnError describes a column reference that could not be resolved.
type ColumnError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *ColumnError) Error() string {
	typeName := "<nil>"
	if e.Type != nil {
		typeName = e.Type.String()
	}
	return fmt.Sprintf("schema: %s.%s: %v", typeName, e.Field, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}
