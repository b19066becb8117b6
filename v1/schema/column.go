package schema

import (
	"fmt"
	"reflect"
	"runtime"
)

type refKind uint8

const (
	refName refKind = iota
	refField
	refOffset
)

// Column is a typed column token for entity type T. Tokens are comparable
// values and can be created once and reused across queries.
type Column[T any] struct {
	kind   refKind
	name   string
	offset uintptr
}

// Col returns a token for a literal column name. It is not checked against
// the schema.
func Col[T any](name string) Column[T] {
	return Column[T]{kind: refName, name: name}
}

// FieldNamed returns a token for the Go field with the given name.
func FieldNamed[T any](field string) Column[T] {
	return Column[T]{kind: refField, name: field}
}

// Field returns a token for the field addressed by accessor. The accessor
// must return a pointer to a field of its argument:
//
//	title := schema.Field(func(d *Document) any { return &d.Title })
//
// The accessor runs once, against a zero value, and the token records the
// field offset. Field panics with ErrInvalidAccessor if the returned pointer
// does not point into the entity.
func Field[T any](accessor func(*T) any) Column[T] {
	base := new(T)
	p := accessor(base)

	rv := reflect.ValueOf(p)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		panic(&ColumnError{Type: reflect.TypeFor[T](), Field: fmt.Sprintf("%T", p), Err: ErrInvalidAccessor})
	}

	start := reflect.ValueOf(base).Pointer()
	addr := rv.Pointer()
	size := reflect.TypeFor[T]().Size()
	runtime.KeepAlive(base)

	if addr < start || addr >= start+size {
		panic(&ColumnError{Type: reflect.TypeFor[T](), Field: fmt.Sprintf("%T", p), Err: ErrInvalidAccessor})
	}
	return Column[T]{kind: refOffset, offset: addr - start}
}

// String describes the token for error messages.
func (c Column[T]) String() string {
	switch c.kind {
	case refOffset:
		return fmt.Sprintf("field@%d", c.offset)
	default:
		return c.name
	}
}
