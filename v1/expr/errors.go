package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLiteral is returned when a value that is neither a string nor a
	// number is used as a literal.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrInvalidKeyPath is returned when a JSON key path element is not a
	// string or an integer index.
	ErrInvalidKeyPath = errors.New("invalid key path")
)

// LiteralError reports the offending value of a failed literal conversion.
type LiteralError struct {
	Value any
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: unsupported type %T", ErrInvalidLiteral, e.Value)
}

func (e *LiteralError) Unwrap() error {
	return ErrInvalidLiteral
}
