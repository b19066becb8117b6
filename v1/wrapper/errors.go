package wrapper

import (
	"errors"

	"github.com/Aleph-Alpha/vexpr/v1/schema"
)

// ErrEmptyColumn is returned for a blank column name.
var ErrEmptyColumn = errors.New("empty column name")

// UsageError reports a builder call with an invalid argument, such as a
// literal that is neither a string nor a number. Builder methods panic with
// a *UsageError; Build recovers it into an ordinary error.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string {
	return "wrapper: " + e.Op + ": " + e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func fail(op string, err error) {
	panic(&UsageError{Op: op, Err: err})
}

// Build runs fn against w and returns usage errors as values instead of
// panics. Other panics are propagated.
//
// Example:
//
//	err := wrapper.Build(q, func(q *wrapper.QueryWrapper[Doc]) {
//	    q.Eq(true, "flag", true) // booleans are not valid literals
//	})
//	errors.Is(err, expr.ErrInvalidLiteral) // true
func Build[T any, R any](w *Wrapper[T, R], fn func(*Wrapper[T, R])) (err error) {
	defer func() {
		switch r := recover().(type) {
		case nil:
		case *UsageError:
			err = r
		case *schema.ColumnError:
			err = &UsageError{Op: "column", Err: r}
		default:
			panic(r)
		}
	}()
	fn(w)
	return nil
}
