package expr

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MatchMode selects where the wildcard goes in a LIKE pattern.
type MatchMode int

const (
	// MatchContains wraps the value on both sides: %value%.
	MatchContains MatchMode = iota
	// MatchLeft puts the wildcard in front: %value.
	MatchLeft
	// MatchRight puts the wildcard at the end: value%.
	MatchRight
)

const wildcard = "%"

// FormatParam renders a scalar value as a filter literal.
//
// Strings (and types whose underlying kind is string) are wrapped in single
// quotes without escaping. Integers, unsigned integers, floats and
// json.Number are rendered unquoted. Every other type, nil included, yields
// a *LiteralError.
//
// Example:
//
//	expr.FormatParam("o'hara") // 'o'hara'
//	expr.FormatParam(42)       // 42
//	expr.FormatParam(2.5)      // 2.5
func FormatParam(v any) (string, error) {
	if n, ok := v.(json.Number); ok {
		return n.String(), nil
	}
	if s, ok := formatNumber(v); ok {
		return s, nil
	}

	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return "'" + rv.String() + "'", nil
	}
	return "", &LiteralError{Value: v}
}

// IsNumeric reports whether v formats as an unquoted number.
func IsNumeric(v any) bool {
	if _, ok := v.(json.Number); ok {
		return true
	}
	_, ok := formatNumber(v)
	return ok
}

func formatNumber(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "", false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// FormatList renders values as a bracketed, comma-joined list literal.
// An empty list renders as [].
func FormatList(values []any) (string, error) {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, err := FormatParam(v)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

// ConcatLike builds the LIKE pattern for v according to mode. The result is
// the raw pattern; quoting is left to FormatParam.
func ConcatLike(v any, mode MatchMode) (string, error) {
	var text string
	switch {
	case IsNumeric(v):
		text, _ = FormatParam(v)
	default:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Kind() != reflect.String {
			return "", &LiteralError{Value: v}
		}
		text = rv.String()
	}

	switch mode {
	case MatchLeft:
		return wildcard + text, nil
	case MatchRight:
		return text + wildcard, nil
	default:
		return wildcard + text + wildcard, nil
	}
}

// FormatTemplate substitutes the positional placeholders {0}, {1}, ... in
// tmpl with the literal form of values. Substitution stops at the first
// index that does not occur in the template, so placeholders after a gap are
// left verbatim. A blank template yields "".
//
// Example:
//
//	expr.FormatTemplate("age > {0} AND name == {1}", 18, "bob")
//	// age > 18 AND name == 'bob'
func FormatTemplate(tmpl string, values ...any) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		return "", nil
	}

	out := tmpl
	for i, v := range values {
		placeholder := "{" + strconv.Itoa(i) + "}"
		if !strings.Contains(out, placeholder) {
			break
		}
		lit, err := FormatParam(v)
		if err != nil {
			return "", fmt.Errorf("template value %d: %w", i, err)
		}
		out = strings.ReplaceAll(out, placeholder, lit)
	}
	return out, nil
}

// formatKey renders one JSON key path element: ['name'] or [0].
func formatKey(k any) (string, error) {
	rv := reflect.ValueOf(k)
	if !rv.IsValid() {
		return "", fmt.Errorf("%w: nil key", ErrInvalidKeyPath)
	}
	switch rv.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s, err := FormatParam(k)
		if err != nil {
			return "", err
		}
		return "[" + s + "]", nil
	}
	return "", fmt.Errorf("%w: unsupported key type %T", ErrInvalidKeyPath, k)
}

// ToAnySlice expands a slice or array into []any. A nil value yields an
// empty slice and any other non-sequence value is returned as a single
// element. Strings and byte slices are treated as scalars.
func ToAnySlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return []any{v}
		}
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}
