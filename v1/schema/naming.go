package schema

import (
	"strings"
	"unicode"
)

// toSnakeCase converts a Go identifier to snake_case, keeping acronyms
// together: UserID -> user_id, HTTPSPort -> https_port.
func toSnakeCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
