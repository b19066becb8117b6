package expr

// Keyword is an operator or function token of the filter grammar.
type Keyword string

// Boolean connectives.
const (
	And Keyword = "AND"
	Or  Keyword = "OR"
	Not Keyword = "NOT"
)

// Comparison and matching operators.
const (
	Eq      Keyword = "=="
	Ne      Keyword = "!="
	Gt      Keyword = ">"
	Ge      Keyword = ">="
	Lt      Keyword = "<"
	Le      Keyword = "<="
	In      Keyword = "IN"
	NotIn   Keyword = "NOT IN"
	Like    Keyword = "LIKE"
	NotLike Keyword = "NOT LIKE"
)

// Function-style predicates. They render as FN(arg, arg).
const (
	JSONContains     Keyword = "JSON_CONTAINS"
	JSONContainsAll  Keyword = "JSON_CONTAINS_ALL"
	JSONContainsAny  Keyword = "JSON_CONTAINS_ANY"
	ArrayContains    Keyword = "ARRAY_CONTAINS"
	ArrayContainsAll Keyword = "ARRAY_CONTAINS_ALL"
	ArrayContainsAny Keyword = "ARRAY_CONTAINS_ANY"
	ArrayLength      Keyword = "ARRAY_LENGTH"
)

// Apply marks a raw fragment produced from a template. It renders as nothing.
const Apply Keyword = ""

// Kind implements Segment.
func (k Keyword) Kind() Kind { return KindKeyword }

func (k Keyword) String() string { return string(k) }

// IsConnective reports whether k is AND, OR or NOT.
func (k Keyword) IsConnective() bool {
	return k == And || k == Or || k == Not
}

// IsBinary reports whether k joins two operands.
func (k Keyword) IsBinary() bool {
	return k == And || k == Or
}

// IsFunction reports whether k renders in call form.
func (k Keyword) IsFunction() bool {
	switch k {
	case JSONContains, JSONContainsAll, JSONContainsAny,
		ArrayContains, ArrayContainsAll, ArrayContainsAny,
		ArrayLength:
		return true
	}
	return false
}
