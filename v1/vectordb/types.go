package vectordb

import (
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/vexpr/v1/expr"
)

// ConsistencyLevel is the read-consistency guarantee requested for a query.
type ConsistencyLevel int

const (
	// ConsistencyStrong sees every write acknowledged before the query. Default.
	ConsistencyStrong ConsistencyLevel = iota
	// ConsistencySession sees the writes of the current client session.
	ConsistencySession
	// ConsistencyBounded tolerates a bounded staleness window.
	ConsistencyBounded
	// ConsistencyEventually gives no freshness guarantee.
	ConsistencyEventually
	// ConsistencyCustomized defers to a backend-specific guarantee.
	ConsistencyCustomized
)

var consistencyNames = [...]string{"Strong", "Session", "Bounded", "Eventually", "Customized"}

func (c ConsistencyLevel) String() string {
	if c < 0 || int(c) >= len(consistencyNames) {
		return fmt.Sprintf("ConsistencyLevel(%d)", int(c))
	}
	return consistencyNames[c]
}

// ParseConsistencyLevel parses a level name, case-insensitively.
func ParseConsistencyLevel(s string) (ConsistencyLevel, error) {
	for i, name := range consistencyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return ConsistencyLevel(i), nil
		}
	}
	return ConsistencyStrong, fmt.Errorf("%w: %q", ErrUnknownConsistency, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c ConsistencyLevel) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so levels can be
// written by name in YAML and JSON configuration.
func (c *ConsistencyLevel) UnmarshalText(text []byte) error {
	level, err := ParseConsistencyLevel(string(text))
	if err != nil {
		return err
	}
	*c = level
	return nil
}

// QueryRequest is a rendered filter query, ready for an Executor.
type QueryRequest struct {
	// Collection is the target collection.
	Collection string `json:"collection"`

	// Expr is the textual filter expression. Empty means match-all.
	Expr string `json:"expr"`

	// Filter holds the nodes Expr was rendered from, for backends that
	// build structured filters.
	Filter []expr.Node `json:"-"`

	// Params binds the {name} placeholders of Expr when the builder ran in
	// template mode.
	Params map[string]any `json:"params,omitempty"`

	// ConsistencyLevel defaults to ConsistencyStrong.
	ConsistencyLevel ConsistencyLevel `json:"consistencyLevel"`

	// PartitionNames limits the scan, in order. Empty means all partitions.
	PartitionNames []string `json:"partitionNames,omitempty"`

	// OutputFields selects returned fields. Empty means all scalar fields.
	OutputFields []string `json:"outputFields,omitempty"`

	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// Validate checks the request before it is sent to a backend.
func (r QueryRequest) Validate() error {
	if strings.TrimSpace(r.Collection) == "" {
		return ErrEmptyCollection
	}
	if r.Limit < 0 || r.Offset < 0 {
		return fmt.Errorf("%w: limit=%d offset=%d", ErrInvalidPaging, r.Limit, r.Offset)
	}
	return nil
}

// Row is one matching record.
type Row struct {
	// ID is the primary key rendered as a string.
	ID string `json:"id"`

	// Score is set by backends that rank results. Filter-only queries
	// leave it at zero.
	Score float32 `json:"score,omitempty"`

	// Fields holds the returned payload.
	Fields map[string]any `json:"fields"`
}
