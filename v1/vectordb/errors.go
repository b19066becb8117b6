package vectordb

import "errors"

var (
	// ErrEmptyCollection is returned when a request names no collection.
	ErrEmptyCollection = errors.New("collection name is required")

	// ErrInvalidPaging is returned for negative limits or offsets.
	ErrInvalidPaging = errors.New("invalid paging")

	// ErrUnsupportedExpression is returned by backends that cannot express
	// part of a filter.
	ErrUnsupportedExpression = errors.New("unsupported filter expression")

	// ErrUnknownConsistency is returned when parsing an unknown consistency level.
	ErrUnknownConsistency = errors.New("unknown consistency level")
)
