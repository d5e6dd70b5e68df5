package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument signals a builder contract violation: an individual
	// construction or mutation call received an unacceptable value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrParsing signals a malformed query body: missing mandatory keys,
	// multiple field names, an unrecognized point or distance encoding.
	ErrParsing = errors.New("parsing error")
	// ErrQueryShard signals a compile-time failure against the index:
	// unmapped field, wrong field type, out-of-range coordinates.
	ErrQueryShard = errors.New("query shard error")
)

// NewInvalidArgument creates an ErrInvalidArgument with a message.
func NewInvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// NewParsingf creates an ErrParsing with a formatted message.
func NewParsingf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParsing, fmt.Sprintf(format, args...))
}

// NewQueryShardf creates an ErrQueryShard with a formatted message.
func NewQueryShardf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrQueryShard, fmt.Sprintf(format, args...))
}
