// Package errors defines the coded error taxonomy for the reshaping
// pipeline: configuration, lookup, integrity and shape failures.
package errors

import (
	"fmt"
)

// Error is a structured pipeline error with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
	Details string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by code so that callers can test against the
// predefined sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Sentinels for the pipeline failure classes.
var (
	// ErrConfig: a caller-selected tag id is outside its catalog namespace.
	ErrConfig = New("CONFIG_INVALID_TAG", "tag id is not valid for its namespace")
	// ErrLookup: a tag id present in data resolves to no semantic name.
	ErrLookup = New("TAG_LOOKUP_FAILED", "no corresponding tag name for tag id")
	// ErrIntegrity: a reconstructed time index contains duplicates.
	ErrIntegrity = New("INDEX_DUPLICATE", "duplicate timestamp in reconstructed index")
	// ErrShape: a values cell is neither a float nor a value;quality pair.
	ErrShape = New("VALUES_SHAPE", "values cell is neither float nor value;quality")
	// ErrColumnCollision: two joined tables carry the same column name.
	ErrColumnCollision = New("COLUMN_COLLISION", "column name already present in joined table")
)

// ConfigError reports a selected tag id that does not belong to the given
// namespace.
func ConfigError(tag int, namespace string) *Error {
	return &Error{
		Code:    ErrConfig.Code,
		Message: ErrConfig.Message,
		Details: fmt.Sprintf("tag %d is not a valid %s tag", tag, namespace),
	}
}

// LookupError reports a tag id that cannot be resolved in any namespace.
func LookupError(tag int) *Error {
	return &Error{
		Code:    ErrLookup.Code,
		Message: ErrLookup.Message,
		Details: fmt.Sprintf("tag %d", tag),
	}
}

// IntegrityError reports a duplicate reconstructed timestamp for a tag's
// sub-table.
func IntegrityError(column, timestamp string) *Error {
	return &Error{
		Code:    ErrIntegrity.Code,
		Message: ErrIntegrity.Message,
		Details: fmt.Sprintf("column %s at %s", column, timestamp),
	}
}

// ShapeError reports an unparseable values cell.
func ShapeError(raw string, err error) *Error {
	return &Error{
		Code:    ErrShape.Code,
		Message: ErrShape.Message,
		Details: fmt.Sprintf("%q", raw),
		Err:     err,
	}
}

// ColumnCollisionError reports a duplicate column name during an outer join.
func ColumnCollisionError(name string) *Error {
	return &Error{
		Code:    ErrColumnCollision.Code,
		Message: ErrColumnCollision.Message,
		Details: name,
	}
}
