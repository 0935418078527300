// Error types for record mapping failures.

package csvmap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorHandler is invoked with each per-record failure during quiet
// operations. A nil handler discards failures.
type ErrorHandler func(err error)

// handle invokes the handler if one was supplied.
func (h ErrorHandler) handle(err error) {
	if h != nil {
		h(err)
	}
}

// ErrFieldCount indicates a line whose field count does not match the
// schema's column count.
var ErrFieldCount = errors.New("wrong number of fields")

// SchemaError reports a record type that cannot be mapped to a column
// schema. It is returned once, by Build, and never at encode/decode time.
type SchemaError struct {
	// Type is the record type the schema was derived from.
	Type string
	// Field is the offending struct field, if any.
	Field string
	// Message describes the failure.
	Message string
}

// Error returns a formatted schema error message.
func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("csvmap: invalid schema for %s: field %s: %s", e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("csvmap: invalid schema for %s: %s", e.Type, e.Message)
}

// MappingError reports the failure to convert a single record to or from
// its text representation.
type MappingError struct {
	// Line is the offending input line (decode failures only).
	Line string
	// Field is the column whose value failed, if known.
	Field string
	// Err is the underlying cause.
	Err error
}

// Error returns a formatted mapping error message.
func (e *MappingError) Error() string {
	switch {
	case e.Field != "" && e.Line != "":
		return fmt.Sprintf("csvmap: line %q: field %s: %v", e.Line, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("csvmap: field %s: %v", e.Field, e.Err)
	case e.Line != "":
		return fmt.Sprintf("csvmap: line %q: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("csvmap: %v", e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *MappingError) Unwrap() error {
	return e.Err
}

// WriteError aggregates every mapping failure encountered while draining
// one bulk write. It is only returned after the full input sequence has
// been consumed and every encodable record has been written. I/O failures
// are never part of a WriteError; they are returned directly.
type WriteError struct {
	// Errs holds the individual mapping errors in encounter order.
	Errs []error
}

// Error joins every failure description, comma-and-newline-separated,
// in encounter order.
func (e *WriteError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("csvmap: failed to write %d record(s) due to mapping errors: %s",
		len(e.Errs), strings.Join(msgs, ",\n"))
}

// Unwrap returns the individual mapping errors.
func (e *WriteError) Unwrap() []error {
	return e.Errs
}
