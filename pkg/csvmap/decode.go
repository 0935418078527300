// Single-line decoding into records.

package csvmap

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shapestone/shape-csvmap/internal/rowscan"
)

// Decode converts a single delimited text line back into a record.
//
// The line may carry one optional trailing line terminator ('\n' or
// "\r\n"). It is split into exactly as many positional values as the
// schema has columns; each value is written into the record's target
// field, constructing flattened sub-records as needed, with string
// passthrough and locale-aware numeric parsing.
//
// Decode fails with a *MappingError carrying the offending line and the
// underlying cause when the field count does not match the schema, a
// value cannot be converted to the target field's type, or the line is
// structurally malformed (unclosed quote). A failed decode never returns
// a partially populated record.
func (m *Mapper[T]) Decode(line string) (T, error) {
	var zero T

	raw := strings.TrimSuffix(line, "\n")
	raw = strings.TrimSuffix(raw, "\r")

	values, err := rowscan.Fields(raw, m.sep)
	if err != nil {
		return zero, &MappingError{Line: line, Err: err}
	}
	if len(values) != len(m.schema.columns) {
		return zero, &MappingError{
			Line: line,
			Err:  fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(values), len(m.schema.columns)),
		}
	}

	out := reflect.New(m.schema.typ).Elem()
	for i, col := range m.schema.columns {
		fv := fieldByIndexAlloc(out, col.index)
		if err := col.set(fv, values[i]); err != nil {
			return zero, &MappingError{Line: line, Field: col.name, Err: err}
		}
	}

	if m.schema.ptr {
		ptr := reflect.New(m.schema.typ)
		ptr.Elem().Set(out)
		return ptr.Interface().(T), nil
	}
	return out.Interface().(T), nil
}

// DecodeQuiet never fails: on decode failure it invokes onErr (which may
// be nil) and reports ok=false, yielding no record.
func (m *Mapper[T]) DecodeQuiet(line string, onErr ErrorHandler) (rec T, ok bool) {
	rec, err := m.Decode(line)
	if err != nil {
		onErr.handle(err)
		var zero T
		return zero, false
	}
	return rec, true
}
