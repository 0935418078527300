// Single-record encoding to delimited lines.

package csvmap

import (
	"errors"
	"reflect"
	"unicode/utf8"

	"github.com/shapestone/shape-csvmap/internal/rowscan"
)

// Encode converts one record into a single delimited text line,
// terminated by '\n'.
//
// Columns are visited in schema order. A value containing the separator,
// a quote character, or a line break is quoted with embedded quotes
// doubled. Float columns use the configured locale's decimal separator.
//
// Any field failure (a MarshalText that returns an error) aborts the
// whole encode and is returned as a *MappingError naming the field.
func (m *Mapper[T]) Encode(rec T) (string, error) {
	v := reflect.ValueOf(rec)
	if m.schema.ptr {
		if v.IsNil() {
			return "", &MappingError{Err: errors.New("nil record")}
		}
		v = v.Elem()
	}

	buf := make([]byte, 0, 64)
	for i, col := range m.schema.columns {
		if i > 0 {
			buf = utf8.AppendRune(buf, m.sep)
		}

		var value string
		if fv := fieldByIndex(v, col.index); fv.IsValid() {
			var err error
			value, err = col.get(fv)
			if err != nil {
				return "", &MappingError{Field: col.name, Err: err}
			}
		}

		buf = rowscan.AppendField(buf, value, m.sep)
	}
	buf = append(buf, '\n')

	return string(buf), nil
}

// EncodeQuiet never fails: on encode failure it invokes onErr (which may
// be nil) and reports ok=false, yielding no line.
func (m *Mapper[T]) EncodeQuiet(rec T, onErr ErrorHandler) (line string, ok bool) {
	line, err := m.Encode(rec)
	if err != nil {
		onErr.handle(err)
		return "", false
	}
	return line, true
}
