// Mapping configuration builder.

package csvmap

import (
	"reflect"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/shapestone/shape-csvmap/internal/numfmt"
	"github.com/shapestone/shape-csvmap/internal/rowscan"
)

// Builder accumulates the mapping configuration for record type T.
// Option methods return the Builder for chaining; Build finalizes and
// validates the configuration and derives the column schema exactly once.
//
// Example:
//
//	mapper, err := csvmap.For[User]().
//	    WithSeparator(';').
//	    WithHeader().
//	    SkipEmptyLines().
//	    Build()
type Builder[T any] struct {
	sep       rune
	header    bool
	skipEmpty bool
	locale    language.Tag
	hasLocale bool
}

// For starts a Builder for record type T with the default configuration:
// ',' separator, no header line, '.' decimal separator, blank lines not
// skipped.
func For[T any]() *Builder[T] {
	return &Builder[T]{sep: ','}
}

// WithSeparator sets the column delimiter used for both encode and decode.
func (b *Builder[T]) WithSeparator(sep rune) *Builder[T] {
	b.sep = sep
	return b
}

// WithHeader enables the header line: writes emit it first, reads discard
// exactly one leading line.
func (b *Builder[T]) WithHeader() *Builder[T] {
	b.header = true
	return b
}

// WithLocale sets the locale whose decimal convention formats and parses
// float columns.
func (b *Builder[T]) WithLocale(tag language.Tag) *Builder[T] {
	b.locale = tag
	b.hasLocale = true
	return b
}

// SkipEmptyLines filters out blank and whitespace-only lines during reads,
// after the header skip.
func (b *Builder[T]) SkipEmptyLines() *Builder[T] {
	b.skipEmpty = true
	return b
}

// Build validates the configuration and returns an immutable Mapper.
//
// It returns an *OptionsError for an invalid separator and a *SchemaError
// when no column schema can be derived from T (duplicate column names,
// non-struct record type, unsupported field types).
func (b *Builder[T]) Build() (*Mapper[T], error) {
	if !validDelim(b.sep) {
		return nil, &OptionsError{Option: "separator", Message: "invalid delimiter"}
	}

	conv := numfmt.Default()
	if b.hasLocale {
		conv = numfmt.ForTag(b.locale)
	}

	s, err := buildSchema(reflect.TypeOf((*T)(nil)).Elem(), conv)
	if err != nil {
		return nil, err
	}

	m := &Mapper[T]{
		schema:    s,
		sep:       b.sep,
		header:    b.header,
		skipEmpty: b.skipEmpty,
	}

	if b.header {
		var buf []byte
		for i, name := range s.names() {
			if i > 0 {
				buf = utf8.AppendRune(buf, b.sep)
			}
			buf = rowscan.AppendField(buf, name, b.sep)
		}
		m.headerLine = string(buf)
	}

	return m, nil
}

// validDelim reports whether r is a valid field delimiter.
func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Option  string
	Message string
}

func (e *OptionsError) Error() string {
	return "csvmap: invalid " + e.Option + ": " + e.Message
}
