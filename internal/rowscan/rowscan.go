// Package rowscan implements the low-level text format of a single
// delimited row.
//
// It splits one line into its fields and appends quoted-as-needed fields
// to an output buffer. Quoting follows RFC 4180: a field containing the
// separator, a double quote, a line break, or a space is wrapped in double
// quotes, with embedded quotes doubled.
//
// The package deliberately knows nothing about records, schemas, or files;
// it operates on exactly one line at a time.
package rowscan

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Structural errors surfaced while splitting a line.
var (
	// ErrUnclosedQuote indicates a quoted field with no closing quote.
	ErrUnclosedQuote = errors.New("unclosed quoted field")

	// ErrBareQuote indicates a quote character inside an unquoted field.
	ErrBareQuote = errors.New("quote character in unquoted field")
)

// Fields splits a single line into its fields.
//
// The line must not include a trailing line terminator. The separator may
// be any rune; multi-byte separators are handled correctly.
//
// An empty line yields a single empty field, consistent with RFC 4180
// where a row always has at least one field.
func Fields(line string, sep rune) ([]string, error) {
	s := &scanner{line: line, sep: string(sep)}

	fields := make([]string, 0, 8)
	for {
		field, err := s.scanField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)

		if s.pos >= len(s.line) {
			return fields, nil
		}
		// scanField stops only at a separator or end of line.
		s.pos += len(s.sep)
	}
}

// scanner walks a single line byte by byte.
type scanner struct {
	line string
	sep  string
	pos  int
}

func (s *scanner) scanField() (string, error) {
	if s.pos < len(s.line) && s.line[s.pos] == '"' {
		return s.scanQuotedField()
	}
	return s.scanUnquotedField()
}

// scanQuotedField scans a field wrapped in double quotes.
func (s *scanner) scanQuotedField() (string, error) {
	s.pos++ // opening quote
	start := s.pos

	// Fast path: no escaped quotes, the field is a plain slice of the line.
	for i := s.pos; i < len(s.line); i++ {
		if s.line[i] != '"' {
			continue
		}
		if i+1 < len(s.line) && s.line[i+1] == '"' {
			return s.scanQuotedFieldSlow(start)
		}
		s.pos = i + 1
		if err := s.expectFieldEnd(); err != nil {
			return "", err
		}
		return s.line[start:i], nil
	}

	return "", ErrUnclosedQuote
}

// scanQuotedFieldSlow handles quoted fields containing escaped quotes.
func (s *scanner) scanQuotedFieldSlow(start int) (string, error) {
	var buf []byte

	for s.pos < len(s.line) {
		if s.line[s.pos] != '"' {
			s.pos++
			continue
		}
		buf = append(buf, s.line[start:s.pos]...)
		s.pos++

		if s.pos < len(s.line) && s.line[s.pos] == '"' {
			buf = append(buf, '"')
			s.pos++
			start = s.pos
			continue
		}

		if err := s.expectFieldEnd(); err != nil {
			return "", err
		}
		return string(buf), nil
	}

	return "", ErrUnclosedQuote
}

// scanUnquotedField scans up to the next separator or end of line.
func (s *scanner) scanUnquotedField() (string, error) {
	start := s.pos

	for s.pos < len(s.line) {
		if strings.HasPrefix(s.line[s.pos:], s.sep) {
			break
		}
		if s.line[s.pos] == '"' {
			return "", fmt.Errorf("%w at position %d", ErrBareQuote, s.pos)
		}
		s.pos++
	}

	return s.line[start:s.pos], nil
}

// expectFieldEnd verifies that a closing quote is followed by a separator
// or the end of the line.
func (s *scanner) expectFieldEnd() error {
	if s.pos >= len(s.line) || strings.HasPrefix(s.line[s.pos:], s.sep) {
		return nil
	}
	return fmt.Errorf("unexpected character %q after closing quote at position %d", s.line[s.pos], s.pos)
}

// AppendField appends field to dst, quoting it when it contains the
// separator, a quote character, a line break, or a space. Embedded quotes
// are doubled.
//
// Quoting space-containing fields keeps unquoted fields free of
// whitespace, so consumers that trim unquoted values still round-trip.
func AppendField(dst []byte, field string, sep rune) []byte {
	if !strings.ContainsRune(field, sep) && !strings.ContainsAny(field, "\"\n\r ") {
		return append(dst, field...)
	}

	dst = append(dst, '"')
	for _, ch := range field {
		if ch == '"' {
			dst = append(dst, '"', '"')
		} else {
			dst = utf8.AppendRune(dst, ch)
		}
	}
	return append(dst, '"')
}
