// Package numfmt converts float field values to and from the decimal
// convention of a formatting locale.
//
// Only the decimal separator is localized. Grouping separators are never
// produced, so formatted values are always safe to embed in a delimited
// row regardless of the configured column separator.
package numfmt

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Conv holds the decimal convention of one locale.
// The zero value is not meaningful; use Default or ForTag.
type Conv struct {
	decimal rune
}

// Default returns the convention with '.' as the decimal separator.
func Default() Conv {
	return Conv{decimal: '.'}
}

// ForTag derives the decimal separator used by the given locale.
//
// The separator is probed once by formatting a known fractional value
// through x/text's CLDR-backed number formatter and locating the
// non-digit rune in the result.
func ForTag(tag language.Tag) Conv {
	p := message.NewPrinter(tag)
	probe := p.Sprint(number.Decimal(0.5,
		number.MinFractionDigits(1),
		number.MaxFractionDigits(1),
	))

	for _, r := range probe {
		if !unicode.IsDigit(r) {
			return Conv{decimal: r}
		}
	}
	return Default()
}

// FormatFloat formats f with the locale's decimal separator.
// The shortest representation that round-trips is used.
func (c Conv) FormatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if c.decimal != '.' {
		s = strings.Replace(s, ".", string(c.decimal), 1)
	}
	return s
}

// ParseFloat parses s, accepting the locale's decimal separator.
// Under a locale whose separator is not '.', a bare point is rejected
// rather than silently reinterpreted.
func (c Conv) ParseFloat(s string, bitSize int) (float64, error) {
	if c.decimal != '.' {
		if strings.ContainsRune(s, '.') {
			return 0, &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}
		}
		s = strings.Replace(s, string(c.decimal), ".", 1)
	}
	return strconv.ParseFloat(s, bitSize)
}
