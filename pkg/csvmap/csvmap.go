// Package csvmap maps structured records to and from delimited text lines
// and streams such conversions over files.
//
// A Mapper is built once per record type and binds an ordered column
// schema (derived from the struct's fields, with csv:",recurse" fields
// flattened into the parent's columns) to a separator, a header policy,
// and a formatting locale. The same Mapper then serves single-line
// conversions and bulk file streaming.
//
// # Thread Safety
//
// A Mapper holds no mutable state after Build and is safe for concurrent
// use by multiple goroutines against independent sources and destinations.
// A single io.Reader, io.Writer, or file handle must not be shared across
// concurrent bulk operations.
//
// # Single-record mapping
//
//	type User struct {
//	    Name    string `csv:"name"`
//	    Surname string `csv:"surname"`
//	}
//
//	mapper, err := csvmap.For[User]().Build()
//	if err != nil {
//	    // handle error
//	}
//
//	line, err := mapper.Encode(User{Name: "John", Surname: "Smith"})
//	// line is "John,Smith\n"
//
//	user, err := mapper.Decode("Steven,Hawking")
//	// user is User{Name: "Steven", Surname: "Hawking"}
//
// # Bulk streaming
//
// Reads are lazy and pull-based; a consumer that stops early causes no
// further I/O or decoding. Writes drain the input eagerly.
//
//	for user, err := range mapper.ReadFile("users.csv") {
//	    if err != nil {
//	        // first failure, no further records are produced
//	    }
//	    // process user
//	}
//
// Quiet variants never fail; per-record errors go to a caller-supplied
// ErrorHandler (or are discarded when the handler is nil):
//
//	for user := range mapper.ReadFileQuiet("users.csv", func(err error) {
//	    log.Println("skipped line:", err)
//	}) {
//	    // process user
//	}
package csvmap

// Mapper is an immutable mapping configuration for record type T,
// combining the derived column schema with the separator, header,
// blank-line, and locale policies chosen at build time.
//
// Create a Mapper with For[T]().Build(); the zero value is not usable.
type Mapper[T any] struct {
	schema     *schema
	sep        rune
	header     bool
	skipEmpty  bool
	headerLine string
}

// HeaderLine returns the column names joined by the configured separator,
// in schema order, without a trailing line terminator.
// ok is false unless header inclusion was enabled at build time.
func (m *Mapper[T]) HeaderLine() (line string, ok bool) {
	if !m.header {
		return "", false
	}
	return m.headerLine, true
}

// Columns returns the derived column names in schema order.
func (m *Mapper[T]) Columns() []string {
	return m.schema.names()
}
