// Column schema derivation from record types.

package csvmap

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shapestone/shape-csvmap/internal/numfmt"
)

// getter reads a leaf field value as its text form.
type getter func(v reflect.Value) (string, error)

// setter writes a text value into a leaf field, converting to the field's
// type.
type setter func(v reflect.Value, value string) error

// column binds one position in a delimited line to one leaf field of a
// record, possibly nested inside flattened sub-records.
type column struct {
	// name is the unique column name used in the header line.
	name string
	// index is the struct field index path from the record root.
	index []int
	get   getter
	set   setter
}

// schema is the ordered column list for one record type.
// It is derived exactly once, at Mapper build time.
type schema struct {
	// typ is the record struct type, after pointer indirection.
	typ reflect.Type
	// ptr records whether the record type itself is a pointer to struct.
	ptr     bool
	columns []column
}

// names returns the column names in schema order.
func (s *schema) names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.name
	}
	return names
}

// buildSchema derives the column schema for a record type.
//
// Fields contribute columns in declaration order. A field tagged
// csv:",recurse" (or an untagged anonymous embedded struct) contributes
// no column itself; the columns of its own nested schema are spliced in
// its place, recursively.
func buildSchema(t reflect.Type, conv numfmt.Conv) (*schema, error) {
	s := &schema{typ: t}
	if t.Kind() == reflect.Ptr {
		s.ptr = true
		s.typ = t.Elem()
	}
	if s.typ.Kind() != reflect.Struct {
		return nil, &SchemaError{Type: t.String(), Message: "record type must be a struct or pointer to struct"}
	}

	cols, err := appendColumns(nil, s.typ, nil, t.String(), conv)
	if err != nil {
		return nil, err
	}
	s.columns = cols

	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if seen[col.name] {
			return nil, &SchemaError{Type: t.String(), Field: col.name, Message: "duplicate column name"}
		}
		seen[col.name] = true
	}

	return s, nil
}

// appendColumns walks a struct type in declaration order, appending one
// column per leaf field and recursing into flattened sub-records.
func appendColumns(cols []column, t reflect.Type, prefix []int, root string, conv numfmt.Conv) ([]column, error) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields
		if field.PkgPath != "" {
			continue
		}

		info := parseTag(field)
		if info.skip {
			continue
		}

		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i

		if info.recurse {
			ft := field.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() != reflect.Struct {
				return nil, &SchemaError{Type: root, Field: field.Name, Message: "recurse field must be a struct or pointer to struct"}
			}
			var err error
			cols, err = appendColumns(cols, ft, index, root, conv)
			if err != nil {
				return nil, err
			}
			continue
		}

		get, set, err := newColumnCodec(field.Type, conv)
		if err != nil {
			return nil, &SchemaError{Type: root, Field: field.Name, Message: err.Error()}
		}

		cols = append(cols, column{name: info.name, index: index, get: get, set: set})
	}

	return cols, nil
}

// fieldInfo holds the mapping options of one struct field.
type fieldInfo struct {
	name    string
	skip    bool
	recurse bool
}

// parseTag parses a struct field's csv tag.
// Format: "columnname" or "columnname,option". The name may be empty to
// specify options without overriding the default field name.
func parseTag(field reflect.StructField) fieldInfo {
	info := fieldInfo{name: field.Name}

	tag := field.Tag.Get("csv")
	if tag == "-" {
		info.skip = true
		return info
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		info.name = parts[0]
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "recurse" {
			info.recurse = true
		}
	}

	// Untagged anonymous embedded structs flatten like recurse fields.
	if field.Anonymous && tag == "" {
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			info.recurse = true
		}
	}

	return info
}

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// newColumnCodec returns the pre-computed getter and setter for a leaf
// field type. Resolving these once at build time avoids a kind switch on
// every encode/decode.
func newColumnCodec(t reflect.Type, conv numfmt.Conv) (getter, setter, error) {
	// Custom text representations take precedence over the kind switch.
	if t.Implements(textMarshalerType) && reflect.PtrTo(t).Implements(textUnmarshalerType) {
		get := func(v reflect.Value) (string, error) {
			b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		set := func(v reflect.Value, value string) error {
			return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
		}
		return get, set, nil
	}

	switch t.Kind() {
	case reflect.Ptr:
		elemGet, elemSet, err := newColumnCodec(t.Elem(), conv)
		if err != nil {
			return nil, nil, err
		}
		elemType := t.Elem()
		get := func(v reflect.Value) (string, error) {
			if v.IsNil() {
				return "", nil
			}
			return elemGet(v.Elem())
		}
		set := func(v reflect.Value, value string) error {
			if value == "" {
				v.SetZero()
				return nil
			}
			if v.IsNil() {
				v.Set(reflect.New(elemType))
			}
			return elemSet(v.Elem(), value)
		}
		return get, set, nil

	case reflect.String:
		get := func(v reflect.Value) (string, error) {
			return v.String(), nil
		}
		set := func(v reflect.Value, value string) error {
			v.SetString(value)
			return nil
		}
		return get, set, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		get := func(v reflect.Value) (string, error) {
			return strconv.FormatInt(v.Int(), 10), nil
		}
		set := func(v reflect.Value, value string) error {
			if value == "" {
				v.SetInt(0)
				return nil
			}
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as int: %v", value, err)
			}
			if v.OverflowInt(i) {
				return fmt.Errorf("value %d overflows %s", i, v.Type())
			}
			v.SetInt(i)
			return nil
		}
		return get, set, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		get := func(v reflect.Value) (string, error) {
			return strconv.FormatUint(v.Uint(), 10), nil
		}
		set := func(v reflect.Value, value string) error {
			if value == "" {
				v.SetUint(0)
				return nil
			}
			u, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as uint: %v", value, err)
			}
			if v.OverflowUint(u) {
				return fmt.Errorf("value %d overflows %s", u, v.Type())
			}
			v.SetUint(u)
			return nil
		}
		return get, set, nil

	case reflect.Float32, reflect.Float64:
		bitSize := 64
		if t.Kind() == reflect.Float32 {
			bitSize = 32
		}
		get := func(v reflect.Value) (string, error) {
			return conv.FormatFloat(v.Float(), bitSize), nil
		}
		set := func(v reflect.Value, value string) error {
			if value == "" {
				v.SetFloat(0)
				return nil
			}
			f, err := conv.ParseFloat(value, bitSize)
			if err != nil {
				return fmt.Errorf("cannot parse %q as float: %v", value, err)
			}
			v.SetFloat(f)
			return nil
		}
		return get, set, nil

	case reflect.Bool:
		get := func(v reflect.Value) (string, error) {
			return strconv.FormatBool(v.Bool()), nil
		}
		set := func(v reflect.Value, value string) error {
			if value == "" {
				v.SetBool(false)
				return nil
			}
			b, err := parseBool(value)
			if err != nil {
				return err
			}
			v.SetBool(b)
			return nil
		}
		return get, set, nil

	default:
		return nil, nil, fmt.Errorf("unsupported field type %s", t)
	}
}

// parseBool parses a boolean value from a string.
// Accepts: true/false, 1/0, t/f, T/F, TRUE/FALSE (case-insensitive).
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "t":
		return true, nil
	case "false", "0", "f":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %q", s)
	}
}

// fieldByIndex walks an index path through nested structs, reading.
// It returns an invalid Value when a nil pointer is crossed, so that a
// nil flattened sub-record encodes as empty columns.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

// fieldByIndexAlloc walks an index path through nested structs, writing.
// Nil pointers along the path are allocated so flattened sub-records can
// be populated during decode.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for _, i := range index {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}
