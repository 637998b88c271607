package toml

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of v, which must be a struct or map[string]T
// Keys are sorted, scalars precede sub-tables, nil pointers and `omitempty` zero values are skipped.
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("toml: cannot marshal nil pointer")
		}
		rv = rv.Elem()
	}
	if !isTable(rv) {
		return nil, fmt.Errorf("toml: root must be struct or map, got %s", rv.Kind())
	}

	var buf bytes.Buffer
	if err := encodeTable(&buf, rv, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type entry struct {
	key string
	val reflect.Value
}

// encodeTable writes scalars first, then nested tables with full dotted headers
func encodeTable(buf *bytes.Buffer, rv reflect.Value, prefix string) error {
	entries, err := tableEntries(rv)
	if err != nil {
		return err
	}

	var tables []entry
	for _, e := range entries {
		if isTable(e.val) {
			tables = append(tables, e)
			continue
		}
		writeKey(buf, e.key)
		buf.WriteString(" = ")
		if err := encodeValue(buf, e.val); err != nil {
			return fmt.Errorf("toml: key %q: %w", e.key, err)
		}
		buf.WriteByte('\n')
	}

	for _, e := range tables {
		var header strings.Builder
		if prefix != "" {
			header.WriteString(prefix)
			header.WriteByte('.')
		}
		header.WriteString(quoteKey(e.key))

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString("[" + header.String() + "]\n")
		if err := encodeTable(buf, e.val, header.String()); err != nil {
			return err
		}
	}
	return nil
}

func tableEntries(rv reflect.Value) ([]entry, error) {
	var entries []entry
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toml: map key must be string, got %s", rv.Type().Key())
		}
		iter := rv.MapRange()
		for iter.Next() {
			val := deref(iter.Value())
			if !val.IsValid() {
				continue
			}
			entries = append(entries, entry{key: iter.Key().String(), val: val})
		}

	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			key, skip := fieldKey(field)
			if skip {
				continue
			}
			val := deref(rv.Field(i))
			if !val.IsValid() {
				continue
			}
			if strings.Contains(field.Tag.Get("toml"), "omitempty") && val.IsZero() {
				continue
			}
			entries = append(entries, entry{key: key, val: val})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries, nil
}

// deref unwraps interfaces and pointers; nil yields the invalid Value
func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isTable(v reflect.Value) bool {
	return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
}

func encodeValue(buf *bytes.Buffer, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))

	case reflect.String:
		writeString(buf, v.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Uint() > math.MaxInt64 {
			return fmt.Errorf("%d overflows TOML integer", v.Uint())
		}
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite float %v", f)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)

	case reflect.Slice, reflect.Array:
		buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			elem := deref(v.Index(i))
			if !elem.IsValid() || isTable(elem) || elem.Kind() == reflect.Slice {
				return fmt.Errorf("array element %d: only scalar arrays are supported", i)
			}
			if err := encodeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	default:
		return fmt.Errorf("unsupported type %s", v.Type())
	}
	return nil
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(quoteKey(key))
}

// quoteKey leaves keys bare only when the lexer would read them back as identifiers
func quoteKey(key string) string {
	if isBareKey(key) {
		return key
	}
	var b bytes.Buffer
	writeString(&b, key)
	return b.String()
}

func isBareKey(s string) bool {
	if s == "" || s == "true" || s == "false" {
		return false
	}
	for _, r := range s {
		if !isBareChar(r) {
			return false
		}
	}
	// Leading digit or sign-digit would lex as a number
	if isDigit(rune(s[0])) {
		return false
	}
	if s[0] == '-' && len(s) > 1 && isDigit(rune(s[1])) {
		return false
	}
	return true
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
