package toml

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Unmarshal parses data and stores the result in the value pointed to by v
// Keys are matched case-sensitively against `toml` tags, falling back to field names.
// Keys with no matching field are ignored; fields with no matching key are left untouched.
func Unmarshal(data []byte, v any) error {
	tree, err := parse(data)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("toml: unmarshal target must be a non-nil pointer, got %T", v)
	}
	return decodeValue(tree, rv.Elem())
}

func decodeValue(data any, val reflect.Value) error {
	switch val.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(val.Type().Elem())
		if err := decodeValue(data, ptr.Elem()); err != nil {
			return err
		}
		val.Set(ptr)

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		return decodeStruct(m, val)

	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("map key must be string, got %s", val.Type().Key())
		}
		m, ok := data.(map[string]any)
		if !ok {
			return fmt.Errorf("expected table, got %T", data)
		}
		out := reflect.MakeMapWithSize(val.Type(), len(m))
		for k, item := range m {
			elem := reflect.New(val.Type().Elem()).Elem()
			if err := decodeValue(item, elem); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(val.Type().Key()), elem)
		}
		val.Set(out)

	case reflect.Slice:
		arr, ok := data.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", data)
		}
		out := reflect.MakeSlice(val.Type(), len(arr), len(arr))
		for i, item := range arr {
			if err := decodeValue(item, out.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		val.Set(out)

	case reflect.Interface:
		val.Set(reflect.ValueOf(data))

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return fmt.Errorf("cannot decode %T into string", data)
		}
		val.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return fmt.Errorf("cannot decode %T into bool", data)
		}
		val.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := data.(int64)
		if !ok {
			return fmt.Errorf("cannot decode %T into %s", data, val.Kind())
		}
		if val.OverflowInt(n) {
			return fmt.Errorf("%d overflows %s", n, val.Kind())
		}
		val.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := data.(int64)
		if !ok || n < 0 {
			return fmt.Errorf("cannot decode %v into %s", data, val.Kind())
		}
		if val.OverflowUint(uint64(n)) {
			return fmt.Errorf("%d overflows %s", n, val.Kind())
		}
		val.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		var f float64
		switch x := data.(type) {
		case float64:
			f = x
		case int64:
			f = float64(x)
		default:
			return fmt.Errorf("cannot decode %T into float", data)
		}
		if val.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("%g overflows float32", f)
		}
		val.SetFloat(f)

	default:
		return fmt.Errorf("unsupported target kind %s", val.Kind())
	}
	return nil
}

func decodeStruct(m map[string]any, val reflect.Value) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		key, skip := fieldKey(field)
		if skip {
			continue
		}
		data, ok := m[key]
		if !ok {
			continue
		}
		if err := decodeValue(data, val.Field(i)); err != nil {
			return fmt.Errorf("toml: %s: %w", key, err)
		}
	}
	return nil
}

// fieldKey resolves the TOML key for a struct field from its tag
func fieldKey(f reflect.StructField) (key string, skip bool) {
	tag := f.Tag.Get("toml")
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, false
}
