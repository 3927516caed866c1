package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Null is the representation of absent values.
const Null = "null"

// Value renders v as a short string:
//   - collections (maps, slices, arrays) as indented JSON
//   - object references (structs, pointers, funcs, chans, errors) as their type name
//   - booleans as "true"/"false", nil as "null"
//   - everything else via its natural string form
func Value(v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = TypeName(v)
		}
	}()

	if v == nil {
		return Null
	}

	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case time.Duration:
		return x.String()
	case error:
		// Only the exception block prints error messages.
		if isNil(reflect.ValueOf(x)) {
			return Null
		}
		return TypeName(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return Null
		}
		return prettyJSON(v)
	case reflect.Array:
		return prettyJSON(v)
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return Null
		}
		return TypeName(v)
	case reflect.Struct:
		return TypeName(v)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}

	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// TypeName returns the Go type name of v, or "null" for nil.
func TypeName(v any) string {
	if v == nil {
		return Null
	}
	return fmt.Sprintf("%T", v)
}

func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return TypeName(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
