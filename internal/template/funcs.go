package template

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["safeGet"] = safeGet
	fm["safeGetOr"] = safeGetOr
	fm["day"] = day
	return fm
}

// day shortens an RFC3339 timestamp to YYYY-MM-DD. Anything else is
// printed unchanged.
func day(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(time.DateOnly)
	}
	return s
}

// safeGet returns the value at a dot-separated path from a nested structure,
// or nil when any step is missing. Keys containing dashes, which dot syntax
// cannot reach, work here.
//
//	{{ safeGet "recentActivity.0.title" . }}
//
// Struct fields are matched by exact Go name, map keys by string, slice
// elements by numeric index. Pointers and interfaces are unwrapped.
func safeGet(path string, data any) any {
	parts := strings.Split(path, ".")
	val := reflect.ValueOf(data)

	for _, p := range parts {
		val = unwrap(val)
		if !val.IsValid() {
			return nil
		}

		switch val.Kind() {
		case reflect.Struct:
			val = val.FieldByName(p)
		case reflect.Map:
			val = val.MapIndex(reflect.ValueOf(p))
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(p)
			if err != nil || idx < 0 || idx >= val.Len() {
				return nil
			}
			val = val.Index(idx)
		default:
			return nil
		}
		if !val.IsValid() {
			return nil
		}
	}

	val = unwrap(val)
	if !val.IsValid() {
		return nil
	}
	return val.Interface()
}

func unwrap(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

// safeGetOr is like safeGet but returns def when the result is nil
func safeGetOr(path string, data any, def any) any {
	v := safeGet(path, data)
	if v == nil {
		return def
	}
	return v
}
