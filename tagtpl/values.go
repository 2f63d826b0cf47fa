package tagtpl

import (
	"fmt"
	"reflect"
)

// stringify renders an arbitrary resolved value as text for output, when no
// SafeString is already present.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case SafeString:
		return x.Text
	case bool:
		if x {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

// truthy implements the truthiness rule from §4.5: empty string/sequence/
// mapping/0/false/none are false, everything else true.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case SafeString:
		return x.Text != ""
	case int64:
		return x != 0
	case float64:
		return x != 0
	case *OrderedMap:
		return x.Len() > 0
	case []Pair:
		return len(x) > 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// iterate returns the elements of v as an ordered sequence, used by the
// renderer's Loop node (C8), `in` membership (C7), and the `sorted`/`len`
// functions (C6).
func iterate(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case []Pair:
		out := make([]any, len(x))
		for i, p := range x {
			out[i] = p
		}
		return out, nil
	case *OrderedMap:
		out := make([]any, 0, x.Len())
		for _, k := range x.Keys() {
			out = append(out, k)
		}
		return out, nil
	case map[string]any:
		return sortedKeysAsAny(x), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, newValueError("value of type %T is not iterable", v)
	}
}

// unpack splits item into exactly n values for multi-alias loop bindings,
// per §4.6's loop-unpack rule.
func unpack(item any, n int) ([]any, error) {
	switch x := item.(type) {
	case Pair:
		if n != 2 {
			return nil, newValueError("cannot unpack 2 values into %d tags", n)
		}
		return []any{x.Key, x.Value}, nil
	case []any:
		if len(x) != n {
			return nil, newValueError("cannot unpack %d values into %d tags", len(x), n)
		}
		return x, nil
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() != n {
			return nil, newValueError("cannot unpack %d values into %d tags", rv.Len(), n)
		}
		out := make([]any, n)
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return nil, newValueError("cannot unpack %T into %d tags", item, n)
	}
}

func sortedKeysAsAny(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	insertionSort(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

func insertionSort(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
