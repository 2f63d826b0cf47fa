package tagtpl

import (
	"reflect"
	"strconv"
)

// Resolve implements C5: look up tag.Name in replacements, then project the
// result through each index in order, left-associative, terminating on the
// first success per step (§4.3).
func Resolve(tag *Tag, replacements map[string]any) (any, error) {
	value, ok := replacements[tag.Name]
	if !ok {
		return nil, newNameError("no replacement with name %q", tag.Name)
	}
	for _, index := range tag.Indices {
		next, err := getIndex(value, index)
		if err != nil {
			return nil, err
		}
		value = next
	}
	return value, nil
}

// getIndex dispatches in the declared order — integer-sequence, then
// keyed-mapping, then named-field — mapping the absence of all three to
// KeyError, per the Indexable capability described in spec.md §9.
func getIndex(haystack any, needle string) (any, error) {
	if isAllDigits(needle) {
		if v, ok := seqIndex(haystack, needle); ok {
			return v, nil
		}
		if v, ok := keyIndex(haystack, needle); ok {
			return v, nil
		}
		return nil, newKeyError("item has no index, key or attribute %q", needle)
	}
	if v, ok := keyIndex(haystack, needle); ok {
		return v, nil
	}
	if v, ok := fieldIndex(haystack, needle); ok {
		return v, nil
	}
	return nil, newKeyError("item has no index, key or attribute %q", needle)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// seqIndex treats haystack as an ordered sequence indexable by position.
func seqIndex(haystack any, needle string) (any, bool) {
	n, err := strconv.Atoi(needle)
	if err != nil {
		return nil, false
	}
	switch h := haystack.(type) {
	case []any:
		if n < 0 || n >= len(h) {
			return nil, false
		}
		return h[n], true
	case []Pair:
		if n < 0 || n >= len(h) {
			return nil, false
		}
		return h[n], true
	}
	rv := reflect.ValueOf(haystack)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if n < 0 || n >= rv.Len() {
			return nil, false
		}
		return rv.Index(n).Interface(), true
	default:
		return nil, false
	}
}

// keyIndex treats haystack as a string-keyed mapping.
func keyIndex(haystack any, needle string) (any, bool) {
	switch h := haystack.(type) {
	case *OrderedMap:
		return h.Get(needle)
	case map[string]any:
		v, ok := h[needle]
		return v, ok
	}
	rv := reflect.ValueOf(haystack)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	keyType := rv.Type().Key()
	if keyType.Kind() != reflect.String {
		return nil, false
	}
	kv := reflect.ValueOf(needle).Convert(keyType)
	val := rv.MapIndex(kv)
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

// fieldIndex treats haystack as a named-field-accessible object: a struct
// field, or a zero-argument method returning a single value.
func fieldIndex(haystack any, needle string) (any, bool) {
	rv := reflect.ValueOf(haystack)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		f := rv.FieldByName(needle)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
	}
	orig := reflect.ValueOf(haystack)
	m := orig.MethodByName(needle)
	if m.IsValid() && m.Type().NumIn() == 0 && m.Type().NumOut() == 1 {
		return m.Call(nil)[0].Interface(), true
	}
	return nil, false
}
