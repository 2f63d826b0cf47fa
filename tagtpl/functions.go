package tagtpl

import "sort"

// Func is a single-argument template function: value in, value out.
type Func func(v any) (any, error)

// FuncFactory configures a closure from literal call-site arguments; the
// returned Func is then applied to the resolved tag value — conceptually
// fn(args)(value), per §4.4.
type FuncFactory func(args []any) (Func, error)

// FuncAdapter gives an ordinary FuncFactory value a Make method, mirroring
// the teacher's ImporterFunc pattern. FuncRegistry does not use Make:
// RegisterFactory takes a FuncFactory directly.
type FuncAdapter FuncFactory

func (f FuncAdapter) Make(args []any) (Func, error) { return f(args) }

type funcEntry struct {
	plain   Func
	closure FuncFactory
}

// FuncRegistry is a dynamic, named registry of template functions (C6).
// Lookups happen at render time, so a registry mutation made after a
// template is compiled is observed by subsequent renders (§5).
type FuncRegistry struct {
	entries map[string]funcEntry
}

// NewFuncRegistry returns a registry preloaded with the mandatory functions
// from §4.4: default, html, raw, url, items, values, sorted, len.
func NewFuncRegistry() *FuncRegistry {
	r := &FuncRegistry{entries: make(map[string]funcEntry)}
	r.Register("default", func(v any) (any, error) { return EscapeHTML(asSafeString(v)), nil })
	r.Register("html", func(v any) (any, error) { return EscapeHTML(asSafeString(v)), nil })
	r.Register("raw", func(v any) (any, error) { return HTMLString(stringify(v)), nil })
	r.Register("url", func(v any) (any, error) { return EscapeURL(asSafeString(v)), nil })
	r.Register("items", func(v any) (any, error) {
		switch x := v.(type) {
		case *OrderedMap:
			return x.Items(), nil
		case map[string]any:
			keys := sortedKeysAsAny(x)
			out := make([]Pair, len(keys))
			for i, k := range keys {
				ks := k.(string)
				out[i] = Pair{Key: ks, Value: x[ks]}
			}
			return out, nil
		}
		return nil, newTypeError("items() requires a mapping, got %T", v)
	})
	r.Register("values", func(v any) (any, error) {
		switch x := v.(type) {
		case *OrderedMap:
			return x.Values(), nil
		case map[string]any:
			keys := sortedKeysAsAny(x)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = x[k.(string)]
			}
			return out, nil
		}
		return nil, newTypeError("values() requires a mapping, got %T", v)
	})
	r.Register("sorted", func(v any) (any, error) { return sortValue(v) })
	r.Register("len", func(v any) (any, error) { return lenValue(v) })
	return r
}

// Register installs a plain (argument-less) function under name, replacing
// any existing registration (plain or closure) for that name.
func (r *FuncRegistry) Register(name string, fn Func) {
	r.entries[name] = funcEntry{plain: fn}
}

// RegisterFactory installs a closure-producing function under name. Tag
// pipeline stages that call it with arguments, e.g. |fn(1,2), configure the
// closure before it is applied to the resolved value.
func (r *FuncRegistry) RegisterFactory(name string, factory FuncFactory) {
	r.entries[name] = funcEntry{closure: factory}
}

// Apply runs one pipeline stage (§4.4): a NameError if the function name is
// unknown, TypeError if the function rejects the argument count/type.
func (r *FuncRegistry) Apply(call FunctionCall, value any) (any, error) {
	entry, ok := r.entries[call.Name]
	if !ok {
		return nil, newNameError("unknown template tag function %q", call.Name)
	}
	if !call.hasArgs {
		if entry.plain != nil {
			return entry.plain(value)
		}
		fn, err := entry.closure(nil)
		if err != nil {
			return nil, wrapFuncError(call.Name, err)
		}
		return fn(value)
	}
	if entry.closure == nil {
		return nil, newTypeError("function %q does not accept arguments", call.Name)
	}
	fn, err := entry.closure(call.Args)
	if err != nil {
		return nil, wrapFuncError(call.Name, err)
	}
	return fn(value)
}

func wrapFuncError(name string, err error) error {
	if Kind(err) != KindNone {
		return err
	}
	return newTypeError("template function %s raised an error: %v", name, err)
}

func sortValue(v any) (any, error) {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		copy(out, x)
		sort.Slice(out, func(i, j int) bool { return lessValue(out[i], out[j]) })
		return out, nil
	}
	items, err := iterate(v)
	if err != nil {
		return nil, newTypeError("sorted() requires an ordered sequence, got %T", v)
	}
	out := append([]any(nil), items...)
	sort.Slice(out, func(i, j int) bool { return lessValue(out[i], out[j]) })
	return out, nil
}

func lessValue(a, b any) bool {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return x < y
		}
	case float64:
		if y, ok := b.(float64); ok {
			return x < y
		}
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	return stringify(a) < stringify(b)
}

func lenValue(v any) (any, error) {
	switch x := v.(type) {
	case *OrderedMap:
		return int64(x.Len()), nil
	case string:
		return int64(len(x)), nil
	case SafeString:
		return int64(len(x.Text)), nil
	}
	items, err := iterate(v)
	if err == nil {
		return int64(len(items)), nil
	}
	return nil, newTypeError("len() requires a sized value, got %T", v)
}
