package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncRegistry_Builtins(t *testing.T) {
	r := NewFuncRegistry()

	t.Run("html escapes by default", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "default"}, "<b>")
		require.NoError(t, err)
		assert.Equal(t, "&lt;b&gt;", out.(SafeString).Text)
	})

	t.Run("raw does not escape", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "raw"}, "<b>")
		require.NoError(t, err)
		assert.Equal(t, "<b>", out.(SafeString).Text)
	})

	t.Run("url escapes", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "url"}, "a b")
		require.NoError(t, err)
		assert.Equal(t, "a+b", out.(SafeString).Text)
	})

	t.Run("items requires a mapping", func(t *testing.T) {
		_, err := r.Apply(FunctionCall{Name: "items"}, []any{1})
		require.Error(t, err)
		assert.Equal(t, KindTypeError, Kind(err))
	})

	t.Run("items on OrderedMap", func(t *testing.T) {
		om := NewOrderedMap().Set("a", 1).Set("b", 2)
		out, err := r.Apply(FunctionCall{Name: "items"}, om)
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, out)
	})

	t.Run("items on plain map falls back to sorted key order", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "items"}, map[string]any{"b": 2, "a": 1})
		require.NoError(t, err)
		assert.Equal(t, []Pair{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, out)
	})

	t.Run("values on plain map falls back to sorted key order", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "values"}, map[string]any{"b": 2, "a": 1})
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, out)
	})

	t.Run("sorted", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "sorted"}, []any{int64(3), int64(1), int64(2)})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, out)
	})

	t.Run("len on string", func(t *testing.T) {
		out, err := r.Apply(FunctionCall{Name: "len"}, "hello")
		require.NoError(t, err)
		assert.Equal(t, int64(5), out)
	})

	t.Run("unknown function is a NameError", func(t *testing.T) {
		_, err := r.Apply(FunctionCall{Name: "nope"}, "x")
		require.Error(t, err)
		assert.Equal(t, KindNameError, Kind(err))
	})
}

func TestFuncRegistry_Factory(t *testing.T) {
	r := NewFuncRegistry()
	r.RegisterFactory("suffix", func(args []any) (Func, error) {
		suffix := ""
		if len(args) > 0 {
			suffix, _ = args[0].(string)
		}
		return func(v any) (any, error) { return stringify(v) + suffix, nil }, nil
	})

	out, err := r.Apply(FunctionCall{Name: "suffix", Args: []any{"!"}, hasArgs: true}, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)

	t.Run("calling a plain function with args is a TypeError", func(t *testing.T) {
		_, err := r.Apply(FunctionCall{Name: "len", Args: []any{int64(1)}, hasArgs: true}, "x")
		require.Error(t, err)
		assert.Equal(t, KindTypeError, Kind(err))
	})
}
