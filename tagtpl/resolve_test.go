package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string
	Age  int
}

func (p person) Greeting() string { return "hi " + p.Name }

func TestResolve_SequenceThenKeyThenField(t *testing.T) {
	repl := map[string]any{
		"list":   []any{"a", "b", "c"},
		"om":     NewOrderedMap().Set("0", "zero-as-key").Set("name", "ann"),
		"person": person{Name: "ann", Age: 5},
		"nested": map[string]any{"user": map[string]any{"name": "bob"}},
	}

	t.Run("sequence index", func(t *testing.T) {
		tag := &Tag{Name: "list", Indices: []string{"1"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "b", v)
	})

	t.Run("digit index falls back to key lookup on a mapping", func(t *testing.T) {
		tag := &Tag{Name: "om", Indices: []string{"0"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "zero-as-key", v)
	})

	t.Run("key index", func(t *testing.T) {
		tag := &Tag{Name: "om", Indices: []string{"name"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "ann", v)
	})

	t.Run("named field", func(t *testing.T) {
		tag := &Tag{Name: "person", Indices: []string{"Name"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "ann", v)
	})

	t.Run("zero-arg method", func(t *testing.T) {
		tag := &Tag{Name: "person", Indices: []string{"Greeting"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "hi ann", v)
	})

	t.Run("chained indices", func(t *testing.T) {
		tag := &Tag{Name: "nested", Indices: []string{"user", "name"}}
		v, err := Resolve(tag, repl)
		require.NoError(t, err)
		assert.Equal(t, "bob", v)
	})

	t.Run("missing name is NameError", func(t *testing.T) {
		tag := &Tag{Name: "nope"}
		_, err := Resolve(tag, repl)
		require.Error(t, err)
		assert.Equal(t, KindNameError, Kind(err))
	})

	t.Run("missing key is KeyError", func(t *testing.T) {
		tag := &Tag{Name: "nested", Indices: []string{"missing"}}
		_, err := Resolve(tag, repl)
		require.Error(t, err)
		assert.Equal(t, KindKeyError, Kind(err))
	})
}
