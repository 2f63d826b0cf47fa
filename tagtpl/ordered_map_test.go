package tagtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedMap_InsertionOrderPreserved(t *testing.T) {
	m := NewOrderedMap().Set("z", 1).Set("a", 2).Set("m", 3)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	assert.Equal(t, 3, m.Len())
}

func TestOrderedMap_UpdateDoesNotReorder(t *testing.T) {
	m := NewOrderedMap().Set("a", 1).Set("b", 2)
	m.Set("a", 99)
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 99, v)
}

func TestOrderedMap_GetMissing(t *testing.T) {
	m := NewOrderedMap()
	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestOrderedMap_ItemsAndValues(t *testing.T) {
	m := NewOrderedMap().Set("x", 1).Set("y", 2)
	assert.Equal(t, []Pair{{Key: "x", Value: 1}, {Key: "y", Value: 2}}, m.Items())
	assert.Equal(t, []any{1, 2}, m.Values())
}
