package tagtpl

// OrderedMap is a mapping that iterates in insertion order, recommended for
// any replacement value that will be passed through the `items` or `values`
// functions or used as a {{ for }} loop source — Go's built-in map type has
// randomized iteration order and cannot satisfy the insertion-order
// invariant spec.md §8 scenario 5 relies on.
type OrderedMap struct {
	keys []string
	vals map[string]any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]any)}
}

// Set inserts or updates key. New keys are appended to the iteration order;
// updating an existing key does not move it.
func (m *OrderedMap) Set(key string, val any) *OrderedMap {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
	return m
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Pair is one (key, value) entry, as returned by the `items` function.
type Pair struct {
	Key   string
	Value any
}

// Items returns the (key, value) pairs in insertion order.
func (m *OrderedMap) Items() []Pair {
	out := make([]Pair, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, Pair{Key: k, Value: m.vals[k]})
	}
	return out
}

// Values returns the values in insertion order.
func (m *OrderedMap) Values() []any {
	out := make([]any, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.vals[k])
	}
	return out
}
