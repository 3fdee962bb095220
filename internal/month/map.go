package month

import (
	"encoding/json"
	"maps"
	"slices"
)

// Map is a per-month map. Keys iterate in chronological order and the JSON form
// is an object keyed by "YYYY-MM".
type Map[V any] struct {
	entries map[Key]V
}

// MapOf builds a Map from a plain Go map.
func MapOf[V any](m map[Key]V) Map[V] {
	return Map[V]{entries: maps.Clone(m)}
}

func (m Map[V]) Get(k Key) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

func (m *Map[V]) Set(k Key, v V) {
	if m.entries == nil {
		m.entries = make(map[Key]V)
	}

	m.entries[k] = v
}

func (m *Map[V]) Delete(k Key) {
	delete(m.entries, k)
}

func (m Map[V]) Len() int {
	return len(m.entries)
}

// Keys returns the keys in ascending order.
func (m Map[V]) Keys() []Key {
	keys := slices.Collect(maps.Keys(m.entries))
	slices.SortFunc(keys, Key.Compare)

	return keys
}

// Clone returns an independent copy.
func (m Map[V]) Clone() Map[V] {
	return Map[V]{entries: maps.Clone(m.entries)}
}

// Raw returns a copy of the entries as a plain Go map.
func (m Map[V]) Raw() map[Key]V {
	out := make(map[Key]V, len(m.entries))
	maps.Copy(out, m.entries)

	return out
}

func (m Map[V]) MarshalJSON() ([]byte, error) {
	if m.entries == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(m.entries)
}

func (m *Map[V]) UnmarshalJSON(b []byte) error {
	var entries map[Key]V
	if err := json.Unmarshal(b, &entries); err != nil {
		return err
	}

	m.entries = entries

	return nil
}
