// Package envmap provides a string-keyed map that remembers insertion order.
// Overwriting a key keeps its original position, so iteration reflects the
// order keys first appeared.
package envmap

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered map. The zero value is not usable; call New.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty ordered map.
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set stores value under key. A key already present keeps its position and
// has its value replaced.
func (m *Map[V]) Set(key string, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of keys.
func (m *Map[V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Delete removes key if present.
func (m *Map[V]) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each pair in insertion order until fn returns false.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap returns the contents as a plain unordered map.
func (m *Map[V]) ToMap() map[string]V {
	out := make(map[string]V, len(m.keys))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order, with
// HTML escaping disabled so slashes and Unicode pass through untouched.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		if err := enc.Encode(m.values[k]); err != nil {
			return nil, err
		}
		// Encode always appends a newline; drop it.
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}
