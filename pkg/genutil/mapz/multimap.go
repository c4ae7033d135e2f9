// Package mapz holds generic map types.
package mapz

import "slices"

// NewMultiMap initializes a new MultiMap.
func NewMultiMap[T comparable, Q any]() *MultiMap[T, Q] {
	return &MultiMap[T, Q]{items: map[T][]Q{}}
}

// MultiMap represents a map that can contain 1 or more values for each key.
// Keys are reported in the order they were first added, which keeps any
// rewrite driven by the map deterministic.
type MultiMap[T comparable, Q any] struct {
	items map[T][]Q
	order []T
}

// Add inserts the value into the map at the given key.
//
// If there exists an existing value, then this value is appended
// *without comparison*. Put another way, a value can be added twice, if this
// method is called twice for the same value.
func (mm *MultiMap[T, Q]) Add(key T, item Q) {
	if _, ok := mm.items[key]; !ok {
		mm.order = append(mm.order, key)
	}

	mm.items[key] = append(mm.items[key], item)
}

// RemoveKey removes the given key from the map.
func (mm *MultiMap[T, Q]) RemoveKey(key T) {
	if _, ok := mm.items[key]; !ok {
		return
	}

	delete(mm.items, key)
	mm.order = slices.DeleteFunc(mm.order, func(k T) bool { return k == key })
}

// Has returns true if the key is found in the map.
func (mm *MultiMap[T, Q]) Has(key T) bool {
	_, ok := mm.items[key]
	return ok
}

// Get returns the values stored in the map for the provided key and whether
// the key existed.
//
// If the key does not exist, an empty slice is returned.
func (mm *MultiMap[T, Q]) Get(key T) ([]Q, bool) {
	found, ok := mm.items[key]
	if !ok {
		return []Q{}, false
	}

	return found, true
}

// IsEmpty returns true if the map is currently empty.
func (mm *MultiMap[T, Q]) IsEmpty() bool { return len(mm.items) == 0 }

// Len returns the length of the map, e.g. the number of *keys* present.
func (mm *MultiMap[T, Q]) Len() int { return len(mm.items) }

// Keys returns the keys of the map, in insertion order.
func (mm *MultiMap[T, Q]) Keys() []T { return slices.Clone(mm.order) }

// CountOf returns the number of values stored for the given key.
func (mm *MultiMap[T, Q]) CountOf(key T) int {
	return len(mm.items[key])
}
