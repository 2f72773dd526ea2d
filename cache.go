package ecs

import "fmt"

// Cache is a fixed-capacity, name-addressed registry: items are
// registered once under a string key and then looked up by that key or
// by the dense index Register returned. Used by this module to back
// name → ComponentInfo introspection (see RegisterComponent's registry
// in componentinfo.go for the canonical type → FieldId path; Cache here
// is for tooling/debugging lookups by human-readable name).
//
// Grounded on teacher's api.go/cache.go/factory.go SimpleCache[T]
// (game-asset cache use), repurposed for component introspection.
type Cache[T any] interface {
	GetIndex(key string) (int, bool)
	GetItem(index int) *T
	GetItem32(index uint32) *T
	Register(key string, item T) (int, error)
	Clear()
}

var _ Cache[any] = &SimpleCache[any]{}

// SimpleCache is the default Cache implementation: a dense slice plus a
// name → index map, capped at maxCapacity entries.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[T]) Clear() {
	c.items = make([]T, 0, c.maxCapacity)
	c.itemIndices = make(map[string]int)
}
