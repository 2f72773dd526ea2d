package ecs

import "github.com/TheBitDrifter/bark"

// EntityLocation pins an Entity to the row of the archetype currently
// holding it. Core keeps one of these per live entity and updates it on
// every migration.
type EntityLocation struct {
	Archetype ArchetypeId
	Row       int
}

type slot struct {
	generation uint32 // 0 means never issued; occupied marks current use
	data       EntityLocation
	occupied   bool
}

// EntityIndex is a generational slot map from Entity to EntityLocation:
// Insert hands back a fresh generation for a reused index, and any
// lookup keyed by a handle whose generation has since moved on reports
// not-found rather than aliasing a different entity's row.
//
// Grounded field-for-field on original_source/src/slotmap.rs SlotMap
// (insert/remove/get/get_ignore_generation/disjoint), specialized away
// from its generic K/T parameters to Entity/EntityLocation since this
// module has exactly one slot map.
type EntityIndex struct {
	slots     []slot
	available []uint32
}

// NewEntityIndex returns an empty index.
func NewEntityIndex() *EntityIndex {
	return &EntityIndex{}
}

// Insert allocates a slot (reusing a freed one if available) and returns
// the Entity handle for it. Generation never returns to 0; a slot whose
// generation is already math.MaxUint32 wraps to 1 rather than 0, so the
// null generation stays permanently reserved.
//
// Grounded on SlotMap::insert.
func (ix *EntityIndex) Insert(loc EntityLocation) Entity {
	var index uint32
	if n := len(ix.available); n > 0 {
		index = ix.available[n-1]
		ix.available = ix.available[:n-1]
	} else {
		if len(ix.slots) == 1<<32-1 {
			panic(bark.AddTrace(CapacityExhaustedError{}))
		}
		ix.slots = append(ix.slots, slot{})
		index = uint32(len(ix.slots) - 1)
	}
	s := &ix.slots[index]
	if s.generation != 1<<32-1 {
		s.generation++
	} else {
		s.generation = 1
	}
	s.data = loc
	s.occupied = true
	return NewEntity(index, s.generation)
}

// Remove clears e's slot and frees its index for reuse, returning the
// location it held and true, or (zero, false) if e's generation is
// stale or its index was never issued.
func (ix *EntityIndex) Remove(e Entity) (EntityLocation, bool) {
	idx := e.Index()
	if int(idx) >= len(ix.slots) {
		return EntityLocation{}, false
	}
	s := &ix.slots[idx]
	if !s.occupied || s.generation != e.Generation() {
		return EntityLocation{}, false
	}
	loc := s.data
	s.occupied = false
	s.data = EntityLocation{}
	ix.available = append(ix.available, idx)
	return loc, true
}

// RemoveIgnoringGeneration frees e's slot regardless of which generation
// e names, as long as the index has a live occupant. Nothing in this
// package calls it.
func (ix *EntityIndex) RemoveIgnoringGeneration(e Entity) (EntityLocation, bool) {
	idx := e.Index()
	if int(idx) >= len(ix.slots) {
		return EntityLocation{}, false
	}
	s := &ix.slots[idx]
	if !s.occupied {
		return EntityLocation{}, false
	}
	loc := s.data
	s.occupied = false
	s.data = EntityLocation{}
	ix.available = append(ix.available, idx)
	return loc, true
}

// Get returns e's current location if e's generation matches the slot's
// live generation.
func (ix *EntityIndex) Get(e Entity) (EntityLocation, bool) {
	idx := e.Index()
	if int(idx) >= len(ix.slots) {
		return EntityLocation{}, false
	}
	s := &ix.slots[idx]
	if !s.occupied || s.generation != e.Generation() {
		return EntityLocation{}, false
	}
	return s.data, true
}

// GetIgnoringGeneration returns whatever location currently occupies e's
// index, without checking e's generation against it.
func (ix *EntityIndex) GetIgnoringGeneration(e Entity) (EntityLocation, bool) {
	idx := e.Index()
	if int(idx) >= len(ix.slots) {
		return EntityLocation{}, false
	}
	s := &ix.slots[idx]
	if !s.occupied {
		return EntityLocation{}, false
	}
	return s.data, true
}

// Set overwrites the location stored for a live e. Panics if e is stale;
// callers (Core.moveEntity) are expected to have just validated e.
func (ix *EntityIndex) Set(e Entity, loc EntityLocation) {
	idx := e.Index()
	if int(idx) >= len(ix.slots) {
		panic(bark.AddTrace(StaleEntityError{Entity: e}))
	}
	s := &ix.slots[idx]
	if !s.occupied || s.generation != e.Generation() {
		panic(bark.AddTrace(StaleEntityError{Entity: e}))
	}
	s.data = loc
}

// IsLive reports whether e currently names an occupied slot at its
// exact generation.
func (ix *EntityIndex) IsLive(e Entity) bool {
	_, ok := ix.Get(e)
	return ok
}

// Disjoint resolves several handles to their locations at once, failing
// the whole batch (returning ok=false) if any one of them is stale. It
// does not itself enforce that the returned locations are non-aliasing
// in memory (Go slices don't need the borrow-checker-driven
// get_disjoint_mut dance the Rust original uses); callers that need
// non-aliasing guarantees get them from the flush gate instead.
func (ix *EntityIndex) Disjoint(entities ...Entity) ([]EntityLocation, bool) {
	out := make([]EntityLocation, len(entities))
	for i, e := range entities {
		loc, ok := ix.Get(e)
		if !ok {
			return nil, false
		}
		out[i] = loc
	}
	return out, true
}
