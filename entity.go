package ecs

import "fmt"

// Entity is a generational handle to a row somewhere in the world: the low
// 32 bits are a slot index, the high 32 bits are that slot's generation.
// Generation 0 is reserved for "never issued" — the zero Entity is always
// invalid. A reused slot's generation is strictly greater (mod wraparound)
// than every generation it has ever held, so a stale handle can never
// alias a live one.
//
// Grounded on original_source/src/slotmap.rs Key.raw/Key.from_raw, which
// pack the same two 32-bit halves into one u64 the same way.
type Entity uint64

// NullEntity is the handle returned for "no entity" contexts; it never
// compares equal to any live handle because generation 0 is never issued.
const NullEntity Entity = 0

// NewEntity packs an index and generation into an Entity handle. Exposed
// for the entity index and for tests; callers should otherwise treat
// Entity as opaque.
func NewEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index half of the handle.
func (e Entity) Index() uint32 {
	return uint32(e)
}

// Generation returns the generation half of the handle.
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

// IsNull reports whether e is the reserved null handle.
func (e Entity) IsNull() bool {
	return e.Generation() == 0
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d#%d)", e.Index(), e.Generation())
}
