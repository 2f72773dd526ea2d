package ecs

// FieldId identifies either a bare component or a relation pair: the upper
// 32 bits are zero for a plain component (the lower 32 bits are then the
// component's own Entity index), or both halves are populated for a
// relation pair. FieldId has the total order of uint64, which is exactly
// the order Signature keeps its members sorted by.
//
// Components live in the entity space: every registered component is
// itself spawned as an Entity whose record carries its ComponentInfo (see
// componentinfo.go, NewCore). Grounded on
// original_source/src/world/archetype.rs FieldId(pub u64) and
// `From<Entity> for FieldId`.
type FieldId uint64

// ComponentFieldId builds the FieldId for a bare component from the
// component entity's index.
func ComponentFieldId(componentIndex uint32) FieldId {
	return FieldId(componentIndex)
}

// NewPairFieldId builds a relation FieldId from two 32-bit halves. Pair
// traversal, inheritance and field-index entries for pairs are reserved
// (spec.md §9 Open Questions) — this constructor exists so the bit layout
// is available to callers, not so relations are fully supported.
func NewPairFieldId(first, second uint32) FieldId {
	return FieldId(uint64(first)<<32 | uint64(second))
}

// FieldIdFromEntity is the component-registration path: a component's
// FieldId is the low 32 bits of the Entity it was assigned when spawned
// into the world as a component-entity.
func FieldIdFromEntity(e Entity) FieldId {
	return FieldId(uint64(e.Index()))
}

// IsPair reports whether f encodes a relation (non-zero upper half).
func (f FieldId) IsPair() bool {
	return uint32(f>>32) != 0
}

// First returns the upper 32 bits (zero for a bare component).
func (f FieldId) First() uint32 {
	return uint32(f >> 32)
}

// Second returns the lower 32 bits (the component index for a bare
// component, or the second half of a relation pair).
func (f FieldId) Second() uint32 {
	return uint32(f)
}

// AsEntityIndex returns the component entity index this field resolves to
// when it is not a pair.
func (f FieldId) AsEntityIndex() (uint32, bool) {
	if f.IsPair() {
		return 0, false
	}
	return f.Second(), true
}

// Less gives FieldId its total order; Signature relies on exactly this
// ordering to keep its member vector sorted.
func (f FieldId) Less(other FieldId) bool {
	return f < other
}
