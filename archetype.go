package ecs

// ArchetypeId indexes into Core's archetype arena. Archetypes are never
// removed once created — the graph only grows — so unlike Entity this
// needs no generation half.
//
// Grounded on original_source/src/world/archetype.rs ArchetypeId
// (a slotmap key in Rust; here a plain arena index, since spec.md
// describes the graph as a flat slot-indexed arena with no archetype
// ever freed).
type ArchetypeId uint32

// EmptyArchetypeId is always the signature-less archetype every entity
// starts in.
const EmptyArchetypeId ArchetypeId = 0

// ComponentInfoArchetypeId is always the archetype holding exactly the
// ComponentInfo field, hand-built by NewCore before any component init
// callback runs.
const ComponentInfoArchetypeId ArchetypeId = 1

// ArchetypeEdge records the two neighboring archetypes reachable from
// this one by adding or removing a single field.
//
// Grounded on original_source/src/world/archetype.rs ArchetypeEdge.
type ArchetypeEdge struct {
	Add       ArchetypeId
	HasAdd    bool
	Remove    ArchetypeId
	HasRemove bool
}

// Archetype is one node of the storage graph: a signature, its entity
// list (index = row), one Column per field in signature order, and the
// edges discovered so far to adjacent signatures.
//
// Invariants (spec.md §4.2): entities[row] is the handle whose location
// is (this archetype, row); every column's Len equals len(entities), a
// ZST column included (its Len tracks rows the same way a normal
// column's does, it just never grows any backing bytes for them); edges,
// when present, point to archetypes whose signature is this.With(field)
// or this.Without(field).
//
// Grounded on original_source/src/world/archetype.rs Archetype
// (entities/columns/edges) and teacher's archetype.go for the
// `archetype`/id-holder naming register.
type Archetype struct {
	id        ArchetypeId
	signature Signature
	entities  []Entity
	columns   []*Column
	edges     map[FieldId]ArchetypeEdge
}

// Id returns this archetype's slot in the arena.
func (a *Archetype) Id() ArchetypeId {
	return a.id
}

// Signature returns the field set this archetype stores.
func (a *Archetype) Signature() Signature {
	return a.signature
}

// Len returns the number of entities currently in this archetype.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// EntityAt returns the entity handle stored at row.
func (a *Archetype) EntityAt(row int) Entity {
	return a.entities[row]
}

// ColumnIndexOf returns the position of field within this archetype's
// column list (== its position within the sorted signature), or -1 if
// the archetype doesn't carry that field.
func (a *Archetype) ColumnIndexOf(field FieldId) int {
	for i, f := range a.signature.Fields() {
		if f == field {
			return i
		}
		if f > field {
			break
		}
	}
	return -1
}

// Column returns the column at position n.
func (a *Archetype) Column(n int) *Column {
	return a.columns[n]
}

// dropRow removes row by swap-truncate across the entity list and every
// column, mirroring Archetype::drop in original_source.
func (a *Archetype) dropRow(row int) {
	last := len(a.entities) - 1
	a.entities[row] = a.entities[last]
	a.entities = a.entities[:last]
	for _, col := range a.columns {
		col.SwapDrop(row)
	}
}
