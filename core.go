package ecs

import (
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// encodeComponentInfo/decodeComponentInfo reinterpret a ComponentInfo
// value as the raw bytes a Column stores, the same way
// original_source/src/world/core.rs Core::new writes ComponentInfo::info()
// straight into the bootstrap column via std::ptr::read/write. The
// struct's string header and Drop func value survive the round trip
// because the process-lifetime component registry (componentinfo.go)
// keeps the real owner alive independently of this Column's bytes.
func encodeComponentInfo(info ComponentInfo) []byte {
	buf := make([]byte, unsafe.Sizeof(info))
	*(*ComponentInfo)(unsafe.Pointer(&buf[0])) = info
	return buf
}

func decodeComponentInfo(b []byte) ComponentInfo {
	return *(*ComponentInfo)(unsafe.Pointer(&b[0]))
}

type fieldLocations map[ArchetypeId]int

// Core is the mutator: the only code path that ever creates archetypes,
// moves entities between them, or writes component bytes. Everything
// above it (World, View, Queue) either reads under the flush gate or
// funnels structural changes through Core via the command queue.
//
// Grounded on original_source/src/world/core.rs Core, ported field for
// field: entity_index, field_index, signature_index, archetypes.
type Core struct {
	entityIndex    *EntityIndex
	fieldIndex     map[FieldId]fieldLocations
	signatureIndex map[string]ArchetypeId
	archetypes     []*Archetype
}

// NewCore builds the bootstrap state: the empty archetype, the
// ComponentInfo archetype wired to it by one edge, and one pre-spawned
// entity per component registered so far (so components that reference
// other components by Entity handle during their own init callback find
// a live handle already).
//
// Grounded on original_source/src/world/core.rs Core::new, ported in the
// same order: archetypes first, then entity_index pre-spawn loop, then
// the ComponentInfo edge, then the hand-built ComponentInfo archetype.
func NewCore() *Core {
	c := &Core{
		entityIndex:    NewEntityIndex(),
		fieldIndex:     map[FieldId]fieldLocations{},
		signatureIndex: map[string]ArchetypeId{},
		archetypes:     []*Archetype{},
	}

	empty := &Archetype{id: EmptyArchetypeId, edges: map[FieldId]ArchetypeEdge{}}
	c.archetypes = append(c.archetypes, empty)
	componentInfoArche := &Archetype{id: ComponentInfoArchetypeId, edges: map[FieldId]ArchetypeEdge{}}
	c.archetypes = append(c.archetypes, componentInfoArche)

	componentRegistryMu.Lock()
	entries := append([]componentEntry(nil), componentEntries...)
	componentRegistryMu.Unlock()

	spawned := make([]Entity, len(entries))
	for n := range entries {
		e := c.entityIndex.Insert(EntityLocation{Archetype: EmptyArchetypeId, Row: n})
		empty.entities = append(empty.entities, e)
		spawned[n] = e
	}

	componentInfoField := infoByField[mustComponentInfoField()].ID
	empty.edges[componentInfoField] = ArchetypeEdge{Add: ComponentInfoArchetypeId, HasAdd: true}

	componentInfoSig := NewSignature(componentInfoField)
	componentInfoArche.signature = componentInfoSig
	componentInfoArche.columns = []*Column{NewColumn(infoByField[componentInfoField], 0)}
	componentInfoArche.edges[componentInfoField] = ArchetypeEdge{Remove: EmptyArchetypeId, HasRemove: true}

	c.fieldIndex[componentInfoField] = fieldLocations{ComponentInfoArchetypeId: 0}
	c.signatureIndex[NewSignature().key()] = EmptyArchetypeId
	c.signatureIndex[componentInfoSig.key()] = ComponentInfoArchetypeId

	componentInfoInfo := infoByField[componentInfoField]
	for n, e := range entries {
		entity := spawned[n]
		loc := c.InsertBytes(componentInfoInfo, encodeComponentInfo(e.info), entity)
		_ = loc
	}

	return c
}

func mustComponentInfoField() FieldId {
	for id, info := range infoByField {
		if info.Name == "ComponentInfo" {
			return id
		}
	}
	panic("ecs: ComponentInfo never registered")
}

// EntityLocation returns e's current archetype/row, or (zero, false) if
// e is stale.
func (c *Core) EntityLocation(e Entity) (EntityLocation, bool) {
	return c.entityIndex.Get(e)
}

// Archetype returns the archetype at id.
func (c *Core) Archetype(id ArchetypeId) *Archetype {
	return c.archetypes[id]
}

// uninitializedRow marks an entity_index slot allocated by
// CreateUninitializedEntity but not yet placed into the empty
// archetype's entity list.
const uninitializedRow = -1

// CreateUninitializedEntity allocates an entity_index slot and returns
// its handle immediately, without touching the empty archetype's entity
// list. This gives Spawn a stable handle to return to the caller without
// taking a lock on that list — the actual placement is finished later by
// InitializeEntityLocation, deferred to flush time.
//
// Grounded on original_source/src/world/core.rs
// Core::create_uninitialized_entity and spec.md §9 "Sentinel locations".
func (c *Core) CreateUninitializedEntity() Entity {
	return c.entityIndex.Insert(EntityLocation{Archetype: EmptyArchetypeId, Row: uninitializedRow})
}

// InitializeEntityLocation finishes placing e into the empty archetype's
// entity list if it hasn't been placed yet (a no-op otherwise). Applied
// by the Spawn command during flush.
//
// Grounded on original_source/src/world/core.rs
// Core::initialize_entity_location.
func (c *Core) InitializeEntityLocation(e Entity) EntityLocation {
	loc, ok := c.entityIndex.Get(e)
	if !ok {
		panic(bark.AddTrace(EntityNotFoundError{Entity: e}))
	}
	if loc.Row == uninitializedRow {
		empty := c.archetypes[EmptyArchetypeId]
		loc.Row = len(empty.entities)
		empty.entities = append(empty.entities, e)
		c.entityIndex.Set(e, loc)
	}
	return loc
}

// Despawn removes e from its archetype entirely and frees its entity
// index slot.
//
// Grounded on original_source/src/world/core.rs Core::despawn.
func (c *Core) Despawn(e Entity) {
	loc, ok := c.entityIndex.Remove(e)
	if !ok {
		return
	}
	arche := c.archetypes[loc.Archetype]
	arche.dropRow(loc.Row)
	if loc.Row < len(arche.entities) {
		moved := arche.entities[loc.Row]
		c.entityIndex.Set(moved, EntityLocation{Archetype: loc.Archetype, Row: loc.Row})
	}
}

// moveEntity relocates the entity at oldLoc into destination, migrating
// every shared field's bytes via Column.MoveInto and dropping whatever
// doesn't survive the move. Returns the entity's new location.
//
// Grounded field-for-field on original_source/src/world/core.rs
// Core::move_entity.
func (c *Core) moveEntity(oldLoc EntityLocation, destination ArchetypeId) EntityLocation {
	if oldLoc.Archetype == destination {
		return oldLoc
	}
	oldArche := c.archetypes[oldLoc.Archetype]
	newArche := c.archetypes[destination]

	entity := oldArche.entities[oldLoc.Row]
	last := len(oldArche.entities) - 1
	oldArche.entities[oldLoc.Row] = oldArche.entities[last]
	oldArche.entities = oldArche.entities[:last]
	newArche.entities = append(newArche.entities, entity)

	oldArche.signature.EachShared(newArche.signature, func(field FieldId) {
		n := oldArche.ColumnIndexOf(field)
		m := newArche.ColumnIndexOf(field)
		oldArche.columns[n].MoveInto(oldLoc.Row, newArche.columns[m])
	})

	// A field the entity is losing (present in oldArche's signature but
	// not newArche's) was skipped by EachShared above and still holds a
	// row at oldLoc.Row; drop it explicitly via the same swap-remove
	// every other column just went through.
	for _, field := range oldArche.signature.Fields() {
		if newArche.signature.Contains(field) {
			continue
		}
		n := oldArche.ColumnIndexOf(field)
		oldArche.columns[n].SwapDrop(oldLoc.Row)
	}

	updated := EntityLocation{Archetype: destination, Row: len(newArche.entities) - 1}
	c.entityIndex.Set(entity, updated)
	if oldLoc.Row < len(oldArche.entities) {
		moved := oldArche.entities[oldLoc.Row]
		c.entityIndex.Set(moved, EntityLocation{Archetype: oldLoc.Archetype, Row: oldLoc.Row})
	}

	// Row removal above already ran each dropped row's drop thunk via
	// SwapDrop; ShrinkToFit's truncate-a-known-tail contract doesn't fit an
	// arbitrary mid-array removal, so this only reclaims slack capacity.
	for _, col := range oldArche.columns {
		col.CompactCapacity()
	}

	if c.events().OnEntityMigrated != nil {
		c.events().OnEntityMigrated(entity, oldLoc.Archetype, destination)
	}

	return updated
}

// connectEdges wires the newly created archetype id (with signature) to
// every already-realized archetype whose signature differs from it by
// exactly one field.
//
// Grounded on original_source/src/world/core.rs Core::connect_edges.
func (c *Core) connectEdges(signature Signature, id ArchetypeId) {
	for _, field := range signature.Fields() {
		withoutField := signature.Without(field)
		other, ok := c.signatureIndex[withoutField.key()]
		if !ok {
			continue
		}
		selfEdges := c.archetypes[id].edges
		selfEdges[field] = ArchetypeEdge{Remove: other, HasRemove: true, Add: selfEdges[field].Add, HasAdd: selfEdges[field].HasAdd}
		otherEdges := c.archetypes[other].edges
		otherEdges[field] = ArchetypeEdge{Add: id, HasAdd: true, Remove: otherEdges[field].Remove, HasRemove: otherEdges[field].HasRemove}
	}
}

// CreateArchetype returns the archetype for signature, creating and
// wiring it into the graph (columns, signature_index, field_index,
// edges) if it doesn't already exist.
//
// Grounded on original_source/src/world/core.rs Core::create_archetype.
func (c *Core) CreateArchetype(signature Signature) ArchetypeId {
	if id, ok := c.signatureIndex[signature.key()]; ok {
		return id
	}

	columns := make([]*Column, 0, signature.Len())
	for _, field := range signature.Fields() {
		info, ok := ComponentInfoFor(field)
		if !ok {
			panic(bark.AddTrace(ComponentNotFoundError{Field: field}))
		}
		columns = append(columns, NewColumn(info, Config.initialColumnCapacity))
	}

	id := ArchetypeId(len(c.archetypes))
	arche := &Archetype{id: id, signature: signature, columns: columns, edges: map[FieldId]ArchetypeEdge{}}
	c.archetypes = append(c.archetypes, arche)
	c.signatureIndex[signature.key()] = id

	for n, field := range signature.Fields() {
		locs, ok := c.fieldIndex[field]
		if !ok {
			locs = fieldLocations{}
			c.fieldIndex[field] = locs
		}
		locs[id] = n
	}

	c.connectEdges(signature, id)

	if c.events().OnArchetypeCreated != nil {
		c.events().OnArchetypeCreated(id, signature)
	}

	return id
}

func (c *Core) events() StorageEvents {
	return Config.events
}

// InsertBytes places info's raw bytes onto entity, migrating it to a
// destination archetype first if entity doesn't already carry that
// field. Mirrors original_source's write_into semantics: if entity
// already has the field (no migration needed), the old value is
// overwritten (and dropped first); otherwise the bytes land in the
// freshly created row of the destination archetype.
//
// Grounded on original_source/src/world/core.rs Core::insert_bytes.
func (c *Core) InsertBytes(info ComponentInfo, bytes []byte, entity Entity) EntityLocation {
	if len(bytes) != info.Size {
		panic(bark.AddTrace(SizeMismatchError{Field: info.ID, Declared: info.Size, Got: len(bytes)}))
	}
	currentLoc, ok := c.entityIndex.Get(entity)
	if !ok {
		panic(bark.AddTrace(EntityNotFoundError{Entity: entity}))
	}
	currentArche := c.archetypes[currentLoc.Archetype]

	var destination ArchetypeId
	switch {
	case currentArche.signature.Contains(info.ID):
		destination = currentLoc.Archetype
	default:
		if edge, ok := currentArche.edges[info.ID]; ok && edge.HasAdd {
			destination = edge.Add
		} else {
			destination = c.CreateArchetype(currentArche.signature.With(info.ID))
		}
	}

	c.moveEntity(currentLoc, destination)

	// The destination column for info.ID may not have a row for this
	// entity yet: moveEntity only migrates fields shared by both
	// archetypes, so a field new to the entity needs its row appended
	// here instead of overwritten. WriteAt picks whichever applies.
	updatedLoc, _ := c.entityIndex.Get(entity)
	columnIdx := c.fieldIndex[info.ID][updatedLoc.Archetype]
	c.archetypes[destination].columns[columnIdx].WriteAt(updatedLoc.Row, bytes)
	return updatedLoc
}

// RemoveField migrates entity to the archetype with field stripped from
// its signature, dropping field's value in the process.
//
// Grounded on original_source/src/world/core.rs Core::remove_field.
func (c *Core) RemoveField(field FieldId, entity Entity) EntityLocation {
	currentLoc, ok := c.entityIndex.Get(entity)
	if !ok {
		panic(bark.AddTrace(EntityNotFoundError{Entity: entity}))
	}
	currentArche := c.archetypes[currentLoc.Archetype]

	var destination ArchetypeId
	if edge, ok := currentArche.edges[field]; ok && edge.HasRemove {
		destination = edge.Remove
	} else {
		destination = c.CreateArchetype(currentArche.signature.Without(field))
	}

	return c.moveEntity(currentLoc, destination)
}

// ComponentInfoOf reads back the ComponentInfo row for a component
// entity. Uses GetIgnoringGeneration because a component entity's
// generation is never re-checked by callers that only have its ordinal.
//
// Grounded on original_source/src/world/core.rs Core::component_info /
// get_component_info.
func (c *Core) ComponentInfoOf(component Entity) (ComponentInfo, bool) {
	componentInfoField := mustComponentInfoField()
	locs, ok := c.fieldIndex[componentInfoField]
	if !ok {
		return ComponentInfo{}, false
	}
	loc, ok := c.entityIndex.GetIgnoringGeneration(component)
	if !ok {
		return ComponentInfo{}, false
	}
	columnIdx, ok := locs[loc.Archetype]
	if !ok {
		return ComponentInfo{}, false
	}
	bytes := c.archetypes[loc.Archetype].columns[columnIdx].At(loc.Row)
	return decodeComponentInfo(bytes), true
}

// Has reports whether entity currently carries field.
func (c *Core) Has(entity Entity, field FieldId) bool {
	loc, ok := c.entityIndex.Get(entity)
	if !ok {
		return false
	}
	return c.archetypes[loc.Archetype].signature.Contains(field)
}

// Bytes returns the raw storage for entity's field, or (nil, false) if
// entity doesn't carry it.
func (c *Core) Bytes(entity Entity, field FieldId) ([]byte, bool) {
	loc, ok := c.entityIndex.Get(entity)
	if !ok {
		return nil, false
	}
	arche := c.archetypes[loc.Archetype]
	n := arche.ColumnIndexOf(field)
	if n < 0 {
		return nil, false
	}
	return arche.columns[n].At(loc.Row), true
}
