package ecs

import (
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// View is the ergonomic per-entity surface: reads (Has, Get) go straight
// to Core under the flush gate; writes (Insert, Remove, Despawn) enqueue
// a Command onto the bound Queue instead of mutating anything directly.
//
// Grounded on original_source/src/entity.rs View (insert/remove/has/get/
// despawn/duplicate).
type View struct {
	entity Entity
	world  *World
	queue  *Queue
}

// Id returns the entity this view is bound to.
func (v View) Id() Entity {
	return v.entity
}

// Insert enqueues writing bytes (exactly info.Size long) as this
// entity's value for info's field, returning v for chaining. Typed
// callers should use ViewInsert instead.
func (v View) Insert(info ComponentInfo, bytes []byte) View {
	v.queue.EnqueueInsert(info, bytes, v.entity)
	return v
}

// Remove enqueues dropping field from this entity, returning v for
// chaining.
func (v View) Remove(field FieldId) View {
	v.queue.EnqueueRemove(field, v.entity)
	return v
}

// Despawn enqueues this entity's teardown.
func (v View) Despawn() {
	v.queue.EnqueueDespawn(v.entity)
}

// Has reads, under the flush gate, whether this entity currently carries
// field.
//
// Grounded on original_source/src/entity.rs View::has.
func (v View) Has(field FieldId) bool {
	v.world.gate.BeginAccess()
	defer v.world.gate.EndAccess()
	return v.world.core.Has(v.entity, field)
}

// DupeOpts controls how View.Duplicate treats a field that cannot be
// copied outright.
//
// Grounded on original_source/src/entity.rs DupeOpts.
type DupeOpts int

const (
	// DupeOrDefault falls back to the zero value for fields this module
	// has no copy strategy for.
	DupeOrDefault DupeOpts = iota
	// DupeOrPanic panics if any field lacks a copy strategy.
	DupeOrPanic
)

// Duplicate would spawn a new entity carrying a copy of every field this
// one has. original_source/src/entity.rs View::duplicate_into is itself
// an unimplemented todo!() — copying a type-erased byte image correctly
// requires a per-component copy strategy (Clone in Rust terms) that
// neither the Rust original nor spec.md specify, so this stays a stub
// returning NotImplementedError rather than silently doing a shallow
// memcpy that would double-free or alias owned fields.
func (v View) Duplicate(opts DupeOpts) (View, error) {
	return View{}, NotImplementedError{What: "View.Duplicate"}
}

// ColumnGuard is the Go-idiomatic substitute for original_source's
// ColumnReadGuard/Drop: Rust releases the flush gate automatically when
// the guard goes out of scope, but Go has no destructor, so the caller
// must call Close explicitly once done reading. While a guard is open,
// flushing panics (spec.md §8 property 7) because BeginAccess has
// already claimed a reader slot on the gate.
type ColumnGuard[T any] struct {
	gate *FlushGate
	ptr  *T
}

// Value returns the pointer to the live component row. It is valid only
// until Close.
func (g ColumnGuard[T]) Value() *T {
	return g.ptr
}

// Close releases the flush gate slot this guard was holding open.
func (g ColumnGuard[T]) Close() {
	g.gate.EndAccess()
}

// ViewGet opens a ColumnGuard over entity's T field, or reports ok=false
// if entity doesn't currently carry T (spec.md §7: absent data is
// reported, not panicked). Still panics if T is a zero-sized component
// (§4.4: ZSTs are tag-only and carry no readable bytes), if entity is a
// stale handle, or if a flush is in progress — those are programmer
// errors, not absent-data cases.
//
// Grounded on original_source/src/entity.rs View::get, whose
// Option<ColumnReadGuard<T>> return is exactly this ok-bool: get maps to
// None when core.get_bytes finds nothing, never panics for it.
func ViewGet[T any](v View) (ColumnGuard[T], bool) {
	field := FieldIdFor[T]()
	info, _ := ComponentInfoFor(field)
	if info.IsZST() {
		panic(bark.AddTrace(ZeroSizedGetError{Field: field}))
	}

	v.world.gate.BeginAccess()
	loc, ok := v.world.core.EntityLocation(v.entity)
	if !ok {
		v.world.gate.EndAccess()
		panic(bark.AddTrace(StaleEntityError{Entity: v.entity}))
	}
	arche := v.world.core.Archetype(loc.Archetype)
	n := arche.ColumnIndexOf(field)
	if n < 0 {
		v.world.gate.EndAccess()
		return ColumnGuard[T]{}, false
	}
	ptr := typedView[T](arche.Column(n), loc.Row)
	return ColumnGuard[T]{gate: v.world.gate, ptr: ptr}, true
}

// ViewInsert registers T (idempotent) and enqueues val as entity's value
// for it.
func ViewInsert[T any](v View, val T) View {
	info := RegisterComponent[T]()
	return v.Insert(info, encodeValue(val))
}

// ViewRemove enqueues dropping T from entity.
func ViewRemove[T any](v View) View {
	return v.Remove(FieldIdFor[T]())
}

// ViewHas reads whether entity carries T.
func ViewHas[T any](v View) bool {
	return v.Has(FieldIdFor[T]())
}

// encodeValue reinterprets val's in-memory representation as the bytes a
// Column stores. Mirrors original_source/src/world/mod.rs World::insert,
// which does the identical std::slice::from_raw_parts(&component, size)
// reinterpretation before calling insert_bytes.
func encodeValue[T any](val T) []byte {
	size := int(unsafe.Sizeof(val))
	if size == 0 {
		return nil
	}
	buf := make([]byte, size)
	*(*T)(unsafe.Pointer(&buf[0])) = val
	return buf
}
