package ecs

import "sync"

// World is the top-level handle: one Core, one FlushGate, and the set of
// Queues it has handed out. Constructing a World runs every component's
// init callback (registering its ComponentInfo) and performs one flush,
// matching original_source/src/world/mod.rs World::new's "run init
// callbacks then flush" ordering — except this port does the component
// bootstrap synchronously inside NewCore rather than by queuing
// commands, since that bootstrap never needs to go through the deferred
// path (see DESIGN.md core.go entry).
type World struct {
	core         *Core
	gate         *FlushGate
	defaultQueue *Queue

	mu     sync.Mutex
	queues []*Queue
}

// New constructs a World with its component registry already bootstrapped.
func New() *World {
	w := &World{
		core: NewCore(),
		gate: &FlushGate{},
	}
	w.defaultQueue = newQueue(w)
	w.queues = []*Queue{w.defaultQueue}
	w.Flush()
	return w
}

// Queue hands out a fresh, independent Queue. Callers that want
// per-goroutine command isolation should call this once per goroutine
// and keep the result (see queue.go's doc comment on why this replaces
// Rust's thread_local! storage).
func (w *World) Queue() *Queue {
	w.mu.Lock()
	defer w.mu.Unlock()
	q := newQueue(w)
	w.queues = append(w.queues, q)
	return q
}

// View binds entity to the World's default Queue — the common case for
// single-goroutine callers. Use ViewWith to bind to a Queue obtained
// from Queue() instead.
func (w *World) View(entity Entity) View {
	return View{entity: entity, world: w, queue: w.defaultQueue}
}

// ViewWith binds entity to an explicit Queue.
func (w *World) ViewWith(entity Entity, q *Queue) View {
	return View{entity: entity, world: w, queue: q}
}

// Spawn allocates a stable entity handle immediately and enqueues its
// placement into the empty archetype for the next flush.
//
// Grounded on original_source/src/world/mod.rs World::spawn and
// spec.md §9 "Sentinel locations".
func (w *World) Spawn() Entity {
	e := w.core.CreateUninitializedEntity()
	w.defaultQueue.EnqueueSpawn(e)
	return e
}

// SpawnWith is Spawn, enqueuing the placement command on q instead of
// the default Queue.
func (w *World) SpawnWith(q *Queue) Entity {
	e := w.core.CreateUninitializedEntity()
	q.EnqueueSpawn(e)
	return e
}

// GetEntity reports whether e currently names a live entity, returning
// e itself for chaining when it does.
func (w *World) GetEntity(e Entity) (Entity, bool) {
	w.gate.BeginAccess()
	defer w.gate.EndAccess()
	if _, ok := w.core.EntityLocation(e); !ok {
		return NullEntity, false
	}
	return e, true
}

// ComponentInfo looks up the metadata stored for a component entity.
func (w *World) ComponentInfo(component Entity) (ComponentInfo, bool) {
	w.gate.BeginAccess()
	defer w.gate.EndAccess()
	return w.core.ComponentInfoOf(component)
}

// Has reads, under the flush gate, whether entity carries field.
func (w *World) Has(field FieldId, entity Entity) bool {
	return w.View(entity).Has(field)
}

// Archetypes returns every archetype realized so far, in creation order.
// This is the enumeration entry point an external query/iteration layer
// needs to evaluate a QueryNode against the whole storage graph; this
// module itself stops at producing the graph and the QueryNode contract
// (spec.md §1 Non-goals scope iteration/systems out).
func (w *World) Archetypes() []*Archetype {
	w.gate.BeginAccess()
	defer w.gate.EndAccess()
	out := make([]*Archetype, len(w.core.archetypes))
	copy(out, w.core.archetypes)
	return out
}

// Flush acquires exclusive access via the flush gate, drains every Queue
// this World has handed out in each Queue's own insertion order, and
// applies their commands to Core.
//
// Grounded on original_source/src/world/mod.rs World::flush (a todo!()
// stub there — flush is squarely in this module's scope, so it's fully
// implemented here) and spec.md §4.5.
func (w *World) Flush() {
	w.gate.BeginFlush()
	defer w.gate.EndFlush()

	w.mu.Lock()
	queues := append([]*Queue(nil), w.queues...)
	w.mu.Unlock()

	for _, q := range queues {
		q.drain(w.core)
	}
}
