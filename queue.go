package ecs

// Queue is a growable, single-producer sequence of Commands: enqueue is
// non-blocking and never synchronizes with any other Queue. World.Flush
// drains every Queue it has handed out, in each Queue's own insertion
// order, then applies their commands to Core.
//
// spec.md's §4.5/§5 "per-thread queue" is written against Rust's
// thread_local! storage, which has no Go equivalent — goroutines are not
// OS threads and expose no enumerable, stable per-goroutine slot. The
// idiomatic substitution here is explicit: call World.Queue() once per
// worker/goroutine/system and hold onto the returned *Queue yourself,
// the same way you'd hold onto any other per-worker resource. A single
// default Queue (used by World.Spawn/World.View when no Queue is named)
// covers the common single-goroutine case.
//
// Grounded on original_source/src/world/command.rs Command and
// src/world/mantle.rs Mantle.enqueue (the Cell<Vec<Command>> per thread
// this replaces with a plain, caller-owned slice).
type Queue struct {
	world    *World
	commands []Command
}

func newQueue(w *World) *Queue {
	return &Queue{world: w}
}

// EnqueueSpawn queues the deferred placement step for an entity already
// allocated via Core.CreateUninitializedEntity.
func (q *Queue) EnqueueSpawn(e Entity) {
	q.commands = append(q.commands, Command{Op: OpSpawn, Target: e})
}

// EnqueueDespawn queues entity e's teardown.
func (q *Queue) EnqueueDespawn(e Entity) {
	q.commands = append(q.commands, Command{Op: OpDespawn, Target: e})
}

// EnqueueInsert queues writing bytes (exactly info.Size long) as entity
// e's value for info's field.
func (q *Queue) EnqueueInsert(info ComponentInfo, bytes []byte, e Entity) {
	owned := append([]byte(nil), bytes...)
	q.commands = append(q.commands, Command{Op: OpInsert, Info: info, Bytes: owned, Target: e})
}

// EnqueueRemove queues removing field from entity e.
func (q *Queue) EnqueueRemove(field FieldId, e Entity) {
	q.commands = append(q.commands, Command{Op: OpRemove, Field: field, Target: e})
}

// drain applies every queued command to core, in order, then empties the
// queue. Called only by World.Flush, which holds the flush gate for the
// whole operation.
func (q *Queue) drain(core *Core) {
	for _, cmd := range q.commands {
		cmd.apply(core)
	}
	q.commands = q.commands[:0]
}
