/*
Package ecs is an archetype-based Entity-Component-System storage core:
entities sharing the same component set are kept packed together in one
Archetype for cache-friendly iteration, and structural changes (insert,
remove, spawn, despawn) are deferred into per-Queue command buffers that
apply in a batch at Flush.

Core Concepts:

  - Entity: a generational handle (index + generation) to a row somewhere
    in the world.
  - ComponentInfo: the byte-layout and drop metadata behind a registered
    component type.
  - Archetype: a node in the storage graph holding every entity with one
    exact Signature, one Column per field.
  - Signature: the sorted field set identifying an Archetype.
  - View: the per-entity read/write surface — reads go through the
    FlushGate, writes enqueue Commands.
  - Queue: a caller-owned sequence of deferred Commands, drained at
    Flush.

Basic Usage:

	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	world := ecs.Factory.NewWorld()

	e := world.Spawn()
	ecs.ViewInsert(world.View(e), Position{X: 1})
	ecs.ViewInsert(world.View(e), Velocity{X: 2})
	world.Flush()

	g, ok := ecs.ViewGet[Position](world.View(e))
	if ok {
		g.Value().X += 1
		g.Close()
	}

Ecs is the underlying storage core for higher-level query and system
layers, but also works standalone.
*/
package ecs
