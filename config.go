package ecs

// Config holds global, process-wide tunables for the storage engine. It is
// a library-level knob set, not an application config: no env vars, no
// flags, just direct setter calls before a World is constructed.
var Config config = config{}

// StorageEvents are optional instrumentation hooks fired by Core during
// structural mutation. Nil callbacks are skipped. Intended for tests and
// profiling, mirroring the teacher's table.TableEvents hook.
type StorageEvents struct {
	// OnArchetypeCreated fires once per newly realized archetype.
	OnArchetypeCreated func(id ArchetypeId, sig Signature)
	// OnEntityMigrated fires whenever Core.moveEntity relocates a row.
	OnEntityMigrated func(e Entity, from, to ArchetypeId)
}

type config struct {
	events                StorageEvents
	initialColumnCapacity int
}

// SetStorageEvents configures the instrumentation callbacks.
func (c *config) SetStorageEvents(e StorageEvents) {
	c.events = e
}

// SetInitialColumnCapacity hints how many rows a freshly created Column
// should pre-allocate for. Zero (the default) allocates lazily on first
// write.
func (c *config) SetInitialColumnCapacity(rows int) {
	c.initialColumnCapacity = rows
}
