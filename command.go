package ecs

// CommandOp tags the structural mutation a Command carries.
//
// Grounded on original_source/src/world/command.rs Operation
// (Noop/Insert/Remove/Spawn/Despawn).
type CommandOp int

const (
	OpNoop CommandOp = iota
	OpSpawn
	OpDespawn
	OpInsert
	OpRemove
)

// Command is a deferred structural mutation: created by View/Queue,
// enqueued, drained and applied to Core during flush, then discarded.
// Insert carries its own copy of the component bytes (Go's GC owns that
// slice; there's no separate free-at-apply step the way the Rust
// original frees a boxed raw pointer after Command::apply).
//
// Grounded on original_source/src/world/command.rs Command.
type Command struct {
	Op     CommandOp
	Field  FieldId
	Info   ComponentInfo
	Bytes  []byte
	Target Entity
}

// apply runs one command against core. Unlike original_source's
// Command::apply (a todo!() stub there), this is fully implemented:
// flush is in scope for this module.
func (cmd Command) apply(core *Core) {
	switch cmd.Op {
	case OpNoop:
	case OpSpawn:
		core.InitializeEntityLocation(cmd.Target)
	case OpDespawn:
		core.Despawn(cmd.Target)
	case OpInsert:
		core.InsertBytes(cmd.Info, cmd.Bytes, cmd.Target)
	case OpRemove:
		core.RemoveField(cmd.Field, cmd.Target)
	}
}
