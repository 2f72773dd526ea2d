package ecs

// factory implements the factory pattern for constructing this module's
// core types, following the teacher's package-level Factory singleton
// convention (no constructors exported directly; everything goes
// through Factory.NewX / FactoryNewX).
type factory struct{}

// Factory is the global factory instance.
var Factory factory

// NewWorld constructs a fresh World.
func (f factory) NewWorld() *World {
	return New()
}

// NewSignature builds a Signature from the given fields.
func (f factory) NewSignature(fields ...FieldId) Signature {
	return NewSignature(fields...)
}

// NewComponentCache builds a name-addressed ComponentInfo cache capped
// at cap entries, for introspection/debugging tooling.
func (f factory) NewComponentCache(cap int) Cache[ComponentInfo] {
	return FactoryNewCache[ComponentInfo](cap)
}

// FactoryNewComponent registers T (idempotent) and returns a typed
// handle to it.
func FactoryNewComponent[T any]() ComponentHandle[T] {
	return NewComponentHandle[T]()
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
