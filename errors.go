package ecs

import "fmt"

// StaleEntityError is returned/panicked when an Entity handle no longer
// refers to a live slot (wrong generation or index out of range).
type StaleEntityError struct {
	Entity Entity
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("entity %v is stale or does not exist", e.Entity)
}

// EntityNotFoundError indicates the entity index has no record for the
// given handle at all (never issued, or index out of range).
type EntityNotFoundError struct {
	Entity Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %v does not exist", e.Entity)
}

// ComponentNotFoundError indicates a component lookup found no such field
// on the entity's archetype.
type ComponentNotFoundError struct {
	Field FieldId
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %v does not exist on entity", e.Field)
}

// SizeMismatchError indicates the bytes handed to InsertBytes do not match
// the ComponentInfo's declared size.
type SizeMismatchError struct {
	Field    FieldId
	Declared int
	Got      int
}

func (e SizeMismatchError) Error() string {
	return fmt.Sprintf("component %v declares size %d, got %d bytes", e.Field, e.Declared, e.Got)
}

// CapacityExhaustedError indicates the entity index slot space (2^32 slots)
// has been exhausted.
type CapacityExhaustedError struct{}

func (e CapacityExhaustedError) Error() string {
	return "entity index capacity exhausted"
}

// ZeroSizedGetError is panicked when ViewGet is called for a
// zero-sized component: ZSTs carry no readable bytes, only membership.
type ZeroSizedGetError struct {
	Field FieldId
}

func (e ZeroSizedGetError) Error() string {
	return fmt.Sprintf("component %v is zero-sized and has no readable value", e.Field)
}

// FlushConflictError is panicked by FlushGate when a read and a flush,
// or two flushes, would otherwise overlap: begin_access finding the gate
// at max or one below it, or begin_flush/end_flush finding it in the
// wrong state.
type FlushConflictError struct {
	During string
}

func (e FlushConflictError) Error() string {
	return fmt.Sprintf("flush gate conflict during %s: concurrent read/flush", e.During)
}

// NotImplementedError marks API surface kept for shape/completeness
// (per SPEC_FULL.md) whose original (original_source) is itself a stub.
type NotImplementedError struct {
	What string
}

func (e NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.What)
}
