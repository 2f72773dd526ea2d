package ecs

// ComponentHandle is the ergonomic, typed face of a registered component:
// it pairs the component's ComponentInfo with a generic parameter so
// callers get typed Get/Has without re-resolving a FieldId on every call.
// Replaces the teacher's table.Accessor[T]-backed AccessibleComponent[T]
// (component_accessor.go/componentaccessible.go) now that rows are
// addressed by FieldId/Signature rather than a table.Schema slot.
type ComponentHandle[T any] struct {
	Info ComponentInfo
}

// NewComponentHandle registers T (idempotent) and returns a handle bound
// to its ComponentInfo.
func NewComponentHandle[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{Info: RegisterComponent[T]()}
}

// Get opens a ColumnGuard over entity's T, or reports ok=false if the
// component is absent, the way ViewGet does. Caller must Close the
// guard when ok is true.
func (h ComponentHandle[T]) Get(v View) (ColumnGuard[T], bool) {
	return ViewGet[T](v)
}

// Has reports whether entity currently carries T.
func (h ComponentHandle[T]) Has(v View) bool {
	return v.Has(h.Info.ID)
}
