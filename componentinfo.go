package ecs

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/TheBitDrifter/bark"
)

// ComponentInfo is the metadata every registered component carries: its
// name (for diagnostics), its byte layout, the FieldId it was assigned at
// registration, and the drop thunk a Column invokes when a row holding
// this component is removed or overwritten.
//
// Grounded on original_source/src/component.rs ComponentInfo/the Component
// trait's compile-time-derived info() method.
type ComponentInfo struct {
	Name  string
	Size  int
	Align int
	ID    FieldId
	Drop  func(row []byte)
}

// IsZST reports whether this component carries no data (Size == 0). ZSTs
// are tags: Column treats them as a no-op for storage but still records
// membership in the owning archetype's Signature.
func (ci ComponentInfo) IsZST() bool {
	return ci.Size == 0
}

var (
	componentRegistryMu sync.Mutex
	nextFieldOrdinal    uint32
	infoByField         = map[FieldId]ComponentInfo{}
	fieldByType         = map[reflect.Type]FieldId{}

	// componentEntries is this module's stand-in for the compile-time
	// "distributed slice" of component registrations described in
	// spec.md §6 as an external collaborator. Go has no link-time
	// collection pass, so registration happens at init/var-init time
	// instead: every RegisterComponent[T] call (typically from a
	// package-level var initializer) appends one entry here, and
	// New (world.go) replays them in registration order to build the
	// ComponentInfo archetype rows. Order is deterministic across runs
	// of the same binary because Go's init/var-init ordering is itself
	// deterministic (imported packages before importers, declaration
	// order within a package).
	componentEntries []componentEntry
)

type componentEntry struct {
	info ComponentInfo
}

func init() {
	// ComponentInfo registers itself first, unconditionally, so its own
	// FieldId is stable and known before any user component can
	// register. This mirrors original_source/src/world/core.rs Core::new
	// hand-building the ComponentInfo archetype before any init callback
	// runs: the bootstrap component's metadata can't come from the
	// generic pipeline because the pipeline isn't wired up yet.
	registerComponentType(reflect.TypeOf(ComponentInfo{}), "ComponentInfo", nil)
}

// RegisterComponent assigns T a FieldId the first time it is seen and
// returns the resulting ComponentInfo, registering a component entry for
// New (world.go) to apply on construction. Repeat calls for the same T return
// the same ComponentInfo. Grounded on edwinsyarief-lazyecs/component.go's
// RegisterComponent[T] (reflect.TypeOf + unsafe.Sizeof to resolve a
// generic type's byte layout without macros).
func RegisterComponent[T any]() ComponentInfo {
	var zero T
	t := reflect.TypeOf(zero)
	drop := dropThunkFor(t)
	return registerComponentType(t, t.Name(), drop)
}

func registerComponentType(t reflect.Type, name string, drop func([]byte)) ComponentInfo {
	componentRegistryMu.Lock()
	defer componentRegistryMu.Unlock()

	if id, ok := fieldByType[t]; ok {
		return infoByField[id]
	}

	if nextFieldOrdinal == 1<<32-1 {
		panic(bark.AddTrace(CapacityExhaustedError{}))
	}

	ordinal := nextFieldOrdinal
	nextFieldOrdinal++

	info := ComponentInfo{
		Name:  name,
		Size:  int(t.Size()),
		Align: int(t.Align()),
		ID:    ComponentFieldId(ordinal),
		Drop:  drop,
	}

	fieldByType[t] = info.ID
	infoByField[info.ID] = info
	componentEntries = append(componentEntries, componentEntry{info: info})
	return info
}

// dropThunkFor synthesizes a drop thunk for a reflected type when that
// type (or something it contains) needs cleanup beyond a plain memcpy:
// Go's GC already reclaims heap memory, but a component that embeds a
// Go pointer inside its stored byte image is invisible to the GC scanner
// (Column buffers are plain []byte, which the runtime does not scan for
// pointers) unless something clears or re-homes that pointer on removal.
// For types with no pointer-bearing fields this returns nil: the ZST/POD
// fast path in Column needs no thunk at all.
func dropThunkFor(t reflect.Type) func([]byte) {
	if !typeHasPointer(t) {
		return nil
	}
	size := int(t.Size())
	return func(row []byte) {
		if len(row) < size {
			return
		}
		dst := reflect.NewAt(t, unsafe.Pointer(&row[0])).Elem()
		dst.Set(reflect.Zero(t))
	}
}

func typeHasPointer(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice, reflect.UnsafePointer, reflect.String:
		return true
	case reflect.Array:
		return typeHasPointer(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointer(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ComponentInfoFor looks up the metadata registered for FieldId id. The
// second return is false for an unregistered or relation-pair field.
func ComponentInfoFor(id FieldId) (ComponentInfo, bool) {
	componentRegistryMu.Lock()
	defer componentRegistryMu.Unlock()
	info, ok := infoByField[id]
	return info, ok
}

// FieldIdFor returns the FieldId assigned to T, registering it first if
// this is the first time T has been seen.
func FieldIdFor[T any]() FieldId {
	return RegisterComponent[T]().ID
}
