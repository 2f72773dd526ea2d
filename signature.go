package ecs

import (
	"encoding/binary"
	"sort"

	"github.com/TheBitDrifter/mask"
)

// Signature is the sorted, deduplicated set of FieldIds an archetype
// carries. Sorted order gives Signature a total lexicographic order and
// lets EachShared walk two signatures with a single merge-join pass
// instead of a nested search.
//
// Grounded on original_source/src/world/archetype.rs Signature
// (SmallVec<[FieldId; 8]>). Unlike Rust's SmallVec, the field list here
// is a plain heap-allocated slice with no inline capacity: Go has no
// inline-then-spill vector in the standard library, so every non-empty
// Signature costs one allocation for its field list.
type Signature struct {
	fields []FieldId
	bits   mask.Mask256
}

// NewSignature builds a Signature from an arbitrary set of FieldIds,
// sorting and deduplicating them.
func NewSignature(fields ...FieldId) Signature {
	cp := append([]FieldId(nil), fields...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	cp = dedupSorted(cp)
	return Signature{fields: cp, bits: bitsFor(cp)}
}

func dedupSorted(sorted []FieldId) []FieldId {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, f := range sorted[1:] {
		if out[len(out)-1] != f {
			out = append(out, f)
		}
	}
	return out
}

func bitsFor(fields []FieldId) mask.Mask256 {
	var m mask.Mask256
	for _, f := range fields {
		if ord, ok := f.AsEntityIndex(); ok {
			m.Mark(int(ord % 256))
		}
	}
	return m
}

// Len returns the number of distinct fields in the signature.
func (s Signature) Len() int {
	return len(s.fields)
}

// Fields returns the sorted field list. Callers must not mutate it.
func (s Signature) Fields() []FieldId {
	return s.fields
}

// Bits returns the derived Mask256 bitset cache for this signature, for
// use by an external query layer doing coarse candidate filtering before
// falling back to Contains for exact membership. This is a secondary,
// lossy cache (fields with ordinal >= 256 alias into the same bit) —
// never the canonical identity of the signature; see DESIGN.md.
func (s Signature) Bits() mask.Mask256 {
	return s.bits
}

// Contains reports whether f is a member of the signature. Binary search
// over the sorted slice; O(log n).
func (s Signature) Contains(f FieldId) bool {
	i := sort.Search(len(s.fields), func(i int) bool { return s.fields[i] >= f })
	return i < len(s.fields) && s.fields[i] == f
}

// ContainsAll reports whether every field of other is present in s.
func (s Signature) ContainsAll(other Signature) bool {
	for _, f := range other.fields {
		if !s.Contains(f) {
			return false
		}
	}
	return true
}

// With returns a new Signature with f inserted (no-op if already
// present).
func (s Signature) With(f FieldId) Signature {
	if s.Contains(f) {
		return s
	}
	out := make([]FieldId, 0, len(s.fields)+1)
	inserted := false
	for _, existing := range s.fields {
		if !inserted && f < existing {
			out = append(out, f)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, f)
	}
	return Signature{fields: out, bits: bitsFor(out)}
}

// Without returns a new Signature with f removed (no-op if absent).
func (s Signature) Without(f FieldId) Signature {
	if !s.Contains(f) {
		return s
	}
	out := make([]FieldId, 0, len(s.fields)-1)
	for _, existing := range s.fields {
		if existing != f {
			out = append(out, existing)
		}
	}
	return Signature{fields: out, bits: bitsFor(out)}
}

// Equal reports whether s and other contain exactly the same fields.
func (s Signature) Equal(other Signature) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i, f := range s.fields {
		if other.fields[i] != f {
			return false
		}
	}
	return true
}

// EachShared walks s and other in lock-step, calling visit once for every
// field present in both, in ascending order. Because both slices are
// sorted this is a single merge-join pass: O(len(s)+len(other)) with no
// per-field search: it advances whichever side is behind instead of
// rescanning from the start.
//
// Grounded on original_source/src/world/archetype.rs each_shared, the
// skip-ahead merge used to walk an archetype's edges against a target
// signature during graph connection.
func (s Signature) EachShared(other Signature, visit func(FieldId)) {
	i, j := 0, 0
	for i < len(s.fields) && j < len(other.fields) {
		switch {
		case s.fields[i] < other.fields[j]:
			i++
		case s.fields[i] > other.fields[j]:
			j++
		default:
			visit(s.fields[i])
			i++
			j++
		}
	}
}

// key returns a canonical string encoding of the sorted field list, for
// use as a map key: Signature itself is not comparable (it embeds a
// slice), so Core's signature_index is keyed on this instead of on
// Signature values directly.
func (s Signature) key() string {
	b := make([]byte, 8*len(s.fields))
	for i, f := range s.fields {
		binary.LittleEndian.PutUint64(b[i*8:], uint64(f))
	}
	return string(b)
}

// Diff reports the single field present in exactly one of s or other,
// when the two signatures differ by exactly one field (the shape of an
// archetype-graph edge). ok is false otherwise.
func (s Signature) Diff(other Signature) (field FieldId, addedToOther bool, ok bool) {
	longer, shorter, added := s, other, false
	if len(other.fields) > len(s.fields) {
		longer, shorter, added = other, s, true
	}
	if len(longer.fields) != len(shorter.fields)+1 {
		return 0, false, false
	}
	i, j := 0, 0
	var diff FieldId
	found := false
	for i < len(longer.fields) {
		if j < len(shorter.fields) && longer.fields[i] == shorter.fields[j] {
			i++
			j++
			continue
		}
		if found {
			return 0, false, false
		}
		diff = longer.fields[i]
		found = true
		i++
	}
	if !found {
		return 0, false, false
	}
	return diff, added, true
}
