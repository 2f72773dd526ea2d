package ecs

import "unsafe"

// Column is the dense, type-erased, byte-chunked backing store for one
// field of one archetype: row i's bytes live at data[i*stride:(i+1)*stride].
// A ZST field (Stride == 0) stores no bytes at all: its Column only
// counts rows (WriteInto, SwapDrop, MoveInto and ShrinkToFit adjust Len),
// and At returns nil for it.
//
// Grounded on original_source/src/world/archetype.rs Column
// (write_into/move_into/shrink_to_fit/swap_drop/Drop for Column); the
// pointer-arithmetic storage mechanics follow edwinsyarief-lazyecs
// functions.go's unsafe.Add(compPointers[id], index*size) pattern, the
// corpus's idiom for type-erased component storage in Go.
type Column struct {
	info   ComponentInfo
	stride int
	data   []byte
	len    int
}

// NewColumn allocates an empty Column for info, pre-sizing its backing
// buffer for capacityHint rows (0 defers allocation to the first write).
func NewColumn(info ComponentInfo, capacityHint int) *Column {
	c := &Column{info: info, stride: info.Size}
	if c.stride > 0 && capacityHint > 0 {
		c.data = make([]byte, 0, capacityHint*c.stride)
	}
	return c
}

// Len returns the number of rows currently stored.
func (c *Column) Len() int {
	return c.len
}

// IsZST reports whether this column's field carries no data.
func (c *Column) IsZST() bool {
	return c.stride == 0
}

// row returns the byte slice for row i without bounds-checking beyond a
// panic; callers are expected to have already validated i against Len.
func (c *Column) row(i int) []byte {
	start := i * c.stride
	return c.data[start : start+c.stride : start+c.stride]
}

// WriteInto appends src (exactly Stride bytes, or any length for a ZST
// field, which ignores it) as a new row and returns its index.
//
// Grounded on original_source/src/world/archetype.rs Column::write_into.
func (c *Column) WriteInto(src []byte) int {
	idx := c.len
	if c.stride == 0 {
		c.len++
		return idx
	}
	if len(src) != c.stride {
		panic(SizeMismatchError{Field: c.info.ID, Declared: c.stride, Got: len(src)})
	}
	c.data = append(c.data, src...)
	c.len++
	return idx
}

// WriteAt places src as row i's value: overwriting (and dropping the old
// value) if row i already exists, or appending a fresh row otherwise.
// This is the row-addressed form Core.InsertBytes needs, since a field
// newly added to an entity has no existing row in its destination
// column yet, while a field the entity already carried does.
//
// Grounded on original_source/src/world/archetype.rs Column::write_into,
// whose row < no_chunks()/else branches are exactly this overwrite/append
// split.
func (c *Column) WriteAt(i int, src []byte) {
	if i < c.len {
		c.Set(i, src)
		return
	}
	c.WriteInto(src)
}

// At returns the raw bytes for row i. The returned slice aliases the
// column's backing array and is only valid until the next structural
// mutation (WriteInto/WriteAt/MoveInto/SwapDrop/ShrinkToFit/
// CompactCapacity) on this column.
func (c *Column) At(i int) []byte {
	if c.stride == 0 {
		return nil
	}
	if i < 0 || i >= c.len {
		panic(ComponentNotFoundError{Field: c.info.ID})
	}
	return c.row(i)
}

// Set overwrites row i in place with src, running the drop thunk on the
// old value first if one is registered.
func (c *Column) Set(i int, src []byte) {
	if c.stride == 0 {
		return
	}
	dst := c.row(i)
	if c.info.Drop != nil {
		c.info.Drop(dst)
	}
	copy(dst, src)
}

// MoveInto relocates row i of c into dst as a new row, then removes row i
// from c by swap-remove without running the drop thunk (ownership of the
// value went to dst). Used when an entity migrates to a different
// archetype: every field it keeps is moved, not copied-then-dropped,
// because its old row is about to be destroyed anyway.
//
// Grounded on original_source/src/world/archetype.rs Column::move_into:
// the source row is memcpy'd into the destination's freshly grown tail,
// then the hole in the source is closed with the swap-last-into-hole
// pattern (swap_drop) rather than a shift, to keep removal O(1).
func (c *Column) MoveInto(i int, dst *Column) int {
	if c.stride == 0 {
		dst.WriteInto(nil)
		c.SwapDrop(i)
		return dst.len - 1
	}
	src := c.row(i)
	newIdx := dst.WriteInto(src)
	c.swapDropNoDrop(i)
	return newIdx
}

// SwapDrop removes row i by running its drop thunk, then swapping the
// last row into its place and truncating (the classic swap-remove; it
// does not preserve row order). A no-op shape check against i's bounds
// guards the ZST fast path.
//
// Grounded on original_source/src/world/archetype.rs Column::swap_drop.
func (c *Column) SwapDrop(i int) {
	if c.stride == 0 {
		if i < 0 || i >= c.len {
			panic(ComponentNotFoundError{Field: c.info.ID})
		}
		c.len--
		return
	}
	if c.info.Drop != nil {
		c.info.Drop(c.row(i))
	}
	c.swapDropNoDrop(i)
}

// swapDropNoDrop does the swap-and-truncate without invoking the drop
// thunk, for callers (MoveInto) that have already relocated the row's
// ownership elsewhere and must not double-drop it.
func (c *Column) swapDropNoDrop(i int) {
	last := c.len - 1
	if i != last {
		copy(c.row(i), c.row(last))
	}
	c.data = c.data[:last*c.stride]
	c.len--
}

// ShrinkToFit truncates the column to targetRows: every row in
// [targetRows, Len) has its drop thunk run (if one is registered), then
// the column's length becomes exactly targetRows. targetRows must be
// <= Len.
//
// Grounded on original_source/src/world/archetype.rs
// Column::shrink_to_fit, whose contract is precisely this
// drop-then-truncate over the removed tail, not a capacity compaction.
func (c *Column) ShrinkToFit(targetRows int) {
	if targetRows < 0 || targetRows > c.len {
		panic(SizeMismatchError{Field: c.info.ID, Declared: c.len, Got: targetRows})
	}
	if c.stride == 0 {
		c.len = targetRows
		return
	}
	if c.info.Drop != nil {
		for i := targetRows; i < c.len; i++ {
			c.info.Drop(c.row(i))
		}
	}
	c.data = c.data[:targetRows*c.stride]
	c.len = targetRows
}

// CompactCapacity releases any backing capacity beyond what Len
// currently needs, without touching row count or running any drop
// thunk. Used opportunistically after a structural change already
// handled row removal (e.g. Core.moveEntity's per-field SwapDrop loop)
// to keep long-lived archetypes from retaining stale headroom.
func (c *Column) CompactCapacity() {
	if c.stride == 0 || cap(c.data) == len(c.data) {
		return
	}
	tight := make([]byte, len(c.data))
	copy(tight, c.data)
	c.data = tight
}

// Drop runs every row's drop thunk and clears the column. Called when the
// owning archetype itself is torn down.
//
// Grounded on original_source/src/world/archetype.rs Drop for Column.
func (c *Column) Drop() {
	if c.info.Drop != nil && c.stride > 0 {
		for i := 0; i < c.len; i++ {
			c.info.Drop(c.row(i))
		}
	}
	c.data = nil
	c.len = 0
}

// typedView reinterprets row i's bytes as *T without copying. Used by
// View/ColumnGuard to hand back a typed pointer while the flush gate
// holds the row stable.
func typedView[T any](c *Column, i int) *T {
	if c.stride == 0 {
		panic(ComponentNotFoundError{Field: c.info.ID})
	}
	row := c.row(i)
	return (*T)(unsafe.Pointer(&row[0]))
}
