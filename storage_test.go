package ecs

import "testing"

func TestSignatureSortAndDedup(t *testing.T) {
	tests := []struct {
		name  string
		in    []FieldId
		wantN int
	}{
		{"already sorted", []FieldId{1, 2, 3}, 3},
		{"reverse order", []FieldId{3, 2, 1}, 3},
		{"duplicates", []FieldId{2, 1, 2, 1, 3}, 3},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := NewSignature(tt.in...)
			if sig.Len() != tt.wantN {
				t.Fatalf("Len() = %d, want %d", sig.Len(), tt.wantN)
			}
			fields := sig.Fields()
			for i := 1; i < len(fields); i++ {
				if fields[i-1] >= fields[i] {
					t.Fatalf("fields not strictly increasing at %d: %v", i, fields)
				}
			}
		})
	}
}

func TestSignatureWithWithout(t *testing.T) {
	base := NewSignature(1, 3)

	withTwo := base.With(2)
	if !withTwo.Contains(2) || withTwo.Len() != 3 {
		t.Fatalf("With(2) = %+v, missing field or wrong length", withTwo.Fields())
	}
	if base.Contains(2) {
		t.Fatalf("With must not mutate the receiver")
	}

	withoutOne := withTwo.Without(1)
	if withoutOne.Contains(1) || withoutOne.Len() != 2 {
		t.Fatalf("Without(1) = %+v, field still present", withoutOne.Fields())
	}

	noop := base.Without(99)
	if !noop.Equal(base) {
		t.Fatalf("Without of an absent field should be a no-op")
	}
}

func TestSignatureEachShared(t *testing.T) {
	a := NewSignature(1, 2, 4, 6)
	b := NewSignature(2, 3, 4, 5)

	var shared []FieldId
	a.EachShared(b, func(f FieldId) { shared = append(shared, f) })

	want := []FieldId{2, 4}
	if len(shared) != len(want) {
		t.Fatalf("EachShared found %v, want %v", shared, want)
	}
	for i, f := range want {
		if shared[i] != f {
			t.Fatalf("EachShared found %v, want %v", shared, want)
		}
	}
}

func TestSignatureDiff(t *testing.T) {
	base := NewSignature(1, 2)
	plusThree := NewSignature(1, 2, 3)

	field, addedToOther, ok := base.Diff(plusThree)
	if !ok || field != 3 || !addedToOther {
		t.Fatalf("Diff(base, plusThree) = %v %v %v, want 3 true true", field, addedToOther, ok)
	}

	_, _, ok = base.Diff(NewSignature(9, 10))
	if ok {
		t.Fatalf("Diff should report ok=false for signatures differing by more than one field")
	}
}

func TestColumnSwapDrop(t *testing.T) {
	info := ComponentInfo{Name: "Position", Size: 16, ID: 1}
	col := NewColumn(info, 0)

	row0 := make([]byte, 16)
	row1 := make([]byte, 16)
	row1[0] = 1
	col.WriteInto(row0)
	col.WriteInto(row1)

	if col.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", col.Len())
	}

	col.SwapDrop(0)
	if col.Len() != 1 {
		t.Fatalf("Len() after SwapDrop = %d, want 1", col.Len())
	}
	if col.At(0)[0] != 1 {
		t.Fatalf("row 0 after SwapDrop should hold the former last row")
	}
}

func TestColumnWriteAtAppendsOrOverwrites(t *testing.T) {
	var drops int
	info := ComponentInfo{Name: "Position", Size: 8, ID: 1, Drop: func(row []byte) { drops++ }}
	col := NewColumn(info, 0)

	first := make([]byte, 8)
	first[0] = 1
	col.WriteAt(0, first)
	if col.Len() != 1 {
		t.Fatalf("WriteAt at a new row should append: Len() = %d, want 1", col.Len())
	}
	if col.At(0)[0] != 1 {
		t.Fatalf("appended row has wrong bytes")
	}
	if drops != 0 {
		t.Fatalf("appending a fresh row must not run the drop thunk")
	}

	second := make([]byte, 8)
	second[0] = 2
	col.WriteAt(0, second)
	if col.Len() != 1 {
		t.Fatalf("WriteAt over an existing row must not grow Len: Len() = %d, want 1", col.Len())
	}
	if col.At(0)[0] != 2 {
		t.Fatalf("WriteAt should have overwritten row 0")
	}
	if drops != 1 {
		t.Fatalf("overwriting an existing row must run the drop thunk on the old value, got %d drops", drops)
	}
}

func TestColumnShrinkToFitDropsTruncatedTail(t *testing.T) {
	var dropped []byte
	info := ComponentInfo{Name: "Handle", Size: 8, ID: 4, Drop: func(row []byte) { dropped = append(dropped, row[0]) }}
	col := NewColumn(info, 0)

	for i := byte(0); i < 4; i++ {
		row := make([]byte, 8)
		row[0] = i
		col.WriteInto(row)
	}

	col.ShrinkToFit(2)

	if col.Len() != 2 {
		t.Fatalf("Len() after ShrinkToFit(2) = %d, want 2", col.Len())
	}
	if len(dropped) != 2 || dropped[0] != 2 || dropped[1] != 3 {
		t.Fatalf("ShrinkToFit should drop rows [2,4) in order, got %v", dropped)
	}
	if col.At(0)[0] != 0 || col.At(1)[0] != 1 {
		t.Fatalf("ShrinkToFit must leave rows [0,2) untouched")
	}
}

func TestColumnShrinkToFitZST(t *testing.T) {
	info := ComponentInfo{Name: "Tag", Size: 0, ID: 5}
	col := NewColumn(info, 0)
	col.WriteInto(nil)
	col.WriteInto(nil)
	col.WriteInto(nil)

	col.ShrinkToFit(1)
	if col.Len() != 1 {
		t.Fatalf("Len() after ShrinkToFit(1) on a ZST column = %d, want 1", col.Len())
	}
}

func TestColumnShrinkToFitRejectsGrowth(t *testing.T) {
	info := ComponentInfo{Name: "Position", Size: 8, ID: 6}
	col := NewColumn(info, 0)
	col.WriteInto(make([]byte, 8))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected ShrinkToFit(targetRows > Len) to panic")
		}
	}()
	col.ShrinkToFit(2)
}

func TestColumnCompactCapacityPreservesRowsAndLen(t *testing.T) {
	info := ComponentInfo{Name: "Position", Size: 8, ID: 7}
	col := NewColumn(info, 8)
	for i := byte(0); i < 3; i++ {
		row := make([]byte, 8)
		row[0] = i
		col.WriteInto(row)
	}

	col.CompactCapacity()

	if col.Len() != 3 {
		t.Fatalf("CompactCapacity must not change Len(), got %d", col.Len())
	}
	for i := byte(0); i < 3; i++ {
		if col.At(int(i))[0] != i {
			t.Fatalf("CompactCapacity must not disturb row contents at %d", i)
		}
	}
}

func TestColumnZSTIsNoop(t *testing.T) {
	info := ComponentInfo{Name: "Tag", Size: 0, ID: 2}
	col := NewColumn(info, 0)

	col.WriteInto(nil)
	col.WriteInto(nil)
	if col.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", col.Len())
	}
	if col.At(0) != nil {
		t.Fatalf("At on a ZST column should return nil")
	}
}

func TestColumnDropThunkRunsOnSwapDrop(t *testing.T) {
	var drops int
	info := ComponentInfo{Name: "Handle", Size: 8, ID: 3, Drop: func(row []byte) { drops++ }}
	col := NewColumn(info, 0)
	col.WriteInto(make([]byte, 8))
	col.WriteInto(make([]byte, 8))

	col.SwapDrop(1)
	if drops != 1 {
		t.Fatalf("drop thunk ran %d times, want 1", drops)
	}
}

func TestEntityIndexInsertRemoveReuse(t *testing.T) {
	ix := NewEntityIndex()

	e1 := ix.Insert(EntityLocation{Archetype: 0, Row: 0})
	e2 := ix.Insert(EntityLocation{Archetype: 0, Row: 1})

	if e1.Index() == e2.Index() {
		t.Fatalf("distinct inserts got the same index")
	}

	if _, ok := ix.Remove(e1); !ok {
		t.Fatalf("Remove(e1) failed")
	}
	if _, ok := ix.Get(e1); ok {
		t.Fatalf("Get(e1) should fail after Remove")
	}

	e3 := ix.Insert(EntityLocation{Archetype: 0, Row: 2})
	if e3.Index() != e1.Index() {
		t.Fatalf("expected slot reuse: e3.Index()=%d, e1.Index()=%d", e3.Index(), e1.Index())
	}
	if e3.Generation() == e1.Generation() {
		t.Fatalf("reused slot must bump generation")
	}
}

func TestEntityIndexDisjoint(t *testing.T) {
	ix := NewEntityIndex()
	e1 := ix.Insert(EntityLocation{Row: 0})
	e2 := ix.Insert(EntityLocation{Row: 1})

	locs, ok := ix.Disjoint(e1, e2)
	if !ok || len(locs) != 2 {
		t.Fatalf("Disjoint(e1, e2) failed: %v %v", locs, ok)
	}

	ix.Remove(e2)
	if _, ok := ix.Disjoint(e1, e2); ok {
		t.Fatalf("Disjoint should fail once any handle is stale")
	}
}

func TestCoreInsertBytesCreatesArchetype(t *testing.T) {
	world := Factory.NewWorld()
	core := world.core

	e := core.CreateUninitializedEntity()
	core.InitializeEntityLocation(e)

	posInfo := RegisterComponent[Position]()
	core.InsertBytes(posInfo, encodeValue(Position{X: 1, Y: 2}), e)

	loc, ok := core.EntityLocation(e)
	if !ok {
		t.Fatalf("entity not found after InsertBytes")
	}
	arche := core.Archetype(loc.Archetype)
	if !arche.Signature().Contains(posInfo.ID) {
		t.Fatalf("archetype signature missing Position field")
	}

	velInfo := RegisterComponent[Velocity]()
	core.InsertBytes(velInfo, encodeValue(Velocity{X: 3, Y: 4}), e)

	loc2, _ := core.EntityLocation(e)
	if loc2.Archetype == loc.Archetype {
		t.Fatalf("inserting a second field should migrate to a new archetype")
	}

	again := core.CreateArchetype(NewSignature(posInfo.ID, velInfo.ID))
	if again != loc2.Archetype {
		t.Fatalf("CreateArchetype should return the existing archetype for an identical signature")
	}
}

func TestCoreRemoveFieldMigratesBack(t *testing.T) {
	world := Factory.NewWorld()
	core := world.core

	e := core.CreateUninitializedEntity()
	core.InitializeEntityLocation(e)

	posInfo := RegisterComponent[Position]()
	velInfo := RegisterComponent[Velocity]()
	core.InsertBytes(posInfo, encodeValue(Position{X: 1}), e)
	core.InsertBytes(velInfo, encodeValue(Velocity{X: 2}), e)

	core.RemoveField(velInfo.ID, e)

	loc, _ := core.EntityLocation(e)
	arche := core.Archetype(loc.Archetype)
	if arche.Signature().Contains(velInfo.ID) {
		t.Fatalf("Velocity field should have been removed")
	}
	if !arche.Signature().Contains(posInfo.ID) {
		t.Fatalf("Position field should have survived the migration")
	}
}

func TestCoreRemoveFieldShrinksOldColumn(t *testing.T) {
	world := Factory.NewWorld()
	core := world.core

	e1 := core.CreateUninitializedEntity()
	core.InitializeEntityLocation(e1)
	e2 := core.CreateUninitializedEntity()
	core.InitializeEntityLocation(e2)

	posInfo := RegisterComponent[Position]()
	velInfo := RegisterComponent[Velocity]()
	core.InsertBytes(posInfo, encodeValue(Position{X: 1}), e1)
	core.InsertBytes(velInfo, encodeValue(Velocity{X: 10}), e1)
	core.InsertBytes(posInfo, encodeValue(Position{X: 2}), e2)
	core.InsertBytes(velInfo, encodeValue(Velocity{X: 20}), e2)

	locBefore, _ := core.EntityLocation(e1)
	archeBefore := core.Archetype(locBefore.Archetype)
	if archeBefore.Len() != 2 {
		t.Fatalf("both entities should share the {Position,Velocity} archetype, got Len()=%d", archeBefore.Len())
	}

	core.RemoveField(velInfo.ID, e1)

	// e2 never moved; its archetype must still hold exactly e2's row with
	// no leftover row from e1's departure corrupting its Velocity column.
	if archeBefore.Len() != 1 {
		t.Fatalf("old archetype should have exactly 1 entity left, got %d", archeBefore.Len())
	}
	velIdx := archeBefore.ColumnIndexOf(velInfo.ID)
	if archeBefore.Column(velIdx).Len() != 1 {
		t.Fatalf("old archetype's Velocity column should shrink with the entity list, got Len()=%d", archeBefore.Column(velIdx).Len())
	}
	loc2, _ := core.EntityLocation(e2)
	if loc2.Archetype != locBefore.Archetype || loc2.Row != 0 {
		t.Fatalf("e2 should now be the sole occupant of the old archetype at row 0, got %+v", loc2)
	}
	vel := *typedView[Velocity](archeBefore.Column(velIdx), loc2.Row)
	if vel.X != 20 {
		t.Fatalf("Velocity column should still hold e2's value after e1 left, got %+v", vel)
	}
}

func TestComponentInfoRoundTrip(t *testing.T) {
	world := Factory.NewWorld()

	posInfo := RegisterComponent[Position]()
	componentEntity := Entity(NewEntity(posInfo.ID.Second(), 1))

	got, ok := world.ComponentInfo(componentEntity)
	if !ok {
		t.Fatalf("ComponentInfo lookup failed for %v", componentEntity)
	}
	if got.Name != "Position" || got.Size != posInfo.Size {
		t.Fatalf("ComponentInfo = %+v, want Name=Position Size=%d", got, posInfo.Size)
	}
}
