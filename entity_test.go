package ecs

import "testing"

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func TestEntitySpawnAndFlush(t *testing.T) {
	world := Factory.NewWorld()

	tests := []struct {
		name   string
		insert func(v View)
		want   int
	}{
		{"single component", func(v View) { ViewInsert(v, Position{X: 1, Y: 2}) }, 1},
		{"two components", func(v View) {
			ViewInsert(v, Position{X: 1, Y: 2})
			ViewInsert(v, Velocity{X: 3, Y: 4})
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := world.Spawn()
			tt.insert(world.View(e))
			world.Flush()

			if _, ok := world.GetEntity(e); !ok {
				t.Fatalf("entity %v not live after flush", e)
			}
		})
	}
}

func TestComponentInsertSignatureLen(t *testing.T) {
	world := Factory.NewWorld()

	tests := []struct {
		name       string
		initial    []any
		finalCount int
	}{
		{
			name:       "single component",
			initial:    []any{Position{X: 1}},
			finalCount: 1,
		},
		{
			name:       "two components",
			initial:    []any{Position{X: 1}, Velocity{X: 2}},
			finalCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := world.Spawn()
			v := world.View(e)
			for _, c := range tt.initial {
				switch val := c.(type) {
				case Position:
					ViewInsert(v, val)
				case Velocity:
					ViewInsert(v, val)
				}
			}
			world.Flush()

			loc, ok := world.core.EntityLocation(e)
			if !ok {
				t.Fatalf("entity not found")
			}
			arche := world.core.Archetype(loc.Archetype)
			if arche.Signature().Len() != tt.finalCount {
				t.Errorf("signature has %d fields, want %d", arche.Signature().Len(), tt.finalCount)
			}
		})
	}
}

func TestComponentRemoveMigratesArchetype(t *testing.T) {
	world := Factory.NewWorld()

	e := world.Spawn()
	v := world.View(e)
	ViewInsert(v, Position{X: 1})
	ViewInsert(v, Velocity{X: 2})
	world.Flush()

	ViewRemove[Velocity](v)
	world.Flush()

	if ViewHas[Velocity](v) {
		t.Errorf("entity should no longer carry Velocity")
	}
	if !ViewHas[Position](v) {
		t.Errorf("entity should still carry Position")
	}

	if _, ok := ViewGet[Velocity](v); ok {
		t.Errorf("ViewGet on a just-removed field should report ok=false, not panic")
	}
}

func TestComponentValuesRoundTrip(t *testing.T) {
	world := Factory.NewWorld()

	e := world.Spawn()
	v := world.View(e)
	ViewInsert(v, Position{X: 1, Y: 2})
	ViewInsert(v, Velocity{X: 3, Y: 4})
	world.Flush()

	posGuard, ok := ViewGet[Position](v)
	if !ok {
		t.Fatalf("expected Position to be present")
	}
	pos := posGuard.Value()
	if pos.X != 1 || pos.Y != 2 {
		t.Errorf("Position = %+v, want {1 2}", *pos)
	}
	pos.X = 5
	pos.Y = 6
	posGuard.Close()

	velGuard, ok := ViewGet[Velocity](v)
	if !ok {
		t.Fatalf("expected Velocity to be present")
	}
	vel := velGuard.Value()
	if vel.X != 3 || vel.Y != 4 {
		t.Errorf("Velocity = %+v, want {3 4}", *vel)
	}
	velGuard.Close()

	posGuard2, ok := ViewGet[Position](v)
	if !ok {
		t.Fatalf("expected Position to still be present")
	}
	if posGuard2.Value().X != 5 || posGuard2.Value().Y != 6 {
		t.Errorf("updated Position = %+v, want {5 6}", *posGuard2.Value())
	}
	posGuard2.Close()
}

func TestEntityGenerationNeverAliases(t *testing.T) {
	world := Factory.NewWorld()

	e1 := world.Spawn()
	world.Flush()
	world.View(e1).Despawn()
	world.Flush()

	e2 := world.Spawn()
	world.Flush()

	if e1.Index() != e2.Index() {
		t.Skip("slot reuse did not land on the same index this run")
	}
	if e1.Generation() == e2.Generation() {
		t.Fatalf("reused slot kept the same generation: %d", e1.Generation())
	}
	if _, ok := world.GetEntity(e1); ok {
		t.Fatalf("stale handle e1 reported live")
	}
}

func TestDespawnRemovesEntity(t *testing.T) {
	world := Factory.NewWorld()

	e := world.Spawn()
	ViewInsert(world.View(e), Health{Current: 10, Max: 10})
	world.Flush()

	world.View(e).Despawn()
	world.Flush()

	if _, ok := world.GetEntity(e); ok {
		t.Fatalf("entity still live after despawn")
	}
}

func TestFlushWhileGuardOpenPanics(t *testing.T) {
	world := Factory.NewWorld()
	e := world.Spawn()
	ViewInsert(world.View(e), Position{X: 1})
	world.Flush()

	guard, ok := ViewGet[Position](world.View(e))
	if !ok {
		t.Fatalf("expected Position to be present")
	}
	defer guard.Close()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected Flush to panic while a ColumnGuard is open")
		}
	}()
	world.Flush()
}

func TestZeroSizedComponentGetPanics(t *testing.T) {
	type Tag struct{}
	world := Factory.NewWorld()
	e := world.Spawn()
	ViewInsert(world.View(e), Tag{})
	world.Flush()

	if !ViewHas[Tag](world.View(e)) {
		t.Fatalf("entity should carry Tag")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected ViewGet on a ZST to panic")
		}
	}()
	_, _ = ViewGet[Tag](world.View(e))
}
