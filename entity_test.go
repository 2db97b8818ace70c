package silo

import (
	"slices"
	"testing"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func TestEntityLifecycle(t *testing.T) {
	en := Factory.NewEntities()

	first := en.Create()
	if !en.Alive(first) {
		t.Fatal("freshly created entity is not alive")
	}
	if first.Generation == 0 {
		t.Error("generations must start above zero")
	}

	if !en.Kill(first) {
		t.Fatal("Kill on a live entity returned false")
	}
	if en.Alive(first) {
		t.Error("killed entity still alive")
	}

	second := en.Create()
	if second.Index != first.Index {
		t.Errorf("freed index not reused: got %d, want %d", second.Index, first.Index)
	}
	if second.Generation <= first.Generation {
		t.Errorf("generation did not increase: got %d, had %d", second.Generation, first.Generation)
	}
	if en.Alive(first) {
		t.Error("stale handle reads as alive after index reuse")
	}
	if !en.Alive(second) {
		t.Error("new occupant of reused index is not alive")
	}
}

func TestEntitySmallestFreeIndex(t *testing.T) {
	en := Factory.NewEntities()

	var ents []Entity
	for i := 0; i < 5; i++ {
		ents = append(ents, en.Create())
	}

	en.Kill(ents[3])
	en.Kill(ents[1])

	if got := en.Create(); got.Index != 1 {
		t.Errorf("Create() reused index %d, want 1", got.Index)
	}
	if got := en.Create(); got.Index != 3 {
		t.Errorf("Create() reused index %d, want 3", got.Index)
	}
	if got := en.Create(); got.Index != 5 {
		t.Errorf("Create() extended to index %d, want 5", got.Index)
	}
}

func TestEntityKillStale(t *testing.T) {
	en := Factory.NewEntities()

	e := en.Create()
	if !en.Kill(e) {
		t.Fatal("first Kill returned false")
	}
	if en.Kill(e) {
		t.Error("second Kill of the same handle returned true")
	}

	reborn := en.Create()
	if en.Kill(e) {
		t.Error("Kill with a stale generation returned true")
	}
	if !en.Alive(reborn) {
		t.Error("stale Kill affected the live occupant")
	}
	if en.Count() != 1 {
		t.Errorf("Count() = %d, want 1", en.Count())
	}
}

func TestEntitiesAll(t *testing.T) {
	en := Factory.NewEntities()

	var created []Entity
	for i := 0; i < 6; i++ {
		created = append(created, en.Create())
	}
	en.Kill(created[0])
	en.Kill(created[4])

	var got []Entity
	for e := range en.All() {
		got = append(got, e)
	}

	want := []Entity{created[1], created[2], created[3], created[5]}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestEntityZeroValueNeverAlive(t *testing.T) {
	en := Factory.NewEntities()
	if en.Alive(Entity{}) {
		t.Error("zero entity alive in empty allocator")
	}
	en.Create()
	if en.Alive(Entity{}) {
		t.Error("zero entity alive after index 0 was issued")
	}
}

func TestEntityCountAndCapacity(t *testing.T) {
	en := Factory.NewEntities()
	for i := 0; i < 10; i++ {
		en.Create()
	}
	if en.Count() != 10 || en.Capacity() != 10 {
		t.Fatalf("Count, Capacity = %d, %d, want 10, 10", en.Count(), en.Capacity())
	}

	live := slices.Collect(en.All())
	for _, e := range live {
		if e.Index%2 == 0 {
			en.Kill(e)
		}
	}
	if en.Count() != 5 {
		t.Errorf("Count() after kills = %d, want 5", en.Count())
	}
	if en.Capacity() != 10 {
		t.Errorf("Capacity() after kills = %d, want 10 (high-water mark)", en.Capacity())
	}
}
