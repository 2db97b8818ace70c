package silo

import (
	"fmt"
	"iter"
)

// Entity identifies a live object by index and generation. An index is
// reused only after its generation increments, so a stale handle never
// matches the slot's new occupant. The zero Entity is never alive:
// generations are issued starting at 1.
type Entity struct {
	Index      uint32 `cbor:"index"`
	Generation uint32 `cbor:"generation"`
}

func (e Entity) String() string {
	return fmt.Sprintf("entity(%d v%d)", e.Index, e.Generation)
}

// Entities issues and recycles entity identifiers. Create always reuses the
// smallest currently-free index before extending capacity.
type Entities struct {
	generations []uint32
	alive       Bitset
	count       int
}

func newEntities() *Entities {
	e := &Entities{}
	if n := Config.entityCapacity; n > 0 {
		e.generations = make([]uint32, 0, n)
	}
	return e
}

func (en *Entities) Create() Entity {
	idx := en.alive.NextFree(0)
	if int(idx) == len(en.generations) {
		en.generations = append(en.generations, 1)
	}
	en.alive.Set(idx)
	en.count++
	return Entity{Index: idx, Generation: en.generations[idx]}
}

// Kill frees e's index and bumps its generation. Killing a dead or stale
// handle is a no-op returning false, not an error.
func (en *Entities) Kill(e Entity) bool {
	if !en.Alive(e) {
		return false
	}
	en.generations[e.Index]++
	en.alive.Unset(e.Index)
	en.count--
	return true
}

func (en *Entities) Alive(e Entity) bool {
	return int(e.Index) < len(en.generations) &&
		en.alive.Contains(e.Index) &&
		en.generations[e.Index] == e.Generation
}

func (en *Entities) Count() int { return en.count }

// Capacity is the high-water mark of issued indices.
func (en *Entities) Capacity() int { return len(en.generations) }

// Bitset exposes the live set for seeding joins. Callers must not modify it.
func (en *Entities) Bitset() *Bitset { return &en.alive }

// All iterates live entities in ascending index order.
func (en *Entities) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := range en.alive.All() {
			if !yield(Entity{Index: i, Generation: en.generations[i]}) {
				return
			}
		}
	}
}

// generationOf reports the slot's current generation whether or not the
// index is live, and 0 for indices never issued.
func (en *Entities) generationOf(i uint32) uint32 {
	if int(i) < len(en.generations) {
		return en.generations[i]
	}
	return 0
}
