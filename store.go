package silo

import (
	"iter"
)

// UntypedComponentStore holds one component type without compile-time
// knowledge of it: a schema, a presence bitset keyed by entity index, a
// dense type-erased column, and the sparse/dense index pair tying them
// together. An index's bit is set iff a value for it occupies a dense slot;
// the two are mutually consistent whenever an operation has returned.
//
// Structural changes invalidate running iterators. Inside a system, defer
// removals to the stage boundary with World.EnqueueKill instead of removing
// mid-iteration.
type UntypedComponentStore struct {
	schema *Schema
	col    column
	bits   Bitset
	dense  []Entity
	sparse []uint32
}

func newUntypedStore(reg *registration) *UntypedComponentStore {
	s := &UntypedComponentStore{
		schema: reg.schema,
		col:    reg.newColumn(),
	}
	if n := Config.storeCapacity; n > 0 {
		s.dense = make([]Entity, 0, n)
	}
	return s
}

// Insert stores v for e, returning the previous value when e already had
// one. A live handle with a different generation than the slot's current
// entry takes the slot over; the stale value is dropped, not reported.
// v's dynamic type must match the store's schema. The typed boundary
// guarantees this, and a direct untyped violation fails in the column's
// type assertion.
func (s *UntypedComponentStore) Insert(e Entity, v any) (any, bool) {
	if s.bits.Contains(e.Index) {
		slot := s.sparse[e.Index]
		if s.dense[slot].Generation == e.Generation {
			prev := s.col.copyValue(int(slot))
			s.col.set(int(slot), v)
			return prev, true
		}
		s.dense[slot] = e
		s.col.set(int(slot), v)
		return nil, false
	}

	slot := uint32(s.col.push(v))
	s.dense = append(s.dense, e)
	s.ensureSparse(e.Index)
	s.sparse[e.Index] = slot
	s.bits.Set(e.Index)
	return nil, false
}

// Get returns a reference into the dense column, or false when e is absent.
// A stale generation reads as absent.
func (s *UntypedComponentStore) Get(e Entity) (any, bool) {
	slot, ok := s.slotOf(e)
	if !ok {
		return nil, false
	}
	return s.col.value(int(slot)), true
}

// Remove deletes e's value and returns it. The last dense element moves
// into the freed slot and its sparse entry is redirected.
func (s *UntypedComponentStore) Remove(e Entity) (any, bool) {
	slot, ok := s.slotOf(e)
	if !ok {
		return nil, false
	}
	removed := s.col.copyValue(int(slot))

	last := uint32(len(s.dense) - 1)
	moved := s.dense[last]
	s.col.swapRemove(int(slot))
	s.dense[slot] = moved
	s.dense = s.dense[:last]
	if moved.Index != e.Index {
		s.sparse[moved.Index] = slot
	}
	s.bits.Unset(e.Index)
	return removed, true
}

// GetMany returns a reference per entity, nil where absent. Requesting the
// same index twice in one call panics with DoubleMutableBorrowError rather
// than handing out two live references to one slot.
func (s *UntypedComponentStore) GetMany(ents ...Entity) []any {
	out := make([]any, len(ents))
	for i, e := range ents {
		for j := 0; j < i; j++ {
			if ents[j].Index == e.Index {
				panic(DoubleMutableBorrowError{Entity: e})
			}
		}
		if slot, ok := s.slotOf(e); ok {
			out[i] = s.col.value(int(slot))
		}
	}
	return out
}

func (s *UntypedComponentStore) Contains(e Entity) bool {
	_, ok := s.slotOf(e)
	return ok
}

// All iterates values in dense order with no entity correlation, the fast
// path for single-type logic.
func (s *UntypedComponentStore) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; i < s.col.len(); i++ {
			if !yield(s.col.value(i)) {
				return
			}
		}
	}
}

// IterWithBitset traverses in ascending entity index order, restricted to
// indices set in both filter and this store's presence set.
func (s *UntypedComponentStore) IterWithBitset(filter *Bitset) iter.Seq2[Entity, any] {
	return func(yield func(Entity, any) bool) {
		joined := s.bits.Clone()
		joined.IntersectWith(filter)
		for i := range joined.All() {
			slot := s.sparse[i]
			if !yield(s.dense[slot], s.col.value(int(slot))) {
				return
			}
		}
	}
}

// IterWithBitsetOptional yields every index in seed, with a nil value where
// this store has no entry. Unowned indices carry generation 0; join against
// the allocator when authoritative generations are needed.
func (s *UntypedComponentStore) IterWithBitsetOptional(seed *Bitset) iter.Seq2[Entity, any] {
	return func(yield func(Entity, any) bool) {
		for i := range seed.All() {
			if s.bits.Contains(i) {
				slot := s.sparse[i]
				if !yield(s.dense[slot], s.col.value(int(slot))) {
					return
				}
				continue
			}
			if !yield(Entity{Index: i}, nil) {
				return
			}
		}
	}
}

func (s *UntypedComponentStore) Len() int { return len(s.dense) }

func (s *UntypedComponentStore) Schema() *Schema { return s.schema }

// Bitset exposes the presence set for joins. Callers must not modify it.
func (s *UntypedComponentStore) Bitset() *Bitset { return &s.bits }

// Clear removes every value but keeps the backing storage and schema.
func (s *UntypedComponentStore) Clear() {
	s.col.reset()
	s.dense = s.dense[:0]
	s.bits.Clear()
}

func (s *UntypedComponentStore) slotOf(e Entity) (uint32, bool) {
	if !s.bits.Contains(e.Index) {
		return 0, false
	}
	slot := s.sparse[e.Index]
	if s.dense[slot] != e {
		return 0, false
	}
	return slot, true
}

func (s *UntypedComponentStore) ensureSparse(i uint32) {
	for int(i) >= len(s.sparse) {
		s.sparse = append(s.sparse, 0)
	}
}
