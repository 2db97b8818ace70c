package silo

import "iter"

// ComponentStore is the type-checked façade over an untyped store. The
// store's schema is validated against T once, at construction; every
// operation afterwards reaches into the column directly with no
// re-validation. The backing column must hold T itself: a structurally
// equal but distinct Go type cannot share a column, and construction over
// one fails with SchemaMismatchError.
type ComponentStore[T any] struct {
	untyped *UntypedComponentStore
	col     *sliceColumn[T]
}

func newComponentStore[T any](u *UntypedComponentStore) (*ComponentStore[T], error) {
	col, ok := u.col.(*sliceColumn[T])
	if !ok {
		reg, err := registrationFor[T]()
		if err != nil {
			return nil, err
		}
		return nil, SchemaMismatchError{Want: reg.schema, Got: u.schema}
	}
	return &ComponentStore[T]{untyped: u, col: col}, nil
}

// Insert stores v for e, returning the previous value when e already had one.
func (s *ComponentStore[T]) Insert(e Entity, v T) (T, bool) {
	prev, replaced := s.untyped.Insert(e, v)
	if !replaced {
		var zero T
		return zero, false
	}
	return prev.(T), true
}

// Get returns a reference into the dense column, or false when e is absent.
func (s *ComponentStore[T]) Get(e Entity) (*T, bool) {
	slot, ok := s.untyped.slotOf(e)
	if !ok {
		return nil, false
	}
	return &s.col.data[slot], true
}

func (s *ComponentStore[T]) Remove(e Entity) (T, bool) {
	v, ok := s.untyped.Remove(e)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// GetMany returns a reference per entity, nil where absent. A duplicated
// index panics with DoubleMutableBorrowError.
func (s *ComponentStore[T]) GetMany(ents ...Entity) []*T {
	out := make([]*T, len(ents))
	for i, e := range ents {
		for j := 0; j < i; j++ {
			if ents[j].Index == e.Index {
				panic(DoubleMutableBorrowError{Entity: e})
			}
		}
		if slot, ok := s.untyped.slotOf(e); ok {
			out[i] = &s.col.data[slot]
		}
	}
	return out
}

func (s *ComponentStore[T]) Contains(e Entity) bool { return s.untyped.Contains(e) }

func (s *ComponentStore[T]) Len() int { return s.untyped.Len() }

func (s *ComponentStore[T]) Schema() *Schema { return s.untyped.schema }

// Bitset exposes the presence set for joins. Callers must not modify it.
func (s *ComponentStore[T]) Bitset() *Bitset { return s.untyped.Bitset() }

// Untyped returns the backing store. Both views share all state.
func (s *ComponentStore[T]) Untyped() *UntypedComponentStore { return s.untyped }

// All iterates values in dense order with no entity correlation.
func (s *ComponentStore[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range s.col.data {
			if !yield(&s.col.data[i]) {
				return
			}
		}
	}
}

// IterWithBitset traverses in ascending entity index order, restricted to
// indices set in both filter and this store's presence set.
func (s *ComponentStore[T]) IterWithBitset(filter *Bitset) iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		joined := s.untyped.bits.Clone()
		joined.IntersectWith(filter)
		for i := range joined.All() {
			slot := s.untyped.sparse[i]
			if !yield(s.untyped.dense[slot], &s.col.data[slot]) {
				return
			}
		}
	}
}

// IterWithBitsetOptional yields every index in seed, with a nil value where
// this store has no entry.
func (s *ComponentStore[T]) IterWithBitsetOptional(seed *Bitset) iter.Seq2[Entity, *T] {
	return func(yield func(Entity, *T) bool) {
		for i := range seed.All() {
			if s.untyped.bits.Contains(i) {
				slot := s.untyped.sparse[i]
				if !yield(s.untyped.dense[slot], &s.col.data[slot]) {
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

func (s *ComponentStore[T]) MarshalBinary() ([]byte, error) {
	return s.untyped.MarshalBinary()
}

func (s *ComponentStore[T]) UnmarshalBinary(data []byte) error {
	return s.untyped.UnmarshalBinary(data)
}
