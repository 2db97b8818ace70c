package silo

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// snapshotVersion tags every encoded envelope. Decoders reject versions
// they do not understand rather than guessing at layout.
const snapshotVersion = 1

// storeSnapshot is the wire envelope for one component store: the schema
// that produced the values, the dense entity list, and the values in the
// same dense order. Presence bits and sparse links are derived state and
// rebuild from the entity list alone.
type storeSnapshot struct {
	Version  int             `cbor:"version"`
	Schema   *Schema         `cbor:"schema"`
	Entities []Entity        `cbor:"entities"`
	Values   cbor.RawMessage `cbor:"values"`
}

// MarshalBinary encodes the store as a self-describing snapshot.
func (s *UntypedComponentStore) MarshalBinary() ([]byte, error) {
	values, err := s.col.encodeValues()
	if err != nil {
		return nil, fmt.Errorf("encoding store values: %w", err)
	}
	return cbor.Marshal(storeSnapshot{
		Version:  snapshotVersion,
		Schema:   s.schema,
		Entities: s.dense,
		Values:   values,
	})
}

// UnmarshalBinary replaces the store's contents with a decoded snapshot.
// The snapshot's schema must structurally equal the store's. On any error
// the store is left unchanged; there is no partial load. Typed facades over
// the store remain valid because the backing column is reused, not swapped.
func (s *UntypedComponentStore) UnmarshalBinary(data []byte) error {
	var snap storeSnapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding store snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("store snapshot version %d, want %d", snap.Version, snapshotVersion)
	}
	if !s.schema.Equal(snap.Schema) {
		return SchemaMismatchError{Want: s.schema, Got: snap.Schema}
	}

	var bits Bitset
	sparse := make([]uint32, 0, len(snap.Entities))
	for slot, e := range snap.Entities {
		if bits.Contains(e.Index) {
			return fmt.Errorf("store snapshot lists entity index %d twice", e.Index)
		}
		bits.Set(e.Index)
		for int(e.Index) >= len(sparse) {
			sparse = append(sparse, 0)
		}
		sparse[e.Index] = uint32(slot)
	}

	if err := s.col.decodeValues(snap.Values, len(snap.Entities)); err != nil {
		return err
	}
	s.dense = snap.Entities
	s.sparse = sparse
	s.bits = bits
	return nil
}

// entitiesSnapshot is the wire envelope for an allocator: every slot's
// current generation plus the live set's words.
type entitiesSnapshot struct {
	Version     int      `cbor:"version"`
	Generations []uint32 `cbor:"generations"`
	Alive       []uint64 `cbor:"alive"`
}

// MarshalBinary encodes the allocator, dead slots included, so recycled
// indices keep their bumped generations across a round trip.
func (en *Entities) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(entitiesSnapshot{
		Version:     snapshotVersion,
		Generations: en.generations,
		Alive:       en.alive.Words(),
	})
}

// UnmarshalBinary replaces the allocator's state with a decoded snapshot.
// On any error the allocator is left unchanged.
func (en *Entities) UnmarshalBinary(data []byte) error {
	var snap entitiesSnapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding entity snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("entity snapshot version %d, want %d", snap.Version, snapshotVersion)
	}
	var alive Bitset
	alive.SetWords(snap.Alive)
	if idx, ok := alive.nextSet(uint32(len(snap.Generations))); ok {
		return fmt.Errorf("entity snapshot marks unissued index %d live", idx)
	}
	for i := range alive.All() {
		if snap.Generations[i] == 0 {
			return fmt.Errorf("entity snapshot marks index %d live at generation 0", i)
		}
	}
	en.generations = snap.Generations
	en.alive = alive
	en.count = alive.Count()
	return nil
}
