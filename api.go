package silo

import "iter"

// System is one unit of update logic: it declares its borrows up front and
// executes against the frame the resolver built from them.
type System interface {
	Accesses() []Access
	Execute(f *Frame) error
}

// Initializer lets a resource type construct its own default when a system
// declares it before anything inserted it.
type Initializer interface {
	Initialize(w *World)
}

type iCursor interface {
	Entities() iter.Seq[Entity]
	Next() bool
}

// Cursor walks the entities whose indices survive intersecting the live set
// (or an explicit seed) with every required store's presence set, minus
// exclusions. Matching is lazy: it happens on first use, and Reset rewinds
// the cursor for reuse.
type Cursor struct {
	world    *World
	seed     *Bitset
	required []*UntypedComponentStore
	excluded []*UntypedComponentStore

	// Current iteration state
	matched *Bitset
	scan    uint32
	current Entity

	// Initialization state
	initialized bool
}
