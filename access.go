package silo

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/mask"
)

type accessKind uint8

const (
	accessStore accessKind = iota
	accessResource
	accessEntities
)

func (k accessKind) String() string {
	switch k {
	case accessStore:
		return "store"
	case accessResource:
		return "resource"
	case accessEntities:
		return "entities"
	}
	return "unknown"
}

// Access is one declared borrow: shared or exclusive, over a component
// store, a resource, or the entity allocator. Systems return their
// declarations from Accesses; the resolver turns them into a Frame before
// each invocation.
type Access struct {
	kind      accessKind
	exclusive bool
	rt        reflect.Type

	// Captured at the generic declaration boundary.
	reg          *registration
	regErr       error
	makeResource func(w *World) (any, bool)
}

func (a Access) String() string {
	mode := "reads"
	if a.exclusive {
		mode = "writes"
	}
	if a.kind == accessEntities {
		return mode + " entities"
	}
	return fmt.Sprintf("%s %s %v", mode, a.kind, a.rt)
}

// Reads declares shared access to the component store of T.
func Reads[T any]() Access { return storeAccess[T](false) }

// Writes declares exclusive access to the component store of T.
func Writes[T any]() Access { return storeAccess[T](true) }

func storeAccess[T any](exclusive bool) Access {
	a := Access{kind: accessStore, exclusive: exclusive, rt: reflect.TypeFor[T]()}
	reg, err := registrationFor[T]()
	if err != nil {
		// Surfaces as a ResolveError the first time a system declaring this
		// access runs.
		a.regErr = err
		return a
	}
	a.reg = reg
	return a
}

// ReadsResource declares shared access to the resource of type T.
func ReadsResource[T any]() Access { return resourceAccess[T](false) }

// WritesResource declares exclusive access to the resource of type T.
func WritesResource[T any]() Access { return resourceAccess[T](true) }

func resourceAccess[T any](exclusive bool) Access {
	return Access{
		kind:      accessResource,
		exclusive: exclusive,
		rt:        reflect.TypeFor[T](),
		makeResource: func(w *World) (any, bool) {
			v := new(T)
			init, ok := any(v).(Initializer)
			if !ok {
				return nil, false
			}
			init.Initialize(w)
			AddResource(w, v)
			return v, true
		},
	}
}

// ReadsEntities declares shared access to the entity allocator.
func ReadsEntities() Access { return Access{kind: accessEntities} }

// WritesEntities declares exclusive access to the entity allocator.
func WritesEntities() Access { return Access{kind: accessEntities, exclusive: true} }

// borrowKey identifies one borrowable input. Stores and resources of the
// same Go type are distinct keys.
type borrowKey struct {
	kind accessKind
	rt   reflect.Type
}

var borrowBits = struct {
	mu   sync.Mutex
	bits map[borrowKey]uint32
	next uint32
}{bits: make(map[borrowKey]uint32)}

func borrowBitFor(key borrowKey) uint32 {
	borrowBits.mu.Lock()
	defer borrowBits.mu.Unlock()
	if bit, ok := borrowBits.bits[key]; ok {
		return bit
	}
	bit := borrowBits.next
	borrowBits.next++
	borrowBits.bits[key] = bit
	return bit
}

// AccessSet is the compiled borrow footprint of one system. Systems execute
// strictly one at a time today, so the set's only active duty is failing
// fast on a self-contradictory declaration list; a future concurrent
// executor can reuse it to compute legal parallel batches.
type AccessSet struct {
	reads  mask.Mask
	writes mask.Mask
}

var errSelfConflict = errors.New("conflicts with an earlier declaration of the same input")

func compileAccessSet(accesses []Access) (AccessSet, error) {
	var set AccessSet
	shared := make(map[borrowKey]bool)
	exclusive := make(map[borrowKey]bool)

	for _, a := range accesses {
		if a.regErr != nil {
			return AccessSet{}, ResolveError{Access: a, Reason: a.regErr}
		}
		key := borrowKey{a.kind, a.rt}
		if exclusive[key] || (a.exclusive && shared[key]) {
			return AccessSet{}, ResolveError{Access: a, Reason: errSelfConflict}
		}

		bit := borrowBitFor(key)
		if a.exclusive {
			exclusive[key] = true
			set.writes.Mark(bit)
		} else {
			shared[key] = true
			set.reads.Mark(bit)
		}
	}
	return set, nil
}

// DisjointWith reports whether both sets could run concurrently: neither
// writes anything the other reads or writes.
func (s AccessSet) DisjointWith(other AccessSet) bool {
	if s.writes.ContainsAny(other.reads) || s.writes.ContainsAny(other.writes) {
		return false
	}
	return !s.reads.ContainsAny(other.writes)
}

// Frame is the resolved borrow set handed to one system invocation. Grants
// are scoped to that invocation and must not outlive it.
type Frame struct {
	world  *World
	set    AccessSet
	grants map[borrowKey]any
	tick   uint64
}

func resolveFrame(w *World, sys System) (*Frame, error) {
	accesses := sys.Accesses()
	set, err := compileAccessSet(accesses)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		world:  w,
		set:    set,
		grants: make(map[borrowKey]any, len(accesses)),
	}
	for _, a := range accesses {
		key := borrowKey{a.kind, a.rt}
		switch a.kind {
		case accessEntities:
			f.grants[key] = w.entities
		case accessStore:
			f.grants[key] = w.untypedStoreFor(a.reg)
		case accessResource:
			v, ok := w.resources.get(a.rt)
			if !ok {
				v, ok = a.makeResource(w)
				if !ok {
					return nil, ResolveError{Access: a, Reason: MissingResourceError{Type: a.rt}}
				}
			}
			f.grants[key] = v
		}
	}
	return f, nil
}

// Entities returns the declared allocator grant. Fetching it without a
// ReadsEntities or WritesEntities declaration panics.
func (f *Frame) Entities() *Entities {
	v, ok := f.grants[borrowKey{kind: accessEntities}]
	if !ok {
		panic(UndeclaredAccessError{Access: Access{kind: accessEntities}})
	}
	return v.(*Entities)
}

// Tick is the scheduler invocation this frame was resolved for.
func (f *Frame) Tick() uint64 { return f.tick }

// AccessSet exposes the compiled borrow footprint.
func (f *Frame) AccessSet() AccessSet { return f.set }

// World returns the frame's world for operations that are safe
// mid-invocation, like EnqueueKill.
func (f *Frame) World() *World { return f.world }

// EnqueueKill defers a kill to the current stage boundary.
func (f *Frame) EnqueueKill(e Entity) {
	f.world.EnqueueKill(e)
}

// StoreOf returns the declared store of T as a typed view. Fetching an
// undeclared store panics.
func StoreOf[T any](f *Frame) *ComponentStore[T] {
	key := borrowKey{kind: accessStore, rt: reflect.TypeFor[T]()}
	v, ok := f.grants[key]
	if !ok {
		panic(UndeclaredAccessError{Access: Access{kind: accessStore, rt: key.rt}})
	}
	store, err := newComponentStore[T](v.(*UntypedComponentStore))
	if err != nil {
		panic(err)
	}
	return store
}

// ResourceOf returns the declared resource of T. Fetching an undeclared
// resource panics.
func ResourceOf[T any](f *Frame) *T {
	key := borrowKey{kind: accessResource, rt: reflect.TypeFor[T]()}
	v, ok := f.grants[key]
	if !ok {
		panic(UndeclaredAccessError{Access: Access{kind: accessResource, rt: key.rt}})
	}
	return v.(*T)
}
