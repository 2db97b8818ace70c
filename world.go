package silo

import (
	"reflect"

	"go.uber.org/zap"
)

// World is the sole mutable root handed to systems: it owns the entity
// allocator, every component store (created lazily, keyed by type), the
// resource table, and the deferred kill queue.
type World struct {
	entities  *Entities
	stores    map[reflect.Type]*UntypedComponentStore
	resources *ResourceTable

	pendingKills []Entity
	pendingSet   map[Entity]struct{}

	logger *zap.Logger
}

type WorldOption func(*World)

// WithLogger installs a logger on the world. The default is a no-op logger.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

func newWorld(opts ...WorldOption) *World {
	w := &World{
		entities:   newEntities(),
		stores:     make(map[reflect.Type]*UntypedComponentStore),
		resources:  newResourceTable(),
		pendingSet: make(map[Entity]struct{}),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Entities() *Entities { return w.entities }

func (w *World) Resources() *ResourceTable { return w.resources }

// Create issues a new live entity.
func (w *World) Create() Entity { return w.entities.Create() }

// Kill frees e immediately and removes its components from every store.
// Inside systems prefer EnqueueKill, since immediate removal invalidates
// running iterators.
func (w *World) Kill(e Entity) bool {
	if !w.entities.Kill(e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	return true
}

// EnqueueKill defers a kill until the current stage finishes. Stale handles
// are dropped at flush time; enqueueing the same handle twice is a no-op.
func (w *World) EnqueueKill(e Entity) {
	if _, pending := w.pendingSet[e]; pending {
		return
	}
	w.pendingSet[e] = struct{}{}
	w.pendingKills = append(w.pendingKills, e)
}

// flushKills applies deferred kills. The scheduler calls it at every stage
// boundary.
func (w *World) flushKills() {
	if len(w.pendingKills) == 0 {
		return
	}
	killed := 0
	for _, e := range w.pendingKills {
		if w.Kill(e) {
			killed++
		}
	}
	w.logger.Debug("flushed deferred kills",
		zap.Int("enqueued", len(w.pendingKills)),
		zap.Int("killed", killed),
	)
	w.pendingKills = w.pendingKills[:0]
	clear(w.pendingSet)
}

func (w *World) untypedStoreFor(reg *registration) *UntypedComponentStore {
	if store, ok := w.stores[reg.rt]; ok {
		return store
	}
	store := newUntypedStore(reg)
	w.stores[reg.rt] = store
	w.logger.Debug("created component store", zap.Stringer("type", reg.rt))
	return store
}

// StoreFor returns the world's typed store of T, creating it on first use.
// It panics on types that cannot carry a schema; SchemaFor reports the same
// condition as an error.
func StoreFor[T any](w *World) *ComponentStore[T] {
	reg := mustRegistrationFor[T]()
	store, err := newComponentStore[T](w.untypedStoreFor(reg))
	if err != nil {
		panic(err)
	}
	return store
}

// UntypedStoreFor returns the world's untyped store of T, creating it on
// first use.
func UntypedStoreFor[T any](w *World) *UntypedComponentStore {
	return w.untypedStoreFor(mustRegistrationFor[T]())
}
