package silo

type factory struct{}

var Factory factory

func (f factory) NewWorld(opts ...WorldOption) *World {
	return newWorld(opts...)
}

func (f factory) NewEntities() *Entities {
	return newEntities()
}

func (f factory) NewScheduler(opts ...SchedulerOption) *Scheduler {
	return newScheduler(opts...)
}

func (f factory) NewDefaultScheduler(opts ...SchedulerOption) *Scheduler {
	return newDefaultScheduler(opts...)
}

func (f factory) NewCursor(world *World, stores ...*UntypedComponentStore) *Cursor {
	return newCursor(world, stores...)
}

// NewUntypedStore builds a store from a schema alone, typically one decoded
// from a snapshot. The schema must structurally match a type registered in
// this process, since the registration carries the column constructor.
func (f factory) NewUntypedStore(schema *Schema) (*UntypedComponentStore, error) {
	reg, ok := registry.findStructural(schema)
	if !ok {
		return nil, UnregisteredSchemaError{Schema: schema}
	}
	return newUntypedStore(reg), nil
}

// NewAccessSet compiles declarations into their borrow footprint, applying
// the same conflict rules the scheduler applies when resolving a system.
func (f factory) NewAccessSet(accesses ...Access) (AccessSet, error) {
	return compileAccessSet(accesses)
}

// FactoryNewUntypedStore builds a fresh type-erased store for T.
func FactoryNewUntypedStore[T any]() (*UntypedComponentStore, error) {
	reg, err := registrationFor[T]()
	if err != nil {
		return nil, err
	}
	return newUntypedStore(reg), nil
}

// FactoryNewComponentStore wraps an existing type-erased store in a typed
// facade, validating that its column holds T.
func FactoryNewComponentStore[T any](untyped *UntypedComponentStore) (*ComponentStore[T], error) {
	return newComponentStore[T](untyped)
}

// FactoryNewStore builds a fresh store for T together with its typed facade.
func FactoryNewStore[T any]() (*ComponentStore[T], error) {
	untyped, err := FactoryNewUntypedStore[T]()
	if err != nil {
		return nil, err
	}
	return newComponentStore[T](untyped)
}
