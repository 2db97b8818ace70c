package silo

import (
	"reflect"
	"sync"
)

// registration ties a derived schema to the column factory captured at the
// generic boundary, so untyped stores can be built for the type later without
// compile-time knowledge of it.
type registration struct {
	schema    *Schema
	rt        reflect.Type
	newColumn func() column
}

type schemaRegistry struct {
	mu     sync.Mutex
	byType map[reflect.Type]*registration
}

// The registry is global and guarded because component types may register
// from init funcs across packages. Store and world operations themselves
// stay unsynchronized.
var registry = &schemaRegistry{byType: make(map[reflect.Type]*registration)}

func registrationFor[T any]() (*registration, error) {
	rt := reflect.TypeFor[T]()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if reg, ok := registry.byType[rt]; ok {
		return reg, nil
	}
	schema, err := deriveSchema(rt, nil)
	if err != nil {
		return nil, err
	}
	reg := &registration{
		schema: schema,
		rt:     rt,
		newColumn: func() column {
			return &sliceColumn[T]{}
		},
	}
	registry.byType[rt] = reg
	return reg, nil
}

func mustRegistrationFor[T any]() *registration {
	reg, err := registrationFor[T]()
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *schemaRegistry) lookup(rt reflect.Type) (*registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.byType[rt]
	return reg, ok
}

// findStructural locates a registration whose schema structurally equals s.
// Decoded schemas carry no Go type, so this is how a snapshot finds a column
// source.
func (r *schemaRegistry) findStructural(s *Schema) (*registration, bool) {
	if s.goType != nil {
		return r.lookup(s.goType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.byType {
		if reg.schema.Equal(s) {
			return reg, true
		}
	}
	return nil, false
}
