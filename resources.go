package silo

import "reflect"

// ResourceTable holds at most one value per type. Inserting a type that is
// already present replaces the previous value; last writer wins, no
// multi-instancing.
type ResourceTable struct {
	values map[reflect.Type]any
}

func newResourceTable() *ResourceTable {
	return &ResourceTable{values: make(map[reflect.Type]any)}
}

func (r *ResourceTable) insert(rt reflect.Type, v any) {
	r.values[rt] = v
}

func (r *ResourceTable) get(rt reflect.Type) (any, bool) {
	v, ok := r.values[rt]
	return v, ok
}

func (r *ResourceTable) remove(rt reflect.Type) bool {
	_, ok := r.values[rt]
	delete(r.values, rt)
	return ok
}

func (r *ResourceTable) Len() int { return len(r.values) }

// AddResource registers res as the world's singleton of type T, replacing
// any previous one.
func AddResource[T any](w *World, res *T) {
	w.resources.insert(reflect.TypeFor[T](), res)
}

// GetResource returns the world's singleton of type T.
func GetResource[T any](w *World) (*T, bool) {
	v, ok := w.resources.get(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// RemoveResource drops the singleton of type T, reporting whether one
// existed.
func RemoveResource[T any](w *World) bool {
	return w.resources.remove(reflect.TypeFor[T]())
}
