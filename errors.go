package silo

import (
	"fmt"
	"reflect"
)

type SchemaMismatchError struct {
	Want, Got *Schema
}

func (e SchemaMismatchError) Error() string {
	if e.Want.Equal(e.Got) {
		return fmt.Sprintf("schema mismatch: %s is shape-equal but backed by a different Go type", e.Want)
	}
	return fmt.Sprintf("schema mismatch: want %s, got %s", e.Want, e.Got)
}

type MissingResourceError struct {
	Type reflect.Type
}

func (e MissingResourceError) Error() string {
	return fmt.Sprintf("resource was never inserted and has no initializer: %v", e.Type)
}

type DoubleMutableBorrowError struct {
	Entity Entity
}

func (e DoubleMutableBorrowError) Error() string {
	return fmt.Sprintf("entity requested twice in one mutable fetch: %v", e.Entity)
}

type UnsupportedTypeError struct {
	Type   reflect.Type
	Reason string
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("cannot derive schema for %v: %s", e.Type, e.Reason)
}

type UnregisteredSchemaError struct {
	Schema *Schema
}

func (e UnregisteredSchemaError) Error() string {
	return fmt.Sprintf("no registered component type matches schema %s", e.Schema)
}

type UndeclaredAccessError struct {
	Access Access
}

func (e UndeclaredAccessError) Error() string {
	return fmt.Sprintf("input was not declared by the system: %v", e.Access)
}

type ResolveError struct {
	Access Access
	Reason error
}

func (e ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %v: %v", e.Access, e.Reason)
}

func (e ResolveError) Unwrap() error { return e.Reason }

type UnknownStageError struct {
	Stage string
}

func (e UnknownStageError) Error() string {
	return fmt.Sprintf("stage was never added to the scheduler: %q", e.Stage)
}
