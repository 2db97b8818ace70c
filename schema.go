package silo

import (
	"fmt"
	"reflect"
	"strings"
)

// SchemaKind tags the closed set of shapes a component type may take.
type SchemaKind uint8

const (
	KindInvalid SchemaKind = iota
	KindPrimitive
	KindArray
	KindSlice
	KindMap
	KindStruct
)

// PrimitiveKind narrows KindPrimitive schemas to a concrete scalar type.
type PrimitiveKind uint8

const (
	PrimInvalid PrimitiveKind = iota
	PrimBool
	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat32
	PrimFloat64
	PrimString
)

var primNames = map[PrimitiveKind]string{
	PrimBool:    "bool",
	PrimInt:     "int",
	PrimInt8:    "int8",
	PrimInt16:   "int16",
	PrimInt32:   "int32",
	PrimInt64:   "int64",
	PrimUint:    "uint",
	PrimUint8:   "uint8",
	PrimUint16:  "uint16",
	PrimUint32:  "uint32",
	PrimUint64:  "uint64",
	PrimFloat32: "float32",
	PrimFloat64: "float64",
	PrimString:  "string",
}

func (p PrimitiveKind) String() string {
	if name, ok := primNames[p]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// Schema is a structural descriptor of a component type: kind, layout hints,
// and nested field descriptors. Schemas validate type-erased store access and
// drive snapshot encoding. Equality is structural (Equal), never identity:
// two distinct Go types with the same shape share a schema by value.
type Schema struct {
	Kind   SchemaKind    `cbor:"kind"`
	Prim   PrimitiveKind `cbor:"prim,omitempty"`
	Len    int           `cbor:"len,omitempty"`
	Size   int           `cbor:"size,omitempty"`
	Align  int           `cbor:"align,omitempty"`
	Key    *Schema       `cbor:"key,omitempty"`
	Elem   *Schema       `cbor:"elem,omitempty"`
	Fields []SchemaField `cbor:"fields,omitempty"`

	goType reflect.Type
}

// SchemaField pairs a struct field name with its nested schema. Field order
// is significant.
type SchemaField struct {
	Name   string  `cbor:"name"`
	Schema *Schema `cbor:"schema"`
}

// SchemaFor derives (and memoizes) the schema of T. Types containing
// channels, funcs, interfaces, pointers, or unexported struct fields are
// rejected with UnsupportedTypeError.
func SchemaFor[T any]() (*Schema, error) {
	reg, err := registrationFor[T]()
	if err != nil {
		return nil, err
	}
	return reg.schema, nil
}

var primKinds = map[reflect.Kind]PrimitiveKind{
	reflect.Bool:    PrimBool,
	reflect.Int:     PrimInt,
	reflect.Int8:    PrimInt8,
	reflect.Int16:   PrimInt16,
	reflect.Int32:   PrimInt32,
	reflect.Int64:   PrimInt64,
	reflect.Uint:    PrimUint,
	reflect.Uint8:   PrimUint8,
	reflect.Uint16:  PrimUint16,
	reflect.Uint32:  PrimUint32,
	reflect.Uint64:  PrimUint64,
	reflect.Float32: PrimFloat32,
	reflect.Float64: PrimFloat64,
	reflect.String:  PrimString,
}

func deriveSchema(rt reflect.Type, seen map[reflect.Type]bool) (*Schema, error) {
	if seen[rt] {
		return nil, UnsupportedTypeError{Type: rt, Reason: "recursive type"}
	}
	if seen == nil {
		seen = make(map[reflect.Type]bool)
	}
	seen[rt] = true
	defer delete(seen, rt)

	s := &Schema{
		Size:   int(rt.Size()),
		Align:  rt.Align(),
		goType: rt,
	}

	if prim, ok := primKinds[rt.Kind()]; ok {
		s.Kind = KindPrimitive
		s.Prim = prim
		return s, nil
	}

	switch rt.Kind() {
	case reflect.Array:
		elem, err := deriveSchema(rt.Elem(), seen)
		if err != nil {
			return nil, err
		}
		s.Kind = KindArray
		s.Len = rt.Len()
		s.Elem = elem

	case reflect.Slice:
		elem, err := deriveSchema(rt.Elem(), seen)
		if err != nil {
			return nil, err
		}
		s.Kind = KindSlice
		s.Elem = elem

	case reflect.Map:
		key, err := deriveSchema(rt.Key(), seen)
		if err != nil {
			return nil, err
		}
		elem, err := deriveSchema(rt.Elem(), seen)
		if err != nil {
			return nil, err
		}
		s.Kind = KindMap
		s.Key = key
		s.Elem = elem

	case reflect.Struct:
		s.Kind = KindStruct
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				return nil, UnsupportedTypeError{
					Type:   rt,
					Reason: fmt.Sprintf("unexported field %q", f.Name),
				}
			}
			fs, err := deriveSchema(f.Type, seen)
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, SchemaField{Name: f.Name, Schema: fs})
		}

	default:
		return nil, UnsupportedTypeError{
			Type:   rt,
			Reason: fmt.Sprintf("%v kind is not schema-encodable", rt.Kind()),
		}
	}
	return s, nil
}

// Equal reports structural equality: kinds, primitive types, lengths, field
// names and order, and nested schemas. Layout hints and Go type identity do
// not participate.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.Kind != other.Kind || s.Prim != other.Prim || s.Len != other.Len {
		return false
	}
	if !s.Key.Equal(other.Key) || !s.Elem.Equal(other.Elem) {
		return false
	}
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i].Name != other.Fields[i].Name {
			return false
		}
		if !s.Fields[i].Schema.Equal(other.Fields[i].Schema) {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Kind {
	case KindPrimitive:
		return s.Prim.String()
	case KindArray:
		return fmt.Sprintf("[%d]%s", s.Len, s.Elem)
	case KindSlice:
		return "[]" + s.Elem.String()
	case KindMap:
		return fmt.Sprintf("map[%s]%s", s.Key, s.Elem)
	case KindStruct:
		var sb strings.Builder
		sb.WriteString("struct{")
		for i, f := range s.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteByte(' ')
			sb.WriteString(f.Schema.String())
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return "invalid"
}
