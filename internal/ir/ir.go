// Package ir is the typed plan of the wire operations generated for a field.
// Every codec is a value; the textual backend is the only place that turns
// them into Go statements.
package ir

import (
	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/typeinfo"
	"github.com/seitarof/gen-dict/wire"
)

// Codec is one of the types below.
type Codec interface {
	codec()
}

// Scalar reads and writes one fundamental. Type is the Go type of the
// value; it differs from Basic's spelling for named types.
type Scalar struct {
	Basic typeinfo.BasicKind
	Type  string
}

// Enum travels as a 4-byte signed integer whatever its Go width.
type Enum struct {
	Type  string
	Class string
	Basic typeinfo.BasicKind
}

// BulkArray carries a fixed array of fundamentals or enums as one flat run
// preceded by its total count.
type BulkArray struct {
	Elem     typeinfo.BasicKind
	ElemType string
	Enum     bool
	Dims     []int
	Total    int
}

// SizedArray carries a slice whose length is given by an index expression
// over members streamed earlier. No count goes on the wire.
type SizedArray struct {
	Elem     typeinfo.BasicKind
	ElemType string
	// Index is the expression as declared, e.g. "N*2".
	Index string
	// Tokens is Index split into member names, integer literals and the
	// operators * + -.
	Tokens []IndexToken
}

// IndexToken is one token of an index expression. Exactly one of Member,
// Op or Lit is meaningful.
type IndexToken struct {
	Member string
	Op     byte
	Lit    int
}

// Members returns the member names the index refers to.
func (s SizedArray) Members() []string {
	var out []string
	for _, t := range s.Tokens {
		if t.Member != "" {
			out = append(out, t.Member)
		}
	}
	return out
}

// String carries a string, or a *string when Pointer is set. Type is the
// Go type of the field, which may be a named string type.
type String struct {
	Pointer bool
	Type    string
}

// Container carries a sequence or associative container: a count then the
// elements. Key is nil for sequences; Value is nil for sets.
type Container struct {
	Kind classify.Container
	// Type is the Go type of the container, without the pointer.
	Type string
	// Native is set for built-in slices and maps, as opposed to the wire
	// container types.
	Native    bool
	Key       Codec
	KeyType   string
	Value     Codec
	ValueType string
	// Pointer is set for *container fields: nil writes an empty container.
	Pointer bool
}

// Loop walks a fixed array whose elements cannot travel in bulk.
type Loop struct {
	Dims     []int
	ElemType string
	Body     Codec
}

// NestedCall calls the streamer of a nested value directly. Method is set
// when the type declares its own Streamer; otherwise the streamer is
// generated in the same run under Canonical.
type NestedCall struct {
	Type      string
	Class     string
	Canonical string
	Method    bool
}

// TypeErased streams a nested value through the streamer registered under
// Class, looked up when the code runs.
type TypeErased struct {
	Type  string
	Class string
}

// ObjectPtr carries a pointer or interface through an object cell, keeping
// nil and shared references.
type ObjectPtr struct {
	// Elem is the pointee type; empty for interfaces.
	Elem      string
	Type      string
	Class     string
	Interface bool
}

// Placeholder stands for a field that could not be planned.
type Placeholder struct {
	Code   diag.Code
	Reason string
}

// Skip emits nothing.
type Skip struct{}

func (Scalar) codec()      {}
func (Enum) codec()        {}
func (BulkArray) codec()   {}
func (SizedArray) codec()  {}
func (String) codec()      {}
func (Container) codec()   {}
func (Loop) codec()        {}
func (NestedCall) codec()  {}
func (TypeErased) codec()  {}
func (ObjectPtr) codec()   {}
func (Placeholder) codec() {}
func (Skip) codec()        {}

// Streamed reports whether c puts anything on the wire.
func Streamed(c Codec) bool {
	switch c.(type) {
	case Skip, Placeholder, nil:
		return false
	}
	return true
}

// Name is a short name of the codec kind, used in plans and logs.
func Name(c Codec) string {
	switch c.(type) {
	case Scalar:
		return "scalar"
	case Enum:
		return "enum"
	case BulkArray:
		return "bulk-array"
	case SizedArray:
		return "sized-array"
	case String:
		return "string"
	case Container:
		return "container"
	case Loop:
		return "loop"
	case NestedCall:
		return "nested"
	case TypeErased:
		return "type-erased"
	case ObjectPtr:
		return "object-pointer"
	case Placeholder:
		return "placeholder"
	case Skip:
		return "skip"
	}
	return "unknown"
}

var basicKinds = map[typeinfo.BasicKind]wire.Kind{
	typeinfo.Bool:     wire.KindBool,
	typeinfo.Int8:     wire.KindInt8,
	typeinfo.Int16:    wire.KindInt16,
	typeinfo.Int32:    wire.KindInt32,
	typeinfo.Int64:    wire.KindInt64,
	typeinfo.Int:      wire.KindInt,
	typeinfo.Uint8:    wire.KindUint8,
	typeinfo.Uint16:   wire.KindUint16,
	typeinfo.Uint32:   wire.KindUint32,
	typeinfo.Uint64:   wire.KindUint64,
	typeinfo.Uint:     wire.KindUint,
	typeinfo.Float32:  wire.KindFloat32,
	typeinfo.Float64:  wire.KindFloat64,
	typeinfo.Double32: wire.KindDouble32,
}

var containerKinds = map[classify.Container]wire.Kind{
	classify.Vector:   wire.KindVector,
	classify.List:     wire.KindList,
	classify.Deque:    wire.KindDeque,
	classify.Map:      wire.KindMap,
	classify.MultiMap: wire.KindMultiMap,
	classify.Set:      wire.KindSet,
	classify.MultiSet: wire.KindMultiSet,
	classify.Bitset:   wire.KindBitset,
}

// Describe returns the runtime layout description of c, the form the
// automatic streamer and the schema catalog understand. ok is false for
// codecs that put nothing on the wire.
func Describe(c Codec) (td wire.TypeDesc, ok bool) {
	switch c := c.(type) {
	case Scalar:
		return wire.TypeDesc{Kind: basicKinds[c.Basic]}, true
	case Enum:
		return wire.TypeDesc{Kind: wire.KindEnum, Class: c.Class}, true
	case BulkArray:
		elem := wire.TypeDesc{Kind: basicKinds[c.Elem]}
		if c.Enum {
			elem = wire.TypeDesc{Kind: wire.KindEnum}
		}
		return wire.TypeDesc{Kind: wire.KindArray, Dims: c.Dims, Elem: &elem}, true
	case SizedArray:
		return wire.TypeDesc{Kind: wire.KindSizedArray, Elem: &wire.TypeDesc{Kind: basicKinds[c.Elem]}}, true
	case String:
		if c.Pointer {
			return wire.TypeDesc{Kind: wire.KindStringPtr}, true
		}
		return wire.TypeDesc{Kind: wire.KindString}, true
	case Container:
		td := wire.TypeDesc{Kind: containerKinds[c.Kind]}
		if c.Key != nil {
			k, ok := Describe(c.Key)
			if !ok {
				return wire.TypeDesc{}, false
			}
			td.Key = &k
		}
		if c.Value != nil {
			v, ok := Describe(c.Value)
			if !ok {
				return wire.TypeDesc{}, false
			}
			td.Elem = &v
		}
		return td, true
	case Loop:
		elem, ok := Describe(c.Body)
		if !ok {
			return wire.TypeDesc{}, false
		}
		return wire.TypeDesc{Kind: wire.KindArray, Dims: c.Dims, Elem: &elem}, true
	case NestedCall:
		return wire.TypeDesc{Kind: wire.KindObject, Class: c.Class}, true
	case TypeErased:
		return wire.TypeDesc{Kind: wire.KindObject, Class: c.Class}, true
	case ObjectPtr:
		return wire.TypeDesc{Kind: wire.KindObjectPtr, Class: c.Class}, true
	}
	return wire.TypeDesc{}, false
}
