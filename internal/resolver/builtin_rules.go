package resolver

import (
	"fmt"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/ir"
)

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&SkipRule{},
		&ScalarRule{},
		&EnumRule{},
		&PointerArrayRule{},
		&IndexedPointerRule{},
		&UnindexedPointerRule{},
		&FixedArrayRule{},
		&StringRule{},
		&ContainerRule{},
		&NestedStreamerRule{},
		&NestedFallbackRule{},
		&ObjectPointerRule{},
		&ArrayLoopRule{},
		&PointerToPointerRule{},
		&UnsupportedRule{},
	}
}

// SkipRule: transient field -> nothing on the wire.
type SkipRule struct{}

func (r *SkipRule) Name() string { return "skip" }

func (r *SkipRule) Try(f Field) (ir.Codec, bool) {
	if f.Desc.Transient {
		return ir.Skip{}, true
	}
	return nil, false
}

// ScalarRule: fundamental -> direct read/write.
type ScalarRule struct{}

func (r *ScalarRule) Name() string { return "scalar" }

func (r *ScalarRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.Fundamental {
		return nil, false
	}
	return ir.Scalar{Basic: s.Basic, Type: TypeName(s)}, true
}

// EnumRule: enum -> 4-byte signed integer, cast both ways.
type EnumRule struct{}

func (r *EnumRule) Name() string { return "enum" }

func (r *EnumRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.Enum {
		return nil, false
	}
	return ir.Enum{Type: TypeName(s), Class: s.Class, Basic: s.Basic}, true
}

// PointerArrayRule: fixed array of pointers to fundamentals -> error.
type PointerArrayRule struct{}

func (r *PointerArrayRule) Name() string { return "pointer-array" }

func (r *PointerArrayRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.FixedArray || s.Elem == nil || s.Elem.Tag != classify.Pointer || !s.Elem.Elem.IsFundamental() {
		return nil, false
	}
	return ir.Placeholder{
		Code:   diag.CodecPointerArray,
		Reason: "array of pointers to fundamental type needs manual intervention",
	}, true
}

// IndexedPointerRule: slice of fundamentals sized by an earlier integer
// member -> bulk read/write of that many elements.
type IndexedPointerRule struct{}

func (r *IndexedPointerRule) Name() string { return "indexed-pointer" }

func (r *IndexedPointerRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if !f.Desc.Sized || f.Element() || s.Tag != classify.Pointer || s.Elem.Tag != classify.Fundamental {
		return nil, false
	}
	tokens, err := checkIndex(f.Class, f.Position, f.Desc.Index)
	if err != nil {
		return ir.Placeholder{Code: diag.CodecBadIndex, Reason: err.Error()}, true
	}
	return ir.SizedArray{
		Elem:     s.Elem.Basic,
		ElemType: TypeName(s.Elem),
		Index:    f.Desc.Index,
		Tokens:   tokens,
	}, true
}

// UnindexedPointerRule: pointer to a fundamental with no index -> error.
type UnindexedPointerRule struct{}

func (r *UnindexedPointerRule) Name() string { return "unindexed-pointer" }

func (r *UnindexedPointerRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.Pointer || !s.Elem.IsFundamental() {
		return nil, false
	}
	return ir.Placeholder{
		Code:   diag.CodecNoIndex,
		Reason: "pointer to fundamental type has no size index; declare it as a slice sized by an earlier integer member",
	}, true
}

// FixedArrayRule: fixed array of fundamentals or enums, any number of
// dimensions -> one flat bulk run.
type FixedArrayRule struct{}

func (r *FixedArrayRule) Name() string { return "fixed-array" }

func (r *FixedArrayRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.FixedArray || !s.Elem.IsFundamental() {
		return nil, false
	}
	return ir.BulkArray{
		Elem:     s.Elem.Basic,
		ElemType: TypeName(s.Elem),
		Enum:     s.Elem.Tag == classify.Enum,
		Dims:     s.Dims,
		Total:    s.Total,
	}, true
}

// StringRule: string or *string -> short-string cell.
type StringRule struct{}

func (r *StringRule) Name() string { return "string" }

func (r *StringRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.StdString {
		return nil, false
	}
	return ir.String{Pointer: s.PointerDepth > 0, Type: TypeName(s)}, true
}

// NestedStreamerRule: nested value whose type has a streamer, or is
// generated in the same run -> direct call.
type NestedStreamerRule struct {
	nestedSet NestedSet
}

func (r *NestedStreamerRule) Name() string { return "nested-streamer" }

func (r *NestedStreamerRule) SetNestedSet(set NestedSet) { r.nestedSet = set }

func (r *NestedStreamerRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.NestedObject || s.Interface {
		return nil, false
	}
	if !s.HasStreamer && !r.nestedSet.Has(s.Type.Canonical()) {
		return nil, false
	}
	return ir.NestedCall{
		Type:      TypeName(s),
		Class:     s.Class,
		Canonical: s.Type.Canonical(),
		Method:    s.HasStreamer,
	}, true
}

// NestedFallbackRule: nested value with no streamer in sight -> streamed
// through the registry by class name at run time.
type NestedFallbackRule struct{}

func (r *NestedFallbackRule) Name() string { return "nested-fallback" }

func (r *NestedFallbackRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.NestedObject || s.Interface {
		return nil, false
	}
	return ir.TypeErased{Type: TypeName(s), Class: s.Class}, true
}

// ObjectPointerRule: pointer to a nested object, or an interface -> object
// cell with null and back-reference support.
type ObjectPointerRule struct{}

func (r *ObjectPointerRule) Name() string { return "object-pointer" }

func (r *ObjectPointerRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	switch {
	case s.Tag == classify.NestedObject && s.Interface:
		return ir.ObjectPtr{Type: TypeName(s), Class: s.Class, Interface: true}, true
	case s.Tag == classify.Pointer && s.Elem.Tag == classify.NestedObject && !s.Elem.Interface:
		return ir.ObjectPtr{Type: TypeName(s), Elem: TypeName(s.Elem), Class: s.Elem.Class}, true
	}
	return nil, false
}

// ArrayLoopRule: fixed array of strings, objects or containers -> an index
// loop applying the element codec.
type ArrayLoopRule struct {
	element func(*classify.Shape) ir.Codec
}

func (r *ArrayLoopRule) Name() string { return "array-loop" }

func (r *ArrayLoopRule) SetElementResolver(fn func(*classify.Shape) ir.Codec) { r.element = fn }

func (r *ArrayLoopRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.FixedArray || r.element == nil {
		return nil, false
	}
	body := r.element(s.Elem)
	if p, ok := body.(ir.Placeholder); ok {
		return ir.Placeholder{Code: p.Code, Reason: "array element: " + p.Reason}, true
	}
	return ir.Loop{Dims: s.Dims, ElemType: TypeName(s.Elem), Body: body}, true
}

// PointerToPointerRule: **T -> error.
type PointerToPointerRule struct{}

func (r *PointerToPointerRule) Name() string { return "pointer-to-pointer" }

func (r *PointerToPointerRule) Try(f Field) (ir.Codec, bool) {
	if f.Desc.Shape.Tag != classify.PointerToPointer {
		return nil, false
	}
	return ir.Placeholder{Code: diag.ClsPointerToPointer, Reason: "pointer to pointer is not supported"}, true
}

// UnsupportedRule: references, zero-length arrays and kinds with no wire
// form -> error carrying the classifier's reason.
type UnsupportedRule struct{}

func (r *UnsupportedRule) Name() string { return "unsupported" }

func (r *UnsupportedRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	if s.Tag != classify.Unsupported && s.Tag != classify.Reference {
		return nil, false
	}
	code := s.Code
	if code == diag.UnknownCode {
		code = diag.CodecUnsupported
	}
	reason := s.Reason
	if reason == "" {
		reason = fmt.Sprintf("%s has no wire form", f.Desc.TypeName)
	}
	return ir.Placeholder{Code: code, Reason: reason}, true
}
