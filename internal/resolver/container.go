package resolver

import (
	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/ir"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// ContainerRule: sequence or associative container, or a pointer to one ->
// count then elements, each element planned through the whole rule chain.
type ContainerRule struct {
	element func(*classify.Shape) ir.Codec
}

func (r *ContainerRule) Name() string { return "container" }

func (r *ContainerRule) SetElementResolver(fn func(*classify.Shape) ir.Codec) { r.element = fn }

func (r *ContainerRule) Try(f Field) (ir.Codec, bool) {
	s := f.Desc.Shape
	pointer := false
	if s.Tag == classify.Pointer && s.Elem != nil && s.Elem.Tag == classify.STLContainer {
		s = s.Elem
		pointer = true
	}
	if s.Tag != classify.STLContainer || r.element == nil {
		return nil, false
	}
	return r.plan(s, pointer), true
}

func (r *ContainerRule) plan(s *classify.Shape, pointer bool) ir.Codec {
	c := ir.Container{
		Kind:    s.Container,
		Type:    TypeName(s),
		Pointer: pointer,
	}
	if s.Type != nil {
		k := s.Type.Kind()
		c.Native = k == typeinfo.KindSlice || k == typeinfo.KindMap
	}
	if s.Container.Keyed() {
		key := r.element(s.Key)
		if p, ok := key.(ir.Placeholder); ok {
			return ir.Placeholder{Code: p.Code, Reason: s.Container.String() + " key: " + p.Reason}
		}
		c.Key, c.KeyType = key, TypeName(s.Key)
	}
	if s.Container.HasValue() {
		value := r.element(s.Elem)
		if p, ok := value.(ir.Placeholder); ok {
			return ir.Placeholder{Code: p.Code, Reason: s.Container.String() + " element: " + p.Reason}
		}
		c.Value, c.ValueType = value, TypeName(s.Elem)
	}
	return c
}
