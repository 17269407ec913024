package classify

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// DefaultCacheSize bounds the number of memoized canonical types.
const DefaultCacheSize = 1024

// Classifier classifies types, memoizing the result per canonical type.
type Classifier struct {
	cache     *lru.Cache[string, *Shape]
	longNames bool
}

// New creates a classifier. longNames selects full import paths in the
// class names of enums and nested objects.
func New(cacheSize int, longNames bool) (*Classifier, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *Shape](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Classifier{cache: cache, longNames: longNames}, nil
}

// Classify returns the shape of t.
func (c *Classifier) Classify(t typeinfo.TypeInfo) *Shape {
	if t == nil {
		return &Shape{Tag: Unsupported, Reason: "missing type", Code: diag.ClsUnsupportedKind}
	}
	key := t.Canonical()
	if s, ok := c.cache.Get(key); ok {
		return s
	}
	s := c.classify(t)
	c.cache.Add(key, s)
	return s
}

// Cached reports how many shapes are memoized.
func (c *Classifier) Cached() int { return c.cache.Len() }

// Classify is the uncached classification with short class names.
func Classify(t typeinfo.TypeInfo) *Shape {
	return (&Classifier{}).classify(t)
}

func (c *Classifier) classify(t typeinfo.TypeInfo) *Shape {
	// strings have their own wire cell; check before anything else
	if s, ok := stdString(t); ok {
		return s
	}

	switch t.Kind() {
	case typeinfo.KindBasic:
		return &Shape{Tag: Fundamental, Basic: t.Basic(), Type: t}
	case typeinfo.KindEnum:
		return &Shape{Tag: Enum, Basic: t.Basic(), Class: c.className(t), Type: t}
	case typeinfo.KindReference:
		return &Shape{
			Tag:    Reference,
			Type:   t,
			Reason: "reference members are never serialized automatically",
			Code:   diag.ClsReference,
		}
	case typeinfo.KindPointer:
		return c.pointer(t)
	case typeinfo.KindArray:
		return c.array(t)
	case typeinfo.KindSlice:
		return &Shape{Tag: STLContainer, Container: Vector, Elem: c.sub(t.Elem()), Type: t}
	case typeinfo.KindMap:
		if isEmptyStruct(t.Elem()) {
			return &Shape{Tag: STLContainer, Container: Set, Key: c.sub(t.Key()), Type: t}
		}
		return &Shape{Tag: STLContainer, Container: Map, Key: c.sub(t.Key()), Elem: c.sub(t.Elem()), Type: t}
	case typeinfo.KindTemplate:
		return c.template(t)
	case typeinfo.KindStruct:
		if isEmptyStruct(t) {
			return &Shape{Tag: Unsupported, Type: t, Reason: "empty struct has no wire form", Code: diag.ClsUnsupportedKind}
		}
		return &Shape{Tag: NestedObject, Class: c.className(t), HasStreamer: t.HasStreamer(), Type: t}
	case typeinfo.KindInterface:
		return &Shape{Tag: NestedObject, Interface: true, Class: c.className(t), Type: t}
	}
	return &Shape{
		Tag:    Unsupported,
		Type:   t,
		Reason: fmt.Sprintf("type %s has no wire form", t.Name()),
		Code:   diag.ClsUnsupportedKind,
	}
}

func (c *Classifier) sub(t typeinfo.TypeInfo) *Shape {
	if c.cache == nil {
		return c.classify(t)
	}
	return c.Classify(t)
}

func stdString(t typeinfo.TypeInfo) (*Shape, bool) {
	switch t.Kind() {
	case typeinfo.KindString:
		return &Shape{Tag: StdString, Type: t}, true
	case typeinfo.KindPointer:
		if e := t.Elem(); e != nil && e.Kind() == typeinfo.KindString {
			return &Shape{Tag: StdString, PointerDepth: 1, Type: t}, true
		}
	}
	return nil, false
}

func (c *Classifier) pointer(t typeinfo.TypeInfo) *Shape {
	depth := 0
	inner := typeinfo.TypeInfo(t)
	for inner.Kind() == typeinfo.KindPointer {
		depth++
		inner = inner.Elem()
	}
	if depth > 1 {
		return &Shape{
			Tag:          PointerToPointer,
			PointerDepth: depth,
			Elem:         c.sub(inner),
			Type:         t,
			Reason:       "pointer to pointer is not supported",
			Code:         diag.ClsPointerToPointer,
		}
	}
	return &Shape{Tag: Pointer, PointerDepth: 1, Elem: c.sub(inner), Type: t}
}

func (c *Classifier) array(t typeinfo.TypeInfo) *Shape {
	var dims []int
	inner := typeinfo.TypeInfo(t)
	for inner.Kind() == typeinfo.KindArray {
		dims = append(dims, inner.Len())
		inner = inner.Elem()
	}
	total := 1
	for _, d := range dims {
		if d == 0 {
			return &Shape{
				Tag:    Unsupported,
				Dims:   dims,
				Type:   t,
				Reason: "zero-length array dimension",
				Code:   diag.ClsZeroDim,
			}
		}
		total *= d
	}
	return &Shape{Tag: FixedArray, Dims: dims, Total: total, Elem: c.sub(inner), Type: t}
}

func (c *Classifier) template(t typeinfo.TypeInfo) *Shape {
	s := &Shape{Tag: STLContainer, Type: t}
	switch t.Template() {
	case "vector":
		s.Container = Vector
	case "list":
		s.Container = List
	case "deque":
		s.Container = Deque
	case "map":
		s.Container = Map
	case "multimap":
		s.Container = MultiMap
	case "set":
		s.Container = Set
	case "multiset":
		s.Container = MultiSet
	case "bitset":
		s.Container = Bitset
		s.Elem = &Shape{Tag: Fundamental, Basic: typeinfo.Bool}
		return s
	default:
		return &Shape{
			Tag:    Unsupported,
			Type:   t,
			Reason: fmt.Sprintf("unknown container template %q", t.Template()),
			Code:   diag.ClsUnsupportedKind,
		}
	}
	if s.Container.Keyed() {
		if t.Key() == nil {
			return &Shape{Tag: Unsupported, Type: t, Reason: "keyed container without key type", Code: diag.ClsUnsupportedKind}
		}
		s.Key = c.sub(t.Key())
	}
	if s.Container.HasValue() {
		if t.Elem() == nil {
			return &Shape{Tag: Unsupported, Type: t, Reason: "container without element type", Code: diag.ClsUnsupportedKind}
		}
		s.Elem = c.sub(t.Elem())
	}
	return s
}

func (c *Classifier) className(t typeinfo.TypeInfo) string {
	if t.TypeName() == "" {
		return t.Name()
	}
	return typeinfo.ClassName(t.PkgPath(), t.PkgName(), t.TypeName(), c.longNames)
}

func isEmptyStruct(t typeinfo.TypeInfo) bool {
	return t != nil && t.Kind() == typeinfo.KindStruct && t.TypeName() == "" && t.Canonical() == "struct{}"
}
