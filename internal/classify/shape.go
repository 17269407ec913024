// Package classify maps declared types to their storage shape.
package classify

import (
	"strconv"
	"strings"

	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// Tag is the storage shape of a type.
type Tag uint8

const (
	Unsupported Tag = iota
	Fundamental
	Enum
	Pointer
	PointerToPointer
	FixedArray
	STLContainer
	StdString
	NestedObject
	Reference
)

var tagNames = [...]string{
	Unsupported:      "Unsupported",
	Fundamental:      "Fundamental",
	Enum:             "Enum",
	Pointer:          "Pointer",
	PointerToPointer: "PointerToPointer",
	FixedArray:       "FixedArray",
	STLContainer:     "STLContainer",
	StdString:        "StdString",
	NestedObject:     "NestedObject",
	Reference:        "Reference",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// Container is the kind of an STLContainer shape.
type Container uint8

const (
	NoContainer Container = iota
	Vector
	List
	Deque
	Map
	MultiMap
	Set
	MultiSet
	Bitset
)

var containerNames = [...]string{
	NoContainer: "",
	Vector:      "vector",
	List:        "list",
	Deque:       "deque",
	Map:         "map",
	MultiMap:    "multimap",
	Set:         "set",
	MultiSet:    "multiset",
	Bitset:      "bitset",
}

func (c Container) String() string {
	if int(c) < len(containerNames) {
		return containerNames[c]
	}
	return "container"
}

// Keyed reports whether the container has a key type.
func (c Container) Keyed() bool {
	switch c {
	case Map, MultiMap, Set, MultiSet:
		return true
	}
	return false
}

// Associative reports whether iteration order is implementation defined.
func (c Container) Associative() bool { return c.Keyed() }

// HasValue reports whether the container stores a value per element, as
// opposed to sets whose elements are their keys.
func (c Container) HasValue() bool {
	return c != Set && c != MultiSet
}

// Shape is the classification of one type. Shapes are shared through the
// cache and must not be modified.
type Shape struct {
	Tag   Tag
	Basic typeinfo.BasicKind
	// PointerDepth counts the pointer levels stripped from the type.
	PointerDepth int
	// Dims and Total describe fixed arrays; Total is the product of Dims.
	Dims  []int
	Total int
	// Elem is the pointee, array element or container value.
	Elem *Shape
	// Container and Key describe STLContainer shapes.
	Container Container
	Key       *Shape
	// Class is the registered name of enums and nested objects.
	Class       string
	HasStreamer bool
	Interface   bool
	// Type is the type the shape was computed from.
	Type typeinfo.TypeInfo
	// Reason and Code explain an Unsupported shape.
	Reason string
	Code   diag.Code
}

// IsFundamental reports whether s is a scalar that bulk arrays can carry.
func (s *Shape) IsFundamental() bool {
	return s != nil && (s.Tag == Fundamental || s.Tag == Enum)
}

// Integer reports whether s can size an array.
func (s *Shape) Integer() bool {
	return s != nil && s.Tag == Fundamental && s.Basic.Integer()
}

// Supported reports whether s and everything it contains has a wire form.
func (s *Shape) Supported() bool {
	if s == nil {
		return true
	}
	switch s.Tag {
	case Unsupported, Reference, PointerToPointer:
		return false
	}
	return s.Elem.Supported() && s.Key.Supported()
}

// String renders the shape compactly, e.g. map<Fundamental,vector<StdString>>.
func (s *Shape) String() string {
	if s == nil {
		return "<nil>"
	}
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s *Shape) write(b *strings.Builder) {
	switch s.Tag {
	case STLContainer:
		b.WriteString(s.Container.String())
		b.WriteByte('<')
		if s.Key != nil {
			s.Key.write(b)
			if s.Elem != nil {
				b.WriteByte(',')
			}
		}
		if s.Elem != nil {
			s.Elem.write(b)
		}
		b.WriteByte('>')
	case FixedArray:
		for _, d := range s.Dims {
			b.WriteString("[" + strconv.Itoa(d) + "]")
		}
		s.Elem.write(b)
	case Pointer:
		b.WriteByte('*')
		s.Elem.write(b)
	default:
		b.WriteString(s.Tag.String())
		if s.Tag == StdString && s.PointerDepth > 0 {
			b.WriteByte('*')
		}
	}
}
