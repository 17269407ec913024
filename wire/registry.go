package wire

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ClassInfo is the registration of one class: everything downstream code
// needs to create, stream, inspect and merge its instances.
type ClassInfo struct {
	Name    string
	Version int16
	Size    uintptr
	Type    reflect.Type

	// New returns a pointer to a fresh instance. Nil for abstract classes.
	New func() any
	// NewArray returns a slice of n zero instances.
	NewArray func(n int) any
	// Destruct releases resources held by obj, when the class has a
	// Destruct method.
	Destruct func(obj any)

	DirectoryAutoAdd func(obj any, dir Directory)
	Merge            func(obj any, list []any, info *MergeInfo) (int64, error)
	ResetAfterMerge  func(obj any, info *MergeInfo)

	Streamer    func(obj any, b *Buffer) error
	ShowMembers func(obj any, insp Inspector)

	// Members is the streamed layout in wire order: bases first, then
	// fields. Transient fields are absent.
	Members []Member

	ReadRules    []ReadRule
	ReadRawRules []ReadRule
}

// Abstract reports whether the class has no constructor.
func (ci *ClassInfo) Abstract() bool { return ci.New == nil }

// Kind is the wire shape of a member.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindInt
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindUint
	KindFloat32
	KindFloat64
	KindDouble32
	KindEnum
	KindString
	KindStringPtr
	KindArray      // fixed array, Dims set, count then flat data
	KindSizedArray // slice sized by the member named in Index, data only
	KindVector
	KindList
	KindDeque
	KindSet
	KindMultiSet
	KindMap
	KindMultiMap
	KindBitset
	KindObject    // nested value with its own streamer
	KindObjectPtr // pointer or interface through the object cell
	KindBase      // embedded base class block
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindInt32:      "int32",
	KindInt64:      "int64",
	KindInt:        "int",
	KindUint8:      "uint8",
	KindUint16:     "uint16",
	KindUint32:     "uint32",
	KindUint64:     "uint64",
	KindUint:       "uint",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindDouble32:   "Double32",
	KindEnum:       "enum",
	KindString:     "string",
	KindStringPtr:  "*string",
	KindArray:      "array",
	KindSizedArray: "sized-array",
	KindVector:     "vector",
	KindList:       "list",
	KindDeque:      "deque",
	KindSet:        "set",
	KindMultiSet:   "multiset",
	KindMap:        "map",
	KindMultiMap:   "multimap",
	KindBitset:     "bitset",
	KindObject:     "object",
	KindObjectPtr:  "object*",
	KindBase:       "base",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Fundamental reports whether k is a scalar with a fixed wire width.
func (k Kind) Fundamental() bool { return k >= KindBool && k <= KindDouble32 }

// TypeDesc describes the wire shape of a member or container element.
type TypeDesc struct {
	Kind  Kind      `msgpack:"kind"`
	Class string    `msgpack:"class,omitempty"`
	Dims  []int     `msgpack:"dims,omitempty"`
	Key   *TypeDesc `msgpack:"key,omitempty"`
	Elem  *TypeDesc `msgpack:"elem,omitempty"`
}

func (t TypeDesc) String() string {
	switch t.Kind {
	case KindArray:
		return fmt.Sprintf("%v%v", t.Dims, t.Elem)
	case KindSizedArray:
		return "[]" + t.Elem.String()
	case KindMap, KindMultiMap:
		return fmt.Sprintf("%s<%v,%v>", t.Kind, t.Key, t.Elem)
	case KindSet, KindMultiSet:
		return fmt.Sprintf("%s<%v>", t.Kind, t.Key)
	case KindVector, KindList, KindDeque:
		return fmt.Sprintf("%s<%v>", t.Kind, t.Elem)
	case KindObject, KindObjectPtr, KindBase, KindEnum:
		if t.Class != "" {
			return t.Kind.String() + " " + t.Class
		}
	}
	return t.Kind.String()
}

// Total returns the flat element count of a fixed array.
func (t TypeDesc) Total() int {
	n := 1
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

// Member is one streamed member of a class.
type Member struct {
	Name  string   `msgpack:"name"`
	Type  TypeDesc `msgpack:"type"`
	Index string   `msgpack:"index,omitempty"`
	Title string   `msgpack:"title,omitempty"`
}

// Registry maps class names and Go types to lazily built registrations.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*entry
	byType map[reflect.Type]*entry
}

type entry struct {
	name string
	typ  reflect.Type
	init func() *ClassInfo
}

// DefaultRegistry is the registry generated code announces into.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]*entry{},
		byType: map[reflect.Type]*entry{},
	}
}

// Announce makes a class known by name and type. init builds the
// registration on first lookup and must be safe to call from several
// goroutines, returning the same value each time; the sync.OnceValue
// emitted by the generator satisfies both.
func (r *Registry) Announce(name string, typ reflect.Type, init func() *ClassInfo) {
	e := &entry{name: name, typ: typ, init: init}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[name] = e
	if typ != nil {
		r.byType[typ] = e
	}
}

// Register announces an already-built registration.
func (r *Registry) Register(info *ClassInfo) {
	r.Announce(info.Name, info.Type, func() *ClassInfo { return info })
}

// Lookup returns the registration of the named class, or nil.
func (r *Registry) Lookup(name string) *ClassInfo {
	r.mu.RLock()
	e := r.byName[name]
	r.mu.RUnlock()
	if e == nil {
		return nil
	}
	return e.init()
}

// LookupType returns the registration of the class whose Go type is t, or
// of its element type when t is a pointer.
func (r *Registry) LookupType(t reflect.Type) *ClassInfo {
	if t == nil {
		return nil
	}
	r.mu.RLock()
	e := r.byType[t]
	if e == nil && t.Kind() == reflect.Pointer {
		e = r.byType[t.Elem()]
	}
	r.mu.RUnlock()
	if e == nil {
		return nil
	}
	return e.init()
}

// Names returns the announced class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Announce registers a class with DefaultRegistry.
func Announce(name string, typ reflect.Type, init func() *ClassInfo) {
	DefaultRegistry.Announce(name, typ, init)
}

// Lookup finds a class in DefaultRegistry.
func Lookup(name string) *ClassInfo { return DefaultRegistry.Lookup(name) }

// LookupType finds a class by Go type in DefaultRegistry.
func LookupType(t reflect.Type) *ClassInfo { return DefaultRegistry.LookupType(t) }

// StreamObject streams the object at ptr through the streamer registered
// under class. This is the late-bound path for nested objects whose type
// had no streamer visible when the dictionary was generated.
func (b *Buffer) StreamObject(ptr any, class string) error {
	info := b.Registry().Lookup(class)
	if info == nil || info.Streamer == nil {
		err := fmt.Errorf("%w: %s", ErrUnknownClass, class)
		b.SetErr(err)
		return err
	}
	return info.Streamer(ptr, b)
}
