package wire

import (
	"iter"
	"reflect"
	"slices"
)

// The container types below give Go fields the wire shapes of the sequence
// and associative kinds that have no direct Go builtin. Slices stream as
// vectors, maps as maps and map[K]struct{} as sets.

// List is an ordered sequence streamed with the list kind.
type List[T any] struct {
	items []T
}

// NewList returns a list holding vs in order.
func NewList[T any](vs ...T) *List[T] { return &List[T]{items: slices.Clone(vs)} }

func (l *List[T]) PushBack(v T)  { l.items = append(l.items, v) }
func (l *List[T]) PushFront(v T) { l.items = slices.Insert(l.items, 0, v) }
func (l *List[T]) Len() int      { return len(l.items) }
func (l *List[T]) Clear()        { l.items = l.items[:0] }

// All yields the elements front to back.
func (l *List[T]) All() iter.Seq[T] { return slices.Values(l.items) }

// Deque is a double-ended queue streamed with the deque kind.
type Deque[T any] struct {
	items []T
}

// NewDeque returns a deque holding vs in order.
func NewDeque[T any](vs ...T) *Deque[T] { return &Deque[T]{items: slices.Clone(vs)} }

func (d *Deque[T]) PushBack(v T)  { d.items = append(d.items, v) }
func (d *Deque[T]) PushFront(v T) { d.items = slices.Insert(d.items, 0, v) }
func (d *Deque[T]) Len() int      { return len(d.items) }
func (d *Deque[T]) Clear()        { d.items = d.items[:0] }
func (d *Deque[T]) At(i int) T    { return d.items[i] }

// PopFront removes and returns the first element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if len(d.items) == 0 {
		return zero, false
	}
	v := d.items[0]
	d.items = d.items[1:]
	return v, true
}

// All yields the elements front to back.
func (d *Deque[T]) All() iter.Seq[T] { return slices.Values(d.items) }

// Set is an unordered collection of distinct keys.
type Set[K comparable] struct {
	m map[K]struct{}
}

// NewSet returns a set holding ks.
func NewSet[K comparable](ks ...K) *Set[K] {
	s := &Set[K]{}
	for _, k := range ks {
		s.Insert(k)
	}
	return s
}

func (s *Set[K]) Insert(k K) {
	if s.m == nil {
		s.m = map[K]struct{}{}
	}
	s.m[k] = struct{}{}
}

func (s *Set[K]) Has(k K) bool {
	_, ok := s.m[k]
	return ok
}

func (s *Set[K]) Len() int { return len(s.m) }
func (s *Set[K]) Clear()   { clear(s.m) }

// All yields the keys in unspecified order.
func (s *Set[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.m {
			if !yield(k) {
				return
			}
		}
	}
}

// MultiSet is a set that keeps duplicates.
type MultiSet[K comparable] struct {
	m map[K]int
	n int
}

// NewMultiSet returns a multiset holding ks.
func NewMultiSet[K comparable](ks ...K) *MultiSet[K] {
	s := &MultiSet[K]{}
	for _, k := range ks {
		s.Insert(k)
	}
	return s
}

func (s *MultiSet[K]) Insert(k K) {
	if s.m == nil {
		s.m = map[K]int{}
	}
	s.m[k]++
	s.n++
}

// Count returns how many times k was inserted.
func (s *MultiSet[K]) Count(k K) int { return s.m[k] }
func (s *MultiSet[K]) Len() int      { return s.n }

func (s *MultiSet[K]) Clear() {
	clear(s.m)
	s.n = 0
}

// All yields every key once per insertion; equal keys are adjacent.
func (s *MultiSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k, n := range s.m {
			for range n {
				if !yield(k) {
					return
				}
			}
		}
	}
}

// MultiMap maps a key to any number of values.
type MultiMap[K comparable, V any] struct {
	m map[K][]V
	n int
}

// NewMultiMap returns an empty multimap.
func NewMultiMap[K comparable, V any]() *MultiMap[K, V] { return &MultiMap[K, V]{} }

func (mm *MultiMap[K, V]) Insert(k K, v V) {
	if mm.m == nil {
		mm.m = map[K][]V{}
	}
	mm.m[k] = append(mm.m[k], v)
	mm.n++
}

// Get returns the values stored under k in insertion order.
func (mm *MultiMap[K, V]) Get(k K) []V { return mm.m[k] }
func (mm *MultiMap[K, V]) Len() int    { return mm.n }

func (mm *MultiMap[K, V]) Clear() {
	clear(mm.m)
	mm.n = 0
}

// All yields every key/value pair; pairs sharing a key are adjacent and in
// insertion order.
func (mm *MultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, vs := range mm.m {
			for _, v := range vs {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Bitset is a sequence of bits streamed as one bool per bit.
type Bitset struct {
	bits []bool
}

// NewBitset returns a bitset of n cleared bits.
func NewBitset(n int) *Bitset { return &Bitset{bits: make([]bool, n)} }

func (bs *Bitset) PushBack(v bool)   { bs.bits = append(bs.bits, v) }
func (bs *Bitset) Len() int          { return len(bs.bits) }
func (bs *Bitset) Clear()            { bs.bits = bs.bits[:0] }
func (bs *Bitset) Test(i int) bool   { return bs.bits[i] }
func (bs *Bitset) Set(i int, v bool) { bs.bits[i] = v }

// All yields the bits in index order.
func (bs *Bitset) All() iter.Seq[bool] { return slices.Values(bs.bits) }

// reflectContainer is implemented by the container types so the automatic
// streamer can fill and walk them without knowing their type arguments.
type reflectContainer interface {
	Len() int
	Clear()
	elemTypes() (key, elem reflect.Type)
	insertValue(key, elem reflect.Value)
	rangeValues(fn func(key, elem reflect.Value) bool)
}

func (l *List[T]) elemTypes() (reflect.Type, reflect.Type) { return nil, reflect.TypeFor[T]() }
func (l *List[T]) insertValue(_, v reflect.Value)          { l.PushBack(valueAs[T](v)) }
func (l *List[T]) rangeValues(fn func(_, v reflect.Value) bool) {
	for _, v := range l.items {
		if !fn(reflect.Value{}, reflect.ValueOf(&v).Elem()) {
			return
		}
	}
}

func (d *Deque[T]) elemTypes() (reflect.Type, reflect.Type) { return nil, reflect.TypeFor[T]() }
func (d *Deque[T]) insertValue(_, v reflect.Value)          { d.PushBack(valueAs[T](v)) }
func (d *Deque[T]) rangeValues(fn func(_, v reflect.Value) bool) {
	for _, v := range d.items {
		if !fn(reflect.Value{}, reflect.ValueOf(&v).Elem()) {
			return
		}
	}
}

func (s *Set[K]) elemTypes() (reflect.Type, reflect.Type) { return reflect.TypeFor[K](), nil }
func (s *Set[K]) insertValue(k, _ reflect.Value)          { s.Insert(valueAs[K](k)) }
func (s *Set[K]) rangeValues(fn func(k, _ reflect.Value) bool) {
	for k := range s.All() {
		if !fn(reflect.ValueOf(&k).Elem(), reflect.Value{}) {
			return
		}
	}
}

func (s *MultiSet[K]) elemTypes() (reflect.Type, reflect.Type) { return reflect.TypeFor[K](), nil }
func (s *MultiSet[K]) insertValue(k, _ reflect.Value)          { s.Insert(valueAs[K](k)) }
func (s *MultiSet[K]) rangeValues(fn func(k, _ reflect.Value) bool) {
	for k := range s.All() {
		if !fn(reflect.ValueOf(&k).Elem(), reflect.Value{}) {
			return
		}
	}
}

func (mm *MultiMap[K, V]) elemTypes() (reflect.Type, reflect.Type) {
	return reflect.TypeFor[K](), reflect.TypeFor[V]()
}

func (mm *MultiMap[K, V]) insertValue(k, v reflect.Value) {
	mm.Insert(valueAs[K](k), valueAs[V](v))
}

func (mm *MultiMap[K, V]) rangeValues(fn func(k, v reflect.Value) bool) {
	for k, v := range mm.All() {
		if !fn(reflect.ValueOf(&k).Elem(), reflect.ValueOf(&v).Elem()) {
			return
		}
	}
}

func (bs *Bitset) elemTypes() (reflect.Type, reflect.Type) { return nil, reflect.TypeFor[bool]() }
func (bs *Bitset) insertValue(_, v reflect.Value)          { bs.PushBack(v.Bool()) }
func (bs *Bitset) rangeValues(fn func(_, v reflect.Value) bool) {
	for _, v := range bs.bits {
		if !fn(reflect.Value{}, reflect.ValueOf(v)) {
			return
		}
	}
}

func valueAs[T any](v reflect.Value) T {
	var out T
	reflect.ValueOf(&out).Elem().Set(v)
	return out
}
