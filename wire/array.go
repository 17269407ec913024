package wire

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Fundamental is the set of element types the bulk array calls accept.
// Named types are allowed; the wire width follows the underlying kind.
type Fundamental interface {
	~bool |
		~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Integer is the set of types an enumeration can be declared over.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// WriteArray writes a fixed-size array: a 4-byte element count then the
// elements. Multi-dimensional arrays are passed flattened.
func WriteArray[T Fundamental](b *Buffer, s []T) {
	b.WriteCount(len(s))
	putElems(b, s)
}

// ReadStaticArray reads an array written by WriteArray into dst. The count on
// the wire must equal len(dst).
func ReadStaticArray[T Fundamental](b *Buffer, dst []T) {
	n := b.ReadCount()
	if b.err != nil {
		return
	}
	if n != len(dst) {
		b.SetErr(fmt.Errorf("wire: static array holds %d elements, wire has %d", len(dst), n))
		return
	}
	getElems(b, dst)
}

// WriteFastArray writes the first n elements of s with no count prefix. The
// reader learns n from a member streamed earlier.
func WriteFastArray[T Fundamental](b *Buffer, s []T, n int) {
	if n < 0 || n > len(s) {
		b.SetErr(fmt.Errorf("wire: sized array has %d elements, size member says %d", len(s), n))
		return
	}
	putElems(b, s[:n])
}

// ReadFastArray allocates n elements and reads them.
func ReadFastArray[T Fundamental](b *Buffer, n int) []T {
	if n < 0 {
		b.SetErr(fmt.Errorf("wire: negative sized array length %d", n))
		return nil
	}
	if n == 0 || b.err != nil {
		return nil
	}
	if n > b.Remaining() {
		b.SetErr(fmt.Errorf("%w: sized array of %d elements", ErrShortBuffer, n))
		return nil
	}
	out := make([]T, n)
	getElems(b, out)
	return out
}

// WriteEnumArray writes a fixed array of enumerators, each as 4 bytes.
func WriteEnumArray[T Integer](b *Buffer, s []T) {
	b.WriteCount(len(s))
	for _, v := range s {
		b.WriteInt32(int32(v))
	}
}

// ReadEnumArray reads a fixed array of enumerators into dst.
func ReadEnumArray[T Integer](b *Buffer, dst []T) {
	n := b.ReadCount()
	if b.err != nil {
		return
	}
	if n != len(dst) {
		b.SetErr(fmt.Errorf("wire: enum array holds %d elements, wire has %d", len(dst), n))
		return
	}
	for i := range dst {
		dst[i] = T(b.ReadInt32())
	}
}

// WriteArrayDouble32 writes a fixed array of Double32 as floats.
func WriteArrayDouble32(b *Buffer, s []Double32) {
	b.WriteCount(len(s))
	for _, v := range s {
		b.WriteDouble32(v)
	}
}

// ReadStaticArrayDouble32 reads a fixed array of Double32.
func ReadStaticArrayDouble32(b *Buffer, dst []Double32) {
	n := b.ReadCount()
	if b.err != nil {
		return
	}
	if n != len(dst) {
		b.SetErr(fmt.Errorf("wire: static array holds %d elements, wire has %d", len(dst), n))
		return
	}
	for i := range dst {
		dst[i] = b.ReadDouble32()
	}
}

// WriteFastArrayDouble32 writes n Double32 values with no count.
func WriteFastArrayDouble32(b *Buffer, s []Double32, n int) {
	if n < 0 || n > len(s) {
		b.SetErr(fmt.Errorf("wire: sized array has %d elements, size member says %d", len(s), n))
		return
	}
	for _, v := range s[:n] {
		b.WriteDouble32(v)
	}
}

// ReadFastArrayDouble32 allocates and reads n Double32 values.
func ReadFastArrayDouble32(b *Buffer, n int) []Double32 {
	if n <= 0 || b.err != nil {
		if n < 0 {
			b.SetErr(fmt.Errorf("wire: negative sized array length %d", n))
		}
		return nil
	}
	if 4*n > b.Remaining() {
		b.SetErr(fmt.Errorf("%w: sized array of %d elements", ErrShortBuffer, n))
		return nil
	}
	out := make([]Double32, n)
	for i := range out {
		out[i] = b.ReadDouble32()
	}
	return out
}

func elemKind[T Fundamental]() reflect.Kind {
	return reflect.TypeFor[T]().Kind()
}

// reinterpret views s as a slice of its underlying type U. T and U must
// share a memory representation, which holds when U is T's underlying type.
func reinterpret[U, T any](s []T) []U {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*U)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

func putElems[T Fundamental](b *Buffer, s []T) {
	switch elemKind[T]() {
	case reflect.Bool:
		for _, v := range reinterpret[bool](s) {
			b.WriteBool(v)
		}
	case reflect.Int8:
		for _, v := range reinterpret[int8](s) {
			b.WriteInt8(v)
		}
	case reflect.Uint8:
		b.WriteRaw(reinterpret[uint8](s))
	case reflect.Int16:
		for _, v := range reinterpret[int16](s) {
			b.WriteInt16(v)
		}
	case reflect.Uint16:
		for _, v := range reinterpret[uint16](s) {
			b.WriteUint16(v)
		}
	case reflect.Int32:
		for _, v := range reinterpret[int32](s) {
			b.WriteInt32(v)
		}
	case reflect.Uint32:
		for _, v := range reinterpret[uint32](s) {
			b.WriteUint32(v)
		}
	case reflect.Int64:
		for _, v := range reinterpret[int64](s) {
			b.WriteInt64(v)
		}
	case reflect.Uint64:
		for _, v := range reinterpret[uint64](s) {
			b.WriteUint64(v)
		}
	case reflect.Int:
		for _, v := range reinterpret[int](s) {
			b.WriteInt(v)
		}
	case reflect.Uint:
		for _, v := range reinterpret[uint](s) {
			b.WriteUint(v)
		}
	case reflect.Float32:
		for _, v := range reinterpret[float32](s) {
			b.WriteFloat32(v)
		}
	case reflect.Float64:
		for _, v := range reinterpret[float64](s) {
			b.WriteFloat64(v)
		}
	}
}

func getElems[T Fundamental](b *Buffer, dst []T) {
	switch elemKind[T]() {
	case reflect.Bool:
		out := reinterpret[bool](dst)
		for i := range out {
			out[i] = b.ReadBool()
		}
	case reflect.Int8:
		out := reinterpret[int8](dst)
		for i := range out {
			out[i] = b.ReadInt8()
		}
	case reflect.Uint8:
		if p := b.next(len(dst)); p != nil {
			copy(reinterpret[uint8](dst), p)
		}
	case reflect.Int16:
		out := reinterpret[int16](dst)
		for i := range out {
			out[i] = b.ReadInt16()
		}
	case reflect.Uint16:
		out := reinterpret[uint16](dst)
		for i := range out {
			out[i] = b.ReadUint16()
		}
	case reflect.Int32:
		out := reinterpret[int32](dst)
		for i := range out {
			out[i] = b.ReadInt32()
		}
	case reflect.Uint32:
		out := reinterpret[uint32](dst)
		for i := range out {
			out[i] = b.ReadUint32()
		}
	case reflect.Int64:
		out := reinterpret[int64](dst)
		for i := range out {
			out[i] = b.ReadInt64()
		}
	case reflect.Uint64:
		out := reinterpret[uint64](dst)
		for i := range out {
			out[i] = b.ReadUint64()
		}
	case reflect.Int:
		out := reinterpret[int](dst)
		for i := range out {
			out[i] = b.ReadInt()
		}
	case reflect.Uint:
		out := reinterpret[uint](dst)
		for i := range out {
			out[i] = b.ReadUint()
		}
	case reflect.Float32:
		out := reinterpret[float32](dst)
		for i := range out {
			out[i] = b.ReadFloat32()
		}
	case reflect.Float64:
		out := reinterpret[float64](dst)
		for i := range out {
			out[i] = b.ReadFloat64()
		}
	}
}
