// Package wire is the runtime half of gen-dict: the versioned binary buffer,
// the class registry and the generic streamers the generated code calls into.
//
// All multi-byte values are big-endian. A Buffer is either reading or
// writing, never both. Errors are sticky: after the first failure every read
// returns a zero value and Err reports the failure, so generated code can run
// a straight sequence of calls and check once at the end.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"fortio.org/safecast"
)

// Mode tells whether a Buffer is consumed or produced.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
)

// ErrShortBuffer is reported when a read runs past the end of the data.
var ErrShortBuffer = errors.New("wire: read past end of buffer")

// Buffer is the stream a Streamer reads from or writes to.
type Buffer struct {
	mode Mode
	data []byte
	off  int
	err  error

	registry *Registry
	catalog  *Catalog

	// object and class back-references, keyed by the position of the
	// corresponding record in this buffer.
	writtenObjects map[any]uint32
	writtenClasses map[string]uint32
	readObjects    map[uint32]any
	readClasses    map[uint32]*ClassInfo
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithRegistry makes the buffer resolve classes through r instead of the
// default registry.
func WithRegistry(r *Registry) Option {
	return func(b *Buffer) { b.registry = r }
}

// WithCatalog attaches a schema catalog. Writers record the layout of every
// class streamed in automatic mode; readers use it to decode older versions.
func WithCatalog(c *Catalog) Option {
	return func(b *Buffer) { b.catalog = c }
}

// NewWriter returns an empty buffer in write mode.
func NewWriter(opts ...Option) *Buffer {
	b := &Buffer{mode: ModeWrite, data: make([]byte, 0, 256)}
	for _, o := range opts {
		o(b)
	}
	return b
}

// NewReader returns a buffer reading data.
func NewReader(data []byte, opts ...Option) *Buffer {
	b := &Buffer{mode: ModeRead, data: data}
	for _, o := range opts {
		o(b)
	}
	return b
}

// IsReading reports whether the buffer is in read mode.
func (b *Buffer) IsReading() bool { return b.mode == ModeRead }

// IsWriting reports whether the buffer is in write mode.
func (b *Buffer) IsWriting() bool { return b.mode == ModeWrite }

// Bytes returns the written bytes (write mode) or the whole input (read mode).
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Pos returns the current read or write position.
func (b *Buffer) Pos() int {
	if b.mode == ModeWrite {
		return len(b.data)
	}
	return b.off
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int { return len(b.data) - b.off }

// Err returns the first error recorded on the buffer.
func (b *Buffer) Err() error { return b.err }

// SetErr records err unless an error is already recorded.
func (b *Buffer) SetErr(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Catalog returns the attached schema catalog, if any.
func (b *Buffer) Catalog() *Catalog { return b.catalog }

// Registry returns the registry the buffer resolves classes through.
func (b *Buffer) Registry() *Registry {
	if b.registry == nil {
		return DefaultRegistry
	}
	return b.registry
}

func (b *Buffer) next(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || b.off+n > len(b.data) {
		b.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, n, b.off, len(b.data)-b.off)
		return nil
	}
	p := b.data[b.off : b.off+n]
	b.off += n
	return p
}

// WriteBool writes one byte, 1 for true.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
		return
	}
	b.data = append(b.data, 0)
}

// ReadBool reads one byte.
func (b *Buffer) ReadBool() bool {
	p := b.next(1)
	return p != nil && p[0] != 0
}

func (b *Buffer) WriteInt8(v int8)   { b.data = append(b.data, byte(v)) }
func (b *Buffer) WriteUint8(v uint8) { b.data = append(b.data, v) }

func (b *Buffer) ReadInt8() int8 { return int8(b.ReadUint8()) }

func (b *Buffer) ReadUint8() uint8 {
	p := b.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (b *Buffer) WriteInt16(v int16)   { b.WriteUint16(uint16(v)) }
func (b *Buffer) WriteUint16(v uint16) { b.data = binary.BigEndian.AppendUint16(b.data, v) }

func (b *Buffer) ReadInt16() int16 { return int16(b.ReadUint16()) }

func (b *Buffer) ReadUint16() uint16 {
	p := b.next(2)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint16(p)
}

func (b *Buffer) WriteInt32(v int32)   { b.WriteUint32(uint32(v)) }
func (b *Buffer) WriteUint32(v uint32) { b.data = binary.BigEndian.AppendUint32(b.data, v) }

func (b *Buffer) ReadInt32() int32 { return int32(b.ReadUint32()) }

func (b *Buffer) ReadUint32() uint32 {
	p := b.next(4)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint32(p)
}

func (b *Buffer) WriteInt64(v int64)   { b.WriteUint64(uint64(v)) }
func (b *Buffer) WriteUint64(v uint64) { b.data = binary.BigEndian.AppendUint64(b.data, v) }

func (b *Buffer) ReadInt64() int64 { return int64(b.ReadUint64()) }

func (b *Buffer) ReadUint64() uint64 {
	p := b.next(8)
	if p == nil {
		return 0
	}
	return binary.BigEndian.Uint64(p)
}

// WriteInt writes a platform int as 8 bytes.
func (b *Buffer) WriteInt(v int) { b.WriteInt64(int64(v)) }

// ReadInt reads an 8-byte integer into a platform int.
func (b *Buffer) ReadInt() int {
	v := b.ReadInt64()
	n, err := safecast.Conv[int](v)
	if err != nil {
		b.SetErr(fmt.Errorf("wire: int %d out of range: %w", v, err))
		return 0
	}
	return n
}

// WriteUint writes a platform uint as 8 bytes.
func (b *Buffer) WriteUint(v uint) { b.WriteUint64(uint64(v)) }

// ReadUint reads an 8-byte unsigned integer into a platform uint.
func (b *Buffer) ReadUint() uint {
	v := b.ReadUint64()
	n, err := safecast.Conv[uint](v)
	if err != nil {
		b.SetErr(fmt.Errorf("wire: uint %d out of range: %w", v, err))
		return 0
	}
	return n
}

func (b *Buffer) WriteFloat32(v float32) { b.WriteUint32(math.Float32bits(v)) }
func (b *Buffer) WriteFloat64(v float64) { b.WriteUint64(math.Float64bits(v)) }

func (b *Buffer) ReadFloat32() float32 { return math.Float32frombits(b.ReadUint32()) }
func (b *Buffer) ReadFloat64() float64 { return math.Float64frombits(b.ReadUint64()) }

// Double32 is a float64 in memory that travels as a float32.
type Double32 float64

// WriteDouble32 writes v truncated to single precision.
func (b *Buffer) WriteDouble32(v Double32) { b.WriteFloat32(float32(v)) }

// ReadDouble32 reads a single precision value widened to Double32.
func (b *Buffer) ReadDouble32() Double32 { return Double32(b.ReadFloat32()) }

// WriteCount writes a container or array length as a 4-byte signed count.
func (b *Buffer) WriteCount(n int) {
	c, err := safecast.Conv[int32](n)
	if err != nil {
		b.SetErr(fmt.Errorf("wire: count %d does not fit the wire: %w", n, err))
		return
	}
	b.WriteInt32(c)
}

// ReadCount reads a 4-byte count. Negative counts are an error.
func (b *Buffer) ReadCount() int {
	c := b.ReadInt32()
	if c < 0 {
		b.SetErr(fmt.Errorf("wire: negative count %d at offset %d", c, b.off-4))
		return 0
	}
	// a count can never exceed the bytes left; this keeps a corrupt
	// count from driving a huge allocation.
	if int(c) > b.Remaining() && b.err == nil {
		b.SetErr(fmt.Errorf("wire: count %d exceeds remaining %d bytes", c, b.Remaining()))
		return 0
	}
	return int(c)
}

// WriteRaw appends p verbatim.
func (b *Buffer) WriteRaw(p []byte) { b.data = append(b.data, p...) }

// ReadRaw returns the next n bytes.
func (b *Buffer) ReadRaw(n int) []byte { return b.next(n) }

// Seek moves the read position to off.
func (b *Buffer) Seek(off int) {
	if off < 0 || off > len(b.data) {
		b.SetErr(fmt.Errorf("wire: seek to %d outside [0,%d]", off, len(b.data)))
		return
	}
	b.off = off
}

func (b *Buffer) patchUint32(at int, v uint32) {
	binary.BigEndian.PutUint32(b.data[at:at+4], v)
}
