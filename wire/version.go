package wire

import (
	"fmt"

	"fortio.org/safecast"
)

// DummyVersion is the version tag of a class that does not stream its own
// members. No byte count follows it.
const DummyVersion int16 = 0

// ByteCount remembers where a class block's byte count lives so it can be
// patched after writing or verified after reading.
type ByteCount struct {
	// start is the position right after the count field, or -1 for a
	// dummy block.
	start   int
	count   int
	version int16
}

// Version is the version tag the block was written or read with.
func (c ByteCount) Version() int16 { return c.version }

// Dummy reports whether the block carried no byte count.
func (c ByteCount) Dummy() bool { return c.start < 0 }

// End is the position of the first byte after the block.
func (c ByteCount) End() int { return c.start + c.count }

// WriteVersion writes the version tag and, unless v is not positive, a
// byte-count placeholder to be filled in by SetByteCount.
func (b *Buffer) WriteVersion(v int16) ByteCount {
	if v <= 0 {
		b.WriteInt16(DummyVersion)
		return ByteCount{start: -1}
	}
	b.WriteInt16(v)
	b.WriteUint32(0)
	return ByteCount{start: len(b.data), version: v}
}

// SetByteCount patches the placeholder written by WriteVersion with the
// number of bytes written since.
func (b *Buffer) SetByteCount(c ByteCount) {
	if c.Dummy() || b.err != nil {
		return
	}
	n, err := safecast.Conv[uint32](len(b.data) - c.start)
	if err != nil {
		b.SetErr(fmt.Errorf("wire: class block too large: %w", err))
		return
	}
	b.patchUint32(c.start-4, n)
}

// ReadVersion reads a version tag and, for positive versions, the byte count.
func (b *Buffer) ReadVersion() (int16, ByteCount) {
	v := b.ReadInt16()
	if v <= 0 {
		return v, ByteCount{start: -1, version: v}
	}
	n := b.ReadUint32()
	count, err := safecast.Conv[int](n)
	if err != nil {
		b.SetErr(fmt.Errorf("wire: byte count %d out of range: %w", n, err))
	}
	return v, ByteCount{start: b.off, count: count, version: v}
}

// CheckByteCount verifies that the bytes consumed since ReadVersion match
// the recorded count. On mismatch the buffer is moved to the end of the block
// and a *FramingError is returned; the buffer's own error is left untouched
// so the caller decides whether the rest of the stream is still usable.
func (b *Buffer) CheckByteCount(c ByteCount, class string) error {
	if c.Dummy() || b.err != nil {
		return b.err
	}
	got := b.off - c.start
	if got == c.count {
		return nil
	}
	ferr := &FramingError{Class: class, Start: c.start - 6, Want: c.count, Got: got}
	if c.End() <= len(b.data) {
		b.off = c.End()
	} else {
		b.SetErr(ferr)
	}
	return ferr
}

// SkipNewer moves past a block written by a newer version of class and
// returns a *VersionError describing it.
func (b *Buffer) SkipNewer(c ByteCount, class string, current int16) error {
	return b.skipBlock(c, class, current)
}

func (b *Buffer) skipBlock(c ByteCount, class string, current int16) error {
	verr := &VersionError{Class: class, OnFile: c.version, Current: current}
	if c.Dummy() {
		return verr
	}
	if c.End() > len(b.data) {
		b.SetErr(fmt.Errorf("%w: %w", ErrShortBuffer, verr))
		return b.err
	}
	b.off = c.End()
	return verr
}
