package wire

import "fmt"

// longStringMark is the one-byte length that announces a 4-byte length.
const longStringMark = 255

// WriteString writes s as a short-string cell: one length byte, or the
// byte 255 followed by a 4-byte length for strings of 255 bytes or more.
func (b *Buffer) WriteString(s string) {
	n := len(s)
	if n < longStringMark {
		b.data = append(b.data, byte(n))
	} else {
		b.data = append(b.data, longStringMark)
		b.WriteCount(n)
	}
	b.data = append(b.data, s...)
}

// ReadString reads a short-string cell.
func (b *Buffer) ReadString() string {
	n := int(b.ReadUint8())
	if n == longStringMark {
		n = b.ReadCount()
	}
	p := b.next(n)
	if p == nil {
		return ""
	}
	return string(p)
}

// WriteStringPtr writes *p, or the empty string for nil.
func (b *Buffer) WriteStringPtr(p *string) {
	if p == nil {
		b.WriteString("")
		return
	}
	b.WriteString(*p)
}

// ReadStringPtr reads a string into a freshly allocated string.
func (b *Buffer) ReadStringPtr() *string {
	s := b.ReadString()
	return &s
}

// writeCString writes s followed by a NUL byte. Used for class names in
// object tags.
func (b *Buffer) writeCString(s string) {
	b.data = append(b.data, s...)
	b.data = append(b.data, 0)
}

func (b *Buffer) readCString() string {
	if b.err != nil {
		return ""
	}
	for i := b.off; i < len(b.data); i++ {
		if b.data[i] == 0 {
			s := string(b.data[b.off:i])
			b.off = i + 1
			return s
		}
	}
	b.SetErr(fmt.Errorf("%w: unterminated class name at offset %d", ErrShortBuffer, b.off))
	return ""
}
