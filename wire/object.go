package wire

import (
	"fmt"
	"reflect"

	"fortio.org/safecast"
)

// Object cell tags.
const (
	nullTag       uint32 = 0
	newClassTag   uint32 = 0xFFFFFFFF
	classMask     uint32 = 0x80000000
	byteCountMask uint32 = 0x40000000
	// mapOffset keeps back-reference tags clear of the null tag.
	mapOffset uint32 = 2
)

// WriteObjectAny writes obj through an object cell: null, a back-reference to
// an object already in the buffer, or a class tag followed by the object's
// own streamer output. obj must be a pointer to a registered class or nil.
func (b *Buffer) WriteObjectAny(obj any) {
	if b.err != nil {
		return
	}
	if isNil(obj) {
		b.WriteUint32(nullTag)
		return
	}
	if b.writtenObjects == nil {
		b.writtenObjects = map[any]uint32{}
		b.writtenClasses = map[string]uint32{}
	}
	if off, ok := b.writtenObjects[obj]; ok {
		b.WriteUint32(off + mapOffset)
		return
	}

	info := b.Registry().LookupType(reflect.TypeOf(obj))
	if info == nil || info.Streamer == nil {
		b.SetErr(fmt.Errorf("%w: %T", ErrUnknownClass, obj))
		return
	}

	start, err := cellValue(len(b.data))
	if err != nil {
		b.SetErr(err)
		return
	}
	b.WriteUint32(0)
	b.writtenObjects[obj] = start
	if off, ok := b.writtenClasses[info.Name]; ok {
		b.WriteUint32((off + mapOffset) | classMask)
	} else {
		off, err := cellValue(len(b.data))
		if err != nil {
			b.SetErr(err)
			return
		}
		b.writtenClasses[info.Name] = off
		b.WriteUint32(newClassTag)
		b.writeCString(info.Name)
	}
	if err := info.Streamer(obj, b); err != nil {
		b.SetErr(err)
		return
	}
	n, err := cellValue(len(b.data) - int(start) - 4)
	if err != nil {
		b.SetErr(err)
		return
	}
	b.patchUint32(int(start), n|byteCountMask)
}

// cellValue converts a buffer offset or object size to the payload of an
// object cell tag. Payloads stay below byteCountMask, back-reference offset
// included, so they never carry tag bits.
func cellValue(n int) (uint32, error) {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0, fmt.Errorf("wire: object cell value %d: %w", n, err)
	}
	if v >= byteCountMask-mapOffset {
		return 0, fmt.Errorf("wire: object cell value %d does not fit below %#x", n, byteCountMask)
	}
	return v, nil
}

// ReadObjectAny reads an object cell and returns the object it holds: nil,
// an object seen earlier in this buffer, or a new instance of the tagged
// class filled by its streamer.
func (b *Buffer) ReadObjectAny() any {
	start := b.off
	tag := b.ReadUint32()
	if b.err != nil || tag == nullTag {
		return nil
	}
	if tag&byteCountMask == 0 {
		obj, ok := b.readObjects[tag-mapOffset]
		if !ok {
			b.SetErr(fmt.Errorf("wire: object reference %d at offset %d has no target", tag-mapOffset, start))
			return nil
		}
		return obj
	}

	end := b.off + int(tag&^byteCountMask)
	info := b.readClassTag()
	if b.err != nil {
		return nil
	}
	if info == nil || info.New == nil {
		if end <= len(b.data) {
			b.off = end
		}
		return nil
	}

	obj := info.New()
	if b.readObjects == nil {
		b.readObjects = map[uint32]any{}
	}
	b.readObjects[uint32(start)] = obj
	if err := info.Streamer(obj, b); err != nil {
		b.SetErr(err)
		return nil
	}
	if b.off != end {
		b.SetErr(&FramingError{Class: info.Name, Start: start, Want: end - start - 4, Got: b.off - start - 4})
		return nil
	}
	return obj
}

func (b *Buffer) readClassTag() *ClassInfo {
	at := b.off
	tag := b.ReadUint32()
	if b.err != nil {
		return nil
	}
	if b.readClasses == nil {
		b.readClasses = map[uint32]*ClassInfo{}
	}
	if tag == newClassTag {
		name := b.readCString()
		if b.err != nil {
			return nil
		}
		info := b.Registry().Lookup(name)
		if info == nil {
			b.SetErr(fmt.Errorf("%w: %s", ErrUnknownClass, name))
			return nil
		}
		b.readClasses[uint32(at)] = info
		return info
	}
	if tag&classMask == 0 {
		b.SetErr(fmt.Errorf("wire: bad class tag %#x at offset %d", tag, at))
		return nil
	}
	info, ok := b.readClasses[(tag&^classMask)-mapOffset]
	if !ok {
		b.SetErr(fmt.Errorf("wire: class reference %#x at offset %d has no target", tag, at))
		return nil
	}
	return info
}

// ReadObjectAs reads an object cell expected to hold a *T.
func ReadObjectAs[T any](b *Buffer) *T {
	v := b.ReadObjectAny()
	if v == nil {
		return nil
	}
	p, ok := v.(*T)
	if !ok {
		b.SetErr(fmt.Errorf("wire: object cell holds %T, want %T", v, p))
		return nil
	}
	return p
}

// ReadInterface reads an object cell into an interface-typed value.
func ReadInterface[I any](b *Buffer) I {
	var zero I
	v := b.ReadObjectAny()
	if v == nil {
		return zero
	}
	out, ok := v.(I)
	if !ok {
		b.SetErr(fmt.Errorf("wire: object cell holds %T, want %v", v, reflect.TypeFor[I]()))
		return zero
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
