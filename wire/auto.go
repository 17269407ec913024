package wire

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// WriteClassBuffer streams obj, a pointer to an instance of info's class,
// from the member layout in info. It is the whole streamer of classes
// generated in automatic mode.
func (b *Buffer) WriteClassBuffer(info *ClassInfo, obj any) error {
	rv, err := structValue(info, obj)
	if err != nil {
		b.SetErr(err)
		return err
	}
	b.noteClass(info)
	c := b.WriteVersion(info.Version)
	for _, m := range info.Members {
		if info.Version <= 0 && m.Type.Kind != KindBase {
			break
		}
		fv, ok := fieldValue(rv, m.Name)
		if !ok {
			err := fmt.Errorf("wire: %s: layout names member %q the type does not have", info.Name, m.Name)
			b.SetErr(err)
			return err
		}
		if err := b.writeValue(m.Type, fv, fieldLookup(rv), m.Index); err != nil {
			b.SetErr(fmt.Errorf("wire: %s.%s: %w", info.Name, m.Name, err))
			return b.err
		}
	}
	b.SetByteCount(c)
	return b.err
}

// ReadClassBuffer reads obj from a block written by WriteClassBuffer or by
// an unrolled streamer of any version of the class.
func (b *Buffer) ReadClassBuffer(info *ClassInfo, obj any) error {
	v, c := b.ReadVersion()
	if b.err != nil {
		return b.err
	}
	if v > info.Version && info.Version > 0 {
		return b.SkipNewer(c, info.Name, info.Version)
	}
	return b.ReadClassBufferVersion(info, obj, v, c)
}

// ReadClassBufferVersion reads the body of a block whose header has already
// been read. On-file versions other than the current one are decoded with
// the layout recorded in the buffer's catalog; their members are matched to
// live members by name, converted where the types differ, and handed to the
// read rules of info.
func (b *Buffer) ReadClassBufferVersion(info *ClassInfo, obj any, v int16, c ByteCount) error {
	rv, err := structValue(info, obj)
	if err != nil {
		b.SetErr(err)
		return err
	}

	members := info.Members
	var raw *OnFile
	switch {
	case v <= 0:
		members = basesOf(info.Members)
	case v != info.Version:
		l, ok := b.catalog.Layout(info.Name, v)
		if !ok {
			return b.skipBlock(c, info.Name, info.Version)
		}
		members = l.Members
		raw = NewOnFile(info.Name, v)
	}

	i := 0
	for ; i < len(members) && members[i].Type.Kind == KindBase; i++ {
		if err := b.readBase(info, rv, members[i]); err != nil {
			return err
		}
	}
	if v <= 0 {
		return b.err
	}

	if HasReadRawRule(info, v) {
		if err := b.ApplyReadRawRules(info, v, c, obj); err != nil {
			return err
		}
		return b.CheckByteCount(c, info.Name)
	}

	for _, m := range members[i:] {
		if raw == nil {
			fv, ok := fieldValue(rv, m.Name)
			if !ok {
				err := fmt.Errorf("wire: %s: layout names member %q the type does not have", info.Name, m.Name)
				b.SetErr(err)
				return err
			}
			if err := b.readValue(m.Type, fv, fieldLookup(rv), m.Index); err != nil {
				b.SetErr(fmt.Errorf("wire: %s.%s: %w", info.Name, m.Name, err))
				return b.err
			}
			continue
		}
		if err := b.readOnFileMember(info, rv, m, raw); err != nil {
			b.SetErr(fmt.Errorf("wire: %s.%s (version %d): %w", info.Name, m.Name, v, err))
			return b.err
		}
	}
	if b.err != nil {
		return b.err
	}
	if err := ApplyReadRules(info, v, raw, obj); err != nil {
		return err
	}
	return b.CheckByteCount(c, info.Name)
}

func basesOf(members []Member) []Member {
	n := 0
	for n < len(members) && members[n].Type.Kind == KindBase {
		n++
	}
	return members[:n]
}

func (b *Buffer) readBase(info *ClassInfo, rv reflect.Value, m Member) error {
	fv, ok := fieldValue(rv, m.Name)
	if !ok {
		// the base was dropped from the class; read it into a scratch value
		base := b.Registry().Lookup(m.Type.Class)
		if base == nil || base.New == nil {
			err := fmt.Errorf("%w: base %s of %s", ErrUnknownClass, m.Type.Class, info.Name)
			b.SetErr(err)
			return err
		}
		return b.streamClass(base, base.New())
	}
	return b.readValue(m.Type, fv, fieldLookup(rv), m.Index)
}

// readOnFileMember reads one member of an older layout. A live member of
// the same name and shape is read in place; otherwise the value is decoded
// into a scratch value and converted when the live type allows it.
func (b *Buffer) readOnFileMember(info *ClassInfo, rv reflect.Value, m Member, raw *OnFile) error {
	lookup := onFileLookup(raw)
	if live, ok := liveMember(info, m.Name); ok && live.Type.String() == m.Type.String() {
		fv, ok := fieldValue(rv, m.Name)
		if ok {
			if err := b.readValue(m.Type, fv, lookup, m.Index); err != nil {
				return err
			}
			raw.Set(m.Name, fv.Interface())
			return nil
		}
	}

	t, err := b.descType(m.Type)
	if err != nil {
		return err
	}
	tmp := reflect.New(t).Elem()
	if err := b.readValue(m.Type, tmp, lookup, m.Index); err != nil {
		return err
	}
	raw.Set(m.Name, tmp.Interface())

	if _, ok := liveMember(info, m.Name); !ok {
		return nil
	}
	fv, ok := fieldValue(rv, m.Name)
	if !ok {
		return nil
	}
	switch {
	case tmp.Type().AssignableTo(fv.Type()):
		fv.Set(tmp)
	case tmp.Type().ConvertibleTo(fv.Type()) && tmp.Kind() != reflect.String && fv.Kind() != reflect.String:
		fv.Set(tmp.Convert(fv.Type()))
	}
	return nil
}

func liveMember(info *ClassInfo, name string) (Member, bool) {
	for _, m := range info.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

func (b *Buffer) streamClass(info *ClassInfo, obj any) error {
	if info.Streamer == nil {
		err := fmt.Errorf("%w: %s has no streamer", ErrUnknownClass, info.Name)
		b.SetErr(err)
		return err
	}
	return info.Streamer(obj, b)
}

func (b *Buffer) classFor(td TypeDesc, t reflect.Type) (*ClassInfo, error) {
	reg := b.Registry()
	if td.Class != "" {
		if info := reg.Lookup(td.Class); info != nil {
			return info, nil
		}
	}
	if info := reg.LookupType(t); info != nil {
		return info, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownClass, td.Class)
}

func (b *Buffer) noteClass(info *ClassInfo) {
	if b.catalog == nil || b.mode != ModeWrite {
		return
	}
	b.SetErr(b.catalog.Record(info))
}

// indexLookup resolves a member name used in a sized-array index.
type indexLookup func(name string) (int64, bool)

func fieldLookup(rv reflect.Value) indexLookup {
	return func(name string) (int64, bool) {
		fv, ok := fieldValue(rv, name)
		if !ok {
			return 0, false
		}
		return intOf(fv)
	}
}

func onFileLookup(raw *OnFile) indexLookup {
	return func(name string) (int64, bool) {
		v, ok := raw.Value(name)
		if !ok {
			return 0, false
		}
		return intOf(reflect.ValueOf(v))
	}
}

func intOf(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	}
	return 0, false
}

// EvalIndex evaluates a sized-array index expression: integer literals and
// member names joined by '*', '+' and '-', with the usual precedence.
func EvalIndex(expr string, lookup func(name string) (int64, bool)) (int, error) {
	var sum int64
	sign := int64(1)
	term := int64(1)
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && !strings.ContainsRune("*+-", rune(expr[i])) {
			continue
		}
		n, err := indexFactor(expr, strings.TrimSpace(expr[start:i]), lookup)
		if err != nil {
			return 0, err
		}
		term *= n
		start = i + 1
		if i < len(expr) && expr[i] == '*' {
			continue
		}
		sum += sign * term
		term = 1
		if i < len(expr) && expr[i] == '-' {
			sign = -1
		} else {
			sign = 1
		}
	}
	if sum < 0 {
		return 0, fmt.Errorf("wire: index %q evaluates to %d", expr, sum)
	}
	return int(sum), nil
}

func indexFactor(expr, tok string, lookup func(name string) (int64, bool)) (int64, error) {
	if tok == "" {
		return 0, fmt.Errorf("wire: malformed index %q", expr)
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		n, err := strconv.ParseInt(tok, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("wire: index %q: %w", expr, err)
		}
		return n, nil
	}
	if lookup == nil {
		return 0, fmt.Errorf("wire: index %q: no members in scope", expr)
	}
	n, ok := lookup(tok)
	if !ok {
		return 0, fmt.Errorf("wire: index %q: %q is not an integer member", expr, tok)
	}
	return n, nil
}

func (b *Buffer) writeValue(td TypeDesc, v reflect.Value, lookup indexLookup, index string) error {
	switch td.Kind {
	case KindBool:
		b.WriteBool(v.Bool())
	case KindInt8:
		b.WriteInt8(int8(v.Int()))
	case KindInt16:
		b.WriteInt16(int16(v.Int()))
	case KindInt32:
		b.WriteInt32(int32(v.Int()))
	case KindInt64:
		b.WriteInt64(v.Int())
	case KindInt:
		b.WriteInt(int(v.Int()))
	case KindUint8:
		b.WriteUint8(uint8(v.Uint()))
	case KindUint16:
		b.WriteUint16(uint16(v.Uint()))
	case KindUint32:
		b.WriteUint32(uint32(v.Uint()))
	case KindUint64:
		b.WriteUint64(v.Uint())
	case KindUint:
		b.WriteUint(uint(v.Uint()))
	case KindFloat32:
		b.WriteFloat32(float32(v.Float()))
	case KindFloat64:
		b.WriteFloat64(v.Float())
	case KindDouble32:
		b.WriteDouble32(Double32(v.Float()))
	case KindEnum:
		n, _ := intOf(v)
		b.WriteInt32(int32(n))
	case KindString:
		b.WriteString(v.String())
	case KindStringPtr:
		if v.IsNil() {
			b.WriteString("")
		} else {
			b.WriteString(v.Elem().String())
		}
	case KindArray:
		return b.writeArray(td, v)
	case KindSizedArray:
		n, err := EvalIndex(index, lookup)
		if err != nil {
			return err
		}
		if n > v.Len() {
			return fmt.Errorf("sized array has %d elements, index %q says %d", v.Len(), index, n)
		}
		for i := range n {
			if err := b.writeValue(*td.Elem, v.Index(i), nil, ""); err != nil {
				return err
			}
		}
	case KindVector, KindList, KindDeque, KindSet, KindMultiSet, KindMap, KindMultiMap, KindBitset:
		return b.writeContainer(td, v)
	case KindObject, KindBase:
		info, err := b.classFor(td, v.Type())
		if err != nil {
			return err
		}
		return b.streamClass(info, v.Addr().Interface())
	case KindObjectPtr:
		if v.IsNil() {
			b.WriteUint32(nullTag)
			return nil
		}
		b.WriteObjectAny(v.Interface())
	default:
		return fmt.Errorf("cannot stream %v", td)
	}
	return nil
}

func (b *Buffer) readValue(td TypeDesc, v reflect.Value, lookup indexLookup, index string) error {
	switch td.Kind {
	case KindBool:
		v.SetBool(b.ReadBool())
	case KindInt8:
		setInt(v, int64(b.ReadInt8()))
	case KindInt16:
		setInt(v, int64(b.ReadInt16()))
	case KindInt32, KindEnum:
		setInt(v, int64(b.ReadInt32()))
	case KindInt64:
		setInt(v, b.ReadInt64())
	case KindInt:
		setInt(v, int64(b.ReadInt()))
	case KindUint8:
		setUint(v, uint64(b.ReadUint8()))
	case KindUint16:
		setUint(v, uint64(b.ReadUint16()))
	case KindUint32:
		setUint(v, uint64(b.ReadUint32()))
	case KindUint64:
		setUint(v, b.ReadUint64())
	case KindUint:
		setUint(v, uint64(b.ReadUint()))
	case KindFloat32:
		v.SetFloat(float64(b.ReadFloat32()))
	case KindFloat64:
		v.SetFloat(b.ReadFloat64())
	case KindDouble32:
		v.SetFloat(float64(b.ReadDouble32()))
	case KindString:
		v.SetString(b.ReadString())
	case KindStringPtr:
		s := b.ReadString()
		p := reflect.New(v.Type().Elem())
		p.Elem().SetString(s)
		v.Set(p)
	case KindArray:
		return b.readArray(td, v)
	case KindSizedArray:
		n, err := EvalIndex(index, lookup)
		if err != nil {
			return err
		}
		if n == 0 {
			v.SetZero()
			return nil
		}
		if n > b.Remaining() {
			return fmt.Errorf("%w: sized array of %d elements", ErrShortBuffer, n)
		}
		s := reflect.MakeSlice(v.Type(), n, n)
		for i := range n {
			if err := b.readValue(*td.Elem, s.Index(i), nil, ""); err != nil {
				return err
			}
		}
		v.Set(s)
	case KindVector, KindList, KindDeque, KindSet, KindMultiSet, KindMap, KindMultiMap, KindBitset:
		return b.readContainer(td, v)
	case KindObject, KindBase:
		info, err := b.classFor(td, v.Type())
		if err != nil {
			return err
		}
		return b.streamClass(info, v.Addr().Interface())
	case KindObjectPtr:
		obj := b.ReadObjectAny()
		if obj == nil {
			v.SetZero()
			return b.err
		}
		ov := reflect.ValueOf(obj)
		if !ov.Type().AssignableTo(v.Type()) {
			return fmt.Errorf("object cell holds %T, member is %v", obj, v.Type())
		}
		v.Set(ov)
	default:
		return fmt.Errorf("cannot stream %v", td)
	}
	return b.err
}

func setInt(v reflect.Value, n int64) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(n))
	default:
		v.SetInt(n)
	}
}

func setUint(v reflect.Value, n uint64) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(n))
	default:
		v.SetUint(n)
	}
}

// eachArrayElem calls fn on every element of a possibly nested fixed array
// in row-major order, descending depth levels.
func eachArrayElem(v reflect.Value, depth int, fn func(reflect.Value) error) error {
	if depth == 0 {
		return fn(v)
	}
	for i := range v.Len() {
		if err := eachArrayElem(v.Index(i), depth-1, fn); err != nil {
			return err
		}
	}
	return nil
}

// seqElem returns the element shape of a container read or written as a
// slice. Sets carry their element in Key.
func seqElem(td TypeDesc) TypeDesc {
	if td.Elem != nil {
		return *td.Elem
	}
	if td.Key != nil {
		return *td.Key
	}
	return TypeDesc{Kind: KindBool}
}

func bulkElem(td *TypeDesc) bool {
	return td != nil && (td.Kind.Fundamental() || td.Kind == KindEnum)
}

func (b *Buffer) writeArray(td TypeDesc, v reflect.Value) error {
	if bulkElem(td.Elem) {
		b.WriteCount(td.Total())
	}
	return eachArrayElem(v, len(td.Dims), func(e reflect.Value) error {
		return b.writeValue(*td.Elem, e, nil, "")
	})
}

func (b *Buffer) readArray(td TypeDesc, v reflect.Value) error {
	if bulkElem(td.Elem) {
		n := b.ReadCount()
		if b.err != nil {
			return b.err
		}
		if n != td.Total() {
			return fmt.Errorf("static array holds %d elements, wire has %d", td.Total(), n)
		}
	}
	return eachArrayElem(v, len(td.Dims), func(e reflect.Value) error {
		return b.readValue(*td.Elem, e, nil, "")
	})
}

func (b *Buffer) writeContainer(td TypeDesc, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			b.WriteCount(0)
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		b.WriteCount(v.Len())
		for i := range v.Len() {
			if err := b.writeValue(seqElem(td), v.Index(i), nil, ""); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		b.WriteCount(v.Len())
		it := v.MapRange()
		for it.Next() {
			if err := b.writeValue(*td.Key, it.Key(), nil, ""); err != nil {
				return err
			}
			if td.Kind == KindSet {
				continue
			}
			if err := b.writeValue(*td.Elem, it.Value(), nil, ""); err != nil {
				return err
			}
		}
		return nil
	}
	c, ok := v.Addr().Interface().(reflectContainer)
	if !ok {
		return fmt.Errorf("%v is not a container", v.Type())
	}
	b.WriteCount(c.Len())
	var err error
	c.rangeValues(func(key, elem reflect.Value) bool {
		if key.IsValid() {
			if err = b.writeValue(*td.Key, key, nil, ""); err != nil {
				return false
			}
		}
		if elem.IsValid() {
			err = b.writeValue(*td.Elem, elem, nil, "")
		}
		return err == nil
	})
	return err
}

func (b *Buffer) readContainer(td TypeDesc, v reflect.Value) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	n := b.ReadCount()
	if b.err != nil {
		return b.err
	}
	switch v.Kind() {
	case reflect.Slice:
		if !v.IsNil() {
			v.SetLen(0)
		}
		if n > 0 {
			v.Grow(n)
		}
		for range n {
			e := reflect.New(v.Type().Elem()).Elem()
			if err := b.readValue(seqElem(td), e, nil, ""); err != nil {
				return err
			}
			v.Set(reflect.Append(v, e))
		}
		return nil
	case reflect.Map:
		if v.IsNil() {
			v.Set(reflect.MakeMapWithSize(v.Type(), n))
		} else {
			v.Clear()
		}
		kt, et := v.Type().Key(), v.Type().Elem()
		for range n {
			k := reflect.New(kt).Elem()
			if err := b.readValue(*td.Key, k, nil, ""); err != nil {
				return err
			}
			e := reflect.New(et).Elem()
			switch {
			case td.Kind == KindSet:
			case td.Kind == KindMultiMap && et.Kind() == reflect.Slice:
				one := reflect.New(et.Elem()).Elem()
				if err := b.readValue(*td.Elem, one, nil, ""); err != nil {
					return err
				}
				if old := v.MapIndex(k); old.IsValid() {
					e = old
				}
				e = reflect.Append(e, one)
			default:
				if err := b.readValue(*td.Elem, e, nil, ""); err != nil {
					return err
				}
			}
			v.SetMapIndex(k, e)
		}
		return nil
	}
	c, ok := v.Addr().Interface().(reflectContainer)
	if !ok {
		return fmt.Errorf("%v is not a container", v.Type())
	}
	c.Clear()
	kt, et := c.elemTypes()
	for range n {
		var k, e reflect.Value
		if kt != nil {
			k = reflect.New(kt).Elem()
			if err := b.readValue(*td.Key, k, nil, ""); err != nil {
				return err
			}
		}
		if et != nil {
			e = reflect.New(et).Elem()
			if err := b.readValue(*td.Elem, e, nil, ""); err != nil {
				return err
			}
		}
		c.insertValue(k, e)
	}
	return nil
}

// descType returns the Go type an on-file member of shape td is decoded
// into when the live class has no member to receive it.
func (b *Buffer) descType(td TypeDesc) (reflect.Type, error) {
	switch td.Kind {
	case KindBool:
		return reflect.TypeFor[bool](), nil
	case KindInt8:
		return reflect.TypeFor[int8](), nil
	case KindInt16:
		return reflect.TypeFor[int16](), nil
	case KindInt32, KindEnum:
		return reflect.TypeFor[int32](), nil
	case KindInt64:
		return reflect.TypeFor[int64](), nil
	case KindInt:
		return reflect.TypeFor[int](), nil
	case KindUint8:
		return reflect.TypeFor[uint8](), nil
	case KindUint16:
		return reflect.TypeFor[uint16](), nil
	case KindUint32:
		return reflect.TypeFor[uint32](), nil
	case KindUint64:
		return reflect.TypeFor[uint64](), nil
	case KindUint:
		return reflect.TypeFor[uint](), nil
	case KindFloat32:
		return reflect.TypeFor[float32](), nil
	case KindFloat64:
		return reflect.TypeFor[float64](), nil
	case KindDouble32:
		return reflect.TypeFor[Double32](), nil
	case KindString:
		return reflect.TypeFor[string](), nil
	case KindStringPtr:
		return reflect.TypeFor[*string](), nil
	case KindObjectPtr:
		return reflect.TypeFor[any](), nil
	case KindObject, KindBase:
		info := b.Registry().Lookup(td.Class)
		if info == nil || info.Type == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownClass, td.Class)
		}
		return info.Type, nil
	}

	var key, elem reflect.Type
	var err error
	if td.Key != nil {
		if key, err = b.descType(*td.Key); err != nil {
			return nil, err
		}
	}
	if td.Elem != nil {
		if elem, err = b.descType(*td.Elem); err != nil {
			return nil, err
		}
	}
	switch td.Kind {
	case KindArray:
		t := elem
		for i := len(td.Dims) - 1; i >= 0; i-- {
			t = reflect.ArrayOf(td.Dims[i], t)
		}
		return t, nil
	case KindSizedArray, KindVector, KindList, KindDeque, KindBitset:
		if td.Kind == KindBitset {
			elem = reflect.TypeFor[bool]()
		}
		return reflect.SliceOf(elem), nil
	case KindMultiSet:
		return reflect.SliceOf(key), nil
	case KindSet:
		return reflect.MapOf(key, reflect.TypeFor[struct{}]()), nil
	case KindMap:
		return reflect.MapOf(key, elem), nil
	case KindMultiMap:
		return reflect.MapOf(key, reflect.SliceOf(elem)), nil
	}
	return nil, fmt.Errorf("cannot decode %v", td)
}
