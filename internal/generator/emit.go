package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/ir"
	"github.com/seitarof/gen-dict/internal/synth"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// emitter renders the statements of one class. Temporaries carry the
// nesting depth as suffix so nested containers and loops never shadow each
// other.
type emitter struct {
	buf    strings.Builder
	indent int
	depth  int

	class *classData
	file  *fileData
	// usesShadow is set once a statement goes through the layout view.
	usesShadow bool
}

func newEmitter(file *fileData, class *classData) *emitter {
	return &emitter{file: file, class: class, indent: 1}
}

func (e *emitter) line(format string, args ...any) {
	e.buf.WriteString(strings.Repeat("\t", e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) open(format string, args ...any) {
	e.line(format, args...)
	e.indent++
}

func (e *emitter) close(s string) {
	e.indent--
	e.line("%s", s)
}

func (e *emitter) take() string {
	s := e.buf.String()
	e.buf.Reset()
	return s
}

func (e *emitter) tmp(prefix string) string {
	return prefix + strconv.Itoa(e.depth)
}

// member returns the expression of a field or base of obj.
func (e *emitter) member(name string, exported bool) string {
	if e.class.Shadow != nil && !exported {
		e.usesShadow = true
		return "sh." + name
	}
	return "obj." + name
}

func (e *emitter) fieldExpr(f classify.FieldDescriptor) string {
	return e.member(f.Name, f.Exported)
}

func (e *emitter) checkErr(call string) {
	e.open("if err := %s; err != nil {", call)
	e.line("return err")
	e.close("}")
}

// readSteps renders the read half of an unrolled or dummy streamer.
func (e *emitter) readSteps(plan *synth.ClassPlan) string {
	cd := e.class
	for _, st := range plan.Read {
		switch st.Kind {
		case synth.StepReadVersion:
			e.line("v, c := b.ReadVersion()")
			e.checkErr("b.Err()")
			if plan.Mode == synth.Dummy {
				e.open("if v > 0 {")
				e.line("return b.SkipNewer(c, %q, 0)", cd.Name)
				e.close("}")
				continue
			}
			e.open("if v > %d {", cd.Version)
			e.line("return b.SkipNewer(c, %q, %d)", cd.Name, cd.Version)
			e.close("}")
			e.open("if v != %d {", cd.Version)
			e.line("return b.ReadClassBufferVersion(%s(), obj, v, c)", cd.InfoFunc)
			e.close("}")
		case synth.StepBase:
			e.base(st.Base)
		case synth.StepReadRawRules:
			e.open("if wire.HasReadRawRule(%s(), v) {", cd.InfoFunc)
			e.checkErr(fmt.Sprintf("b.ApplyReadRawRules(%s(), v, c, obj)", cd.InfoFunc))
			e.line("return b.CheckByteCount(c, %q)", cd.Name)
			e.close("}")
		case synth.StepField:
			e.read(st.Field.Codec, e.fieldExpr(st.Field.Field), st.Field.Field)
		case synth.StepReadRules:
			e.checkErr(fmt.Sprintf("wire.ApplyReadRules(%s(), v, nil, obj)", cd.InfoFunc))
		case synth.StepCheckByteCount:
			e.line("return b.CheckByteCount(c, %q)", cd.Name)
		case synth.StepEnd:
			if plan.Mode == synth.Dummy {
				e.dummyEnd(plan)
			}
		}
	}
	return e.take()
}

// writeSteps renders the write half of an unrolled or dummy streamer.
func (e *emitter) writeSteps(plan *synth.ClassPlan) string {
	cd := e.class
	for _, st := range plan.Write {
		switch st.Kind {
		case synth.StepWriteVersion:
			if plan.Mode == synth.Dummy {
				e.line("b.WriteVersion(0)")
				continue
			}
			e.line("c := b.WriteVersion(%d)", cd.Version)
		case synth.StepBase:
			e.base(st.Base)
		case synth.StepField:
			e.write(st.Field.Codec, e.fieldExpr(st.Field.Field), st.Field.Field)
		case synth.StepSetByteCount:
			e.line("b.SetByteCount(c)")
			e.line("return b.Err()")
		case synth.StepEnd:
			if plan.Mode == synth.Dummy {
				e.dummyEnd(plan)
			}
		}
	}
	return e.take()
}

func (e *emitter) dummyEnd(plan *synth.ClassPlan) {
	if len(plan.Bases) == 0 {
		e.line("return wire.DummyStreamer(%q)", e.class.Name)
		return
	}
	e.line("return b.Err()")
}

func (e *emitter) base(b *classify.BaseDescriptor) {
	expr := e.member(b.Name, b.Exported)
	e.checkErr(e.file.nestedCall(expr, b.Canonical, b.HasStreamer))
}

// nestedCall returns the call streaming the nested value expr.
func (f *fileData) nestedCall(expr, canonical string, method bool) string {
	if fn, ok := f.foreignStreamers[canonical]; ok && !method {
		return fn + "(&" + expr + ", b)"
	}
	return expr + ".Streamer(b)"
}

func (e *emitter) write(c ir.Codec, expr string, f classify.FieldDescriptor) {
	switch c := c.(type) {
	case ir.Scalar:
		e.line("b.Write%s(%s)", c.Basic.Method(), castTo(c.Basic.String(), c.Type, expr))
	case ir.Enum:
		e.line("b.WriteInt32(int32(%s))", expr)
	case ir.BulkArray:
		e.line("wire.%s(b, %s)", bulkFunc(c, true), flatten(expr, len(c.Dims), c.Total))
	case ir.SizedArray:
		fn := "WriteFastArray"
		if c.Elem == typeinfo.Double32 {
			fn = "WriteFastArrayDouble32"
		}
		e.line("wire.%s(b, %s, %s)", fn, expr, e.indexExpr(c))
	case ir.String:
		e.writeString(c, expr)
	case ir.Container:
		e.writeContainer(c, expr)
	case ir.Loop:
		e.loop(c, expr, func(elem string) { e.write(c.Body, elem, classify.FieldDescriptor{}) })
	case ir.NestedCall:
		e.checkErr(e.file.nestedCall(expr, c.Canonical, c.Method))
	case ir.TypeErased:
		e.checkErr(fmt.Sprintf("b.StreamObject(&%s, %q)", expr, c.Class))
	case ir.ObjectPtr:
		e.line("b.WriteObjectAny(%s)", expr)
	case ir.Placeholder:
		e.placeholder(c, f)
	}
}

func (e *emitter) read(c ir.Codec, expr string, f classify.FieldDescriptor) {
	switch c := c.(type) {
	case ir.Scalar:
		e.line("%s = %s", expr, castTo(c.Type, c.Basic.String(), "b.Read"+c.Basic.Method()+"()"))
	case ir.Enum:
		e.line("%s = %s(b.ReadInt32())", expr, c.Type)
	case ir.BulkArray:
		e.line("wire.%s(b, %s)", bulkFunc(c, false), flatten(expr, len(c.Dims), c.Total))
	case ir.SizedArray:
		if c.Elem == typeinfo.Double32 {
			e.line("%s = wire.ReadFastArrayDouble32(b, %s)", expr, e.indexExpr(c))
			return
		}
		e.line("%s = wire.ReadFastArray[%s](b, %s)", expr, c.ElemType, e.indexExpr(c))
	case ir.String:
		e.readString(c, expr)
	case ir.Container:
		e.readContainer(c, expr)
	case ir.Loop:
		e.loop(c, expr, func(elem string) { e.read(c.Body, elem, classify.FieldDescriptor{}) })
	case ir.NestedCall:
		e.checkErr(e.file.nestedCall(expr, c.Canonical, c.Method))
	case ir.TypeErased:
		e.checkErr(fmt.Sprintf("b.StreamObject(&%s, %q)", expr, c.Class))
	case ir.ObjectPtr:
		if c.Interface {
			e.line("%s = wire.ReadInterface[%s](b)", expr, c.Type)
			return
		}
		e.line("%s = wire.ReadObjectAs[%s](b)", expr, c.Elem)
	case ir.Placeholder:
		e.placeholder(c, f)
	}
}

func (e *emitter) placeholder(c ir.Placeholder, f classify.FieldDescriptor) {
	name := f.Name
	if name == "" {
		name = "element"
	}
	e.line("// %s: not streamed: %s (%s)", name, c.Reason, c.Code.ID())
}

// castTo converts expr of type from to type to when the spellings differ.
func castTo(to, from, expr string) string {
	if to == from || to == "" {
		return expr
	}
	if strings.HasPrefix(to, "*") || strings.HasPrefix(to, "[") {
		return "(" + to + ")(" + expr + ")"
	}
	return to + "(" + expr + ")"
}

func bulkFunc(c ir.BulkArray, write bool) string {
	switch {
	case c.Enum && write:
		return "WriteEnumArray"
	case c.Enum:
		return "ReadEnumArray"
	case c.Elem == typeinfo.Double32 && write:
		return "WriteArrayDouble32"
	case c.Elem == typeinfo.Double32:
		return "ReadStaticArrayDouble32"
	case write:
		return "WriteArray"
	}
	return "ReadStaticArray"
}

// flatten views a fixed array of any rank as one slice.
func flatten(expr string, rank, total int) string {
	if rank <= 1 {
		return expr + "[:]"
	}
	return fmt.Sprintf("unsafe.Slice(&%s%s, %d)", expr, strings.Repeat("[0]", rank), total)
}

func (e *emitter) indexExpr(c ir.SizedArray) string {
	var b strings.Builder
	for _, t := range c.Tokens {
		switch {
		case t.Member != "":
			f, _ := e.class.plan.Class.Field(t.Member)
			exported := f == nil || f.Exported
			b.WriteString("int(" + e.member(t.Member, exported) + ")")
		case t.Op != 0:
			b.WriteString(string(t.Op))
		default:
			b.WriteString(strconv.Itoa(t.Lit))
		}
	}
	return b.String()
}

func (e *emitter) writeString(c ir.String, expr string) {
	if c.Pointer {
		e.line("b.WriteStringPtr(%s)", castTo("*string", c.Type, expr))
		return
	}
	e.line("b.WriteString(%s)", castTo("string", c.Type, expr))
}

func (e *emitter) readString(c ir.String, expr string) {
	if c.Pointer {
		e.line("%s = %s", expr, castTo(c.Type, "*string", "b.ReadStringPtr()"))
		return
	}
	e.line("%s = %s", expr, castTo(c.Type, "string", "b.ReadString()"))
}

func (e *emitter) loop(c ir.Loop, expr string, body func(elem string)) {
	e.depth++
	defer func() { e.depth-- }()
	elem := expr
	for d := range c.Dims {
		i := e.tmp("i")
		if d > 0 {
			i += "_" + strconv.Itoa(d)
		}
		e.open("for %s := range %s {", i, elem)
		elem = elem + "[" + i + "]"
	}
	body(elem)
	for range c.Dims {
		e.close("}")
	}
}

func (e *emitter) writeContainer(c ir.Container, expr string) {
	if c.Pointer {
		e.open("if %s == nil {", expr)
		e.line("b.WriteCount(0)")
		e.indent--
		e.open("} else {")
		e.writeContents(c, "(*"+expr+")")
		e.close("}")
		return
	}
	e.writeContents(c, expr)
}

func (e *emitter) writeContents(c ir.Container, expr string) {
	e.depth++
	defer func() { e.depth-- }()
	k, v := e.tmp("k"), e.tmp("v")

	if c.Native {
		e.line("b.WriteCount(len(%s))", expr)
		switch {
		case c.Kind == classify.Vector:
			e.open("for _, %s := range %s {", v, expr)
			e.write(c.Value, v, classify.FieldDescriptor{})
		case c.Value == nil:
			e.open("for %s := range %s {", k, expr)
			e.write(c.Key, k, classify.FieldDescriptor{})
		default:
			e.open("for %s, %s := range %s {", k, v, expr)
			e.write(c.Key, k, classify.FieldDescriptor{})
			e.write(c.Value, v, classify.FieldDescriptor{})
		}
		e.close("}")
		return
	}

	e.line("b.WriteCount(%s.Len())", expr)
	switch {
	case c.Kind == classify.MultiMap:
		e.open("for %s, %s := range %s.All() {", k, v, expr)
		e.write(c.Key, k, classify.FieldDescriptor{})
		e.write(c.Value, v, classify.FieldDescriptor{})
	case c.Value == nil:
		e.open("for %s := range %s.All() {", k, expr)
		e.write(c.Key, k, classify.FieldDescriptor{})
	default:
		e.open("for %s := range %s.All() {", v, expr)
		e.write(c.Value, v, classify.FieldDescriptor{})
	}
	e.close("}")
}

func (e *emitter) readContainer(c ir.Container, expr string) {
	e.open("{")
	if c.Pointer {
		e.open("if %s == nil {", expr)
		e.line("%s = new(%s)", expr, c.Type)
		e.close("}")
		expr = "(*" + expr + ")"
	}
	e.readContents(c, expr)
	e.close("}")
}

func (e *emitter) readContents(c ir.Container, expr string) {
	n := e.tmp("n")
	e.line("%s := b.ReadCount()", n)
	e.depth++
	defer func() { e.depth-- }()
	k, v := e.tmp("k"), e.tmp("v")

	switch {
	case c.Native && c.Kind == classify.Vector:
		e.line("%s = slices.Grow(%s[:0], %s)", expr, expr, n)
	case c.Native:
		e.line("%s = make(%s, %s)", expr, c.Type, n)
	default:
		e.line("%s.Clear()", expr)
	}

	e.open("for range %s {", n)
	if c.Key != nil {
		e.line("var %s %s", k, c.KeyType)
		e.read(c.Key, k, classify.FieldDescriptor{})
	}
	if c.Value != nil {
		e.line("var %s %s", v, c.ValueType)
		e.read(c.Value, v, classify.FieldDescriptor{})
	}
	switch {
	case c.Native && c.Kind == classify.Vector:
		e.line("%s = append(%s, %s)", expr, expr, v)
	case c.Native && c.Value == nil:
		e.line("%s[%s] = struct{}{}", expr, k)
	case c.Native:
		e.line("%s[%s] = %s", expr, k, v)
	case c.Kind == classify.MultiMap:
		e.line("%s.Insert(%s, %s)", expr, k, v)
	case c.Value == nil:
		e.line("%s.Insert(%s)", expr, k)
	default:
		e.line("%s.PushBack(%s)", expr, v)
	}
	e.close("}")
}

// showMembers renders one Inspect call per base and field, transient ones
// included.
func (e *emitter) showMembers(plan *synth.ClassPlan) string {
	for _, b := range plan.Class.Bases {
		e.line("insp.Inspect(%q, %q, &%s)", e.class.Name, b.Name, e.member(b.Name, b.Exported))
	}
	for _, f := range plan.Class.Fields {
		e.line("insp.Inspect(%q, %q, &%s)", e.class.Name, f.Name, e.fieldExpr(f))
	}
	return e.take()
}
