package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seitarof/gen-dict/internal/ir"
	"github.com/seitarof/gen-dict/internal/rules"
	"github.com/seitarof/gen-dict/internal/synth"
	"github.com/seitarof/gen-dict/wire"
)

var kindIdents = map[wire.Kind]string{
	wire.KindBool:       "KindBool",
	wire.KindInt8:       "KindInt8",
	wire.KindInt16:      "KindInt16",
	wire.KindInt32:      "KindInt32",
	wire.KindInt64:      "KindInt64",
	wire.KindInt:        "KindInt",
	wire.KindUint8:      "KindUint8",
	wire.KindUint16:     "KindUint16",
	wire.KindUint32:     "KindUint32",
	wire.KindUint64:     "KindUint64",
	wire.KindUint:       "KindUint",
	wire.KindFloat32:    "KindFloat32",
	wire.KindFloat64:    "KindFloat64",
	wire.KindDouble32:   "KindDouble32",
	wire.KindEnum:       "KindEnum",
	wire.KindString:     "KindString",
	wire.KindStringPtr:  "KindStringPtr",
	wire.KindArray:      "KindArray",
	wire.KindSizedArray: "KindSizedArray",
	wire.KindVector:     "KindVector",
	wire.KindList:       "KindList",
	wire.KindDeque:      "KindDeque",
	wire.KindSet:        "KindSet",
	wire.KindMultiSet:   "KindMultiSet",
	wire.KindMap:        "KindMap",
	wire.KindMultiMap:   "KindMultiMap",
	wire.KindBitset:     "KindBitset",
	wire.KindObject:     "KindObject",
	wire.KindObjectPtr:  "KindObjectPtr",
	wire.KindBase:       "KindBase",
}

// ruleFunc is one generated rule body and its registration literal.
type ruleFunc struct {
	Name    string
	Text    string
	Literal string
	Raw     bool
}

// typeDescLiteral renders td as a Go composite literal.
func typeDescLiteral(td wire.TypeDesc) string {
	var b strings.Builder
	b.WriteString("wire.TypeDesc{Kind: wire.")
	b.WriteString(kindIdents[td.Kind])
	if td.Class != "" {
		b.WriteString(", Class: " + strconv.Quote(td.Class))
	}
	if len(td.Dims) > 0 {
		dims := make([]string, len(td.Dims))
		for i, d := range td.Dims {
			dims[i] = strconv.Itoa(d)
		}
		b.WriteString(", Dims: []int{" + strings.Join(dims, ", ") + "}")
	}
	if td.Key != nil {
		b.WriteString(", Key: &" + typeDescLiteral(*td.Key))
	}
	if td.Elem != nil {
		b.WriteString(", Elem: &" + typeDescLiteral(*td.Elem))
	}
	b.WriteString("}")
	return b.String()
}

// members returns the streamed layout of p: serializable bases, then the
// fields that go on the wire. Dummy classes carry their bases only.
func members(p *synth.ClassPlan) []wire.Member {
	var out []wire.Member
	for _, b := range p.Bases {
		out = append(out, wire.Member{Name: b.Name, Type: wire.TypeDesc{Kind: wire.KindBase, Class: b.Class}})
	}
	if p.Mode == synth.Dummy {
		return out
	}
	for _, f := range p.Fields {
		td, ok := ir.Describe(f.Codec)
		if !ok {
			continue
		}
		m := wire.Member{Name: f.Field.Name, Type: td, Title: f.Field.Comment}
		if sa, ok := f.Codec.(ir.SizedArray); ok {
			m.Index = sa.Index
		}
		out = append(out, m)
	}
	return out
}

func memberLiteral(m wire.Member) string {
	s := "{Name: " + strconv.Quote(m.Name) + ", Type: " + typeDescLiteral(m.Type)
	if m.Index != "" {
		s += ", Index: " + strconv.Quote(m.Index)
	}
	if m.Title != "" {
		s += ", Title: " + strconv.Quote(m.Title)
	}
	return s + "}"
}

func ruleFuncs(cd *classData) []ruleFunc {
	var out []ruleFunc
	for i, r := range cd.plan.Rules.Raw {
		out = append(out, newRuleFunc(cd, r, fmt.Sprintf("%sReadRawRule%d", cd.Ident, i)))
	}
	for i, r := range cd.plan.Rules.Read {
		out = append(out, newRuleFunc(cd, r, fmt.Sprintf("%sReadRule%d", cd.Ident, i)))
	}
	return out
}

func newRuleFunc(cd *classData, r rules.Rule, name string) ruleFunc {
	rf := ruleFunc{Name: name, Raw: r.Raw}
	apply := "nil"
	if r.Code != "" {
		apply = name
		rf.Text = ruleText(cd, r, name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "{\n\t\t\t\tSourceClass: %q,\n\t\t\t\tTargetClass: %q,\n", r.SourceClass, r.TargetClass)
	if len(r.Source) > 0 {
		b.WriteString("\t\t\t\tSource: []wire.RuleMember{")
		for i, m := range r.Source {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{Name: %q, Type: %q}", m.Name, m.Type)
		}
		b.WriteString("},\n")
	}
	if len(r.Target) > 0 {
		qs := make([]string, len(r.Target))
		for i, t := range r.Target {
			qs[i] = strconv.Quote(t)
		}
		fmt.Fprintf(&b, "\t\t\t\tTarget: []string{%s},\n", strings.Join(qs, ", "))
	}
	if len(r.Versions) > 0 {
		b.WriteString("\t\t\t\tVersions: []wire.VersionRange{")
		for i, v := range r.Versions {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{Min: %d, Max: %d}", v.Min, v.Max)
		}
		b.WriteString("},\n")
	}
	fmt.Fprintf(&b, "\t\t\t\tApply: %s,\n\t\t\t}", apply)
	rf.Literal = b.String()
	return rf
}

// ruleText renders the function running the code of r. The code sees obj,
// the live object, and onfile holding the declared source members; raw
// rules see buffer positioned at the start of the member data instead.
func ruleText(cd *classData, r rules.Rule, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// %s runs the %s rule of %s", name, r.Kind(), cd.Name)
	if r.Spec != "" {
		fmt.Fprintf(&b, " for versions %s", r.Spec)
	}
	fmt.Fprintf(&b, ".\nfunc %s(raw *wire.OnFile, target any) error {\n", name)
	fmt.Fprintf(&b, "\tobj := target.(*%s)\n", cd.GoType)
	if r.Raw {
		b.WriteString("\tbuffer := raw.Buffer()\n")
		b.WriteString("\t_, _ = obj, buffer\n")
	} else {
		b.WriteString("\tonfile := struct {\n")
		for _, m := range r.Source {
			fmt.Fprintf(&b, "\t\t%s %s\n", m.Name, m.Type)
		}
		b.WriteString("\t}{\n")
		for _, m := range r.Source {
			fmt.Fprintf(&b, "\t\t%s: wire.OnFileValue[%s](raw, %q),\n", m.Name, m.Type, m.Name)
		}
		b.WriteString("\t}\n")
		b.WriteString("\t_, _ = obj, onfile\n")
	}
	for _, line := range strings.Split(r.Code, "\n") {
		b.WriteString("\t" + strings.TrimRight(line, " \t") + "\n")
	}
	if r.Raw {
		b.WriteString("\treturn buffer.Err()\n")
	} else {
		b.WriteString("\treturn nil\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// classInfoLiteral renders the fields of the class registration.
func classInfoLiteral(cd *classData) string {
	c := cd.plan.Class
	t := cd.GoType
	var b strings.Builder
	field := func(format string, args ...any) {
		b.WriteString("\t\t")
		fmt.Fprintf(&b, format, args...)
		b.WriteString(",\n")
	}

	field("Name: %q", cd.Name)
	field("Version: %d", cd.Version)
	field("Size: unsafe.Sizeof(%s{})", t)
	field("Type: reflect.TypeFor[%s]()", t)
	if !c.Abstract {
		if ctor := c.Hooks.Constructor; ctor != "" {
			if !cd.Local {
				ctor = c.PkgName + "." + ctor
			}
			field("New: func() any { return %s() }", ctor)
		} else {
			field("New: func() any { return new(%s) }", t)
		}
		field("NewArray: func(n int) any { return make([]%s, n) }", t)
	}
	h := c.Hooks
	if h.Destruct {
		field("Destruct: func(obj any) { obj.(*%s).Destruct() }", t)
	}
	if h.DirectoryAutoAdd {
		field("DirectoryAutoAdd: func(obj any, dir wire.Directory) { obj.(*%s).DirectoryAutoAdd(dir) }", t)
	}
	switch {
	case h.MergeWithInfo:
		field("Merge: func(obj any, list []any, info *wire.MergeInfo) (int64, error) { return obj.(*%s).MergeWithInfo(list, info) }", t)
	case h.Merge:
		field("Merge: func(obj any, list []any, _ *wire.MergeInfo) (int64, error) { return obj.(*%s).Merge(list) }", t)
	}
	if h.ResetAfterMerge {
		field("ResetAfterMerge: func(obj any, info *wire.MergeInfo) { obj.(*%s).ResetAfterMerge(info) }", t)
	}

	switch {
	case cd.Streamer && !cd.Local:
		field("Streamer: func(obj any, b *wire.Buffer) error { return %s(obj.(*%s), b) }", cd.StreamerFunc, t)
	case cd.Streamer || c.CustomStreamer:
		field("Streamer: func(obj any, b *wire.Buffer) error { return obj.(*%s).Streamer(b) }", t)
	}
	if cd.Local {
		field("ShowMembers: func(obj any, insp wire.Inspector) { obj.(*%s).ShowMembers(insp) }", t)
	} else {
		field("ShowMembers: func(obj any, insp wire.Inspector) { %s(obj.(*%s), insp) }", cd.ShowMembersFunc, t)
	}

	if ms := members(cd.plan); len(ms) > 0 {
		b.WriteString("\t\tMembers: []wire.Member{\n")
		for _, m := range ms {
			b.WriteString("\t\t\t" + memberLiteral(m) + ",\n")
		}
		b.WriteString("\t\t},\n")
	}
	writeRules := func(field string, raw bool) {
		var lits []string
		for _, rf := range cd.Rules {
			if rf.Raw == raw {
				lits = append(lits, rf.Literal)
			}
		}
		if len(lits) == 0 {
			return
		}
		b.WriteString("\t\t" + field + ": []wire.ReadRule{\n")
		for _, l := range lits {
			b.WriteString("\t\t\t" + l + ",\n")
		}
		b.WriteString("\t\t},\n")
	}
	writeRules("ReadRules", false)
	writeRules("ReadRawRules", true)
	return b.String()
}
