package parser

import (
	"go/types"
	"strings"

	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// loader turns go/types types into typeinfo values. Names are rendered as
// seen from the output package.
type loader struct {
	outPkgPath string
	enums      map[*types.TypeName]bool
}

func newLoader(outPkgPath string) *loader {
	return &loader{outPkgPath: outPkgPath, enums: map[*types.TypeName]bool{}}
}

func (l *loader) qualifier(p *types.Package) string {
	if p == nil || p.Path() == l.outPkgPath {
		return ""
	}
	return p.Name()
}

func (l *loader) typeOf(t types.Type) typeinfo.TypeInfo {
	if t == nil {
		return nil
	}
	return &goType{t: t, l: l}
}

// isEnum reports whether the named integer type has at least one constant
// of its own type declared at the scope of its package.
func (l *loader) isEnum(n *types.Named) bool {
	obj := n.Obj()
	if v, ok := l.enums[obj]; ok {
		return v
	}
	found := false
	if b, ok := n.Underlying().(*types.Basic); ok && b.Info()&types.IsInteger != 0 && obj.Pkg() != nil {
		scope := obj.Pkg().Scope()
		for _, name := range scope.Names() {
			if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), n) {
				found = true
				break
			}
		}
	}
	l.enums[obj] = found
	return found
}

// goType adapts a go/types type to typeinfo.TypeInfo.
type goType struct {
	t types.Type
	l *loader
}

var _ typeinfo.TypeInfo = (*goType)(nil)

func (g *goType) Name() string { return types.TypeString(g.t, g.l.qualifier) }

func (g *goType) Canonical() string { return types.TypeString(types.Unalias(g.t), nil) }

func (g *goType) named() *types.Named {
	n, _ := types.Unalias(g.t).(*types.Named)
	return n
}

// wireName returns the name of a runtime type, or "".
func (g *goType) wireName() string {
	n := g.named()
	if n == nil || n.Obj().Pkg() == nil || n.Obj().Pkg().Path() != WirePkgPath {
		return ""
	}
	return n.Obj().Name()
}

func (g *goType) Kind() typeinfo.Kind {
	switch w := g.wireName(); {
	case w == "Double32":
		return typeinfo.KindBasic
	case w != "":
		if _, ok := typeinfo.TemplateName(w); ok {
			return typeinfo.KindTemplate
		}
	}
	if n := g.named(); n != nil && g.l.isEnum(n) {
		return typeinfo.KindEnum
	}

	switch u := g.t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsString != 0:
			return typeinfo.KindString
		case basicKinds[u.Kind()] != typeinfo.InvalidBasic:
			return typeinfo.KindBasic
		}
	case *types.Pointer:
		return typeinfo.KindPointer
	case *types.Array:
		return typeinfo.KindArray
	case *types.Slice:
		return typeinfo.KindSlice
	case *types.Map:
		return typeinfo.KindMap
	case *types.Struct:
		return typeinfo.KindStruct
	case *types.Interface:
		return typeinfo.KindInterface
	}
	return typeinfo.KindUnsupported
}

var basicKinds = map[types.BasicKind]typeinfo.BasicKind{
	types.Bool:    typeinfo.Bool,
	types.Int8:    typeinfo.Int8,
	types.Int16:   typeinfo.Int16,
	types.Int32:   typeinfo.Int32,
	types.Int64:   typeinfo.Int64,
	types.Int:     typeinfo.Int,
	types.Uint8:   typeinfo.Uint8,
	types.Uint16:  typeinfo.Uint16,
	types.Uint32:  typeinfo.Uint32,
	types.Uint64:  typeinfo.Uint64,
	types.Uint:    typeinfo.Uint,
	types.Float32: typeinfo.Float32,
	types.Float64: typeinfo.Float64,
}

func (g *goType) Basic() typeinfo.BasicKind {
	if g.wireName() == "Double32" {
		return typeinfo.Double32
	}
	if b, ok := g.t.Underlying().(*types.Basic); ok {
		return basicKinds[b.Kind()]
	}
	return typeinfo.InvalidBasic
}

func (g *goType) Template() string {
	name, _ := typeinfo.TemplateName(g.wireName())
	return name
}

func (g *goType) TemplateArgs() []typeinfo.TypeInfo {
	n := g.named()
	if n == nil || n.TypeArgs() == nil {
		return nil
	}
	args := n.TypeArgs()
	out := make([]typeinfo.TypeInfo, args.Len())
	for i := range args.Len() {
		out[i] = g.l.typeOf(args.At(i))
	}
	return out
}

func (g *goType) Elem() typeinfo.TypeInfo {
	if g.Kind() == typeinfo.KindTemplate {
		args := g.TemplateArgs()
		switch g.Template() {
		case "list", "deque":
			if len(args) == 1 {
				return args[0]
			}
		case "multimap":
			if len(args) == 2 {
				return args[1]
			}
		}
		return nil
	}
	switch u := g.t.Underlying().(type) {
	case *types.Pointer:
		return g.l.typeOf(u.Elem())
	case *types.Array:
		return g.l.typeOf(u.Elem())
	case *types.Slice:
		return g.l.typeOf(u.Elem())
	case *types.Map:
		return g.l.typeOf(u.Elem())
	}
	return nil
}

func (g *goType) Key() typeinfo.TypeInfo {
	if g.Kind() == typeinfo.KindTemplate {
		if args := g.TemplateArgs(); len(args) > 0 && g.Template() != "list" && g.Template() != "deque" {
			return args[0]
		}
		return nil
	}
	if m, ok := g.t.Underlying().(*types.Map); ok {
		return g.l.typeOf(m.Key())
	}
	return nil
}

func (g *goType) Len() int {
	if a, ok := g.t.Underlying().(*types.Array); ok {
		return int(a.Len())
	}
	return 0
}

func (g *goType) HasStreamer() bool {
	n := g.named()
	if n == nil {
		return false
	}
	return hasMethod(n, "Streamer", []string{"*" + WirePkgPath + ".Buffer"}, []string{"error"})
}

func (g *goType) PkgPath() string {
	if n := g.named(); n != nil && n.Obj().Pkg() != nil {
		return n.Obj().Pkg().Path()
	}
	return ""
}

func (g *goType) PkgName() string {
	if n := g.named(); n != nil && n.Obj().Pkg() != nil {
		return n.Obj().Pkg().Name()
	}
	return ""
}

func (g *goType) TypeName() string {
	if n := g.named(); n != nil {
		return n.Obj().Name()
	}
	return ""
}

// hasMethod reports whether n declares a method name whose parameter and
// result types print as params and results. Promoted methods do not count.
func hasMethod(n *types.Named, name string, params, results []string) bool {
	for i := range n.NumMethods() {
		fn := n.Method(i)
		if fn.Name() != name {
			continue
		}
		sig := fn.Type().(*types.Signature)
		return tupleIs(sig.Params(), params) && tupleIs(sig.Results(), results)
	}
	return false
}

func tupleIs(t *types.Tuple, want []string) bool {
	if t.Len() != len(want) {
		return false
	}
	for i := range t.Len() {
		got := types.TypeString(t.At(i).Type(), nil)
		got = strings.ReplaceAll(got, "interface{}", "any")
		if got != want[i] {
			return false
		}
	}
	return true
}
