package parser

import (
	"go/ast"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-dict/internal/typeinfo"
)

const (
	versionDirective  = "//dict:version"
	abstractDirective = "//dict:abstract"
)

func (l *loader) classDecl(pkg *packages.Package, named *types.Named, st *ast.StructType, doc *ast.CommentGroup) *typeinfo.ClassDecl {
	obj := named.Obj()
	d := &typeinfo.ClassDecl{
		Name:    obj.Name(),
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
		Pos:     pkg.Fset.Position(obj.Pos()),
	}
	readDirectives(d, doc)
	d.HasStreamer = hasMethod(named, "Streamer", []string{"*" + WirePkgPath + ".Buffer"}, []string{"error"})
	d.Hooks = l.hooks(pkg, named)

	tst := named.Underlying().(*types.Struct)
	i := 0
	for _, af := range st.Fields.List {
		n := len(af.Names)
		if n == 0 {
			n = 1
		}
		for range n {
			if i >= tst.NumFields() {
				break
			}
			l.member(pkg, d, tst.Field(i), tst.Tag(i), af)
			i++
		}
	}
	return d
}

// readDirectives applies //dict: lines of the type's doc comment.
func readDirectives(d *typeinfo.ClassDecl, doc *ast.CommentGroup) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		switch {
		case strings.HasPrefix(text, versionDirective):
			v, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(text, versionDirective)), 10, 16)
			if err != nil {
				continue
			}
			d.Version, d.HasVersion = int16(v), true
		case text == abstractDirective:
			d.Abstract = true
		}
	}
}

// member adds one struct field to d. Embedded structs become bases;
// embedded pointers and non-struct types stay plain fields.
func (l *loader) member(pkg *packages.Package, d *typeinfo.ClassDecl, f *types.Var, tag string, af *ast.Field) {
	pos := pkg.Fset.Position(f.Pos())
	if f.Embedded() {
		if _, ok := types.Unalias(f.Type()).(*types.Named); ok {
			if _, isStruct := f.Type().Underlying().(*types.Struct); isStruct {
				d.Bases = append(d.Bases, typeinfo.BaseDecl{
					Name:     f.Name(),
					Type:     l.typeOf(f.Type()),
					Exported: f.Exported(),
					Pos:      pos,
				})
				return
			}
		}
	}

	fd := typeinfo.FieldDecl{
		Name:     f.Name(),
		Type:     l.typeOf(f.Type()),
		Exported: f.Exported(),
		Pos:      pos,
	}
	switch v := reflect.StructTag(tag).Get("dict"); {
	case v == "-":
		fd.Transient = true
	case strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]"):
		fd.Index = strings.TrimSpace(v[1 : len(v)-1])
	}
	if af.Comment != nil {
		applyTrailing(&fd, af.Comment)
	}
	d.Fields = append(d.Fields, fd)
}

// applyTrailing reads the trailing comment of a field: "//!" marks it
// transient, "//[expr]" gives its size index, the rest is its title.
func applyTrailing(fd *typeinfo.FieldDecl, cg *ast.CommentGroup) {
	text := strings.TrimPrefix(strings.TrimSpace(cg.List[0].Text), "//")
	switch {
	case strings.HasPrefix(text, "!"):
		fd.Transient = true
		text = text[1:]
	case strings.HasPrefix(text, "["):
		if end := strings.Index(text, "]"); end > 0 {
			if fd.Index == "" {
				fd.Index = strings.TrimSpace(text[1:end])
			}
			text = text[end+1:]
		}
	}
	fd.Comment = strings.TrimSpace(text)
}

// hooks probes the optional methods of *T and a NewT constructor.
func (l *loader) hooks(pkg *packages.Package, n *types.Named) typeinfo.Hooks {
	wire := func(name string) string { return WirePkgPath + "." + name }
	h := typeinfo.Hooks{
		Destruct:         hasMethod(n, "Destruct", nil, nil),
		DirectoryAutoAdd: hasMethod(n, "DirectoryAutoAdd", []string{wire("Directory")}, nil),
		Merge:            hasMethod(n, "Merge", []string{"[]any"}, []string{"int64", "error"}),
		MergeWithInfo:    hasMethod(n, "MergeWithInfo", []string{"[]any", "*" + wire("MergeInfo")}, []string{"int64", "error"}),
		ResetAfterMerge:  hasMethod(n, "ResetAfterMerge", []string{"*" + wire("MergeInfo")}, nil),
	}
	ctor := "New" + n.Obj().Name()
	if fn, ok := pkg.Types.Scope().Lookup(ctor).(*types.Func); ok {
		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() == 0 && sig.Results().Len() == 1 && types.Identical(sig.Results().At(0).Type(), types.NewPointer(n)) {
			h.Constructor = ctor
		}
	}
	return h
}
