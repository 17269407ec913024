package classify

import (
	"fmt"
	"go/token"

	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// FieldDescriptor is the immutable classification of one field.
type FieldDescriptor struct {
	Name string
	// TypeName is the Go expression of the field type in the output package.
	TypeName  string
	Canonical string
	Shape     *Shape
	Transient bool
	// Index is the size expression of a sized field.
	Index string
	// Sized is set when the field is a slice carried as a pointer array
	// sized by Index.
	Sized    bool
	Exported bool
	Comment  string
	Pos      token.Position
}

// BaseDescriptor is one embedded base.
type BaseDescriptor struct {
	// Name is the embedded field name.
	Name string
	// Class is the registered name of the base.
	Class     string
	TypeName  string
	Canonical string
	// HasStreamer is set when the base type declares its own Streamer.
	HasStreamer  bool
	Serializable bool
	Exported     bool
	Pos          token.Position
}

// ClassDescriptor is everything generation needs to know about one class.
type ClassDescriptor struct {
	// Name is the registered class name.
	Name string
	// TypeName is the Go type name.
	TypeName string
	PkgPath  string
	PkgName  string
	// Version > 0 streams fields; otherwise only bases are forwarded.
	Version int16
	// Versioned is set when the declaration carries a version directive.
	Versioned      bool
	Abstract       bool
	CustomStreamer bool
	// NeedsShadow is set when the output package cannot reach unexported
	// members directly.
	NeedsShadow bool
	Bases       []BaseDescriptor
	Fields      []FieldDescriptor
	Hooks       typeinfo.Hooks
	Pos         token.Position
}

// Field returns the field named name and its position in declaration order.
func (c *ClassDescriptor) Field(name string) (*FieldDescriptor, int) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], i
		}
	}
	return nil, -1
}

// Canonical is the fully qualified Go name of the class type.
func (c *ClassDescriptor) Canonical() string { return c.PkgPath + "." + c.TypeName }

// Options carries the run-level facts BuildClass needs.
type Options struct {
	// OutputPkgPath is the import path of the generated file's package.
	OutputPkgPath string
	// Selected holds the canonical names of the classes generated in this
	// run; they count as serializable bases even before they have code.
	Selected map[string]bool
}

// ClassifyField classifies one field. A slice of fundamentals carrying an
// index expression becomes a sized pointer array.
func (c *Classifier) ClassifyField(f typeinfo.FieldDecl) FieldDescriptor {
	fd := FieldDescriptor{
		Name:      f.Name,
		Shape:     c.Classify(f.Type),
		Transient: f.Transient,
		Index:     f.Index,
		Exported:  f.Exported,
		Comment:   f.Comment,
		Pos:       f.Pos,
	}
	if f.Type != nil {
		fd.TypeName = f.Type.Name()
		fd.Canonical = f.Type.Canonical()
	}
	s := fd.Shape
	if f.Index != "" && s.Tag == STLContainer && s.Container == Vector && s.Elem.Tag == Fundamental {
		fd.Shape = &Shape{Tag: Pointer, PointerDepth: 1, Elem: s.Elem, Type: s.Type}
		fd.Sized = true
	}
	return fd
}

// BuildClass classifies every member of decl. A *diag.StructuralError is
// returned when the class cannot be generated at all; per-field problems
// are left in the shapes for the resolver to report.
func (c *Classifier) BuildClass(decl *typeinfo.ClassDecl, opts Options, rep *diag.Reporter) (*ClassDescriptor, error) {
	name := typeinfo.ClassName(decl.PkgPath, decl.PkgName, decl.Name, c.longNames)
	cd := &ClassDescriptor{
		Name:           name,
		TypeName:       decl.Name,
		PkgPath:        decl.PkgPath,
		PkgName:        decl.PkgName,
		Version:        decl.Version,
		Versioned:      decl.HasVersion,
		Abstract:       decl.Abstract,
		CustomStreamer: decl.HasStreamer,
		Hooks:          decl.Hooks,
		Pos:            decl.Pos,
	}
	if opts.OutputPkgPath != "" && opts.OutputPkgPath != decl.PkgPath && decl.HasUnexported() {
		cd.NeedsShadow = true
		if member, typ := hiddenMember(decl, opts.OutputPkgPath); member != "" {
			return nil, &diag.StructuralError{
				Class: name,
				Code:  diag.ClassHiddenType,
				Msg:   fmt.Sprintf("member %s has type %s, which package %s cannot name", member, typ, opts.OutputPkgPath),
			}
		}
	}

	for _, b := range decl.Bases {
		if b.Type == nil || b.Type.Kind() != typeinfo.KindStruct || b.Pointer {
			return nil, &diag.StructuralError{
				Class: name,
				Code:  diag.ClassBadBase,
				Msg:   fmt.Sprintf("embedded %s has no accessible struct declaration", b.Name),
			}
		}
		bd := BaseDescriptor{
			Name:      b.Name,
			Class:     typeinfo.ClassName(b.Type.PkgPath(), b.Type.PkgName(), b.Type.TypeName(), c.longNames),
			TypeName:  b.Type.Name(),
			Canonical: b.Type.Canonical(),
			Exported:  b.Exported,
			Pos:       b.Pos,
		}
		bd.HasStreamer = b.Type.HasStreamer()
		bd.Serializable = bd.HasStreamer || opts.Selected[bd.Canonical]
		if !bd.Serializable {
			rep.Infof(diag.ClassInfo, name, b.Name, "base has no streamer, skipped")
		}
		cd.Bases = append(cd.Bases, bd)
	}

	for _, f := range decl.Fields {
		fd := c.ClassifyField(f)
		if fd.Index != "" && !fd.Sized && !fd.Transient {
			rep.Warnf(diag.CodecBadIndex, name, fd.Name, "size index %q only applies to slices of fundamental types, ignored", fd.Index)
			fd.Index = ""
		}
		cd.Fields = append(cd.Fields, fd)
	}
	return cd, nil
}

// hiddenMember returns the first member of decl whose type mentions a named
// type the output package cannot refer to, and that type.
func hiddenMember(decl *typeinfo.ClassDecl, outPkgPath string) (string, string) {
	for _, b := range decl.Bases {
		if t := hiddenType(b.Type, outPkgPath); t != "" {
			return b.Name, t
		}
	}
	for _, f := range decl.Fields {
		if t := hiddenType(f.Type, outPkgPath); t != "" {
			return f.Name, t
		}
	}
	return "", ""
}

func hiddenType(t typeinfo.TypeInfo, outPkgPath string) string {
	if t == nil {
		return ""
	}
	if name := t.TypeName(); name != "" && t.PkgPath() != "" {
		if t.PkgPath() != outPkgPath && !token.IsExported(name) {
			return t.Canonical()
		}
	} else {
		// unnamed types are spelled out, so their parts must be nameable
		for _, part := range []typeinfo.TypeInfo{t.Elem(), t.Key()} {
			if s := hiddenType(part, outPkgPath); s != "" {
				return s
			}
		}
	}
	for _, a := range t.TemplateArgs() {
		if s := hiddenType(a, outPkgPath); s != "" {
			return s
		}
	}
	return ""
}
