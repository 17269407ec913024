package typeinfo

import (
	"path"
	"strconv"
)

// Fake is a hand-built TypeInfo. It lets the classifier and the resolver be
// exercised without loading packages.
type Fake struct {
	name      string
	canonical string
	kind      Kind
	basic     BasicKind
	elem      TypeInfo
	key       TypeInfo
	length    int
	template  string
	args      []TypeInfo
	streamer  bool
	pkgPath   string
	typeName  string
}

var _ TypeInfo = (*Fake)(nil)

func (f *Fake) Name() string             { return f.name }
func (f *Fake) Canonical() string        { return f.canonical }
func (f *Fake) Kind() Kind               { return f.kind }
func (f *Fake) Basic() BasicKind         { return f.basic }
func (f *Fake) Elem() TypeInfo           { return f.elem }
func (f *Fake) Key() TypeInfo            { return f.key }
func (f *Fake) Len() int                 { return f.length }
func (f *Fake) Template() string         { return f.template }
func (f *Fake) TemplateArgs() []TypeInfo { return f.args }
func (f *Fake) HasStreamer() bool        { return f.streamer }
func (f *Fake) PkgPath() string          { return f.pkgPath }
func (f *Fake) TypeName() string         { return f.typeName }

func (f *Fake) PkgName() string {
	if f.pkgPath == "" {
		return ""
	}
	return path.Base(f.pkgPath)
}

// WithStreamer marks the type as having its own streamer.
func (f *Fake) WithStreamer() *Fake {
	c := *f
	c.streamer = true
	return &c
}

// Basic returns a fundamental type.
func Basic(k BasicKind) *Fake {
	return &Fake{name: k.String(), canonical: k.String(), kind: KindBasic, basic: k}
}

// String returns the string type.
func String() *Fake {
	return &Fake{name: "string", canonical: "string", kind: KindString}
}

// PointerTo returns *t.
func PointerTo(t TypeInfo) *Fake {
	return &Fake{name: "*" + t.Name(), canonical: "*" + t.Canonical(), kind: KindPointer, elem: t}
}

// ArrayOf returns [n]t.
func ArrayOf(n int, t TypeInfo) *Fake {
	l := "[" + strconv.Itoa(n) + "]"
	return &Fake{name: l + t.Name(), canonical: l + t.Canonical(), kind: KindArray, elem: t, length: n}
}

// SliceOf returns []t.
func SliceOf(t TypeInfo) *Fake {
	return &Fake{name: "[]" + t.Name(), canonical: "[]" + t.Canonical(), kind: KindSlice, elem: t}
}

// MapOf returns map[k]v.
func MapOf(k, v TypeInfo) *Fake {
	return &Fake{
		name:      "map[" + k.Name() + "]" + v.Name(),
		canonical: "map[" + k.Canonical() + "]" + v.Canonical(),
		kind:      KindMap,
		key:       k,
		elem:      v,
	}
}

// EmptyStruct returns struct{}, the value type of map-based sets.
func EmptyStruct() *Fake {
	return &Fake{name: "struct{}", canonical: "struct{}", kind: KindStruct}
}

// Named returns a struct type declared in pkgPath.
func Named(pkgPath, name string) *Fake {
	return &Fake{name: name, canonical: pkgPath + "." + name, kind: KindStruct, pkgPath: pkgPath, typeName: name}
}

// EnumOf returns a named integer type with declared constants.
func EnumOf(pkgPath, name string, underlying BasicKind) *Fake {
	return &Fake{name: name, canonical: pkgPath + "." + name, kind: KindEnum, basic: underlying, pkgPath: pkgPath, typeName: name}
}

// InterfaceOf returns a named interface type.
func InterfaceOf(pkgPath, name string) *Fake {
	return &Fake{name: name, canonical: pkgPath + "." + name, kind: KindInterface, pkgPath: pkgPath, typeName: name}
}

// TemplateOf returns one of the wire containers instantiated with args.
// The last argument is the element; keyed containers take the key first.
func TemplateOf(template string, args ...TypeInfo) *Fake {
	f := &Fake{kind: KindTemplate, template: template, args: args}
	names := ""
	canon := ""
	for i, a := range args {
		if i > 0 {
			names += ", "
			canon += ","
		}
		names += a.Name()
		canon += a.Canonical()
	}
	goName := templateTypes[template]
	f.name = "wire." + goName
	f.canonical = "wire." + goName
	if len(args) > 0 {
		f.name += "[" + names + "]"
		f.canonical += "[" + canon + "]"
	}
	switch len(args) {
	case 1:
		if template == "set" || template == "multiset" {
			f.key = args[0]
		} else {
			f.elem = args[0]
		}
	case 2:
		f.key, f.elem = args[0], args[1]
	}
	return f
}

// Ref returns a reference to t. Go has no references; the kind exists so
// that classification of one can be tested.
func Ref(t TypeInfo) *Fake {
	return &Fake{name: t.Name() + "&", canonical: t.Canonical() + "&", kind: KindReference, elem: t}
}

// Unsupported returns a type with no wire shape, such as a channel.
func Unsupported(name string) *Fake {
	return &Fake{name: name, canonical: name, kind: KindUnsupported}
}

var templateTypes = map[string]string{
	"list":     "List",
	"deque":    "Deque",
	"set":      "Set",
	"multiset": "MultiSet",
	"multimap": "MultiMap",
	"bitset":   "Bitset",
}

// TemplateName maps a wire container type name to its template name.
func TemplateName(goName string) (string, bool) {
	for tmpl, n := range templateTypes {
		if n == goName {
			return tmpl, true
		}
	}
	return "", false
}
