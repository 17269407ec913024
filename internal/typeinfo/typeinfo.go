// Package typeinfo describes declared types independently of the frontend
// that produced them.
package typeinfo

import "go/token"

// Kind is the coarse category of a type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBasic
	KindEnum
	KindString
	KindPointer
	KindArray
	KindSlice
	KindMap
	KindTemplate
	KindStruct
	KindInterface
	KindReference
	KindUnsupported
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindBasic:       "basic",
	KindEnum:        "enum",
	KindString:      "string",
	KindPointer:     "pointer",
	KindArray:       "array",
	KindSlice:       "slice",
	KindMap:         "map",
	KindTemplate:    "template",
	KindStruct:      "struct",
	KindInterface:   "interface",
	KindReference:   "reference",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// BasicKind identifies a fundamental type.
type BasicKind uint8

const (
	InvalidBasic BasicKind = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Int
	Uint8
	Uint16
	Uint32
	Uint64
	Uint
	Float32
	Float64
	Double32
)

var basicNames = [...]string{
	InvalidBasic: "invalid",
	Bool:         "bool",
	Int8:         "int8",
	Int16:        "int16",
	Int32:        "int32",
	Int64:        "int64",
	Int:          "int",
	Uint8:        "uint8",
	Uint16:       "uint16",
	Uint32:       "uint32",
	Uint64:       "uint64",
	Uint:         "uint",
	Float32:      "float32",
	Float64:      "float64",
	Double32:     "wire.Double32",
}

// String returns the Go spelling of the type.
func (k BasicKind) String() string {
	if int(k) < len(basicNames) {
		return basicNames[k]
	}
	return "invalid"
}

// Method is the suffix of the Buffer accessors for k: ReadInt32, WriteBool...
func (k BasicKind) Method() string {
	switch k {
	case Bool:
		return "Bool"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Int:
		return "Int"
	case Uint8:
		return "Uint8"
	case Uint16:
		return "Uint16"
	case Uint32:
		return "Uint32"
	case Uint64:
		return "Uint64"
	case Uint:
		return "Uint"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case Double32:
		return "Double32"
	}
	return ""
}

// Integer reports whether k can size an array.
func (k BasicKind) Integer() bool {
	return k >= Int8 && k <= Uint
}

// TypeInfo is what the classifier needs to know about a declared type.
type TypeInfo interface {
	// Name is the Go expression of the type as written in the output package.
	Name() string
	// Canonical is the fully qualified spelling with aliases resolved.
	Canonical() string
	Kind() Kind
	// Basic is the fundamental kind of a basic type or of an enum's
	// underlying type.
	Basic() BasicKind
	// Elem is the pointee, element or mapped type.
	Elem() TypeInfo
	// Key is the key type of maps and keyed templates.
	Key() TypeInfo
	// Len is the length of an array.
	Len() int
	// Template names the container of a KindTemplate type: list, deque,
	// set, multiset, multimap or bitset.
	Template() string
	TemplateArgs() []TypeInfo
	// HasStreamer reports whether the type has its own
	// Streamer(*wire.Buffer) error method.
	HasStreamer() bool
	// PkgPath, PkgName and TypeName locate a named type. All are empty for
	// unnamed types.
	PkgPath() string
	PkgName() string
	TypeName() string
}

// ClassName is the registered name of a named type: pkgname.Type, or the
// full import path when long is set.
func ClassName(pkgPath, pkgName, typeName string, long bool) string {
	if long && pkgPath != "" {
		return pkgPath + "." + typeName
	}
	if pkgName == "" {
		return typeName
	}
	return pkgName + "." + typeName
}

// ClassDecl is one struct declaration considered for generation.
type ClassDecl struct {
	Name    string
	PkgPath string
	PkgName string

	Version    int16
	HasVersion bool
	Abstract   bool

	// HasStreamer is set when the type already implements Streamer.
	HasStreamer bool

	Bases  []BaseDecl
	Fields []FieldDecl
	Hooks  Hooks
	Pos    token.Position
}

// Canonical is the fully qualified name of the declared type.
func (c *ClassDecl) Canonical() string { return c.PkgPath + "." + c.Name }

// HasUnexported reports whether any field or base is unexported.
func (c *ClassDecl) HasUnexported() bool {
	for _, f := range c.Fields {
		if !f.Exported {
			return true
		}
	}
	for _, b := range c.Bases {
		if !b.Exported {
			return true
		}
	}
	return false
}

// FieldDecl is one non-embedded field, in declaration order.
type FieldDecl struct {
	Name      string
	Type      TypeInfo
	Transient bool
	// Index is the size expression of a field sized by earlier siblings.
	Index    string
	Comment  string
	Exported bool
	Pos      token.Position
}

// BaseDecl is one embedded field.
type BaseDecl struct {
	Name     string
	Type     TypeInfo
	Pointer  bool
	Exported bool
	Pos      token.Position
}

// Hooks records the optional methods a class provides.
type Hooks struct {
	Destruct         bool
	DirectoryAutoAdd bool
	Merge            bool
	MergeWithInfo    bool
	ResetAfterMerge  bool
	// Constructor names a package-level func() *T used instead of new(T).
	Constructor string
}
