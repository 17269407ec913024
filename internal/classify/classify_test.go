package classify

import (
	"testing"

	"github.com/seitarof/gen-dict/internal/diag"
	ti "github.com/seitarof/gen-dict/internal/typeinfo"
)

const evPkg = "example.com/event"

func TestClassify(t *testing.T) {
	point := ti.Named(evPkg, "Point")
	color := ti.EnumOf(evPkg, "Color", ti.Int8)

	tests := []struct {
		name string
		typ  ti.TypeInfo
		want string
		tag  Tag
	}{
		{name: "fundamental", typ: ti.Basic(ti.Int32), want: "Fundamental", tag: Fundamental},
		{name: "double32", typ: ti.Basic(ti.Double32), want: "Fundamental", tag: Fundamental},
		{name: "enum", typ: color, want: "Enum", tag: Enum},
		{name: "string", typ: ti.String(), want: "StdString", tag: StdString},
		{name: "string pointer", typ: ti.PointerTo(ti.String()), want: "StdString*", tag: StdString},
		{name: "pointer", typ: ti.PointerTo(ti.Basic(ti.Float32)), want: "*Fundamental", tag: Pointer},
		{name: "object pointer", typ: ti.PointerTo(point), want: "*NestedObject", tag: Pointer},
		{name: "pointer to pointer", typ: ti.PointerTo(ti.PointerTo(ti.Basic(ti.Int32))), want: "PointerToPointer", tag: PointerToPointer},
		{name: "array", typ: ti.ArrayOf(4, ti.Basic(ti.Int16)), want: "[4]Fundamental", tag: FixedArray},
		{name: "vector", typ: ti.SliceOf(ti.Basic(ti.Int32)), want: "vector<Fundamental>", tag: STLContainer},
		{name: "map", typ: ti.MapOf(ti.Basic(ti.Int32), ti.SliceOf(ti.String())), want: "map<Fundamental,vector<StdString>>", tag: STLContainer},
		{name: "map set", typ: ti.MapOf(ti.String(), ti.EmptyStruct()), want: "set<StdString>", tag: STLContainer},
		{name: "list", typ: ti.TemplateOf("list", point), want: "list<NestedObject>", tag: STLContainer},
		{name: "multimap", typ: ti.TemplateOf("multimap", ti.Basic(ti.Int32), ti.String()), want: "multimap<Fundamental,StdString>", tag: STLContainer},
		{name: "multiset", typ: ti.TemplateOf("multiset", color), want: "multiset<Enum>", tag: STLContainer},
		{name: "bitset", typ: ti.TemplateOf("bitset"), want: "bitset<Fundamental>", tag: STLContainer},
		{name: "nested", typ: point, want: "NestedObject", tag: NestedObject},
		{name: "interface", typ: ti.InterfaceOf(evPkg, "Shape"), want: "NestedObject", tag: NestedObject},
		{name: "reference", typ: ti.Ref(point), want: "Reference", tag: Reference},
		{name: "chan", typ: ti.Unsupported("chan int"), want: "Unsupported", tag: Unsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.typ)
			if got.Tag != tt.tag {
				t.Fatalf("Classify(%s).Tag = %s, want %s", tt.typ.Name(), got.Tag, tt.tag)
			}
			if got.String() != tt.want {
				t.Fatalf("Classify(%s) = %s, want %s", tt.typ.Name(), got, tt.want)
			}
		})
	}
}

func TestClassify_MultiDimArrayTotal(t *testing.T) {
	s := Classify(ti.ArrayOf(2, ti.ArrayOf(3, ti.ArrayOf(4, ti.Basic(ti.Float64)))))
	if s.Tag != FixedArray {
		t.Fatalf("Tag = %s, want FixedArray", s.Tag)
	}
	if len(s.Dims) != 3 || s.Dims[0] != 2 || s.Dims[2] != 4 {
		t.Fatalf("Dims = %v, want [2 3 4]", s.Dims)
	}
	if s.Total != 24 {
		t.Fatalf("Total = %d, want 24", s.Total)
	}
	if s.Elem.Basic != ti.Float64 {
		t.Fatalf("Elem.Basic = %s, want float64", s.Elem.Basic)
	}
}

func TestClassify_ZeroDimensionRejected(t *testing.T) {
	s := Classify(ti.ArrayOf(3, ti.ArrayOf(0, ti.Basic(ti.Int32))))
	if s.Tag != Unsupported {
		t.Fatalf("Tag = %s, want Unsupported", s.Tag)
	}
	if s.Code != diag.ClsZeroDim {
		t.Fatalf("Code = %v, want ClsZeroDim", s.Code)
	}
	if s.Supported() {
		t.Fatal("zero-length array should not be supported")
	}
}

func TestClassify_EnumKeepsUnderlyingAndClass(t *testing.T) {
	c, err := New(0, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s := c.Classify(ti.EnumOf(evPkg, "Level", ti.Uint16))
	if s.Basic != ti.Uint16 {
		t.Fatalf("Basic = %s, want uint16", s.Basic)
	}
	if s.Class != "example.com/event.Level" {
		t.Fatalf("Class = %s, want long name", s.Class)
	}
}

func TestClassifier_Memoizes(t *testing.T) {
	c, err := New(8, false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	typ := ti.MapOf(ti.String(), ti.Named(evPkg, "Point"))
	a := c.Classify(typ)
	b := c.Classify(ti.MapOf(ti.String(), ti.Named(evPkg, "Point")))
	if a != b {
		t.Fatal("same canonical type should share one shape")
	}
	// the map, its key and its value
	if c.Cached() != 3 {
		t.Fatalf("Cached() = %d, want 3", c.Cached())
	}
	if a.Elem.Class != "event.Point" {
		t.Fatalf("Elem.Class = %s, want event.Point", a.Elem.Class)
	}
}

func TestClassifyField_SizedSlice(t *testing.T) {
	c, _ := New(0, false)
	fd := c.ClassifyField(ti.FieldDecl{Name: "Xs", Type: ti.SliceOf(ti.Basic(ti.Float32)), Index: "N"})
	if !fd.Sized || fd.Shape.Tag != Pointer || fd.Shape.Elem.Tag != Fundamental {
		t.Fatalf("sized slice classified as %s (sized=%v)", fd.Shape, fd.Sized)
	}
	if fd.TypeName != "[]float32" {
		t.Fatalf("TypeName = %s", fd.TypeName)
	}

	fd = c.ClassifyField(ti.FieldDecl{Name: "V", Type: ti.SliceOf(ti.Basic(ti.Int32))})
	if fd.Sized || fd.Shape.Container != Vector {
		t.Fatalf("unsized slice classified as %s", fd.Shape)
	}
}

func TestBuildClass(t *testing.T) {
	c, _ := New(0, false)
	rep := diag.NewReporter(nil, 0)
	base := ti.Named(evPkg, "Base")
	other := ti.Named("example.com/other", "Tagged").WithStreamer()
	plain := ti.Named(evPkg, "Plain")

	decl := &ti.ClassDecl{
		Name:       "Track",
		PkgPath:    evPkg,
		PkgName:    "event",
		Version:    3,
		HasVersion: true,
		Bases: []ti.BaseDecl{
			{Name: "Base", Type: base, Exported: true},
			{Name: "Tagged", Type: other, Exported: true},
			{Name: "Plain", Type: plain, Exported: true},
		},
		Fields: []ti.FieldDecl{
			{Name: "N", Type: ti.Basic(ti.Int32), Exported: true},
			{Name: "Name", Type: ti.String(), Exported: true, Index: "N"},
			{Name: "cache", Type: ti.Basic(ti.Float64), Transient: true},
		},
	}
	cd, err := c.BuildClass(decl, Options{
		OutputPkgPath: "example.com/dict",
		Selected:      map[string]bool{evPkg + ".Base": true},
	}, rep)
	if err != nil {
		t.Fatalf("BuildClass() error = %v", err)
	}
	if cd.Name != "event.Track" || cd.Version != 3 {
		t.Fatalf("unexpected class %s v%d", cd.Name, cd.Version)
	}
	if !cd.Bases[0].Serializable || !cd.Bases[1].Serializable || cd.Bases[2].Serializable {
		t.Fatalf("unexpected base serializability: %+v", cd.Bases)
	}
	if !cd.NeedsShadow {
		t.Fatal("unexported field in a foreign output package needs a shadow")
	}
	if f, i := cd.Field("Name"); f == nil || i != 1 || f.Index != "" {
		t.Fatalf("index on a string field should be dropped, got %+v", f)
	}
	if len(rep.ByCode(diag.CodecBadIndex)) != 1 {
		t.Fatal("dropped index should be reported")
	}
}

func TestBuildClass_NonStructBaseIsStructural(t *testing.T) {
	c, _ := New(0, false)
	decl := &ti.ClassDecl{
		Name:    "Bad",
		PkgPath: evPkg,
		PkgName: "event",
		Bases:   []ti.BaseDecl{{Name: "Level", Type: ti.EnumOf(evPkg, "Level", ti.Int32)}},
	}
	_, err := c.BuildClass(decl, Options{}, nil)
	serr, ok := err.(*diag.StructuralError)
	if !ok {
		t.Fatalf("BuildClass() error = %v, want *diag.StructuralError", err)
	}
	if serr.Code != diag.ClassBadBase {
		t.Fatalf("Code = %v, want ClassBadBase", serr.Code)
	}
}

func TestBuildClass_UnnameableShadowMember(t *testing.T) {
	hidden := ti.Named(evPkg, "hit")
	tests := []struct {
		name    string
		typ     ti.TypeInfo
		outPkg  string
		wantErr bool
	}{
		{name: "unexported struct", typ: hidden, outPkg: "example.com/dict", wantErr: true},
		{name: "slice of unexported", typ: ti.SliceOf(hidden), outPkg: "example.com/dict", wantErr: true},
		{name: "map value", typ: ti.MapOf(ti.String(), ti.PointerTo(hidden)), outPkg: "example.com/dict", wantErr: true},
		{name: "container argument", typ: ti.TemplateOf("list", hidden), outPkg: "example.com/dict", wantErr: true},
		{name: "exported struct", typ: ti.SliceOf(ti.Named(evPkg, "Hit")), outPkg: "example.com/dict"},
		{name: "fundamental", typ: ti.Basic(ti.Int32), outPkg: "example.com/dict"},
		{name: "same package", typ: hidden, outPkg: evPkg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := New(0, false)
			decl := &ti.ClassDecl{
				Name:       "Track",
				PkgPath:    evPkg,
				PkgName:    "event",
				Version:    1,
				HasVersion: true,
				Fields: []ti.FieldDecl{
					{Name: "N", Type: ti.Basic(ti.Int32), Exported: true},
					{Name: "hits", Type: tt.typ},
				},
			}
			_, err := c.BuildClass(decl, Options{OutputPkgPath: tt.outPkg}, nil)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("BuildClass() error = %v", err)
				}
				return
			}
			serr, ok := err.(*diag.StructuralError)
			if !ok {
				t.Fatalf("BuildClass() error = %v, want *diag.StructuralError", err)
			}
			if serr.Code != diag.ClassHiddenType || serr.Class != "event.Track" {
				t.Fatalf("unexpected structural error: %+v", serr)
			}
		})
	}
}

func BenchmarkClassifier_Classify(b *testing.B) {
	c, _ := New(0, false)
	typ := ti.MapOf(ti.String(), ti.SliceOf(ti.ArrayOf(3, ti.Named(evPkg, "Point"))))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Classify(typ)
	}
}
