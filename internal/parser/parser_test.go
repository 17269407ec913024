package parser

import (
	"go/ast"
	"path/filepath"
	"testing"

	"github.com/seitarof/gen-dict/internal/typeinfo"
)

const testdataPkg = "github.com/seitarof/gen-dict/testdata/"

func parseTestdata(t testing.TB, pkg, output string) *Result {
	t.Helper()
	res, err := New("").Parse([]string{testdataPkg + pkg}, output)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return res
}

func TestParse_BasicStruct(t *testing.T) {
	out := filepath.Join("..", "..", "testdata", "parserbasic", "basic_dict.go")
	res := parseTestdata(t, "parserbasic", out)

	if res.OutputPkgPath != testdataPkg+"parserbasic" || res.OutputPkgName != "parserbasic" {
		t.Fatalf("output package = %s %s", res.OutputPkgPath, res.OutputPkgName)
	}
	var names []string
	for _, d := range res.Decls {
		names = append(names, d.Name)
	}
	want := []string{"Object", "Track", "Shape", "Custom", "Plain"}
	if len(names) != len(want) {
		t.Fatalf("decls = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("decls = %v, want %v", names, want)
		}
	}

	track := declByName(res.Decls, "Track")
	if !track.HasVersion || track.Version != 3 {
		t.Fatalf("Track version = %d (%v), want 3", track.Version, track.HasVersion)
	}
	if track.HasStreamer {
		t.Fatal("the stale output file must not give Track a streamer")
	}
	if len(track.Bases) != 1 || track.Bases[0].Name != "Object" {
		t.Fatalf("Track bases = %+v", track.Bases)
	}

	if f := fieldByName(track.Fields, "Xs"); f == nil || f.Index != "N" {
		t.Fatalf("Xs = %+v, want index N", f)
	}
	if f := fieldByName(track.Fields, "Ys"); f == nil || f.Index != "N*2" || f.Comment != "y positions" {
		t.Fatalf("Ys = %+v, want index N*2", f)
	}
	if f := fieldByName(track.Fields, "Cache"); f == nil || !f.Transient || f.Comment != "recomputed on read" {
		t.Fatalf("Cache = %+v, want transient", f)
	}
	if f := fieldByName(track.Fields, "Skip"); f == nil || !f.Transient {
		t.Fatalf("Skip = %+v, want transient", f)
	}
	if f := fieldByName(track.Fields, "Name"); f == nil || f.Comment != "track label" {
		t.Fatalf("Name = %+v, want title", f)
	}
	if f := fieldByName(track.Fields, "note"); f == nil || f.Exported {
		t.Fatalf("note = %+v, want unexported field", f)
	}

	h := track.Hooks
	if !h.Destruct || !h.MergeWithInfo || !h.ResetAfterMerge || !h.DirectoryAutoAdd || h.Merge {
		t.Fatalf("Track hooks = %+v", h)
	}
	if h.Constructor != "NewTrack" {
		t.Fatalf("Track constructor = %q, want NewTrack", h.Constructor)
	}

	if !declByName(res.Decls, "Shape").Abstract {
		t.Fatal("Shape should be abstract")
	}
	if !declByName(res.Decls, "Custom").HasStreamer {
		t.Fatal("Custom declares its own streamer")
	}
	if declByName(res.Decls, "Plain").HasVersion {
		t.Fatal("Plain declares no version")
	}
}

func TestParse_TypeInfo(t *testing.T) {
	res := parseTestdata(t, "parserbasic", filepath.Join("..", "..", "testdata", "parserbasic", "basic_dict.go"))
	track := declByName(res.Decls, "Track")

	tests := []struct {
		field string
		name  string
		kind  typeinfo.Kind
		basic typeinfo.BasicKind
	}{
		{field: "N", name: "int32", kind: typeinfo.KindBasic, basic: typeinfo.Int32},
		{field: "Color", name: "Color", kind: typeinfo.KindEnum, basic: typeinfo.Int32},
		{field: "Level", name: "Level", kind: typeinfo.KindBasic, basic: typeinfo.Int8},
		{field: "E", name: "wire.Double32", kind: typeinfo.KindBasic, basic: typeinfo.Double32},
		{field: "Name", name: "string", kind: typeinfo.KindString},
		{field: "Xs", name: "[]float64", kind: typeinfo.KindSlice},
		{field: "Set", name: "map[string]struct{}", kind: typeinfo.KindMap},
		{field: "Hits", name: "wire.List[int32]", kind: typeinfo.KindTemplate},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			f := fieldByName(track.Fields, tc.field)
			if f == nil {
				t.Fatalf("field %s not found", tc.field)
			}
			if f.Type.Name() != tc.name || f.Type.Kind() != tc.kind {
				t.Fatalf("%s: Name() = %q, Kind() = %s", tc.field, f.Type.Name(), f.Type.Kind())
			}
			if tc.basic != typeinfo.InvalidBasic && f.Type.Basic() != tc.basic {
				t.Fatalf("%s: Basic() = %s, want %s", tc.field, f.Type.Basic(), tc.basic)
			}
		})
	}

	tags := fieldByName(track.Fields, "Tags").Type
	if tags.Template() != "multimap" || tags.Key().Kind() != typeinfo.KindString || tags.Elem().Basic() != typeinfo.Int16 {
		t.Fatalf("Tags template = %s key %v elem %v", tags.Template(), tags.Key(), tags.Elem())
	}
	if hits := fieldByName(track.Fields, "Hits").Type; hits.Key() != nil || hits.Elem().Basic() != typeinfo.Int32 {
		t.Fatalf("Hits elem = %v", hits.Elem())
	}
}

func TestParse_EmbeddedMembers(t *testing.T) {
	res := parseTestdata(t, "parserembed", filepath.Join(t.TempDir(), "embed_dict.go"))
	cluster := declByName(res.Decls, "Cluster")
	if cluster == nil {
		t.Fatal("Cluster not found")
	}

	var bases []string
	for _, b := range cluster.Bases {
		bases = append(bases, b.Name)
	}
	if len(bases) != 3 || bases[0] != "Header" || bases[1] != "Geometry" || bases[2] != "flags" {
		t.Fatalf("bases = %v, want [Header Geometry flags]", bases)
	}
	if cluster.Bases[2].Exported {
		t.Fatal("embedded flags is unexported")
	}
	if f := fieldByName(cluster.Fields, "Calib"); f == nil || f.Type.Kind() != typeinfo.KindPointer {
		t.Fatalf("embedded pointer should be a pointer field, got %+v", f)
	}
	if f := fieldByName(cluster.Fields, "Energy"); f == nil || f.Type.Kind() != typeinfo.KindBasic {
		t.Fatalf("embedded non-struct should be a field, got %+v", f)
	}
}

func TestParse_ForeignNames(t *testing.T) {
	res := parseTestdata(t, "parsernested", filepath.Join("..", "..", "testdata", "parsernested", "nested_dict.go"))
	root := declByName(res.Decls, "Root")
	if root == nil {
		t.Fatal("Root not found")
	}

	tests := []struct {
		field string
		name  string
		kind  typeinfo.Kind
	}{
		{field: "Leaf", name: "Leaf", kind: typeinfo.KindStruct},
		{field: "Track", name: "*parserbasic.Track", kind: typeinfo.KindPointer},
		{field: "Color", name: "parserbasic.Color", kind: typeinfo.KindEnum},
		{field: "Tracks", name: "[]parserbasic.Track", kind: typeinfo.KindSlice},
		{field: "Any", name: "any", kind: typeinfo.KindInterface},
		{field: "Ch", name: "chan int", kind: typeinfo.KindUnsupported},
		{field: "Pair", name: "[2][3]int16", kind: typeinfo.KindArray},
	}
	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			f := fieldByName(root.Fields, tc.field)
			if f == nil {
				t.Fatalf("field %s not found", tc.field)
			}
			if f.Type.Name() != tc.name || f.Type.Kind() != tc.kind {
				t.Fatalf("%s: Name() = %q, Kind() = %s", tc.field, f.Type.Name(), f.Type.Kind())
			}
		})
	}

	// parserbasic is a dependency here, read with its dictionary in place
	track := fieldByName(root.Fields, "Track").Type.Elem()
	if track.PkgPath() != testdataPkg+"parserbasic" || track.TypeName() != "Track" || !track.HasStreamer() {
		t.Fatalf("Track elem = %s %s streamer=%v", track.PkgPath(), track.TypeName(), track.HasStreamer())
	}
	if got := fieldByName(root.Fields, "Pair").Type; got.Len() != 2 || got.Elem().Len() != 3 {
		t.Fatalf("Pair dims = %d x %d", got.Len(), got.Elem().Len())
	}
}

func TestParse_NoPatterns(t *testing.T) {
	if _, err := New("").Parse(nil, "x.go"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestApplyTrailing(t *testing.T) {
	tests := []struct {
		text      string
		index     string
		transient bool
		comment   string
	}{
		{text: "//! cache", transient: true, comment: "cache"},
		{text: "//[fN] energies", index: "fN", comment: "energies"},
		{text: "// plain title", comment: "plain title"},
		{text: "//[unterminated", comment: "[unterminated"},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			var fd typeinfo.FieldDecl
			applyTrailing(&fd, &ast.CommentGroup{List: []*ast.Comment{{Text: tc.text}}})
			if fd.Index != tc.index || fd.Transient != tc.transient || fd.Comment != tc.comment {
				t.Fatalf("applyTrailing(%q) = %+v", tc.text, fd)
			}
		})
	}
}

func declByName(decls []*typeinfo.ClassDecl, name string) *typeinfo.ClassDecl {
	for _, d := range decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func fieldByName(fields []typeinfo.FieldDecl, name string) *typeinfo.FieldDecl {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}
