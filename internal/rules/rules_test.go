package rules

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	ti "github.com/seitarof/gen-dict/internal/typeinfo"
	"github.com/seitarof/gen-dict/wire"
)

const sample = `// event rules
#ifdef __CINT__
#pragma link off all globals;
#pragma link off all classes;
#pragma link C++ nestedclasses;

#pragma link C++ class Track+;
#pragma link C++ class Vertex-;
#pragma link C++ class event.Hit!;
#pragma link C++ class Cluster;
#pragma link C++ class Calo*+;

#pragma read sourceClass="Track" targetClass="Track" version="[1-2]" \
  source="float32 Px; float32 Py" target="Pt"
#pragma read sourceClass="Track" targetClass="Track" version="[-2,4-]" source="float32 Px; float32 Py" target="Pt" code="{
	obj.Pt = float32(math.Hypot(float64(onfile.Px), float64(onfile.Py)))
}"
#pragma read raw sourceClass="Vertex" source="Pos" target="X,Y" code="{ obj.X = 1 }"
#pragma readraw sourceClass="Vertex" source="Pos" target="Y" code="{ obj.Y = 2 }"
#endif
`

func parseSample(t *testing.T, text string) (*Registry, *diag.Reporter) {
	t.Helper()
	reg := NewRegistry()
	rep := diag.NewReporter(nil, 0)
	if err := Parse(strings.NewReader(text), "event.rules", reg, rep); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return reg, rep
}

func TestParse_Links(t *testing.T) {
	reg, rep := parseSample(t, sample)

	want := []struct {
		pattern string
		option  LinkOption
	}{
		{"Track", LinkAuto},
		{"Vertex", LinkNoStreamer},
		{"event.Hit", LinkNoInput},
		{"Cluster", LinkDefault},
		{"Calo*", LinkAuto},
	}
	links := reg.Links()
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %+v", len(want), len(links), links)
	}
	for i, w := range want {
		if links[i].Pattern != w.pattern || links[i].Option != w.option {
			t.Fatalf("links[%d] = %+v, want %s%s", i, links[i], w.pattern, w.option)
		}
	}
	if links[0].Pos.Line != 7 {
		t.Fatalf("links[0].Pos.Line = %d, want 7", links[0].Pos.Line)
	}
	if rep.Count(diag.SevError) != 0 {
		t.Fatalf("unexpected errors: %v", rep.Items())
	}
	if l, ok := reg.LinkFor("CaloCell"); !ok || l.Pattern != "Calo*" {
		t.Fatalf("LinkFor(CaloCell) = %+v, %v", l, ok)
	}
}

func TestParse_Rules(t *testing.T) {
	reg, _ := parseSample(t, sample)

	read, raw := reg.RulesFor("Track")
	if len(read) != 2 || len(raw) != 0 {
		t.Fatalf("Track rules: %d read, %d raw", len(read), len(raw))
	}
	r := read[1]
	if len(r.Source) != 2 || r.Source[0] != (Member{Type: "float32", Name: "Px"}) {
		t.Fatalf("unexpected source: %+v", r.Source)
	}
	if len(r.Target) != 1 || r.Target[0] != "Pt" {
		t.Fatalf("unexpected target: %v", r.Target)
	}
	if !strings.HasPrefix(r.Code, "{") || !strings.Contains(r.Code, "math.Hypot") {
		t.Fatalf("multi-line code not joined: %q", r.Code)
	}
	want := []wire.VersionRange{{Min: 1, Max: 2}, {Min: 4, Max: math.MaxInt16}}
	if len(r.Versions) != 2 || r.Versions[0] != want[0] || r.Versions[1] != want[1] {
		t.Fatalf("Versions = %+v, want %+v", r.Versions, want)
	}

	_, raw = reg.RulesFor("Vertex")
	if len(raw) != 2 {
		t.Fatalf("expected 2 raw rules for Vertex, got %d", len(raw))
	}
	if raw[0].TargetClass != "Vertex" || !raw[0].Raw || raw[0].Source[0].Name != "Pos" {
		t.Fatalf("unexpected raw rule: %+v", raw[0])
	}
	if len(raw[0].Target) != 2 {
		t.Fatalf("Target = %v, want [X Y]", raw[0].Target)
	}
}

func TestParse_MalformedLinesSkipped(t *testing.T) {
	text := `#pragma link C++ class Track+
#pragma link C++ widget Foo;
#pragma link C++ class ;
#pragma read sourceClass="Track" version="[3-1]" source="int32 N" target="M"
#pragma read targetClass="Track" source="int32 N"
#pragma read sourceClass="Track" source="N" target="M"
#pragma read sourceClass="Track" colour="red"
#pragma read sourceClass="Track" source="int32 N" target="M" code="obj.M = 1"
#pragma read sourceClass="Track" source="int32 N" code="{ obj.M = 1 }"
#pragma link C++ class Kept;
#pragma read sourceClass="Track" code="{ unterminated
`
	reg, rep := parseSample(t, text)

	if got := len(reg.Links()); got != 1 || reg.Links()[0].Pattern != "Kept" {
		t.Fatalf("expected only the Kept link, got %+v", reg.Links())
	}
	if got := len(reg.Rules()); got != 0 {
		t.Fatalf("expected no rules, got %+v", reg.Rules())
	}
	if got := len(rep.ByCode(diag.RuleSyntax)); got != 9 {
		t.Fatalf("syntax diagnostics = %d, want 9: %v", got, rep.Items())
	}
	if got := len(rep.ByCode(diag.RuleBadVersion)); got != 1 {
		t.Fatalf("version diagnostics = %d, want 1", got)
	}
	if rep.Failed() {
		t.Fatal("malformed rules must not fail the run")
	}
}

func TestParseVersions(t *testing.T) {
	tests := []struct {
		spec    string
		want    []wire.VersionRange
		wantErr bool
	}{
		{spec: "[3]", want: []wire.VersionRange{{Min: 3, Max: 3}}},
		{spec: "[1-4]", want: []wire.VersionRange{{Min: 1, Max: 4}}},
		{spec: "[-4]", want: []wire.VersionRange{{Min: 1, Max: 4}}},
		{spec: "[5-]", want: []wire.VersionRange{{Min: 5, Max: math.MaxInt16}}},
		{spec: " [1, 3-4] ", want: []wire.VersionRange{{Min: 1, Max: 1}, {Min: 3, Max: 4}}},
		{spec: "3", wantErr: true},
		{spec: "[]", wantErr: true},
		{spec: "[-]", wantErr: true},
		{spec: "[4-2]", wantErr: true},
		{spec: "[a]", wantErr: true},
		{spec: "[1,]", wantErr: true},
		{spec: "[99999]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseVersions(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersions(%q) expected error, got %+v", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersions(%q) error = %v", tt.spec, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseVersions(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ParseVersions(%q)[%d] = %+v, want %+v", tt.spec, i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := FormatVersions([]wire.VersionRange{{Min: 1, Max: 2}, {Min: 4, Max: 4}, {Min: 6, Max: math.MaxInt16}}); got != "[-2,4,6-]" {
		t.Fatalf("FormatVersions() = %q", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"Track", "Track", true},
		{"Track", "Tracks", false},
		{"*", "Anything", true},
		{"Calo*", "CaloCell", true},
		{"*Cell", "CaloCell", true},
		{"C*o*l", "CaloCell", true},
		{"C*x*l", "CaloCell", false},
		{"ab*b", "ab", false},
	}
	for _, tt := range tests {
		if got := Match(tt.pattern, tt.name); got != tt.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestRegistry_Freeze(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	if err := reg.AddLink(Link{Pattern: "A"}); !errors.Is(err, ErrFrozen) {
		t.Fatalf("AddLink() error = %v, want ErrFrozen", err)
	}
	err := Parse(strings.NewReader("#pragma link C++ class A;\n"), "x.rules", reg, nil)
	if !errors.Is(err, ErrFrozen) {
		t.Fatalf("Parse() error = %v, want ErrFrozen", err)
	}
}

func trackClass(t *testing.T) *classify.ClassDescriptor {
	t.Helper()
	c, err := classify.New(0, false)
	if err != nil {
		t.Fatalf("classify.New() error = %v", err)
	}
	cd, err := c.BuildClass(&ti.ClassDecl{
		Name:    "Track",
		PkgPath: "example.com/event",
		PkgName: "event",
		Version: 3,
		Fields: []ti.FieldDecl{
			{Name: "Px", Type: ti.Basic(ti.Float32), Transient: true},
			{Name: "Py", Type: ti.Basic(ti.Float32), Transient: true},
			{Name: "Pt", Type: ti.Basic(ti.Float32)},
		},
	}, classify.Options{}, nil)
	if err != nil {
		t.Fatalf("BuildClass() error = %v", err)
	}
	return cd
}

func TestCheck_DropsStaleRules(t *testing.T) {
	text := `#pragma read sourceClass="Track" version="[1-2]" source="float32 Px; float32 Py" target="Pt" code="{ obj.Pt = onfile.Px + onfile.Py }"
#pragma read sourceClass="event.Track" version="[1]" source="float32 Eta" target="Pt" code="{ obj.Pt = onfile.Eta }"
#pragma read sourceClass="example.com/event.Track" source="float32 Px" target="Theta"
#pragma read raw sourceClass="Track" source="Px" target="Pt" code="{ obj.Pt = 0 }"
#pragma read sourceClass="Vertex" source="float32 X" target="Y"
`
	reg, rep := parseSample(t, text)
	reg.Freeze()
	cd := trackClass(t)

	got := reg.Check(cd, rep)
	if len(got.Read) != 1 || len(got.Raw) != 1 || got.Len() != 2 {
		t.Fatalf("Check() kept %d read and %d raw rules, want 1 and 1", len(got.Read), len(got.Raw))
	}
	dropped := rep.ByCode(diag.RuleDropped)
	if len(dropped) != 2 {
		t.Fatalf("dropped diagnostics = %d, want 2", len(dropped))
	}
	if !strings.Contains(dropped[0].Notes[0], "Eta") && !strings.Contains(dropped[1].Notes[0], "Eta") {
		t.Fatalf("expected a note naming Eta: %+v", dropped)
	}
	if rep.Failed() {
		t.Fatal("dropped rules must not fail the run")
	}

	reg.CheckTargets([]*classify.ClassDescriptor{cd}, rep)
	if got := len(rep.ByCode(diag.RuleUnknownClass)); got != 1 {
		t.Fatalf("unknown class diagnostics = %d, want 1", got)
	}
}
