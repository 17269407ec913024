package diag

import (
	"bytes"
	"go/token"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestReporter_CountsAndVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		wantLines int
	}{
		{verbosity: 0, wantLines: 1},
		{verbosity: 1, wantLines: 2},
		{verbosity: 2, wantLines: 3},
		{verbosity: 3, wantLines: 4},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		r := NewReporter(&out, tt.verbosity)
		r.Infof(CodecInfo, "P", "n", "scalar")
		r.Warnf(LinkUnmatched, "", "", "nothing matches %q", "Q*")
		r.Errorf(CodecNoIndex, "P", "xs", "no index")
		r.Fatalf(IOLoad, "cannot load")

		lines := strings.Count(out.String(), "\n")
		if lines != tt.wantLines {
			t.Fatalf("verbosity %d printed %d lines, want %d:\n%s", tt.verbosity, lines, tt.wantLines, out.String())
		}
		// counting does not depend on what is printed
		if r.Count(SevInfo) != 1 || r.Count(SevWarning) != 1 || r.Count(SevError) != 1 || r.Count(SevFatal) != 1 {
			t.Fatalf("unexpected counts at verbosity %d", tt.verbosity)
		}
	}
}

func TestReporter_FieldErrorsDoNotFail(t *testing.T) {
	r := NewReporter(nil, DefaultVerbosity)
	r.Errorf(CodecNoIndex, "P", "xs", "no index")
	if r.Failed() {
		t.Fatal("per-field error should not fail the run")
	}
	r.Structural(ClassNoVersion, "Q", "no version directive")
	if !r.Failed() {
		t.Fatal("structural error should fail the run")
	}
	if r.StructuralCount() != 1 {
		t.Fatalf("StructuralCount() = %d, want 1", r.StructuralCount())
	}
	if r.Count(SevError) != 2 {
		t.Fatalf("Count(SevError) = %d, want 2", r.Count(SevError))
	}
}

func TestReporter_FormatEmbedsSubject(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, 4)
	r.Report(Diagnostic{
		Severity: SevWarning,
		Code:     RuleDropped,
		Class:    "event.Track",
		Pos:      token.Position{Filename: "track.rules", Line: 3, Column: 1},
		Message:  "rule dropped",
	}.WithNote("source member px is not declared"))

	got := out.String()
	for _, want := range []string{"track.rules:3:1: ", "warning[D4002]:", "event.Track: rule dropped", "note: source member px"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q does not contain %q", got, want)
		}
	}
}

func TestReporter_ItemsSortedAndFiltered(t *testing.T) {
	r := NewReporter(nil, 0)
	r.Report(Diagnostic{Severity: SevInfo, Code: RuleInfo, Pos: token.Position{Filename: "b", Line: 1}})
	r.Report(Diagnostic{Severity: SevError, Code: RuleSyntax, Pos: token.Position{Filename: "a", Line: 2}})
	r.Report(Diagnostic{Severity: SevWarning, Code: RuleSyntax, Pos: token.Position{Filename: "a", Line: 1}})

	items := r.Items()
	if items[0].Pos.Filename != "a" || items[0].Pos.Line != 1 || items[2].Pos.Filename != "b" {
		t.Fatalf("unexpected order: %+v", items)
	}
	if n := len(r.ByCode(RuleSyntax)); n != 2 {
		t.Fatalf("ByCode() = %d items, want 2", n)
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Severity: SevError, Code: CodecNoIndex, Class: "P", Field: "xs", Message: "needs an index"}
	if got, want := d.String(), "error[D2002]: P.xs: needs an index"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if CodecNoIndex.String() != "pointer without size index" {
		t.Fatalf("unexpected code name %q", CodecNoIndex.String())
	}
}

func TestReporter_NilIsSafe(t *testing.T) {
	var r *Reporter
	r.Report(Diagnostic{})
	r.Structural(ClassNoVersion, "X", "m")
	if r.Failed() || r.Items() != nil {
		t.Fatal("nil reporter should be inert")
	}
}
