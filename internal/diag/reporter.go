package diag

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/fatih/color"
)

// DefaultVerbosity prints warnings and worse.
const DefaultVerbosity = 2

// maxKept bounds the number of diagnostics kept for later inspection.
const maxKept = 4096

var (
	fatalLabel   = color.New(color.FgRed, color.Bold, color.ReverseVideo)
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgCyan)
	noteLabel    = color.New(color.FgBlue)
)

// Reporter receives diagnostics, counts them per severity and prints the
// ones above its verbosity threshold.
//
// Verbosity follows -v0..-v4: 0 prints fatal only, 1 adds errors, 2 adds
// warnings, 3 adds info, 4 also prints notes.
type Reporter struct {
	mu         sync.Mutex
	out        io.Writer
	verbosity  int
	counts     [SevFatal + 1]int
	structural int
	items      []Diagnostic
}

// NewReporter creates a reporter printing to out. A nil out only counts.
func NewReporter(out io.Writer, verbosity int) *Reporter {
	return &Reporter{out: out, verbosity: min(max(verbosity, 0), 4)}
}

// Report records d and prints it when it passes the verbosity threshold.
func (r *Reporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[d.Severity]++
	if len(r.items) < maxKept {
		r.items = append(r.items, d)
	}
	if r.out == nil || !r.visible(d.Severity) {
		return
	}
	fmt.Fprintln(r.out, r.format(d))
	if r.verbosity >= 4 {
		for _, n := range d.Notes {
			fmt.Fprintf(r.out, "  %s %s\n", noteLabel.Sprint("note:"), n)
		}
	}
}

// Structural records an error that makes class unusable. Only structural
// errors and fatal ones affect the exit status of a run.
func (r *Reporter) Structural(code Code, class, msg string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.structural++
	r.mu.Unlock()
	r.Report(Diagnostic{Severity: SevError, Code: code, Class: class, Message: msg})
}

// Infof reports an informational diagnostic.
func (r *Reporter) Infof(code Code, class, field, format string, args ...any) {
	r.Report(Diagnostic{Severity: SevInfo, Code: code, Class: class, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Warnf reports a warning.
func (r *Reporter) Warnf(code Code, class, field, format string, args ...any) {
	r.Report(Diagnostic{Severity: SevWarning, Code: code, Class: class, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Errorf reports a per-field error. It does not affect the exit status.
func (r *Reporter) Errorf(code Code, class, field, format string, args ...any) {
	r.Report(Diagnostic{Severity: SevError, Code: code, Class: class, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Fatalf reports a fatal diagnostic.
func (r *Reporter) Fatalf(code Code, format string, args ...any) {
	r.Report(Diagnostic{Severity: SevFatal, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Count returns how many diagnostics of severity sev were reported.
func (r *Reporter) Count(sev Severity) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[sev]
}

// StructuralCount returns the number of structural errors.
func (r *Reporter) StructuralCount() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.structural
}

// Failed reports whether the run must exit non-zero.
func (r *Reporter) Failed() bool {
	return r.StructuralCount() > 0 || r.Count(SevFatal) > 0
}

// Items returns the kept diagnostics sorted by position, then severity.
func (r *Reporter) Items() []Diagnostic {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	out := append([]Diagnostic(nil), r.items...)
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Pos, out[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}

// ByCode returns the kept diagnostics carrying code.
func (r *Reporter) ByCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Items() {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Summary is the one-line tally printed at the end of a run.
func (r *Reporter) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s), %d structural",
		r.Count(SevError)+r.Count(SevFatal), r.Count(SevWarning), r.StructuralCount())
}

func (r *Reporter) visible(sev Severity) bool {
	return int(SevFatal)-int(sev) <= r.verbosity
}

func (r *Reporter) format(d Diagnostic) string {
	label := infoLabel
	switch d.Severity {
	case SevWarning:
		label = warningLabel
	case SevError:
		label = errorLabel
	case SevFatal:
		label = fatalLabel
	}
	msg := d.Message
	if s := d.Subject(); s != "" {
		msg = s + ": " + msg
	}
	prefix := ""
	if d.Pos.IsValid() {
		prefix = d.Pos.String() + ": "
	}
	return fmt.Sprintf("%s%s %s", prefix, label.Sprintf("%s[%s]:", d.Severity, d.Code.ID()), msg)
}

// ReportStructural records err as a structural error.
func (r *Reporter) ReportStructural(err *StructuralError) {
	r.Structural(err.Code, err.Class, err.Msg)
}
