// Package diag collects the diagnostics of one generation run.
package diag

import (
	"fmt"
	"go/token"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	}
	return "unknown"
}

// Diagnostic is one message about a class, or a field of one.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Class    string
	Field    string
	Pos      token.Position
	Message  string
	Notes    []string
}

// Subject renders the class/field the diagnostic is about.
func (d Diagnostic) Subject() string {
	switch {
	case d.Class == "":
		return d.Field
	case d.Field == "":
		return d.Class
	}
	return d.Class + "." + d.Field
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s[%s]: ", d.Severity, d.Code.ID())
	if s := d.Subject(); s != "" {
		b.WriteString(s)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// WithNote returns a copy of d with msg appended to its notes.
func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(append([]string(nil), d.Notes...), msg)
	return d
}

// StructuralError reports a class that cannot be generated at all. Sibling
// classes are still generated; the run exits non-zero.
type StructuralError struct {
	Class string
	Code  Code
	Msg   string
}

func (e *StructuralError) Error() string {
	return e.Class + ": " + e.Msg
}
