package matcher

import (
	"fmt"
	"strings"

	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/rules"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// ClassMatcher picks the declarations a run generates code for.
type ClassMatcher interface {
	Select(decls []*typeinfo.ClassDecl, reg *rules.Registry, rep *diag.Reporter) []*typeinfo.ClassDecl
}

type classMatcherImpl struct {
	longNames bool
}

// NewClassMatcher returns default class matcher.
func NewClassMatcher(longNames bool) ClassMatcher {
	return &classMatcherImpl{longNames: longNames}
}

// Select returns the selected declarations in declaration order. Without
// link entries every declaration carrying a version directive is selected.
// With link entries a declaration is selected when an entry names it; a
// wildcard entry only picks versioned declarations. Entries matching
// nothing are reported.
func (m *classMatcherImpl) Select(decls []*typeinfo.ClassDecl, reg *rules.Registry, rep *diag.Reporter) []*typeinfo.ClassDecl {
	seen := make(map[string]bool, len(decls))
	out := make([]*typeinfo.ClassDecl, 0, len(decls))
	add := func(d *typeinfo.ClassDecl) {
		if !seen[d.Canonical()] {
			seen[d.Canonical()] = true
			out = append(out, d)
		}
	}

	if !reg.HasLinks() {
		for _, d := range decls {
			if d.HasVersion {
				add(d)
			}
		}
		return out
	}

	links := reg.Links()
	used := make([]bool, len(links))
	for _, d := range decls {
		names := m.names(d)
		for i, l := range links {
			if !matchAny(l.Pattern, names) {
				continue
			}
			if strings.Contains(l.Pattern, "*") && !d.HasVersion {
				continue
			}
			used[i] = true
			add(d)
		}
	}
	for i, l := range links {
		if used[i] {
			continue
		}
		rep.Report(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.LinkUnmatched,
			Pos:      l.Pos,
			Message:  fmt.Sprintf("link entry %q matches no declaration", l.Pattern),
		})
	}
	return out
}

// names are the spellings a link entry may use for d.
func (m *classMatcherImpl) names(d *typeinfo.ClassDecl) []string {
	return []string{
		typeinfo.ClassName(d.PkgPath, d.PkgName, d.Name, m.longNames),
		d.PkgName + "." + d.Name,
		d.Name,
		d.Canonical(),
	}
}

func matchAny(pattern string, names []string) bool {
	for _, n := range names {
		if rules.Match(pattern, n) {
			return true
		}
	}
	return false
}
