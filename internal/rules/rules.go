// Package rules holds the link selections and schema-evolution rules of one
// run, as read from rules files.
package rules

import (
	"errors"
	"go/token"
	"strings"

	"github.com/seitarof/gen-dict/wire"
)

// LinkOption is the suffix of a link entry.
type LinkOption uint8

const (
	// LinkDefault has no suffix: an unrolled streamer is generated.
	LinkDefault LinkOption = iota
	// LinkAuto ("+") defers streaming to the runtime member layout.
	LinkAuto
	// LinkNoStreamer ("-") generates metadata only; the class streams
	// itself.
	LinkNoStreamer
	// LinkNoInput ("!") is accepted for compatibility and has no effect on
	// Go output.
	LinkNoInput
)

func (o LinkOption) String() string {
	switch o {
	case LinkAuto:
		return "+"
	case LinkNoStreamer:
		return "-"
	case LinkNoInput:
		return "!"
	}
	return ""
}

// Link is one `#pragma link C++ class` entry.
type Link struct {
	// Pattern is a class name, possibly with * wildcards.
	Pattern string
	Option  LinkOption
	Pos     token.Position
}

// Member is a member a rule reads, with its on-file Go type.
type Member struct {
	Type string
	Name string
}

// Rule is one `#pragma read` or `#pragma read raw` entry.
type Rule struct {
	Raw         bool
	SourceClass string
	TargetClass string
	Source      []Member
	Target      []string
	// Versions is empty when the rule applies to every on-file version.
	Versions []wire.VersionRange
	// Code is a Go block run with the on-file values and the live object
	// in scope. Empty for rules that only document a rename.
	Code string
	// Spec is the version attribute as written.
	Spec string
	Pos  token.Position
}

// Kind returns "read" or "read raw".
func (r *Rule) Kind() string {
	if r.Raw {
		return "read raw"
	}
	return "read"
}

// Members returns every member name the rule refers to, sources first.
func (r *Rule) Members() []string {
	out := make([]string, 0, len(r.Source)+len(r.Target))
	for _, m := range r.Source {
		out = append(out, m.Name)
	}
	return append(out, r.Target...)
}

// ErrFrozen is returned when entries are added after Freeze.
var ErrFrozen = errors.New("rules: registry is frozen")

// Registry is populated from rules files before generation begins and is
// read-only once frozen.
type Registry struct {
	links  []Link
	rules  []Rule
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddLink records a link entry.
func (r *Registry) AddLink(l Link) error {
	if r.frozen {
		return ErrFrozen
	}
	r.links = append(r.links, l)
	return nil
}

// AddRule records a schema-evolution rule.
func (r *Registry) AddRule(rule Rule) error {
	if r.frozen {
		return ErrFrozen
	}
	r.rules = append(r.rules, rule)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool { return r.frozen }

// Links returns the link entries in file order.
func (r *Registry) Links() []Link {
	if r == nil {
		return nil
	}
	return r.links
}

// HasLinks reports whether any link entry was read. Without links every
// versioned class is selected.
func (r *Registry) HasLinks() bool { return r != nil && len(r.links) > 0 }

// Rules returns every rule in file order.
func (r *Registry) Rules() []Rule {
	if r == nil {
		return nil
	}
	return r.rules
}

// LinkFor returns the last link entry selecting a class named by any of
// names. Later entries override earlier ones.
func (r *Registry) LinkFor(names ...string) (Link, bool) {
	if r == nil {
		return Link{}, false
	}
	for i := len(r.links) - 1; i >= 0; i-- {
		for _, n := range names {
			if Match(r.links[i].Pattern, n) {
				return r.links[i], true
			}
		}
	}
	return Link{}, false
}

// RulesFor returns the read and read-raw rules whose target class is named
// by any of names.
func (r *Registry) RulesFor(names ...string) (read, raw []Rule) {
	if r == nil {
		return nil, nil
	}
	for _, rule := range r.rules {
		for _, n := range names {
			if rule.TargetClass != n {
				continue
			}
			if rule.Raw {
				raw = append(raw, rule)
			} else {
				read = append(read, rule)
			}
			break
		}
	}
	return read, raw
}

// Match reports whether name matches pattern, where * matches any run of
// characters.
func Match(pattern, name string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == name
	}
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, p := range parts[1 : len(parts)-1] {
		i := strings.Index(name, p)
		if i < 0 {
			return false
		}
		name = name[i+len(p):]
	}
	return strings.HasSuffix(name, last)
}
