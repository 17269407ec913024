package rules

import (
	"fmt"
	"strings"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
)

// ClassRules are the rules of one class that survived the cross-check.
type ClassRules struct {
	Read []Rule
	Raw  []Rule
}

// Len returns the number of surviving rules.
func (c ClassRules) Len() int { return len(c.Read) + len(c.Raw) }

// Names returns the names a rules file may use for class: the registered
// name, the bare type name and the fully qualified type name.
func Names(class *classify.ClassDescriptor) []string {
	return []string{class.Name, class.TypeName, class.Canonical()}
}

// Check returns the rules targeting class whose source and target members
// are all declared by the class. Transient members count as declared. A
// rule referring to anything else is stale and dropped with a diagnostic.
func (r *Registry) Check(class *classify.ClassDescriptor, rep *diag.Reporter) ClassRules {
	read, raw := r.RulesFor(Names(class)...)
	return ClassRules{
		Read: keepDeclared(class, read, rep),
		Raw:  keepDeclared(class, raw, rep),
	}
}

func keepDeclared(class *classify.ClassDescriptor, rules []Rule, rep *diag.Reporter) []Rule {
	var out []Rule
	for _, rule := range rules {
		var missing []string
		for _, name := range rule.Members() {
			if f, _ := class.Field(name); f == nil {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			out = append(out, rule)
			continue
		}
		rep.Report(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.RuleDropped,
			Class:    class.Name,
			Pos:      rule.Pos,
			Message:  fmt.Sprintf("%s rule from %s dropped", rule.Kind(), rule.SourceClass),
			Notes:    []string{fmt.Sprintf("%s no longer declares %s", class.Name, strings.Join(missing, ", "))},
		})
	}
	return out
}

// CheckTargets reports rules whose target class is not generated in the
// run. Such rules are never emitted.
func (r *Registry) CheckTargets(classes []*classify.ClassDescriptor, rep *diag.Reporter) {
	known := make(map[string]bool, 3*len(classes))
	for _, c := range classes {
		for _, n := range Names(c) {
			known[n] = true
		}
	}
	for _, rule := range r.Rules() {
		if known[rule.TargetClass] {
			continue
		}
		rep.Report(diag.Diagnostic{
			Severity: diag.SevWarning,
			Code:     diag.RuleUnknownClass,
			Pos:      rule.Pos,
			Message:  fmt.Sprintf("%s rule targets %s, which is not generated in this run", rule.Kind(), rule.TargetClass),
		})
	}
}
