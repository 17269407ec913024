package resolver

import (
	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/ir"
)

// Resolver selects the codec of every field of a class.
type Resolver interface {
	Resolve(class *classify.ClassDescriptor, classes []*classify.ClassDescriptor) []FieldPlan
}

// Rule tries to select a codec for one field or container element.
type Rule interface {
	Name() string
	Try(f Field) (ir.Codec, bool)
}

// Field is what a rule sees: the field, and the class declaring it. Class
// is nil when the rule is asked about a container or array element.
type Field struct {
	Class    *classify.ClassDescriptor
	Position int
	Desc     classify.FieldDescriptor
}

// Element reports whether f stands for a container or array element.
func (f Field) Element() bool { return f.Class == nil }

type resolverImpl struct {
	rules     []Rule
	reporter  *diag.Reporter
	nestedSet NestedSet
}

// New builds a resolver with the given rule chain. Diagnostics for fields
// that cannot be planned go to rep.
func New(rep *diag.Reporter, rules ...Rule) Resolver {
	r := &resolverImpl{rules: rules, reporter: rep}
	for _, rule := range rules {
		if aware, ok := rule.(ElementAware); ok {
			aware.SetElementResolver(r.element)
		}
	}
	return r
}

func (r *resolverImpl) Resolve(
	class *classify.ClassDescriptor,
	classes []*classify.ClassDescriptor,
) []FieldPlan {
	r.nestedSet = buildNestedSet(r.nestedSet, classes)
	for _, rule := range r.rules {
		if aware, ok := rule.(NestedAware); ok {
			aware.SetNestedSet(r.nestedSet)
		}
	}

	plans := make([]FieldPlan, 0, len(class.Fields))
	for i, fd := range class.Fields {
		plan := r.resolveOne(Field{Class: class, Position: i, Desc: fd})
		r.report(class, plan)
		plans = append(plans, plan)
	}
	return plans
}

func (r *resolverImpl) resolveOne(f Field) FieldPlan {
	for _, rule := range r.rules {
		if codec, ok := rule.Try(f); ok {
			return FieldPlan{Field: f.Desc, Codec: codec, Rule: rule.Name()}
		}
	}
	return FieldPlan{
		Field: f.Desc,
		Codec: ir.Placeholder{Code: diag.CodecUnsupported, Reason: "no codec for " + f.Desc.Shape.String()},
		Rule:  "none",
	}
}

// element plans a container or array element through the same chain as a
// field.
func (r *resolverImpl) element(s *classify.Shape) ir.Codec {
	return r.resolveOne(Field{Desc: classify.FieldDescriptor{Shape: s, TypeName: TypeName(s)}}).Codec
}

func (r *resolverImpl) report(class *classify.ClassDescriptor, plan FieldPlan) {
	switch c := plan.Codec.(type) {
	case ir.Placeholder:
		r.reporter.Report(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     c.Code,
			Class:    class.Name,
			Field:    plan.Field.Name,
			Pos:      plan.Field.Pos,
			Message:  c.Reason + "; a placeholder is generated instead",
		})
	case ir.TypeErased:
		r.reporter.Report(diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.CodecTypeErased,
			Class:    class.Name,
			Field:    plan.Field.Name,
			Pos:      plan.Field.Pos,
			Message:  "no streamer visible for " + c.Class + "; resolved by name when streamed",
		})
	}
}

func buildNestedSet(reuse NestedSet, classes []*classify.ClassDescriptor) NestedSet {
	if reuse == nil {
		reuse = make(NestedSet, len(classes))
	} else {
		clear(reuse)
	}
	for _, c := range classes {
		reuse[c.Canonical()] = struct{}{}
	}
	return reuse
}
