// Package synth plans the streamer of each class: its mode and the ordered
// read and write steps the backend renders.
package synth

import (
	"fmt"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/resolver"
	"github.com/seitarof/gen-dict/internal/rules"
)

// Mode is how the streamer of a class is produced.
type Mode uint8

const (
	// Unrolled streams every base and field with generated statements.
	Unrolled Mode = iota
	// Auto defers to the runtime's layout-driven class buffer.
	Auto
	// Dummy forwards to the serializable bases only.
	Dummy
	// Custom leaves streaming to a method the class already has.
	Custom
)

var modeNames = [...]string{
	Unrolled: "unrolled",
	Auto:     "auto",
	Dummy:    "dummy",
	Custom:   "custom",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// StepKind is one stage of a streamer.
type StepKind uint8

const (
	StepStart StepKind = iota
	StepReadVersion
	StepWriteVersion
	StepBase
	StepReadRawRules
	StepField
	StepReadRules
	StepCheckByteCount
	StepSetByteCount
	StepEnd
)

var stepNames = [...]string{
	StepStart:          "Start",
	StepReadVersion:    "ReadVersionHeader",
	StepWriteVersion:   "WriteVersionHeader",
	StepBase:           "PerBase",
	StepReadRawRules:   "ReadRawRules",
	StepField:          "PerField",
	StepReadRules:      "ReadRules",
	StepCheckByteCount: "CheckByteCount",
	StepSetByteCount:   "SetByteCount",
	StepEnd:            "End",
}

func (k StepKind) String() string {
	if int(k) < len(stepNames) {
		return stepNames[k]
	}
	return fmt.Sprintf("StepKind(%d)", k)
}

// Step is one stage of a streamer. Base or Field is set for PerBase and
// PerField steps.
type Step struct {
	Kind  StepKind
	Base  *classify.BaseDescriptor
	Field *resolver.FieldPlan
}

func (s Step) String() string {
	switch {
	case s.Base != nil:
		return s.Kind.String() + "(" + s.Base.Name + ")"
	case s.Field != nil:
		return s.Kind.String() + "(" + s.Field.Field.Name + ")"
	}
	return s.Kind.String()
}

// ClassPlan is everything the backend needs to emit one class.
type ClassPlan struct {
	Class *classify.ClassDescriptor
	Mode  Mode
	// Bases are the serializable bases in declaration order.
	Bases []classify.BaseDescriptor
	// Fields holds a plan for every field, streamed or not.
	Fields []resolver.FieldPlan
	Rules  rules.ClassRules
	Read   []Step
	Write  []Step
}

// Streamed returns the plans of the fields that go on the wire.
func (p *ClassPlan) Streamed() []resolver.FieldPlan {
	var out []resolver.FieldPlan
	for _, f := range p.Fields {
		if f.Streamed() {
			out = append(out, f)
		}
	}
	return out
}

// HasStreamer reports whether a Streamer method is generated.
func (p *ClassPlan) HasStreamer() bool { return p.Mode != Custom }

// Synthesizer builds class plans.
type Synthesizer struct {
	resolver resolver.Resolver
	rules    *rules.Registry
	reporter *diag.Reporter
}

// New creates a synthesizer. reg may be nil when no rules file was given.
func New(res resolver.Resolver, reg *rules.Registry, rep *diag.Reporter) *Synthesizer {
	if reg == nil {
		reg = rules.NewRegistry()
	}
	return &Synthesizer{resolver: res, rules: reg, reporter: rep}
}

// Plan builds the plan of class. classes is every class generated in the
// run. A *diag.StructuralError is returned when the class cannot be
// generated.
func (s *Synthesizer) Plan(class *classify.ClassDescriptor, classes []*classify.ClassDescriptor) (*ClassPlan, error) {
	link, _ := s.rules.LinkFor(rules.Names(class)...)
	mode, err := s.mode(class, link)
	if err != nil {
		return nil, err
	}

	plan := &ClassPlan{
		Class:  class,
		Mode:   mode,
		Fields: s.resolver.Resolve(class, s.streamable(classes)),
	}
	for _, b := range class.Bases {
		if b.Serializable {
			plan.Bases = append(plan.Bases, b)
		}
	}
	if mode != Dummy {
		plan.Rules = s.rules.Check(class, s.reporter)
	}

	switch mode {
	case Unrolled:
		plan.Read = readSteps(plan)
		plan.Write = writeSteps(plan)
	case Dummy:
		plan.Read = dummySteps(plan, StepReadVersion)
		plan.Write = dummySteps(plan, StepWriteVersion)
		if len(plan.Bases) == 0 {
			s.reporter.Warnf(diag.ClassDummyVersion, class.Name, "",
				"version %d with no serializable base: streaming always fails", class.Version)
		}
	}
	return plan, nil
}

func (s *Synthesizer) mode(class *classify.ClassDescriptor, link rules.Link) (Mode, error) {
	switch {
	case class.CustomStreamer:
		return Custom, nil
	case link.Option == rules.LinkNoStreamer:
		s.reporter.Infof(diag.ClassInfo, class.Name, "", "linked with '-': no streamer generated")
		return Custom, nil
	case !class.Versioned:
		return Unrolled, errNoVersion(class)
	case class.Version <= 0:
		s.reporter.Infof(diag.ClassDummyVersion, class.Name, "", "version %d: only bases are streamed", class.Version)
		return Dummy, nil
	case link.Option == rules.LinkAuto:
		return Auto, nil
	}
	return Unrolled, nil
}

// Check returns the structural error Plan would return for class, without
// reporting anything.
func (s *Synthesizer) Check(class *classify.ClassDescriptor) error {
	if class.Versioned || class.CustomStreamer {
		return nil
	}
	if link, ok := s.rules.LinkFor(rules.Names(class)...); ok && link.Option == rules.LinkNoStreamer {
		return nil
	}
	return errNoVersion(class)
}

func errNoVersion(class *classify.ClassDescriptor) error {
	return &diag.StructuralError{
		Class: class.Name,
		Code:  diag.ClassNoVersion,
		Msg:   "selected for streaming but declares no //dict:version directive",
	}
}

// streamable keeps the classes that will have a Streamer method once the
// output compiles: classes linked with '-' only do if they declare one.
func (s *Synthesizer) streamable(classes []*classify.ClassDescriptor) []*classify.ClassDescriptor {
	out := make([]*classify.ClassDescriptor, 0, len(classes))
	for _, c := range classes {
		if !c.CustomStreamer {
			if l, ok := s.rules.LinkFor(rules.Names(c)...); ok && l.Option == rules.LinkNoStreamer {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func readSteps(p *ClassPlan) []Step {
	steps := []Step{{Kind: StepStart}, {Kind: StepReadVersion}}
	steps = appendBases(steps, p)
	if len(p.Rules.Raw) > 0 {
		steps = append(steps, Step{Kind: StepReadRawRules})
	}
	steps = appendFields(steps, p)
	if len(p.Rules.Read) > 0 {
		steps = append(steps, Step{Kind: StepReadRules})
	}
	return append(steps, Step{Kind: StepCheckByteCount}, Step{Kind: StepEnd})
}

func writeSteps(p *ClassPlan) []Step {
	steps := []Step{{Kind: StepStart}, {Kind: StepWriteVersion}}
	steps = appendBases(steps, p)
	steps = appendFields(steps, p)
	return append(steps, Step{Kind: StepSetByteCount}, Step{Kind: StepEnd})
}

func dummySteps(p *ClassPlan, header StepKind) []Step {
	if len(p.Bases) == 0 {
		return []Step{{Kind: StepStart}, {Kind: StepEnd}}
	}
	steps := []Step{{Kind: StepStart}, {Kind: header}}
	steps = appendBases(steps, p)
	return append(steps, Step{Kind: StepEnd})
}

func appendBases(steps []Step, p *ClassPlan) []Step {
	for i := range p.Bases {
		steps = append(steps, Step{Kind: StepBase, Base: &p.Bases[i]})
	}
	return steps
}

func appendFields(steps []Step, p *ClassPlan) []Step {
	for i := range p.Fields {
		steps = append(steps, Step{Kind: StepField, Field: &p.Fields[i]})
	}
	return steps
}
