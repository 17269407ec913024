// Package genctx holds the state of one generation run. A Context is built
// once per run and passed explicitly; nothing here is global.
package genctx

import (
	"errors"
	"fmt"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/resolver"
	"github.com/seitarof/gen-dict/internal/rules"
	"github.com/seitarof/gen-dict/internal/synth"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// Options are the naming and output settings of a run.
type Options struct {
	// LongNames registers classes under their full import path.
	LongNames bool
	// OutputPkgPath and OutputPkgName identify the package of the
	// generated file.
	OutputPkgPath string
	OutputPkgName string
	// CacheSize bounds the shape cache; zero selects the default.
	CacheSize int
}

// Context is the explicit per-run value every stage reads from.
type Context struct {
	Options

	Rules      *rules.Registry
	Reporter   *diag.Reporter
	Classifier *classify.Classifier
	Resolver   resolver.Resolver
	Synth      *synth.Synthesizer
}

// New builds a context. reg is frozen; it may be nil when the run has no
// rules file.
func New(reg *rules.Registry, rep *diag.Reporter, opts Options) (*Context, error) {
	if reg == nil {
		reg = rules.NewRegistry()
	}
	reg.Freeze()
	cls, err := classify.New(opts.CacheSize, opts.LongNames)
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	res := resolver.New(rep, resolver.DefaultRules()...)
	return &Context{
		Options:    opts,
		Rules:      reg,
		Reporter:   rep,
		Classifier: cls,
		Resolver:   res,
		Synth:      synth.New(res, reg, rep),
	}, nil
}

// Plan classifies and plans every selected declaration. Classes failing a
// structural precondition are reported and left out before anything else is
// planned, so no surviving class treats them as streamable; the rest are
// planned in declaration order.
func (c *Context) Plan(decls []*typeinfo.ClassDecl) []*synth.ClassPlan {
	live := c.admit(decls)

	selected := make(map[string]bool, len(live))
	for _, d := range live {
		selected[d.Canonical()] = true
	}
	opts := classify.Options{OutputPkgPath: c.OutputPkgPath, Selected: selected}

	classes := make([]*classify.ClassDescriptor, 0, len(live))
	for _, d := range live {
		cd, err := c.Classifier.BuildClass(d, opts, c.Reporter)
		if err != nil {
			c.structural(d.Name, err)
			continue
		}
		if cd.NeedsShadow {
			c.Reporter.Infof(diag.ClassShadow, cd.Name, "", "unexported members are accessed through a layout-compatible view")
		}
		classes = append(classes, cd)
	}
	c.Rules.CheckTargets(classes, c.Reporter)

	plans := make([]*synth.ClassPlan, 0, len(classes))
	for _, cd := range classes {
		plan, err := c.Synth.Plan(cd, classes)
		if err != nil {
			c.structural(cd.Name, err)
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

// admit runs the structural preconditions of every declaration and returns
// the ones that pass. Failures are reported here, once.
func (c *Context) admit(decls []*typeinfo.ClassDecl) []*typeinfo.ClassDecl {
	quiet := diag.NewReporter(nil, 0)
	opts := classify.Options{OutputPkgPath: c.OutputPkgPath}

	live := make([]*typeinfo.ClassDecl, 0, len(decls))
	for _, d := range decls {
		cd, err := c.Classifier.BuildClass(d, opts, quiet)
		if err == nil {
			err = c.Synth.Check(cd)
		}
		if err != nil {
			c.structural(d.Name, err)
			continue
		}
		live = append(live, d)
	}
	return live
}

func (c *Context) structural(class string, err error) {
	var serr *diag.StructuralError
	if errors.As(err, &serr) {
		c.Reporter.ReportStructural(serr)
		return
	}
	c.Reporter.Structural(diag.ClassInfo, class, err.Error())
}
