package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/seitarof/gen-dict/internal/diag"
	"github.com/seitarof/gen-dict/internal/generator"
	"github.com/seitarof/gen-dict/internal/genctx"
	"github.com/seitarof/gen-dict/internal/matcher"
	"github.com/seitarof/gen-dict/internal/parser"
	"github.com/seitarof/gen-dict/internal/rules"
	"github.com/seitarof/gen-dict/internal/synth"
)

// ErrStructural is returned when at least one selected class could not be
// generated. The output file still holds every class that could.
var ErrStructural = errors.New("structural errors")

// Runner orchestrates parser/matcher/planner/generator layers.
type Runner interface {
	Run(cfg *Config) error
}

type runnerImpl struct {
	parser    parser.Parser
	matcher   matcher.ClassMatcher
	generator generator.Generator
	diagOut   io.Writer
}

// NewRunner creates a default runner implementation. Diagnostics are
// printed to diagOut; nil only counts them.
func NewRunner(
	p parser.Parser,
	m matcher.ClassMatcher,
	g generator.Generator,
	diagOut io.Writer,
) Runner {
	return &runnerImpl{
		parser:    p,
		matcher:   m,
		generator: g,
		diagOut:   diagOut,
	}
}

// Run executes a single generation cycle.
func (r *runnerImpl) Run(cfg *Config) error {
	rep := diag.NewReporter(r.diagOut, cfg.Verbosity)

	reg := rules.NewRegistry()
	for _, path := range cfg.RulesFiles {
		if err := rules.ParseFile(path, reg, rep); err != nil {
			return fmt.Errorf("read rules: %w", err)
		}
	}

	res, err := r.parser.Parse(cfg.Patterns, cfg.Output)
	if err != nil {
		return fmt.Errorf("parse packages: %w", err)
	}
	if res.OutputPkgPath == "" {
		return fmt.Errorf("output %s: directory is outside the module of %s", cfg.Output, strings.Join(cfg.Patterns, " "))
	}
	cfg.SetOutputPackage(res.OutputPkgPath, res.OutputPkgName)

	decls := r.matcher.Select(res.Decls, reg, rep)
	if len(decls) == 0 {
		return fmt.Errorf("no classes selected in %s", strings.Join(cfg.Patterns, " "))
	}

	ctx, err := genctx.New(reg, rep, genctx.Options{
		LongNames:     cfg.LongNames,
		OutputPkgPath: res.OutputPkgPath,
		OutputPkgName: res.OutputPkgName,
	})
	if err != nil {
		return err
	}
	plans := ctx.Plan(decls)
	if len(plans) > 0 {
		if err := r.generator.Generate(cfg, plans); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
	}
	if name := cfg.LibListFilename(); name != "" {
		if err := writeLibList(name, plans, res.OutputPkgPath); err != nil {
			return err
		}
	}

	if cfg.Verbosity >= 3 || rep.Failed() {
		log.Printf("gen-dict: %s: %d class(es) generated, %s", cfg.Output, len(plans), rep.Summary())
	}
	if rep.Failed() {
		return fmt.Errorf("%d class(es) not generated: %w", rep.StructuralCount(), ErrStructural)
	}
	return nil
}

// writeLibList records the generated classes and the packages they depend
// on, one per line.
func writeLibList(name string, plans []*synth.ClassPlan, outPkgPath string) error {
	var sb strings.Builder
	for _, p := range plans {
		sb.WriteString("class ")
		sb.WriteString(p.Class.Name)
		sb.WriteByte('\n')
	}
	for _, pkg := range generator.Dependencies(plans, outPkgPath) {
		sb.WriteString("package ")
		sb.WriteString(pkg)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(name, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write library list: %w", err)
	}
	return nil
}
