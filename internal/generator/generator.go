package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/synth"
	"github.com/seitarof/gen-dict/internal/typeinfo"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// WirePkgPath is the import path of the runtime generated code calls into.
const WirePkgPath = "github.com/seitarof/gen-dict/wire"

// ErrExists is returned by the file writer when the output exists and
// overwriting was not requested.
var ErrExists = errors.New("output file exists")

// Generator generates dictionary code from class plans.
type Generator interface {
	Generate(cfg Config, plans []*synth.ClassPlan) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
	// OutputPackage returns the import path and name of the package the
	// output file belongs to.
	OutputPackage() (path, name string)
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct {
	force bool
}

type fileData struct {
	Package string
	Imports []string
	Classes []*classData

	outPkgPath string
	// foreignStreamers maps the canonical name of classes generated as
	// functions to the function name.
	foreignStreamers map[string]string
}

type classData struct {
	plan *synth.ClassPlan

	Name    string
	Ident   string
	GoType  string
	Local   bool
	Version int16
	Mode    string

	InfoFunc        string
	StreamerFunc    string
	ShowMembersFunc string
	// Streamer is set when a streamer body is generated.
	Streamer  bool
	ReadBody  string
	WriteBody string
	ShowBody  string

	Info   string
	Rules  []ruleFunc
	Shadow *shadowData
}

type shadowData struct {
	Name   string
	Fields []shadowField
}

type shadowField struct {
	Name string
	Type string
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"quote": strconv.Quote,
	}).ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a file writer. Without force an existing file is
// left untouched and ErrExists is returned.
func NewFileWriter(force bool) FileWriter {
	return &fileWriter{force: force}
}

func (g *generatorImpl) Generate(cfg Config, plans []*synth.ClassPlan) error {
	if len(plans) == 0 {
		return fmt.Errorf("no class plans")
	}

	data := buildFileData(cfg, plans)
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "dict.go.tmpl", data); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(cfg.OutputFilename(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(cfg.OutputFilename(), formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	if !w.force {
		if _, err := os.Stat(filename); err == nil {
			return fmt.Errorf("%s: %w (use -f to overwrite)", filename, ErrExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return os.WriteFile(filename, data, 0o644)
}

func buildFileData(cfg Config, plans []*synth.ClassPlan) *fileData {
	pkgPath, pkgName := cfg.OutputPackage()
	if pkgName == "" {
		pkgName = plans[0].Class.PkgName
	}
	data := &fileData{
		Package:          pkgName,
		Imports:          fileImports(plans, pkgPath),
		outPkgPath:       pkgPath,
		foreignStreamers: map[string]string{},
	}

	idents := map[string]int{}
	for _, p := range plans {
		cd := newClassData(p, pkgPath, idents)
		if !cd.Local && cd.Streamer {
			data.foreignStreamers[p.Class.Canonical()] = cd.StreamerFunc
		}
		data.Classes = append(data.Classes, cd)
	}
	for _, cd := range data.Classes {
		cd.render(data)
	}
	return data
}

func newClassData(p *synth.ClassPlan, outPkgPath string, idents map[string]int) *classData {
	c := p.Class
	ident := "dict" + c.TypeName
	if n := idents[ident]; n > 0 {
		idents[ident]++
		ident += strconv.Itoa(n + 1)
	} else {
		idents[ident] = 1
	}

	cd := &classData{
		plan:     p,
		Name:     c.Name,
		Ident:    ident,
		GoType:   c.TypeName,
		Local:    outPkgPath == "" || outPkgPath == c.PkgPath,
		Version:  c.Version,
		Mode:     p.Mode.String(),
		InfoFunc: ident + "Info",
		Streamer: p.HasStreamer(),
	}
	if !cd.Local {
		cd.GoType = c.PkgName + "." + c.TypeName
		cd.StreamerFunc = ident + "Streamer"
		cd.ShowMembersFunc = ident + "ShowMembers"
	}
	if c.NeedsShadow {
		cd.Shadow = newShadow(ident+"Shadow", c)
	}
	return cd
}

// render fills the statement bodies. It runs once every class of the file
// is known so nested calls can find the generated functions.
func (cd *classData) render(file *fileData) {
	p := cd.plan
	if cd.Streamer {
		switch p.Mode {
		case synth.Auto:
			cd.ReadBody = "\t\treturn b.ReadClassBuffer(" + cd.InfoFunc + "(), obj)\n"
			cd.WriteBody = "\treturn b.WriteClassBuffer(" + cd.InfoFunc + "(), obj)\n"
		default:
			e := newEmitter(file, cd)
			e.indent = 2
			cd.ReadBody = cd.withShadow(e, e.readSteps(p), 2)
			e.usesShadow = false
			e.indent = 1
			cd.WriteBody = cd.withShadow(e, e.writeSteps(p), 1)
		}
	}
	e := newEmitter(file, cd)
	cd.ShowBody = cd.withShadow(e, e.showMembers(p), 1)
	cd.Rules = ruleFuncs(cd)
	cd.Info = classInfoLiteral(cd)
}

func (cd *classData) withShadow(e *emitter, body string, indent int) string {
	if !e.usesShadow {
		return body
	}
	return strings.Repeat("\t", indent) + "sh := (*" + cd.Shadow.Name + ")(unsafe.Pointer(obj))\n" + body
}

// newShadow mirrors the layout of c: bases and fields in source order with
// their declared types.
func newShadow(name string, c *classify.ClassDescriptor) *shadowData {
	type member struct {
		field shadowField
		line  int
		col   int
	}
	var ms []member
	for _, b := range c.Bases {
		ms = append(ms, member{shadowField{b.Name, b.TypeName}, b.Pos.Line, b.Pos.Column})
	}
	for _, f := range c.Fields {
		ms = append(ms, member{shadowField{f.Name, f.TypeName}, f.Pos.Line, f.Pos.Column})
	}
	slices.SortStableFunc(ms, func(a, b member) int {
		if a.line != b.line {
			return a.line - b.line
		}
		return a.col - b.col
	})
	sh := &shadowData{Name: name}
	for _, m := range ms {
		sh.Fields = append(sh.Fields, m.field)
	}
	return sh
}

// Dependencies returns the import paths the classes of plans depend on,
// outPkgPath and the runtime excluded.
func Dependencies(plans []*synth.ClassPlan, outPkgPath string) []string {
	set := map[string]struct{}{}
	for _, p := range plans {
		c := p.Class
		set[c.PkgPath] = struct{}{}
		for _, b := range c.Bases {
			set[pkgOf(b.Canonical)] = struct{}{}
		}
		for _, f := range c.Fields {
			if f.Shape != nil {
				collectPkgs(f.Shape.Type, set, 0)
			}
		}
	}
	delete(set, "")
	delete(set, outPkgPath)
	delete(set, WirePkgPath)
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func fileImports(plans []*synth.ClassPlan, outPkgPath string) []string {
	out := append([]string{"reflect", "slices", "sync", "unsafe", WirePkgPath}, Dependencies(plans, outPkgPath)...)
	slices.Sort(out)
	return slices.Compact(out)
}

func collectPkgs(t typeinfo.TypeInfo, set map[string]struct{}, depth int) {
	if t == nil || depth > 16 {
		return
	}
	if p := t.PkgPath(); p != "" {
		set[p] = struct{}{}
	}
	switch t.Kind() {
	case typeinfo.KindPointer, typeinfo.KindArray, typeinfo.KindSlice:
		collectPkgs(t.Elem(), set, depth+1)
	case typeinfo.KindMap:
		collectPkgs(t.Key(), set, depth+1)
		collectPkgs(t.Elem(), set, depth+1)
	case typeinfo.KindTemplate:
		for _, a := range t.TemplateArgs() {
			collectPkgs(a, set, depth+1)
		}
	}
}

func pkgOf(canonical string) string {
	i := strings.LastIndex(canonical, ".")
	if i < 0 || strings.LastIndex(canonical, "/") > i {
		return ""
	}
	return canonical[:i]
}
