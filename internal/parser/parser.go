package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-dict/internal/typeinfo"
)

// WirePkgPath is the import path of the runtime package whose container
// and Double32 types the frontend recognizes.
const WirePkgPath = "github.com/seitarof/gen-dict/wire"

// Parser extracts class declarations from Go packages.
type Parser interface {
	// Parse loads patterns and returns every struct declared in them. The
	// file at output, if it exists, is read as an empty file so a stale
	// dictionary never feeds back into the result.
	Parse(patterns []string, output string) (*Result, error)
}

// Result is what one Parse call found.
type Result struct {
	Decls []*typeinfo.ClassDecl
	// OutputPkgPath and OutputPkgName identify the package of the output
	// file.
	OutputPkgPath string
	OutputPkgName string
}

type parserImpl struct {
	dir string
}

// New returns default parser. Patterns are resolved relative to dir; an
// empty dir means the working directory.
func New(dir string) Parser {
	return &parserImpl{dir: dir}
}

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

func (p *parserImpl) Parse(patterns []string, output string) (*Result, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no package patterns")
	}
	outAbs, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("output path: %w", err)
	}

	cfg := &packages.Config{Mode: loadMode, Dir: p.dir, Overlay: blankOverlay(outAbs)}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages match %v", patterns)
	}

	res := &Result{}
	res.OutputPkgPath, res.OutputPkgName = p.outputPackage(filepath.Dir(outAbs), pkgs)

	ld := newLoader(res.OutputPkgPath)
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			for _, e := range pkg.Errors {
				log.Printf("gen-dict: warning: %s: %v", pkg.PkgPath, e)
			}
		}
		if pkg.Types == nil || pkg.TypesInfo == nil {
			return nil, fmt.Errorf("type info unavailable for package %q", pkg.PkgPath)
		}
		res.Decls = append(res.Decls, ld.packageDecls(pkg)...)
	}
	return res, nil
}

// blankOverlay replaces an existing output file with its bare package
// clause.
func blankOverlay(path string) map[string][]byte {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil || f.Name == nil {
		return nil
	}
	return map[string][]byte{path: []byte("package " + f.Name.Name + "\n")}
}

// outputPackage finds the package living in dir: one of pkgs, else the
// result of loading dir on its own.
func (p *parserImpl) outputPackage(dir string, pkgs []*packages.Package) (string, string) {
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			if filepath.Dir(f) == dir {
				return pkg.PkgPath, pkg.Name
			}
		}
	}
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedModule, Dir: dir}
	if found, err := packages.Load(cfg, "."); err == nil && len(found) == 1 {
		pkg := found[0]
		if pkg.Name != "" {
			return pkg.PkgPath, pkg.Name
		}
		if pkg.PkgPath != "" && pkg.PkgPath != "." {
			return pkg.PkgPath, filepath.Base(dir)
		}
	}
	// a fresh directory inside the module of the first package
	if m := pkgs[0].Module; m != nil && m.Dir != "" {
		if rel, err := filepath.Rel(m.Dir, dir); err == nil && !strings.HasPrefix(rel, "..") {
			if rel == "." {
				return m.Path, filepath.Base(dir)
			}
			return m.Path + "/" + filepath.ToSlash(rel), filepath.Base(dir)
		}
	}
	return "", filepath.Base(dir)
}

// packageDecls returns the non-generic struct types declared at package
// scope in pkg, in source order.
func (l *loader) packageDecls(pkg *packages.Package) []*typeinfo.ClassDecl {
	var out []*typeinfo.ClassDecl
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				st, ok := ts.Type.(*ast.StructType)
				if !ok || ts.TypeParams != nil {
					continue
				}
				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok || obj.IsAlias() {
					continue
				}
				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				out = append(out, l.classDecl(pkg, named, st, doc))
			}
		}
	}
	return out
}
