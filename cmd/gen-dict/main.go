package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/seitarof/gen-dict/internal/cli"
	"github.com/seitarof/gen-dict/internal/generator"
	"github.com/seitarof/gen-dict/internal/matcher"
	"github.com/seitarof/gen-dict/internal/parser"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	p := parser.New("")
	m := matcher.NewClassMatcher(cfg.LongNames)
	f := generator.NewGoimportsFormatter()
	w := generator.NewFileWriter(cfg.Force)
	g := generator.New(f, w)

	runner := cli.NewRunner(p, m, g, os.Stderr)
	if err := runner.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
