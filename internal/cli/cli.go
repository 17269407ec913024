package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/seitarof/gen-dict/internal/diag"
)

// ParseArgs parses command line arguments into Config. Options missing from
// the command line are taken from the config file.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}

	fs := pflag.NewFlagSet("gen-dict", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Output, "output", "o", "", "generated dictionary file")
	fs.BoolVarP(&cfg.Force, "force", "f", false, "overwrite an existing output file")
	fs.BoolVarP(&cfg.LongNames, "long-names", "l", false, "register classes under their full import path")
	fs.IntVarP(&cfg.Verbosity, "verbosity", "v", diag.DefaultVerbosity, "diagnostic level 0-4")
	fs.StringVar(&cfg.LibListPrefix, "lib-list-prefix", "", "write PREFIX.liblist with the selected classes and their packages")
	fs.StringVar(&cfg.ConfigFile, "config", "", "TOML file with default options (default "+DefaultConfigFile+" if present)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ShowVersion {
		return cfg, nil
	}

	for _, arg := range fs.Args() {
		if isRulesFile(arg) {
			cfg.RulesFiles = append(cfg.RulesFiles, arg)
			continue
		}
		cfg.Patterns = append(cfg.Patterns, arg)
	}

	path, optional := cfg.ConfigFile, false
	if path == "" {
		path, optional = DefaultConfigFile, true
	}
	fc, err := loadFileConfig(path, optional)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(fc, fs.Changed)

	if strings.TrimSpace(cfg.Output) == "" {
		return nil, fmt.Errorf("--output is required")
	}
	if !strings.HasSuffix(cfg.Output, ".go") {
		return nil, fmt.Errorf("--output %q: must be a .go file", cfg.Output)
	}
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("at least one package pattern is required")
	}
	if cfg.Verbosity < 0 || cfg.Verbosity > 4 {
		return nil, fmt.Errorf("--verbosity %d: must be between 0 and 4", cfg.Verbosity)
	}
	return cfg, nil
}

// isRulesFile reports whether a positional argument names the rules file
// rather than a package pattern.
func isRulesFile(arg string) bool {
	return strings.HasSuffix(arg, ".rules") || strings.HasPrefix(filepath.Base(arg), "LinkDef")
}
