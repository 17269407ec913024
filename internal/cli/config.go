package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when --config is not
// given.
const DefaultConfigFile = "gen-dict.toml"

// Config stores CLI options for a single generation run.
type Config struct {
	Output        string
	Patterns      []string
	RulesFiles    []string
	Force         bool
	LongNames     bool
	Verbosity     int
	LibListPrefix string
	ConfigFile    string
	ShowVersion   bool

	outPkgPath string
	outPkgName string
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	return c.Output
}

// OutputPackage returns the package the output file belongs to. It is known
// once the input packages are loaded.
func (c *Config) OutputPackage() (string, string) {
	return c.outPkgPath, c.outPkgName
}

// SetOutputPackage records the package of the output file.
func (c *Config) SetOutputPackage(path, name string) {
	c.outPkgPath, c.outPkgName = path, name
}

// LibListFilename returns the library list path, or "" when none is wanted.
func (c *Config) LibListFilename() string {
	if c.LibListPrefix == "" {
		return ""
	}
	return c.LibListPrefix + ".liblist"
}

// fileConfig is the layout of gen-dict.toml.
type fileConfig struct {
	Output        string   `toml:"output"`
	Verbosity     *int     `toml:"verbosity"`
	LongNames     bool     `toml:"long_names"`
	Force         bool     `toml:"force"`
	Rules         []string `toml:"rules"`
	LibListPrefix string   `toml:"lib_list_prefix"`
}

// loadFileConfig decodes the TOML file at path. A missing file is not an
// error when optional is set.
func loadFileConfig(path string, optional bool) (*fileConfig, error) {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return &fc, nil
}

// applyDefaults fills the options not given on the command line. changed
// reports whether a flag was set explicitly.
func (c *Config) applyDefaults(fc *fileConfig, changed func(name string) bool) {
	if fc == nil {
		return
	}
	if !changed("output") && fc.Output != "" {
		c.Output = fc.Output
	}
	if !changed("verbosity") && fc.Verbosity != nil {
		c.Verbosity = *fc.Verbosity
	}
	if !changed("long-names") {
		c.LongNames = c.LongNames || fc.LongNames
	}
	if !changed("force") {
		c.Force = c.Force || fc.Force
	}
	if !changed("lib-list-prefix") && fc.LibListPrefix != "" {
		c.LibListPrefix = fc.LibListPrefix
	}
	if len(c.RulesFiles) == 0 {
		c.RulesFiles = fc.Rules
	}
}
