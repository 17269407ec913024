package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseArgs_Success(t *testing.T) {
	cfg, err := ParseArgs([]string{
		"-o", "event_dict.go",
		"-f", "-l", "-v3",
		"--lib-list-prefix", "libevent",
		"./event", "./geo",
		"event.rules",
	})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Output != "event_dict.go" || !cfg.Force || !cfg.LongNames || cfg.Verbosity != 3 {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if len(cfg.Patterns) != 2 || cfg.Patterns[0] != "./event" || cfg.Patterns[1] != "./geo" {
		t.Fatalf("patterns = %v", cfg.Patterns)
	}
	if len(cfg.RulesFiles) != 1 || cfg.RulesFiles[0] != "event.rules" {
		t.Fatalf("rules files = %v", cfg.RulesFiles)
	}
	if got := cfg.LibListFilename(); got != "libevent.liblist" {
		t.Fatalf("LibListFilename() = %q", got)
	}
}

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"-o", "out_dict.go", "./event"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Verbosity != 2 || cfg.Force || cfg.LongNames {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.LibListFilename() != "" {
		t.Fatalf("LibListFilename() = %q, want empty", cfg.LibListFilename())
	}
}

func TestParseArgs_LinkDefIsRulesFile(t *testing.T) {
	cfg, err := ParseArgs([]string{"-o", "out_dict.go", "./event", "conf/LinkDef.h"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if len(cfg.Patterns) != 1 || len(cfg.RulesFiles) != 1 || cfg.RulesFiles[0] != "conf/LinkDef.h" {
		t.Fatalf("patterns = %v, rules = %v", cfg.Patterns, cfg.RulesFiles)
	}
}

func TestParseArgs_Version(t *testing.T) {
	cfg, err := ParseArgs([]string{"--version"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if !cfg.ShowVersion {
		t.Fatal("expected ShowVersion")
	}
}

func TestParseArgs_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no output", args: []string{"./event"}, want: "--output"},
		{name: "not a go file", args: []string{"-o", "out.txt", "./event"}, want: ".go"},
		{name: "no pattern", args: []string{"-o", "out_dict.go", "event.rules"}, want: "pattern"},
		{name: "verbosity", args: []string{"-o", "out_dict.go", "-v7", "./event"}, want: "verbosity"},
		{name: "unknown flag", args: []string{"--bogus"}, want: "bogus"},
		{name: "missing config", args: []string{"--config", "nope.toml", "-o", "x.go", "./event"}, want: "nope.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArgs(tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseArgs_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
output = "from_file_dict.go"
verbosity = 4
long_names = true
rules = ["a.rules", "b.rules"]
lib_list_prefix = "libfile"
`)

	cfg, err := ParseArgs([]string{"--config", path, "./event"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Output != "from_file_dict.go" || cfg.Verbosity != 4 || !cfg.LongNames {
		t.Fatalf("config file defaults not applied: %#v", cfg)
	}
	if len(cfg.RulesFiles) != 2 || cfg.LibListPrefix != "libfile" {
		t.Fatalf("config file lists not applied: %#v", cfg)
	}
}

func TestParseArgs_FlagsWinOverConfigFile(t *testing.T) {
	path := writeConfig(t, `
output = "from_file_dict.go"
verbosity = 4
rules = ["a.rules"]
`)

	cfg, err := ParseArgs([]string{"--config", path, "-o", "flag_dict.go", "-v0", "./event", "c.rules"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	if cfg.Output != "flag_dict.go" || cfg.Verbosity != 0 {
		t.Fatalf("flags must win: %#v", cfg)
	}
	if len(cfg.RulesFiles) != 1 || cfg.RulesFiles[0] != "c.rules" {
		t.Fatalf("rules files = %v, want [c.rules]", cfg.RulesFiles)
	}
}

func TestParseArgs_ConfigFileUnknownKey(t *testing.T) {
	path := writeConfig(t, "outptu = \"typo.go\"\n")

	_, err := ParseArgs([]string{"--config", path, "-o", "x.go", "./event"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "outptu") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gen-dict.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
