package cli

import (
	"path/filepath"
	"testing"
)

func BenchmarkRunnerRun_EndToEnd(b *testing.B) {
	out := filepath.Join(outputDir(b, "benchdict"), "event_dict.go")

	runner := newIntegrationRunner(false)
	cfg := &Config{
		Output:   out,
		Patterns: []string{testdataPkg + "runnerevent"},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := runner.Run(cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunnerRun_Mocked(b *testing.B) {
	r := NewRunner(
		&mockParser{res: eventResult()},
		&mockMatcher{},
		&mockGenerator{},
		nil,
	)
	cfg := &Config{Output: "out_dict.go", Patterns: []string{"./event"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := r.Run(cfg); err != nil {
			b.Fatal(err)
		}
	}
}
