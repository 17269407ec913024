package parser

import (
	"path/filepath"
	"testing"
)

func BenchmarkParse_Basic(b *testing.B) {
	p := New("")
	out := filepath.Join("..", "..", "testdata", "parserbasic", "basic_dict.go")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := p.Parse([]string{testdataPkg + "parserbasic"}, out)
		if err != nil {
			b.Fatal(err)
		}
		if len(res.Decls) == 0 {
			b.Fatal("empty parse result")
		}
	}
}
