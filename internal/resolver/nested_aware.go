package resolver

import (
	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/ir"
)

// NestedSet holds the canonical names of the classes generated in the run.
// Each of them will have a Streamer once the output compiles.
type NestedSet map[string]struct{}

// Has reports whether canonical names a class of the run.
func (s NestedSet) Has(canonical string) bool {
	_, ok := s[canonical]
	return ok
}

// NestedAware can consume the set of classes generated in the run.
type NestedAware interface {
	SetNestedSet(NestedSet)
}

// ElementAware rules plan container and array elements through the whole
// rule chain.
type ElementAware interface {
	SetElementResolver(func(*classify.Shape) ir.Codec)
}
