package resolver

import (
	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/ir"
)

// FieldPlan is the codec selected for one field and the rule that chose it.
type FieldPlan struct {
	Field classify.FieldDescriptor
	Codec ir.Codec
	Rule  string
}

// Streamed reports whether the field goes on the wire.
func (p FieldPlan) Streamed() bool { return ir.Streamed(p.Codec) }

// TypeName is the Go spelling of the type s was computed from.
func TypeName(s *classify.Shape) string {
	if s == nil {
		return ""
	}
	if s.Type != nil {
		return s.Type.Name()
	}
	return s.Basic.String()
}
