package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seitarof/gen-dict/internal/classify"
	"github.com/seitarof/gen-dict/internal/ir"
)

// checkIndex validates the size expression of the field at position pos:
// member names and integer literals joined by * + -, where every member is
// an integer fundamental declared before the field and not transient. The
// reader must already hold the size when it reaches the field.
func checkIndex(class *classify.ClassDescriptor, pos int, expr string) ([]ir.IndexToken, error) {
	tokens, err := splitIndex(expr)
	if err != nil {
		return nil, err
	}
	for _, t := range tokens {
		if t.Member == "" {
			continue
		}
		f, at := class.Field(t.Member)
		switch {
		case f == nil:
			return nil, fmt.Errorf("size index %q: %s is not a member of %s", expr, t.Member, class.Name)
		case at >= pos:
			return nil, fmt.Errorf("size index %q: %s must be declared before the sized member", expr, t.Member)
		case f.Transient:
			return nil, fmt.Errorf("size index %q: %s is transient", expr, t.Member)
		case !f.Shape.Integer():
			return nil, fmt.Errorf("size index %q: %s is not an integer", expr, t.Member)
		}
	}
	return tokens, nil
}

func splitIndex(expr string) ([]ir.IndexToken, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty size index")
	}
	var out []ir.IndexToken
	wantOperand := true
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '*' || c == '+' || c == '-':
			if wantOperand {
				return nil, fmt.Errorf("size index %q: unexpected %q", expr, c)
			}
			out = append(out, ir.IndexToken{Op: c})
			wantOperand = true
			i++
		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && expr[j] >= '0' && expr[j] <= '9' {
				j++
			}
			if !wantOperand {
				return nil, fmt.Errorf("size index %q: missing operator before %s", expr, expr[i:j])
			}
			n, err := strconv.Atoi(expr[i:j])
			if err != nil {
				return nil, fmt.Errorf("size index %q: %w", expr, err)
			}
			out = append(out, ir.IndexToken{Lit: n})
			wantOperand = false
			i = j
		case isIdentStart(c):
			j := i
			for j < len(expr) && (isIdentStart(expr[j]) || expr[j] >= '0' && expr[j] <= '9') {
				j++
			}
			if !wantOperand {
				return nil, fmt.Errorf("size index %q: missing operator before %s", expr, expr[i:j])
			}
			out = append(out, ir.IndexToken{Member: expr[i:j]})
			wantOperand = false
			i = j
		default:
			return nil, fmt.Errorf("size index %q: unexpected %q", expr, c)
		}
	}
	if wantOperand {
		return nil, fmt.Errorf("size index %q: incomplete expression", expr)
	}
	return out, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
