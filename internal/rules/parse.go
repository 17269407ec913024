package rules

import (
	"bufio"
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/seitarof/gen-dict/internal/diag"
)

// ParseFile reads the rules file at path into reg.
func ParseFile(path string, reg *Registry, rep *diag.Reporter) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open rules file: %w", err)
	}
	defer f.Close()
	return Parse(f, path, reg, rep)
}

// Parse reads pragma lines from r into reg. Lines that are not pragmas are
// ignored; malformed pragmas are reported to rep and skipped. Only read
// errors and a frozen registry are returned.
func Parse(r io.Reader, filename string, reg *Registry, rep *diag.Reporter) error {
	p := &pragmaParser{reg: reg, rep: rep}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var pending strings.Builder
	var start token.Position
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if pending.Len() == 0 {
			trimmed := strings.TrimSpace(text)
			if !strings.HasPrefix(trimmed, "#pragma") {
				continue
			}
			start = token.Position{Filename: filename, Line: line, Column: 1}
			pending.WriteString(trimmed)
		} else {
			pending.WriteByte('\n')
			pending.WriteString(text)
		}
		// a quoted code value may span lines
		if openQuote(pending.String()) {
			continue
		}
		if s := strings.TrimRight(pending.String(), " \t"); strings.HasSuffix(s, "\\") {
			pending.Reset()
			pending.WriteString(strings.TrimSuffix(s, "\\"))
			continue
		}
		if err := p.pragma(pending.String(), start); err != nil {
			return err
		}
		pending.Reset()
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read rules file %s: %w", filename, err)
	}
	if pending.Len() > 0 {
		p.malformed(start, diag.RuleSyntax, "unterminated quoted value")
	}
	return nil
}

func openQuote(s string) bool {
	open := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if open {
				i++
			}
		case '"':
			open = !open
		}
	}
	return open
}

type pragmaParser struct {
	reg *Registry
	rep *diag.Reporter
}

func (p *pragmaParser) malformed(pos token.Position, code diag.Code, format string, args ...any) {
	p.rep.Report(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     code,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...) + "; line skipped",
	})
}

func (p *pragmaParser) pragma(text string, pos token.Position) error {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "#pragma"))
	word, rest := nextWord(rest)
	switch word {
	case "link":
		return p.link(rest, pos)
	case "read":
		if w, after := nextWord(rest); w == "raw" {
			return p.read(after, true, pos)
		}
		return p.read(rest, false, pos)
	case "readraw":
		return p.read(rest, true, pos)
	case "":
		p.malformed(pos, diag.RuleSyntax, "empty pragma")
	default:
		p.rep.Report(diag.Diagnostic{
			Severity: diag.SevInfo,
			Code:     diag.RuleInfo,
			Pos:      pos,
			Message:  fmt.Sprintf("pragma %s ignored", word),
		})
	}
	return nil
}

func nextWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t\n")
}

func (p *pragmaParser) link(rest string, pos token.Position) error {
	if !strings.HasSuffix(strings.TrimSpace(rest), ";") {
		p.malformed(pos, diag.RuleSyntax, "link pragma must end with ';'")
		return nil
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	scope, rest := nextWord(rest)
	switch scope {
	case "off", "on":
		// link off all globals; and friends select nothing in Go output
		return nil
	case "C++", "C":
	default:
		p.malformed(pos, diag.RuleSyntax, "unknown link scope %q", scope)
		return nil
	}

	kind, rest := nextWord(rest)
	switch kind {
	case "class", "struct", "typedef":
	case "nestedclasses", "nestedtypedefs", "function", "global", "enum", "namespace", "defined_in", "operators":
		return nil
	default:
		p.malformed(pos, diag.RuleSyntax, "unknown link kind %q", kind)
		return nil
	}

	name := strings.TrimSpace(rest)
	suffix := ""
	for name != "" && strings.ContainsRune("+-!", rune(name[len(name)-1])) {
		suffix = name[len(name)-1:] + suffix
		name = strings.TrimSpace(name[:len(name)-1])
	}
	if name == "" || strings.ContainsAny(name, " \t\n\"=") {
		p.malformed(pos, diag.RuleSyntax, "bad class name %q in link pragma", name)
		return nil
	}

	l := Link{Pattern: name, Pos: pos}
	switch {
	case strings.Contains(suffix, "-"):
		l.Option = LinkNoStreamer
	case strings.Contains(suffix, "+"):
		l.Option = LinkAuto
	case strings.Contains(suffix, "!"):
		l.Option = LinkNoInput
	}
	return p.reg.AddLink(l)
}

func (p *pragmaParser) read(rest string, raw bool, pos token.Position) error {
	attrs, err := splitAttributes(rest)
	if err != nil {
		p.malformed(pos, diag.RuleSyntax, "%v", err)
		return nil
	}

	rule := Rule{Raw: raw, Pos: pos}
	for _, a := range attrs {
		switch strings.ToLower(a.key) {
		case "sourceclass":
			rule.SourceClass = strings.TrimSpace(a.value)
		case "targetclass":
			rule.TargetClass = strings.TrimSpace(a.value)
		case "source":
			members, err := parseSource(a.value, raw)
			if err != nil {
				p.malformed(pos, diag.RuleSyntax, "%v", err)
				return nil
			}
			rule.Source = members
		case "target":
			rule.Target = splitNames(a.value)
		case "version":
			vrs, err := ParseVersions(a.value)
			if err != nil {
				p.malformed(pos, diag.RuleBadVersion, "%v", err)
				return nil
			}
			rule.Versions = vrs
			rule.Spec = a.value
		case "code":
			code := strings.TrimSpace(a.value)
			if !strings.HasPrefix(code, "{") || !strings.HasSuffix(code, "}") {
				p.malformed(pos, diag.RuleSyntax, "code must be a block enclosed in braces")
				return nil
			}
			rule.Code = code
		case "checksum", "include", "embed", "attributes":
			p.rep.Report(diag.Diagnostic{
				Severity: diag.SevInfo,
				Code:     diag.RuleInfo,
				Pos:      pos,
				Message:  fmt.Sprintf("attribute %s is not supported, ignored", a.key),
			})
		default:
			p.malformed(pos, diag.RuleSyntax, "unknown attribute %q", a.key)
			return nil
		}
	}

	if rule.SourceClass == "" {
		p.malformed(pos, diag.RuleSyntax, "%s rule without sourceClass", rule.Kind())
		return nil
	}
	if rule.TargetClass == "" {
		rule.TargetClass = rule.SourceClass
	}
	if rule.Code != "" && len(rule.Target) == 0 {
		p.malformed(pos, diag.RuleSyntax, "%s rule with code must name its target members", rule.Kind())
		return nil
	}
	return p.reg.AddRule(rule)
}

type attribute struct {
	key   string
	value string
}

// splitAttributes splits key=value pairs; values are bare words or double
// quoted strings with \" escapes.
func splitAttributes(s string) ([]attribute, error) {
	var out []attribute
	i := 0
	for {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i == len(s) {
			return out, nil
		}
		j := i
		for j < len(s) && isKeyChar(s[j]) {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("expected attribute name at %q", clip(s[i:]))
		}
		key := s[i:j]
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j == len(s) || s[j] != '=' {
			return nil, fmt.Errorf("attribute %s has no value", key)
		}
		j++
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] == '"' {
			var v strings.Builder
			j++
			closed := false
			for ; j < len(s); j++ {
				if s[j] == '\\' && j+1 < len(s) && s[j+1] == '"' {
					v.WriteByte('"')
					j++
					continue
				}
				if s[j] == '"' {
					closed = true
					j++
					break
				}
				v.WriteByte(s[j])
			}
			if !closed {
				return nil, fmt.Errorf("attribute %s: unterminated quoted value", key)
			}
			out = append(out, attribute{key: key, value: v.String()})
		} else {
			k := j
			for k < len(s) && !isSpace(s[k]) {
				k++
			}
			if k == j {
				return nil, fmt.Errorf("attribute %s has no value", key)
			}
			out = append(out, attribute{key: key, value: s[j:k]})
			j = k
		}
		i = j
	}
}

func parseSource(v string, raw bool) ([]Member, error) {
	var out []Member
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sp := strings.LastIndexAny(part, " \t")
		if sp < 0 {
			if !raw {
				return nil, fmt.Errorf("source member %q has no type", part)
			}
			out = append(out, Member{Name: part})
			continue
		}
		out = append(out, Member{
			Type: strings.TrimSpace(part[:sp]),
			Name: strings.TrimSpace(part[sp+1:]),
		})
	}
	return out, nil
}

func splitNames(v string) []string {
	var out []string
	for _, n := range strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == ',' }) {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isKeyChar(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func clip(s string) string {
	if len(s) > 20 {
		return s[:20] + "..."
	}
	return s
}
