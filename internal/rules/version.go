package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seitarof/gen-dict/wire"
)

// ParseVersions parses a version attribute such as "[1-3,5,7-]". An open
// lower bound starts at 1; an open upper bound has no limit.
func ParseVersions(spec string) ([]wire.VersionRange, error) {
	s := strings.TrimSpace(spec)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("version %q: expected [range,...]", spec)
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return nil, fmt.Errorf("version %q: empty range list", spec)
	}
	var out []wire.VersionRange
	for _, part := range strings.Split(s, ",") {
		vr, err := parseRange(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("version %q: %w", spec, err)
		}
		out = append(out, vr)
	}
	return out, nil
}

func parseRange(s string) (wire.VersionRange, error) {
	if s == "" {
		return wire.VersionRange{}, fmt.Errorf("empty range")
	}
	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		v, err := parseVersion(s)
		if err != nil {
			return wire.VersionRange{}, err
		}
		return wire.VersionRange{Min: v, Max: v}, nil
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	vr := wire.VersionRange{Min: 1, Max: math.MaxInt16}
	if lo == "" && hi == "" {
		return wire.VersionRange{}, fmt.Errorf("range %q has no bound", s)
	}
	if lo != "" {
		v, err := parseVersion(lo)
		if err != nil {
			return wire.VersionRange{}, err
		}
		vr.Min = v
	}
	if hi != "" {
		v, err := parseVersion(hi)
		if err != nil {
			return wire.VersionRange{}, err
		}
		vr.Max = v
	}
	if vr.Min > vr.Max {
		return wire.VersionRange{}, fmt.Errorf("range %q is empty", s)
	}
	return vr, nil
}

func parseVersion(s string) (int16, error) {
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad version number %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative version %d", n)
	}
	return int16(n), nil
}

// FormatVersions renders ranges back in attribute form.
func FormatVersions(vrs []wire.VersionRange) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, vr := range vrs {
		if i > 0 {
			b.WriteByte(',')
		}
		switch {
		case vr.Min == vr.Max:
			b.WriteString(strconv.Itoa(int(vr.Min)))
		case vr.Max == math.MaxInt16:
			b.WriteString(strconv.Itoa(int(vr.Min)) + "-")
		case vr.Min <= 1:
			b.WriteString("-" + strconv.Itoa(int(vr.Max)))
		default:
			b.WriteString(strconv.Itoa(int(vr.Min)) + "-" + strconv.Itoa(int(vr.Max)))
		}
	}
	b.WriteByte(']')
	return b.String()
}
