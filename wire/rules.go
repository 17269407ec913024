package wire

import (
	"fmt"
	"math"
	"reflect"
)

// VersionRange is an inclusive range of class versions.
type VersionRange struct {
	Min int16
	Max int16
}

// AnyVersion matches every version.
var AnyVersion = VersionRange{Min: math.MinInt16, Max: math.MaxInt16}

// Contains reports whether v lies in the range.
func (r VersionRange) Contains(v int16) bool { return v >= r.Min && v <= r.Max }

// RuleMember names a member a rule reads, with its on-file type as written
// in the rule.
type RuleMember struct {
	Name string
	Type string
}

// ReadRule is a schema-evolution rule applied while reading a class.
type ReadRule struct {
	SourceClass string
	TargetClass string
	Source      []RuleMember
	Target      []string
	// Versions lists the on-file versions the rule applies to. An empty
	// list applies to every version.
	Versions []VersionRange
	// Apply fills target, a pointer to the live object, from raw.
	Apply func(raw *OnFile, target any) error
}

// AppliesTo reports whether the rule should run for on-file version v.
func (r *ReadRule) AppliesTo(v int16) bool {
	if len(r.Versions) == 0 {
		return true
	}
	for _, vr := range r.Versions {
		if vr.Contains(v) {
			return true
		}
	}
	return false
}

// OnFile holds the members of one class block as they were found on file.
// Read rules take their inputs from it; read-raw rules read the block
// themselves through Buffer.
type OnFile struct {
	Class   string
	Version int16

	values map[string]any
	buf    *Buffer
	end    int
}

// NewOnFile returns an empty value set for one block of class.
func NewOnFile(class string, version int16) *OnFile {
	return &OnFile{Class: class, Version: version, values: map[string]any{}}
}

// Set records the on-file value of a member.
func (o *OnFile) Set(name string, v any) { o.values[name] = v }

// Value returns the on-file value of a member.
func (o *OnFile) Value(name string) (any, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Has reports whether the member was present on file.
func (o *OnFile) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Buffer returns the buffer positioned at the raw member data of the block.
// Only set for read-raw rules.
func (o *OnFile) Buffer() *Buffer { return o.buf }

// End returns the position of the end of the raw block.
func (o *OnFile) End() int { return o.end }

// OnFileValue returns the named member converted to T. Numeric members
// convert between widths; a missing or incompatible member yields T's zero
// value.
func OnFileValue[T any](o *OnFile, name string) T {
	var zero T
	v, ok := o.values[name]
	if !ok || v == nil {
		return zero
	}
	if t, ok := v.(T); ok {
		return t
	}
	rv := reflect.ValueOf(v)
	want := reflect.TypeFor[T]()
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want).Interface().(T)
	}
	return zero
}

// OnFileOf snapshots the streamed members of obj. Used when rules apply to
// the current version, whose on-file layout is the live one.
func OnFileOf(info *ClassInfo, obj any) *OnFile {
	o := NewOnFile(info.Name, info.Version)
	rv, err := structValue(info, obj)
	if err != nil {
		return o
	}
	for _, m := range info.Members {
		if fv, ok := fieldValue(rv, m.Name); ok {
			o.values[m.Name] = fv.Interface()
		}
	}
	return o
}

// ApplyReadRules runs every read rule of info that applies to on-file
// version v. raw may be nil, in which case it is built from obj.
func ApplyReadRules(info *ClassInfo, v int16, raw *OnFile, obj any) error {
	for i := range info.ReadRules {
		r := &info.ReadRules[i]
		if r.Apply == nil || !r.AppliesTo(v) {
			continue
		}
		if raw == nil {
			raw = OnFileOf(info, obj)
			raw.Version = v
		}
		if err := r.Apply(raw, obj); err != nil {
			return fmt.Errorf("wire: %s: read rule for %v: %w", info.Name, r.Target, err)
		}
	}
	return nil
}

// HasReadRawRule reports whether a read-raw rule of info applies to v.
func HasReadRawRule(info *ClassInfo, v int16) bool {
	for i := range info.ReadRawRules {
		if info.ReadRawRules[i].Apply != nil && info.ReadRawRules[i].AppliesTo(v) {
			return true
		}
	}
	return false
}

// ApplyReadRawRules hands the member data of the block c to every read-raw
// rule of info that applies to v. Each rule starts at the first member; the
// buffer is left at the end of the block.
func (b *Buffer) ApplyReadRawRules(info *ClassInfo, v int16, c ByteCount, obj any) error {
	start := b.off
	for i := range info.ReadRawRules {
		r := &info.ReadRawRules[i]
		if r.Apply == nil || !r.AppliesTo(v) {
			continue
		}
		b.off = start
		raw := NewOnFile(info.Name, v)
		raw.buf = b
		raw.end = c.End()
		if err := r.Apply(raw, obj); err != nil {
			return fmt.Errorf("wire: %s: read-raw rule for %v: %w", info.Name, r.Target, err)
		}
		if b.err != nil {
			return b.err
		}
	}
	if !c.Dummy() && c.End() <= len(b.data) {
		b.off = c.End()
	}
	return nil
}
