package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// classification
	ClsInfo             Code = 1000
	ClsZeroDim          Code = 1001
	ClsReference        Code = 1002
	ClsPointerToPointer Code = 1003
	ClsUnsupportedKind  Code = 1004

	// codec selection
	CodecInfo         Code = 2000
	CodecPointerArray Code = 2001
	CodecNoIndex      Code = 2002
	CodecBadIndex     Code = 2003
	CodecTypeErased   Code = 2004
	CodecUnsupported  Code = 2005

	// class structure
	ClassInfo         Code = 3000
	ClassNoVersion    Code = 3001
	ClassBadBase      Code = 3002
	ClassNotFound     Code = 3003
	ClassShadow       Code = 3004
	ClassDummyVersion Code = 3005
	ClassHiddenType   Code = 3006

	// rules files
	RuleInfo         Code = 4000
	RuleSyntax       Code = 4001
	RuleDropped      Code = 4002
	RuleUnknownClass Code = 4003
	LinkUnmatched    Code = 4004
	RuleBadVersion   Code = 4005

	// input and output
	IOInfo  Code = 5000
	IOLoad  Code = 5001
	IOWrite Code = 5002
)

var codeNames = map[Code]string{
	UnknownCode: "unknown",

	ClsInfo:             "classify",
	ClsZeroDim:          "zero-length array dimension",
	ClsReference:        "reference member",
	ClsPointerToPointer: "pointer to pointer",
	ClsUnsupportedKind:  "unsupported kind",

	CodecInfo:         "codec",
	CodecPointerArray: "array of pointers to fundamental",
	CodecNoIndex:      "pointer without size index",
	CodecBadIndex:     "invalid size index",
	CodecTypeErased:   "type-erased fallback",
	CodecUnsupported:  "unsupported field",

	ClassInfo:         "class",
	ClassNoVersion:    "missing version",
	ClassBadBase:      "inaccessible base",
	ClassNotFound:     "class not found",
	ClassShadow:       "shadow required",
	ClassDummyVersion: "dummy version",
	ClassHiddenType:   "unnameable member type",

	RuleInfo:         "rules",
	RuleSyntax:       "malformed pragma",
	RuleDropped:      "rule dropped",
	RuleUnknownClass: "rule for unknown class",
	LinkUnmatched:    "unmatched link",
	RuleBadVersion:   "bad version range",

	IOInfo:  "io",
	IOLoad:  "load",
	IOWrite: "write",
}

// ID renders the code as it appears in diagnostic output, e.g. "D2002".
func (c Code) ID() string {
	return fmt.Sprintf("D%04d", uint16(c))
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return c.ID()
}
