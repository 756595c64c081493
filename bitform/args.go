package bitform

import "fmt"

// Fmt wraps a cursor format code ("uint:N", "int:N", "bytes:N") so a
// combinator can tell "read N bits this way" apart from a Ref lookup.
type Fmt struct {
	s string
}

// NewFmt wraps a raw format code string.
func NewFmt(s string) Fmt { return Fmt{s: s} }

// UintFmt builds the format code for an N-bit unsigned read.
func UintFmt(size int) Fmt { return Fmt{s: fmt.Sprintf("uint:%d", size)} }

// IntFmt builds the format code for an N-bit signed read.
func IntFmt(size int) Fmt { return Fmt{s: fmt.Sprintf("int:%d", size)} }

// BytesFmt builds the format code for an N-bit (must be a multiple of 8)
// raw byte read.
func BytesFmt(size int) Fmt { return Fmt{s: fmt.Sprintf("bytes:%d", size)} }

// String returns the wrapped format code.
func (f Fmt) String() string { return f.s }

// Ref wraps a "/"-separated path string used to cross-reference a
// previously parsed sibling or ancestor field.
type Ref struct {
	path string
}

// NewRef wraps a reference path.
func NewRef(path string) Ref { return Ref{path: path} }

// String returns the wrapped path.
func (r Ref) String() string { return r.path }

// argKind distinguishes how a Choice selector or Repeat count is obtained.
type argKind int

const (
	argNone argKind = iota
	argInt
	argFmt
	argRef
)

// Arg is the tagged argument accepted by Choice (selector) and Repeat
// (count): either absent, a literal width/count, an inline format read, or
// a reference to an already-parsed field.
type Arg struct {
	kind argKind
	n    int
	fmt  Fmt
	ref  Ref
}

// NoArg represents an absent count: Repeat runs until the cursor is
// exhausted. It is not a valid Choice selector.
func NoArg() Arg { return Arg{kind: argNone} }

// Width builds an Arg that reads n bits inline as an unsigned integer
// before use (Choice tag, or Repeat's length prefix).
func Width(n int) Arg { return Arg{kind: argFmt, fmt: UintFmt(n)} }

// WidthFmt builds an Arg that reads an inline value using an explicit
// format code.
func WidthFmt(f Fmt) Arg { return Arg{kind: argFmt, fmt: f} }

// Count builds an Arg holding a literal integer. As a Repeat count it
// repeats exactly n times without reading from the cursor; as a Choice
// selector it is a width, and n bits are read inline as the tag.
func Count(n int) Arg { return Arg{kind: argInt, n: n} }

// FromRef builds an Arg resolved against the parent field at parse time.
func FromRef(path string) Arg { return Arg{kind: argRef, ref: NewRef(path)} }

// EnumTable is implemented by both a sparse tag-to-label mapping and a
// dense, index-based sequence of labels.
type EnumTable interface {
	// Lookup returns the label for index and whether it is defined.
	Lookup(index int64) (string, bool)
}

// EnumMap is a sparse enum table keyed by integer tag.
type EnumMap map[int64]string

// Lookup implements EnumTable.
func (m EnumMap) Lookup(index int64) (string, bool) {
	v, ok := m[index]
	return v, ok
}

// EnumSlice is a dense, index-based enum table.
type EnumSlice []string

// Lookup implements EnumTable.
func (s EnumSlice) Lookup(index int64) (string, bool) {
	if index < 0 || index >= int64(len(s)) {
		return "", false
	}
	return s[index], true
}

// ValueConv transforms a looked-up reference value before it is used as a
// converter's key or copied field value.
type ValueConv func(any) any
