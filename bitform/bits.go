package bitform

import (
	"strconv"

	"github.com/cmj0121/bitform/internal/bitio"
)

// BitsKind tags the terminal reader a BitsToken performs, per the tagged
// variant design: one struct, one Parse method, kind-specific behavior
// dispatched on Kind instead of a type per Bits specialization.
type BitsKind int

const (
	KindRaw BitsKind = iota
	KindUint
	KindInt
	KindBool
	KindPad
	KindString
	KindEnum
	KindBitMask
)

// BitsToken reads one value from the cursor using Fmt and returns it as a
// scalar field, possibly post-processed according to Kind (Bool, Enum,
// BitMask) or discarded entirely (Pad).
type BitsToken struct {
	tokenBase
	kind   BitsKind
	fmt    Fmt
	size   int // bit width, used directly by Pad to avoid reparsing fmt
	enum   EnumTable
	offset int64
	mask   []string
}

// Bits builds a named terminal reader for an arbitrary format code.
func Bits(name string, f Fmt) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindRaw, fmt: f}
}

// BitsOf builds an anonymous terminal reader for an arbitrary format code.
func BitsOf(f Fmt) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindRaw, fmt: f}
}

// Uint builds an N-bit unsigned integer reader.
func Uint(name string, size int) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindUint, fmt: UintFmt(size)}
}

// UintOf builds an anonymous N-bit unsigned integer reader.
func UintOf(size int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindUint, fmt: UintFmt(size)}
}

// Int builds an N-bit signed (two's complement) integer reader.
func Int(name string, size int) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindInt, fmt: IntFmt(size)}
}

// IntOf builds an anonymous N-bit signed integer reader.
func IntOf(size int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindInt, fmt: IntFmt(size)}
}

// Bool reads size bits (default 1) and converts the result to value != 0.
func Bool(name string, size ...int) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindBool, fmt: UintFmt(boolSize(size))}
}

// BoolOf builds an anonymous Bool reader.
func BoolOf(size ...int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindBool, fmt: UintFmt(boolSize(size))}
}

func boolSize(size []int) int {
	if len(size) > 0 {
		return size[0]
	}
	return 1
}

// Pad reads and discards size bits. Padding is never addressable: it has
// no name and contributes no key to its enclosing record.
func Pad(size int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindPad, fmt: UintFmt(size), size: size}
}

// String reads size bits (a multiple of 8) as raw bytes.
func String(name string, size int) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindString, fmt: BytesFmt(size)}
}

// StringOf builds an anonymous String reader.
func StringOf(size int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindString, fmt: BytesFmt(size)}
}

// Enum reads an integer using fmt, computes index = value - offset, and
// yields enum[index]; an out-of-range or missing index yields the literal
// sentinel "_UNDEFINED_(<value>)" rather than failing.
func Enum(name string, f Fmt, enum EnumTable, offset ...int) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindEnum, fmt: f, enum: enum, offset: enumOffset(offset)}
}

// EnumOf builds an anonymous Enum reader.
func EnumOf(f Fmt, enum EnumTable, offset ...int) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindEnum, fmt: f, enum: enum, offset: enumOffset(offset)}
}

func enumOffset(offset []int) int64 {
	if len(offset) > 0 {
		return int64(offset[0])
	}
	return 0
}

// BitMask reads an integer using fmt and returns a list containing
// mask[i] for every bit i set in the value, LSB first.
func BitMask(name string, f Fmt, mask []string) *BitsToken {
	return &BitsToken{tokenBase: named(name), kind: KindBitMask, fmt: f, mask: mask}
}

// BitMaskOf builds an anonymous BitMask reader.
func BitMaskOf(f Fmt, mask []string) *BitsToken {
	return &BitsToken{tokenBase: anonymous(), kind: KindBitMask, fmt: f, mask: mask}
}

// Rename returns a shallow clone of the token with a new name; the
// original token is unchanged.
func (b *BitsToken) Rename(name string) Token {
	c := *b
	c.tokenBase = b.tokenBase.withName(name)
	return &c
}

// WithConverters returns a clone with additional post-parse converters
// appended to the pipeline.
func (b *BitsToken) WithConverters(conv ...Converter) *BitsToken {
	c := *b
	c.tokenBase = b.tokenBase.withConverters(conv...)
	return &c
}

func (b *BitsToken) Deserialize(data []byte, opts ...Option) (Field, error) {
	return deserializeToken(b, data, opts...)
}

func (b *BitsToken) DeserializeHex(hexStr string, opts ...Option) (Field, error) {
	return deserializeTokenHex(b, hexStr, opts...)
}

func (b *BitsToken) parse(c *bitio.Cursor, parent Field, ctx *parseCtx) (Field, error) {
	traceParse(ctx, "Bits", b.name, c)

	if b.kind == KindPad {
		if err := c.Skip(b.size); err != nil {
			return nil, wrapErr("Pad", b.name, c, err)
		}
		return NoValue, nil
	}

	raw, err := c.Read(b.fmt.String())
	if err != nil {
		return nil, wrapErr(bitsKindName(b.kind), b.name, c, err)
	}

	var value any
	switch b.kind {
	case KindBool:
		value = toUintValue(raw) != 0
	case KindEnum:
		n, _ := toInt64Value(raw)
		value = renderEnum(n, b.enum, b.offset)
	case KindBitMask:
		n, _ := toInt64Value(raw)
		value = renderBitMask(n, b.mask)
	default:
		value = raw
	}

	field := NewScalar(b.name, parent, value, nil)
	return applyConverters(b.converters, field)
}

func bitsKindName(k BitsKind) string {
	switch k {
	case KindUint:
		return "Uint"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindPad:
		return "Pad"
	case KindString:
		return "String"
	case KindEnum:
		return "Enum"
	case KindBitMask:
		return "BitMask"
	default:
		return "Bits"
	}
}

func renderEnum(value int64, enum EnumTable, offset int64) string {
	if enum == nil {
		return undefinedEnum(value)
	}
	label, ok := enum.Lookup(value - offset)
	if !ok {
		return undefinedEnum(value)
	}
	return label
}

func undefinedEnum(value int64) string {
	return "_UNDEFINED_(" + strconv.FormatInt(value, 10) + ")"
}

func renderBitMask(value int64, mask []string) []string {
	var set []string
	for i := 0; i < len(mask); i++ {
		if value&(1<<uint(i)) != 0 {
			set = append(set, mask[i])
		}
	}
	return set
}

func toUintValue(v any) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

func toInt64Value(v any) (int64, bool) {
	switch n := v.(type) {
	case uint64:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

