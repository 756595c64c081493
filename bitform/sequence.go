package bitform

import (
	"github.com/cmj0121/bitform/internal/bitio"
)

// SequenceToken parses its children in order into a new record field.
type SequenceToken struct {
	tokenBase
	children []Token
}

// Sequence builds a named record combinator from an ordered list of
// children.
func Sequence(name string, children ...Token) *SequenceToken {
	return &SequenceToken{tokenBase: named(name), children: children}
}

// SequenceOf builds an anonymous record combinator.
func SequenceOf(children ...Token) *SequenceToken {
	return &SequenceToken{tokenBase: anonymous(), children: children}
}

// Rename returns a shallow clone with a new name; the original is
// unchanged.
func (s *SequenceToken) Rename(name string) Token {
	c := *s
	c.tokenBase = s.tokenBase.withName(name)
	return &c
}

// WithConverters returns a clone with additional post-parse converters
// appended to the pipeline.
func (s *SequenceToken) WithConverters(conv ...Converter) *SequenceToken {
	c := *s
	c.tokenBase = s.tokenBase.withConverters(conv...)
	return &c
}

// Add implements the "a + b" operator: the result's children are the
// concatenation of both sequences' children, and its converter pipeline
// is the concatenation of both (right's converters run after left's).
func (s *SequenceToken) Add(other *SequenceToken) *SequenceToken {
	children := append(append([]Token{}, s.children...), other.children...)
	converters := append(append([]Converter{}, s.converters...), other.converters...)
	return &SequenceToken{tokenBase: tokenBase{name: s.name, converters: converters}, children: children}
}

func (s *SequenceToken) Deserialize(data []byte, opts ...Option) (Field, error) {
	return deserializeToken(s, data, opts...)
}

func (s *SequenceToken) DeserializeHex(hexStr string, opts ...Option) (Field, error) {
	return deserializeTokenHex(s, hexStr, opts...)
}

func (s *SequenceToken) parse(c *bitio.Cursor, parent Field, ctx *parseCtx) (Field, error) {
	traceParse(ctx, "Sequence", s.name, c)

	rec := NewDict(s.name, parent)
	for _, tok := range s.children {
		value, err := tok.parse(c, rec, ctx)
		if err != nil {
			return nil, wrapErr("Sequence", s.name, c, err)
		}

		switch {
		case value == NoValue:
			// Pad: contributes nothing.
		case tok.Name() != nil:
			rec.Set(*tok.Name(), value)
		default:
			if dict, ok := value.(*DictField); ok {
				rec.Merge(dict)
			}
			// An anonymous child that returns a list (or scalar) is
			// dropped: only record-valued anonymous children merge.
		}
	}

	return applyConverters(s.converters, rec)
}
