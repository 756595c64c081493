package bitform

import (
	"fmt"

	"github.com/cmj0121/bitform/internal/bitio"
)

// ChoiceToken selects one of several sub-parsers based on a tag read
// inline or resolved via Ref against the enclosing record.
type ChoiceToken struct {
	tokenBase
	selector     Arg
	alternatives map[int64]any
}

// Choice builds a named tagged-union combinator. alternatives maps a tag
// value to either a Token (parsed with the enclosing record as parent) or
// a plain constant value (returned as-is).
func Choice(name string, selector Arg, alternatives map[int64]any) *ChoiceToken {
	return &ChoiceToken{tokenBase: named(name), selector: selector, alternatives: alternatives}
}

// ChoiceOf builds an anonymous Choice combinator.
func ChoiceOf(selector Arg, alternatives map[int64]any) *ChoiceToken {
	return &ChoiceToken{tokenBase: anonymous(), selector: selector, alternatives: alternatives}
}

// Rename returns a shallow clone with a new name; the original is
// unchanged.
func (ch *ChoiceToken) Rename(name string) Token {
	c := *ch
	c.tokenBase = ch.tokenBase.withName(name)
	return &c
}

func (ch *ChoiceToken) Deserialize(data []byte, opts ...Option) (Field, error) {
	return deserializeToken(ch, data, opts...)
}

func (ch *ChoiceToken) DeserializeHex(hexStr string, opts ...Option) (Field, error) {
	return deserializeTokenHex(ch, hexStr, opts...)
}

func (ch *ChoiceToken) parse(c *bitio.Cursor, parent Field, ctx *parseCtx) (Field, error) {
	traceParse(ctx, "Choice", ch.name, c)

	tag, err := ch.resolveTag(c, parent)
	if err != nil {
		return nil, wrapErr("Choice", ch.name, c, err)
	}

	alt, ok := ch.alternatives[tag]
	if !ok {
		return nil, wrapErr("Choice", ch.name, c, fmt.Errorf("%w: %d", ErrNoAlternative, tag))
	}

	tok, ok := alt.(Token)
	if !ok {
		return NewScalar(ch.name, parent, alt, nil), nil
	}

	value, err := tok.parse(c, parent, ctx)
	if err != nil {
		return nil, wrapErr("Choice", ch.name, c, err)
	}
	if tok.Name() != nil {
		wrapper := NewDict(ch.name, parent)
		wrapper.Set(*tok.Name(), value)
		return wrapper, nil
	}
	return value, nil
}

func (ch *ChoiceToken) resolveTag(c *bitio.Cursor, parent Field) (int64, error) {
	switch ch.selector.kind {
	case argRef:
		f, err := resolveRef(parent, ch.selector.ref.String())
		if err != nil {
			return 0, err
		}
		raw, err := scalarValue(f)
		if err != nil {
			return 0, err
		}
		n, ok := toInt64(raw)
		if !ok {
			return 0, fmt.Errorf("%w: reference %q is not an integer tag", ErrReference, ch.selector.ref)
		}
		return n, nil
	case argFmt:
		raw, err := c.Read(ch.selector.fmt.String())
		if err != nil {
			return 0, err
		}
		n, _ := toInt64Value(raw)
		return n, nil
	case argInt:
		raw, err := c.Read(UintFmt(ch.selector.n).String())
		if err != nil {
			return 0, err
		}
		n, _ := toInt64Value(raw)
		return n, nil
	default:
		return 0, fmt.Errorf("%w: Choice requires a selector", ErrOption)
	}
}

// resolveRef resolves path against parent, failing if parent is nil (a
// selector referencing a field before any record exists to search).
func resolveRef(parent Field, path string) (Field, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: no enclosing record to resolve %q against", ErrReference, path)
	}
	return parent.FindRef(path)
}
