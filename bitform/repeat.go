package bitform

import (
	"fmt"

	"github.com/cmj0121/bitform/internal/bitio"
)

// RepeatToken parses its body (an implicit Sequence) repeatedly into a
// list, or, when Squash is set, into one flattened record.
type RepeatToken struct {
	tokenBase
	count  Arg
	body   *SequenceToken
	squash bool
}

// Repeat builds a named repetition combinator. count is NoArg() to repeat
// while the cursor has bits left, Count(n) for an exact literal count,
// Width(n) to read an n-bit unsigned count first, or FromRef(path) to
// resolve the count against the enclosing record.
func Repeat(name string, count Arg, body ...Token) *RepeatToken {
	return &RepeatToken{tokenBase: named(name), count: count, body: SequenceOf(body...)}
}

// RepeatOf builds an anonymous Repeat combinator.
func RepeatOf(count Arg, body ...Token) *RepeatToken {
	return &RepeatToken{tokenBase: anonymous(), count: count, body: SequenceOf(body...)}
}

// Squash returns a clone that flattens each iteration's record into one
// enclosing record instead of collecting a list.
func (r *RepeatToken) Squash() *RepeatToken {
	c := *r
	c.squash = true
	return &c
}

// Rename returns a shallow clone with a new name; the original is
// unchanged.
func (r *RepeatToken) Rename(name string) Token {
	c := *r
	c.tokenBase = r.tokenBase.withName(name)
	return &c
}

// WithConverters returns a clone with additional post-parse converters
// appended to the pipeline.
func (r *RepeatToken) WithConverters(conv ...Converter) *RepeatToken {
	c := *r
	c.tokenBase = r.tokenBase.withConverters(conv...)
	return &c
}

func (r *RepeatToken) Deserialize(data []byte, opts ...Option) (Field, error) {
	return deserializeToken(r, data, opts...)
}

func (r *RepeatToken) DeserializeHex(hexStr string, opts ...Option) (Field, error) {
	return deserializeTokenHex(r, hexStr, opts...)
}

func (r *RepeatToken) parse(c *bitio.Cursor, parent Field, ctx *parseCtx) (Field, error) {
	traceParse(ctx, "Repeat", r.name, c)

	n, err := r.resolveCount(c, parent)
	if err != nil {
		return nil, wrapErr("Repeat", r.name, c, err)
	}

	if r.squash {
		return r.parseSquashed(c, parent, ctx, n)
	}
	return r.parseList(c, parent, ctx, n)
}

func (r *RepeatToken) parseList(c *bitio.Cursor, parent Field, ctx *parseCtx, n int) (Field, error) {
	list := NewList(r.name, parent)
	for (n < 0 || n > 0) && c.Pos() < c.Len() {
		value, err := r.body.parse(c, list, ctx)
		if err != nil {
			return nil, wrapErr("Repeat", r.name, c, err)
		}
		list.Append(value)
		if n > 0 {
			n--
		}
	}
	return applyConverters(r.converters, list)
}

func (r *RepeatToken) parseSquashed(c *bitio.Cursor, parent Field, ctx *parseCtx, n int) (Field, error) {
	rec := NewDict(r.name, parent)
	for (n < 0 || n > 0) && c.Pos() < c.Len() {
		value, err := r.body.parse(c, rec, ctx)
		if err != nil {
			return nil, wrapErr("Repeat", r.name, c, err)
		}
		if dict, ok := value.(*DictField); ok {
			if err := rec.MergeStrict(dict); err != nil {
				return nil, wrapErr("Repeat", r.name, c, err)
			}
		}
		if n > 0 {
			n--
		}
	}
	return applyConverters(r.converters, rec)
}

// resolveCount returns -1 for "repeat until the cursor is exhausted",
// else the concrete iteration count.
func (r *RepeatToken) resolveCount(c *bitio.Cursor, parent Field) (int, error) {
	switch r.count.kind {
	case argNone:
		return -1, nil
	case argInt:
		return r.count.n, nil
	case argFmt:
		raw, err := c.Read(r.count.fmt.String())
		if err != nil {
			return 0, err
		}
		n, _ := toInt64Value(raw)
		return int(n), nil
	case argRef:
		f, err := resolveRef(parent, r.count.ref.String())
		if err != nil {
			return 0, err
		}
		raw, err := scalarValue(f)
		if err != nil {
			return 0, err
		}
		n, ok := toInt64(raw)
		if !ok {
			return 0, fmt.Errorf("%w: reference %q is not an integer count", ErrReference, r.count.ref)
		}
		return int(n), nil
	default:
		return -1, nil
	}
}
