package bitform

import (
	"fmt"

	"github.com/cmj0121/bitform/internal/bitio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Converter is a post-parse field-tree rewrite: it takes the field a token
// just produced and returns a (possibly different) field. Squash, GetName,
// and AddField in package convert are concrete converters.
type Converter func(Field) (Field, error)

// Token is a node of the parser tree. Deserialize wraps raw input in a
// cursor and starts the recursive parse with parent == nil; parse is the
// internal entry point every combinator calls on its children, threading
// the per-call parseCtx down instead of relying on package-level state.
type Token interface {
	Name() *string
	Rename(name string) Token
	Deserialize(data []byte, opts ...Option) (Field, error)
	DeserializeHex(hexStr string, opts ...Option) (Field, error)

	parse(c *bitio.Cursor, parent Field, ctx *parseCtx) (Field, error)
}

// parseCtx carries per-parse state that must never leak across calls to
// Deserialize: tokens are immutable and reusable across many parses, so
// this is threaded explicitly through parse rather than held in a
// package-level variable, keeping concurrent independent parses safe.
type parseCtx struct {
	debug bool
}

// Option configures a single Deserialize call.
type Option func(*parseCtx)

// WithDebug enables the one-line-per-token trace for this parse only.
func WithDebug(enabled bool) Option {
	return func(c *parseCtx) { c.debug = enabled }
}

// tokenBase is embedded by every concrete token and supplies the name and
// converter pipeline shared by all of them.
type tokenBase struct {
	name       *string
	converters []Converter
}

func named(name string) tokenBase { return tokenBase{name: &name} }
func anonymous() tokenBase        { return tokenBase{} }

func (t *tokenBase) Name() *string { return t.name }

func (t *tokenBase) withName(name string) tokenBase {
	nb := *t
	nb.name = &name
	return nb
}

func (t *tokenBase) withConverters(extra ...Converter) tokenBase {
	nb := *t
	nb.converters = append(append([]Converter{}, nb.converters...), extra...)
	return nb
}

// applyConverters runs the pipeline in order, short-circuiting on error.
func applyConverters(converters []Converter, f Field) (Field, error) {
	var err error
	for _, conv := range converters {
		f, err = conv(f)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// runDeserialize is shared by every token kind's Deserialize method.
func runDeserialize(t Token, c *bitio.Cursor, opts []Option) (Field, error) {
	ctx := &parseCtx{}
	for _, opt := range opts {
		opt(ctx)
	}
	return t.parse(c, nil, ctx)
}

// deserializeToken and deserializeTokenHex are called by each concrete
// token kind's Deserialize/DeserializeHex methods to avoid repeating the
// cursor setup.
func deserializeToken(t Token, data []byte, opts ...Option) (Field, error) {
	return runDeserialize(t, bitio.NewCursor(data), opts)
}

func deserializeTokenHex(t Token, hexStr string, opts ...Option) (Field, error) {
	c, err := bitio.NewCursorFromHex(hexStr)
	if err != nil {
		return nil, err
	}
	return runDeserialize(t, c, opts)
}

// traceParse emits the one-line debug trace described for the token base,
// when the active parse enabled it.
func traceParse(ctx *parseCtx, kind string, name *string, c *bitio.Cursor) {
	if ctx == nil || !ctx.debug {
		return
	}
	log.Debug().
		Str("token", kind).
		Str("name", refName(name)).
		Int("remaining_bits", c.Remaining()).
		Msg("parse")
}

// wrapErr attaches the failing token's class, name, and cursor position to
// err, per the minimum required failure context.
func wrapErr(kind string, name *string, c *bitio.Cursor, err error) error {
	return fmt.Errorf("%s(%s) at bit %d: %w", kind, refName(name), c.Pos(), err)
}

func init() {
	// Quiet by default: traceParse logs only for a Deserialize call made
	// with WithDebug(true), and the global level is left at Debug so those
	// trace lines are not filtered out. The CLI replaces this level from
	// its verbosity counter (see cli.go).
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}
