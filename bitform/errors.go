// Package bitform implements a declarative bit-level binary message parser
// built from composable combinators: Sequence, Choice, Repeat, and the
// family of terminal Bits readers. A parser tree built from these
// combinators turns raw bytes into an ordered, JSON-renderable field tree.
package bitform

import "errors"

// Error taxonomy, per the component contract: Ref resolution, converter
// rejection, and bad configuration are distinguished so callers can branch
// on errors.Is without parsing message text.
var (
	// ErrReference is returned when a Ref path cannot be resolved.
	ErrReference = errors.New("bitform: unresolved reference")

	// ErrConverter is returned when a converter rejects its input.
	ErrConverter = errors.New("bitform: converter rejected field")

	// ErrOption is returned when a configurable component receives an
	// option it does not recognize.
	ErrOption = errors.New("bitform: invalid option")

	// ErrNoAlternative is returned when a Choice tag has no matching
	// alternative.
	ErrNoAlternative = errors.New("bitform: no alternative for tag")
)
