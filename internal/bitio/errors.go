// Package bitio implements a positional bit-level reader over a byte
// buffer, the cursor primitive every bitform token reads from.
package bitio

import "errors"

// ErrShortRead is returned when a read would run past the end of the buffer.
var ErrShortRead = errors.New("bitio: short read")

// ErrBadFormat is returned when a format code cannot be parsed.
var ErrBadFormat = errors.New("bitio: invalid format code")

// ErrBadHex is returned when a hex-encoded input string cannot be decoded.
var ErrBadHex = errors.New("bitio: invalid hex input")
