package steg

import (
	"errors"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
	"github.com/ssargent/pixelsteg/pkg/capacity"
	"github.com/ssargent/pixelsteg/pkg/channel"
	"github.com/ssargent/pixelsteg/pkg/codec"
	"github.com/ssargent/pixelsteg/pkg/pixel"
)

// Errors surfaced by Embed and Extract. Match them with errors.Is.
var (
	ErrFormatUnsupported = pixel.ErrFormatUnsupported
	ErrCapacityExceeded  = capacity.ErrCapacityExceeded
	ErrMagicMismatch     = codec.ErrMagicMismatch
	ErrChecksumMismatch  = codec.ErrChecksumMismatch
	ErrDecodeMalformed   = codec.ErrDecodeMalformed
	ErrBoundsExceeded    = channel.ErrBoundsExceeded
	ErrEmptyOffsetMap    = bitmask.ErrEmptyOffsetMap
)

// IsFatal reports whether err is an internal invariant violation rather
// than a problem with the image or payload. Fatal errors mean a bug; the
// others can be reported to the user and retried with different input.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBoundsExceeded) || errors.Is(err, ErrEmptyOffsetMap)
}
