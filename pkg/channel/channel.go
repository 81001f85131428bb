// Package channel reads and writes MSB-first bitstreams across a raw pixel
// buffer. It knows nothing about colour channels: a pixel is stride bytes
// and an offset map names which of its bits carry data.
package channel

import (
	"errors"
	"fmt"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
)

// ErrBoundsExceeded is returned when a read or write would run past the
// buffer. A correct capacity plan never triggers it.
var ErrBoundsExceeded = errors.New("pixel buffer bounds exceeded")

// BoundsError describes an out-of-range access
type BoundsError struct {
	StartPixel int // First pixel of the access
	EndPixel   int // One past the last pixel the access needs
	Pixels     int // Pixels available in the buffer
	Offset     int // Offending in-pixel bit offset, or -1
}

func (e *BoundsError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%v: bit offset %d outside pixel", ErrBoundsExceeded, e.Offset)
	}
	return fmt.Sprintf("%v: pixels [%d,%d) requested, buffer has %d", ErrBoundsExceeded, e.StartPixel, e.EndPixel, e.Pixels)
}

func (e *BoundsError) Unwrap() error {
	return ErrBoundsExceeded
}

// PixelsFor returns how many pixels nBytes occupy at bitsPerPixel.
func PixelsFor(nBytes, bitsPerPixel int) int {
	if nBytes <= 0 || bitsPerPixel <= 0 {
		return 0
	}
	return (nBytes*8 + bitsPerPixel - 1) / bitsPerPixel
}

// Fits checks that nBytes starting at startPixel stay inside a buffer of
// bufLen bytes.
func Fits(bufLen, stride int, offsets bitmask.OffsetMap, startPixel, nBytes int) error {
	if len(offsets) == 0 {
		return bitmask.ErrEmptyOffsetMap
	}
	if stride <= 0 {
		return fmt.Errorf("invalid stride %d: %w", stride, ErrBoundsExceeded)
	}
	for _, off := range offsets {
		if off < 0 || off >= stride*8 {
			return &BoundsError{Offset: off}
		}
	}

	pixels := bufLen / stride
	end := startPixel + PixelsFor(nBytes, len(offsets))
	if startPixel < 0 || end > pixels || (nBytes > 0 && startPixel >= pixels) {
		return &BoundsError{StartPixel: startPixel, EndPixel: end, Pixels: pixels, Offset: -1}
	}
	return nil
}

// ReadBits extracts nBytes from buf, walking pixels upward from startPixel
// and visiting offsets in order inside each pixel.
func ReadBits(buf []byte, stride int, offsets bitmask.OffsetMap, startPixel, nBytes int) ([]byte, error) {
	if err := Fits(len(buf), stride, offsets, startPixel, nBytes); err != nil {
		return nil, err
	}

	out := make([]byte, 0, nBytes)
	var acc byte
	var nbit int

	for pix := startPixel; len(out) < nBytes; pix++ {
		pixel := buf[pix*stride : (pix+1)*stride]
		for _, idx := range offsets {
			bit := (pixel[idx/8] >> (7 - idx%8)) & 1
			acc = acc<<1 | bit
			nbit++
			if nbit == 8 {
				out = append(out, acc)
				acc, nbit = 0, 0
				if len(out) == nBytes {
					break
				}
			}
		}
	}

	return out, nil
}

// WriteBits stores data into buf, MSB-first, at the positions ReadBits would
// read them from. The buffer is untouched when the write does not fit.
func WriteBits(buf []byte, stride int, offsets bitmask.OffsetMap, startPixel int, data []byte) error {
	if err := Fits(len(buf), stride, offsets, startPixel, len(data)); err != nil {
		return err
	}

	pos := 0
	var nbit int

	for pix := startPixel; pos < len(data); pix++ {
		pixel := buf[pix*stride : (pix+1)*stride]
		for _, idx := range offsets {
			sel := byte(0x80) >> (idx % 8)
			pixel[idx/8] &^= sel
			if data[pos]&(0x80>>nbit) != 0 {
				pixel[idx/8] |= sel
			}

			nbit++
			if nbit == 8 {
				pos++
				nbit = 0
				if pos == len(data) {
					break
				}
			}
		}
	}

	return nil
}
