// Package bitmask translates 64-bit pixel masks into in-pixel bit positions.
//
// A Mask is MSB-first and right-padded: bit (63-i) of the mask flags whether
// bit position i inside a pixel carries data. Position 0 is the most
// significant bit of the first byte of the pixel.
package bitmask

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxPixelBits is the widest pixel a Mask can describe.
const MaxPixelBits = 64

// ErrEmptyOffsetMap is returned when a mask selects no bit inside the pixel.
// Callers must never build one; it signals a programming error.
var ErrEmptyOffsetMap = errors.New("offset map is empty")

// Mask flags which in-pixel bit positions carry data
type Mask uint64

// OffsetMap is the ordered list of in-pixel bit indices selected by a Mask
type OffsetMap []int

// Has reports whether in-pixel bit position i is selected.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= MaxPixelBits {
		return false
	}
	return m&(1<<(MaxPixelBits-1-i)) != 0
}

// Count returns the number of selected bit positions.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// String renders the mask as hex, e.g. 0x0f0f0f0000000000.
func (m Mask) String() string {
	return fmt.Sprintf("%#016x", uint64(m))
}

// BuildOffsetMap expands mask into the ascending in-pixel bit indices it
// selects within the first pixelBitWidth positions.
func BuildOffsetMap(mask Mask, pixelBitWidth int) (OffsetMap, error) {
	if pixelBitWidth > MaxPixelBits {
		pixelBitWidth = MaxPixelBits
	}

	offsets := make(OffsetMap, 0, mask.Count())
	for i := 0; i < pixelBitWidth; i++ {
		if mask.Has(i) {
			offsets = append(offsets, i)
		}
	}

	if len(offsets) == 0 {
		return nil, fmt.Errorf("mask %s over %d bits: %w", mask, pixelBitWidth, ErrEmptyOffsetMap)
	}
	return offsets, nil
}

// AllBits returns the mask selecting every bit of a pixel that is stride
// bytes wide. It is the mask used for the header region.
func AllBits(stride int) Mask {
	width := stride * 8
	switch {
	case width <= 0:
		return 0
	case width >= MaxPixelBits:
		return Mask(^uint64(0))
	}
	return Mask(^uint64(0) << (MaxPixelBits - width))
}

// Distribute spreads bitsPerPixel data bits over channels. Every channel
// gets bitsPerPixel/channels bits and the first bitsPerPixel%channels
// channels get one more. Inside a channel the low-order bits are used.
func Distribute(bitsPerPixel, channels, bytesPerChannel int) Mask {
	if channels <= 0 || bytesPerChannel <= 0 || bitsPerPixel <= 0 {
		return 0
	}

	channelWidth := bytesPerChannel * 8
	base := bitsPerPixel / channels
	extra := bitsPerPixel % channels

	var mask Mask
	for c := 0; c < channels; c++ {
		n := base
		if c < extra {
			n++
		}
		if n > channelWidth {
			n = channelWidth
		}

		end := (c + 1) * channelWidth
		for i := end - n; i < end; i++ {
			if i < MaxPixelBits {
				mask |= 1 << (MaxPixelBits - 1 - i)
			}
		}
	}
	return mask
}

// ChannelBits counts the selected bits in each channel of mask.
func ChannelBits(mask Mask, channels, bytesPerChannel int) []int {
	channelWidth := bytesPerChannel * 8
	counts := make([]int, channels)
	for c := range counts {
		for i := c * channelWidth; i < (c+1)*channelWidth; i++ {
			if mask.Has(i) {
				counts[c]++
			}
		}
	}
	return counts
}
