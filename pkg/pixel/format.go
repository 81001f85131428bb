// Package pixel describes the raw pixel layouts pixelsteg can embed into and
// converts decoded images to and from them.
package pixel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormatUnsupported is returned for colour formats outside the supported set
var ErrFormatUnsupported = errors.New("unsupported pixel format")

// Format identifies a supported pixel layout
type Format uint8

const (
	// FormatUnknown is the zero value and is never valid
	FormatUnknown Format = iota
	// FormatRGB8 is three 8-bit channels per pixel
	FormatRGB8
	// FormatRGBA8 is four 8-bit channels per pixel
	FormatRGBA8
)

type layout struct {
	name            string
	channels        int
	bytesPerChannel int
}

var layouts = map[Format]layout{
	FormatRGB8:  {name: "rgb8", channels: 3, bytesPerChannel: 1},
	FormatRGBA8: {name: "rgba8", channels: 4, bytesPerChannel: 1},
}

// Validate returns ErrFormatUnsupported unless f is a supported format.
func (f Format) Validate() error {
	if _, ok := layouts[f]; !ok {
		return fmt.Errorf("%w: %d", ErrFormatUnsupported, uint8(f))
	}
	return nil
}

// Channels returns the number of channels per pixel
func (f Format) Channels() int { return layouts[f].channels }

// BytesPerChannel returns the width of one channel in bytes
func (f Format) BytesPerChannel() int { return layouts[f].bytesPerChannel }

// Stride returns the number of bytes per pixel
func (f Format) Stride() int { return f.Channels() * f.BytesPerChannel() }

// BitsPerPixel returns the number of bits per pixel
func (f Format) BitsPerPixel() int { return f.Stride() * 8 }

func (f Format) String() string {
	if l, ok := layouts[f]; ok {
		return l.name
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseFormat converts a name such as "rgb8" back to a Format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, l := range layouts {
		if l.name == name {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrFormatUnsupported, name)
}
