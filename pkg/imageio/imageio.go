// Package imageio moves pixel buffers in and out of lossless image
// containers.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/ssargent/pixelsteg/pkg/pixel"
)

// ErrContainerUnsupported is returned for image containers other than PNG and BMP
var ErrContainerUnsupported = errors.New("unsupported image container")

// Container is a lossless image file format
type Container string

const (
	PNG Container = "png"
	BMP Container = "bmp"
)

// ContentType returns the MIME type of the container
func (c Container) ContentType() string {
	switch c {
	case BMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

// ParseContainer accepts "png" or "bmp", case-insensitively.
func ParseContainer(name string) (Container, error) {
	switch c := Container(strings.ToLower(strings.TrimSpace(name))); c {
	case PNG, BMP:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrContainerUnsupported, name)
}

// Decode reads a PNG or BMP image and flattens it into a pixel buffer.
func Decode(r io.Reader) (*pixel.Buffer, Container, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrContainerUnsupported, err)
		}
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	c, err := ParseContainer(name)
	if err != nil {
		return nil, "", err
	}

	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return buf, c, nil
}

// DecodeBytes is Decode over an in-memory image.
func DecodeBytes(data []byte) (*pixel.Buffer, Container, error) {
	return Decode(bytes.NewReader(data))
}

// Supports reports whether c can store format without losing channels.
// BMP has no alpha channel, so RGBA8 buffers must be written as PNG.
func Supports(c Container, format pixel.Format) error {
	switch c {
	case PNG:
		return nil
	case BMP:
		if format == pixel.FormatRGBA8 {
			return fmt.Errorf("%w: %s cannot store %s pixels", ErrContainerUnsupported, c, format)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrContainerUnsupported, string(c))
}

// Encode writes buf to w in container c.
func Encode(w io.Writer, buf *pixel.Buffer, c Container) error {
	if err := Supports(c, buf.Format); err != nil {
		return err
	}

	img, err := buf.Image()
	if err != nil {
		return err
	}

	switch c {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	return nil
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(buf *pixel.Buffer, c Container) ([]byte, error) {
	var out bytes.Buffer
	if err := Encode(&out, buf, c); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
