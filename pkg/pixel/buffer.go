package pixel

import (
	"fmt"
	"image"
)

// Buffer is a decoded image flattened to Stride() bytes per pixel, rows
// top to bottom with no padding.
type Buffer struct {
	Pix    []byte
	Width  int
	Height int
	Format Format
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height int, format Format) (*Buffer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	return &Buffer{
		Pix:    make([]byte, width*height*format.Stride()),
		Width:  width,
		Height: height,
		Format: format,
	}, nil
}

// Stride returns bytes per pixel
func (b *Buffer) Stride() int {
	return b.Format.Stride()
}

// PixelCount returns Width*Height
func (b *Buffer) PixelCount() uint64 {
	return uint64(b.Width) * uint64(b.Height)
}

// Validate checks that Pix matches the declared geometry and format.
func (b *Buffer) Validate() error {
	if err := b.Format.Validate(); err != nil {
		return err
	}
	if want := b.Width * b.Height * b.Stride(); len(b.Pix) != want {
		return fmt.Errorf("pixel buffer is %d bytes, %dx%d %s needs %d", len(b.Pix), b.Width, b.Height, b.Format, want)
	}
	return nil
}

// FromImage copies img into a Buffer. Fully opaque 8-bit images become
// FormatRGB8, translucent non-premultiplied ones FormatRGBA8. Everything
// else is rejected with ErrFormatUnsupported.
func FromImage(img image.Image) (*Buffer, error) {
	switch src := img.(type) {
	case *image.RGBA:
		if !src.Opaque() {
			return nil, fmt.Errorf("%w: premultiplied translucent rgba", ErrFormatUnsupported)
		}
		return packRGB(src.Pix, src.Stride, src.Rect), nil
	case *image.NRGBA:
		if src.Opaque() {
			return packRGB(src.Pix, src.Stride, src.Rect), nil
		}
		return packRGBA(src.Pix, src.Stride, src.Rect), nil
	case nil:
		return nil, fmt.Errorf("%w: nil image", ErrFormatUnsupported)
	default:
		return nil, fmt.Errorf("%w: %T", ErrFormatUnsupported, img)
	}
}

func packRGB(pix []byte, stride int, rect image.Rectangle) *Buffer {
	w, h := rect.Dx(), rect.Dy()
	out := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return &Buffer{Pix: out, Width: w, Height: h, Format: FormatRGB8}
}

func packRGBA(pix []byte, stride int, rect image.Rectangle) *Buffer {
	w, h := rect.Dx(), rect.Dy()
	out := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		out = append(out, pix[y*stride:y*stride+w*4]...)
	}
	return &Buffer{Pix: out, Width: w, Height: h, Format: FormatRGBA8}
}

// Image converts the buffer back to an image.Image suitable for a lossless
// encoder: *image.RGBA with opaque alpha for FormatRGB8, *image.NRGBA for
// FormatRGBA8.
func (b *Buffer) Image() (image.Image, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, b.Width, b.Height)
	switch b.Format {
	case FormatRGB8:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i < len(b.Pix); i, j = i+3, j+4 {
			img.Pix[j] = b.Pix[i]
			img.Pix[j+1] = b.Pix[i+1]
			img.Pix[j+2] = b.Pix[i+2]
			img.Pix[j+3] = 0xFF
		}
		return img, nil
	case FormatRGBA8:
		img := image.NewNRGBA(rect)
		copy(img.Pix, b.Pix)
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFormatUnsupported, b.Format)
}
