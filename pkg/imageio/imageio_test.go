package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pixelsteg/pkg/pixel"
)

func gradient(t *testing.T, w, h int, format pixel.Format) *pixel.Buffer {
	t.Helper()
	buf, err := pixel.NewBuffer(w, h, format)
	require.NoError(t, err)
	for i := range buf.Pix {
		buf.Pix[i] = byte(i * 31)
	}
	if format == pixel.FormatRGBA8 {
		for i := 3; i < len(buf.Pix); i += 4 {
			buf.Pix[i] = 0x80 | byte(i)
		}
	}
	return buf
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name      string
		format    pixel.Format
		container Container
	}{
		{"png rgb8", pixel.FormatRGB8, PNG},
		{"png rgba8", pixel.FormatRGBA8, PNG},
		{"bmp rgb8", pixel.FormatRGB8, BMP},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := gradient(t, 17, 9, tc.format)

			data, err := EncodeBytes(buf, tc.container)
			require.NoError(t, err)

			back, c, err := DecodeBytes(data)
			require.NoError(t, err)
			assert.Equal(t, tc.container, c)
			assert.Equal(t, buf, back)
		})
	}
}

func TestEncode_BMPRejectsAlpha(t *testing.T) {
	buf := gradient(t, 4, 1, pixel.FormatRGBA8)

	var out bytes.Buffer
	err := Encode(&out, buf, BMP)
	require.ErrorIs(t, err, ErrContainerUnsupported)
	assert.Zero(t, out.Len())

	_, err = EncodeBytes(buf, BMP)
	assert.ErrorIs(t, err, ErrContainerUnsupported)
}

func TestSupports(t *testing.T) {
	testCases := []struct {
		name      string
		container Container
		format    pixel.Format
		ok        bool
	}{
		{"png rgb8", PNG, pixel.FormatRGB8, true},
		{"png rgba8", PNG, pixel.FormatRGBA8, true},
		{"bmp rgb8", BMP, pixel.FormatRGB8, true},
		{"bmp rgba8", BMP, pixel.FormatRGBA8, false},
		{"unknown container", Container("tiff"), pixel.FormatRGB8, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Supports(tc.container, tc.format)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrContainerUnsupported)
			}
		})
	}
}

func TestDecode_UnsupportedContainer(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var data bytes.Buffer
	require.NoError(t, gif.Encode(&data, img, nil))

	_, _, err := DecodeBytes(data.Bytes())
	assert.ErrorIs(t, err, ErrContainerUnsupported)

	_, _, err = DecodeBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrContainerUnsupported)
}

func TestDecode_UnsupportedPixelFormat(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	var data bytes.Buffer
	require.NoError(t, png.Encode(&data, img))

	_, _, err := DecodeBytes(data.Bytes())
	assert.ErrorIs(t, err, pixel.ErrFormatUnsupported)
}

func TestParseContainer(t *testing.T) {
	c, err := ParseContainer(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, PNG, c)
	assert.Equal(t, "image/png", c.ContentType())

	c, err = ParseContainer("bmp")
	require.NoError(t, err)
	assert.Equal(t, "image/bmp", c.ContentType())

	_, err = ParseContainer("jpeg")
	assert.ErrorIs(t, err, ErrContainerUnsupported)
}

func TestEncode_UnknownContainer(t *testing.T) {
	buf := gradient(t, 2, 2, pixel.FormatRGB8)
	_, err := EncodeBytes(buf, Container("tiff"))
	assert.ErrorIs(t, err, ErrContainerUnsupported)
}
