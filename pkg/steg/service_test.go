package steg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/pixelsteg/pkg/imageio"
	"github.com/ssargent/pixelsteg/pkg/payload"
	"github.com/ssargent/pixelsteg/pkg/pixel"
)

func encodedImage(t *testing.T, w, h int, format pixel.Format, c imageio.Container) []byte {
	t.Helper()
	buf := noisyBuffer(t, w, h, format)
	if format == pixel.FormatRGBA8 {
		// Keep at least one pixel translucent so the file decodes as RGBA8.
		buf.Pix[len(buf.Pix)-1] = 0x10
	}
	data, err := imageio.EncodeBytes(buf, c)
	require.NoError(t, err)
	return data
}

func newTestService(seed uint64) *Service {
	return NewService(newTestEmbedder(seed), nil)
}

func TestService_RoundTrip(t *testing.T) {
	message := []byte("Such Message, much wow")

	testCases := []struct {
		name      string
		format    pixel.Format
		container imageio.Container
		output    imageio.Container
		compress  bool
	}{
		{"png rgb8", pixel.FormatRGB8, imageio.PNG, "", false},
		{"png rgba8", pixel.FormatRGBA8, imageio.PNG, "", false},
		{"bmp rgb8", pixel.FormatRGB8, imageio.BMP, "", false},
		{"png to bmp", pixel.FormatRGB8, imageio.PNG, imageio.BMP, false},
		{"compressed", pixel.FormatRGB8, imageio.PNG, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(11)
			src := encodedImage(t, 64, 48, tc.format, tc.container)

			res, err := s.EncodeImage(src, message, EncodeOptions{Container: tc.output, Compress: tc.compress})
			require.NoError(t, err)

			want := tc.container
			if tc.output != "" {
				want = tc.output
			}
			assert.Equal(t, want, res.Container)
			assert.Equal(t, 1, res.Plan.BitsPerPixel)

			got, err := s.DecodeImage(res.Image, tc.compress)
			require.NoError(t, err)
			assert.Equal(t, message, got)

			report, err := s.StatImage(res.Image)
			require.NoError(t, err)
			assert.True(t, report.HeaderFound)
			assert.Equal(t, string(want), report.Container)
			assert.Equal(t, uint64(res.PayloadBytes), report.DataLen)
		})
	}
}

func TestService_CompressedPayloadIsSmaller(t *testing.T) {
	s := newTestService(12)
	src := encodedImage(t, 64, 64, pixel.FormatRGB8, imageio.PNG)
	data := bytes.Repeat([]byte("much wow "), 200)

	res, err := s.EncodeImage(src, data, EncodeOptions{Compress: true})
	require.NoError(t, err)
	assert.Less(t, res.PayloadBytes, len(data))

	raw, err := s.DecodeImage(res.Image, false)
	require.NoError(t, err)
	assert.Len(t, raw, res.PayloadBytes)

	got, err := s.DecodeImage(res.Image, true)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestService_DecompressUncompressedPayload(t *testing.T) {
	s := newTestService(13)
	src := encodedImage(t, 64, 64, pixel.FormatRGB8, imageio.PNG)

	res, err := s.EncodeImage(src, []byte("plain text"), EncodeOptions{})
	require.NoError(t, err)

	_, err = s.DecodeImage(res.Image, true)
	assert.ErrorIs(t, err, payload.ErrCorrupt)
}

func TestService_Errors(t *testing.T) {
	s := newTestService(14)

	t.Run("not an image", func(t *testing.T) {
		_, err := s.EncodeImage([]byte("definitely not a png"), []byte("x"), EncodeOptions{})
		assert.ErrorIs(t, err, imageio.ErrContainerUnsupported)
	})

	t.Run("payload too large", func(t *testing.T) {
		src := encodedImage(t, 8, 8, pixel.FormatRGB8, imageio.PNG)
		_, err := s.EncodeImage(src, make([]byte, 4096), EncodeOptions{})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("png rgba8 to bmp", func(t *testing.T) {
		src := encodedImage(t, 64, 48, pixel.FormatRGBA8, imageio.PNG)
		res, err := s.EncodeImage(src, []byte("x"), EncodeOptions{Container: imageio.BMP})
		assert.ErrorIs(t, err, imageio.ErrContainerUnsupported)
		assert.Nil(t, res)
	})

	t.Run("clean image has no header", func(t *testing.T) {
		buf, err := pixel.NewBuffer(32, 32, pixel.FormatRGB8)
		require.NoError(t, err)
		src, err := imageio.EncodeBytes(buf, imageio.PNG)
		require.NoError(t, err)

		_, err = s.DecodeImage(src, false)
		assert.ErrorIs(t, err, ErrMagicMismatch)

		report, err := s.StatImage(src)
		require.NoError(t, err)
		assert.False(t, report.HeaderFound)
		assert.False(t, report.Damaged)
		assert.Equal(t, "png", report.Container)
	})
}
