package payload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short text", []byte("Such Message, much wow")},
		{"repetitive", bytes.Repeat([]byte("wow "), 4096)},
		{"binary", []byte{0x00, 0xFF, 0x28, 0xB5, 0x2F, 0xFD}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			compressed := Compress(tc.data)

			out, err := Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, len(tc.data), len(out))
			assert.True(t, bytes.Equal(tc.data, out))
		})
	}
}

func TestCompress_ShrinksRepetitiveInput(t *testing.T) {
	data := bytes.Repeat([]byte("much wow "), 1000)
	assert.Less(t, len(Compress(data)), len(data)/10)
}

func TestDecompress_Corrupt(t *testing.T) {
	_, err := Decompress([]byte("not a zstd frame"))
	assert.ErrorIs(t, err, ErrCorrupt)
}
