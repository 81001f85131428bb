//go:build fuzz
// +build fuzz

package codec

import (
	"errors"
	"testing"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
)

// FuzzHeaderCodec_RoundTrip tests encode/decode round-trip with random inputs
func FuzzHeaderCodec_RoundTrip(f *testing.F) {
	codec := NewHeaderCodec()

	f.Add(uint64(0), uint64(0), uint64(0))
	f.Add(uint64(24), uint64(0x0100000000000000), uint64(23))
	f.Add(^uint64(0), ^uint64(0), ^uint64(0))

	f.Fuzz(func(t *testing.T, start, mask, length uint64) {
		h := &V1Header{Placement: FixedOffset{StartPixel: start}, DataMask: bitmask.Mask(mask), DataLen: length}

		encoded, err := codec.Encode(h)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}

		decoded, err := codec.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}

		v1 := decoded.(*V1Header)
		if v1.StartPixel() != start || uint64(v1.DataMask) != mask || v1.DataLen != length {
			t.Errorf("Round trip mismatch: got %+v, want %+v", v1, h)
		}
	})
}

// FuzzHeaderCodec_Decode feeds arbitrary bytes to Decode; it must fail with
// one of the documented errors and never panic
func FuzzHeaderCodec_Decode(f *testing.F) {
	codec := NewHeaderCodec()

	f.Add([]byte{})
	f.Add([]byte{Magic, 0x00, 0x1A})
	f.Add([]byte{0x00, 0x01, 0x02, 0x03})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, err := codec.Decode(data)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrMagicMismatch) && !errors.Is(err, ErrChecksumMismatch) && !errors.Is(err, ErrDecodeMalformed) {
			t.Errorf("Unexpected error type: %v", err)
		}
	})
}
