//go:build bench
// +build bench

package codec

import (
	"bytes"
	"fmt"
	"testing"
)

func BenchmarkHeaderCodec_Encode(b *testing.B) {
	codec := NewHeaderCodec()
	h := &V1Header{Placement: FixedOffset{StartPixel: 1200}, DataMask: 0x0101010000000000, DataLen: 4096}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Encode(h); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHeaderCodec_Decode(b *testing.B) {
	codec := NewHeaderCodec()
	encoded, err := codec.Encode(&V1Header{Placement: FixedOffset{StartPixel: 1200}, DataMask: 0x0101010000000000, DataLen: 4096})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := codec.Decode(encoded); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	sizes := []int{26, 1024, 65535}

	for _, size := range sizes {
		data := bytes.Repeat([]byte{0xA5}, size)
		b.Run(fmt.Sprintf("%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				Checksum(data)
			}
		})
	}
}
