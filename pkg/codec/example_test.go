package codec_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/ssargent/pixelsteg/pkg/codec"
)

// ExampleHeaderCodec_basic demonstrates basic header encoding and decoding
func ExampleHeaderCodec_basic() {
	c := codec.NewHeaderCodec()

	encoded, err := c.Encode(&codec.V1Header{
		Placement: codec.FixedOffset{StartPixel: 1200},
		DataMask:  0x0100000000000000,
		DataLen:   23,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Encoded %d bytes\n", len(encoded))

	h, err := c.Decode(encoded)
	if err != nil {
		log.Fatal(err)
	}

	v1 := h.(*codec.V1Header)
	fmt.Printf("Version: %d\n", v1.Version())
	fmt.Printf("Start pixel: %d\n", v1.StartPixel())
	fmt.Printf("Data mask: %s\n", v1.DataMask)
	fmt.Printf("Data length: %d\n", v1.DataLen)

	// Output:
	// Encoded 33 bytes
	// Version: 1
	// Start pixel: 1200
	// Data mask: 0x0100000000000000
	// Data length: 23
}

// ExampleHeaderCodec_errorHandling demonstrates telling "nothing embedded"
// apart from "embedded but damaged"
func ExampleHeaderCodec_errorHandling() {
	c := codec.NewHeaderCodec()

	encoded, err := c.Encode(&codec.V1Header{Placement: codec.FixedOffset{StartPixel: 24}, DataLen: 1})
	if err != nil {
		log.Fatal(err)
	}

	blank := make([]byte, len(encoded))
	if _, err := c.Decode(blank); errors.Is(err, codec.ErrMagicMismatch) {
		fmt.Println("nothing embedded")
	}

	encoded[5] ^= 0x01
	if _, err := c.Decode(encoded); errors.Is(err, codec.ErrChecksumMismatch) {
		fmt.Println("header damaged")
	}

	// Output:
	// nothing embedded
	// header damaged
}

// ExampleChecksum shows the CRC-32/CKSUM check value
func ExampleChecksum() {
	fmt.Printf("%#08x\n", codec.Checksum([]byte("123456789")))

	// Output:
	// 0x765e7680
}
