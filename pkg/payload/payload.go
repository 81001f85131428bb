// Package payload compresses payloads before they are embedded.
package payload

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// MaxDecodedSize bounds decompression so a damaged or hostile payload
// cannot exhaust memory.
const MaxDecodedSize = 256 << 20

// ErrCorrupt is returned when a compressed payload cannot be decoded
var ErrCorrupt = errors.New("compressed payload is corrupt")

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic(fmt.Sprintf("payload: creating zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxDecodedSize))
	if err != nil {
		panic(fmt.Sprintf("payload: creating zstd decoder: %v", err))
	}
}

// Compress returns data as a single zstd frame.
func Compress(data []byte) []byte {
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2+16))
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return out, nil
}
