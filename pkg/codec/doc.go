// Package codec provides header serialization and deserialization for pixelsteg.
//
// The header is written into the first pixels of an image, before the
// payload, and tells a decoder where the payload is, which bits of each
// pixel carry it and how long it is. Nothing else is needed to recover a
// payload from an image.
//
// # Frame Format
//
// Headers are framed in the following binary structure:
//
//	[Magic(1)][HeaderLen(2)][Payload(HeaderLen)][CRC32(4)]
//
// Fields:
//   - Magic: always 0x42; anything else means no header is present
//   - HeaderLen: length of Payload in bytes (big-endian)
//   - Payload: the versioned header (see below)
//   - CRC32: CRC-32/CKSUM of Payload only (big-endian)
//
// # Header Payload
//
// Version 1 encodes a tagged union with fixed-width big-endian fields:
//
//	[Version(1)=1][Placement(1)=0][StartPixel(8)][DataMask(8)][DataLen(8)]
//
// Placement 0 is a fixed start pixel. DataMask uses the bitmask package
// convention: bit 63-i flags in-pixel bit i. DataLen is the payload length
// in bytes, not pixels. The layout of a version is only a contract between
// encoder and decoder of that same version.
//
// # CRC32 Calculation
//
// The checksum is CRC-32/CKSUM (the POSIX cksum polynomial 0x04C11DB7,
// non-reflected, initial value 0, final xor 0xFFFFFFFF, without cksum's
// trailing length). It covers the header payload only, never the magic or
// length bytes.
//
// # Usage
//
//	c := codec.NewHeaderCodec()
//
//	raw, err := c.Encode(&codec.V1Header{
//	    Placement: codec.FixedOffset{StartPixel: 1200},
//	    DataMask:  0x0100000000000000,
//	    DataLen:   23,
//	})
//	if err != nil {
//	    return err
//	}
//
//	h, err := c.Decode(raw)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Decode distinguishes three failures:
//   - ErrMagicMismatch: no header present
//   - ErrChecksumMismatch: a header is present but damaged (*ChecksumError
//     carries the expected and found values)
//   - ErrDecodeMalformed: the frame is truncated, or the payload has an
//     unknown version or placement tag or the wrong length
//
// Unknown versions always fail; they never fall back to a default.
//
// # Thread Safety
//
// HeaderCodec instances are stateless and safe for concurrent use.
package codec
