package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
)

// Magic marks the first byte of every header frame
const Magic byte = 0x42

const (
	// PrefixSize is Magic + HeaderLen
	PrefixSize = 3
	// CRCSize is the trailing checksum
	CRCSize = 4

	// Version1 is the only header version written today
	Version1 uint8 = 1

	placementFixedOffset uint8 = 0

	v1PayloadSize = 1 + 1 + 8 + 8 + 8
)

// Errors
var (
	ErrMagicMismatch    = errors.New("no header: magic mismatch")
	ErrChecksumMismatch = errors.New("header checksum mismatch")
	ErrDecodeMalformed  = errors.New("malformed header")
)

// ChecksumError carries the checksum found in a frame and the one
// recomputed from its payload
type ChecksumError struct {
	Expected uint32
	Found    uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%v: expected %#08x, found %#08x", ErrChecksumMismatch, e.Expected, e.Found)
}

func (e *ChecksumError) Unwrap() error {
	return ErrChecksumMismatch
}

// Header is a versioned header. V1Header is the only implementation.
type Header interface {
	Version() uint8
	isHeader()
}

// Placement says where the payload starts. FixedOffset is the only
// implementation.
type Placement interface {
	placementTag() uint8
}

// FixedOffset places the payload at a fixed pixel index
type FixedOffset struct {
	StartPixel uint64
}

func (FixedOffset) placementTag() uint8 { return placementFixedOffset }

// V1Header describes a payload embedded with one data mask from one start pixel
type V1Header struct {
	Placement Placement
	DataMask  bitmask.Mask // In-pixel bits carrying payload data
	DataLen   uint64       // Payload length in bytes
}

// Version returns Version1
func (*V1Header) Version() uint8 { return Version1 }
func (*V1Header) isHeader()      {}

// StartPixel returns the first payload pixel.
func (h *V1Header) StartPixel() uint64 {
	if fo, ok := h.Placement.(FixedOffset); ok {
		return fo.StartPixel
	}
	return 0
}

// Frame is a header payload wrapped with magic, length and checksum
type Frame struct {
	Magic     byte
	HeaderLen uint16
	Payload   []byte
	CRC32     uint32
}

// NewFrame wraps payload and computes its checksum.
func NewFrame(payload []byte) (*Frame, error) {
	if len(payload) > int(^uint16(0)) {
		return nil, fmt.Errorf("header payload too large: %d bytes", len(payload))
	}
	return &Frame{
		Magic:     Magic,
		HeaderLen: uint16(len(payload)),
		Payload:   payload,
		CRC32:     Checksum(payload),
	}, nil
}

// Size returns the encoded frame length
func (f *Frame) Size() int {
	return PrefixSize + len(f.Payload) + CRCSize
}

// Bytes serializes the frame
func (f *Frame) Bytes() []byte {
	buf := make([]byte, f.Size())
	buf[0] = f.Magic
	binary.BigEndian.PutUint16(buf[1:], f.HeaderLen)
	copy(buf[PrefixSize:], f.Payload)
	binary.BigEndian.PutUint32(buf[PrefixSize+len(f.Payload):], f.CRC32)
	return buf
}

// Validate checks the magic byte and the payload checksum
func (f *Frame) Validate() error {
	if f.Magic != Magic {
		return fmt.Errorf("%w: found %#02x, want %#02x", ErrMagicMismatch, f.Magic, Magic)
	}
	if crc := Checksum(f.Payload); crc != f.CRC32 {
		return &ChecksumError{Expected: crc, Found: f.CRC32}
	}
	return nil
}

// PeekLength reads the magic and length prefix and returns the size of the
// whole frame. It needs at least PrefixSize bytes.
func PeekLength(prefix []byte) (int, error) {
	if len(prefix) < PrefixSize {
		return 0, fmt.Errorf("%w: %d byte prefix, need %d", ErrDecodeMalformed, len(prefix), PrefixSize)
	}
	if prefix[0] != Magic {
		return 0, fmt.Errorf("%w: found %#02x, want %#02x", ErrMagicMismatch, prefix[0], Magic)
	}
	return PrefixSize + int(binary.BigEndian.Uint16(prefix[1:])) + CRCSize, nil
}

// ParseFrame splits raw bytes into a Frame without validating it.
func ParseFrame(data []byte) (*Frame, error) {
	size, err := PeekLength(data)
	if err != nil {
		return nil, err
	}
	if len(data) < size {
		return nil, fmt.Errorf("%w: frame is %d bytes, have %d", ErrDecodeMalformed, size, len(data))
	}

	n := size - PrefixSize - CRCSize
	return &Frame{
		Magic:     data[0],
		HeaderLen: uint16(n),
		Payload:   data[PrefixSize : PrefixSize+n],
		CRC32:     binary.BigEndian.Uint32(data[PrefixSize+n:]),
	}, nil
}

// HeaderCodec handles serialization and deserialization of headers
type HeaderCodec struct{}

// NewHeaderCodec creates a new header codec instance
func NewHeaderCodec() *HeaderCodec {
	return &HeaderCodec{}
}

// Encode serializes h into a complete frame
func (c *HeaderCodec) Encode(h Header) ([]byte, error) {
	payload, err := c.marshal(h)
	if err != nil {
		return nil, err
	}
	frame, err := NewFrame(payload)
	if err != nil {
		return nil, err
	}
	return frame.Bytes(), nil
}

// Decode validates a frame and deserializes its header. Bytes after the
// frame are ignored.
func (c *HeaderCodec) Decode(data []byte) (Header, error) {
	frame, err := ParseFrame(data)
	if err != nil {
		return nil, err
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	return c.unmarshal(frame.Payload)
}

// MaxFrameSize is the size of the largest frame Encode produces.
func MaxFrameSize() int {
	return PrefixSize + v1PayloadSize + CRCSize
}

func (c *HeaderCodec) marshal(h Header) ([]byte, error) {
	switch v := h.(type) {
	case *V1Header:
		if v.Placement == nil {
			return nil, errors.New("v1 header has no placement")
		}
		buf := make([]byte, v1PayloadSize)
		buf[0] = Version1
		buf[1] = v.Placement.placementTag()
		binary.BigEndian.PutUint64(buf[2:], v.StartPixel())
		binary.BigEndian.PutUint64(buf[10:], uint64(v.DataMask))
		binary.BigEndian.PutUint64(buf[18:], v.DataLen)
		return buf, nil
	case nil:
		return nil, errors.New("nil header")
	default:
		return nil, fmt.Errorf("unsupported header type %T", h)
	}
}

func (c *HeaderCodec) unmarshal(payload []byte) (Header, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecodeMalformed)
	}

	switch version := payload[0]; version {
	case Version1:
		if len(payload) != v1PayloadSize {
			return nil, fmt.Errorf("%w: v1 payload is %d bytes, want %d", ErrDecodeMalformed, len(payload), v1PayloadSize)
		}
		if tag := payload[1]; tag != placementFixedOffset {
			return nil, fmt.Errorf("%w: unknown placement tag %d", ErrDecodeMalformed, tag)
		}
		return &V1Header{
			Placement: FixedOffset{StartPixel: binary.BigEndian.Uint64(payload[2:])},
			DataMask:  bitmask.Mask(binary.BigEndian.Uint64(payload[10:])),
			DataLen:   binary.BigEndian.Uint64(payload[18:]),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown header version %d", ErrDecodeMalformed, version)
	}
}
