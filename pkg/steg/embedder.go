// Package steg hides payloads in the least-significant bits of pixel
// buffers and recovers them without any outside metadata.
package steg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
	"github.com/ssargent/pixelsteg/pkg/capacity"
	"github.com/ssargent/pixelsteg/pkg/channel"
	"github.com/ssargent/pixelsteg/pkg/codec"
	"github.com/ssargent/pixelsteg/pkg/pixel"
)

// Embedder writes and reads headers and payloads in pixel buffers
type Embedder struct {
	planner *capacity.Planner
	codec   *codec.HeaderCodec
	logger  *slog.Logger
}

// Option configures an Embedder
type Option func(*Embedder)

// WithPlanner sets the capacity planner, e.g. one with a seeded random source.
func WithPlanner(p *capacity.Planner) Option {
	return func(e *Embedder) {
		e.planner = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Embedder) {
		e.logger = l
	}
}

// New creates an Embedder
func New(opts ...Option) *Embedder {
	e := &Embedder{codec: codec.NewHeaderCodec()}
	for _, opt := range opts {
		opt(e)
	}
	if e.planner == nil {
		e.planner = capacity.NewPlanner()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Embed hides payload in buf. The header goes into the reserved region at
// pixel 0 using every bit of each pixel; the payload goes where the plan
// puts it. buf is left untouched when an error is returned.
func (e *Embedder) Embed(buf *pixel.Buffer, payload []byte) (*capacity.Plan, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	plan, err := e.planner.Plan(buf.PixelCount(), uint64(len(payload)), buf.Format)
	if err != nil {
		return nil, err
	}

	header, err := e.codec.Encode(&codec.V1Header{
		Placement: codec.FixedOffset{StartPixel: plan.StartPixel},
		DataMask:  plan.DataMask,
		DataLen:   uint64(len(payload)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode header: %w", err)
	}

	stride := buf.Stride()
	headerOffsets, err := bitmask.BuildOffsetMap(bitmask.AllBits(stride), stride*8)
	if err != nil {
		return nil, err
	}
	dataOffsets, err := bitmask.BuildOffsetMap(plan.DataMask, stride*8)
	if err != nil {
		return nil, err
	}

	// Check both regions first so a failure never leaves a half-written image.
	if err := checkHeaderRegion(stride, headerOffsets, len(header)); err != nil {
		return nil, err
	}
	if err := channel.Fits(len(buf.Pix), stride, dataOffsets, int(plan.StartPixel), len(payload)); err != nil {
		return nil, err
	}

	if err := channel.WriteBits(buf.Pix, stride, headerOffsets, 0, header); err != nil {
		return nil, err
	}
	if err := channel.WriteBits(buf.Pix, stride, dataOffsets, int(plan.StartPixel), payload); err != nil {
		return nil, err
	}

	e.logger.Debug("embedded payload",
		"format", buf.Format.String(),
		"width", buf.Width,
		"height", buf.Height,
		"payload_bytes", len(payload),
		"bits_per_pixel", plan.BitsPerPixel,
		"data_mask", plan.DataMask.String(),
		"start_pixel", plan.StartPixel,
		"pixels_used", plan.PixelsNeeded,
	)

	return plan, nil
}

// ReadHeader locates and validates the header at the start of buf.
func (e *Embedder) ReadHeader(buf *pixel.Buffer) (*codec.V1Header, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	if buf.PixelCount() <= capacity.HeaderReservedPixels {
		return nil, fmt.Errorf("%w: image of %d pixels is too small to hold a header", ErrMagicMismatch, buf.PixelCount())
	}

	stride := buf.Stride()
	offsets, err := bitmask.BuildOffsetMap(bitmask.AllBits(stride), stride*8)
	if err != nil {
		return nil, err
	}

	prefix, err := channel.ReadBits(buf.Pix, stride, offsets, 0, codec.PrefixSize)
	if err != nil {
		return nil, err
	}

	size, err := codec.PeekLength(prefix)
	if err != nil {
		return nil, err
	}
	if err := checkHeaderRegion(stride, offsets, size); err != nil {
		if errors.Is(err, ErrBoundsExceeded) {
			return nil, fmt.Errorf("%w: header of %d bytes overruns the reserved region", ErrDecodeMalformed, size)
		}
		return nil, err
	}

	raw, err := channel.ReadBits(buf.Pix, stride, offsets, 0, size)
	if err != nil {
		return nil, err
	}

	h, err := e.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	v1, ok := h.(*codec.V1Header)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported header version %d", ErrDecodeMalformed, h.Version())
	}
	if err := validateHeader(v1, buf); err != nil {
		return nil, err
	}
	return v1, nil
}

// Extract recovers the payload hidden in buf.
func (e *Embedder) Extract(buf *pixel.Buffer) ([]byte, error) {
	h, err := e.ReadHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.DataLen == 0 {
		return []byte{}, nil
	}

	stride := buf.Stride()
	offsets, err := bitmask.BuildOffsetMap(h.DataMask, stride*8)
	if err != nil {
		return nil, err
	}

	data, err := channel.ReadBits(buf.Pix, stride, offsets, int(h.StartPixel()), int(h.DataLen))
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted payload",
		"format", buf.Format.String(),
		"payload_bytes", len(data),
		"data_mask", h.DataMask.String(),
		"start_pixel", h.StartPixel(),
	)
	return data, nil
}

func checkHeaderRegion(stride int, offsets bitmask.OffsetMap, size int) error {
	region := capacity.HeaderReservedPixels * stride
	return channel.Fits(region, stride, offsets, 0, size)
}

// validateHeader rejects checksummed headers whose fields cannot describe
// this buffer.
func validateHeader(h *codec.V1Header, buf *pixel.Buffer) error {
	stride := buf.Stride()
	if h.DataMask&^bitmask.AllBits(stride) != 0 {
		return fmt.Errorf("%w: data mask %s selects bits outside a %s pixel", ErrDecodeMalformed, h.DataMask, buf.Format)
	}
	if h.DataLen == 0 {
		return nil
	}
	if h.DataMask == 0 {
		return fmt.Errorf("%w: empty data mask", ErrDecodeMalformed)
	}

	pixels := buf.PixelCount()
	if h.StartPixel() < capacity.HeaderReservedPixels || h.StartPixel() >= pixels {
		return fmt.Errorf("%w: start pixel %d outside [%d,%d)", ErrDecodeMalformed, h.StartPixel(), capacity.HeaderReservedPixels, pixels)
	}
	maxBytes := (pixels - h.StartPixel()) * uint64(h.DataMask.Count()) / 8
	if h.DataLen > maxBytes {
		return fmt.Errorf("%w: data length %d exceeds the %d bytes after pixel %d", ErrDecodeMalformed, h.DataLen, maxBytes, h.StartPixel())
	}
	return nil
}
