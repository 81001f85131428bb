package steg

import (
	"errors"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
	"github.com/ssargent/pixelsteg/pkg/capacity"
	"github.com/ssargent/pixelsteg/pkg/channel"
	"github.com/ssargent/pixelsteg/pkg/pixel"
)

// Report describes an image and whatever header it carries
type Report struct {
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Format         string `json:"format"`
	Container      string `json:"container,omitempty"`
	PixelCount     uint64 `json:"pixel_count"`
	ReservedPixels uint64 `json:"reserved_pixels"`
	CapacityBytes  uint64 `json:"capacity_bytes"`

	HeaderFound bool   `json:"header_found"`
	HeaderError string `json:"header_error,omitempty"`
	Damaged     bool   `json:"damaged"`

	Version      uint8  `json:"version,omitempty"`
	StartPixel   uint64 `json:"start_pixel,omitempty"`
	DataMask     string `json:"data_mask,omitempty"`
	BitsPerPixel int    `json:"bits_per_pixel,omitempty"`
	ChannelBits  []int  `json:"channel_bits,omitempty"`
	DataLen      uint64 `json:"data_len,omitempty"`
	PixelsUsed   uint64 `json:"pixels_used,omitempty"`
}

// Stat inspects buf without reading the payload. A missing or damaged
// header is reported, not returned as an error.
func (e *Embedder) Stat(buf *pixel.Buffer) *Report {
	r := &Report{
		Width:          buf.Width,
		Height:         buf.Height,
		Format:         buf.Format.String(),
		PixelCount:     buf.PixelCount(),
		ReservedPixels: capacity.HeaderReservedPixels,
		CapacityBytes:  capacity.MaxPayload(buf.PixelCount(), buf.Format),
	}

	h, err := e.ReadHeader(buf)
	if err != nil {
		r.HeaderError = err.Error()
		// A bad checksum or layout means something was embedded.
		r.Damaged = !isMissingHeader(err)
		return r
	}

	bpp := h.DataMask.Count()
	r.HeaderFound = true
	r.Version = h.Version()
	r.StartPixel = h.StartPixel()
	r.DataMask = h.DataMask.String()
	r.BitsPerPixel = bpp
	r.ChannelBits = bitmask.ChannelBits(h.DataMask, buf.Format.Channels(), buf.Format.BytesPerChannel())
	r.DataLen = h.DataLen
	r.PixelsUsed = uint64(channel.PixelsFor(int(h.DataLen), bpp))
	return r
}

func isMissingHeader(err error) bool {
	return errors.Is(err, ErrMagicMismatch) || errors.Is(err, ErrFormatUnsupported)
}
