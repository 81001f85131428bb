// Package capacity decides how densely a payload must be packed into an
// image and where it goes.
package capacity

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ssargent/pixelsteg/pkg/bitmask"
	"github.com/ssargent/pixelsteg/pkg/pixel"
)

// HeaderReservedPixels is the number of pixels at the start of the image
// kept for the header: two 8-byte fields, a 4-byte mask and a 4-byte CRC.
// The header is written with every bit of each pixel, so this holds the
// framed header for every supported format.
const HeaderReservedPixels = 8*2 + 4 + 4

// ErrCapacityExceeded is returned when a payload cannot fit in an image
var ErrCapacityExceeded = errors.New("capacity exceeded")

// CapacityError reports how much space a payload needed
type CapacityError struct {
	Required  uint64 // Payload size in bytes
	Available uint64 // Bytes the image can carry outside the header
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%v: payload needs %d bytes, image can hold %d bytes", ErrCapacityExceeded, e.Required, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// Plan is where and how densely a payload is embedded
type Plan struct {
	BitsPerPixel    int          // Data bits used in each payload pixel
	DataMask        bitmask.Mask // In-pixel positions carrying data
	StartPixel      uint64       // First payload pixel
	PixelsNeeded    uint64       // Pixels the payload spans
	AvailablePixels uint64       // Pixels outside the header region
}

// Planner computes Plans using an injectable random source for placement
type Planner struct {
	mu   sync.Mutex // guards rand
	rand Rand
}

// Option configures a Planner
type Option func(*Planner)

// WithRand sets the random source used to choose the start pixel.
func WithRand(r Rand) Option {
	return func(p *Planner) {
		p.rand = r
	}
}

// NewPlanner creates a planner. Without options it draws placement from
// the operating system's secure random source.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{}
	for _, opt := range opts {
		opt(p)
	}
	if p.rand == nil {
		p.rand = NewOSRand()
	}
	return p
}

// Plan computes the minimal bit density for payloadLen bytes in an image of
// pixelCount pixels and picks a random start pixel after the header region.
// The density is the smallest bit count b with b*available >= payloadLen*8.
// Plan is safe for concurrent use.
func (p *Planner) Plan(pixelCount, payloadLen uint64, format pixel.Format) (*Plan, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	if pixelCount <= HeaderReservedPixels {
		return nil, &CapacityError{Required: payloadLen, Available: 0}
	}
	available := pixelCount - HeaderReservedPixels
	payloadBits := payloadLen * 8

	bpp := ceilDiv(payloadBits, available)
	if bpp < 1 {
		bpp = 1
	}
	if bpp > uint64(format.BitsPerPixel()) {
		return nil, &CapacityError{Required: payloadLen, Available: MaxPayload(pixelCount, format)}
	}

	needed := ceilDiv(payloadBits, bpp)
	if needed > available {
		return nil, &CapacityError{Required: payloadLen, Available: MaxPayload(pixelCount, format)}
	}

	// Start pixels in [reserved, reserved+available-needed] all fit.
	start := uint64(HeaderReservedPixels)
	if needed > 0 {
		p.mu.Lock()
		start += p.rand.Uint64N(available - needed + 1)
		p.mu.Unlock()
	}

	return &Plan{
		BitsPerPixel:    int(bpp),
		DataMask:        bitmask.Distribute(int(bpp), format.Channels(), format.BytesPerChannel()),
		StartPixel:      start,
		PixelsNeeded:    needed,
		AvailablePixels: available,
	}, nil
}

// MaxPayload returns the largest payload in bytes an image of pixelCount
// pixels can carry in format.
func MaxPayload(pixelCount uint64, format pixel.Format) uint64 {
	if format.Validate() != nil || pixelCount <= HeaderReservedPixels {
		return 0
	}
	return (pixelCount - HeaderReservedPixels) * uint64(format.BitsPerPixel()) / 8
}

func ceilDiv(a, b uint64) uint64 {
	if a == 0 {
		return 0
	}
	return (a-1)/b + 1
}
