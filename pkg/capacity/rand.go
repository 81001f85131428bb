package capacity

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Rand is the random source used for payload placement
type Rand interface {
	// Uint64N returns a uniform value in [0, n). n is never zero.
	Uint64N(n uint64) uint64
}

// NewSeededRand returns a deterministic source for reproducible placement.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewOSRand returns a source backed by crypto/rand.
func NewOSRand() Rand {
	return rand.New(osSource{})
}

type osSource struct{}

func (osSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("capacity: reading system randomness: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}
