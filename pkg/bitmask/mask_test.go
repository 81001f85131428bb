package bitmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOffsetMap(t *testing.T) {
	t.Run("sparse mask over full width", func(t *testing.T) {
		mask := Mask(1<<63 | 1<<58 | 1<<53 | 1<<48 | 1)

		offsets, err := BuildOffsetMap(mask, 64)
		require.NoError(t, err)
		assert.Equal(t, OffsetMap{0, 5, 10, 15, 63}, offsets)
	})

	t.Run("width truncates selection", func(t *testing.T) {
		mask := Mask(1<<63 | 1<<58 | 1)

		offsets, err := BuildOffsetMap(mask, 24)
		require.NoError(t, err)
		assert.Equal(t, OffsetMap{0, 5}, offsets)
	})

	t.Run("all bits of an rgb pixel", func(t *testing.T) {
		offsets, err := BuildOffsetMap(AllBits(3), 24)
		require.NoError(t, err)
		require.Len(t, offsets, 24)
		for i, off := range offsets {
			assert.Equal(t, i, off)
		}
	})

	t.Run("width above 64 is clamped", func(t *testing.T) {
		offsets, err := BuildOffsetMap(Mask(1), 128)
		require.NoError(t, err)
		assert.Equal(t, OffsetMap{63}, offsets)
	})

	t.Run("zero mask", func(t *testing.T) {
		_, err := BuildOffsetMap(0, 32)
		assert.ErrorIs(t, err, ErrEmptyOffsetMap)
	})

	t.Run("mask outside pixel width", func(t *testing.T) {
		_, err := BuildOffsetMap(Mask(1), 24)
		assert.ErrorIs(t, err, ErrEmptyOffsetMap)
	})
}

func TestAllBits(t *testing.T) {
	assert.Equal(t, Mask(0xFFFFFF0000000000), AllBits(3))
	assert.Equal(t, Mask(0xFFFFFFFF00000000), AllBits(4))
	assert.Equal(t, Mask(0xFFFFFFFFFFFFFFFF), AllBits(8))
	assert.Equal(t, Mask(0), AllBits(0))
}

func TestDistribute(t *testing.T) {
	testCases := []struct {
		name     string
		bits     int
		channels int
		expected Mask
	}{
		{"rgb 12 bits", 12, 3, 0x0F0F0F0000000000},
		{"rgba 16 bits", 16, 4, 0x0F0F0F0F00000000},
		{"rgba partial 5 bits", 5, 4, 0x0301010100000000},
		{"rgb single bit", 1, 3, 0x0100000000000000},
		{"rgb two bits", 2, 3, 0x0101000000000000},
		{"rgb saturated", 24, 3, 0xFFFFFF0000000000},
		{"rgba saturated", 32, 4, 0xFFFFFFFF00000000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Distribute(tc.bits, tc.channels, 1), "got %s", Distribute(tc.bits, tc.channels, 1))
		})
	}
}

func TestDistribute_ChannelShares(t *testing.T) {
	for _, channels := range []int{3, 4} {
		for n := 1; n <= channels*8; n++ {
			mask := Distribute(n, channels, 1)
			counts := ChannelBits(mask, channels, 1)

			sum := 0
			for c, got := range counts {
				sum += got
				want := n / channels
				if c < n%channels {
					want++
				}
				assert.Equal(t, want, got, "channels=%d n=%d channel=%d", channels, n, c)
			}
			assert.Equal(t, n, sum)
			assert.Equal(t, n, mask.Count())
		}
	}
}

func TestDistribute_LowOrderBits(t *testing.T) {
	mask := Distribute(6, 3, 1)

	offsets, err := BuildOffsetMap(mask, 24)
	require.NoError(t, err)
	assert.Equal(t, OffsetMap{6, 7, 14, 15, 22, 23}, offsets)
}

func TestDistribute_InvalidInput(t *testing.T) {
	assert.Equal(t, Mask(0), Distribute(0, 3, 1))
	assert.Equal(t, Mask(0), Distribute(3, 0, 1))
	assert.Equal(t, Mask(0), Distribute(3, 3, 0))
}

func TestMask_String(t *testing.T) {
	assert.Equal(t, "0x0f0f0f0000000000", Mask(0x0F0F0F0000000000).String())
}
