package amount

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactor(t *testing.T) {
	testCases := []struct {
		decimals uint8
		expected uint64
	}{
		{0, 1},
		{1, 10},
		{6, 1_000_000},
		{9, 1_000_000_000},
		{19, 10_000_000_000_000_000_000},
	}

	for _, tc := range testCases {
		factor, err := Factor(tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, factor)
	}

	_, err := Factor(20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestToFractions(t *testing.T) {
	t.Run("scales whole tokens", func(t *testing.T) {
		got, err := ToFractions(1000, 9)
		require.NoError(t, err)
		assert.Equal(t, uint64(1_000_000_000_000), got)
	})

	t.Run("zero decimals is identity", func(t *testing.T) {
		got, err := ToFractions(42, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), got)
	})

	t.Run("overflow boundary", func(t *testing.T) {
		for decimals := uint8(0); decimals <= 19; decimals++ {
			factor, err := Factor(decimals)
			require.NoError(t, err)

			limit := math.MaxUint64 / factor
			got, err := ToFractions(limit, decimals)
			require.NoError(t, err, "decimals=%d", decimals)
			assert.Equal(t, limit*factor, got)

			if decimals == 0 {
				continue
			}
			_, err = ToFractions(limit+1, decimals)
			require.Error(t, err, "decimals=%d", decimals)
			assert.True(t, errors.Is(err, ErrOverflow))
		}
	})

	t.Run("factor overflow", func(t *testing.T) {
		_, err := ToFractions(1, 20)
		assert.True(t, errors.Is(err, ErrOverflow))
	})
}

func TestFromFractionsInverse(t *testing.T) {
	values := []uint64{0, 1, 7, 1000, 5000, 18_446_744_073}
	for decimals := uint8(0); decimals <= 9; decimals++ {
		for _, v := range values {
			scaled, err := ToFractions(v, decimals)
			if errors.Is(err, ErrOverflow) {
				continue
			}
			require.NoError(t, err)

			back, err := FromFractions(scaled, decimals)
			require.NoError(t, err)
			assert.Equal(t, v, back)
		}
	}

	got, err := FromFractions(1_999_999_999, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}
