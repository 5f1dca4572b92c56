package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LengthAndCharset(t *testing.T) {
	for i := 0; i < 10000; i++ {
		code, err := Generate(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non-digit %q in code %q", c, code)
		}
	}
}

func TestGenerate_VariousLengths(t *testing.T) {
	for _, n := range []int{1, 4, 6, 8, 12} {
		code, err := Generate(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
	_, err = Generate(-3)
	assert.Error(t, err)
}

// Each digit position should be roughly uniform over 0–9. With 10000 samples
// the expected count per digit is 1000; the chi-square statistic (9 degrees
// of freedom) stays far below 40 unless the generator is biased.
func TestGenerate_NoPositionalBias(t *testing.T) {
	const samples = 10000
	var counts [6][10]int

	for i := 0; i < samples; i++ {
		code, err := Generate(6)
		require.NoError(t, err)
		for pos, c := range code {
			counts[pos][c-'0']++
		}
	}

	const expected = float64(samples) / 10
	for pos := 0; pos < 6; pos++ {
		var chi2 float64
		for d := 0; d < 10; d++ {
			diff := float64(counts[pos][d]) - expected
			chi2 += diff * diff / expected
		}
		assert.Less(t, chi2, 40.0, "digit distribution at position %d is biased (chi2=%.2f)", pos, chi2)
	}
}
