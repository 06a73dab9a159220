package money

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amounts(parts []Money) []int64 {
	out := make([]int64, len(parts))
	for i, p := range parts {
		out[i] = p.Amount
	}
	return out
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		weights []int64
		want    []int64
	}{
		{"even three ways", 3000, []int64{1, 1, 1}, []int64{1000, 1000, 1000}},
		{"remainder to lowest index on ties", 1001, []int64{1, 1, 1}, []int64{334, 334, 333}},
		{"largest fractional remainder first", 100, []int64{1, 2, 3}, []int64{17, 33, 50}},
		{"zero weight gets nothing", 5, []int64{0, 1}, []int64{0, 5}},
		{"negative total", -1001, []int64{1, 1, 1}, []int64{-333, -334, -334}},
		{"zero total", 0, []int64{3, 7}, []int64{0, 0}},
		{"single part", 42, []int64{9}, []int64{42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := Allocate(New(tt.total, 2, "USD"), tt.weights)
			require.NoError(t, err)
			assert.Equal(t, tt.want, amounts(parts))
			for _, p := range parts {
				assert.Equal(t, int32(2), p.Scale)
				assert.Equal(t, "USD", p.Currency)
			}
		})
	}
}

func TestAllocateZeroWeights(t *testing.T) {
	parts, err := Allocate(New(1000, 2, "USD"), []int64{0, 0, 0})
	assert.ErrorIs(t, err, ErrZeroWeights)
	assert.Equal(t, []int64{0, 0, 0}, amounts(parts))

	_, err = Allocate(New(1000, 2, "USD"), nil)
	assert.ErrorIs(t, err, ErrZeroWeights)
}

func TestAllocateNegativeWeight(t *testing.T) {
	_, err := Allocate(New(1000, 2, "USD"), []int64{1, -1})
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestAllocateEvenly(t *testing.T) {
	parts, err := AllocateEvenly(New(10, 0, "JPY"), 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 3, 2, 2}, amounts(parts))
}

// Parts always sum to the total and stay within one unit of the exact share.
func TestAllocateProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 2000; i++ {
		total := rng.Int64N(2_000_000) - 1_000_000
		weights := make([]int64, 1+rng.IntN(8))
		var sum int64
		for j := range weights {
			weights[j] = rng.Int64N(1000)
			sum += weights[j]
		}
		if sum == 0 {
			weights[0] = 1
			sum = 1
		}

		parts, err := Allocate(New(total, 2, "EUR"), weights)
		require.NoError(t, err)

		var got int64
		for j, p := range parts {
			got += p.Amount
			// |part*sum - total*weight| < sum
			dev := new(big.Int).Sub(
				new(big.Int).Mul(big.NewInt(p.Amount), big.NewInt(sum)),
				new(big.Int).Mul(big.NewInt(total), big.NewInt(weights[j])),
			)
			require.Negative(t, dev.Abs(dev).Cmp(big.NewInt(sum)), "part %d of %d over %v", j, total, weights)
		}
		require.Equal(t, total, got, "weights %v", weights)
	}
}
