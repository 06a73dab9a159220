package money

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	ErrNegativeWeight = errors.New("allocation weight must not be negative")
	ErrZeroWeights    = errors.New("allocation weights sum to zero")
)

// Allocate partitions total into len(weights) parts proportional to weights.
//
// Each part starts as floor(total * weight / sum(weights)). The units left
// over are handed out one at a time to the parts with the largest fractional
// remainder, lower index first on ties, so the parts always sum to exactly
// total.Amount and each differs from its exact share by less than one unit.
// This holds for negative totals too.
//
// When the weights sum to zero every part is zero and ErrZeroWeights is
// returned alongside them; callers must treat that as an invalid split.
func Allocate(total Money, weights []int64) ([]Money, error) {
	parts := make([]Money, len(weights))
	for i := range parts {
		parts[i] = Money{Scale: total.Scale, Currency: total.Currency}
	}

	sum := new(big.Int)
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: weight %d is %d", ErrNegativeWeight, i, w)
		}
		sum.Add(sum, big.NewInt(w))
	}
	if sum.Sign() == 0 {
		return parts, ErrZeroWeights
	}

	type remainder struct {
		index int
		frac  *big.Int
	}
	rems := make([]remainder, len(weights))
	t := big.NewInt(total.Amount)
	allocated := new(big.Int)
	num, q := new(big.Int), new(big.Int)
	for i, w := range weights {
		r := new(big.Int)
		num.Mul(t, big.NewInt(w))
		// Euclidean division: r >= 0, so q is the floor for a positive divisor.
		q.DivMod(num, sum, r)
		parts[i].Amount = q.Int64()
		allocated.Add(allocated, q)
		rems[i] = remainder{index: i, frac: r}
	}

	// 0 <= left < len(weights)
	left := new(big.Int).Sub(t, allocated).Int64()
	sort.SliceStable(rems, func(a, b int) bool {
		return rems[a].frac.Cmp(rems[b].frac) > 0
	})
	for k := int64(0); k < left; k++ {
		parts[rems[k].index].Amount++
	}
	return parts, nil
}

// AllocateEvenly splits total into n parts that differ by at most one unit.
func AllocateEvenly(total Money, n int) ([]Money, error) {
	weights := make([]int64, n)
	for i := range weights {
		weights[i] = 1
	}
	return Allocate(total, weights)
}
