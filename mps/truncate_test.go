package mps

import (
	"fmt"
	"math"
	"testing"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	sigmas := []float64{1, 0.5, 0.25, 0.125}
	tests := []struct {
		policy    TruncationPolicy
		sigmas    []float64
		keep      int
		discarded float64
	}{
		// Exact keeps everything.
		{policy: Exact(), sigmas: sigmas, keep: 4, discarded: 0},
		// Fixed rank.
		{policy: TruncationPolicy{MaxBond: 2}, sigmas: sigmas, keep: 2, discarded: 0.078125},
		{policy: TruncationPolicy{MaxBond: 9}, sigmas: sigmas, keep: 4, discarded: 0},
		// Relative-weight threshold: total weight is 1.328125.
		{policy: TruncationPolicy{Cutoff: 0.02}, sigmas: sigmas, keep: 3, discarded: 0.015625},
		// Combined: the ceiling applies first, the threshold trims further.
		{policy: TruncationPolicy{MaxBond: 3, Cutoff: 0.02}, sigmas: sigmas, keep: 3, discarded: 0.015625},
		{policy: TruncationPolicy{MaxBond: 2, Cutoff: 0.2}, sigmas: sigmas, keep: 2, discarded: 0.078125},
		{policy: TruncationPolicy{MaxBond: 2, Cutoff: 0.25}, sigmas: sigmas, keep: 1, discarded: 0.328125},
		// At least one value survives.
		{policy: TruncationPolicy{Cutoff: 1}, sigmas: sigmas, keep: 1, discarded: 0.328125},
		// The numerical floor drops machine-precision noise even in exact mode.
		{policy: Exact(), sigmas: []float64{1, 1e-9}, keep: 1, discarded: 1e-18},
		{policy: Exact(), sigmas: []float64{}, keep: 0, discarded: 0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			keep, discarded := test.policy.Truncate(test.sigmas)
			if keep != test.keep {
				t.Fatalf("%d, expected %d", keep, test.keep)
			}
			if math.Abs(discarded-test.discarded) > 1e-12 {
				t.Fatalf("%g, expected %g", discarded, test.discarded)
			}
		})
	}
}

func TestTruncateMonotonic(t *testing.T) {
	t.Parallel()
	sigmas := []float64{0.9, 0.7, 0.3, 0.2, 0.05}
	prev := math.Inf(1)
	for maxBond := 1; maxBond <= len(sigmas); maxBond++ {
		_, discarded := TruncationPolicy{MaxBond: maxBond}.Truncate(sigmas)
		if discarded > prev {
			t.Fatalf("maxBond %d: %g > %g", maxBond, discarded, prev)
		}
		prev = discarded
	}
}
