package mps

import (
	"math"
	"math/rand/v2"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

// Sample draws one measurement outcome in the computational basis by
// collapsing the chain site by site from the left. The chain is first moved
// into right-canonical form, which makes the per-site reduced weights exact.
// Conditional weights are renormalized at every site, so sampling remains a
// valid distribution after lossy truncation.
func (c *Chain) Sample(rng *rand.Rand) ([]int, error) {
	if err := c.MoveCanonicalCenter(0); err != nil {
		return nil, errors.Wrap(err, "")
	}

	buf := tensor.Zeros(1)
	// l is the boundary row vector conditioned on the outcomes drawn so far.
	l := ones(tensor.Zeros(1), 1, 1)
	outcome := make([]int, 0, len(c.sites))
	weights := make([]float64, c.d)
	for site := range c.sites {
		// t is (1, phys, right).
		t := tensor.Product(buf, l, c.sites[site], [][2]int{{1, leftAxis}})
		rd := t.Shape()[2]

		var total float64
		for s := 0; s < c.d; s++ {
			var w float64
			for r := 0; r < rd; r++ {
				v := t.At(0, s, r)
				w += float64(real(v)*real(v) + imag(v)*imag(v))
			}
			weights[s] = w
			total += w
		}
		if total <= 0 {
			return nil, errors.Errorf("zero weight at site %d", site)
		}

		x := rng.Float64() * total
		s := 0
		for ; s < c.d-1; s++ {
			x -= weights[s]
			if x < 0 {
				break
			}
		}

		// Condition on s and renormalize.
		l = resetCopy(tensor.Zeros(1), t.Slice([][2]int{{0, 1}, {s, s + 1}, {0, rd}})).Reshape(1, rd)
		l = l.Mul(complex(float32(1/math.Sqrt(weights[s])), 0))
		outcome = append(outcome, s)
	}
	return outcome, nil
}
