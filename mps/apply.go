package mps

import (
	"fmt"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"

	"mpsim/gate"
)

// Applicator applies gate operations to a Chain, truncating every new bond
// according to Policy.
type Applicator struct {
	Policy TruncationPolicy
}

// Apply contracts op into the chain and returns the discarded weight, the sum
// of squares of the singular values dropped by truncation. Single-qudit
// operations cannot grow a bond and always return 0. Two-qudit operations on
// non-adjacent sites go through a network of adjacent swaps that restores the
// original qudit ordering; the weight discarded by the swaps is included in
// the returned total. All validation happens before any mutation, so the
// chain is unmodified when an error is returned.
func (a Applicator) Apply(c *Chain, op gate.Operation) (float64, error) {
	if op.Dim() != c.d {
		return 0, errors.Wrap(gate.ErrShapeMismatch, fmt.Sprintf("gate dimension %d, chain dimension %d", op.Dim(), c.d))
	}
	indices := op.Indices()
	for _, q := range indices {
		if q < 0 || q >= len(c.sites) {
			return 0, errors.Wrap(ErrIndexOutOfRange, fmt.Sprintf("%d %d", q, len(c.sites)))
		}
	}

	switch len(indices) {
	case 1:
		c.applySingle(op.Matrix(), indices[0])
		return 0, nil
	case 2:
		return a.applyTwo(c, op.Matrix(), indices[0], indices[1]), nil
	default:
		return 0, errors.Wrap(ErrUnsupportedOperation, fmt.Sprintf("%d qudits", len(indices)))
	}
}

// applySingle contracts the (out, in) gate matrix into the physical leg of
// site q. A unitary on the physical leg preserves left and right canonical
// forms, so the center stays put.
func (c *Chain) applySingle(g *tensor.Dense, q int) {
	buf := tensor.Zeros(1)
	gs := tensor.Product(buf, g, c.sites[q], [][2]int{{1, physAxis}})
	// gs is (out, left, right).
	resetCopy(c.sites[q], gs.Transpose(1, 0, 2))
}

func (a Applicator) applyTwo(c *Chain, g *tensor.Dense, qa, qb int) float64 {
	d := c.d
	// g4 is (out a, out b, in a, in b).
	g4 := resetCopy(tensor.Zeros(1), g).Reshape(d, d, d, d)

	i, j := qa, qb
	if i > j {
		i, j = j, i
		g4 = resetCopy(tensor.Zeros(1), g4.Transpose(1, 0, 3, 2))
	}

	var discarded float64
	// Swap the right qudit down until the pair is adjacent.
	for m := j; m > i+1; m-- {
		discarded += a.applyAdjacent(c, m-1, swapTensor(d))
	}
	discarded += a.applyAdjacent(c, i, g4)
	// Swap back to the original ordering.
	for m := i + 1; m < j; m++ {
		discarded += a.applyAdjacent(c, m, swapTensor(d))
	}
	return discarded
}

// applyAdjacent applies the rank-4 gate (out i, out i+1, in i, in i+1) to
// sites i and i+1: merge, contract, then re-split with a truncated SVD.
// The left factor is left-canonical and the singular values are absorbed
// rightward, so the center ends at i+1.
func (a Applicator) applyAdjacent(c *Chain, i int, g4 *tensor.Dense) float64 {
	if err := c.MoveCanonicalCenter(i); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	d := c.d
	ls := c.sites[i].Shape()[leftAxis]
	rs := c.sites[i+1].Shape()[rightAxis]
	buf, buf2 := tensor.Zeros(1), tensor.Zeros(1)

	// theta is (left, phys i, phys i+1, right).
	theta := tensor.Product(buf, c.sites[i], c.sites[i+1], [][2]int{{rightAxis, leftAxis}})
	// gtheta is (out i, out i+1, left, right).
	gtheta := tensor.Product(buf2, g4, theta, [][2]int{{2, 1}, {3, 2}})
	theta = resetCopy(buf, gtheta.Transpose(2, 0, 1, 3))

	u, sigmas, vh := svdJacobi(toMatrix(theta.Reshape(ls*d, d*rs)))
	keep, discarded := a.Policy.Truncate(sigmas)

	c.sites[i] = fromColumns(u, keep).Reshape(ls, d, keep)
	c.sites[i+1] = fromRowsScaled(vh, sigmas, keep).Reshape(keep, d, rs)
	c.center = i + 1
	return discarded
}

// swapTensor returns the rank-4 qudit exchange tensor.
func swapTensor(d int) *tensor.Dense {
	s := tensor.Zeros(d, d, d, d)
	for p := 0; p < d; p++ {
		for q := 0; q < d; q++ {
			s.SetAt([]int{p, q, q, p}, 1)
		}
	}
	return s
}
