// Package mps implements matrix product state simulation of qudit circuits.
//
// References:
//   - The density-matrix renormalization group in the age of matrix product states, Ulrich Schollwock
package mps

import (
	"fmt"
	"math"
	"slices"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

const (
	// leftAxis is the axis of a_{l-1} in Figure 6, Ulrich Schollwock.
	leftAxis  = 0
	physAxis  = 1
	rightAxis = 2

	// Machine precision.
	epsilon = 0x1p-23
)

var (
	ErrInvalidDimension     = errors.New("invalid dimension")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Chain is an n-site matrix product state with uniform local dimension d.
// Site i is a rank-3 tensor (left bond, physical, right bond); boundary bonds
// have size 1. Contracting all sites along their bonds in order reproduces
// the full d^n amplitude vector, with site 0 as the most significant digit.
type Chain struct {
	d      int
	sites  []*tensor.Dense
	center int
}

// New creates the product state |basis> with all bond dimensions 1.
// A product state is canonical at every site; the center starts at site 0.
func New(n, d int, basis []int) (*Chain, error) {
	if n < 1 || d < 2 {
		return nil, errors.Wrap(ErrInvalidDimension, fmt.Sprintf("%d %d", n, d))
	}
	if len(basis) != n {
		return nil, errors.Wrap(ErrInvalidDimension, fmt.Sprintf("%d basis values for %d sites", len(basis), n))
	}
	c := &Chain{d: d, sites: make([]*tensor.Dense, 0, n)}
	for i, b := range basis {
		if b < 0 || b >= d {
			return nil, errors.Wrap(ErrIndexOutOfRange, fmt.Sprintf("site %d basis %d", i, b))
		}
		site := tensor.Zeros(1, d, 1)
		site.SetAt([]int{0, b, 0}, 1)
		c.sites = append(c.sites, site)
	}
	return c, nil
}

// Len returns the number of sites.
func (c *Chain) Len() int {
	return len(c.sites)
}

// Dim returns the local qudit dimension.
func (c *Chain) Dim() int {
	return c.d
}

// CanonicalCenter returns the site at which the chain is orthogonalized.
func (c *Chain) CanonicalCenter() int {
	return c.center
}

// BondDimension returns the size of the bond between sites i and i+1.
func (c *Chain) BondDimension(i int) int {
	if i < 0 || i >= len(c.sites)-1 {
		panic(fmt.Sprintf("%d %d", i, len(c.sites)))
	}
	return c.sites[i].Shape()[rightAxis]
}

// BondDimensions returns all n-1 bond dimensions in order.
func (c *Chain) BondDimensions() []int {
	ds := make([]int, 0, len(c.sites)-1)
	for i := 0; i < len(c.sites)-1; i++ {
		ds = append(ds, c.BondDimension(i))
	}
	return ds
}

// ToStateVector contracts all sites in order and returns the d^n amplitude
// vector. The cost is exponential in n; this is a diagnostic for small
// chains, not the production output path.
func (c *Chain) ToStateVector() []complex64 {
	p := contractAll(tensor.Zeros(1), c.sites, tensor.Zeros(1))

	size := 1
	for range c.sites {
		size *= c.d
	}
	p = p.Reshape(size)
	out := make([]complex64, 0, size)
	for _, v := range p.All() {
		out = append(out, v)
	}
	return out
}

// Norm returns the 2-norm of the represented state.
func (c *Chain) Norm() float64 {
	ip := float64(real(InnerProduct(c, c)))
	return math.Sqrt(max(ip, 0))
}

// InnerProduct computes the inner product between x and y.
// See Section 4.2.1 Efficient evaluation of contractions, Ulrich Schollwock.
func InnerProduct(x, y *Chain) complex64 {
	if len(x.sites) != len(y.sites) {
		panic(fmt.Sprintf("%d %d", len(x.sites), len(y.sites)))
	}

	bufs := [2]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1)}
	f := ones(bufs[0], 1, 1)
	const fTopAxis, fBottomAxis = 0, 1
	for i, xi := range x.sites {
		yi := y.sites[i]

		fyi := tensor.Product(bufs[1], f, yi, [][2]int{{fBottomAxis, leftAxis}})
		f = tensor.Product(bufs[0], xi.Conj(), fyi, [][2]int{{leftAxis, fTopAxis}, {physAxis, physAxis}})
	}

	if !slices.Equal(f.Shape(), []int{1, 1}) {
		panic(fmt.Sprintf("%#v", f.Shape()))
	}
	return f.At(0, 0)
}

// MoveCanonicalCenter re-orthogonalizes the chain so that the canonical
// center sits at target: sites left of it left-normalized, sites right of it
// right-normalized. This is what makes a subsequent two-site truncation
// optimal in the discarded-weight norm. No-op if already at target.
func (c *Chain) MoveCanonicalCenter(target int) error {
	if target < 0 || target >= len(c.sites) {
		return errors.Wrap(ErrIndexOutOfRange, fmt.Sprintf("%d %d", target, len(c.sites)))
	}

	bufs := [3]*tensor.Dense{tensor.Zeros(1), tensor.Zeros(1), tensor.Zeros(1)}
	for c.center < target {
		c.leftNormalize(c.center, bufs)
		c.center++
	}
	for c.center > target {
		c.rightNormalize(c.center, bufs)
		c.center--
	}
	return nil
}

// leftNormalize makes site i left-canonical, absorbing the remainder into
// site i+1.
func (c *Chain) leftNormalize(i int, bufs [3]*tensor.Dense) {
	s := c.sites[i].Shape()
	dLeft, dUp := s[leftAxis], s[physAxis]

	// Decompose sites[i] = q @ r.
	mi := c.sites[i].Reshape(dLeft*dUp, s[rightAxis])
	q, qrbufs := bufs[0], [2]*tensor.Dense{bufs[1], bufs[2]}
	r := tensor.QR(q, mi, qrbufs)

	// sites[i+1] = r @ sites[i+1].
	axes := [][2]int{{1, leftAxis}}
	resetCopy(c.sites[i+1], tensor.Product(bufs[1], r, c.sites[i+1], axes))

	// sites[i] = q.
	c.sites[i] = resetCopy(c.sites[i], q).Reshape(dLeft, dUp, -1)
}

// rightNormalize makes site i right-canonical, absorbing the remainder into
// site i-1.
// See Section 4.4.2 Generation of a right-canonical MPS, Ulrich Schollwock.
func (c *Chain) rightNormalize(i int, bufs [3]*tensor.Dense) {
	s := c.sites[i].Shape()
	dUp, dRight := s[physAxis], s[rightAxis]

	// Decompose sites[i] = l @ q.H.
	mi := c.sites[i].Reshape(s[leftAxis], dUp*dRight)
	q, lqbufs := bufs[0], [2]*tensor.Dense{bufs[1], bufs[2]}
	l := lq(q, mi, lqbufs)

	// sites[i-1] = sites[i-1] @ l.
	axes := [][2]int{{rightAxis, 0}}
	resetCopy(c.sites[i-1], tensor.Product(bufs[1], c.sites[i-1], l, axes))

	// sites[i] = q.H.
	c.sites[i] = resetCopy(c.sites[i], q.H()).Reshape(-1, dUp, dRight)
}

func lq(q, a *tensor.Dense, bufs [2]*tensor.Dense) *tensor.Dense {
	r := tensor.QR(q, a.H(), bufs)
	return r.H()
}

// contractAll computes the ordered product of all sites into p.
func contractAll(p *tensor.Dense, sites []*tensor.Dense, buf *tensor.Dense) *tensor.Dense {
	// mmi is the product of sites[0] @ sites[1] @ ... sites[i].
	mmi := p
	resetCopy(mmi, sites[0])
	for _, si := range sites[1:] {
		prev := mmi
		if prev == p {
			mmi = buf
		} else {
			mmi = p
		}
		axes := [][2]int{{len(prev.Shape()) - 1, 0}}
		tensor.Product(mmi, prev, si, axes)
	}

	if mmi != p {
		resetCopy(p, mmi)
	}
	return p
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}

func ones(t *tensor.Dense, shape ...int) *tensor.Dense {
	t.Reset(shape...)
	for ijk := range t.All() {
		t.SetAt(ijk, 1)
	}
	return t
}
