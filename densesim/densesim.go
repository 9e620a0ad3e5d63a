// Package densesim is a dense statevector simulator over d^n amplitudes,
// used as the exact reference for small chains.
package densesim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas/cblas128"

	"mpsim/gate"
)

// State is a dense amplitude vector over n qudits of local dimension d.
// Site 0 is the most significant digit, matching mps.Chain.ToStateVector.
type State struct {
	n    int
	d    int
	amps []complex128
}

// New creates the product state |basis>.
func New(n, d int, basis []int) (*State, error) {
	if n < 1 || d < 2 {
		return nil, errors.Errorf("%d %d", n, d)
	}
	if len(basis) != n {
		return nil, errors.Errorf("%d basis values for %d sites", len(basis), n)
	}
	idx := 0
	for i, b := range basis {
		if b < 0 || b >= d {
			return nil, errors.Errorf("site %d basis %d", i, b)
		}
		idx = idx*d + b
	}

	s := &State{n: n, d: d, amps: make([]complex128, ipow(d, n))}
	s.amps[idx] = 1
	return s, nil
}

// Amplitudes returns the underlying amplitude vector.
func (s *State) Amplitudes() []complex128 {
	return s.amps
}

// Norm returns the 2-norm of the state.
func (s *State) Norm() float64 {
	return cblas128.Nrm2(cblas128.Vector{N: len(s.amps), Inc: 1, Data: s.amps})
}

// Overlap returns <a|b>.
func Overlap(a, b *State) (complex128, error) {
	if len(a.amps) != len(b.amps) {
		return 0, errors.Errorf("%d %d", len(a.amps), len(b.amps))
	}
	x := cblas128.Vector{N: len(a.amps), Inc: 1, Data: a.amps}
	y := cblas128.Vector{N: len(b.amps), Inc: 1, Data: b.amps}
	return cblas128.Dotc(x, y), nil
}

// Apply multiplies the gate matrix into the amplitudes of the targeted
// qudits, for any number of targets.
func (s *State) Apply(op gate.Operation) error {
	if op.Dim() != s.d {
		return errors.Errorf("gate dimension %d, state dimension %d", op.Dim(), s.d)
	}
	indices := op.Indices()
	for _, q := range indices {
		if q < 0 || q >= s.n {
			return errors.Errorf("%d %d", q, s.n)
		}
	}

	k := len(indices)
	size := ipow(s.d, k)
	strides := make([]int, k)
	for i, q := range indices {
		strides[i] = ipow(s.d, s.n-1-q)
	}

	// offsets[t] is the amplitude offset of the t-th gate basis state,
	// digits in index order, most significant first.
	offsets := make([]int, size)
	for t := 0; t < size; t++ {
		tt, off := t, 0
		for i := k - 1; i >= 0; i-- {
			off += (tt % s.d) * strides[i]
			tt /= s.d
		}
		offsets[t] = off
	}

	m := op.Matrix()
	sub := make([]complex128, size)
	out := make([]complex128, size)
	for base := range s.amps {
		anchor := true
		for _, stride := range strides {
			if (base/stride)%s.d != 0 {
				anchor = false
				break
			}
		}
		if !anchor {
			continue
		}

		for t, off := range offsets {
			sub[t] = s.amps[base+off]
		}
		for r := range out {
			var acc complex128
			for t := range sub {
				acc += complex128(m.At(r, t)) * sub[t]
			}
			out[r] = acc
		}
		for t, off := range offsets {
			s.amps[base+off] = out[t]
		}
	}
	return nil
}

func ipow(b, e int) int {
	p := 1
	for range e {
		p *= b
	}
	return p
}
