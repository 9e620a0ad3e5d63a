package gate

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()
	h := complex64(complex(0.7071067811865476, 0))
	tests := []struct {
		u       [][]complex64
		indices []int
		dim     int
		err     error
	}{
		{
			u:       [][]complex64{{h, h}, {h, -h}},
			indices: []int{0},
			dim:     2,
		},
		{
			u:       [][]complex64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}, {0, 0, 1, 0}},
			indices: []int{0, 2},
			dim:     2,
		},
		// Non-unitary tensor fails at construction.
		{
			u:       [][]complex64{{1, 1}, {0, 1}},
			indices: []int{0},
			dim:     2,
			err:     ErrNotUnitary,
		},
		// A 2x2 matrix is not a two-qubit gate.
		{
			u:       [][]complex64{{0, 1}, {1, 0}},
			indices: []int{0, 1},
			dim:     2,
			err:     ErrShapeMismatch,
		},
		// Ragged rows.
		{
			u:       [][]complex64{{0, 1}, {1}},
			indices: []int{0},
			dim:     2,
			err:     ErrShapeMismatch,
		},
		// Repeated qudit index.
		{
			u:       [][]complex64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
			indices: []int{1, 1},
			dim:     2,
			err:     ErrShapeMismatch,
		},
		{
			u:       [][]complex64{{1}},
			indices: []int{0},
			dim:     1,
			err:     ErrInvalidDimension,
		},
		{
			u:       [][]complex64{{1, 0}, {0, 1}},
			indices: []int{},
			dim:     2,
			err:     ErrInvalidDimension,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			op, err := New(test.u, test.indices, test.dim)
			if !errors.Is(err, test.err) {
				t.Fatalf("%v, expected %v", err, test.err)
			}
			if err != nil {
				return
			}
			if op.NumQudits() != len(test.indices) {
				t.Fatalf("%d, expected %d", op.NumQudits(), len(test.indices))
			}
			if op.Dim() != test.dim {
				t.Fatalf("%d, expected %d", op.Dim(), test.dim)
			}
		})
	}
}

func TestIndicesImmutable(t *testing.T) {
	t.Parallel()
	op := CNOT(0, 2)
	indices := op.Indices()
	indices[0] = 99
	if got := op.Indices()[0]; got != 0 {
		t.Fatalf("%d, expected 0", got)
	}
}

func TestStandardGates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		op        Operation
		numQudits int
	}{
		{op: H(0), numQudits: 1},
		{op: X(1), numQudits: 1},
		{op: Y(0), numQudits: 1},
		{op: Z(3), numQudits: 1},
		{op: S(0), numQudits: 1},
		{op: T(0), numQudits: 1},
		{op: RX(0, 0.3), numQudits: 1},
		{op: RY(0, 1.1), numQudits: 1},
		{op: RZ(0, -2.5), numQudits: 1},
		{op: CNOT(0, 1), numQudits: 2},
		{op: CZ(2, 0), numQudits: 2},
		{op: SwapGate(2, 0, 1), numQudits: 2},
		{op: SwapGate(3, 1, 4), numQudits: 2},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%s", test.op), func(t *testing.T) {
			t.Parallel()
			if test.op.NumQudits() != test.numQudits {
				t.Fatalf("%d, expected %d", test.op.NumQudits(), test.numQudits)
			}
		})
	}
}
