// Package gate defines the unitary operations consumed by the MPS simulator.
//
// An Operation packages a square gate matrix together with the ordered qudit
// indices it acts on. Validity (shape, distinct indices, unitarity) is checked
// once at construction and never rechecked.
package gate

import (
	"fmt"
	"math/cmplx"
	"slices"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// unitaryTol is the tolerance of the unitarity check.
// Gate matrices are complex64, so the tolerance sits above float32 precision.
const unitaryTol = 1e-5

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrNotUnitary       = errors.New("not unitary")
)

// Operation is a unitary acting on an ordered tuple of qudits.
// The zero value is not a valid Operation; use New.
type Operation struct {
	mat     *tensor.Dense
	indices []int
	dim     int
}

// New creates an Operation from a d^k x d^k matrix u acting on k qudits of
// local dimension dim. The row and column digits of u follow the order of
// indices, most significant first.
func New(u [][]complex64, indices []int, dim int) (Operation, error) {
	if dim < 2 {
		return Operation{}, errors.Wrap(ErrInvalidDimension, fmt.Sprintf("%d", dim))
	}
	if len(indices) < 1 {
		return Operation{}, errors.Wrap(ErrInvalidDimension, fmt.Sprintf("%#v", indices))
	}
	size := 1
	for range indices {
		size *= dim
	}
	if len(u) != size {
		return Operation{}, errors.Wrap(ErrShapeMismatch, fmt.Sprintf("%d rows, expected %d", len(u), size))
	}
	for i, row := range u {
		if len(row) != size {
			return Operation{}, errors.Wrap(ErrShapeMismatch, fmt.Sprintf("row %d has %d columns, expected %d", i, len(row), size))
		}
	}
	for i, qi := range indices {
		if slices.Contains(indices[i+1:], qi) {
			return Operation{}, errors.Wrap(ErrShapeMismatch, fmt.Sprintf("repeated index %d", qi))
		}
	}
	if !isUnitary(u) {
		return Operation{}, errors.Wrap(ErrNotUnitary, fmt.Sprintf("%dx%d", size, size))
	}

	return Operation{mat: tensor.T2(u), indices: slices.Clone(indices), dim: dim}, nil
}

// Indices returns the qudit indices the operation acts on, in order.
func (op Operation) Indices() []int {
	return slices.Clone(op.indices)
}

// NumQudits returns the number of qudits the operation acts on.
func (op Operation) NumQudits() int {
	return len(op.indices)
}

// Dim returns the local qudit dimension.
func (op Operation) Dim() int {
	return op.dim
}

// Matrix returns the d^k x d^k gate matrix. Callers must not modify it.
func (op Operation) Matrix() *tensor.Dense {
	return op.mat
}

func (op Operation) String() string {
	return fmt.Sprintf("gate on qudits %v", op.indices)
}

// isUnitary reports whether u.H @ u equals the identity within unitaryTol.
func isUnitary(u [][]complex64) bool {
	n := len(u)
	a := cblas128.General{Rows: n, Cols: n, Stride: n, Data: make([]complex128, n*n)}
	for i, row := range u {
		for j, v := range row {
			a.Data[i*n+j] = complex128(v)
		}
	}
	c := cblas128.General{Rows: n, Cols: n, Stride: n, Data: make([]complex128, n*n)}
	cblas128.Gemm(blas.ConjTrans, blas.NoTrans, 1, a, a, 0, c)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var want complex128
			if i == j {
				want = 1
			}
			if cmplx.Abs(c.Data[i*n+j]-want) > unitaryTol {
				return false
			}
		}
	}
	return true
}
