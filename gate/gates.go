package gate

import (
	"fmt"
	"math"
	"math/cmplx"
)

var (
	pauliX = [][]complex64{
		{0, 1},
		{1, 0},
	}
	pauliY = [][]complex64{
		{0, -1i},
		{1i, 0},
	}
	pauliZ = [][]complex64{
		{1, 0},
		{0, -1},
	}
)

// H returns the Hadamard gate on qubit q.
func H(q int) Operation {
	h := complex64(complex(1/math.Sqrt2, 0))
	return mustNew([][]complex64{
		{h, h},
		{h, -h},
	}, []int{q}, 2)
}

// X returns the Pauli X gate on qubit q.
func X(q int) Operation {
	return mustNew(pauliX, []int{q}, 2)
}

// Y returns the Pauli Y gate on qubit q.
func Y(q int) Operation {
	return mustNew(pauliY, []int{q}, 2)
}

// Z returns the Pauli Z gate on qubit q.
func Z(q int) Operation {
	return mustNew(pauliZ, []int{q}, 2)
}

// S returns the phase gate on qubit q.
func S(q int) Operation {
	return mustNew([][]complex64{
		{1, 0},
		{0, 1i},
	}, []int{q}, 2)
}

// T returns the pi/8 gate on qubit q.
func T(q int) Operation {
	return mustNew([][]complex64{
		{1, 0},
		{0, complex64(cmplx.Exp(complex(0, math.Pi/4)))},
	}, []int{q}, 2)
}

// RX returns the rotation around the X axis by theta on qubit q.
func RX(q int, theta float64) Operation {
	c := complex64(complex(math.Cos(theta/2), 0))
	js := complex64(complex(0, -math.Sin(theta/2)))
	return mustNew([][]complex64{
		{c, js},
		{js, c},
	}, []int{q}, 2)
}

// RY returns the rotation around the Y axis by theta on qubit q.
func RY(q int, theta float64) Operation {
	c := complex64(complex(math.Cos(theta/2), 0))
	s := complex64(complex(math.Sin(theta/2), 0))
	return mustNew([][]complex64{
		{c, -s},
		{s, c},
	}, []int{q}, 2)
}

// RZ returns the rotation around the Z axis by theta on qubit q.
func RZ(q int, theta float64) Operation {
	p := complex64(cmplx.Exp(complex(0, theta/2)))
	return mustNew([][]complex64{
		{complex64(cmplx.Conj(complex128(p))), 0},
		{0, p},
	}, []int{q}, 2)
}

// CNOT returns the controlled NOT gate with the given control and target qubits.
func CNOT(control, target int) Operation {
	return mustNew([][]complex64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}, []int{control, target}, 2)
}

// CZ returns the controlled Z gate on qubits a and b.
func CZ(a, b int) Operation {
	return mustNew([][]complex64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, -1},
	}, []int{a, b}, 2)
}

// SwapGate returns the gate exchanging two qudits of local dimension dim.
func SwapGate(dim, a, b int) Operation {
	u := make([][]complex64, dim*dim)
	for i := range u {
		u[i] = make([]complex64, dim*dim)
	}
	for p := 0; p < dim; p++ {
		for q := 0; q < dim; q++ {
			u[p*dim+q][q*dim+p] = 1
		}
	}
	return mustNew(u, []int{a, b}, dim)
}

func mustNew(u [][]complex64, indices []int, dim int) Operation {
	op, err := New(u, indices, dim)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return op
}
