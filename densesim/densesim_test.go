package densesim

import (
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"mpsim/gate"
)

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     int
		d     int
		basis []int
		want  int
	}{
		{n: 1, d: 2, basis: []int{1}, want: 1},
		{n: 3, d: 2, basis: []int{1, 0, 1}, want: 5},
		{n: 2, d: 3, basis: []int{2, 1}, want: 7},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			s, err := New(test.n, test.d, test.basis)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for j, a := range s.Amplitudes() {
				var expected complex128
				if j == test.want {
					expected = 1
				}
				if a != expected {
					t.Fatalf("amplitude %d is %v, expected %v", j, a, expected)
				}
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     int
		d     int
		basis []int
	}{
		{n: 0, d: 2, basis: []int{}},
		{n: 2, d: 1, basis: []int{0, 0}},
		{n: 2, d: 2, basis: []int{0}},
		{n: 2, d: 2, basis: []int{0, 2}},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			if _, err := New(test.n, test.d, test.basis); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()
	toffoli := make([][]complex64, 8)
	for i := range toffoli {
		toffoli[i] = make([]complex64, 8)
	}
	for i := 0; i < 6; i++ {
		toffoli[i][i] = 1
	}
	toffoli[6][7], toffoli[7][6] = 1, 1
	ccx, err := gate.New(toffoli, []int{0, 1, 2}, 2)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	tests := []struct {
		n     int
		basis []int
		ops   []gate.Operation
		want  int
	}{
		{n: 2, basis: []int{0, 0}, ops: []gate.Operation{gate.X(1)}, want: 1},
		{n: 2, basis: []int{1, 0}, ops: []gate.Operation{gate.CNOT(0, 1)}, want: 3},
		// Non-adjacent control and target.
		{n: 3, basis: []int{1, 0, 0}, ops: []gate.Operation{gate.CNOT(0, 2)}, want: 5},
		{n: 3, basis: []int{0, 0, 1}, ops: []gate.Operation{gate.CNOT(2, 0)}, want: 5},
		// A three-qudit gate.
		{n: 3, basis: []int{1, 1, 0}, ops: []gate.Operation{ccx}, want: 7},
		{n: 3, basis: []int{1, 0, 0}, ops: []gate.Operation{ccx}, want: 4},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			t.Parallel()
			s, err := New(test.n, 2, test.basis)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for _, op := range test.ops {
				if err := s.Apply(op); err != nil {
					t.Fatalf("%+v", err)
				}
			}
			for j, a := range s.Amplitudes() {
				var expected complex128
				if j == test.want {
					expected = 1
				}
				if cmplx.Abs(a-expected) > 1e-6 {
					t.Fatalf("amplitude %d is %v, expected %v", j, a, expected)
				}
			}
		})
	}
}

func TestApplyBell(t *testing.T) {
	t.Parallel()
	s, err := New(2, 2, []int{0, 0})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for _, op := range []gate.Operation{gate.H(0), gate.CNOT(0, 1)} {
		if err := s.Apply(op); err != nil {
			t.Fatalf("%+v", err)
		}
	}
	h := complex(1/math.Sqrt2, 0)
	expected := []complex128{h, 0, 0, h}
	for i, a := range s.Amplitudes() {
		if cmplx.Abs(a-expected[i]) > 1e-6 {
			t.Fatalf("amplitude %d is %v, expected %v", i, a, expected[i])
		}
	}
	if math.Abs(s.Norm()-1) > 1e-9 {
		t.Fatalf("%f, expected 1", s.Norm())
	}
}

func TestApplyInvalid(t *testing.T) {
	t.Parallel()
	s, err := New(2, 2, []int{0, 0})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err := s.Apply(gate.CNOT(0, 2)); err == nil {
		t.Fatalf("expected error")
	}
	if err := s.Apply(gate.SwapGate(3, 0, 1)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOverlap(t *testing.T) {
	t.Parallel()
	a, err := New(2, 2, []int{0, 1})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	b, err := New(2, 2, []int{0, 1})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	ov, err := Overlap(a, b)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if cmplx.Abs(ov-1) > 1e-9 {
		t.Fatalf("%v, expected 1", ov)
	}

	c, err := New(2, 2, []int{1, 1})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	ov, err = Overlap(a, c)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if cmplx.Abs(ov) > 1e-9 {
		t.Fatalf("%v, expected 0", ov)
	}

	d, err := New(3, 2, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := Overlap(a, d); err == nil {
		t.Fatalf("expected error")
	}
}
