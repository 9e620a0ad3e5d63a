package mps

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"

	"github.com/fumin/tensor"
)

// svdJacobi computes the singular value decomposition a = u @ diag(sigma) @ vh
// by one-sided Jacobi rotations on the columns of a.
//
// Singular values are returned in descending order with ties keeping the
// lower original column index. u is len(a) x n and vh is n x n, where n is
// the number of columns of a; columns of u beyond the rank are zero and carry
// zero singular values.
//
// The site tensors only offer QR, and gonum's LAPACK bindings are real-only,
// so the complex SVD lives here.
func svdJacobi(a [][]complex128) ([][]complex128, []float64, [][]complex128) {
	m, n := len(a), len(a[0])

	cols := make([][]complex128, n)
	for j := range cols {
		cols[j] = make([]complex128, m)
		for i := 0; i < m; i++ {
			cols[j][i] = a[i][j]
		}
	}
	// v[j] is the j-th column of the accumulated rotation matrix V.
	v := make([][]complex128, n)
	for j := range v {
		v[j] = make([]complex128, n)
		v[j][j] = 1
	}

	const maxSweeps = 64
	const tol = 1e-14
	for sweep := 0; sweep < maxSweeps; sweep++ {
		rotated := false
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				var alpha, beta float64
				var g complex128
				for i := 0; i < m; i++ {
					cp, cq := cols[p][i], cols[q][i]
					alpha += real(cp)*real(cp) + imag(cp)*imag(cp)
					beta += real(cq)*real(cq) + imag(cq)*imag(cq)
					g += cmplx.Conj(cp) * cq
				}
				ag := cmplx.Abs(g)
				if ag == 0 || ag <= tol*math.Sqrt(alpha*beta) {
					continue
				}
				rotated = true

				// Absorb the phase of g into column q, then rotate by the
				// angle diagonalizing the now-real 2x2 Gram matrix.
				phc := cmplx.Conj(g / complex(ag, 0))
				zeta := (beta - alpha) / (2 * ag)
				t := 1 / (math.Abs(zeta) + math.Sqrt(1+zeta*zeta))
				if zeta < 0 {
					t = -t
				}
				cs := complex(1/math.Sqrt(1+t*t), 0)
				sn := cs * complex(t, 0)

				for i := 0; i < m; i++ {
					cq := phc * cols[q][i]
					cols[p][i], cols[q][i] = cs*cols[p][i]-sn*cq, sn*cols[p][i]+cs*cq
				}
				for i := 0; i < n; i++ {
					vq := phc * v[q][i]
					v[p][i], v[q][i] = cs*v[p][i]-sn*vq, sn*v[p][i]+cs*vq
				}
			}
		}
		if !rotated {
			break
		}
	}

	type sv struct {
		idx int
		s   float64
	}
	svs := make([]sv, 0, n)
	for j := range cols {
		var w float64
		for _, c := range cols[j] {
			w += real(c)*real(c) + imag(c)*imag(c)
		}
		svs = append(svs, sv{idx: j, s: math.Sqrt(w)})
	}
	slices.SortStableFunc(svs, func(a, b sv) int { return cmp.Compare(b.s, a.s) })

	u := make([][]complex128, m)
	for i := range u {
		u[i] = make([]complex128, n)
	}
	sigma := make([]float64, n)
	vh := make([][]complex128, n)
	for r, x := range svs {
		sigma[r] = x.s
		if x.s > 0 {
			inv := complex(1/x.s, 0)
			for i := 0; i < m; i++ {
				u[i][r] = cols[x.idx][i] * inv
			}
		}
		vh[r] = make([]complex128, n)
		for c := 0; c < n; c++ {
			vh[r][c] = cmplx.Conj(v[x.idx][c])
		}
	}
	return u, sigma, vh
}

// toMatrix extracts a rank-2 tensor into rows.
func toMatrix(t *tensor.Dense) [][]complex128 {
	shape := t.Shape()
	a := make([][]complex128, shape[0])
	for i := range a {
		a[i] = make([]complex128, shape[1])
		for j := range a[i] {
			a[i][j] = complex128(t.At(i, j))
		}
	}
	return a
}

// fromColumns builds a rank-2 tensor from the first keep columns of u.
func fromColumns(u [][]complex128, keep int) *tensor.Dense {
	t := tensor.Zeros(len(u), keep)
	for i, row := range u {
		for j := 0; j < keep; j++ {
			t.SetAt([]int{i, j}, complex64(row[j]))
		}
	}
	return t
}

// fromRowsScaled builds a rank-2 tensor from the first keep rows of vh, row r
// scaled by sigmas[r].
func fromRowsScaled(vh [][]complex128, sigmas []float64, keep int) *tensor.Dense {
	t := tensor.Zeros(keep, len(vh[0]))
	for r := 0; r < keep; r++ {
		s := complex(sigmas[r], 0)
		for c, v := range vh[r] {
			t.SetAt([]int{r, c}, complex64(s*v))
		}
	}
	return t
}
