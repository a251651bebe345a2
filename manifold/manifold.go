// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package manifold implements the two-stage tangent-plane reconstruction
// curved-surface targets need before the standard weighted least-squares
// assembly can run in local coordinates: a coarse tangent plane from the
// neighbor point cloud's principal directions, a curvature fit in those
// coordinates, and a refined tangent frame and metric tensor built from the
// fitted curvature gradient.
package manifold

import (
	"math"

	"github.com/cpmech/gmls/basis"
	"github.com/cpmech/gmls/gerr"
	"github.com/cpmech/gmls/linalg"
	"github.com/cpmech/gmls/weight"
)

// Frame holds a target's manifold reconstruction: the coarse tangent/normal
// basis V, the curvature-refined tangent frame T, the inverse first
// fundamental form Ginv, and the curvature fit that produced them.
type Frame struct {
	D               int        // ambient dimension; local (tangent) dimension is D-1
	V               [9]float64 // d x d row-major, coarse tangent/normal frame
	T               []float64  // d x (d-1) row-major, refined tangent frame
	Ginv            []float64  // (d-1) x (d-1) row-major, inverse metric tensor
	CurvatureCoeffs []float64
	CurvatureGrad   []float64 // length d-1, height-field gradient at the target
}

// ComputeCoarseTangentPlane builds P^T P from the neighbor offsets (already
// relative to the target site, ambient dimension 3) and eigendecomposes it:
// the two eigenvectors of largest eigenvalue span the approximate tangent
// plane (V's first two columns); the remaining column is the normal
// direction, with no particular sign.
//
// Only ambient dimension 3 is implemented -- largest_two_eigenvectors_3x3_sym
// is the only closed-form eigensolver this port carries, and every manifold
// scenario this engine is required to handle (a surface embedded in R^3)
// needs exactly that case.
func ComputeCoarseTangentPlane(offsets [][]float64, d int) ([9]float64, error) {
	if d != 3 {
		return [9]float64{}, gerr.New(gerr.NotImplemented, "coarse tangent plane only implemented for ambient dimension 3, got %d", d)
	}
	var ptp [9]float64
	for _, x := range offsets {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				ptp[i*3+j] += x[i] * x[j]
			}
		}
	}
	return linalg.LargestTwoEigenvectorsSym3x3(ptp), nil
}

// FitCurvature projects neighbor offsets into the coarse tangent
// coordinates xi = V^T(x_nbr - x_t), fits a degree-pm scalar polynomial in
// (xi_1,...,xi_{d-1}) to the normal component xi_d by weighted least
// squares (QR), and evaluates the fitted polynomial's gradient at the
// target (xi=0) to produce the height-field gradient that refines the
// tangent frame.
//
// v is cached in column-major order first: the coarse frame's columns
// (each neighbor's tangent coordinates and normal component) are read
// repeatedly across every neighbor, and the flat column-major layout
// matches the column-at-a-time access pattern the original Kokkos/LAPACK
// split used.
func FitCurvature(offsets [][]float64, epsilon float64, wcfg weight.Config, v [9]float64, pm int) (coeffs []float64, grad []float64, err error) {
	const d = 3
	const dl = d - 1
	n := len(offsets)
	npm := basis.NP(pm, dl)

	vCols := linalg.MatrixToLayoutLeft(linalg.NewMatrix(v[:], d, d, d))
	column := func(c int) []float64 { return vCols[c*d : c*d+d] }

	xi := make([][]float64, n)
	normalComp := make([]float64, n)
	distances := make([]float64, n)
	for k, x := range offsets {
		xik := make([]float64, dl)
		for i := 0; i < dl; i++ {
			xik[i] = dotN(column(i), x)
		}
		xi[k] = xik
		normalComp[k] = dotN(column(d-1), x)

		var r float64
		for _, xv := range x {
			r += xv * xv
		}
		distances[k] = math.Sqrt(r)
	}
	sw := wcfg.SqrtWeights(distances, epsilon)

	a := make([]float64, n*npm)
	rhs := make([]float64, n)
	for k := 0; k < n; k++ {
		row := basis.Row(pm, dl, xi[k])
		for l := 0; l < npm; l++ {
			a[k*npm+l] = sw[k] * row[l]
		}
		rhs[k] = sw[k] * normalComp[k]
	}
	pMat := linalg.NewMatrix(a, n, npm, npm)
	rhsMat := linalg.NewMatrix(rhs, n, 1, 1)
	if ferr := linalg.FactorizeQR(pMat, rhsMat); ferr != nil {
		return nil, nil, ferr
	}
	coeffs = make([]float64, npm)
	for l := 0; l < npm; l++ {
		coeffs[l] = rhsMat.At(l, 0)
	}

	grad = make([]float64, dl)
	origin := make([]float64, dl)
	for i := 0; i < dl; i++ {
		prow := basis.PartialRow(pm, dl, i, origin)
		var s float64
		for l := 0; l < npm; l++ {
			s += prow[l] * coeffs[l]
		}
		grad[i] = s
	}
	return coeffs, grad, nil
}

func dotN(a []float64, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// RefineTangentFrame builds T[:,i] = V[:,i] + grad[i]*V[:,d-1] for i in
// 0..d-2, Gram-Schmidt orthonormalizes the columns, and forms the first
// fundamental form G = I + grad*grad^T and its inverse.
func RefineTangentFrame(v [9]float64, grad []float64) (t []float64, ginv []float64, err error) {
	const d = 3
	dl := d - 1
	t = make([]float64, d*dl)
	for i := 0; i < dl; i++ {
		for row := 0; row < d; row++ {
			t[row*dl+i] = v[row*d+i] + grad[i]*v[row*d+(d-1)]
		}
	}
	gramSchmidtColumns(t, d, dl)

	g := make([]float64, dl*dl)
	for i := 0; i < dl; i++ {
		for j := 0; j < dl; j++ {
			val := grad[i] * grad[j]
			if i == j {
				val += 1
			}
			g[i*dl+j] = val
		}
	}
	ginv, err = invertSquare(g, dl)
	if err != nil {
		return nil, nil, err
	}
	return t, ginv, nil
}

// gramSchmidtColumns orthonormalizes the columns of the row-major rows x
// cols matrix m in place, modified Gram-Schmidt (each projection uses the
// already-updated column) -- adequate
// here since T's two columns start near-orthogonal (V's columns were
// already orthonormal before the curvature perturbation).
func gramSchmidtColumns(m []float64, rows, cols int) {
	for c := 0; c < cols; c++ {
		for p := 0; p < c; p++ {
			var dot, norm float64
			for r := 0; r < rows; r++ {
				dot += m[r*cols+c] * m[r*cols+p]
				norm += m[r*cols+p] * m[r*cols+p]
			}
			if norm > 1e-300 {
				factor := dot / norm
				for r := 0; r < rows; r++ {
					m[r*cols+c] -= factor * m[r*cols+p]
				}
			}
		}
		var norm float64
		for r := 0; r < rows; r++ {
			norm += m[r*cols+c] * m[r*cols+c]
		}
		norm = math.Sqrt(norm)
		if norm > 1e-300 {
			for r := 0; r < rows; r++ {
				m[r*cols+c] /= norm
			}
		}
	}
}

// invertSquare inverts a small row-major n x n matrix in closed form.
// Only n==1 and n==2 are needed: every manifold this engine supports has
// ambient dimension 3, so the local (tangent) dimension is always 2.
func invertSquare(g []float64, n int) ([]float64, error) {
	switch n {
	case 1:
		if g[0] == 0 {
			return nil, gerr.New(gerr.IllConditioned, "metric tensor is singular")
		}
		return []float64{1 / g[0]}, nil
	case 2:
		det := g[0]*g[3] - g[1]*g[2]
		if det == 0 {
			return nil, gerr.New(gerr.IllConditioned, "metric tensor is singular")
		}
		return []float64{g[3] / det, -g[1] / det, -g[2] / det, g[0] / det}, nil
	default:
		return nil, gerr.New(gerr.NotImplemented, "metric tensor inverse only implemented for dimension 1 or 2, got %d", n)
	}
}

// BuildFrame runs the full three-stage manifold reconstruction: coarse
// tangent plane, curvature fit, refined tangent frame and metric tensor.
// offsets are neighbor coordinates already shifted relative to the target
// site; epsilon is the target's support radius.
func BuildFrame(offsets [][]float64, epsilon float64, wcfg weight.Config, pm int) (*Frame, error) {
	v, err := ComputeCoarseTangentPlane(offsets, 3)
	if err != nil {
		return nil, err
	}
	coeffs, grad, err := FitCurvature(offsets, epsilon, wcfg, v, pm)
	if err != nil {
		return nil, err
	}
	t, ginv, err := RefineTangentFrame(v, grad)
	if err != nil {
		return nil, err
	}
	return &Frame{
		D:               3,
		V:               v,
		T:               t,
		Ginv:            ginv,
		CurvatureCoeffs: coeffs,
		CurvatureGrad:   grad,
	}, nil
}

// ProjectToTangent returns T^T * offset, the refined local tangent
// coordinates of an ambient offset relative to the target site.
func (f *Frame) ProjectToTangent(offset []float64) []float64 {
	dl := f.D - 1
	out := make([]float64, dl)
	for i := 0; i < dl; i++ {
		var s float64
		for j := 0; j < f.D; j++ {
			s += f.T[j*dl+i] * offset[j]
		}
		out[i] = s
	}
	return out
}
