// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"math"

	"github.com/cpmech/gmls/gerr"
)

// pivotTolFactor is the spec.md §4.3 zero-pivot tolerance factor: a pivot
// below pivotTolFactor * ||A||_inf means the caller should have selected
// SVD instead.
const pivotTolFactor = 1e-14

// FactorizeQR performs a batched (here: single-target, called once per
// target by the orchestrator) Householder QR of psqrtW (m x n, m >= n) and
// applies Q^T in place to rhs (m x rhsCols). On return, the top n rows of
// rhs hold R^{-1} Q^T rhs -- the polynomial-coefficient operator C that
// TargetRow contracts against to produce alpha. psqrtW's upper triangle is
// left holding R; its strict lower triangle is left in an unspecified
// (reflector scratch) state, matching "stores Q implicitly in the lower
// triangle" from spec.md, though this port does not reuse that storage.
//
// Returns an IllConditioned error, per spec.md §4.3, the moment a diagonal
// pivot falls below 1e-14*||A||_inf -- the caller should have selected SVD.
func FactorizeQR(psqrtW, rhs *Matrix) error {
	m, n := psqrtW.Rows, psqrtW.Cols
	if m < n {
		return gerr.New(gerr.InputInconsistent, "QR requires at least as many rows (%d) as columns (%d)", m, n)
	}
	tol := pivotTolFactor * psqrtW.NormInf()
	if tol == 0 {
		tol = pivotTolFactor
	}

	A := psqrtW.Dense() // m x n, row-major, packed
	rhsCols := rhs.Cols
	B := make([]float64, m*rhsCols)
	for i := 0; i < m; i++ {
		for j := 0; j < rhsCols; j++ {
			B[i*rhsCols+j] = rhs.At(i, j)
		}
	}

	v := make([]float64, m)
	for k := 0; k < n; k++ {
		// Householder reflector zeroing A[k+1:m, k].
		var normSq float64
		for i := k; i < m; i++ {
			normSq += A[i*n+k] * A[i*n+k]
		}
		alpha := math.Sqrt(normSq)
		if A[k*n+k] > 0 {
			alpha = -alpha
		}
		if alpha == 0 {
			continue // column already zero below the diagonal
		}
		for i := k; i < m; i++ {
			v[i] = A[i*n+k]
		}
		v[k] -= alpha
		var vNormSq float64
		for i := k; i < m; i++ {
			vNormSq += v[i] * v[i]
		}
		if vNormSq < 1e-300 {
			continue
		}

		for j := k; j < n; j++ {
			var dot float64
			for i := k; i < m; i++ {
				dot += v[i] * A[i*n+j]
			}
			factor := 2 * dot / vNormSq
			for i := k; i < m; i++ {
				A[i*n+j] -= factor * v[i]
			}
		}
		for j := 0; j < rhsCols; j++ {
			var dot float64
			for i := k; i < m; i++ {
				dot += v[i] * B[i*rhsCols+j]
			}
			factor := 2 * dot / vNormSq
			for i := k; i < m; i++ {
				B[i*rhsCols+j] -= factor * v[i]
			}
		}

		if diag := A[k*n+k]; math.Abs(diag) < tol {
			return gerr.New(gerr.IllConditioned, "QR zero pivot %.3e at column %d (tolerance %.3e); select SVD instead", diag, k, tol)
		}
	}

	// write R back into the upper triangle of psqrtW
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			psqrtW.Set(i, j, A[i*n+j])
		}
	}

	coeffs, err := BackSolveUpperTriangular(A, n, n, B, rhsCols)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		for j := 0; j < rhsCols; j++ {
			rhs.Set(i, j, coeffs[i*rhsCols+j])
		}
	}
	return nil
}

// BackSolveUpperTriangular solves R X = B for X, where R is n x n upper
// triangular (row-major, stride n), B is the top rowsOfB rows (== n) of a
// taller right-hand side with bCols columns. Guards every diagonal pivot
// with the same tolerance FactorizeQR uses.
func BackSolveUpperTriangular(R []float64, n, rowsOfB int, B []float64, bCols int) ([]float64, error) {
	if rowsOfB != n {
		return nil, gerr.New(gerr.ConfigInvalid, "back-solve expects %d right-hand-side rows, got %d", n, rowsOfB)
	}
	X := make([]float64, n*bCols)
	var normInf float64
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := i; j < n; j++ {
			sum += math.Abs(R[i*n+j])
		}
		if sum > normInf {
			normInf = sum
		}
	}
	tol := pivotTolFactor * normInf
	if tol == 0 {
		tol = pivotTolFactor
	}
	for col := 0; col < bCols; col++ {
		for i := n - 1; i >= 0; i-- {
			sum := B[i*bCols+col]
			for j := i + 1; j < n; j++ {
				sum -= R[i*n+j] * X[j*bCols+col]
			}
			diag := R[i*n+i]
			if math.Abs(diag) < tol {
				return nil, gerr.New(gerr.IllConditioned, "zero pivot %.3e in back-solve at row %d", diag, i)
			}
			X[i*bCols+col] = sum / diag
		}
	}
	return X, nil
}
