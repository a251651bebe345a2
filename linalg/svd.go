// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cpmech/gmls/gerr"
)

// svdZeroFactor is the spec.md §4.3 singular-value threshold factor:
// max(m,n) * 1e-14 * sigma0.
const svdZeroFactor = 1e-14

// FactorizeSVD performs a Golub-Reinsch SVD of psqrtW (m x n) via
// gonum.org/v1/gonum/mat, and overwrites the top n rows of rhs (m x
// rhsCols) with the minimum-norm least-squares solution pinv(psqrtW)*rhs --
// the polynomial-coefficient operator C used when the sampling functional
// induces a non-trivial basis nullspace (spec.md invariant 2). Singular
// values below max(m,n)*1e-14*sigma0 are treated as zero when forming the
// pseudo-inverse, per spec.md §4.3.
func FactorizeSVD(psqrtW, rhs *Matrix) error {
	m, n := psqrtW.Rows, psqrtW.Cols
	A := mat.NewDense(m, n, psqrtW.Dense())

	var svd mat.SVD
	if !svd.Factorize(A, mat.SVDThin) {
		return gerr.New(gerr.IllConditioned, "SVD factorization failed to converge")
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] <= 0 {
		return gerr.New(gerr.IllConditioned, "SVD produced no positive singular values")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	k := u.RawMatrix().Cols // thin rank: min(m,n)

	sigma0 := values[0]
	threshold := float64(maxInt(m, n)) * svdZeroFactor * sigma0
	if sigma0 < threshold {
		return gerr.New(gerr.IllConditioned, "all singular values below threshold %.3e (largest %.3e)", threshold, sigma0)
	}

	rhsCols := rhs.Cols
	B := mat.NewDense(m, rhsCols, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < rhsCols; j++ {
			B.Set(i, j, rhs.At(i, j))
		}
	}

	var utb mat.Dense
	utb.Mul(u.T(), B) // k x rhsCols

	for i := 0; i < k; i++ {
		sv := values[i]
		for j := 0; j < rhsCols; j++ {
			if sv < threshold {
				utb.Set(i, j, 0)
			} else {
				utb.Set(i, j, utb.At(i, j)/sv)
			}
		}
	}

	var coeffs mat.Dense
	coeffs.Mul(&v, &utb) // n x rhsCols

	for i := 0; i < n; i++ {
		for j := 0; j < rhsCols; j++ {
			rhs.Set(i, j, coeffs.At(i, j))
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
