// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package basis evaluates monomial (Taylor) polynomial basis rows, their
// partial derivatives, and vector-valued variants used to assemble the
// weighted least-squares system and the target-operator rows. Monomials are
// ordered graded-lexicographically (z-outermost in 3D) and normalized by the
// exponent factorial, so that the k-th polynomial coefficient equals the
// k-th derivative of the reconstructed field divided by that factorial.
package basis

import "github.com/cpmech/gmls/gerr"

// MaxOrder is the largest polynomial order the factorial table supports.
const MaxOrder = 14

var factorialTable [MaxOrder + 1]float64

func init() {
	factorialTable[0] = 1
	for n := 1; n <= MaxOrder; n++ {
		factorialTable[n] = factorialTable[n-1] * float64(n)
	}
}

func factorial(n int) float64 {
	return factorialTable[n]
}

// NP returns the dimension of the space of polynomials of total degree <= p
// in d variables: C(p+d, d). Negative p (used to represent "one order below
// constants") returns 0.
func NP(p, d int) int {
	if p < 0 {
		return 0
	}
	n := 1
	for i := 1; i <= d; i++ {
		n = n * (p + i) / i
	}
	return n
}

// exponent is one monomial's per-direction power tuple, always length 3;
// unused trailing directions (beyond d) are always zero.
type exponent [3]int

// exponents returns the canonical, graded-lexicographic (z-outermost)
// ordering of exponent tuples for polynomials of total degree <= p in d
// dimensions.
func exponents(p, d int) []exponent {
	var out []exponent
	switch d {
	case 1:
		for n := 0; n <= p; n++ {
			out = append(out, exponent{n, 0, 0})
		}
	case 2:
		for n := 0; n <= p; n++ {
			for j := 0; j <= n; j++ {
				out = append(out, exponent{n - j, j, 0})
			}
		}
	case 3:
		for n := 0; n <= p; n++ {
			for k := 0; k <= n; k++ {
				for j := 0; j <= n-k; j++ {
					out = append(out, exponent{n - k - j, j, k})
				}
			}
		}
	}
	return out
}

// Validate checks the (p, d) combination all basis evaluations require, and
// that direction (when given, >= 0) is a valid derivative direction in d
// dimensions. Pass direction = -1 to skip that check.
func Validate(p, d, direction int) error {
	if p > MaxOrder {
		return gerr.New(gerr.ConfigInvalid, "polynomial order %d exceeds the factorial table (max %d)", p, MaxOrder)
	}
	if p < 0 {
		return gerr.New(gerr.ConfigInvalid, "polynomial order %d must be >= 0", p)
	}
	if d < 1 || d > 3 {
		return gerr.New(gerr.ConfigInvalid, "dimension %d outside {1,2,3}", d)
	}
	if direction >= d {
		return gerr.New(gerr.ConfigInvalid, "partial direction %d >= local dimension %d", direction, d)
	}
	return nil
}

func monomialValue(e exponent, xi []float64) float64 {
	v := 1.0
	for k, a := range e {
		if a == 0 {
			continue
		}
		if k < len(xi) {
			v *= pow(xi[k], a) / factorial(a)
		} else if a != 0 {
			return 0
		}
	}
	return v
}

func pow(x float64, n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= x
	}
	return v
}

// decrement returns e with direction dir's exponent reduced by count, and ok
// = false if that would go negative (the derivative is then identically 0).
func decrement(e exponent, dir, count int) (exponent, bool) {
	if e[dir] < count {
		return e, false
	}
	e[dir] -= count
	return e, true
}

// Row evaluates the scalar monomial basis at relative coordinate xi (already
// divided by the support radius, and rotated into local coordinates where
// applicable), returning a row of length NP(p,d).
func Row(p, d int, xi []float64) []float64 {
	exps := exponents(p, d)
	row := make([]float64, len(exps))
	for i, e := range exps {
		row[i] = monomialValue(e, xi)
	}
	return row
}

// PartialRow evaluates the first partial derivative of the scalar basis with
// respect to direction dir (0-indexed, < d).
func PartialRow(p, d, dir int, xi []float64) []float64 {
	exps := exponents(p, d)
	row := make([]float64, len(exps))
	for i, e := range exps {
		de, ok := decrement(e, dir, 1)
		if !ok {
			continue
		}
		row[i] = monomialValue(de, xi)
	}
	return row
}

// SecondPartialRow evaluates the mixed second partial derivative of the
// scalar basis with respect to directions dir1 and dir2 (dir1 == dir2 gives
// the pure second partial).
func SecondPartialRow(p, d, dir1, dir2 int, xi []float64) []float64 {
	exps := exponents(p, d)
	row := make([]float64, len(exps))
	for i, e := range exps {
		de := e
		ok := true
		if dir1 == dir2 {
			de, ok = decrement(de, dir1, 2)
		} else {
			de, ok = decrement(de, dir1, 1)
			if ok {
				de, ok = decrement(de, dir2, 1)
			}
		}
		if !ok {
			continue
		}
		row[i] = monomialValue(de, xi)
	}
	return row
}
