// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linalg

import "math"

// LargestTwoEigenvectorsSym3x3 closed-form eigendecomposes the symmetric 3x3
// matrix a (row-major, 9 entries), returning the orthonormal eigenvectors as
// the columns of a 3x3 row-major matrix V: the two eigenvectors of largest
// eigenvalue occupy V's first two columns (the coarse tangent plane), the
// eigenvector of smallest eigenvalue occupies the third (the surface
// normal). Eigenvalues are found via Cardano's trigonometric solution;
// eigenvectors via cross products of the shifted matrix's rows, the
// standard closed-form approach for the symmetric 3x3 case.
func LargestTwoEigenvectorsSym3x3(a [9]float64) (v [9]float64) {
	// a indexed [row*3+col]; symmetric, so a[1]==a[3], a[2]==a[6], a[5]==a[7].
	a01, a02, a12 := a[1], a[2], a[5]
	p1 := a01*a01 + a02*a02 + a12*a12

	if p1 < 1e-300 {
		// already diagonal: sort descending and return axis-aligned frame
		diag := [3]float64{a[0], a[4], a[8]}
		order := sortDescending(diag)
		for col := 0; col < 3; col++ {
			v[order[col]*3+col] = 1
		}
		return
	}

	q := (a[0] + a[4] + a[8]) / 3
	p2 := sq(a[0]-q) + sq(a[4]-q) + sq(a[8]-q) + 2*p1
	p := math.Sqrt(p2 / 6)

	var b [9]float64
	for i := 0; i < 9; i++ {
		b[i] = a[i] / p
	}
	b[0] -= q / p
	b[4] -= q / p
	b[8] -= q / p

	r := det3(b) / 2
	if r < -1 {
		r = -1
	}
	if r > 1 {
		r = 1
	}
	phi := math.Acos(r) / 3

	eig1 := q + 2*p*math.Cos(phi)                    // largest
	eig3 := q + 2*p*math.Cos(phi+2*math.Pi/3)         // smallest

	// The middle eigenvector is the cross product of the other two, so the
	// columns stay orthonormal when the middle eigenvalue repeats the
	// largest or the smallest one.
	cols := [3][3]float64{eigenvectorFor(a, eig1), {}, eigenvectorFor(a, eig3)}
	cols[1] = crossProduct(cols[2], cols[0])

	for col := 0; col < 3; col++ {
		vec := cols[col]
		v[0*3+col] = vec[0]
		v[1*3+col] = vec[1]
		v[2*3+col] = vec[2]
	}
	return
}

// eigenvectorFor finds a unit eigenvector of symmetric a (row-major) for
// eigenvalue lambda, by taking the cross product of two rows of (a -
// lambda*I); the pair with the largest-magnitude cross product is chosen
// for numerical robustness, since (a - lambda*I) is rank-deficient by
// exactly one (for a simple eigenvalue) and any two independent rows span
// its row space.
func eigenvectorFor(a [9]float64, lambda float64) [3]float64 {
	s := a
	s[0] -= lambda
	s[4] -= lambda
	s[8] -= lambda

	r0 := [3]float64{s[0], s[1], s[2]}
	r1 := [3]float64{s[3], s[4], s[5]}
	r2 := [3]float64{s[6], s[7], s[8]}

	candidates := [][2][3]float64{{r0, r1}, {r0, r2}, {r1, r2}}
	best := [3]float64{}
	bestNorm := -1.0
	for _, c := range candidates {
		cross := crossProduct(c[0], c[1])
		n := norm3(cross)
		if n > bestNorm {
			bestNorm = n
			best = cross
		}
	}
	if bestNorm < 1e-300 {
		return [3]float64{1, 0, 0}
	}
	n := math.Sqrt(dot3(best, best))
	return [3]float64{best[0] / n, best[1] / n, best[2] / n}
}

func crossProduct(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(dot3(a, a))
}

func sq(x float64) float64 { return x * x }

func det3(a [9]float64) float64 {
	return a[0]*(a[4]*a[8]-a[5]*a[7]) -
		a[1]*(a[3]*a[8]-a[5]*a[6]) +
		a[2]*(a[3]*a[7]-a[4]*a[6])
}

// sortDescending returns the permutation that would sort d in descending
// order: order[col] is the original index placed at output column col.
func sortDescending(d [3]float64) [3]int {
	idx := [3]int{0, 1, 2}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if d[idx[j]] > d[idx[i]] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
	return idx
}
