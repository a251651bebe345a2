// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestNP(tst *testing.T) {
	chk.PrintTitle("NP")
	chk.IntAssert(NP(0, 1), 1)
	chk.IntAssert(NP(1, 1), 2)
	chk.IntAssert(NP(2, 1), 3)
	chk.IntAssert(NP(2, 2), 6)
	chk.IntAssert(NP(3, 2), 10)
	chk.IntAssert(NP(2, 3), 10)
	chk.IntAssert(NP(3, 3), 20)
}

// laplacianIndices returns the basis indices whose monomial is a pure
// second power along one direction -- the "fixed-index rows" spec.md
// documents as {2}, {3,5}, {4,6,9} for d=1,2,3 at p=2.
func laplacianIndices(p, d int) []int {
	var idx []int
	for i, e := range exponents(p, d) {
		hits := 0
		for k := 0; k < d; k++ {
			if e[k] == 2 {
				hits++
			}
		}
		if hits == 1 {
			total := e[0] + e[1] + e[2]
			if total == 2 {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

func TestLaplacianIndices(tst *testing.T) {
	chk.PrintTitle("LaplacianIndices")
	chk.Ints(tst, "d=1", laplacianIndices(2, 1), []int{2})
	chk.Ints(tst, "d=2", laplacianIndices(2, 2), []int{3, 5})
	chk.Ints(tst, "d=3", laplacianIndices(2, 3), []int{4, 6, 9})
}

func TestRowConstant(tst *testing.T) {
	chk.PrintTitle("RowConstant")
	row := Row(2, 2, []float64{0.3, -0.7})
	chk.Float64(tst, "constant term", 1e-15, row[0], 1.0)
}

func TestPartialMatchesFiniteDifference(tst *testing.T) {
	chk.PrintTitle("PartialMatchesFiniteDifference")
	p, d := 3, 2
	xi := []float64{0.21, -0.37}
	h := 1e-6
	for dir := 0; dir < d; dir++ {
		row := PartialRow(p, d, dir, xi)
		plus := append([]float64{}, xi...)
		minus := append([]float64{}, xi...)
		plus[dir] += h
		minus[dir] -= h
		rp := Row(p, d, plus)
		rm := Row(p, d, minus)
		for k := range row {
			fd := (rp[k] - rm[k]) / (2 * h)
			chk.Float64(tst, "partial", 1e-6, row[k], fd)
		}
	}
}

func TestDivFreeDivergenceVanishes2D(tst *testing.T) {
	chk.PrintTitle("DivFreeDivergenceVanishes2D")
	p := 2
	xi := []float64{0.15, 0.42}
	h := 1e-6
	n := DivFreeDim(p, 2)
	for m := 0; m < n; m++ {
		row0 := DivFreeComponentRow(p, 2, 0, xi)
		row1 := DivFreeComponentRow(p, 2, 1, xi)
		xp := []float64{xi[0] + h, xi[1]}
		xm := []float64{xi[0] - h, xi[1]}
		yp := []float64{xi[0], xi[1] + h}
		ym := []float64{xi[0], xi[1] - h}
		dv0 := (DivFreeComponentRow(p, 2, 0, xp)[m] - DivFreeComponentRow(p, 2, 0, xm)[m]) / (2 * h)
		dv1 := (DivFreeComponentRow(p, 2, 1, yp)[m] - DivFreeComponentRow(p, 2, 1, ym)[m]) / (2 * h)
		_ = row0
		_ = row1
		chk.Float64(tst, "div", 1e-5, dv0+dv1, 0)
	}
}
