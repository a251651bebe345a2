// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

// VectorRow builds a block-diagonal vector basis row of length
// NP(p,d)*basisMult: the scalar basis occupies the block belonging to
// component, every other block is zero. This realizes both VectorTaylor and
// VectorOfScalarClonesTaylor (the two spaces differ only in how the
// resulting coefficients are later sampled, not in the basis row itself).
func VectorRow(p, d, basisMult, component int, xi []float64) []float64 {
	np := NP(p, d)
	row := make([]float64, np*basisMult)
	copy(row[component*np:(component+1)*np], Row(p, d, xi))
	return row
}

// VectorPartialRow is the block-diagonal placement of PartialRow, used when
// building the gradient or divergence of a vector-valued reconstruction.
func VectorPartialRow(p, d, basisMult, component, dir int, xi []float64) []float64 {
	np := NP(p, d)
	row := make([]float64, np*basisMult)
	copy(row[component*np:(component+1)*np], PartialRow(p, d, dir, xi))
	return row
}

// VectorSecondPartialRow is the block-diagonal placement of SecondPartialRow.
func VectorSecondPartialRow(p, d, basisMult, component, dir1, dir2 int, xi []float64) []float64 {
	np := NP(p, d)
	row := make([]float64, np*basisMult)
	copy(row[component*np:(component+1)*np], SecondPartialRow(p, d, dir1, dir2, xi))
	return row
}
