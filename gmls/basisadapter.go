// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmls

import (
	"github.com/cpmech/gmls/basis"
	"github.com/cpmech/gmls/gerr"
	"github.com/cpmech/gmls/target"
)

// buildBasis wraps the package-level monomial basis evaluators as a
// target.Basis matching this problem's reconstruction space and local
// dimension. d is the basis's own working dimension: d_local on flat
// problems, 2 (the refined tangent plane) on manifolds.
func (p *Problem) buildBasis(order, d int) (target.Basis, error) {
	switch p.ReconstructionSpace {
	case ScalarTaylor:
		np := basis.NP(order, d)
		return target.Basis{
			Dim:       np,
			D:         d,
			BasisMult: 1,
			Row: func(_ int, xi []float64) []float64 {
				return basis.Row(order, d, xi)
			},
			Partial: func(_, dir int, xi []float64) []float64 {
				return basis.PartialRow(order, d, dir, xi)
			},
			SecondPartial: func(_, dir1, dir2 int, xi []float64) []float64 {
				return basis.SecondPartialRow(order, d, dir1, dir2, xi)
			},
		}, nil

	case VectorTaylor, VectorOfScalarClonesTaylor:
		np := basis.NP(order, d)
		return target.Basis{
			Dim:       np * d,
			D:         d,
			BasisMult: d,
			Row: func(c int, xi []float64) []float64 {
				return basis.VectorRow(order, d, d, c, xi)
			},
			Partial: func(c, dir int, xi []float64) []float64 {
				return basis.VectorPartialRow(order, d, d, c, dir, xi)
			},
			SecondPartial: func(c, dir1, dir2 int, xi []float64) []float64 {
				return basis.VectorSecondPartialRow(order, d, d, c, dir1, dir2, xi)
			},
		}, nil

	case DivergenceFreeVectorTaylor:
		dim := basis.DivFreeDim(order, d)
		return target.Basis{
			Dim:       dim,
			D:         d,
			BasisMult: d,
			Row: func(c int, xi []float64) []float64 {
				return basis.DivFreeComponentRow(order, d, c, xi)
			},
			// Partial derivatives of the divergence-free basis are not
			// implemented (see DESIGN.md); any operator that needs them
			// fails loudly rather than silently returning a wrong row.
			Partial: func(_, _ int, _ []float64) []float64 {
				return nil
			},
			SecondPartial: func(_, _, _ int, _ []float64) []float64 {
				return nil
			},
		}, nil

	default:
		return target.Basis{}, gerr.New(gerr.ConfigInvalid, "unrecognized reconstruction space %v", p.ReconstructionSpace)
	}
}

// requiresDerivatives reports whether op needs Partial/SecondPartial rows,
// which the divergence-free basis adapter above does not implement.
func requiresDerivatives(op target.Operator) bool {
	switch op {
	case target.ScalarPointEval, target.VectorPointEval, target.ScalarFaceAverage:
		return false
	default:
		return true
	}
}
