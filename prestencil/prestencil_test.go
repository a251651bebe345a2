// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prestencil

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestNewTableIsZeroed(t *testing.T) {
	chk.PrintTitle("NewTable: fresh shard is explicitly zeroed")

	table := NewTable(3, 2)
	for i := range table.Weights {
		for j := range table.Weights[i] {
			chk.Float64(t, "weight", 1e-15, table.Weights[i][j], 0)
		}
	}
}

func TestStaggeredEdgeAnalyticGradientIntegralWeightsAntisymmetric(t *testing.T) {
	chk.PrintTitle("StaggeredEdgeAnalyticGradientIntegralWeights: antisymmetric pairs")

	coef := []float64{1.0, 2.0, 4.0}
	pairs := StaggeredEdgeAnalyticGradientIntegralWeights(coef)
	chk.Float64(t, "c0", 1e-12, pairs[0][1], 1.0)
	chk.Float64(t, "c0 first entry", 1e-12, pairs[0][0], 0)

	for i := 1; i < len(coef); i++ {
		chk.Float64(t, "antisymmetric", 1e-12, pairs[i][0]+pairs[i][1], 0)
		expected := 0.5 * (coef[0] + coef[i])
		chk.Float64(t, "c_i", 1e-12, pairs[i][1], expected)
	}
}

func TestStaggeredEdgeIntegralWeightsSumToTangent(t *testing.T) {
	chk.PrintTitle("StaggeredEdgeIntegralWeights: w1+w2 integrates to the tangent itself")

	tangent := []float64{2.0, -1.0}
	w1, w2 := StaggeredEdgeIntegralWeights(tangent)
	for j := range tangent {
		// integral of (1-s)+s over [0,1] is 1, so w1+w2 should reproduce tangent.
		chk.Float64(t, "w1+w2", 1e-12, w1[j]+w2[j], tangent[j])
		chk.Float64(t, "w2 half", 1e-12, w2[j], 0.5*tangent[j])
	}
}

func TestComputePointSampleReturnsNoTable(t *testing.T) {
	chk.PrintTitle("Compute: PointSample needs no table")

	table, err := Compute(PointSample, 5, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table != nil {
		t.Fatalf("expected a nil table for PointSample")
	}
}

func TestComputeRejectsMismatchedCoefficients(t *testing.T) {
	chk.PrintTitle("Compute: StaggeredEdgeAnalyticGradientIntegralSample validates input length")

	_, err := Compute(StaggeredEdgeAnalyticGradientIntegralSample, 3, []float64{1, 2}, nil, nil)
	if err == nil {
		t.Fatalf("expected a validation error")
	}
}
