// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package prestencil builds the per-target weight table that converts raw
// per-neighbor point data into the "sample" a non-point sampling
// functional actually contracts against alpha -- edge integrals, or vector
// data projected onto a manifold's tangent frame.
package prestencil

import (
	"math"

	"github.com/cpmech/gmls/gerr"
	"github.com/cpmech/gmls/manifold"
)

// Functional names a data-sampling functional recognized by Compute.
type Functional int

const (
	PointSample Functional = iota
	StaggeredEdgeAnalyticGradientIntegralSample
	ManifoldVectorSample
	ManifoldGradientVectorSample
	StaggeredEdgeIntegralSample
)

// Table holds one target's prestencil weights: Weights[n] is the list of
// scalar multipliers applied to neighbor n's raw data before it is dotted
// with alpha.
type Table struct {
	Weights [][]float64
}

// NewTable allocates a table for numNeighbors neighbors, each row width
// wide, and explicitly zeroes every entry. Every row is a fresh make(), so
// the loop repeats Go's zero-value guarantee; it keeps the zero
// initialization of the table explicit.
func NewTable(numNeighbors, width int) *Table {
	t := &Table{Weights: make([][]float64, numNeighbors)}
	for i := range t.Weights {
		t.Weights[i] = make([]float64, width)
		for j := range t.Weights[i] {
			t.Weights[i][j] = 0
		}
	}
	return t
}

// StaggeredEdgeAnalyticGradientIntegralWeights builds the (-c_i, +c_i)
// pair for each neighbor i>0, and c_0 for neighbor 0, where
// c_i = 1/2*(coef[0] + coef[i]).
func StaggeredEdgeAnalyticGradientIntegralWeights(coef []float64) [][2]float64 {
	n := len(coef)
	out := make([][2]float64, n)
	if n == 0 {
		return out
	}
	out[0] = [2]float64{0, coef[0]}
	for i := 1; i < n; i++ {
		ci := 0.5 * (coef[0] + coef[i])
		out[i] = [2]float64{-ci, ci}
	}
	return out
}

// ManifoldVectorWeights returns the (d-1) x d projection matrix (row-major,
// flattened row by row) that converts an ambient vector sample into its
// refined-tangent-frame components: weights = T^T.
func ManifoldVectorWeights(frame *manifold.Frame) []float64 {
	d := frame.D
	dl := d - 1
	out := make([]float64, dl*d)
	for i := 0; i < dl; i++ {
		for j := 0; j < d; j++ {
			out[i*d+j] = frame.T[j*dl+i]
		}
	}
	return out
}

// ManifoldGradientVectorWeights returns the (d-1) x d projection matrix
// onto the coarse tangent plane: weights = V[:, 0:d-1]^T.
func ManifoldGradientVectorWeights(frame *manifold.Frame) []float64 {
	d := frame.D
	dl := d - 1
	out := make([]float64, dl*d)
	for i := 0; i < dl; i++ {
		for j := 0; j < d; j++ {
			out[i*d+j] = frame.V[j*d+i]
		}
	}
	return out
}

// StaggeredEdgeIntegralWeights numerically integrates (1-s)*t and s*t for
// s in [0,1] along the edge tangent t (target -> neighbor), via 2-point
// Gauss-Legendre quadrature (exact for these linear integrands).
func StaggeredEdgeIntegralWeights(edgeTangent []float64) (w1, w2 []float64) {
	nodes := [2]float64{0.5 - 0.5/math.Sqrt(3), 0.5 + 0.5/math.Sqrt(3)}
	const weight = 0.5
	d := len(edgeTangent)
	w1 = make([]float64, d)
	w2 = make([]float64, d)
	for _, s := range nodes {
		for j := 0; j < d; j++ {
			w1[j] += weight * (1 - s) * edgeTangent[j]
			w2[j] += weight * s * edgeTangent[j]
		}
	}
	return w1, w2
}

// Compute builds the prestencil table for the requested functional.
// coef feeds StaggeredEdgeAnalyticGradientIntegralSample; frame feeds the
// two Manifold* functionals; edgeTangents (one per neighbor) feeds
// StaggeredEdgeIntegralSample. PointSample needs none of them and returns
// a nil table, matching spec.md §4.6's "no table (omitted)".
func Compute(functional Functional, numNeighbors int, coef []float64, frame *manifold.Frame, edgeTangents [][]float64) (*Table, error) {
	switch functional {
	case PointSample:
		return nil, nil

	case StaggeredEdgeAnalyticGradientIntegralSample:
		if len(coef) != numNeighbors {
			return nil, gerr.New(gerr.InputInconsistent, "StaggeredEdgeAnalyticGradientIntegralSample needs %d coefficients, got %d", numNeighbors, len(coef))
		}
		table := NewTable(numNeighbors, 2)
		for i, p := range StaggeredEdgeAnalyticGradientIntegralWeights(coef) {
			table.Weights[i][0] = p[0]
			table.Weights[i][1] = p[1]
		}
		return table, nil

	case ManifoldVectorSample:
		if frame == nil {
			return nil, gerr.New(gerr.ConfigInvalid, "ManifoldVectorSample requires a manifold frame")
		}
		w := ManifoldVectorWeights(frame)
		table := NewTable(numNeighbors, len(w))
		for i := range table.Weights {
			copy(table.Weights[i], w)
		}
		return table, nil

	case ManifoldGradientVectorSample:
		if frame == nil {
			return nil, gerr.New(gerr.ConfigInvalid, "ManifoldGradientVectorSample requires a manifold frame")
		}
		w := ManifoldGradientVectorWeights(frame)
		table := NewTable(numNeighbors, len(w))
		for i := range table.Weights {
			copy(table.Weights[i], w)
		}
		return table, nil

	case StaggeredEdgeIntegralSample:
		if len(edgeTangents) != numNeighbors {
			return nil, gerr.New(gerr.InputInconsistent, "StaggeredEdgeIntegralSample needs %d edge tangents, got %d", numNeighbors, len(edgeTangents))
		}
		if numNeighbors == 0 {
			return NewTable(0, 0), nil
		}
		d := len(edgeTangents[0])
		table := NewTable(numNeighbors, 2*d)
		for i, tangent := range edgeTangents {
			if len(tangent) != d {
				return nil, gerr.New(gerr.InputInconsistent, "StaggeredEdgeIntegralSample: inconsistent edge tangent dimension at neighbor %d", i)
			}
			w1, w2 := StaggeredEdgeIntegralWeights(tangent)
			copy(table.Weights[i][:d], w1)
			copy(table.Weights[i][d:], w2)
		}
		return table, nil

	default:
		return nil, gerr.New(gerr.NotImplemented, "unrecognized data sampling functional %d", functional)
	}
}
