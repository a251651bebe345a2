// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmls

// ReconstructionSpace names the polynomial space a target's local fit is
// drawn from.
type ReconstructionSpace int

const (
	ScalarTaylor ReconstructionSpace = iota
	VectorTaylor
	VectorOfScalarClonesTaylor
	DivergenceFreeVectorTaylor
)

func (s ReconstructionSpace) String() string {
	switch s {
	case ScalarTaylor:
		return "ScalarTaylor"
	case VectorTaylor:
		return "VectorTaylor"
	case VectorOfScalarClonesTaylor:
		return "VectorOfScalarClonesTaylor"
	case DivergenceFreeVectorTaylor:
		return "DivergenceFreeVectorTaylor"
	default:
		return "Unknown"
	}
}

// PolynomialSamplingFunctional names how the polynomial basis itself is
// sampled when building sqrt(W)*P; PointSample is the common case.
type PolynomialSamplingFunctional int

const (
	PSFPointSample PolynomialSamplingFunctional = iota
	PSFStaggeredEdgeAnalyticGradientIntegralSample
	PSFManifoldVectorSample
	PSFManifoldGradientVectorSample
	PSFStaggeredEdgeIntegralSample
)

// DataSamplingFunctional names how raw neighbor data is converted into the
// "s_n" value alpha actually contracts against; mirrors prestencil.Functional
// one-to-one (kept as a distinct type here since a Problem is configured in
// terms of this package's vocabulary, not prestencil's internals).
type DataSamplingFunctional int

const (
	DSFPointSample DataSamplingFunctional = iota
	DSFStaggeredEdgeAnalyticGradientIntegralSample
	DSFManifoldVectorSample
	DSFManifoldGradientVectorSample
	DSFStaggeredEdgeIntegralSample
)

// SolverKind selects the dense factorization used per target.
type SolverKind int

const (
	QR SolverKind = iota
	SVD
	Manifold
)

func (k SolverKind) String() string {
	switch k {
	case QR:
		return "QR"
	case SVD:
		return "SVD"
	case Manifold:
		return "Manifold"
	default:
		return "Unknown"
	}
}
