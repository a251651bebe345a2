// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gmls is the public entry point: it collects a Problem
// description (point clouds, neighbor lists, operators) and, via Engine,
// runs the per-target weighted least-squares pipeline to produce alpha
// stencil coefficients and prestencil weight tables.
package gmls

import (
	"github.com/cpmech/gmls/basis"
	"github.com/cpmech/gmls/gerr"
	"github.com/cpmech/gmls/target"
	"github.com/cpmech/gmls/weight"
)

// TargetOperator pairs a requested operator with its (optional) additional
// evaluation sites, per target.
type TargetOperator struct {
	Operator         target.Operator
	AdditionalSites  [][]float64 // extra evaluation points, in ambient coordinates, or nil
}

// Problem collects every configuration input spec.md §3/§6 names, built up
// via chained Set* methods mirroring the original external interface
// (set_source_sites, set_target_sites, ...). Nothing is validated until
// NewEngine(problem) runs Problem.validate(), per spec.md §7's "config
// checks run before allocation".
type Problem struct {
	DGlobal int

	SourceSites [][]float64
	TargetSites [][]float64
	Epsilons    []float64
	Neighbors   [][]int // Neighbors[t] = ordered source indices for target t

	TargetExtraData [][][]float64 // TargetExtraData[t] = cell vertices, for face-average targets; nil otherwise

	ReconstructionSpace ReconstructionSpace
	PolySampling        PolynomialSamplingFunctional
	DataSampling        DataSamplingFunctional
	Solver              SolverKind

	P  int // polynomial order
	Pm int // curvature (manifold) polynomial order

	WeightConfig weight.Config

	Operators []TargetOperator
}

// NewProblem returns a Problem for ambient dimension dGlobal (1, 2, or 3)
// with the spec's defaults: ScalarTaylor reconstruction, point sampling,
// QR solver, the default cubic-spline weight kernel.
func NewProblem(dGlobal int) *Problem {
	return &Problem{
		DGlobal:      dGlobal,
		WeightConfig: weight.Default,
		Solver:       QR,
	}
}

func (p *Problem) SetSourceSites(sites [][]float64) *Problem { p.SourceSites = sites; return p }
func (p *Problem) SetTargetSites(sites [][]float64) *Problem { p.TargetSites = sites; return p }
func (p *Problem) SetEpsilons(eps []float64) *Problem        { p.Epsilons = eps; return p }
func (p *Problem) SetNeighborLists(nbr [][]int) *Problem     { p.Neighbors = nbr; return p }
func (p *Problem) SetTargetExtraData(data [][][]float64) *Problem {
	p.TargetExtraData = data
	return p
}
func (p *Problem) SetReconstructionSpace(s ReconstructionSpace) *Problem {
	p.ReconstructionSpace = s
	return p
}
func (p *Problem) SetPolynomialSamplingFunctional(f PolynomialSamplingFunctional) *Problem {
	p.PolySampling = f
	return p
}
func (p *Problem) SetDataSamplingFunctional(f DataSamplingFunctional) *Problem {
	p.DataSampling = f
	return p
}
func (p *Problem) SetSolverType(k SolverKind) *Problem  { p.Solver = k; return p }
func (p *Problem) SetPolynomialOrder(order int) *Problem { p.P = order; return p }
func (p *Problem) SetCurvaturePolynomialOrder(order int) *Problem {
	p.Pm = order
	return p
}
func (p *Problem) SetWeightConfig(c weight.Config) *Problem { p.WeightConfig = c; return p }

// AddTarget appends a requested target operator (with optional additional
// evaluation sites) to the ordered operator list; repeatable, per spec.md
// §6's "add_target(operator)".
func (p *Problem) AddTarget(op target.Operator, additionalSites ...[]float64) *Problem {
	p.Operators = append(p.Operators, TargetOperator{Operator: op, AdditionalSites: additionalSites})
	return p
}

// localDim returns d_local: d_global on flat problems, d_global-1 on
// manifolds.
func (p *Problem) localDim() int {
	if p.Solver == Manifold {
		return p.DGlobal - 1
	}
	return p.DGlobal
}

// effectiveP returns p bumped by one when the polynomial sampling
// functional is StaggeredEdgeAnalyticGradientIntegralSample, per spec.md
// §4.7: "p is bumped by 1 internally so the gradient of the basis retains
// nominal order."
func (p *Problem) effectiveP() int {
	if p.PolySampling == PSFStaggeredEdgeAnalyticGradientIntegralSample {
		return p.P + 1
	}
	return p.P
}

// validate runs every config check spec.md §3's invariants and §7's
// "config checks run before allocation" require, returning the first
// violation found as a *gerr.Error: ConfigInvalid for configuration
// problems, InputInconsistent for a bad epsilon, too few neighbors or an
// out-of-range neighbor index.
func (p *Problem) validate() error {
	if p.DGlobal < 1 || p.DGlobal > 3 {
		return gerr.New(gerr.ConfigInvalid, "ambient dimension must be 1, 2, or 3, got %d", p.DGlobal)
	}
	if err := basis.Validate(p.effectiveP(), p.localDim(), 0); err != nil {
		return err
	}
	if p.Solver == Manifold && p.DGlobal != 3 {
		return gerr.New(gerr.ConfigInvalid, "manifold solver requires ambient dimension 3, got %d", p.DGlobal)
	}
	if len(p.TargetSites) == 0 {
		return gerr.New(gerr.ConfigInvalid, "at least one target site is required")
	}
	if len(p.Epsilons) != len(p.TargetSites) {
		return gerr.New(gerr.ConfigInvalid, "epsilons length (%d) must match target count (%d)", len(p.Epsilons), len(p.TargetSites))
	}
	if len(p.Neighbors) != len(p.TargetSites) {
		return gerr.New(gerr.ConfigInvalid, "neighbor-list count (%d) must match target count (%d)", len(p.Neighbors), len(p.TargetSites))
	}
	if len(p.Operators) == 0 {
		return gerr.New(gerr.ConfigInvalid, "at least one target operator is required")
	}

	basisMult := p.basisMult()
	np := basis.NP(p.effectiveP(), p.localDim())
	minNeighbors := np * basisMult
	if p.ReconstructionSpace == DivergenceFreeVectorTaylor {
		minNeighbors = basis.DivFreeDim(p.effectiveP(), p.localDim())
	}

	for t, eps := range p.Epsilons {
		if eps <= 1e-13 {
			return gerr.AtTarget(gerr.InputInconsistent, t, "support radius epsilon must be well above machine zero, got %.3e", eps)
		}
		k := len(p.Neighbors[t])
		if k < minNeighbors {
			return gerr.AtTarget(gerr.InputInconsistent, t, "target has %d neighbors, needs at least %d for a well-posed fit", k, minNeighbors)
		}
		for _, idx := range p.Neighbors[t] {
			if idx < 0 || idx >= len(p.SourceSites) {
				return gerr.AtTarget(gerr.InputInconsistent, t, "neighbor index %d out of range [0,%d)", idx, len(p.SourceSites))
			}
		}
	}
	return nil
}

// basisMult is 1 on scalar spaces, d on vector spaces, d-1 on manifold
// vector spaces, per spec.md §3.
func (p *Problem) basisMult() int {
	switch p.ReconstructionSpace {
	case ScalarTaylor:
		return 1
	case VectorTaylor, VectorOfScalarClonesTaylor, DivergenceFreeVectorTaylor:
		if p.Solver == Manifold {
			return p.DGlobal - 1
		}
		return p.DGlobal
	default:
		return 1
	}
}
