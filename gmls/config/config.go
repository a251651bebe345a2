// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config reads a Problem from a JSON description file, the same way
// the finite-element driver this engine is descended from reads its .sim
// simulation files: a single JSON-tagged struct, decoded with
// encoding/json, with defaults filled in for anything the file omits.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gmls/gerr"
	"github.com/cpmech/gmls/gmls"
	"github.com/cpmech/gmls/target"
	"github.com/cpmech/gmls/weight"
)

// TargetOperatorSpec is the JSON-serializable form of a requested operator.
type TargetOperatorSpec struct {
	Operator        string      `json:"operator"`
	AdditionalSites [][]float64 `json:"additionalSites,omitempty"`
}

// WeightSpec is the JSON-serializable form of a weight.Config.
type WeightSpec struct {
	Kind  string  `json:"kind"`  // "cubicSpline" (default), "power" or "unit"
	Power float64 `json:"power"` // only meaningful when kind == "power"
}

// File is the on-disk JSON shape a Problem is read from.
type File struct {
	DGlobal             int                   `json:"dGlobal"`
	SourceSites         [][]float64           `json:"sourceSites"`
	TargetSites         [][]float64           `json:"targetSites"`
	Epsilons            []float64             `json:"epsilons"`
	Neighbors           [][]int               `json:"neighbors"`
	TargetExtraData     [][][]float64         `json:"targetExtraData,omitempty"`
	ReconstructionSpace string                `json:"reconstructionSpace"`
	Solver              string                `json:"solver"`
	PolynomialOrder     int                   `json:"polynomialOrder"`
	CurvaturePolyOrder  int                   `json:"curvaturePolynomialOrder,omitempty"`
	Weight              WeightSpec            `json:"weight"`
	Operators           []TargetOperatorSpec  `json:"operators"`
}

// ReadProblem reads and decodes path into a fully configured *gmls.Problem.
// It panics on file-read or JSON-syntax errors, matching the teacher's
// ReadSim convention of treating a malformed input file as unrecoverable;
// a malformed but syntactically valid Problem (bad operator name, unknown
// reconstruction space) is instead returned as an ordinary *gerr.Error so
// callers can handle it the same way they handle any other config error.
func ReadProblem(path string) (*gmls.Problem, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("ReadProblem: cannot read config file %q: %v", path, err)
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		chk.Panic("ReadProblem: cannot unmarshal config file %q: %v", path, err)
	}

	p := gmls.NewProblem(f.DGlobal).
		SetSourceSites(f.SourceSites).
		SetTargetSites(f.TargetSites).
		SetEpsilons(f.Epsilons).
		SetNeighborLists(f.Neighbors).
		SetPolynomialOrder(f.PolynomialOrder)

	if f.TargetExtraData != nil {
		p.SetTargetExtraData(f.TargetExtraData)
	}
	if f.CurvaturePolyOrder > 0 {
		p.SetCurvaturePolynomialOrder(f.CurvaturePolyOrder)
	}

	space, err := parseReconstructionSpace(f.ReconstructionSpace)
	if err != nil {
		return nil, err
	}
	p.SetReconstructionSpace(space)

	solver, err := parseSolver(f.Solver)
	if err != nil {
		return nil, err
	}
	p.SetSolverType(solver)

	wc, err := parseWeight(f.Weight)
	if err != nil {
		return nil, err
	}
	p.SetWeightConfig(wc)

	for _, spec := range f.Operators {
		op, err := parseOperator(spec.Operator)
		if err != nil {
			return nil, err
		}
		p.AddTarget(op, spec.AdditionalSites...)
	}

	return p, nil
}

func parseReconstructionSpace(name string) (gmls.ReconstructionSpace, error) {
	switch name {
	case "", "scalarTaylor":
		return gmls.ScalarTaylor, nil
	case "vectorTaylor":
		return gmls.VectorTaylor, nil
	case "vectorOfScalarClonesTaylor":
		return gmls.VectorOfScalarClonesTaylor, nil
	case "divergenceFreeVectorTaylor":
		return gmls.DivergenceFreeVectorTaylor, nil
	default:
		return 0, gerr.New(gerr.ConfigInvalid, "unknown reconstructionSpace %q", name)
	}
}

func parseSolver(name string) (gmls.SolverKind, error) {
	switch name {
	case "", "qr":
		return gmls.QR, nil
	case "svd":
		return gmls.SVD, nil
	case "manifold":
		return gmls.Manifold, nil
	default:
		return 0, gerr.New(gerr.ConfigInvalid, "unknown solver %q", name)
	}
}

func parseWeight(w WeightSpec) (weight.Config, error) {
	switch w.Kind {
	case "", "cubicSpline":
		return weight.Default, nil
	case "power":
		return weight.Config{Kind: weight.Power, Power: w.Power}, nil
	case "unit":
		return weight.Config{Kind: weight.Unit}, nil
	default:
		return weight.Config{}, gerr.New(gerr.ConfigInvalid, "unknown weight kind %q", w.Kind)
	}
}

func parseOperator(name string) (target.Operator, error) {
	switch name {
	case "scalarPointEval":
		return target.ScalarPointEval, nil
	case "vectorPointEval":
		return target.VectorPointEval, nil
	case "gradient":
		return target.Gradient, nil
	case "partialX":
		return target.PartialX, nil
	case "partialY":
		return target.PartialY, nil
	case "partialZ":
		return target.PartialZ, nil
	case "laplacian":
		return target.Laplacian, nil
	case "divergence":
		return target.Divergence, nil
	case "curl":
		return target.Curl, nil
	case "curlCurl":
		return target.CurlCurl, nil
	case "vectorLaplacianPointEvaluation":
		return target.VectorLaplacianPointEvaluation, nil
	case "scalarFaceAverage":
		return target.ScalarFaceAverage, nil
	case "gaussianCurvaturePointEvaluation":
		return target.GaussianCurvaturePointEvaluation, nil
	default:
		return 0, gerr.New(gerr.ConfigInvalid, "unknown operator %q", name)
	}
}
