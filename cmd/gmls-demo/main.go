// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gmls-demo runs the 1D Laplacian stencil from spec.md §8's first
// end-to-end scenario and prints the resulting alpha coefficients: a
// target at the origin, five neighbors on a unit grid, p=2, unit weight.
package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gmls/gmls"
	"github.com/cpmech/gmls/gmlslog"
	"github.com/cpmech/gmls/target"
	"github.com/cpmech/gmls/weight"
)

func main() {
	order := flag.Int("p", 2, "polynomial reconstruction order")
	verbose := flag.Bool("v", true, "print progress messages")
	flag.Parse()

	gmlslog.Verbose = *verbose

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	sources := [][]float64{{-2}, {-1}, {0}, {1}, {2}}
	problem := gmls.NewProblem(1).
		SetSourceSites(sources).
		SetTargetSites([][]float64{{0}}).
		SetEpsilons([]float64{3.0}).
		SetNeighborLists([][]int{{0, 1, 2, 3, 4}}).
		SetWeightConfig(weight.Config{Kind: weight.Unit}).
		SetPolynomialOrder(*order).
		AddTarget(target.Laplacian)

	engine, err := gmls.NewEngine(problem)
	if err != nil {
		io.PfRed("ERROR: %v\n", err)
		return
	}
	if err := engine.GenerateAlphas(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		return
	}

	io.PfWhite("\nGMLS demo -- 1D Laplacian stencil\n\n")
	for n, x := range sources {
		a, err := engine.GetAlpha(0, 0, 0, 0, n, 0)
		if err != nil {
			io.PfRed("ERROR: %v\n", err)
			return
		}
		io.Pf("alpha[%2d] (x=%5.1f) = %12.6f\n", n, x[0], a)
	}

	var laplacian float64
	for n, x := range sources {
		a, _ := engine.GetAlpha(0, 0, 0, 0, n, 0)
		laplacian += a * x[0] * x[0]
	}
	io.Pf("\napplied to f(x) = x^2: laplacian = %.12f (expect 2.0)\n", laplacian)
}
