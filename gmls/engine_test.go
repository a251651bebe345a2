// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gmls

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gmls/target"
	"github.com/cpmech/gmls/weight"
)

// unitWeight is the literal "unit weight" the end-to-end scenarios in
// spec.md §8 call for.
var unitWeight = weight.Config{Kind: weight.Unit}

func TestScenario1_1DLaplacian(t *testing.T) {
	chk.PrintTitle("scenario 1: 1D Laplacian, p=2, 5 neighbors, unit weight")

	sources := [][]float64{{-2}, {-1}, {0}, {1}, {2}}
	problem := NewProblem(1).
		SetSourceSites(sources).
		SetTargetSites([][]float64{{0}}).
		SetEpsilons([]float64{3.0}).
		SetNeighborLists([][]int{{0, 1, 2, 3, 4}}).
		SetWeightConfig(unitWeight).
		SetPolynomialOrder(2).
		AddTarget(target.Laplacian)

	engine, err := NewEngine(problem)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.GenerateAlphas(); err != nil {
		t.Fatalf("GenerateAlphas failed: %v", err)
	}

	fValues := make([]float64, 5)
	for i, x := range sources {
		fValues[i] = x[0] * x[0]
	}
	var laplacian float64
	for n := 0; n < 5; n++ {
		a, err := engine.GetAlpha(0, 0, 0, 0, n, 0)
		if err != nil {
			t.Fatalf("GetAlpha failed: %v", err)
		}
		laplacian += a * fValues[n]
	}
	chk.Float64(t, "laplacian", 1e-9, laplacian, 2.0)
}

func TestScenario2_2DGradient(t *testing.T) {
	chk.PrintTitle("scenario 2: 2D Gradient, p=2, 9 neighbors, unit weight")

	var sources [][]float64
	for _, x := range []float64{-1, 0, 1} {
		for _, y := range []float64{-1, 0, 1} {
			sources = append(sources, []float64{x, y})
		}
	}
	nbr := make([]int, len(sources))
	for i := range nbr {
		nbr[i] = i
	}

	problem := NewProblem(2).
		SetSourceSites(sources).
		SetTargetSites([][]float64{{0, 0}}).
		SetEpsilons([]float64{2.0}).
		SetNeighborLists([][]int{nbr}).
		SetWeightConfig(unitWeight).
		SetPolynomialOrder(2).
		AddTarget(target.Gradient)

	engine, err := NewEngine(problem)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.GenerateAlphas(); err != nil {
		t.Fatalf("GenerateAlphas failed: %v", err)
	}

	f := func(x, y float64) float64 { return 3*x + 5*y + x*y }
	fValues := make([]float64, len(sources))
	for i, s := range sources {
		fValues[i] = f(s[0], s[1])
	}

	var dx, dy float64
	for n := range sources {
		ax, err := engine.GetAlpha(0, 0, 0, 0, n, 0)
		if err != nil {
			t.Fatalf("GetAlpha dx failed: %v", err)
		}
		ay, err := engine.GetAlpha(0, 0, 1, 0, n, 0)
		if err != nil {
			t.Fatalf("GetAlpha dy failed: %v", err)
		}
		dx += ax * fValues[n]
		dy += ay * fValues[n]
	}
	chk.Float64(t, "df/dx", 1e-9, dx, 3.0)
	chk.Float64(t, "df/dy", 1e-9, dy, 5.0)
}

func TestScenario3_3DJitteredLaplacian(t *testing.T) {
	chk.PrintTitle("scenario 3: 3D Laplacian on a jittered cloud, p=3")

	// Lattice spacing 0.8 (not 1.0): at eps=1.5 every compactly supported
	// weight kernel is zero at r>=1, and a 3x3x3 grid at spacing 1.0 puts
	// its corners at distance sqrt(3)~1.73 (r~1.15), outside the support
	// radius -- leaving fewer than NP(3,3)=20 active equations for 20
	// unknowns. Spacing 0.8 keeps every corner (distance sqrt(3)*0.8~1.39,
	// r~0.92) inside the support while still spanning [-1,1]^3.
	rng := rand.New(rand.NewSource(1))
	var sources [][]float64
	for _, x := range []float64{-0.8, 0, 0.8} {
		for _, y := range []float64{-0.8, 0, 0.8} {
			for _, z := range []float64{-0.8, 0, 0.8} {
				jitter := func() float64 { return (rng.Float64() - 0.5) * 0.05 }
				sources = append(sources, []float64{x + jitter(), y + jitter(), z + jitter()})
			}
		}
	}
	nbr := make([]int, len(sources))
	for i := range nbr {
		nbr[i] = i
	}

	problem := NewProblem(3).
		SetSourceSites(sources).
		SetTargetSites([][]float64{{0, 0, 0}}).
		SetEpsilons([]float64{1.5}).
		SetNeighborLists([][]int{nbr}).
		SetPolynomialOrder(3).
		AddTarget(target.Laplacian)

	engine, err := NewEngine(problem)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.GenerateAlphas(); err != nil {
		t.Fatalf("GenerateAlphas failed: %v", err)
	}

	fValues := make([]float64, len(sources))
	for i, s := range sources {
		fValues[i] = s[0]*s[0] + s[1]*s[1] + s[2]*s[2]
	}
	var laplacian float64
	for n := range sources {
		a, err := engine.GetAlpha(0, 0, 0, 0, n, 0)
		if err != nil {
			t.Fatalf("GetAlpha failed: %v", err)
		}
		laplacian += a * fValues[n]
	}
	chk.Float64(t, "laplacian", 1e-6, laplacian, 6.0)
}

func TestScenario4_ManifoldSurfaceGradientAtPole(t *testing.T) {
	chk.PrintTitle("scenario 4: manifold surface gradient at the sphere's pole")

	const n = 12
	const radius = 0.3
	pole := []float64{0, 0, 1}
	var sources [][]float64
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		// alternate two radii: on a single circle the p=3 fits are rank
		// deficient (x^2+y^2 is constant there)
		r := radius
		if i%2 == 0 {
			r = radius / 2
		}
		x := r * math.Cos(theta)
		y := r * math.Sin(theta)
		z := 1 - (x*x+y*y)/2 // paraboloid approximation of the sphere near the pole
		sources = append(sources, []float64{x, y, z})
	}
	nbr := make([]int, n)
	for i := range nbr {
		nbr[i] = i
	}

	problem := NewProblem(3).
		SetSourceSites(sources).
		SetTargetSites([][]float64{pole}).
		SetEpsilons([]float64{radius * 1.2}).
		SetNeighborLists([][]int{nbr}).
		SetSolverType(Manifold).
		SetPolynomialOrder(3).
		SetCurvaturePolynomialOrder(3).
		AddTarget(target.Gradient)

	engine, err := NewEngine(problem)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.GenerateAlphas(); err != nil {
		t.Fatalf("GenerateAlphas failed: %v", err)
	}

	fValues := make([]float64, n)
	for i, s := range sources {
		fValues[i] = s[2] // f = z restricted to the surface
	}

	for outComp := 0; outComp < 2; outComp++ {
		var grad float64
		for nb := 0; nb < n; nb++ {
			a, err := engine.GetAlpha(0, 0, outComp, 0, nb, 0)
			if err != nil {
				t.Fatalf("GetAlpha failed: %v", err)
			}
			grad += a * fValues[nb]
		}
		chk.Float64(t, "surface gradient component", 1e-6, grad, 0)
	}
}

func TestScenario6_FaceAverageOnTriangle(t *testing.T) {
	chk.PrintTitle("scenario 6: face average on a triangle cell, p=1")

	vertices := [][]float64{{0, 0}, {1, 0}, {0, 1}}

	problem := NewProblem(2).
		SetSourceSites(vertices).
		SetTargetSites([][]float64{{0, 0}}).
		SetEpsilons([]float64{2.0}).
		SetNeighborLists([][]int{{0, 1, 2}}).
		SetTargetExtraData([][][]float64{vertices}).
		SetWeightConfig(unitWeight).
		SetPolynomialOrder(1).
		AddTarget(target.ScalarFaceAverage)

	engine, err := NewEngine(problem)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.GenerateAlphas(); err != nil {
		t.Fatalf("GenerateAlphas failed: %v", err)
	}

	f := func(x, y float64) float64 { return 1 + 2*x + 3*y }
	fValues := make([]float64, 3)
	for i, v := range vertices {
		fValues[i] = f(v[0], v[1])
	}
	var avg float64
	for n := 0; n < 3; n++ {
		a, err := engine.GetAlpha(0, 0, 0, 0, n, 0)
		if err != nil {
			t.Fatalf("GetAlpha failed: %v", err)
		}
		avg += a * fValues[n]
	}
	chk.Float64(t, "cell average", 1e-9, avg, 1+2.0/3.0+1.0)
}

func TestEngineRejectsTooFewNeighbors(t *testing.T) {
	chk.PrintTitle("Engine: rejects a target with too few neighbors")

	problem := NewProblem(1).
		SetSourceSites([][]float64{{-1}, {0}, {1}}).
		SetTargetSites([][]float64{{0}}).
		SetEpsilons([]float64{2.0}).
		SetNeighborLists([][]int{{0, 1, 2}}).
		SetPolynomialOrder(3). // NP(3,1) = 4 > 3 neighbors: ill-posed
		AddTarget(target.ScalarPointEval)

	_, err := NewEngine(problem)
	if err == nil {
		t.Fatalf("expected a config validation error")
	}
}

func TestEngineRejectsEpsilonNearMachineZero(t *testing.T) {
	chk.PrintTitle("Engine: rejects an epsilon approaching machine zero")

	problem := NewProblem(1).
		SetSourceSites([][]float64{{-1}, {0}, {1}}).
		SetTargetSites([][]float64{{0}}).
		SetEpsilons([]float64{1e-15}).
		SetNeighborLists([][]int{{0, 1, 2}}).
		SetPolynomialOrder(1).
		AddTarget(target.ScalarPointEval)

	_, err := NewEngine(problem)
	if err == nil {
		t.Fatalf("expected a config validation error")
	}
}
