// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package weight

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestCubicSplineEndpoints(tst *testing.T) {
	chk.PrintTitle("CubicSplineEndpoints")
	c := Config{Kind: CubicSpline}
	chk.Float64(tst, "W(0)", 1e-15, c.Evaluate(0), 1)
	chk.Float64(tst, "W(1)", 1e-15, c.Evaluate(1), 0)
	chk.Float64(tst, "W(1.5)", 1e-15, c.Evaluate(1.5), 0)
}

func TestCubicSplineMonotone(tst *testing.T) {
	chk.PrintTitle("CubicSplineMonotone")
	c := Config{Kind: CubicSpline}
	prev := c.Evaluate(0)
	for r := 0.01; r < 1.0; r += 0.01 {
		v := c.Evaluate(r)
		if v > prev {
			tst.Fatalf("weight not monotone decreasing at r=%v", r)
		}
		prev = v
	}
}

func TestGaussianEndpoints(tst *testing.T) {
	chk.PrintTitle("GaussianEndpoints")
	c := Config{Kind: Gaussian}
	chk.Float64(tst, "W(0)", 1e-15, c.Evaluate(0), 1)
	chk.Float64(tst, "W(1)", 1e-12, c.Evaluate(1), 0)
}

func TestPowerZeroGuard(tst *testing.T) {
	chk.PrintTitle("PowerZeroGuard")
	c := Config{Kind: Power, Power: 3}
	chk.Float64(tst, "W(0)", 1e-15, c.Evaluate(0), 1)
}

func TestUnitIsFlat(tst *testing.T) {
	chk.PrintTitle("UnitIsFlat")
	c := Config{Kind: Unit}
	chk.Float64(tst, "W(0)", 1e-15, c.Evaluate(0), 1)
	chk.Float64(tst, "W(0.5)", 1e-15, c.Evaluate(0.5), 1)
	chk.Float64(tst, "W(0.999)", 1e-15, c.Evaluate(0.999), 1)
	chk.Float64(tst, "W(1)", 1e-15, c.Evaluate(1), 0)
}
