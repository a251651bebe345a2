// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package linalg implements the dense, per-target numerical kernels the
// orchestrator calls once the weighted polynomial basis has been assembled:
// batched QR and SVD factorization, triangular back-substitution, the
// row-major-to-column-major layout transpose the original Kokkos/LAPACK
// split required (used here to read the coarse manifold frame by columns),
// and the closed-form 3x3 symmetric
// eigendecomposition used to find the coarse tangent plane.
package linalg

// Matrix is a row-major view into a flat buffer. Stride is the allocated
// row length; Rows and Cols are the "live" logical extent, which may be
// smaller than the buffer. The engine wraps a freshly allocated, packed
// slice per target (Stride == Cols), so views never alias across targets.
type Matrix struct {
	Data   []float64
	Stride int
	Rows   int
	Cols   int
}

// NewMatrix wraps a flat row-major buffer of at least rows*stride entries.
func NewMatrix(data []float64, rows, cols, stride int) *Matrix {
	return &Matrix{Data: data, Stride: stride, Rows: rows, Cols: cols}
}

// At returns entry (i,j).
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i*m.Stride+j]
}

// Set assigns entry (i,j).
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i*m.Stride+j] = v
}

// View returns a logically smaller matrix over the same backing storage,
// used when this target's problem (this_num_rows x this_num_columns) is
// smaller than the buffer sized for the batch's worst case.
func (m *Matrix) View(rows, cols int) *Matrix {
	return &Matrix{Data: m.Data, Stride: m.Stride, Rows: rows, Cols: cols}
}

// Zero clears every live entry.
func (m *Matrix) Zero() {
	for i := 0; i < m.Rows; i++ {
		row := m.Data[i*m.Stride : i*m.Stride+m.Cols]
		for j := range row {
			row[j] = 0
		}
	}
}

// Dense copies the live (Rows x Cols) block into a freshly allocated,
// tightly packed row-major slice, suitable for handing to gonum or for
// scratch that must not alias the shared buffer.
func (m *Matrix) Dense() []float64 {
	out := make([]float64, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		copy(out[i*m.Cols:(i+1)*m.Cols], m.Data[i*m.Stride:i*m.Stride+m.Cols])
	}
	return out
}

// NormInf returns the infinity norm (max absolute row sum) of the live
// block, used for the QR zero-pivot tolerance.
func (m *Matrix) NormInf() float64 {
	best := 0.0
	for i := 0; i < m.Rows; i++ {
		sum := 0.0
		for j := 0; j < m.Cols; j++ {
			v := m.At(i, j)
			if v < 0 {
				v = -v
			}
			sum += v
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

// MatrixToLayoutLeft transposes the live block of m in place conceptually:
// it returns a new column-major-ordered flat slice (length Rows*Cols, column
// 0 first) built from the row-major view. The original Kokkos/LAPACK port
// needed this because LAPACK calls expect Fortran (column-major) storage
// while the engine otherwise stores row-major; this port keeps the
// operation, under the same name, and manifold.FitCurvature uses it to read
// the coarse frame V column by column.
func MatrixToLayoutLeft(m *Matrix) []float64 {
	out := make([]float64, m.Rows*m.Cols)
	for j := 0; j < m.Cols; j++ {
		for i := 0; i < m.Rows; i++ {
			out[j*m.Rows+i] = m.At(i, j)
		}
	}
	return out
}
