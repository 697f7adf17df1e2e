// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch reports a failed inner-dimension check on a matrix
// operation. The destination is left untouched.
var ErrShapeMismatch = errors.New("shape mismatch")

// MatMulOp selects the transpose variant of MatMul.
type MatMulOp int

const (
	// MatMulNN computes A·B.
	MatMulNN MatMulOp = iota
	// MatMulNT computes A·Bᵀ.
	MatMulNT
	// MatMulTN computes Aᵀ·B.
	MatMulTN
	// MatMulTT computes Aᵀ·Bᵀ.
	MatMulTT
)

// MatMul multiplies row-major a (an×am) with b (bn×bm) under the given
// transpose variant, writing the row-major result into dst. dst must hold
// rows×cols of the effective shapes. Accumulation is in float64.
func MatMul(op MatMulOp, a []float32, an, am int, b []float32, bn, bm int, dst []float32) error {
	arows, acols := an, am
	if op == MatMulTN || op == MatMulTT {
		arows, acols = am, an
	}
	brows, bcols := bn, bm
	if op == MatMulNT || op == MatMulTT {
		brows, bcols = bm, bn
	}
	if acols != brows {
		return fmt.Errorf("matmul %dx%d @ %dx%d: %w", arows, acols, brows, bcols, ErrShapeMismatch)
	}
	if len(dst) < arows*bcols {
		return fmt.Errorf("matmul dst %d < %d: %w", len(dst), arows*bcols, ErrShapeMismatch)
	}
	at := func(i, k int) float32 {
		if op == MatMulTN || op == MatMulTT {
			return a[k*am+i]
		}
		return a[i*am+k]
	}
	bt := func(k, j int) float32 {
		if op == MatMulNT || op == MatMulTT {
			return b[j*bm+k]
		}
		return b[k*bm+j]
	}
	for i := 0; i < arows; i++ {
		for j := 0; j < bcols; j++ {
			var s float64
			for k := 0; k < acols; k++ {
				s += float64(at(i, k)) * float64(bt(k, j))
			}
			dst[i*bcols+j] = float32(s)
		}
	}
	return nil
}

// Outer writes the outer product of column vector a and row vector b into
// dst (len(a)×len(b), row major).
func Outer(a, b, dst []float32) {
	for i, x := range a {
		row := dst[i*len(b) : (i+1)*len(b)]
		for j, y := range b {
			row[j] = x * y
		}
	}
}

// MatSumRows writes each row sum of the n×m row-major matrix into dst[n].
func MatSumRows(m []float32, n, cols int, dst []float32) {
	for i := 0; i < n; i++ {
		dst[i] = Sum(m[i*cols : (i+1)*cols])
	}
}

// MatDivRows divides each row of the n×m matrix by the matching weight.
func MatDivRows(m []float32, n, cols int, weights []float32) {
	for i := 0; i < n; i++ {
		row := m[i*cols : (i+1)*cols]
		DivValue(row, weights[i], nil)
	}
}

// MatMulRowsVec multiplies each row of the n×m matrix elementwise by v[m].
func MatMulRowsVec(m []float32, n, cols int, v []float32, dst []float32) {
	d := dest(m, dst)
	for i := 0; i < n; i++ {
		Mul(m[i*cols:(i+1)*cols], v, d[i*cols:(i+1)*cols])
	}
}
