// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	v := Linspace(0, 1, 5)
	assert.Equal(t, []float32{0, 0.25, 0.5, 0.75, 1}, v)

	v = Linspace(2, 2, 1)
	assert.Equal(t, []float32{2}, v)
}

func TestElementwiseInPlace(t *testing.T) {
	v := []float32{-1, 2, -3}
	Abs(v, nil)
	assert.Equal(t, []float32{1, 2, 3}, v)

	dst := make([]float32, 3)
	Neg(v, dst)
	assert.Equal(t, []float32{-1, -2, -3}, dst)
	// source untouched when a destination is given
	assert.Equal(t, []float32{1, 2, 3}, v)
}

func TestSinc(t *testing.T) {
	assert.Equal(t, float32(1), Sinc(0))
	assert.InDelta(t, 0, Sinc(1), 1e-6)
	assert.InDelta(t, 0, Sinc(2), 1e-6)
	assert.InDelta(t, 2/math.Pi, float64(Sinc(0.5)), 1e-6)
}

func TestNorms(t *testing.T) {
	v := []float32{3, -4}
	assert.InDelta(t, 4, Norm(v, 0), 1e-6)
	assert.InDelta(t, 7, Norm(v, 1), 1e-6)
	assert.InDelta(t, 5, Norm(v, 2), 1e-6)
}

func TestPadReflect(t *testing.T) {
	v := []float32{1, 2, 3, 4}
	p := Pad(v, 2, 2, PadReflect, 0)
	assert.Equal(t, []float32{3, 2, 1, 2, 3, 4, 3, 2}, p)
}

func TestPadModes(t *testing.T) {
	v := []float32{1, 2, 3}
	assert.Equal(t, []float32{2, 3, 1, 2, 3, 1, 2}, Pad(v, 2, 2, PadWrap, 0))
	assert.Equal(t, []float32{2, 1, 1, 2, 3, 3, 2}, Pad(v, 2, 2, PadSymmetric, 0))
	assert.Equal(t, []float32{1, 1, 1, 2, 3, 3, 3}, Pad(v, 2, 2, PadEdge, 0))
	assert.Equal(t, []float32{9, 9, 1, 2, 3, 9, 9}, Pad(v, 2, 2, PadConstant, 9))
}

func TestMatMulVariants(t *testing.T) {
	a := []float32{1, 2, 3, 4} // 2x2
	b := []float32{5, 6, 7, 8} // 2x2
	dst := make([]float32, 4)

	require.NoError(t, MatMul(MatMulNN, a, 2, 2, b, 2, 2, dst))
	assert.Equal(t, []float32{19, 22, 43, 50}, dst)

	require.NoError(t, MatMul(MatMulNT, a, 2, 2, b, 2, 2, dst))
	assert.Equal(t, []float32{17, 23, 39, 53}, dst)

	require.NoError(t, MatMul(MatMulTN, a, 2, 2, b, 2, 2, dst))
	assert.Equal(t, []float32{26, 30, 38, 44}, dst)

	require.NoError(t, MatMul(MatMulTT, a, 2, 2, b, 2, 2, dst))
	assert.Equal(t, []float32{23, 31, 34, 46}, dst)
}

func TestMatMulShapeError(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6} // 2x3
	b := []float32{1, 2, 3, 4}       // 2x2
	dst := []float32{9, 9, 9, 9}

	err := MatMul(MatMulNN, a, 2, 3, b, 2, 2, dst)
	require.ErrorIs(t, err, ErrShapeMismatch)
	// destination untouched on failure
	assert.Equal(t, []float32{9, 9, 9, 9}, dst)
}

func TestPeakPickExclusion(t *testing.T) {
	v := []float32{0.1, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3}
	idxs, vals := PeakPick(v, 0, 7, 2, 2)
	assert.Equal(t, []int{1, 4}, idxs)
	assert.InDelta(t, 0.9, vals[0], 1e-6)
	assert.InDelta(t, 0.6, vals[1], 1e-6)
}

func TestPowerTwoHelpers(t *testing.T) {
	assert.True(t, IsPowerTwo(1024))
	assert.False(t, IsPowerTwo(1000))
	assert.Equal(t, 1024, CeilPowerTwo(1000))
	assert.Equal(t, 512, FloorPowerTwo(1000))
	assert.Equal(t, 1024, RoundPowerTwo(1000))
	assert.Equal(t, 32768, RoundPowerTwo(32000))
	assert.Equal(t, 10, PowerTwoExp(1024))
}

func TestQuadInterp(t *testing.T) {
	// symmetric peak: no offset
	p, v := QuadInterp(1, 2, 1)
	assert.InDelta(t, 0, p, 1e-6)
	assert.InDelta(t, 2, v, 1e-6)

	// tilted: offset toward the larger neighbor
	p, _ = QuadInterp(1, 2, 1.5)
	assert.Greater(t, p, float32(0))
	assert.LessOrEqual(t, p, float32(0.5))
}

func TestPreEmphasis(t *testing.T) {
	v := []float32{1, 1, 1, 1}
	dst := make([]float32, 4)
	PreEmphasis(v, 0.97, dst)
	assert.InDelta(t, 1, dst[0], 1e-6)
	for i := 1; i < 4; i++ {
		assert.InDelta(t, 0.03, dst[i], 1e-6)
	}
}
