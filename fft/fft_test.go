// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fft

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

func TestFFTImpulse(t *testing.T) {
	f, err := NewFFT(3)
	require.NoError(t, err)

	x := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	re := make([]float32, 8)
	im := make([]float32, 8)
	f.Forward(x, nil, re, im)
	for i := 0; i < 8; i++ {
		assert.InDelta(t, 1, re[i], 1e-6)
		assert.InDelta(t, 0, im[i], 1e-6)
	}

	backR := make([]float32, 8)
	backI := make([]float32, 8)
	f.Inverse(re, im, backR, backI)
	for i := 0; i < 8; i++ {
		assert.InDelta(t, x[i], backR[i], 1e-6)
		assert.InDelta(t, 0, backI[i], 1e-6)
	}
}

func TestFFTParamRange(t *testing.T) {
	_, err := NewFFT(0)
	assert.ErrorIs(t, err, ErrParamRange)
	_, err = NewFFT(31)
	assert.ErrorIs(t, err, ErrParamRange)
}

func TestFFTRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f, err := NewFFT(10)
	require.NoError(t, err)

	n := 1024
	x := make([]float32, n)
	var norm float64
	for i := range x {
		x[i] = float32(rng.NormFloat64())
		norm += float64(x[i]) * float64(x[i])
	}

	re := make([]float32, n)
	im := make([]float32, n)
	backR := make([]float32, n)
	backI := make([]float32, n)
	f.Forward(x, nil, re, im)
	f.Inverse(re, im, backR, backI)

	var errNorm float64
	for i := range x {
		d := float64(backR[i] - x[i])
		errNorm += d * d
	}
	assert.Less(t, errNorm, 1e-10*norm)
}

// the radix-2 transform must agree with the gonum reference
func TestFFTAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f, err := NewFFT(7)
	require.NoError(t, err)

	n := 128
	x := make([]float32, n)
	cx := make([]complex128, n)
	for i := range x {
		x[i] = float32(rng.NormFloat64())
		cx[i] = complex(float64(x[i]), 0)
	}

	re := make([]float32, n)
	im := make([]float32, n)
	f.Forward(x, nil, re, im)

	ref := fourier.NewCmplxFFT(n)
	want := ref.Coefficients(nil, cx)
	for i := 0; i < n; i++ {
		assert.InDelta(t, real(want[i]), float64(re[i]), 1e-3)
		assert.InDelta(t, imag(want[i]), float64(im[i]), 1e-3)
	}
}

func TestDFTMatchesFFT(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 64
	f, err := NewFFT(6)
	require.NoError(t, err)
	d := NewDFT(n)

	x := make([]float32, n)
	for i := range x {
		x[i] = float32(rng.NormFloat64())
	}

	fr := make([]float32, n)
	fi := make([]float32, n)
	dr := make([]float32, n)
	di := make([]float32, n)
	f.Forward(x, nil, fr, fi)
	d.Forward(x, nil, dr, di)
	for i := 0; i < n; i++ {
		assert.InDelta(t, fr[i], dr[i], 1e-3)
		assert.InDelta(t, fi[i], di[i], 1e-3)
	}
}

func TestDFTRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 37 // arbitrary non power of two
	d := NewDFT(n)

	x := make([]float32, n)
	for i := range x {
		x[i] = float32(rng.NormFloat64())
	}
	re := make([]float32, n)
	im := make([]float32, n)
	backR := make([]float32, n)
	backI := make([]float32, n)
	d.Forward(x, nil, re, im)
	d.Inverse(re, im, backR, backI)
	for i := 0; i < n; i++ {
		assert.InDelta(t, x[i], backR[i], 1e-4)
		assert.InDelta(t, 0, backI[i], 1e-4)
	}
}

func TestPlanCacheMemoizes(t *testing.T) {
	c := NewPlanCache()
	p1 := c.Get(17)
	p2 := c.Get(17)
	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, c.Get(19))
}
