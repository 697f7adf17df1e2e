// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cwt

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/spectral/filterbank"
	"github.com/emer/spectral/scale"
)

func TestCWTShape(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 8
	opts.Radix2Exp = 10
	opts.WaveletType = filterbank.Morlet
	opts.Gamma = 6
	opts.Beta = 2

	c, err := New(opts)
	require.NoError(t, err)
	assert.Len(t, c.FreBand(), 8)

	rng := rand.New(rand.NewSource(9))
	data := make([]float32, 1024)
	var norm float64
	for i := range data {
		data[i] = float32(rng.Float64()*2 - 1)
		norm += float64(data[i]) * float64(data[i])
	}
	bound := 2 * math32.Sqrt(float32(norm))

	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, c.Transform(data, dstR, dstI))

	assert.Equal(t, 8, dstR.Dim(0))
	assert.Equal(t, 1024, dstR.Dim(1))

	for i := 0; i < 8; i++ {
		var rowNorm float64
		for j := 0; j < 1024; j++ {
			re := float64(dstR.Values[i*1024+j])
			im := float64(dstI.Values[i*1024+j])
			rowNorm += re*re + im*im
		}
		assert.Less(t, float32(math32.Sqrt(float32(rowNorm))), bound, "row %d", i)
	}
}

func TestCWTPadLength(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 8
	opts.Radix2Exp = 10
	opts.IsPad = true

	c, err := New(opts)
	require.NoError(t, err)
	// dataLength 1024 <= 1e5: exactly half on each side
	assert.Equal(t, 512, c.padLength)
	assert.Equal(t, 2048, c.fftLength)

	data := make([]float32, 1024)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * float32(i) / 64)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, c.Transform(data, dstR, dstI))
	assert.Equal(t, 1024, dstR.Dim(1))
}

func TestCWTParamErrors(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 8
	opts.Radix2Exp = 0
	_, err := New(opts)
	assert.ErrorIs(t, err, ErrParamRange)

	opts.Radix2Exp = 10
	opts.Num = 1
	_, err = New(opts)
	assert.ErrorIs(t, err, ErrParamRange)

	opts.Num = 8
	opts.ScaleType = scale.LogChroma
	_, err = New(opts)
	assert.ErrorIs(t, err, ErrParamRange)
}

func TestCWTEdgeOverflow(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 200 // 200 octave bins up from A1 blows past nyquist
	opts.Radix2Exp = 10
	opts.LowFre = 55

	_, err := New(opts)
	assert.ErrorIs(t, err, scale.ErrEdgeOverflow)
}

func TestCWTDeriv(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 6
	opts.Radix2Exp = 9

	c, err := New(opts)
	require.NoError(t, err)

	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	// deriv before enabling fails and touches nothing
	err = c.TransformDeriv(nil, dstR, dstI)
	assert.Error(t, err)

	data := make([]float32, 512)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * float32(i) / 32)
	}
	require.NoError(t, c.Transform(data, dstR, dstI))

	c.EnableDeriv()
	detR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	detI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	// nil data reuses the spectrum of the last forward pass
	require.NoError(t, c.TransformDeriv(nil, detR, detI))
	assert.Equal(t, 6, detR.Dim(0))
	assert.Equal(t, 512, detR.Dim(1))
}

func TestPWTShape(t *testing.T) {
	opts := &PWTOptions{}
	opts.Defaults()
	opts.Num = 10
	opts.Radix2Exp = 10
	opts.ScaleType = scale.Mel
	opts.LowFre = 100
	opts.HighFre = 8000

	p, err := NewPWT(opts)
	require.NoError(t, err)

	data := make([]float32, 1024)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * float32(i) / 16)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, p.Transform(data, dstR, dstI))
	assert.Equal(t, 10, dstR.Dim(0))
	assert.Equal(t, 1024, dstR.Dim(1))
}

func TestPWTRejectsGammatone(t *testing.T) {
	opts := &PWTOptions{}
	opts.Defaults()
	opts.Num = 10
	opts.Radix2Exp = 10
	opts.Style = filterbank.StyleGammatone

	_, err := NewPWT(opts)
	assert.ErrorIs(t, err, filterbank.ErrDomainRequirement)
}
