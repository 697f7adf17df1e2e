// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsgt

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/spectral/filterbank"
	"github.com/emer/spectral/scale"
)

func newTestNSGT(t *testing.T) *NSGT {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 12
	opts.Radix2Exp = 11

	n, err := New(opts)
	require.NoError(t, err)
	return n
}

func TestNSGTShape(t *testing.T) {
	n := newTestNSGT(t)

	data := make([]float32, 2048)
	for i := range data {
		data[i] = math32.Sin(2*math32.Pi*float32(i)/32) + 0.5*math32.Sin(2*math32.Pi*float32(i)/128)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, n.Transform(data, dstR, dstI))

	assert.Equal(t, 12, dstR.Dim(0))
	assert.Equal(t, n.MaxLength(), dstR.Dim(1))
	assert.Len(t, n.FreBand(), 12)
	assert.Len(t, n.Lengths(), 12)

	cellR, cellI := n.CellData()
	assert.Len(t, cellR, n.TotalLength())
	assert.Len(t, cellI, n.TotalLength())
}

func TestNSGTEnergyTracksBand(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 12
	opts.Radix2Exp = 11
	opts.Scale = scale.Linspace
	opts.LowFre = 500
	opts.HighFre = 8000

	n, err := New(opts)
	require.NoError(t, err)

	// a tone at the center of band k concentrates row energy at k
	freBand := n.FreBand()
	k := 6
	data := make([]float32, 2048)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * freBand[k] * float32(i) / 32000)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, n.Transform(data, dstR, dstI))

	cols := n.MaxLength()
	best, bestEnergy := -1, float32(0)
	for i := 0; i < 12; i++ {
		var e float32
		for j := 0; j < cols; j++ {
			re := dstR.Values[i*cols+j]
			im := dstI.Values[i*cols+j]
			e += re*re + im*im
		}
		if e > bestEnergy {
			best, bestEnergy = i, e
		}
	}
	assert.InDelta(t, float64(k), float64(best), 1)
}

func TestNSGTSetMinLength(t *testing.T) {
	n := newTestNSGT(t)
	oldMax := n.MaxLength()

	require.NoError(t, n.SetMinLength(64))
	for _, ln := range n.Lengths() {
		assert.GreaterOrEqual(t, ln, 64)
	}
	// rebuild keeps the transform usable
	data := make([]float32, 2048)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, n.Transform(data, dstR, dstI))
	assert.GreaterOrEqual(t, n.MaxLength(), oldMax)
}

func TestNSGTCoercions(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 8
	opts.Radix2Exp = 10
	opts.Style = filterbank.StyleGammatone
	opts.Normal = filterbank.NormalArea

	n, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, filterbank.StyleHann, n.opts.Style)
	assert.Equal(t, filterbank.NormalBandWidth, n.opts.Normal)
}

func TestNSGTParamErrors(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	opts.Num = 8
	opts.Radix2Exp = 0
	_, err := New(opts)
	assert.ErrorIs(t, err, ErrParamRange)

	opts.Radix2Exp = 10
	opts.Scale = scale.LogChroma
	_, err = New(opts)
	assert.ErrorIs(t, err, ErrParamRange)
}
