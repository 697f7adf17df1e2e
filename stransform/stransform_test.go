// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stransform

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/spectral/vec"
)

func TestSTShapeAndDCRow(t *testing.T) {
	opts := &STOptions{}
	opts.Defaults()
	opts.Radix2Exp = 8

	st, err := NewST(opts)
	require.NoError(t, err)
	assert.Equal(t, 129, st.BinCount())

	data := make([]float32, 256)
	for i := range data {
		data[i] = 0.25 + math32.Sin(2*math32.Pi*float32(i)/16)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, st.Transform(data, dstR, dstI))
	assert.Equal(t, 129, dstR.Dim(0))
	assert.Equal(t, 256, dstR.Dim(1))

	// the zero-frequency row is the DC mean
	mean := vec.Mean(data)
	for j := 0; j < 256; j++ {
		assert.InDelta(t, mean, dstR.Values[j], 1e-5)
	}
}

func TestSTEnergyAtTone(t *testing.T) {
	opts := &STOptions{}
	opts.Defaults()
	opts.Radix2Exp = 8

	st, err := NewST(opts)
	require.NoError(t, err)

	// bin-16 tone: row 16 carries the most energy
	data := make([]float32, 256)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * 16 * float32(i) / 256)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, st.Transform(data, dstR, dstI))

	best, bestEnergy := -1, float32(0)
	for i := 1; i < 129; i++ {
		var e float32
		for j := 0; j < 256; j++ {
			re := dstR.Values[i*256+j]
			im := dstI.Values[i*256+j]
			e += re*re + im*im
		}
		if e > bestEnergy {
			best, bestEnergy = i, e
		}
	}
	assert.Equal(t, 16, best)
}

func TestSTSetValueRebuilds(t *testing.T) {
	opts := &STOptions{}
	opts.Defaults()
	opts.Radix2Exp = 6

	st, err := NewST(opts)
	require.NoError(t, err)
	w1 := append([]float32(nil), st.mWin...)
	st.SetValue(2, 1)
	changed := false
	for i := range w1 {
		if st.mWin[i] != w1[i] {
			changed = true
			break
		}
	}
	assert.True(t, changed)

	// same values: no rebuild
	prev := st.mWin
	st.SetValue(2, 1)
	assert.Same(t, &prev[0], &st.mWin[0])
}

func TestSTUseBins(t *testing.T) {
	opts := &STOptions{}
	opts.Defaults()
	opts.Radix2Exp = 6

	st, err := NewST(opts)
	require.NoError(t, err)
	st.UseBins([]int{3, 5, 9})
	assert.Equal(t, 3, st.BinCount())

	// out-of-range bins leave the subset untouched
	st.UseBins([]int{2, 99})
	assert.Equal(t, 3, st.BinCount())
}

func TestFSTPartitionSums(t *testing.T) {
	for _, exp := range []int{3, 4, 6, 9} {
		f, err := NewFST(exp, false)
		require.NoError(t, err)
		assert.Len(t, f.lenArr, 2*exp)
		assert.Equal(t, 1<<exp, vec.SumInt(f.lenArr))
		// symmetric unit segments at the hinge
		assert.Equal(t, 1, f.lenArr[0])
		assert.Equal(t, 1, f.lenArr[exp-1])
		assert.Equal(t, 1, f.lenArr[exp])
		assert.Equal(t, 1, f.lenArr[exp+1])
	}
}

func TestFSTParamRange(t *testing.T) {
	_, err := NewFST(2, false)
	assert.ErrorIs(t, err, ErrParamRange)
}

func TestFSTShape(t *testing.T) {
	f, err := NewFST(5, false)
	require.NoError(t, err)

	data := make([]float32, 32)
	for i := range data {
		data[i] = math32.Sin(2 * math32.Pi * 4 * float32(i) / 32)
	}
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, f.Transform(data, 0, 16, dstR, dstI))
	assert.Equal(t, 17, dstR.Dim(0))
	assert.Equal(t, 32, dstR.Dim(1))

	// an inverted analysis window falls back to the full half spectrum
	require.NoError(t, f.Transform(data, 12, 3, dstR, dstI))
	assert.Equal(t, 17, dstR.Dim(0))
}

func TestFSTIndexMapCoversRows(t *testing.T) {
	f, err := NewFST(4, false)
	require.NoError(t, err)
	n := f.fftLength
	// every mapped index stays inside the spectrum
	for i := 0; i < (n/2+1)*n; i++ {
		assert.GreaterOrEqual(t, f.indexMap[i], int32(0))
		assert.Less(t, f.indexMap[i], int32(n))
	}
}
