// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stft

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/spectral/window"
)

func chirp(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		x := float32(i) / float32(n)
		v[i] = math32.Sin(2 * math32.Pi * (20 + 60*x) * x * 8)
	}
	return v
}

func TestSTFTShape(t *testing.T) {
	opts := &Options{Radix2Exp: 8, WindowType: window.Hann}
	s, err := New(opts)
	require.NoError(t, err)

	data := chirp(1024)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, s.Transform(data, dstR, dstI))

	want := s.TimeLength(1024)
	assert.Equal(t, want, dstR.Dim(0))
	assert.Equal(t, 256, dstR.Dim(1))
}

func TestSTFTUnderflow(t *testing.T) {
	s, err := New(&Options{Radix2Exp: 8, WindowType: window.Hann})
	require.NoError(t, err)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	assert.Error(t, s.Transform(chirp(100), dstR, dstI))
}

func TestSTFTRoundTrip(t *testing.T) {
	s, err := New(&Options{Radix2Exp: 8, WindowType: window.Hann})
	require.NoError(t, err)

	data := chirp(2048)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, s.Transform(data, dstR, dstI))

	timeLen := dstR.Dim(0)
	out := make([]float32, (timeLen-1)*s.SlideLength+s.FFTLength)
	n, err := s.Inverse(dstR, dstI, timeLen, out)
	require.NoError(t, err)
	require.Equal(t, len(out), n)

	// interior reconstructs; the first and last frame regions only get
	// partial overlap
	var num, den float64
	for i := s.FFTLength; i < n-s.FFTLength; i++ {
		d := float64(out[i] - data[i])
		num += d * d
		den += float64(data[i]) * float64(data[i])
	}
	require.Greater(t, den, 0.0)
	assert.Less(t, num/den, 1e-6)
}
