// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocoder

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emer/spectral/stft"
	"github.com/emer/spectral/window"
)

func tone(n int, fre float32, samplate int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = math32.Sin(2 * math32.Pi * fre * float32(i) / float32(samplate))
	}
	return v
}

func TestPhaseVocoderIdentity(t *testing.T) {
	s, err := stft.New(&stft.Options{Radix2Exp: 9, WindowType: window.Hann})
	require.NoError(t, err)

	// 32 frames of signal
	n := (32-1)*s.SlideLength + s.FFTLength
	data := tone(n, 440, 16000)

	srcR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	srcI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, s.Transform(data, srcR, srcI))
	require.Equal(t, 32, srcR.Dim(0))

	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	require.NoError(t, PhaseVocoder(srcR, srcI, s.SlideLength, 1.0, dstR, dstI))
	assert.Equal(t, 32, dstR.Dim(0))

	out := make([]float32, n)
	_, err = s.Inverse(dstR, dstI, 32, out)
	require.NoError(t, err)

	// rate 1.0 reproduces the waveform within 1% RMS over the interior
	var num, den float64
	for i := s.FFTLength; i < n-s.FFTLength; i++ {
		d := float64(out[i] - data[i])
		num += d * d
		den += float64(data[i]) * float64(data[i])
	}
	assert.Less(t, num/den, 1e-4)
}

func TestPhaseVocoderFrameCount(t *testing.T) {
	srcR := etensor.NewFloat32([]int{10, 64}, nil, nil)
	srcI := etensor.NewFloat32([]int{10, 64}, nil, nil)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)

	require.NoError(t, PhaseVocoder(srcR, srcI, 16, 2.0, dstR, dstI))
	assert.Equal(t, 5, dstR.Dim(0))

	require.NoError(t, PhaseVocoder(srcR, srcI, 16, 0.5, dstR, dstI))
	assert.Equal(t, 20, dstR.Dim(0))
}

func TestPhaseVocoderBadRate(t *testing.T) {
	srcR := etensor.NewFloat32([]int{4, 16}, nil, nil)
	srcI := etensor.NewFloat32([]int{4, 16}, nil, nil)
	dstR := etensor.NewFloat32([]int{1, 1}, nil, nil)
	dstI := etensor.NewFloat32([]int{1, 1}, nil, nil)
	err := PhaseVocoder(srcR, srcI, 4, 0, dstR, dstI)
	assert.ErrorIs(t, err, ErrParamRange)
	// destination untouched
	assert.Equal(t, 1, dstR.Dim(0))
}

func TestTimeStretchLengths(t *testing.T) {
	opts := &TimeStretchOptions{Radix2Exp: 9, WindowType: window.Hann}
	ts, err := NewTimeStretch(opts)
	require.NoError(t, err)

	data := tone(4096, 440, 16000)
	dst := make([]float32, ts.Capacity(0.5, len(data)))
	n, err := ts.Stretch(0.5, data, dst)
	require.NoError(t, err)
	assert.Equal(t, 8192, n)

	dst = make([]float32, ts.Capacity(2, len(data)))
	n, err = ts.Stretch(2, data, dst)
	require.NoError(t, err)
	assert.Equal(t, 2048, n)

	_, err = ts.Stretch(-1, data, dst)
	assert.ErrorIs(t, err, ErrParamRange)
}

func TestResamplerIdentity(t *testing.T) {
	r := NewResampler()
	require.NoError(t, r.SetRatio(1))

	data := tone(512, 300, 8000)
	dst := make([]float32, r.Len(len(data)))
	n, err := r.Resample(data, dst)
	require.NoError(t, err)
	require.Equal(t, 512, n)
	for i := 64; i < 448; i++ {
		assert.InDelta(t, data[i], dst[i], 1e-5)
	}
}

func TestResamplerHalfRate(t *testing.T) {
	r := NewResampler()
	require.NoError(t, r.SetRatio(0.5))

	data := tone(1024, 100, 8000)
	dst := make([]float32, r.Len(len(data)))
	n, err := r.Resample(data, dst)
	require.NoError(t, err)
	require.Equal(t, 512, n)

	// downsampled tone matches the same tone at the new rate
	want := tone(512, 100, 4000)
	for i := 32; i < 480; i++ {
		assert.InDelta(t, want[i], dst[i], 0.05)
	}
}

func TestPitchShiftKeepsLength(t *testing.T) {
	opts := &TimeStretchOptions{Radix2Exp: 9, WindowType: window.Hann}
	ps, err := NewPitchShift(opts)
	require.NoError(t, err)

	data := tone(4096, 220, 16000)
	dst := make([]float32, len(data)+1024)
	n, err := ps.Shift(5, data, dst)
	require.NoError(t, err)
	assert.InDelta(t, len(data), n, 8)

	_, err = ps.Shift(13, data, dst)
	assert.ErrorIs(t, err, ErrParamRange)
}
