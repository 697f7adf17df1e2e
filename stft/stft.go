// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stft provides the short-time Fourier analysis/synthesis pair used
// by the phase-vocoder pipeline: windowed frames to complex planes and
// weighted overlap-add back to samples.
package stft

import (
	"errors"
	"fmt"

	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/stream"
	"github.com/emer/spectral/window"
)

// ErrParamRange reports a construction parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// Options configures an STFT.
type Options struct {
	Radix2Exp   int
	SlideLength int // default fftLength/4
	WindowType  window.Type
}

// Defaults sets the standard hann analysis at 4096/1024.
func (o *Options) Defaults() {
	o.Radix2Exp = 12
	o.WindowType = window.Hann
}

// STFT owns the window and FFT plan for one frame configuration.
type STFT struct {
	FFTLength   int
	SlideLength int

	winType window.Type
	winData []float32

	fftObj *fft.FFT
	engine *stream.FrameEngine

	dataArr1 []float32
	rowR     []float32
	rowI     []float32
}

// New builds an STFT.
func New(opts *Options) (*STFT, error) {
	o := *opts
	if o.Radix2Exp == 0 {
		o.Radix2Exp = 12
	}
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("stft: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	fftLength := 1 << o.Radix2Exp
	if o.SlideLength <= 0 {
		o.SlideLength = fftLength / 4
	}
	fftObj, err := fft.NewFFT(o.Radix2Exp)
	if err != nil {
		return nil, err
	}
	eng, err := stream.NewFrameEngine(fftLength, o.SlideLength, false)
	if err != nil {
		return nil, err
	}
	return &STFT{
		FFTLength:   fftLength,
		SlideLength: o.SlideLength,
		winType:     o.WindowType,
		winData:     window.ForFFT(o.WindowType, fftLength),
		fftObj:      fftObj,
		engine:      eng,
		dataArr1:    make([]float32, fftLength),
		rowR:        make([]float32, fftLength),
		rowI:        make([]float32, fftLength),
	}, nil
}

// TimeLength returns the frame count for dataLength samples.
func (s *STFT) TimeLength(dataLength int) int {
	if dataLength < s.FFTLength {
		return 0
	}
	return (dataLength-s.FFTLength)/s.SlideLength + 1
}

// Transform analyzes data into timeLength × fftLength complex planes.
func (s *STFT) Transform(data []float32, dstR, dstI *etensor.Float32) error {
	timeLen := s.engine.Push(data)
	if timeLen == 0 {
		return fmt.Errorf("stft: data length %d under one frame %d: %w",
			len(data), s.FFTLength, ErrParamRange)
	}
	dstR.SetShape([]int{timeLen, s.FFTLength}, nil, []string{"time", "freq"})
	dstI.SetShape([]int{timeLen, s.FFTLength}, nil, []string{"time", "freq"})
	for i := 0; i < timeLen; i++ {
		f := s.engine.Frame(i)
		for j, x := range f {
			s.dataArr1[j] = x * s.winData[j]
		}
		s.fftObj.Forward(s.dataArr1, nil,
			dstR.Values[i*s.FFTLength:(i+1)*s.FFTLength],
			dstI.Values[i*s.FFTLength:(i+1)*s.FFTLength])
	}
	return nil
}

// Inverse resynthesizes timeLength frames by windowed overlap-add,
// normalizing by the accumulated squared window. dst must hold
// (timeLength−1)·slideLength + fftLength samples; the sample count is
// returned.
func (s *STFT) Inverse(srcR, srcI *etensor.Float32, timeLength int, dst []float32) (int, error) {
	outLen := (timeLength-1)*s.SlideLength + s.FFTLength
	if timeLength < 1 || len(dst) < outLen {
		return 0, fmt.Errorf("stft: inverse dst %d want %d: %w", len(dst), outLen, ErrParamRange)
	}
	for i := range dst[:outLen] {
		dst[i] = 0
	}
	wsum := make([]float32, outLen)
	for i := 0; i < timeLength; i++ {
		s.fftObj.Inverse(srcR.Values[i*s.FFTLength:(i+1)*s.FFTLength],
			srcI.Values[i*s.FFTLength:(i+1)*s.FFTLength], s.rowR, s.rowI)
		base := i * s.SlideLength
		for j, w := range s.winData {
			dst[base+j] += s.rowR[j] * w
			wsum[base+j] += w * w
		}
	}
	const eps = 1e-9
	for i := 0; i < outLen; i++ {
		if wsum[i] > eps {
			dst[i] /= wsum[i]
		}
	}
	return outLen, nil
}
