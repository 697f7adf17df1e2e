// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fft provides the shared Fourier primitives: a radix-2
// decimation-in-time FFT for power-of-two lengths and a direct DFT with a
// double-precision twiddle matrix for everything else. All transforms use the
// forward exponent −j2πkn/N; inverses divide by the length.
package fft

import (
	"errors"
	"fmt"
	"math"
)

// ErrParamRange reports a transform length outside the documented domain.
var ErrParamRange = errors.New("parameter out of range")

// FFT is a radix-2 decimation-in-time transform of a fixed power-of-two
// length. Forward and inverse share one twiddle table. An FFT is owned by a
// single transform object and is not safe for concurrent use.
type FFT struct {
	Length int

	radix2Exp int
	rev       []int // bit-reversal permutation
	cosTab    []float64
	sinTab    []float64

	bufR []float64
	bufI []float64
}

// NewFFT creates an FFT of length 1<<radix2Exp. radix2Exp must be in 1..30.
func NewFFT(radix2Exp int) (*FFT, error) {
	if radix2Exp < 1 || radix2Exp > 30 {
		return nil, fmt.Errorf("fft: radix2Exp %d: %w", radix2Exp, ErrParamRange)
	}
	n := 1 << radix2Exp
	f := &FFT{
		Length:    n,
		radix2Exp: radix2Exp,
		rev:       make([]int, n),
		cosTab:    make([]float64, n/2),
		sinTab:    make([]float64, n/2),
		bufR:      make([]float64, n),
		bufI:      make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.rev[i] = (f.rev[i>>1] >> 1) | ((i & 1) << (radix2Exp - 1))
	}
	for k := 0; k < n/2; k++ {
		arg := -2 * math.Pi * float64(k) / float64(n)
		f.cosTab[k] = math.Cos(arg)
		f.sinTab[k] = math.Sin(arg)
	}
	return f, nil
}

// Forward computes the forward transform of (re, im) into (dstR, dstI).
// im may be nil for real input. dstR/dstI must each hold Length samples.
func (f *FFT) Forward(re, im, dstR, dstI []float32) {
	f.load(re, im)
	f.run(false)
	f.store(dstR, dstI, 1)
}

// Inverse computes the inverse transform, dividing by the length. im may be
// nil.
func (f *FFT) Inverse(re, im, dstR, dstI []float32) {
	f.load(re, im)
	f.run(true)
	f.store(dstR, dstI, 1/float64(f.Length))
}

func (f *FFT) load(re, im []float32) {
	n := f.Length
	for i := 0; i < n; i++ {
		j := f.rev[i]
		f.bufR[i] = float64(re[j])
		if im != nil {
			f.bufI[i] = float64(im[j])
		} else {
			f.bufI[i] = 0
		}
	}
}

func (f *FFT) store(dstR, dstI []float32, scale float64) {
	for i := 0; i < f.Length; i++ {
		dstR[i] = float32(f.bufR[i] * scale)
		dstI[i] = float32(f.bufI[i] * scale)
	}
}

func (f *FFT) run(inverse bool) {
	n := f.Length
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k, t := start, 0; k < start+half; k, t = k+1, t+step {
				wr := f.cosTab[t]
				wi := f.sinTab[t]
				if inverse {
					wi = -wi
				}
				xr := f.bufR[k+half]*wr - f.bufI[k+half]*wi
				xi := f.bufR[k+half]*wi + f.bufI[k+half]*wr
				f.bufR[k+half] = f.bufR[k] - xr
				f.bufI[k+half] = f.bufI[k] - xi
				f.bufR[k] += xr
				f.bufI[k] += xi
			}
		}
	}
}
