// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stransform implements the Stockwell transform and its dyadic fast
// variant. The S-transform windows the doubled spectrum with
// frequency-dependent Gaussians and inverts per analysis bin; the fast form
// partitions the spectrum dyadically and reorders per-segment inverses
// through a precomputed index map.
package stransform

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/vec"
)

// ErrParamRange reports a construction parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// STOptions configures an S-transform.
type STOptions struct {
	Radix2Exp int
	MinIndex  int // lowest analysis bin, >= 0
	MaxIndex  int // highest analysis bin, <= fftLength/2
	Factor    float32
	Norm      float32
	Debug     bool
}

// Defaults sets the standard gaussian parameters λ=1, p=1 over the full
// positive spectrum.
func (o *STOptions) Defaults() {
	o.Factor = 1
	o.Norm = 1
}

// ST owns the gaussian window table and FFT plan for one configuration.
type ST struct {
	fftLength int
	fftObj    *fft.FFT

	bins []int

	factor float32
	norm   float32

	mWin []float32 // (fftLength/2+1) × fftLength

	realArr1 []float32 // doubled spectrum
	imagArr1 []float32

	realArr2 []float32
	imagArr2 []float32

	debug bool
}

// NewST builds an S-transform. Invalid (MinIndex, MaxIndex) pairs fall back
// to the full positive spectrum.
func NewST(opts *STOptions) (*ST, error) {
	o := *opts
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("st: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	if o.Factor <= 0 {
		o.Factor = 1
	}
	if o.Norm <= 0 {
		o.Norm = 1
	}
	fftLength := 1 << o.Radix2Exp
	fftObj, err := fft.NewFFT(o.Radix2Exp)
	if err != nil {
		return nil, err
	}

	st := &ST{
		fftLength: fftLength,
		fftObj:    fftObj,
		realArr1:  make([]float32, 2*fftLength),
		imagArr1:  make([]float32, 2*fftLength),
		realArr2:  make([]float32, fftLength),
		imagArr2:  make([]float32, fftLength),
		debug:     o.Debug,
	}
	st.initWindows(o.Factor, o.Norm)

	minIndex, maxIndex := o.MinIndex, o.MaxIndex
	if minIndex >= maxIndex || minIndex < 0 || maxIndex > fftLength/2 {
		minIndex = 0
		maxIndex = fftLength / 2
	}
	st.bins = make([]int, maxIndex-minIndex+1)
	for i := range st.bins {
		st.bins[i] = minIndex + i
	}

	if st.debug {
		log.Debug("st", "fftLength", fftLength, "minIndex", minIndex, "maxIndex", maxIndex,
			"factor", o.Factor, "norm", o.Norm)
	}
	return st, nil
}

// initWindows builds the spectral gaussian table: row b holds
// exp(−2π²λ(j²+(j−N)²ish)/b^(2p)) as the sum of the two aliased branches.
// Row 0 stays zero; the DC row is handled directly in Transform.
func (st *ST) initWindows(factor, norm float32) {
	n := st.fftLength
	mWin := make([]float32, (n/2+1)*n)
	for i := 1; i <= n/2; i++ {
		v := -factor * 2 * math32.Pi * math32.Pi / math32.Pow(float32(i), 2*norm)
		row := mWin[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			a := float32(j)
			b := float32(j - n)
			row[j] = math32.Exp(v*a*a) + math32.Exp(v*b*b)
		}
	}
	st.factor = factor
	st.norm = norm
	st.mWin = mWin
}

// SetValue frees and rebuilds the gaussian window table for new λ and p.
func (st *ST) SetValue(factor, norm float32) {
	if st.factor == factor && st.norm == norm {
		return
	}
	st.initWindows(factor, norm)
	if st.debug {
		log.Debug("st window rebuild", "factor", factor, "norm", norm)
	}
}

// UseBins replaces the analysis bin subset. Out-of-range bins leave the
// current subset untouched.
func (st *ST) UseBins(bins []int) {
	for _, b := range bins {
		if b < 0 || b > st.fftLength/2 {
			return
		}
	}
	st.bins = append(st.bins[:0:0], bins...)
}

// BinCount returns the number of analysis bins.
func (st *ST) BinCount() int { return len(st.bins) }

// Transform computes the S-transform of fftLength samples, filling dstR/dstI
// as binCount × fftLength planes. The zero-frequency row is the DC mean.
func (st *ST) Transform(data []float32, dstR, dstI *etensor.Float32) error {
	n := st.fftLength
	if len(data) != n {
		return fmt.Errorf("st: data length %d want %d: %w", len(data), n, ErrParamRange)
	}
	st.fftObj.Forward(data, nil, st.realArr1[:n], st.imagArr1[:n])
	copy(st.realArr1[n:], st.realArr1[:n])
	copy(st.imagArr1[n:], st.imagArr1[:n])

	dstR.SetShape([]int{len(st.bins), n}, nil, []string{"freq", "time"})
	dstI.SetShape([]int{len(st.bins), n}, nil, []string{"freq", "time"})

	for i, bin := range st.bins {
		if bin == 0 {
			mean := vec.Mean(data)
			rowR := dstR.Values[i*n : (i+1)*n]
			rowI := dstI.Values[i*n : (i+1)*n]
			for j := range rowR {
				rowR[j] = mean
				rowI[j] = 0
			}
			continue
		}
		win := st.mWin[bin*n : (bin+1)*n]
		for j := 0; j < n; j++ {
			st.realArr2[j] = st.realArr1[bin+j] * win[j]
			st.imagArr2[j] = st.imagArr1[bin+j] * win[j]
		}
		st.fftObj.Inverse(st.realArr2, st.imagArr2,
			dstR.Values[i*n:(i+1)*n], dstI.Values[i*n:(i+1)*n])
	}
	return nil
}
