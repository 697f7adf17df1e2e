// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nsgt implements the nonstationary Gabor transform: one FFT of the
// whole input, then per band a windowed extract around the band center and a
// small inverse transform of the band's own length, tiled onto a uniform
// time grid.
package nsgt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/filterbank"
	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
)

// ErrParamRange reports a construction parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// Options configures an NSGT.
type Options struct {
	Num       int
	Radix2Exp int

	Samplate     int
	LowFre       float32
	HighFre      float32
	BinPerOctave int

	MinLength int // smallest per-band window length

	BankType filterbank.NSGTBankType
	Scale    scale.Type
	Style    filterbank.StyleType
	Normal   filterbank.NormalType

	Debug bool
}

// Defaults sets the standard configuration: efficient hann windows with
// bandwidth normalization on the octave axis.
func (o *Options) Defaults() {
	o.Samplate = 32000
	o.BinPerOctave = 12
	o.MinLength = 3
	o.BankType = filterbank.NSGTEfficient
	o.Scale = scale.Octave
	o.Style = filterbank.StyleHann
	o.Normal = filterbank.NormalBandWidth
}

// NSGT owns the window set, the full-length FFT and the per-length inverse
// plans for one configuration.
type NSGT struct {
	opts      Options
	fftLength int

	fftObj *fft.FFT
	plans  *fft.PlanCache

	bank *filterbank.NSGTBank

	maxTime  []float32   // maxLength+1 uniform grid
	bandTime [][]float32 // per-band grid, length+1 each

	realArr1 []float32 // whole-input spectrum
	imagArr1 []float32

	realArr2 []float32 // rotated windowed extract
	imagArr2 []float32

	cellR []float32 // packed per-band inverse results
	cellI []float32
}

// New builds an NSGT. The gammatone style and area normalization have no
// nonstationary counterpart and are coerced to hann / bandwidth.
func New(opts *Options) (*NSGT, error) {
	o := *opts
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("nsgt: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	if o.Samplate <= 0 || o.Samplate > 196000 {
		o.Samplate = 32000
	}
	if o.Scale > scale.LogSpace {
		return nil, fmt.Errorf("nsgt: scale %v: %w", o.Scale, ErrParamRange)
	}
	if o.Style == filterbank.StyleGammatone {
		o.Style = filterbank.StyleHann
	}
	if o.Normal == filterbank.NormalArea {
		o.Normal = filterbank.NormalBandWidth
	}
	if o.MinLength < 1 {
		o.MinLength = 3
	}
	fftLength := 1 << o.Radix2Exp
	if o.Num < 2 || o.Num > fftLength/2+1 {
		return nil, fmt.Errorf("nsgt: num %d: %w", o.Num, ErrParamRange)
	}

	resolveFreRange(&o)
	if o.BinPerOctave < 4 || o.BinPerOctave > 48 {
		o.BinPerOctave = 12
	}
	switch o.Scale {
	case scale.Linear:
		det := float32(o.Samplate) / float32(fftLength)
		_, high := scale.ReviseLinear(o.Num, o.LowFre, o.HighFre, det, true)
		if err := scale.CheckNyquist(high, o.Samplate); err != nil {
			return nil, fmt.Errorf("nsgt: %w", err)
		}
	case scale.Octave:
		_, high := scale.ReviseOctave(o.Num, o.LowFre, o.HighFre, o.BinPerOctave, true)
		if err := scale.CheckNyquist(high, o.Samplate); err != nil {
			return nil, fmt.Errorf("nsgt: %w", err)
		}
	}

	fftObj, err := fft.NewFFT(o.Radix2Exp)
	if err != nil {
		return nil, err
	}
	n := &NSGT{
		opts:      o,
		fftLength: fftLength,
		fftObj:    fftObj,
		plans:     fft.NewPlanCache(),
		realArr1:  make([]float32, fftLength),
		imagArr1:  make([]float32, fftLength),
		realArr2:  make([]float32, fftLength),
		imagArr2:  make([]float32, fftLength),
	}
	if err := n.build(); err != nil {
		return nil, err
	}

	if o.Debug {
		log.Debug("nsgt", "num", o.Num, "fftLength", fftLength,
			"minLength", o.MinLength, "bankType", int(o.BankType),
			"scale", o.Scale, "style", o.Style, "normal", o.Normal,
			"maxLength", n.bank.MaxLength, "totalLength", n.bank.TotalLength)
	}
	return n, nil
}

func resolveFreRange(o *Options) {
	samplate := float32(o.Samplate)
	logScale := o.Scale == scale.Octave || o.Scale == scale.LogSpace
	if o.LowFre < 0 || o.LowFre >= samplate/2 {
		o.LowFre = 0
	}
	if o.HighFre <= 0 || o.HighFre > samplate/2 {
		o.HighFre = samplate / 2
	}
	if o.LowFre == 0 && logScale {
		o.LowFre = math32.Pow(2, -45.0/12) * 440
		o.HighFre = math32.Pow(2, 38.0/12) * 440
	}
	if o.HighFre < o.LowFre {
		o.LowFre = 0
		o.HighFre = samplate / 2
		if logScale {
			o.LowFre = math32.Pow(2, -45.0/12) * 440
			o.HighFre = math32.Pow(2, 38.0/12) * 440
		}
	}
}

// build constructs the window set, the per-band time grids and the inverse
// plans. Used at construction and again by SetMinLength.
func (n *NSGT) build() error {
	o := n.opts
	bank, err := filterbank.NSGT(o.Num, n.fftLength, o.Samplate, o.MinLength, o.BankType,
		o.Scale, o.Style, o.Normal, o.LowFre, o.HighFre, o.BinPerOctave)
	if err != nil {
		return fmt.Errorf("nsgt: %w", err)
	}

	// time grids: the band grid extends half a spacing beyond [0, T] so every
	// uniform sample lands strictly inside an interval
	T := float32(n.fftLength) / float32(o.Samplate)
	maxTime := vec.Linspace(0, T, bank.MaxLength+1)
	bandTime := make([][]float32, o.Num)
	for i := 0; i < o.Num; i++ {
		ln := bank.Lengths[i]
		det := ln - 2
		if det < 0 {
			det = 0
		}
		off := T / float32(ln+det)
		bandTime[i] = vec.Linspace(-off, T+off, ln+1)
	}

	plans := fft.NewPlanCache()
	for _, ln := range bank.Lengths {
		plans.Get(ln)
	}

	n.bank = bank
	n.maxTime = maxTime
	n.bandTime = bandTime
	n.plans = plans
	n.cellR = make([]float32, bank.TotalLength)
	n.cellI = make([]float32, bank.TotalLength)
	return nil
}

// SetMinLength rebuilds the window set with a new minimum window length.
// The rebuild is atomic: on error the previous tables stay in place.
func (n *NSGT) SetMinLength(minLength int) error {
	if minLength < 1 || minLength == n.opts.MinLength {
		return nil
	}
	prev := n.opts.MinLength
	n.opts.MinLength = minLength
	if err := n.build(); err != nil {
		n.opts.MinLength = prev
		return err
	}
	return nil
}

// FreBand returns the band center frequencies.
func (n *NSGT) FreBand() []float32 { return n.bank.FreBand }

// BinBand returns the band center bins.
func (n *NSGT) BinBand() []int { return n.bank.BinBand }

// Lengths returns the per-band window lengths.
func (n *NSGT) Lengths() []int { return n.bank.Lengths }

// MaxLength returns the time length of the tiled output matrix.
func (n *NSGT) MaxLength() int { return n.bank.MaxLength }

// TotalLength returns the summed per-band lengths of the raw cell data.
func (n *NSGT) TotalLength() int { return n.bank.TotalLength }

// CellData returns the raw per-band inverse results of the last Transform,
// packed band after band.
func (n *NSGT) CellData() ([]float32, []float32) { return n.cellR, n.cellI }

// Transform runs the forward pass on fftLength samples, filling dstR/dstI as
// num × maxLength planes.
func (n *NSGT) Transform(data []float32, dstR, dstI *etensor.Float32) error {
	if len(data) != n.fftLength {
		return fmt.Errorf("nsgt: data length %d want %d: %w", len(data), n.fftLength, ErrParamRange)
	}
	num := n.opts.Num
	n.fftObj.Forward(data, nil, n.realArr1, n.imagArr1)

	index := 0
	for i := 0; i < num; i++ {
		curLen := n.bank.Lengths[i]
		offset := n.bank.Offsets[i]
		win := n.bank.Windows[index : index+curLen]

		// rotate so the band center lands at sample 0 of the small inverse
		for j, k := 0, curLen-curLen/2; j < curLen; j, k = j+1, k+1 {
			if k >= curLen {
				k = 0
			}
			src := offset
			if src > n.fftLength-1 {
				src = n.fftLength - 1
			} else if src < 0 {
				src = 0
			}
			n.realArr2[k] = n.realArr1[src] * win[j]
			n.imagArr2[k] = n.imagArr1[src] * win[j]
			offset++
		}

		plan := n.plans.Get(curLen)
		plan.Inverse(n.realArr2[:curLen], n.imagArr2[:curLen],
			n.cellR[index:index+curLen], n.cellI[index:index+curLen])
		index += curLen
	}

	// tile the variable-length cells onto the uniform grid
	dstR.SetShape([]int{num, n.bank.MaxLength}, nil, []string{"band", "time"})
	dstI.SetShape([]int{num, n.bank.MaxLength}, nil, []string{"band", "time"})
	index = 0
	for i := 0; i < num; i++ {
		curLen := n.bank.Lengths[i]
		grid := n.bandTime[i]
		start := 0
		for j := 0; j < n.bank.MaxLength; j++ {
			for k := start; k < curLen+1; k++ {
				if n.maxTime[j] < grid[k] {
					dstR.Values[i*n.bank.MaxLength+j] = n.cellR[index+k-1]
					dstI.Values[i*n.bank.MaxLength+j] = n.cellI[index+k-1]
					start = k
					break
				}
			}
		}
		index += curLen
	}
	return nil
}
