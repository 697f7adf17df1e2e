// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cwt implements the continuous wavelet transform and its
// filter-bank sibling, the pseudo wavelet transform. Both run the same
// pipeline: FFT of the (optionally reflect-padded) input, per-band pointwise
// product with a precomputed frequency-domain kernel, per-band inverse
// transform.
package cwt

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

// Options configures a CWT. Out-of-range Samplate and BinPerOctave fall back
// to the values Defaults sets; a zero ScaleType is Linear, not the Defaults
// Octave. Explicit LowFre/HighFre of 0 mean the scale-dependent default range.
type Options struct {
	Num       int // number of bands
	Radix2Exp int // data length is 1 << Radix2Exp

	Samplate     int
	LowFre       float32
	HighFre      float32
	BinPerOctave int

	WaveletType filterbank.WaveletType
	ScaleType   scale.Type
	Gamma       float32 // <= 0 selects the family default
	Beta        float32 // <= 0 selects the family default

	IsPad bool // reflect-pad the input before the FFT
	Debug bool // dump object state at construction
}

// Defaults sets the standard configuration: morse wavelet on the octave axis
// at 32 kHz.
func (o *Options) Defaults() {
	o.Samplate = 32000
	o.BinPerOctave = 12
	o.WaveletType = filterbank.Morse
	o.ScaleType = scale.Octave
}

// CWT owns the kernel table and transform plans for one configuration. Not
// safe for concurrent use.
type CWT struct {
	opts Options

	fftLength  int // dataLength + 2*padLength
	dataLength int
	padLength  int

	fftObj *fft.FFT
	dftObj *fft.DFT

	bank    *etensor.Float32 // num × fftLength kernels
	bankDet *etensor.Float32 // jω companion, built on demand
	freBand []float32
	binBand []int

	realArr1  []float32 // spectrum of the current input
	imageArr1 []float32

	rowR []float32 // per-band product / inverse scratch
	rowI []float32
	invR []float32
	invI []float32
}

// New builds a CWT. A non-nil error means no object was produced.
func New(opts *Options) (*CWT, error) {
	o := *opts
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("cwt: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	if o.Samplate <= 0 || o.Samplate > 196000 {
		o.Samplate = 32000
	}
	if o.ScaleType > scale.LogSpace {
		return nil, fmt.Errorf("cwt: scale %v: %w", o.ScaleType, ErrParamRange)
	}
	dataLength := 1 << o.Radix2Exp
	if o.Num < 2 || o.Num > dataLength/2+1 {
		return nil, fmt.Errorf("cwt: num %d: %w", o.Num, ErrParamRange)
	}
	resolveFreRange(&o)
	if o.BinPerOctave < 4 || o.BinPerOctave > 48 {
		o.BinPerOctave = 12
	}
	if err := checkOverflow(o.Num, o.ScaleType, o.LowFre, o.HighFre, o.Samplate, dataLength, o.BinPerOctave); err != nil {
		return nil, fmt.Errorf("cwt: %w", err)
	}
	resolveWavelet(&o)

	padLength := 0
	if o.IsPad {
		if dataLength <= 1e5 {
			padLength = dataLength / 2
		} else {
			padLength = ceilLog2(dataLength)
		}
	}
	fftLength := dataLength + 2*padLength

	c := &CWT{
		opts:       o,
		fftLength:  fftLength,
		dataLength: dataLength,
		padLength:  padLength,
		realArr1:   make([]float32, fftLength),
		imageArr1:  make([]float32, fftLength),
		rowR:       make([]float32, fftLength),
		rowI:       make([]float32, fftLength),
		invR:       make([]float32, fftLength),
		invI:       make([]float32, fftLength),
	}
	if vec.IsPowerTwo(fftLength) {
		f, err := fft.NewFFT(vec.PowerTwoExp(fftLength))
		if err != nil {
			return nil, err
		}
		c.fftObj = f
	} else {
		c.dftObj = fft.NewDFT(fftLength)
	}

	bank, freBand, binBand, err := filterbank.Wavelet(o.Num, dataLength, o.Samplate, padLength,
		o.WaveletType, o.Gamma, o.Beta, o.ScaleType, o.LowFre, o.HighFre, o.BinPerOctave)
	if err != nil {
		return nil, fmt.Errorf("cwt: %w", err)
	}
	c.bank = bank
	c.freBand = freBand
	c.binBand = binBand

	if o.Debug {
		log.Debug("cwt", "num", o.Num, "dataLength", dataLength, "padLength", padLength,
			"wavelet", o.WaveletType, "scale", o.ScaleType,
			"gamma", o.Gamma, "beta", o.Beta,
			"lowFre", o.LowFre, "highFre", o.HighFre)
	}
	return c, nil
}

// resolveFreRange applies the scale-dependent default frequency range.
func resolveFreRange(o *Options) {
	samplate := float32(o.Samplate)
	logScale := o.ScaleType == scale.Octave || o.ScaleType == scale.LogSpace
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

// checkOverflow pre-runs the grid revision for the quantized axes and fails
// before any table is built if the top band would pass Nyquist.
func checkOverflow(num int, scaleType scale.Type, lowFre, highFre float32, samplate, dataLength, binPerOctave int) error {
	switch scaleType {
	case scale.Linear:
		det := float32(samplate) / float32(dataLength)
		_, high := scale.ReviseLinear(num, lowFre, highFre, det, true)
		return scale.CheckNyquist(high, samplate)
	case scale.Octave:
		_, high := scale.ReviseOctave(num, lowFre, highFre, binPerOctave, true)
		return scale.CheckNyquist(high, samplate)
	}
	return nil
}

// resolveWavelet fills family defaults and enforces the DOG even-order rule.
func resolveWavelet(o *Options) {
	g, b := filterbank.WaveletDefaults(o.WaveletType)
	if o.Gamma > 0 {
		g = o.Gamma
		if o.WaveletType == filterbank.DOG {
			p := int(math32.Round(g))
			if p%2 == 0 {
				g = float32(p)
			} else {
				g = 2
			}
		}
	}
	if o.Beta > 0 {
		b = o.Beta
	}
	o.Gamma = g
	o.Beta = b
}

// FreBand returns the band center frequencies in ascending order.
func (c *CWT) FreBand() []float32 { return c.freBand }

// BinBand returns the band center bins in ascending order.
func (c *CWT) BinBand() []int { return c.binBand }

// DataLength returns the expected input length.
func (c *CWT) DataLength() int { return c.dataLength }

// Transform runs the forward pass on dataLength samples, filling dstR/dstI
// as num × dataLength planes. Row 0 is the highest band (smallest scale).
func (c *CWT) Transform(data []float32, dstR, dstI *etensor.Float32) error {
	return c.run(data, c.bank, false, dstR, dstI)
}

// EnableDeriv precomputes the jω companion kernels used by TransformDeriv.
func (c *CWT) EnableDeriv() {
	if c.bankDet != nil {
		return
	}
	wArr := make([]float32, c.fftLength)
	for i := 0; i <= c.fftLength/2; i++ {
		wArr[i] = float32(i) * 2 * math32.Pi / float32(c.fftLength)
	}
	for i, j := c.fftLength/2+1, c.fftLength/2-1; i < c.fftLength && j >= 0; i, j = i+1, j-1 {
		wArr[i] = -wArr[j]
	}
	det := etensor.NewFloat32([]int{c.opts.Num, c.fftLength}, nil, nil)
	vec.MatMulRowsVec(c.bank.Values, c.opts.Num, c.fftLength, wArr, det.Values)
	c.bankDet = det
}

// TransformDeriv runs the phase-rate companion transform (kernel jω·Ψ). A
// nil data reuses the spectrum of the last Transform call. EnableDeriv must
// have been called.
func (c *CWT) TransformDeriv(data []float32, dstR, dstI *etensor.Float32) error {
	if c.bankDet == nil {
		return fmt.Errorf("cwt: deriv kernels not enabled: %w", ErrParamRange)
	}
	return c.run(data, c.bankDet, true, dstR, dstI)
}

func (c *CWT) run(data []float32, bank *etensor.Float32, deriv bool, dstR, dstI *etensor.Float32) error {
	num := c.opts.Num
	if data != nil {
		if len(data) != c.dataLength {
			return fmt.Errorf("cwt: data length %d want %d: %w", len(data), c.dataLength, ErrParamRange)
		}
		cur := data
		if c.padLength > 0 {
			cur = vec.Pad(data, c.padLength, c.padLength, vec.PadReflect, 0)
		}
		if c.fftObj != nil {
			c.fftObj.Forward(cur, nil, c.realArr1, c.imageArr1)
		} else {
			c.dftObj.Forward(cur, nil, c.realArr1, c.imageArr1)
		}
	}

	dstR.SetShape([]int{num, c.dataLength}, nil, []string{"band", "time"})
	dstI.SetShape([]int{num, c.dataLength}, nil, []string{"band", "time"})

	for i := 0; i < num; i++ {
		row := bank.Values[i*c.fftLength : (i+1)*c.fftLength]
		if !deriv {
			for j, w := range row {
				c.rowR[j] = w * c.realArr1[j]
				c.rowI[j] = w * c.imageArr1[j]
			}
		} else {
			// multiply by j: (r, i) -> (-i, r)
			for j, w := range row {
				c.rowR[j] = -w * c.imageArr1[j]
				c.rowI[j] = w * c.realArr1[j]
			}
		}
		if c.fftObj != nil {
			c.fftObj.Inverse(c.rowR, c.rowI, c.invR, c.invI)
		} else {
			c.dftObj.Inverse(c.rowR, c.rowI, c.invR, c.invI)
		}
		copy(dstR.Values[i*c.dataLength:(i+1)*c.dataLength], c.invR[c.padLength:c.padLength+c.dataLength])
		copy(dstI.Values[i*c.dataLength:(i+1)*c.dataLength], c.invI[c.padLength:c.padLength+c.dataLength])
	}
	return nil
}
