// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cwt

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/filterbank"
	"github.com/emer/spectral/scale"
	"github.com/emer/spectral/vec"
)

// PWTOptions configures a pseudo wavelet transform: the wavelet pipeline
// with a perceptual filter bank in place of the wavelet kernels.
type PWTOptions struct {
	Num       int
	Radix2Exp int

	Samplate     int
	LowFre       float32
	HighFre      float32
	BinPerOctave int

	ScaleType scale.Type
	Style     filterbank.StyleType
	Normal    filterbank.NormalType

	IsPad bool
	Debug bool
}

// Defaults sets the standard configuration: slaney triangles on the octave
// axis, no normalization.
func (o *PWTOptions) Defaults() {
	o.Samplate = 32000
	o.BinPerOctave = 12
	o.ScaleType = scale.Octave
	o.Style = filterbank.StyleSlaney
	o.Normal = filterbank.NormalNone
}

// PWT owns the perceptual kernel table and transform plans for one
// configuration.
type PWT struct {
	opts PWTOptions

	fftLength  int
	dataLength int
	padLength  int

	fftObj *fft.FFT
	dftObj *fft.DFT

	bank    *etensor.Float32
	bankDet *etensor.Float32
	freBand []float32
	binBand []int

	realArr1  []float32
	imageArr1 []float32

	rowR []float32
	rowI []float32
	invR []float32
	invI []float32
}

// NewPWT builds a PWT. The gammatone style has no pseudo-whole counterpart
// and is rejected.
func NewPWT(opts *PWTOptions) (*PWT, error) {
	o := *opts
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("pwt: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	if o.Samplate <= 0 || o.Samplate > 196000 {
		o.Samplate = 32000
	}
	if o.ScaleType > scale.LogSpace {
		return nil, fmt.Errorf("pwt: scale %v: %w", o.ScaleType, ErrParamRange)
	}
	if o.Style == filterbank.StyleGammatone {
		return nil, fmt.Errorf("pwt: gammatone style: %w", filterbank.ErrDomainRequirement)
	}
	dataLength := 1 << o.Radix2Exp
	if o.Num < 2 || o.Num > dataLength/2+1 {
		return nil, fmt.Errorf("pwt: num %d: %w", o.Num, ErrParamRange)
	}
	co := Options{Samplate: o.Samplate, LowFre: o.LowFre, HighFre: o.HighFre, ScaleType: o.ScaleType}
	resolveFreRange(&co)
	o.LowFre, o.HighFre = co.LowFre, co.HighFre
	if o.BinPerOctave < 4 || o.BinPerOctave > 48 {
		o.BinPerOctave = 12
	}
	if err := checkOverflow(o.Num, o.ScaleType, o.LowFre, o.HighFre, o.Samplate, dataLength, o.BinPerOctave); err != nil {
		return nil, fmt.Errorf("pwt: %w", err)
	}

	padLength := 0
	if o.IsPad {
		if dataLength <= 1e5 {
			padLength = dataLength / 2
		} else {
			padLength = ceilLog2(dataLength)
		}
	}
	fftLength := dataLength + 2*padLength

	p := &PWT{
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
		p.fftObj = f
	} else {
		p.dftObj = fft.NewDFT(fftLength)
	}

	// pseudo-whole bank over the padded spectrum
	bank, freBand, binBand, err := filterbank.Auditory(o.Num, fftLength, o.Samplate, true,
		o.ScaleType, o.Style, o.Normal, o.LowFre, o.HighFre, o.BinPerOctave)
	if err != nil {
		return nil, fmt.Errorf("pwt: %w", err)
	}
	p.bank = bank
	p.freBand = freBand
	p.binBand = binBand

	if o.Debug {
		log.Debug("pwt", "num", o.Num, "dataLength", dataLength, "padLength", padLength,
			"scale", o.ScaleType, "style", o.Style, "normal", o.Normal,
			"lowFre", o.LowFre, "highFre", o.HighFre)
	}
	return p, nil
}

func ceilLog2(n int) int {
	e := 0
	for (1 << e) < n {
		e++
	}
	return e
}

// FreBand returns the band center frequencies.
func (p *PWT) FreBand() []float32 { return p.freBand }

// BinBand returns the band center bins.
func (p *PWT) BinBand() []int { return p.binBand }

// DataLength returns the expected input length.
func (p *PWT) DataLength() int { return p.dataLength }

// Transform runs the forward pass, filling dstR/dstI as num × dataLength
// planes in ascending band order.
func (p *PWT) Transform(data []float32, dstR, dstI *etensor.Float32) error {
	return p.run(data, p.bank, false, dstR, dstI)
}

// EnableDeriv precomputes the jω companion kernels.
func (p *PWT) EnableDeriv() {
	if p.bankDet != nil {
		return
	}
	wArr := make([]float32, p.fftLength)
	for i := 0; i <= p.fftLength/2; i++ {
		wArr[i] = float32(i) * 2 * math32.Pi / float32(p.fftLength)
	}
	for i, j := p.fftLength/2+1, p.fftLength/2-1; i < p.fftLength && j >= 0; i, j = i+1, j-1 {
		wArr[i] = -wArr[j]
	}
	det := etensor.NewFloat32([]int{p.opts.Num, p.fftLength}, nil, nil)
	vec.MatMulRowsVec(p.bank.Values, p.opts.Num, p.fftLength, wArr, det.Values)
	p.bankDet = det
}

// TransformDeriv runs the phase-rate companion transform. A nil data reuses
// the spectrum of the last Transform call.
func (p *PWT) TransformDeriv(data []float32, dstR, dstI *etensor.Float32) error {
	if p.bankDet == nil {
		return fmt.Errorf("pwt: deriv kernels not enabled: %w", ErrParamRange)
	}
	return p.run(data, p.bankDet, true, dstR, dstI)
}

func (p *PWT) run(data []float32, bank *etensor.Float32, deriv bool, dstR, dstI *etensor.Float32) error {
	num := p.opts.Num
	if data != nil {
		if len(data) != p.dataLength {
			return fmt.Errorf("pwt: data length %d want %d: %w", len(data), p.dataLength, ErrParamRange)
		}
		cur := data
		if p.padLength > 0 {
			cur = vec.Pad(data, p.padLength, p.padLength, vec.PadReflect, 0)
		}
		if p.fftObj != nil {
			p.fftObj.Forward(cur, nil, p.realArr1, p.imageArr1)
		} else {
			p.dftObj.Forward(cur, nil, p.realArr1, p.imageArr1)
		}
	}

	dstR.SetShape([]int{num, p.dataLength}, nil, []string{"band", "time"})
	dstI.SetShape([]int{num, p.dataLength}, nil, []string{"band", "time"})

	for i := 0; i < num; i++ {
		row := bank.Values[i*p.fftLength : (i+1)*p.fftLength]
		if !deriv {
			for j, w := range row {
				p.rowR[j] = w * p.realArr1[j]
				p.rowI[j] = w * p.imageArr1[j]
			}
		} else {
			for j, w := range row {
				p.rowR[j] = -w * p.imageArr1[j]
				p.rowI[j] = w * p.realArr1[j]
			}
		}
		if p.fftObj != nil {
			p.fftObj.Inverse(p.rowR, p.rowI, p.invR, p.invI)
		} else {
			p.dftObj.Inverse(p.rowR, p.rowI, p.invR, p.invI)
		}
		copy(dstR.Values[i*p.dataLength:(i+1)*p.dataLength], p.invR[p.padLength:p.padLength+p.dataLength])
		copy(dstI.Values[i*p.dataLength:(i+1)*p.dataLength], p.invI[p.padLength:p.padLength+p.dataLength])
	}
	return nil
}
