// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pitch

import (
	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/vec"
)

// NCF estimates pitch from the normalized autocorrelation computed through
// the power spectrum, with the lag axis rebuilt symmetric about zero and
// scaled by the zero-lag energy.
type NCF struct {
	base

	corrFFTLength int
	fftObj        *fft.FFT

	minIndex int
	maxIndex int

	dataArr1 []float32
	realArr1 []float32
	imagArr1 []float32
	realArr2 []float32

	corrRow []float32
}

// NewNCF builds a normalized-correlation pitch estimator.
func NewNCF(opts *Options) (*NCF, error) {
	o, err := resolve(opts, true)
	if err != nil {
		return nil, err
	}
	b, err := newBase(o)
	if err != nil {
		return nil, err
	}
	fftObj, err := fft.NewFFT(o.Radix2Exp + 1)
	if err != nil {
		return nil, err
	}
	p := &NCF{
		base:          b,
		corrFFTLength: 2 * b.fftLength,
		fftObj:        fftObj,
	}
	p.minIndex, p.maxIndex = lagRange(o)
	p.dataArr1 = make([]float32, p.corrFFTLength)
	p.realArr1 = make([]float32, p.corrFFTLength)
	p.imagArr1 = make([]float32, p.corrFFTLength)
	p.realArr2 = make([]float32, p.corrFFTLength)
	p.corrRow = make([]float32, p.corrFFTLength)

	if o.Debug {
		log.Debug("pitch ncf", "fftLength", b.fftLength, "slideLength", o.SlideLength,
			"minIndex", p.minIndex, "maxIndex", p.maxIndex,
			"window", o.WindowType, "continue", o.IsContinue)
	}
	return p, nil
}

// Pitch absorbs a chunk and returns one frequency estimate per complete
// frame.
func (p *NCF) Pitch(data []float32) []float32 {
	if len(data) == 0 {
		return nil
	}
	timeLen := p.engine.Push(data)
	if timeLen == 0 {
		return nil
	}

	n := p.corrFFTLength
	lagLen := p.maxIndex
	if lagLen > n-1 {
		lagLen = n - 1
	}
	lagNum := (2*lagLen + 1) - (p.minIndex + p.maxIndex)
	padNum := p.minIndex - 1

	freArr := make([]float32, timeLen)
	for i := 0; i < timeLen; i++ {
		p.frame(i, p.dataArr1)
		p.fftObj.Forward(p.dataArr1, nil, p.realArr1, p.imagArr1)
		vec.CSquare(p.realArr1, p.imagArr1, p.realArr2)
		p.fftObj.Inverse(p.realArr2, nil, p.realArr1, p.imagArr1)
		vec.MulValue(p.realArr1, 1/math32.Sqrt(float32(n)), nil)

		// symmetric lag axis: negative lags wrap at the top of the inverse
		copy(p.realArr2[:lagLen], p.realArr1[n-lagLen:])
		copy(p.realArr2[lagLen:2*lagLen+1], p.realArr1[:lagLen+1])

		rms := math32.Sqrt(p.realArr2[p.maxIndex])

		row := p.corrRow
		for j := 0; j < padNum; j++ {
			row[j] = 0
		}
		copy(row[padNum:padNum+lagNum], p.realArr2[p.minIndex+p.maxIndex:p.minIndex+p.maxIndex+lagNum])
		vec.MulValue(row[padNum:padNum+lagNum], 1/rms, nil)

		idxs, _ := vec.PeakPick(row[:p.maxIndex+1], p.minIndex, p.maxIndex, 1, 1)
		freArr[i] = float32(p.opts.Samplate) / float32(idxs[0]+1)
	}
	return freArr
}
