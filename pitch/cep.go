// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pitch

import (
	"github.com/charmbracelet/log"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/vec"
)

// CEP estimates pitch from the real cepstrum: the inverse transform of the
// log power spectrum peaks at the fundamental lag.
type CEP struct {
	base

	cepFFTLength int
	fftObj       *fft.FFT

	minIndex int
	maxIndex int

	dataArr1 []float32
	realArr1 []float32
	imagArr1 []float32
	realArr2 []float32

	cepRow []float32
}

// NewCEP builds a cepstrum pitch estimator.
func NewCEP(opts *Options) (*CEP, error) {
	o, err := resolve(opts, true)
	if err != nil {
		return nil, err
	}
	b, err := newBase(o)
	if err != nil {
		return nil, err
	}
	// the cepstrum transform runs at twice the frame length
	fftObj, err := fft.NewFFT(o.Radix2Exp + 1)
	if err != nil {
		return nil, err
	}
	p := &CEP{
		base:         b,
		cepFFTLength: 2 * b.fftLength,
		fftObj:       fftObj,
	}
	p.minIndex, p.maxIndex = lagRange(o)
	p.dataArr1 = make([]float32, p.cepFFTLength)
	p.realArr1 = make([]float32, p.cepFFTLength)
	p.imagArr1 = make([]float32, p.cepFFTLength)
	p.realArr2 = make([]float32, p.cepFFTLength)
	p.cepRow = make([]float32, p.cepFFTLength)

	if o.Debug {
		log.Debug("pitch cep", "fftLength", b.fftLength, "slideLength", o.SlideLength,
			"minIndex", p.minIndex, "maxIndex", p.maxIndex,
			"window", o.WindowType, "continue", o.IsContinue)
	}
	return p, nil
}

// Pitch absorbs a chunk and returns one frequency estimate per complete
// frame. An empty result means the data was buffered (stream underflow).
func (p *CEP) Pitch(data []float32) []float32 {
	if len(data) == 0 {
		return nil
	}
	timeLen := p.engine.Push(data)
	if timeLen == 0 {
		return nil
	}
	freArr := make([]float32, timeLen)
	for i := 0; i < timeLen; i++ {
		p.frame(i, p.dataArr1)
		p.fftObj.Forward(p.dataArr1, nil, p.realArr1, p.imagArr1)
		vec.CSquare(p.realArr1, p.imagArr1, p.realArr2)
		vec.Log(p.realArr2, nil)
		p.fftObj.Inverse(p.realArr2, nil, p.cepRow, p.imagArr1)

		idxs, _ := vec.PeakPick(p.cepRow, p.minIndex, p.maxIndex, 1, 1)
		freArr[i] = float32(p.opts.Samplate) / float32(idxs[0]+1)
	}
	return freArr
}
