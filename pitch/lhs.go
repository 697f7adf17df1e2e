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

// LHS estimates pitch from the log harmonic sum: the same interpolated
// spectrum as HPS, accumulating the sum of log magnitudes instead of the
// product. More robust to a single weak harmonic.
type LHS struct {
	base

	interpFFTLength int
	fftObj          *fft.FFT

	minIndex      int
	maxIndex      int
	harmonicCount int

	dataArr1 []float32
	realArr1 []float32
	imagArr1 []float32
	dbArr    []float32

	sumRow []float32
}

// NewLHS builds a log-harmonic-sum pitch estimator.
func NewLHS(opts *Options) (*LHS, error) {
	o, err := resolve(opts, false)
	if err != nil {
		return nil, err
	}
	b, err := newBase(o)
	if err != nil {
		return nil, err
	}
	interpN := vec.RoundPowerTwo(o.Samplate)
	fftObj, err := fft.NewFFT(vec.PowerTwoExp(interpN))
	if err != nil {
		return nil, err
	}
	p := &LHS{
		base:            b,
		interpFFTLength: interpN,
		fftObj:          fftObj,
	}
	p.minIndex = int(math32.Ceil(o.LowFre))
	p.maxIndex = int(math32.Floor(o.HighFre))
	p.harmonicCount = clampHarmonics(o.HarmonicCount, o.Samplate, p.maxIndex)

	p.dataArr1 = make([]float32, interpN)
	p.realArr1 = make([]float32, interpN)
	p.imagArr1 = make([]float32, interpN)
	p.dbArr = make([]float32, interpN)
	p.sumRow = make([]float32, interpN)

	if o.Debug {
		log.Debug("pitch lhs", "fftLength", b.fftLength, "interpFFTLength", interpN,
			"minIndex", p.minIndex, "maxIndex", p.maxIndex,
			"harmonicCount", p.harmonicCount, "continue", o.IsContinue)
	}
	return p, nil
}

// Pitch absorbs a chunk and returns one frequency estimate per complete
// frame.
func (p *LHS) Pitch(data []float32) []float32 {
	if len(data) == 0 {
		return nil
	}
	timeLen := p.engine.Push(data)
	if timeLen == 0 {
		return nil
	}
	n := p.interpFFTLength
	freArr := make([]float32, timeLen)
	for i := 0; i < timeLen; i++ {
		p.frame(i, p.dataArr1)
		p.fftObj.Forward(p.dataArr1, nil, p.realArr1, p.imagArr1)
		vec.CAbs(p.realArr1, p.imagArr1, p.dbArr)
		vec.Log(p.dbArr, nil)

		for j := 0; j <= p.maxIndex; j++ {
			sum := float32(0)
			for k := 0; k < p.harmonicCount; k++ {
				idx := j * (k + 1)
				if idx >= n {
					break
				}
				sum += p.dbArr[idx]
			}
			p.sumRow[j] = sum
		}

		idxs, _ := vec.PeakPick(p.sumRow[:p.maxIndex+1], p.minIndex, p.maxIndex, 1, 1)
		freArr[i] = float32(idxs[0]+1) * float32(p.opts.Samplate) / float32(n)
	}
	return freArr
}
