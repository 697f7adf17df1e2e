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

// HPS estimates pitch from the harmonic product spectrum: the magnitude
// spectrum is interpolated to near 1 Hz resolution by zero-padding the frame
// to roundPowerTwo(samplate), and candidate fundamentals accumulate the
// product of their harmonics.
type HPS struct {
	base

	interpFFTLength int
	fftObj          *fft.FFT

	minIndex      int
	maxIndex      int
	harmonicCount int

	dataArr1 []float32
	realArr1 []float32
	imagArr1 []float32
	realArr2 []float32

	hpsRow []float32
}

// NewHPS builds a harmonic-product pitch estimator.
func NewHPS(opts *Options) (*HPS, error) {
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
	p := &HPS{
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
	p.realArr2 = make([]float32, interpN)
	p.hpsRow = make([]float32, interpN)

	if o.Debug {
		log.Debug("pitch hps", "fftLength", b.fftLength, "interpFFTLength", interpN,
			"minIndex", p.minIndex, "maxIndex", p.maxIndex,
			"harmonicCount", p.harmonicCount, "continue", o.IsContinue)
	}
	return p, nil
}

// clampHarmonics keeps every harmonic of the highest candidate inside the
// spectrum.
func clampHarmonics(count, samplate, maxIndex int) int {
	k := samplate / (maxIndex + 1)
	if count > k {
		count = k
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Pitch absorbs a chunk and returns one frequency estimate per complete
// frame.
func (p *HPS) Pitch(data []float32) []float32 {
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
		vec.CAbs(p.realArr1, p.imagArr1, p.realArr2)

		for j := 0; j <= p.maxIndex; j++ {
			hps := float32(1)
			for k := 0; k < p.harmonicCount; k++ {
				idx := j * (k + 1)
				if idx >= n {
					break
				}
				hps *= p.realArr2[idx]
			}
			p.hpsRow[j] = hps
		}

		idxs, _ := vec.PeakPick(p.hpsRow[:p.maxIndex+1], p.minIndex, p.maxIndex, 1, 1)
		freArr[i] = float32(idxs[0]+1) * float32(p.opts.Samplate) / float32(n)
	}
	return freArr
}
