// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pitch implements the frame-wise fundamental frequency estimators:
// real cepstrum (CEP), normalized autocorrelation (NCF), harmonic product
// spectrum (HPS) and log harmonic sum (LHS), plus the harmonic-ratio voicing
// measure. The four estimators share the streaming frame engine and differ
// only in the per-frame kernel.
package pitch

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/stream"
	"github.com/emer/spectral/window"
)

// ErrParamRange reports a construction parameter outside its domain.
var ErrParamRange = errors.New("parameter out of range")

// Options configures a pitch estimator. Zero numeric values select the
// defaults; a zero WindowType is Rect, not the Defaults Hamm.
type Options struct {
	Samplate int
	LowFre   float32
	HighFre  float32

	Radix2Exp   int
	SlideLength int // default fftLength/4

	WindowType window.Type

	HarmonicCount int // HPS/LHS only

	IsContinue bool
	Debug      bool
}

// Defaults sets the standard estimator range: 32–2000 Hz at 32 kHz with 4096
// frames hopped by a quarter.
func (o *Options) Defaults() {
	o.Samplate = 32000
	o.LowFre = 32
	o.HighFre = 2000
	o.Radix2Exp = 12
	o.WindowType = window.Hamm
	o.HarmonicCount = 5
}

// resolve validates and fills defaults the way every estimator does.
// lagWindows limits the window family to Rect, Hann and Hamm for the
// lag-domain kernels; later types are replaced by Hamm.
func resolve(opts *Options, lagWindows bool) (Options, error) {
	o := *opts
	if o.Samplate <= 0 || o.Samplate > 196000 {
		o.Samplate = 32000
	}
	if o.LowFre < 27 {
		o.LowFre = 32
	}
	if o.HighFre <= o.LowFre || o.HighFre >= float32(o.Samplate)/2 {
		o.LowFre = 32
		o.HighFre = 2000
	}
	if o.Radix2Exp == 0 {
		o.Radix2Exp = 12
	}
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return o, fmt.Errorf("pitch: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	if lagWindows && o.WindowType > window.Hamm {
		o.WindowType = window.Hamm
	}
	if o.SlideLength <= 0 {
		o.SlideLength = (1 << o.Radix2Exp) / 4
	}
	if o.HarmonicCount <= 0 {
		o.HarmonicCount = 5
	}
	return o, nil
}

// base carries the pieces all four estimators share.
type base struct {
	opts      Options
	fftLength int
	engine    *stream.FrameEngine
	winData   []float32
}

func newBase(o Options) (base, error) {
	fftLength := 1 << o.Radix2Exp
	eng, err := stream.NewFrameEngine(fftLength, o.SlideLength, o.IsContinue)
	if err != nil {
		return base{}, err
	}
	return base{
		opts:      o,
		fftLength: fftLength,
		engine:    eng,
		winData:   window.ForFFT(o.WindowType, fftLength),
	}, nil
}

// TimeLength returns how many frames a call with dataLength samples would
// emit, counting any buffered tail.
func (b *base) TimeLength(dataLength int) int {
	return b.engine.TimeLength(dataLength)
}

// Reset clears the stream tail.
func (b *base) Reset() { b.engine.Reset() }

// frame materializes frame i with the analysis window applied into dst
// (zeroing any tail of dst beyond the frame).
func (b *base) frame(i int, dst []float32) {
	f := b.engine.Frame(i)
	if b.opts.WindowType == window.Rect {
		copy(dst, f)
	} else {
		for j, x := range f {
			dst[j] = x * b.winData[j]
		}
	}
	for j := b.fftLength; j < len(dst); j++ {
		dst[j] = 0
	}
}

// lagRange converts the frequency range to cepstral/autocorrelation lag
// indices.
func lagRange(o Options) (int, int) {
	minIndex := int(math32.Round(float32(o.Samplate) / o.HighFre))
	maxIndex := int(math32.Round(float32(o.Samplate) / o.LowFre))
	return minIndex, maxIndex
}
