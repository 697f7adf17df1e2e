// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocoder

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/vec"
	"github.com/emer/spectral/window"
)

// Resampler converts between sample rates with a Kaiser-windowed sinc
// interpolator evaluated at fractional positions.
type Resampler struct {
	ratio float32 // output rate / input rate

	halfWidth int
	kaiser    []float32
}

// resamplerTaps is the one-sided tap count of the interpolation kernel.
const resamplerTaps = 16

// NewResampler builds a resampler at unit ratio.
func NewResampler() *Resampler {
	r := &Resampler{ratio: 1, halfWidth: resamplerTaps}
	r.kaiser = window.CreateParam(window.Kaiser, 2*resamplerTaps+1, false, 8)
	return r
}

// SetRatio sets the output/input rate ratio.
func (r *Resampler) SetRatio(ratio float32) error {
	if ratio <= 0 {
		return fmt.Errorf("resample: ratio %g: %w", ratio, ErrParamRange)
	}
	r.ratio = ratio
	return nil
}

// Len returns the output length for an input of dataLength samples.
func (r *Resampler) Len(dataLength int) int {
	return int(math32.Round(float32(dataLength) * r.ratio))
}

// Resample writes the rate-converted signal into dst and returns the sample
// count. dst must hold Len(len(data)) samples.
func (r *Resampler) Resample(data []float32, dst []float32) (int, error) {
	outLen := r.Len(len(data))
	if len(dst) < outLen {
		return 0, fmt.Errorf("resample: dst %d want %d: %w", len(dst), outLen, ErrParamRange)
	}
	// when decimating, the kernel cutoff drops to the output nyquist
	cut := float32(0.5)
	if r.ratio < 1 {
		cut = 0.5 * r.ratio
	}
	step := 1 / r.ratio
	for i := 0; i < outLen; i++ {
		t := float32(i) * step
		center := int(math32.Floor(t))
		var acc float64
		for k := center - r.halfWidth; k <= center+r.halfWidth; k++ {
			if k < 0 || k >= len(data) {
				continue
			}
			d := t - float32(k)
			h := 2 * cut * vec.Sinc(2*cut*d)
			// window indexed by the distance from the kernel center
			wi := k - (center - r.halfWidth)
			acc += float64(data[k]) * float64(h) * float64(r.kaiser[wi])
		}
		dst[i] = float32(acc)
	}
	return outLen, nil
}
