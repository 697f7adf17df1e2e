// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pitch

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"

	"github.com/emer/spectral/fft"
	"github.com/emer/spectral/vec"
	"github.com/emer/spectral/window"
)

// HROptions configures a harmonic-ratio estimator.
type HROptions struct {
	Samplate    int
	LowFre      float32 // lowest fundamental the lag search reaches
	Radix2Exp   int     // analysis window is 1 << Radix2Exp samples
	WindowType  window.Type
	SlideLength int // default windowLength/4
	Debug       bool
}

// Defaults sets the standard 25 Hz floor at 32 kHz with 4096-sample windows.
func (o *HROptions) Defaults() {
	o.Samplate = 32000
	o.LowFre = 25
	o.Radix2Exp = 12
	o.WindowType = window.Hamm
}

// HR measures per-frame voicing as the peak of the normalized
// autocorrelation past its first zero crossing, refined by parabolic
// interpolation. Values approach 1 for strongly periodic frames.
type HR struct {
	fftObj *fft.FFT

	samplate     int
	fftLength    int
	windowLength int
	slideLength  int
	maxLength    int

	winData []float32

	curData  []float32
	vArr1    []float32
	vArr2    []float32
	realArr1 []float32
	imagArr1 []float32
	realArr2 []float32
	imagArr2 []float32
}

// NewHR builds a harmonic-ratio estimator.
func NewHR(opts *HROptions) (*HR, error) {
	o := *opts
	if o.Samplate <= 0 || o.Samplate > 196000 {
		o.Samplate = 32000
	}
	if o.LowFre <= 0 || o.LowFre >= float32(o.Samplate)/2 {
		o.LowFre = 25
	}
	if o.Radix2Exp == 0 {
		o.Radix2Exp = 12
	}
	// the correlation transform runs at twice the window length
	if o.Radix2Exp+1 < 1 || o.Radix2Exp+1 > 30 {
		return nil, fmt.Errorf("pitch hr: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	fftLength := 1 << (o.Radix2Exp + 1)
	windowLength := fftLength / 2
	if o.SlideLength <= 0 {
		o.SlideLength = windowLength / 4
	}
	maxLength := int(math32.Floor(float32(o.Samplate) / o.LowFre))
	if maxLength > windowLength-1 {
		maxLength = windowLength - 1
	}

	fftObj, err := fft.NewFFT(o.Radix2Exp + 1)
	if err != nil {
		return nil, err
	}
	h := &HR{
		fftObj:       fftObj,
		samplate:     o.Samplate,
		fftLength:    fftLength,
		windowLength: windowLength,
		slideLength:  o.SlideLength,
		maxLength:    maxLength,
		winData:      window.ForFFT(o.WindowType, windowLength),
		curData:      make([]float32, fftLength),
		vArr1:        make([]float32, fftLength),
		vArr2:        make([]float32, fftLength),
		realArr1:     make([]float32, fftLength),
		imagArr1:     make([]float32, fftLength),
		realArr2:     make([]float32, fftLength),
		imagArr2:     make([]float32, fftLength),
	}
	if o.Debug {
		log.Debug("pitch hr", "windowLength", windowLength, "slideLength", o.SlideLength,
			"maxLength", maxLength, "window", o.WindowType)
	}
	return h, nil
}

// TimeLength returns the frame count for dataLength samples.
func (h *HR) TimeLength(dataLength int) int {
	if dataLength < h.windowLength {
		return 0
	}
	return (dataLength-h.windowLength)/h.slideLength + 1
}

// Ratio computes the per-frame harmonic ratio of data. Inputs under one
// window emit no frames.
func (h *HR) Ratio(data []float32) []float32 {
	timeLen := h.TimeLength(len(data))
	if timeLen == 0 {
		return nil
	}
	out := make([]float32, timeLen)
	for i := 0; i < timeLen; i++ {
		frame := data[i*h.slideLength : i*h.slideLength+h.windowLength]
		for j := range h.curData {
			if j < h.windowLength {
				h.curData[j] = frame[j] * h.winData[j]
			} else {
				h.curData[j] = 0
			}
		}

		// autocorrelation through the power spectrum
		h.fftObj.Forward(h.curData, nil, h.realArr1, h.imagArr1)
		vec.CSquare(h.realArr1, h.imagArr1, h.vArr1)
		h.fftObj.Inverse(h.vArr1, nil, h.realArr2, h.imagArr2)

		// reversed running energy of the tail the lag slides off
		cum := float32(0)
		for j := 0; j < h.windowLength; j++ {
			cum += h.curData[j] * h.curData[j]
			h.imagArr2[j] = cum
		}
		for j, k := h.windowLength-2, 0; j > h.windowLength-h.maxLength-2; j, k = j-1, k+1 {
			h.vArr2[k] = h.imagArr2[j]
		}

		// search starts past the first zero crossing
		minIndex := 0
		for j := 2; j <= h.maxLength; j++ {
			if (h.realArr2[j] >= 0 && h.realArr2[j-1] <= 0) ||
				(h.realArr2[j] <= 0 && h.realArr2[j-1] >= 0) {
				minIndex = j - 1
				break
			}
		}

		for j, k := minIndex+1, 0; j < h.maxLength; j, k = j+1, k+1 {
			h.vArr1[k] = h.realArr2[j] / math32.Sqrt(h.realArr2[0]*h.vArr2[j]+1e-16)
		}

		span := h.maxLength - minIndex - 1
		idx, peak := vec.Max(h.vArr1[:span])
		if idx == 0 || idx == span-1 {
			out[i] = peak
		} else {
			_, refined := vec.QuadInterp(h.vArr1[idx-1], peak, h.vArr1[idx+1])
			out[i] = refined
		}
	}
	return out
}
