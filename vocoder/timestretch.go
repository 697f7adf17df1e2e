// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocoder

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"

	"github.com/emer/spectral/stft"
	"github.com/emer/spectral/window"
)

// TimeStretchOptions configures a time stretcher.
type TimeStretchOptions struct {
	Radix2Exp   int // default 12
	SlideLength int // default fftLength/4
	WindowType  window.Type
	Debug       bool
}

// Defaults sets the standard hann analysis at 4096/1024.
func (o *TimeStretchOptions) Defaults() {
	o.Radix2Exp = 12
	o.WindowType = window.Hann
}

// TimeStretch changes duration without changing pitch: STFT, phase vocoder
// at the requested rate, inverse STFT.
type TimeStretch struct {
	stftObj *stft.STFT

	fftLength   int
	slideLength int

	mRealArr1  *etensor.Float32
	mImageArr1 *etensor.Float32
	mRealArr2  *etensor.Float32
	mImageArr2 *etensor.Float32
}

// NewTimeStretch builds a time stretcher.
func NewTimeStretch(opts *TimeStretchOptions) (*TimeStretch, error) {
	o := *opts
	if o.Radix2Exp == 0 {
		o.Radix2Exp = 12
	}
	if o.Radix2Exp < 1 || o.Radix2Exp > 30 {
		return nil, fmt.Errorf("timestretch: radix2Exp %d: %w", o.Radix2Exp, ErrParamRange)
	}
	fftLength := 1 << o.Radix2Exp
	if o.SlideLength <= 0 {
		o.SlideLength = fftLength / 4
	}
	st, err := stft.New(&stft.Options{
		Radix2Exp:   o.Radix2Exp,
		SlideLength: o.SlideLength,
		WindowType:  o.WindowType,
	})
	if err != nil {
		return nil, err
	}
	ts := &TimeStretch{
		stftObj:     st,
		fftLength:   fftLength,
		slideLength: o.SlideLength,
		mRealArr1:   etensor.NewFloat32([]int{1, 1}, nil, nil),
		mImageArr1:  etensor.NewFloat32([]int{1, 1}, nil, nil),
		mRealArr2:   etensor.NewFloat32([]int{1, 1}, nil, nil),
		mImageArr2:  etensor.NewFloat32([]int{1, 1}, nil, nil),
	}
	if o.Debug {
		log.Debug("timestretch", "fftLength", fftLength, "slideLength", o.SlideLength,
			"window", o.WindowType)
	}
	return ts, nil
}

// Capacity returns the output buffer size needed for dataLength samples at
// the given rate.
func (ts *TimeStretch) Capacity(rate float32, dataLength int) int {
	return int(math32.Ceil(float32(dataLength)/rate)) + ts.fftLength
}

// Stretch time-stretches data by rate (>1 shortens, <1 lengthens) into dst
// and returns the nominal output length round(dataLength/rate). Caller
// buffers are untouched on error.
func (ts *TimeStretch) Stretch(rate float32, data []float32, dst []float32) (int, error) {
	if rate <= 0 {
		return 0, fmt.Errorf("timestretch: rate %g: %w", rate, ErrParamRange)
	}
	if err := ts.stftObj.Transform(data, ts.mRealArr1, ts.mImageArr1); err != nil {
		return 0, err
	}
	timeLength1 := ts.mRealArr1.Dim(0)
	if err := PhaseVocoder(ts.mRealArr1, ts.mImageArr1, ts.slideLength, rate,
		ts.mRealArr2, ts.mImageArr2); err != nil {
		return 0, err
	}
	timeLength2 := int(math32.Ceil(float32(timeLength1) / rate))
	if _, err := ts.stftObj.Inverse(ts.mRealArr2, ts.mImageArr2, timeLength2, dst); err != nil {
		return 0, err
	}
	return int(math32.Round(float32(len(data)) / rate)), nil
}
