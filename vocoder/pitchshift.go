// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocoder

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/emer/spectral/vec"
)

// PitchShift transposes by semitones without changing duration: a time
// stretch at rate 2^(−n/12) followed by resampling at the inverse ratio.
type PitchShift struct {
	timeStretch *TimeStretch
	resampler   *Resampler
}

// NewPitchShift builds a pitch shifter over the same options as the time
// stretcher.
func NewPitchShift(opts *TimeStretchOptions) (*PitchShift, error) {
	ts, err := NewTimeStretch(opts)
	if err != nil {
		return nil, err
	}
	return &PitchShift{timeStretch: ts, resampler: NewResampler()}, nil
}

// Shift transposes data by nSemitone (−12..12) into dst and returns the
// output length. Caller buffers are untouched on error.
func (ps *PitchShift) Shift(nSemitone int, data []float32, dst []float32) (int, error) {
	if nSemitone > 12 || nSemitone < -12 {
		return 0, fmt.Errorf("pitchshift: semitone %d: %w", nSemitone, ErrParamRange)
	}
	rate := math32.Pow(2, -float32(nSemitone)/12)

	stretched := vec.New(ps.timeStretch.Capacity(rate, len(data)))
	n, err := ps.timeStretch.Stretch(rate, data, stretched)
	if err != nil {
		return 0, err
	}

	if err := ps.resampler.SetRatio(rate); err != nil {
		return 0, err
	}
	return ps.resampler.Resample(stretched[:n], dst)
}
